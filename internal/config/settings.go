package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the settings read
const EnvPrefix = "CEPH_TELEMETRY"

// Settings holds the effective configuration of a command run.
type Settings struct {
	URL         string        `mapstructure:"url"`
	Username    string        `mapstructure:"username"`
	Password    string        `mapstructure:"password"`
	Insecure    bool          `mapstructure:"insecure"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Cluster     string        `mapstructure:"cluster"`
	LogLevel    string        `mapstructure:"log_level"`
	LogFile     string        `mapstructure:"log_file"`
	DownloadDir string        `mapstructure:"download_dir"`
}

// flagKeys maps settings keys to the command line flags that override them
var flagKeys = map[string]string{
	"url":          "url",
	"username":     "user",
	"password":     "password",
	"insecure":     "insecure",
	"timeout":      "timeout",
	"cluster":      "cluster",
	"log_level":    "log-level",
	"log_file":     "log-file",
	"download_dir": "download-dir",
}

// Load resolves settings with full precedence:
// flags > CEPH_TELEMETRY_* env vars > settings file > defaults.
// flags may be nil; flags missing from the set are skipped.
func Load(flags *pflag.FlagSet) (*Settings, error) {
	path, err := GetSettingsPath()
	if err != nil {
		return nil, fmt.Errorf("resolving settings path: %w", err)
	}
	return LoadFrom(path, flags)
}

// LoadFrom is Load with an explicit settings file
func LoadFrom(path string, flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("url", "")
	v.SetDefault("username", "")
	v.SetDefault("password", "")
	v.SetDefault("insecure", false)
	v.SetDefault("timeout", "30s")
	v.SetDefault("cluster", "")
	v.SetDefault("log_level", "")
	v.SetDefault("log_file", "")
	v.SetDefault("download_dir", ".")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	for key := range flagKeys {
		if err := v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding --%s: %w", name, err)
				}
			}
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("reading settings file: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading settings file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshaling settings: %w", err)
	}
	if s.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %s", s.Timeout)
	}

	return &s, nil
}

// ApplyCluster fills connection settings that were not given explicitly
// from a registry entry. Insecure is only ever switched on.
func (s *Settings) ApplyCluster(c *Cluster) {
	if c == nil {
		return
	}
	if s.URL == "" {
		s.URL = c.URL
	}
	if s.Username == "" {
		s.Username = c.Username
	}
	if c.Insecure {
		s.Insecure = true
	}
}
