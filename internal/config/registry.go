package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	appName      = "ceph-telemetry"
	settingsFile = "config.yaml"
	registryFile = "clusters.yaml"
)

// fileMutex serializes registry writes within the process
var fileMutex sync.Mutex

// GetConfigDir returns the per-user directory holding config.yaml and
// clusters.yaml: %LOCALAPPDATA%\ceph-telemetry on Windows, otherwise
// $XDG_CONFIG_HOME/ceph-telemetry falling back to ~/.config/ceph-telemetry.
func GetConfigDir() (string, error) {
	if runtime.GOOS == "windows" {
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return filepath.Join(dir, appName), nil
		}
		profile := os.Getenv("USERPROFILE")
		if profile == "" {
			return "", errors.New("neither LOCALAPPDATA nor USERPROFILE is set")
		}
		return filepath.Join(profile, "AppData", "Local", appName), nil
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" && runtime.GOOS != "darwin" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// GetSettingsPath returns the full path to the settings file.
func GetSettingsPath() (string, error) {
	return configFilePath(settingsFile)
}

// GetRegistryPath returns the full path to the cluster registry file.
func GetRegistryPath() (string, error) {
	return configFilePath(registryFile)
}

func configFilePath(name string) (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, name), nil
}

// LoadRegistry reads clusters.yaml from GetConfigDir. A missing file yields
// an empty registry.
func LoadRegistry() (*Registry, error) {
	path, err := GetRegistryPath()
	if err != nil {
		return nil, fmt.Errorf("locate registry: %w", err)
	}
	return LoadRegistryFrom(path)
}

// LoadRegistryFrom loads a registry from path. Save writes back to the same path.
func LoadRegistryFrom(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		registry := NewRegistry()
		registry.path = path
		return registry, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}

	var registry Registry
	if err := yaml.Unmarshal(data, &registry); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}

	if registry.Version != 1 {
		return nil, fmt.Errorf("unsupported registry version: %d (expected 1)", registry.Version)
	}

	if registry.Clusters == nil {
		registry.Clusters = make(map[string]*Cluster)
	}
	registry.path = path

	return &registry, nil
}

// Path returns the file the registry is saved to.
func (r *Registry) Path() string {
	return r.path
}

// Save writes the registry through a temporary file and a rename so a crash
// never leaves a truncated clusters.yaml behind.
func (r *Registry) Save() error {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	if r.path == "" {
		path, err := GetRegistryPath()
		if err != nil {
			return fmt.Errorf("locate registry: %w", err)
		}
		r.path = path
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	body, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}
	data := fmt.Appendf(nil, "# ceph-telemetry cluster registry, read by --cluster.\n"+
		"# Dashboard passwords are never written here.\n# %s\n\n%s", r.path, body)

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write registry: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace registry: %w", err)
	}
	return nil
}
