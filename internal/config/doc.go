// Package config provides settings and cluster registry management for
// ceph-telemetry.
//
// Settings are layered with viper: command line flags win over
// CEPH_TELEMETRY_* environment variables, which win over the settings file,
// which wins over built-in defaults.
//
// The cluster registry is a small YAML file remembering the dashboards the
// operator has worked with, so `--cluster prod` can stand in for a URL,
// username and TLS preference.
//
// # File Locations
//
// Both files live in the platform configuration directory:
//   - Linux: $XDG_CONFIG_HOME/ceph-telemetry or $HOME/.config/ceph-telemetry
//   - macOS: $HOME/.config/ceph-telemetry
//   - Windows: %LOCALAPPDATA%\ceph-telemetry
//
// config.yaml holds settings, clusters.yaml holds the registry.
//
// # Security
//
// The registry NEVER stores dashboard passwords. Pass them with --password
// or CEPH_TELEMETRY_PASSWORD, or let the CLI prompt for them.
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	registry.SetCluster("prod", "https://mgr-a.example:8443", "admin", true)
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
package config
