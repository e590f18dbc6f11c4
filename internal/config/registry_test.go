package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if configDir == "" {
		t.Error("GetConfigDir() returned empty string")
	}

	if !strings.Contains(configDir, "ceph-telemetry") {
		t.Errorf("GetConfigDir() = %v, should contain 'ceph-telemetry'", configDir)
	}

	switch runtime.GOOS {
	case "windows":
		if !strings.Contains(configDir, "AppData") && !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	case "darwin":
		if !strings.Contains(configDir, ".config") {
			t.Errorf("macOS config dir should contain '.config', got: %v", configDir)
		}
	}

	t.Logf("Config directory: %s", configDir)
}

func TestGetConfigDir_XDG(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME is only honored on Linux and other Unix systems")
	}

	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if configDir != filepath.Join(xdg, "ceph-telemetry") {
		t.Errorf("GetConfigDir() = %v, want under %v", configDir, xdg)
	}
}

func TestConfigPaths(t *testing.T) {
	settingsPath, err := GetSettingsPath()
	if err != nil {
		t.Fatalf("GetSettingsPath() error = %v", err)
	}
	if filepath.Base(settingsPath) != "config.yaml" {
		t.Errorf("GetSettingsPath() should end with 'config.yaml', got: %v", settingsPath)
	}

	registryPath, err := GetRegistryPath()
	if err != nil {
		t.Fatalf("GetRegistryPath() error = %v", err)
	}
	if filepath.Base(registryPath) != "clusters.yaml" {
		t.Errorf("GetRegistryPath() should end with 'clusters.yaml', got: %v", registryPath)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}

	if reg.Clusters == nil {
		t.Error("NewRegistry().Clusters should not be nil")
	}

	if reg.Default != "" {
		t.Errorf("NewRegistry().Default = %q, want empty", reg.Default)
	}
}

func TestRegistryEnsureCluster(t *testing.T) {
	reg := NewRegistry()

	cluster1 := reg.EnsureCluster("prod")
	if cluster1 == nil {
		t.Fatal("EnsureCluster() returned nil")
	}

	cluster2 := reg.EnsureCluster("prod")
	if cluster1 != cluster2 {
		t.Error("EnsureCluster() should return same instance for same name")
	}

	cluster3 := reg.EnsureCluster("lab")
	if cluster1 == cluster3 {
		t.Error("EnsureCluster() should create new instance for different name")
	}
}

func TestRegistrySetCluster(t *testing.T) {
	reg := NewRegistry()

	reg.SetCluster("prod", "https://mgr-a.example:8443", "admin", true)
	reg.SetCluster("lab", "http://127.0.0.1:8080", "", false)

	cluster := reg.GetCluster("prod")
	if cluster == nil {
		t.Fatal("Cluster should exist after SetCluster()")
	}
	if cluster.URL != "https://mgr-a.example:8443" {
		t.Errorf("URL = %v, want https://mgr-a.example:8443", cluster.URL)
	}
	if !cluster.Insecure {
		t.Error("Insecure should be true")
	}

	if reg.Default != "prod" {
		t.Errorf("Default = %q, want the first cluster added", reg.Default)
	}

	names := reg.Names()
	if len(names) != 2 || names[0] != "lab" || names[1] != "prod" {
		t.Errorf("Names() = %v, want [lab prod]", names)
	}
}

func TestRegistryRemoveCluster(t *testing.T) {
	reg := NewRegistry()
	reg.SetCluster("prod", "https://mgr-a.example:8443", "admin", false)

	if !reg.RemoveCluster("prod") {
		t.Error("RemoveCluster() should report an existing cluster as removed")
	}
	if reg.Default != "" {
		t.Errorf("Default = %q, should be cleared with its cluster", reg.Default)
	}
	if reg.RemoveCluster("prod") {
		t.Error("RemoveCluster() should report a missing cluster as not removed")
	}
}

func TestRegistryResolve(t *testing.T) {
	reg := NewRegistry()
	reg.SetCluster("prod", "https://mgr-a.example:8443", "admin", false)
	reg.SetCluster("lab", "http://127.0.0.1:8080", "", false)

	name, cluster := reg.Resolve("")
	if name != "prod" || cluster == nil {
		t.Errorf("Resolve(\"\") = %q, want the default cluster", name)
	}

	name, cluster = reg.Resolve("lab")
	if name != "lab" || cluster.URL != "http://127.0.0.1:8080" {
		t.Errorf("Resolve(lab) = %q %+v", name, cluster)
	}

	name, cluster = reg.Resolve("staging")
	if name != "" || cluster != nil {
		t.Errorf("Resolve(staging) = %q, want no match", name)
	}
}

func TestRegistryRecordContact(t *testing.T) {
	reg := NewRegistry()

	before := time.Now()
	reg.RecordContact("prod", true)
	reg.RecordReport("prod", "8c3d4e6a-0b5f-4d1e-9a3e-2f1c0d9b8a7e")
	after := time.Now()

	cluster := reg.GetCluster("prod")
	if cluster == nil {
		t.Fatal("Cluster should exist after RecordContact()")
	}

	if cluster.Enabled == nil || !*cluster.Enabled {
		t.Error("Enabled should be recorded as true")
	}

	if cluster.LastReportID != "8c3d4e6a-0b5f-4d1e-9a3e-2f1c0d9b8a7e" {
		t.Errorf("LastReportID = %v", cluster.LastReportID)
	}

	if cluster.LastSeen.Before(before) || cluster.LastSeen.After(after) {
		t.Errorf("LastSeen = %v, should be between %v and %v", cluster.LastSeen, before, after)
	}
}

func TestRegistrySaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "clusters.yaml")

	reg, err := LoadRegistryFrom(path)
	if err != nil {
		t.Fatalf("LoadRegistryFrom() on a missing file error = %v", err)
	}
	if len(reg.Clusters) != 0 {
		t.Fatalf("missing file should load an empty registry, got %v", reg.Names())
	}

	reg.SetCluster("prod", "https://mgr-a.example:8443", "admin", true)
	reg.RecordReport("prod", "abc")
	if err := reg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("registry file not written: %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0600 {
		t.Errorf("registry file mode = %v, want 0600", info.Mode().Perm())
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should not be left behind")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(strings.ToLower(string(data)), "password:") {
		t.Error("registry file must not contain a password entry")
	}

	loaded, err := LoadRegistryFrom(path)
	if err != nil {
		t.Fatalf("LoadRegistryFrom() error = %v", err)
	}
	cluster := loaded.GetCluster("prod")
	if cluster == nil {
		t.Fatal("Cluster should exist in loaded registry")
	}
	if cluster.URL != "https://mgr-a.example:8443" || cluster.Username != "admin" || !cluster.Insecure {
		t.Errorf("loaded cluster = %+v", cluster)
	}
	if cluster.LastReportID != "abc" {
		t.Errorf("LastReportID = %v, want abc", cluster.LastReportID)
	}
	if loaded.Default != "prod" {
		t.Errorf("Default = %q, want prod", loaded.Default)
	}
	if loaded.Path() != path {
		t.Errorf("Path() = %v, want %v", loaded.Path(), path)
	}
}

func TestLoadRegistryFrom_Invalid(t *testing.T) {
	dir := t.TempDir()

	badVersion := filepath.Join(dir, "v2.yaml")
	if err := os.WriteFile(badVersion, []byte("version: 2\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRegistryFrom(badVersion); err == nil {
		t.Error("LoadRegistryFrom() should reject an unsupported version")
	}

	garbage := filepath.Join(dir, "garbage.yaml")
	if err := os.WriteFile(garbage, []byte("clusters: [unterminated\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRegistryFrom(garbage); err == nil {
		t.Error("LoadRegistryFrom() should reject malformed YAML")
	}
}

func BenchmarkGetConfigDir(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = GetConfigDir()
	}
}

func BenchmarkEnsureCluster(b *testing.B) {
	reg := NewRegistry()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reg.EnsureCluster("prod")
	}
}
