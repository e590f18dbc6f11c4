package config

import (
	"sort"
	"time"
)

// Registry represents the cluster registry file.
type Registry struct {
	Version  int                 `yaml:"version"`
	Default  string              `yaml:"default,omitempty"`  // Cluster used when --cluster is not given
	Clusters map[string]*Cluster `yaml:"clusters,omitempty"` // Keyed by cluster name

	path string
}

// Cluster represents what is remembered about one dashboard.
type Cluster struct {
	URL          string    `yaml:"url"`
	Username     string    `yaml:"username,omitempty"`
	Insecure     bool      `yaml:"insecure,omitempty"`       // Skip TLS verification
	LastSeen     time.Time `yaml:"last_seen,omitempty"`      // Last successful contact
	LastReportID string    `yaml:"last_report_id,omitempty"` // Id of the last previewed report
	Enabled      *bool     `yaml:"enabled,omitempty"`        // Telemetry state at last contact
	// Password is NEVER stored in the registry file
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		Version:  1,
		Clusters: make(map[string]*Cluster),
	}
}

// GetCluster retrieves a cluster by name.
// Returns nil if the cluster is not in the registry.
func (r *Registry) GetCluster(name string) *Cluster {
	return r.Clusters[name]
}

// EnsureCluster returns the named cluster, creating an empty entry first if needed.
func (r *Registry) EnsureCluster(name string) *Cluster {
	if r.Clusters == nil {
		r.Clusters = make(map[string]*Cluster)
	}

	if cluster, exists := r.Clusters[name]; exists {
		return cluster
	}

	cluster := &Cluster{}
	r.Clusters[name] = cluster
	return cluster
}

// SetCluster sets the connection details of a cluster.
// The first cluster added becomes the default.
func (r *Registry) SetCluster(name, url, username string, insecure bool) {
	cluster := r.EnsureCluster(name)
	cluster.URL = url
	cluster.Username = username
	cluster.Insecure = insecure

	if r.Default == "" {
		r.Default = name
	}
}

// RemoveCluster deletes a cluster. Removing the default clears it.
func (r *Registry) RemoveCluster(name string) bool {
	if _, exists := r.Clusters[name]; !exists {
		return false
	}
	delete(r.Clusters, name)
	if r.Default == name {
		r.Default = ""
	}
	return true
}

// RecordContact updates the last seen time and telemetry state of a cluster.
func (r *Registry) RecordContact(name string, enabled bool) {
	cluster := r.EnsureCluster(name)
	cluster.LastSeen = time.Now()
	cluster.Enabled = &enabled
}

// RecordReport remembers the id of the last previewed report.
func (r *Registry) RecordReport(name, reportID string) {
	cluster := r.EnsureCluster(name)
	cluster.LastSeen = time.Now()
	cluster.LastReportID = reportID
}

// Names returns the cluster names sorted alphabetically.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.Clusters))
	for name := range r.Clusters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the cluster to use for name, falling back to the default.
// The returned name is empty when nothing matches.
func (r *Registry) Resolve(name string) (string, *Cluster) {
	if name == "" {
		name = r.Default
	}
	if cluster := r.Clusters[name]; cluster != nil {
		return name, cluster
	}
	return "", nil
}
