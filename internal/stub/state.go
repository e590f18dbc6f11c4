package stub

import (
	"encoding/json"
	"fmt"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/muurk/ceph-telemetry/internal/dashboard"
)

// ChannelsAvailable are the report channels the telemetry module knows
var ChannelsAvailable = []string{"basic", "crash", "device", "ident", "perf"}

// DefaultOptions returns the telemetry module's option descriptors
func DefaultOptions() dashboard.Options {
	boolOpt := func(name string, def bool, desc string) dashboard.OptionDescriptor {
		return dashboard.OptionDescriptor{
			Name: name, Type: "bool", Level: "advanced", DefaultValue: def,
			Min: "", Max: "", EnumAllowed: []string{}, Desc: desc,
			Tags: []string{}, SeeAlso: []string{},
		}
	}
	strOpt := func(name, desc string) dashboard.OptionDescriptor {
		return dashboard.OptionDescriptor{
			Name: name, Type: "str", Level: "advanced", DefaultValue: nil,
			Min: "", Max: "", EnumAllowed: []string{}, Desc: desc,
			Tags: []string{}, SeeAlso: []string{},
		}
	}

	opts := dashboard.Options{
		"channel_basic":  boolOpt("channel_basic", true, "Share basic cluster information (size, version)"),
		"channel_crash":  boolOpt("channel_crash", true, "Share metadata about Ceph daemon crashes (version, stack traces, etc)"),
		"channel_device": boolOpt("channel_device", true, "Share device health metrics (e.g., SMART data, minus potentially identifying info like serial numbers)"),
		"channel_ident":  boolOpt("channel_ident", false, "Share a user-provided description and/or contact email for the cluster"),
		"channel_perf":   boolOpt("channel_perf", false, "Share various performance metrics of a cluster"),
		"enabled":        boolOpt("enabled", false, ""),
		"leaderboard":    boolOpt("leaderboard", false, ""),
		"interval": {
			Name: "interval", Type: "int", Level: "advanced", DefaultValue: 24,
			Min: 8, Max: "", EnumAllowed: []string{}, Desc: "Time between reports in hours",
			Tags: []string{}, SeeAlso: []string{},
		},
		"contact":      strOpt("contact", ""),
		"description":  strOpt("description", ""),
		"organization": strOpt("organization", ""),
		"proxy":        strOpt("proxy", ""),
		"url": {
			Name: "url", Type: "str", Level: "advanced", DefaultValue: "https://telemetry.ceph.com/report",
			Min: "", Max: "", EnumAllowed: []string{}, Tags: []string{}, SeeAlso: []string{},
		},
		"device_url": {
			Name: "device_url", Type: "str", Level: "advanced", DefaultValue: "https://telemetry.ceph.com/device",
			Min: "", Max: "", EnumAllowed: []string{}, Tags: []string{}, SeeAlso: []string{},
		},
	}
	return opts
}

// State is the mutable backend behind the stub handler
type State struct {
	mu sync.Mutex

	options dashboard.Options
	config  map[string]any

	failures  map[string]int
	calls     map[string]int
	reports   []string
	clusterID string
	now       func() time.Time
}

// NewState returns a state holding the default options with telemetry off
func NewState() *State {
	s := &State{
		options:   DefaultOptions(),
		config:    map[string]any{},
		failures:  map[string]int{},
		calls:     map[string]int{},
		clusterID: uuid.NewString(),
		now:       time.Now,
	}
	for name, d := range s.options {
		s.config[name] = d.DefaultValue
	}
	return s
}

// FailOn makes every later request for method and path answer with status
func (s *State) FailOn(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = status
}

// ClearFailures removes every injected failure
func (s *State) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = map[string]int{}
}

// Calls returns how many requests reached method and path
func (s *State) Calls(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method+" "+path]
}

// ReportIDs returns the ids of every report generated so far
func (s *State) ReportIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.reports...)
}

// Enabled reports whether telemetry is on
func (s *State) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, _ := s.config["enabled"].(bool)
	return b
}

// Config returns a copy of the stored configuration
func (s *State) Config() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.config)
}

// Set stores a configuration value directly, bypassing validation
func (s *State) Set(name string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config[name] = value
}

func (s *State) record(method, path string) (status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := method + " " + path
	s.calls[key]++
	return s.failures[key]
}

func (s *State) getOptions() dashboard.Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.options)
}

// update validates and applies a config delta as a whole
func (s *State) update(delta map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(delta))
	for name := range delta {
		names = append(names, name)
	}
	sort.Strings(names)

	values := make(map[string]any, len(delta))
	for _, name := range names {
		d, ok := s.options[name]
		if !ok {
			return fmt.Errorf("unknown option %q", name)
		}
		v, err := coerce(d, delta[name])
		if err != nil {
			return err
		}
		values[name] = v
	}
	for name, v := range values {
		s.config[name] = v
	}
	return nil
}

func (s *State) setEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config["enabled"] = enabled
}

// coerce checks a value against the option type the way the manager does
func coerce(d dashboard.OptionDescriptor, v any) (any, error) {
	switch d.Type {
	case "bool":
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("option %s expects a bool, got %v", d.Name, v)
		}
		return b, nil
	case "int":
		n, ok := v.(json.Number)
		if !ok {
			return nil, fmt.Errorf("option %s expects an integer, got %v", d.Name, v)
		}
		i, err := n.Int64()
		if err != nil {
			return nil, fmt.Errorf("option %s expects an integer, got %s", d.Name, n)
		}
		if min, ok := d.NumericMin(); ok && float64(i) < min {
			return nil, fmt.Errorf("option %s must be at least %g", d.Name, min)
		}
		if max, ok := d.NumericMax(); ok && float64(i) > max {
			return nil, fmt.Errorf("option %s must not exceed %g", d.Name, max)
		}
		return i, nil
	case "str":
		if v == nil {
			return nil, nil
		}
		str, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("option %s expects a string, got %v", d.Name, v)
		}
		return str, nil
	default:
		return v, nil
	}
}

// generateReport builds a report document from the current configuration
func (s *State) generateReport() dashboard.Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	channels := []any{}
	for _, ch := range ChannelsAvailable {
		if on, _ := s.config["channel_"+ch].(bool); on {
			channels = append(channels, ch)
		}
	}
	available := make([]any, len(ChannelsAvailable))
	for i, ch := range ChannelsAvailable {
		available[i] = ch
	}

	id := uuid.NewString()
	s.reports = append(s.reports, id)
	now := s.now().UTC()

	body := map[string]any{
		"leaderboard":        s.config["leaderboard"],
		"report_version":     1,
		"report_timestamp":   now.Format(time.RFC3339),
		"report_id":          id,
		"channels":           channels,
		"channels_available": available,
		"license":            dashboard.LicenseName,
		"created":            now.Add(-90 * 24 * time.Hour).Format(time.RFC3339),
		"fs":                 map[string]any{"count": 1},
		"mon":                map[string]any{"count": 3, "features": map[string]any{"persistent": []any{"kraken", "luminous", "mimic", "osdmap-prune", "nautilus"}}},
		"osd":                map[string]any{"count": 6, "require_osd_release": "nautilus"},
		"pools":              []any{map[string]any{"pool": 1, "type": "replicated", "pg_num": 32}},
		"crashes":            []any{},
		"rbd":                map[string]any{"num_pools": 0, "num_images_by_pool": []any{}},
		"usage":              map[string]any{"pools": 1, "total_bytes": 64424509440, "total_used_bytes": 6442450944},
		"cluster_id":         s.clusterID,
	}
	if on, _ := s.config["channel_ident"].(bool); on {
		body["contact"] = s.config["contact"]
		body["description"] = s.config["description"]
		body["organization"] = s.config["organization"]
	}

	return dashboard.Report{"report": body, "device_report": map[string]any{}}
}
