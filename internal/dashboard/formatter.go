package dashboard

import (
	"fmt"
	"sort"
	"strings"
)

// Status is a read-only view of a module's opt-in state and option values,
// used by the show command.
type Status struct {
	Module    string             `json:"module"`
	Enabled   bool               `json:"enabled"`
	URL       string             `json:"url,omitempty"`
	DeviceURL string             `json:"device_url,omitempty"`
	Options   []OptionDescriptor `json:"-"`
	Values    map[string]any     `json:"values"`
}

// NewStatus narrows options and config to names, keeping that order
func NewStatus(module string, opts Options, cfg ModuleConfig, names []string) *Status {
	picked := opts.Pick(names)
	values := make(map[string]any, len(picked))
	for _, d := range picked {
		if v, ok := cfg[d.Name]; ok {
			values[d.Name] = Normalize(v)
		} else {
			values[d.Name] = Normalize(d.DefaultValue)
		}
	}
	return &Status{
		Module:    module,
		Enabled:   cfg.Enabled(),
		URL:       cfg.URL(),
		DeviceURL: cfg.DeviceURL(),
		Options:   picked,
		Values:    values,
	}
}

// Summary returns a one-line summary of the module state
func (s *Status) Summary() string {
	state := "disabled"
	if s.Enabled {
		state = "enabled"
	}
	return fmt.Sprintf("Module %s: %s, channels [%s]", s.Module, state, strings.Join(s.EnabledChannels(), " "))
}

// EnabledChannels lists the channel_* options that are switched on
func (s *Status) EnabledChannels() []string {
	var out []string
	for _, d := range s.Options {
		name, ok := strings.CutPrefix(d.Name, "channel_")
		if !ok {
			continue
		}
		if b, _ := s.Values[d.Name].(bool); b {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// FormatCompact returns a compact multi-line format suitable for terminal display
func (s *Status) FormatCompact() string {
	var b strings.Builder

	b.WriteString(s.Summary())
	b.WriteString("\n")
	for _, d := range s.Options {
		b.WriteString(fmt.Sprintf("%s=%s\n", d.Name, FormatValue(s.Values[d.Name])))
	}

	return b.String()
}

// FormatDetailed returns a comprehensive formatted string with all option details
func (s *Status) FormatDetailed() string {
	var b strings.Builder

	b.WriteString("=== Telemetry Module ===\n")
	b.WriteString(fmt.Sprintf("Enabled:    %v\n", s.Enabled))
	if s.URL != "" {
		b.WriteString(fmt.Sprintf("Report URL: %s\n", s.URL))
	}
	if s.DeviceURL != "" {
		b.WriteString(fmt.Sprintf("Device URL: %s\n", s.DeviceURL))
	}
	b.WriteString("\n")

	b.WriteString("=== Options ===\n")
	width := 0
	for _, d := range s.Options {
		if len(d.Name) > width {
			width = len(d.Name)
		}
	}
	for _, d := range s.Options {
		b.WriteString(fmt.Sprintf("%-*s  %-8s %s", width, d.Name, FormatValue(s.Values[d.Name]), FormatBounds(d)))
		b.WriteString("\n")
		if d.Desc != "" {
			b.WriteString(fmt.Sprintf("%-*s  %s\n", width, "", d.Desc))
		}
	}

	return b.String()
}

// FormatValue renders an option value for display
func FormatValue(v any) string {
	switch val := Normalize(v).(type) {
	case nil:
		return "(unset)"
	case string:
		if val == "" {
			return `""`
		}
		return val
	case bool:
		if val {
			return "on"
		}
		return "off"
	default:
		return fmt.Sprint(val)
	}
}

// FormatBounds describes the type and numeric bounds of an option
func FormatBounds(d OptionDescriptor) string {
	min, hasMin := d.NumericMin()
	max, hasMax := d.NumericMax()

	unit := ""
	if d.Type == "str" {
		unit = " chars"
	}

	switch {
	case hasMin && hasMax:
		return fmt.Sprintf("(%s, %g..%g%s)", d.Type, min, max, unit)
	case hasMin:
		return fmt.Sprintf("(%s, >= %g%s)", d.Type, min, unit)
	case hasMax:
		return fmt.Sprintf("(%s, <= %g%s)", d.Type, max, unit)
	default:
		return fmt.Sprintf("(%s)", d.Type)
	}
}

// FormatChanges returns a formatted string showing what will be changed
func FormatChanges(delta map[string]any) string {
	var b strings.Builder

	b.WriteString("=== Configuration Changes ===\n")
	if len(delta) == 0 {
		b.WriteString("(no changes specified)\n")
		return b.String()
	}

	names := make([]string, 0, len(delta))
	for name := range delta {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.WriteString(fmt.Sprintf("  %s: %s\n", name, FormatValue(delta[name])))
	}

	return b.String()
}
