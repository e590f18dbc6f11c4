package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

const (
	// TelemetryModule is the manager module the wizard configures
	TelemetryModule = "telemetry"

	// LicenseName is the data sharing license accepted when opting in
	LicenseName = "sharing-1-0"

	// MediaTypeV1 is the versioned media type the dashboard API expects in Accept
	MediaTypeV1 = "application/vnd.ceph.api.v1.0+json"
)

// OptionDescriptor describes one option of a manager module as returned by
// GET /api/mgr/module/{module}/options.
//
// Min and Max are kept as raw JSON values: the API reports missing bounds as
// empty strings or null, and only real numbers are bounds.
type OptionDescriptor struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"` // int, uint, str, bool, float, secs, size, addr, uuid
	Level        string   `json:"level"`
	Flags        int      `json:"flags"`
	DefaultValue any      `json:"default_value"`
	Min          any      `json:"min"`
	Max          any      `json:"max"`
	EnumAllowed  []string `json:"enum_allowed"`
	Desc         string   `json:"desc"`
	LongDesc     string   `json:"long_desc"`
	Tags         []string `json:"tags"`
	SeeAlso      []string `json:"see_also"`
}

// NumericMin returns the lower bound if the descriptor declares a numeric one
func (o OptionDescriptor) NumericMin() (float64, bool) {
	return numericBound(o.Min)
}

// NumericMax returns the upper bound if the descriptor declares a numeric one
func (o OptionDescriptor) NumericMax() (float64, bool) {
	return numericBound(o.Max)
}

// numericBound accepts only JSON numbers; numeric-looking strings are not bounds.
func numericBound(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// Options maps option name to descriptor
type Options map[string]OptionDescriptor

// Pick returns the descriptors named in names, in that order, skipping names
// the module does not offer.
func (o Options) Pick(names []string) []OptionDescriptor {
	out := make([]OptionDescriptor, 0, len(names))
	for _, name := range names {
		if d, ok := o[name]; ok {
			if d.Name == "" {
				d.Name = name
			}
			out = append(out, d)
		}
	}
	return out
}

// Names returns the option names sorted alphabetically
func (o Options) Names() []string {
	names := make([]string, 0, len(o))
	for name := range o {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ModuleConfig is the flat configuration of a manager module as returned by
// GET /api/mgr/module/{module}. Besides option values it carries a few
// read-only keys such as enabled, url and device_url.
type ModuleConfig map[string]any

// Enabled reports the module's opt-in state
func (c ModuleConfig) Enabled() bool {
	b, _ := c["enabled"].(bool)
	return b
}

// URL is where the telemetry report is sent
func (c ModuleConfig) URL() string {
	return stringValue(c["url"])
}

// DeviceURL is where the device report is sent
func (c ModuleConfig) DeviceURL() string {
	return stringValue(c["device_url"])
}

// Pick returns the entries named in names that are present in the config
func (c ModuleConfig) Pick(names []string) map[string]any {
	out := make(map[string]any, len(names))
	for _, name := range names {
		if v, ok := c[name]; ok {
			out[name] = v
		}
	}
	return out
}

// Report is the telemetry report document returned by GET /api/telemetry/report.
// It is opaque apart from the report.report_id, report.channels and
// report.channels_available entries.
type Report map[string]any

// Body returns the nested "report" object, or nil if it is missing
func (r Report) Body() map[string]any {
	body, _ := r["report"].(map[string]any)
	return body
}

// ReportID returns report.report_id rendered as a string
func (r Report) ReportID() string {
	body := r.Body()
	if body == nil {
		return ""
	}
	return stringValue(body["report_id"])
}

// Channels returns report.channels
func (r Report) Channels() []string {
	return stringList(r.Body()["channels"])
}

// ChannelsAvailable returns report.channels_available
func (r Report) ChannelsAvailable() []string {
	return stringList(r.Body()["channels_available"])
}

// SetChannels replaces report.channels
func (r Report) SetChannels(channels []string) {
	body := r.Body()
	if body == nil {
		body = map[string]any{}
		r["report"] = body
	}
	list := make([]any, len(channels))
	for i, ch := range channels {
		list[i] = ch
	}
	body["channels"] = list
}

// Validate checks the entries the wizard depends on are present
func (r Report) Validate() error {
	body := r.Body()
	if body == nil {
		return NewValidationError("report document has no \"report\" object")
	}
	if _, ok := body["channels"].([]any); !ok {
		return NewValidationError("report has no channels list")
	}
	if _, ok := body["channels_available"].([]any); !ok {
		return NewValidationError("report has no channels_available list")
	}
	return nil
}

// MarshalIndent renders the report the way it is previewed and downloaded
func (r Report) MarshalIndent() (string, error) {
	return MarshalPretty(r)
}

// MarshalPretty renders any value as JSON with a two space indent
func MarshalPretty(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// Normalize converts json.Number values into int64 or float64 so they
// compare and render like ordinary Go numbers.
func Normalize(v any) any {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		if f, err := n.Float64(); err == nil {
			return f
		}
		return n.String()
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, val := range n {
			out[k] = Normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(n))
		for i, val := range n {
			out[i] = Normalize(val)
		}
		return out
	default:
		return v
	}
}

func stringValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprint(s)
	}
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		if strs, ok := v.([]string); ok {
			return append([]string(nil), strs...)
		}
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
