package wizard

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/muurk/ceph-telemetry/internal/dashboard"
	"github.com/muurk/ceph-telemetry/internal/form"
)

// RequiredFields are the telemetry options the wizard offers, in display order
var RequiredFields = []string{
	"channel_basic",
	"channel_crash",
	"channel_device",
	"channel_ident",
	"interval",
	"proxy",
	"contact",
	"description",
}

// ContactFields are only shown once the operator asks to identify the cluster
var ContactFields = []string{"contact", "description"}

// IsContactField reports whether name is one of ContactFields
func IsContactField(name string) bool {
	for _, f := range ContactFields {
		if f == name {
			return true
		}
	}
	return false
}

// Preview form field names
const (
	FieldReport   = "report"
	FieldReportID = "reportId"
	FieldLicense  = "licenseAgrmt"
)

// ValidatorsFor derives the validators of an option from its declared type.
// int options must be present whole numbers within any numeric bounds; str
// options only get length bounds; other types are not validated.
func ValidatorsFor(d dashboard.OptionDescriptor) []form.Validator {
	var validators []form.Validator
	switch d.Type {
	case "int":
		validators = append(validators, form.Number(), form.Required())
		if min, ok := d.NumericMin(); ok {
			validators = append(validators, form.Min(min))
		}
		if max, ok := d.NumericMax(); ok {
			validators = append(validators, form.Max(max))
		}
	case "str":
		if min, ok := d.NumericMin(); ok {
			validators = append(validators, form.MinLength(int(min)))
		}
		if max, ok := d.NumericMax(); ok {
			validators = append(validators, form.MaxLength(int(max)))
		}
	}
	return validators
}

// buildConfigForm creates one field per option seeded with its default
// value, then applies the current values without marking anything dirty.
func buildConfigForm(options []dashboard.OptionDescriptor, current map[string]any) *form.Form {
	f := form.New()
	for _, d := range options {
		f.Add(d.Name, dashboard.Normalize(d.DefaultValue), ValidatorsFor(d)...)
	}
	seed := make(map[string]any, len(current))
	for name, v := range current {
		seed[name] = dashboard.Normalize(v)
	}
	f.Seed(seed)
	return f
}

func buildPreviewForm(reportText, reportID string) *form.Form {
	f := form.New()
	f.Add(FieldReport, reportText)
	f.Add(FieldReportID, reportID)
	f.Add(FieldLicense, false, form.RequiredTrue())
	return f
}

// ParseValue turns text typed by the operator into a value of the option's
// type. Text that does not parse is kept as a string so validation can
// report it instead of silently dropping the edit.
func ParseValue(d dashboard.OptionDescriptor, text string) (any, error) {
	trimmed := strings.TrimSpace(text)
	switch d.Type {
	case "bool":
		b, err := strconv.ParseBool(trimmed)
		if err != nil {
			return nil, fmt.Errorf("%s expects true or false, got %q", d.Name, text)
		}
		return b, nil
	case "int", "uint", "secs", "size":
		if trimmed == "" {
			return "", nil
		}
		if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return i, nil
		}
		return text, nil
	case "float":
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f, nil
		}
		return text, nil
	default:
		return text, nil
	}
}

// FormatInput renders a form value as editable text
func FormatInput(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
