package form

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Validation rule names, reported in ValidationError.Rule.
const (
	RuleRequired     = "required"
	RuleRequiredTrue = "requiredTrue"
	RuleNumber       = "number"
	RuleMin          = "min"
	RuleMax          = "max"
	RuleMinLength    = "minlength"
	RuleMaxLength    = "maxlength"
)

// ValidationError describes one failed rule on one field.
type ValidationError struct {
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validator checks a field value and returns nil when it passes.
type Validator func(value any) *ValidationError

var integerPattern = regexp.MustCompile(`^-?[0-9]+$`)

// Required fails on nil, empty strings and empty slices or maps.
// false and 0 are present values.
func Required() Validator {
	return func(value any) *ValidationError {
		if isEmpty(value) {
			return &ValidationError{Rule: RuleRequired, Message: "this field is required"}
		}
		return nil
	}
}

// RequiredTrue passes only for the boolean true. Used for consent checkboxes.
func RequiredTrue() Validator {
	return func(value any) *ValidationError {
		if b, ok := value.(bool); ok && b {
			return nil
		}
		return &ValidationError{Rule: RuleRequiredTrue, Message: "this box must be checked"}
	}
}

// Number requires a whole number, optionally negative. Empty values pass.
func Number() Validator {
	return func(value any) *ValidationError {
		if isEmpty(value) {
			return nil
		}
		if !integerPattern.MatchString(textOf(value)) {
			return &ValidationError{Rule: RuleNumber, Message: "the entered value needs to be a number"}
		}
		return nil
	}
}

// Min enforces a lower numeric bound. Empty and non-numeric values pass.
func Min(min float64) Validator {
	return func(value any) *ValidationError {
		v, ok := numberOf(value)
		if !ok {
			return nil
		}
		if v < min {
			return &ValidationError{
				Rule:    RuleMin,
				Message: fmt.Sprintf("the value must be at least %s", formatBound(min)),
			}
		}
		return nil
	}
}

// Max enforces an upper numeric bound. Empty and non-numeric values pass.
func Max(max float64) Validator {
	return func(value any) *ValidationError {
		v, ok := numberOf(value)
		if !ok {
			return nil
		}
		if v > max {
			return &ValidationError{
				Rule:    RuleMax,
				Message: fmt.Sprintf("the value must not exceed %s", formatBound(max)),
			}
		}
		return nil
	}
}

// MinLength enforces a minimum string length in characters. Empty values pass.
func MinLength(n int) Validator {
	return func(value any) *ValidationError {
		if isEmpty(value) {
			return nil
		}
		if l := lengthOf(value); l >= 0 && l < n {
			return &ValidationError{
				Rule:    RuleMinLength,
				Message: fmt.Sprintf("the value must be at least %d characters long", n),
			}
		}
		return nil
	}
}

// MaxLength enforces a maximum string length in characters.
func MaxLength(n int) Validator {
	return func(value any) *ValidationError {
		if l := lengthOf(value); l > n {
			return &ValidationError{
				Rule:    RuleMaxLength,
				Message: fmt.Sprintf("the value must not be longer than %d characters", n),
			}
		}
		return nil
	}
}

func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	switch v := value.(type) {
	case string:
		return v == ""
	case json.Number:
		return v == ""
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	}
	return false
}

// textOf renders a value the way a text input would show it.
func textOf(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}

// numberOf parses a value as a float. Leading numeric text is accepted, so
// "12abc" reads as 12, matching browser number parsing.
func numberOf(value any) (float64, bool) {
	if isEmpty(value) {
		return 0, false
	}
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, !math.IsNaN(v)
	case bool:
		return 0, false
	}
	return parseLeadingFloat(textOf(value))
}

func parseLeadingFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	for end := len(s); end > 0; end-- {
		if f, err := strconv.ParseFloat(s[:end], 64); err == nil && !math.IsNaN(f) {
			return f, true
		}
	}
	return 0, false
}

func lengthOf(value any) int {
	switch v := value.(type) {
	case nil:
		return 0
	case string:
		return utf8.RuneCountInString(v)
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len()
	}
	return -1
}

func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
