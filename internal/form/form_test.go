package form

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intervalForm() *Form {
	f := New()
	f.Add("interval", 24, Number(), Required(), Min(0), Max(100))
	f.Add("contact", "", MinLength(3), MaxLength(10))
	f.Add("channel_crash", false)
	return f
}

func TestMaxBound(t *testing.T) {
	f := intervalForm()

	require.NoError(t, f.Set("interval", 150))
	field, _ := f.Field("interval")
	assert.False(t, field.Valid())
	assert.True(t, field.HasRule(RuleMax))

	require.NoError(t, f.Set("interval", 50))
	assert.True(t, field.Valid())
}

func TestBoundsAcceptTextAndJSONNumbers(t *testing.T) {
	tests := []struct {
		name  string
		value any
		valid bool
		rule  string
	}{
		{"text in range", "42", true, ""},
		{"text above max", "101", false, RuleMax},
		{"negative text", "-1", false, RuleMin},
		{"json number", json.Number("99"), true, ""},
		{"float64", float64(7), true, ""},
		{"decimal text", "1.5", false, RuleNumber},
		{"not a number", "abc", false, RuleNumber},
		{"empty", "", false, RuleRequired},
		{"nil", nil, false, RuleRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := intervalForm()
			require.NoError(t, f.Set("interval", tt.value))
			field, _ := f.Field("interval")
			assert.Equal(t, tt.valid, field.Valid())
			if tt.rule != "" {
				assert.True(t, field.HasRule(tt.rule), "errors: %v", field.Errors())
			}
		})
	}
}

func TestEmptyNumberOnlyFailsRequired(t *testing.T) {
	f := intervalForm()
	require.NoError(t, f.Set("interval", ""))
	field, _ := f.Field("interval")

	errs := field.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, RuleRequired, errs[0].Rule)
}

func TestStringLength(t *testing.T) {
	f := intervalForm()
	field, _ := f.Field("contact")

	assert.True(t, field.Valid(), "empty string skips min length")

	require.NoError(t, f.Set("contact", "ab"))
	assert.True(t, field.HasRule(RuleMinLength))

	require.NoError(t, f.Set("contact", "ops team"))
	assert.True(t, field.Valid())

	require.NoError(t, f.Set("contact", "storage operations"))
	assert.True(t, field.HasRule(RuleMaxLength))

	require.NoError(t, f.Set("contact", "äöüß"))
	assert.True(t, field.Valid(), "length counts characters, not bytes")
}

func TestRequiredTrue(t *testing.T) {
	v := RequiredTrue()
	assert.NotNil(t, v(false))
	assert.NotNil(t, v(nil))
	assert.NotNil(t, v("true"))
	assert.Nil(t, v(true))
}

func TestRequiredKeepsFalseAndZero(t *testing.T) {
	v := Required()
	assert.Nil(t, v(false))
	assert.Nil(t, v(0))
	assert.NotNil(t, v([]string{}))
}

func TestSeedKeepsFormPristine(t *testing.T) {
	f := intervalForm()
	f.Seed(map[string]any{"interval": 72, "channel_crash": true, "unknown": 1})

	assert.True(t, f.Pristine())
	assert.Equal(t, 72, f.Value("interval"))
	assert.Equal(t, true, f.Value("channel_crash"))
	assert.Nil(t, f.Value("unknown"))
	assert.Empty(t, f.DirtyValues())
}

func TestDirtyValuesOnlyDirtyAndValid(t *testing.T) {
	f := intervalForm()
	require.NoError(t, f.Set("channel_crash", true))
	require.NoError(t, f.Set("interval", 500))

	assert.False(t, f.Pristine())
	assert.False(t, f.Valid())
	assert.Equal(t, map[string]any{"channel_crash": true}, f.DirtyValues())
}

func TestSetUnknownField(t *testing.T) {
	f := intervalForm()
	assert.Error(t, f.Set("nope", 1))
	assert.True(t, f.Pristine())
}

func TestFieldsKeepOrder(t *testing.T) {
	f := intervalForm()
	var names []string
	for _, field := range f.Fields() {
		names = append(names, field.Name())
	}
	assert.Equal(t, []string{"interval", "contact", "channel_crash"}, names)
	assert.Equal(t, 3, f.Len())
}

func TestSubmitFailedFlag(t *testing.T) {
	f := intervalForm()
	assert.False(t, f.SubmitFailed())
	f.MarkSubmitFailed()
	assert.True(t, f.SubmitFailed())
	f.ClearSubmitFailed()
	assert.False(t, f.SubmitFailed())
}

func TestFormErrors(t *testing.T) {
	f := intervalForm()
	require.NoError(t, f.Set("interval", 150))
	require.NoError(t, f.Set("contact", "x"))

	errs := f.Errors()
	assert.Len(t, errs, 2)
	assert.Equal(t, RuleMax, errs["interval"][0].Rule)
	assert.Equal(t, RuleMinLength, errs["contact"][0].Rule)
}
