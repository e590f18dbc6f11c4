package form

import (
	"fmt"
)

// Field is one named control of a Form.
type Field struct {
	name       string
	value      any
	dirty      bool
	validators []Validator
}

// Name returns the field name.
func (f *Field) Name() string { return f.name }

// Value returns the current value.
func (f *Field) Value() any { return f.value }

// Dirty reports whether the user changed the field since it was seeded.
func (f *Field) Dirty() bool { return f.dirty }

// Errors runs every validator against the current value.
func (f *Field) Errors() []*ValidationError {
	var errs []*ValidationError
	for _, v := range f.validators {
		if err := v(f.value); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Valid reports whether every validator passes.
func (f *Field) Valid() bool {
	for _, v := range f.validators {
		if v(f.value) != nil {
			return false
		}
	}
	return true
}

// HasRule reports whether the current value fails the named rule.
func (f *Field) HasRule(rule string) bool {
	for _, err := range f.Errors() {
		if err.Rule == rule {
			return true
		}
	}
	return false
}

// Form is an ordered collection of fields with form-level submit state.
type Form struct {
	fields       []*Field
	index        map[string]*Field
	submitFailed bool
}

// New returns an empty form.
func New() *Form {
	return &Form{index: make(map[string]*Field)}
}

// Add appends a field with an initial value. Adding an existing name
// replaces that field's value and validators in place.
func (f *Form) Add(name string, initial any, validators ...Validator) *Field {
	if existing, ok := f.index[name]; ok {
		existing.value = initial
		existing.dirty = false
		existing.validators = validators
		return existing
	}
	field := &Field{name: name, value: initial, validators: validators}
	f.fields = append(f.fields, field)
	f.index[name] = field
	return field
}

// Field looks up a field by name.
func (f *Form) Field(name string) (*Field, bool) {
	field, ok := f.index[name]
	return field, ok
}

// Fields returns the fields in insertion order.
func (f *Form) Fields() []*Field {
	out := make([]*Field, len(f.fields))
	copy(out, f.fields)
	return out
}

// Len returns the number of fields.
func (f *Form) Len() int { return len(f.fields) }

// Seed sets values without marking fields dirty. Keys that are not fields
// of the form are ignored.
func (f *Form) Seed(values map[string]any) {
	for name, v := range values {
		if field, ok := f.index[name]; ok {
			field.value = v
		}
	}
}

// Set records a user edit and marks the field dirty.
func (f *Form) Set(name string, value any) error {
	field, ok := f.index[name]
	if !ok {
		return fmt.Errorf("unknown field %q", name)
	}
	field.value = value
	field.dirty = true
	return nil
}

// Value returns the value of the named field, or nil if there is none.
func (f *Form) Value(name string) any {
	if field, ok := f.index[name]; ok {
		return field.value
	}
	return nil
}

// Pristine reports whether no field has been edited.
func (f *Form) Pristine() bool {
	for _, field := range f.fields {
		if field.dirty {
			return false
		}
	}
	return true
}

// Valid reports whether every field passes its validators.
func (f *Form) Valid() bool {
	for _, field := range f.fields {
		if !field.Valid() {
			return false
		}
	}
	return true
}

// Errors returns the failing rules per field. Valid fields are omitted.
func (f *Form) Errors() map[string][]*ValidationError {
	out := make(map[string][]*ValidationError)
	for _, field := range f.fields {
		if errs := field.Errors(); len(errs) > 0 {
			out[field.name] = errs
		}
	}
	return out
}

// MarkSubmitFailed flags the form so the submit control is re-armed and
// field errors are shown.
func (f *Form) MarkSubmitFailed() { f.submitFailed = true }

// ClearSubmitFailed resets the failed-submission flag.
func (f *Form) ClearSubmitFailed() { f.submitFailed = false }

// SubmitFailed reports whether the last submission attempt failed.
func (f *Form) SubmitFailed() bool { return f.submitFailed }

// DirtyValues returns the values of fields that are both dirty and valid.
func (f *Form) DirtyValues() map[string]any {
	out := make(map[string]any)
	for _, field := range f.fields {
		if field.dirty && field.Valid() {
			out[field.name] = field.value
		}
	}
	return out
}
