// Package form holds the editable state behind the wizard's option and
// consent screens.
//
// A Form is an ordered set of named fields. Each field tracks its current
// value, whether the user changed it since it was seeded, and the validators
// attached to it. Validation is evaluated on demand so a field is never
// reported valid with a stale result.
//
// Seeding and editing are deliberately different operations:
//
//	f := form.New()
//	f.Add("interval", 24, form.Required(), form.Number(), form.Min(8))
//	f.Seed(map[string]any{"interval": 72}) // still pristine
//	f.Set("interval", "150")               // dirty
//
//	if !f.Valid() {
//	    f.MarkSubmitFailed()
//	}
//	delta := f.DirtyValues() // only dirty and valid fields
//
// Validators follow the behaviour users know from the dashboard web forms:
// bound and length checks ignore empty values, so an optional string with a
// minimum length can still be left blank.
package form
