package differ

import "github.com/agentstation/firegistry/pkg/lookup"

// Fields is the read view of a registry entry needed for comparison.
type Fields interface {
	// Has reports whether the field is present with any JSON value.
	Has(name string) bool
	// String returns the field value when it is a JSON string.
	String(name string) (string, bool)
	// Raw returns the field's JSON text, or "" when absent.
	Raw(name string) string
}

// Compare returns the changes needed for current to carry every value of
// rec, in canonical field order. A field that is absent, not a string, or
// a different string is changed; matching strings are left alone.
func Compare(current Fields, rec lookup.Record) []FieldChange {
	var changes []FieldChange
	for _, v := range rec.Values() {
		name := v.Field.String()
		existing, isString := current.String(name)
		if isString && existing == v.Value {
			continue
		}

		change := FieldChange{Field: v.Field, NewValue: v.Value, Type: ChangeTypeUpdate}
		switch {
		case !current.Has(name):
			change.Type = ChangeTypeAdd
		case isString:
			change.OldValue = existing
		default:
			change.OldValue = current.Raw(name)
		}
		changes = append(changes, change)
	}
	return changes
}
