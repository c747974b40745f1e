package lookup

import "strings"

// Value is one populated field of a Record.
type Value struct {
	Field Field
	Value string
}

// Record holds the populated canonical fields of one CSV row. Values are
// trimmed and never empty.
type Record map[Field]string

// Set stores the trimmed value for field. Empty values are ignored and
// Set reports whether the field was stored.
func (r Record) Set(field Field, value string) bool {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" || !field.IsValid() {
		return false
	}
	r[field] = cleaned
	return true
}

// Get returns the value for field.
func (r Record) Get(field Field) (string, bool) {
	v, ok := r[field]
	return v, ok
}

// Len returns the number of populated fields.
func (r Record) Len() int {
	return len(r)
}

// Values returns the populated fields in canonical order.
func (r Record) Values() []Value {
	values := make([]Value, 0, len(r))
	for _, f := range Fields() {
		if v, ok := r[f]; ok {
			values = append(values, Value{Field: f, Value: v})
		}
	}
	return values
}
