// Package lookup defines the join model shared by the CSV loader and the
// registry updater: normalized lookup keys, the four canonical FI metadata
// fields, per-row records and the lookup table built from a CSV export.
package lookup

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Key is a normalized lookup key: trimmed and lowercased. The zero value is
// the empty key, which never joins.
type Key string

// Normalize trims surrounding whitespace and lowercases s. It is idempotent.
func Normalize(s string) Key {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	// Lowercasing can expose new leading or trailing spaces only for exotic
	// runes; trim again so Normalize(Normalize(x)) == Normalize(x).
	return Key(strings.TrimSpace(cases.Lower(language.Und).String(trimmed)))
}

// IsZero reports whether k is the empty key.
func (k Key) IsZero() bool {
	return k == ""
}

// String returns the key as a plain string.
func (k Key) String() string {
	return string(k)
}
