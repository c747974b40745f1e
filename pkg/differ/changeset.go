// Package differ detects and describes field-level changes between a
// registry entry and the CSV record it is matched with.
package differ

import (
	"fmt"
	"io"
	"strings"

	"github.com/agentstation/firegistry/pkg/lookup"
)

// ChangeType says whether a field was absent or held another value.
type ChangeType string

const (
	// ChangeTypeAdd indicates the field was absent from the entry.
	ChangeTypeAdd ChangeType = "add"
	// ChangeTypeUpdate indicates the field held a different value.
	ChangeTypeUpdate ChangeType = "update"
)

// FieldChange represents a change to a single entry field.
type FieldChange struct {
	Field    lookup.Field `json:"field" yaml:"field"`
	OldValue string       `json:"old_value,omitempty" yaml:"old_value,omitempty"` // string value, or raw JSON for non-strings
	NewValue string       `json:"new_value" yaml:"new_value"`
	Type     ChangeType   `json:"type" yaml:"type"`
}

// EntryUpdate represents the changes applied to one registry entry.
type EntryUpdate struct {
	Entry     string        `json:"entry" yaml:"entry"`           // top-level key of the entry in the registry document
	LookupKey lookup.Key    `json:"lookup_key" yaml:"lookup_key"` // normalized join key that matched
	Changes   []FieldChange `json:"changes" yaml:"changes"`
}

// Changeset collects entry updates for one registry document.
type Changeset struct {
	Updated []EntryUpdate    `json:"updated" yaml:"updated"`
	Summary ChangesetSummary `json:"summary" yaml:"summary"`
}

// ChangesetSummary counts the changes in a Changeset.
type ChangesetSummary struct {
	EntriesUpdated int `json:"entries_updated" yaml:"entries_updated"`
	FieldsAdded    int `json:"fields_added" yaml:"fields_added"`
	FieldsUpdated  int `json:"fields_updated" yaml:"fields_updated"`
}

// Add records an entry update. Updates without changes are ignored.
func (c *Changeset) Add(update EntryUpdate) {
	if len(update.Changes) == 0 {
		return
	}
	c.Updated = append(c.Updated, update)
	c.Summary.EntriesUpdated++
	for _, ch := range update.Changes {
		switch ch.Type {
		case ChangeTypeAdd:
			c.Summary.FieldsAdded++
		case ChangeTypeUpdate:
			c.Summary.FieldsUpdated++
		}
	}
}

// HasChanges reports whether any entry changed.
func (c *Changeset) HasChanges() bool {
	return c.Summary.EntriesUpdated > 0
}

// String returns a one-line summary.
func (c *Changeset) String() string {
	if !c.HasChanges() {
		return "No changes detected"
	}
	return fmt.Sprintf("Changeset: %d entries updated (%d fields added, %d fields updated)",
		c.Summary.EntriesUpdated, c.Summary.FieldsAdded, c.Summary.FieldsUpdated)
}

// Print writes a detailed, human-readable view of the changeset.
func (c *Changeset) Print(w io.Writer) {
	fmt.Fprintln(w, c.String())
	if !c.HasChanges() {
		return
	}
	fmt.Fprintln(w, strings.Repeat("─", 60))
	for _, update := range c.Updated {
		fmt.Fprintf(w, "  • %s (%s):\n", update.Entry, update.LookupKey)
		for _, change := range update.Changes {
			old := change.OldValue
			if change.Type == ChangeTypeAdd {
				old = "(none)"
			}
			fmt.Fprintf(w, "    - %s: %s → %s\n", change.Field, old, change.NewValue)
		}
	}
}
