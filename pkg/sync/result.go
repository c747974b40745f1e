package sync

import (
	"fmt"
	"strings"

	"github.com/agentstation/firegistry/pkg/lookup"
	"github.com/agentstation/firegistry/pkg/registry"
)

// Result represents the complete result of an import run.
type Result struct {
	CSVPath    string             `json:"csv_path" yaml:"csv_path"`
	Rows       int                `json:"rows" yaml:"rows"`   // distinct lookup keys loaded from the CSV
	Empty      bool               `json:"empty" yaml:"empty"` // no usable CSV rows; no registry was touched
	DryRun     bool               `json:"dry_run" yaml:"dry_run"`
	Registries []*registry.Result `json:"registries" yaml:"registries"`

	TotalUpdated int           `json:"total_updated" yaml:"total_updated"`
	Applied      lookup.KeySet `json:"-" yaml:"-"`                 // union of keys matched in any registry
	Matched      []lookup.Key  `json:"matched" yaml:"matched"`     // Applied, sorted
	Unmatched    []lookup.Key  `json:"unmatched" yaml:"unmatched"` // CSV keys matched in no registry, sorted
}

// HasChanges returns true if any registry entry was (or in a dry run, would be) updated.
func (r *Result) HasChanges() bool {
	return r.TotalUpdated > 0
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	if r.Empty {
		return "No lookup_key rows with core metadata found in CSV"
	}

	var parts []string
	if r.DryRun {
		parts = append(parts, "(Dry run)")
	}

	summary := fmt.Sprintf("%d entries updated across %d registries, %d of %d CSV rows matched",
		r.TotalUpdated, r.written(), len(r.Matched), r.Rows)
	if len(parts) > 0 {
		summary += " " + strings.Join(parts, " ")
	}
	return summary
}

// written counts the registries that had at least one update.
func (r *Result) written() int {
	n := 0
	for _, reg := range r.Registries {
		if reg.Updated > 0 {
			n++
		}
	}
	return n
}
