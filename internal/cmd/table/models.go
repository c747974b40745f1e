// Package table turns import results into rows for the table report.
package table

import (
	"strconv"
	"strings"

	"github.com/agentstation/firegistry/pkg/differ"
	"github.com/agentstation/firegistry/pkg/lookup"
	"github.com/agentstation/firegistry/pkg/registry"
	"github.com/agentstation/firegistry/pkg/sync"
)

// Align is a column alignment. The zero value leaves the renderer default.
type Align int

// Column alignments.
const (
	AlignDefault Align = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// Data is a renderer-neutral table.
type Data struct {
	Headers []string
	Rows    [][]string
	// ColumnAlignment may be shorter than Headers or empty.
	ColumnAlignment []Align
}

// RegistriesToTableData converts per-registry results to table format, with
// a closing total row.
func RegistriesToTableData(result *sync.Result) Data {
	headers := []string{"Registry", "Status", "Matched", "Updated"}

	rows := make([][]string, 0, len(result.Registries)+1)
	for _, reg := range result.Registries {
		rows = append(rows, []string{
			reg.Path,
			Status(reg, result.DryRun),
			strconv.Itoa(reg.Applied.Len()),
			strconv.Itoa(reg.Updated),
		})
	}
	rows = append(rows, []string{
		"Total",
		"",
		strconv.Itoa(len(result.Matched)),
		strconv.Itoa(result.TotalUpdated),
	})

	return Data{
		Headers:         headers,
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight, AlignRight},
	}
}

// ChangesToTableData converts the field changes of every registry to table
// format, one row per changed field.
func ChangesToTableData(result *sync.Result) Data {
	headers := []string{"Registry", "Entry", "Field", "Old", "New"}

	var rows [][]string
	for _, reg := range result.Registries {
		for _, update := range reg.Changes.Updated {
			for _, change := range update.Changes {
				rows = append(rows, []string{
					reg.Path,
					update.Entry,
					change.Field.String(),
					FormatOld(change),
					change.NewValue,
				})
			}
		}
	}

	return Data{Headers: headers, Rows: rows}
}

// Status describes what happened to a registry.
func Status(reg *registry.Result, dryRun bool) string {
	switch {
	case reg.Skipped:
		return "missing"
	case reg.Written:
		return "written"
	case reg.Updated > 0 && dryRun:
		return "dry run"
	default:
		return "unchanged"
	}
}

// FormatOld renders the previous value of a change, "-" when it was absent.
func FormatOld(change differ.FieldChange) string {
	if change.Type == differ.ChangeTypeAdd {
		return "-"
	}
	return change.OldValue
}

// JoinKeys joins lookup keys with ", ".
func JoinKeys(keys []lookup.Key) string {
	return strings.Join(lookup.Strings(keys), ", ")
}
