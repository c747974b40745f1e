package importer

import (
	"fmt"
	"io"

	"github.com/agentstation/firegistry/internal/cmd/output"
	"github.com/agentstation/firegistry/internal/cmd/table"
	"github.com/agentstation/firegistry/pkg/sync"
)

// EmptyMessage is printed when the CSV has no usable rows.
const EmptyMessage = "No lookup_key rows with core metadata found in CSV."

// textReport renders a result as the line-oriented import report.
type textReport struct {
	result  *sync.Result
	verbose bool
}

// WriteText writes one line per registry, the unmatched keys and the total.
func (r textReport) WriteText(w io.Writer) error {
	res := r.result
	if res.Empty {
		_, err := fmt.Fprintln(w, EmptyMessage)
		return err
	}

	verb := "updated"
	if res.DryRun {
		verb = "would update"
	}

	for _, reg := range res.Registries {
		if reg.Skipped {
			fmt.Fprintf(w, "Skipping missing registry file: %s\n", reg.Path)
		}
		fmt.Fprintf(w, "%s: %s %d entries\n", reg.Path, verb, reg.Updated)
		if r.verbose && reg.Changes.HasChanges() {
			reg.Changes.Print(w)
		}
	}

	writeUnmatched(w, res)
	_, err := fmt.Fprintf(w, "Total entries updated: %d\n", res.TotalUpdated)
	return err
}

func writeUnmatched(w io.Writer, res *sync.Result) {
	if len(res.Unmatched) > 0 {
		fmt.Fprintf(w, "CSV rows missing from registry (lookup_key): %s\n", table.JoinKeys(res.Unmatched))
	}
}

// printResult writes the import report in the requested format.
func printResult(w io.Writer, format output.Format, result *sync.Result, verbose bool) error {
	formatter := output.NewFormatter(format)

	switch format {
	case output.FormatText:
		return formatter.Format(w, textReport{result: result, verbose: verbose})
	case output.FormatTable:
		if result.Empty {
			_, err := fmt.Fprintln(w, EmptyMessage)
			return err
		}
		if err := formatter.Format(w, table.RegistriesToTableData(result)); err != nil {
			return err
		}
		if verbose {
			changes := table.ChangesToTableData(result)
			if len(changes.Rows) > 0 {
				if err := formatter.Format(w, changes); err != nil {
					return err
				}
			}
		}
		writeUnmatched(w, result)
		return nil
	default:
		return formatter.Format(w, result)
	}
}
