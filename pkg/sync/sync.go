package sync

import (
	"context"
	"os"

	"github.com/agentstation/firegistry/pkg/csvsource"
	"github.com/agentstation/firegistry/pkg/errors"
	"github.com/agentstation/firegistry/pkg/logging"
	"github.com/agentstation/firegistry/pkg/lookup"
	"github.com/agentstation/firegistry/pkg/registry"
)

// Run loads the CSV export at csvPath and merges it into each configured
// registry in order. A missing CSV file is reported as a NotFoundError.
// Cancellation is checked between registries.
func Run(ctx context.Context, csvPath string, opts ...Option) (*Result, error) {
	options := Defaults().Apply(opts...)
	if err := options.Validate(); err != nil {
		return nil, err
	}

	ctx = logging.WithSource(ctx, csvPath)
	if options.Logger == nil {
		options.Logger = logging.FromContext(ctx)
	}
	logger := options.Logger

	if _, err := os.Stat(csvPath); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("CSV file", csvPath)
		}
		return nil, errors.WrapIO("stat", csvPath, err)
	}

	table, err := csvsource.Load(csvPath, options.CSVOptions()...)
	if err != nil {
		return nil, errors.WrapResource("load", "csv", csvPath, err)
	}

	result := &Result{
		CSVPath: csvPath,
		Rows:    table.Len(),
		DryRun:  options.DryRun,
		Applied: lookup.KeySet{},

		Registries: []*registry.Result{},
		Matched:    []lookup.Key{},
		Unmatched:  []lookup.Key{},
	}
	if table.Len() == 0 {
		logger.Debug().Msg("No usable CSV rows")
		result.Empty = true
		return result, nil
	}

	logger.Debug().
		Int("rows", table.Len()).
		Int("registries", len(options.RegistryPaths)).
		Msg("Loaded lookup table")

	for _, path := range options.RegistryPaths {
		if err := ctx.Err(); err != nil {
			return nil, errors.WrapCanceled("update registries", err)
		}

		regResult, err := registry.Update(ctx, path, table, options.RegistryOptions()...)
		if err != nil {
			return nil, err
		}
		result.Registries = append(result.Registries, regResult)
		result.TotalUpdated += regResult.Updated
		result.Applied.Union(regResult.Applied)
	}

	result.Matched = result.Applied.Sorted()
	result.Unmatched = table.Missing(result.Applied)

	logger.Debug().
		Int("updated", result.TotalUpdated).
		Int("matched", len(result.Matched)).
		Int("unmatched", len(result.Unmatched)).
		Msg(result.Summary())
	return result, nil
}
