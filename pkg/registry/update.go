// Package registry merges CSV lookup records into JSON FI registry files.
//
// A registry is a JSON object whose values are entry objects. Each entry is
// joined to the lookup table by its normalized fi_lookup_key, falling back
// to fi_name when the lookup key is missing or empty. Matched entries take
// every CSV value that differs from what they hold, and the file is
// rewritten only when at least one entry changed.
package registry

import (
	"context"
	stderrors "errors"
	"os"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/agentstation/firegistry/pkg/constants"
	"github.com/agentstation/firegistry/pkg/differ"
	"github.com/agentstation/firegistry/pkg/errors"
	"github.com/agentstation/firegistry/pkg/logging"
	"github.com/agentstation/firegistry/pkg/lookup"
	"github.com/agentstation/firegistry/pkg/save"
)

// Result describes the outcome of updating one registry.
type Result struct {
	Path    string           `json:"path" yaml:"path"`
	Skipped bool             `json:"skipped" yaml:"skipped"` // registry file does not exist
	Updated int              `json:"updated" yaml:"updated"` // entries with at least one changed field
	Applied lookup.KeySet    `json:"-" yaml:"-"`             // keys matched, changed or not
	Changes differ.Changeset `json:"changes" yaml:"changes"`
	Written bool             `json:"written" yaml:"written"`
}

// JoinKey returns the normalized key an entry is matched on.
func JoinKey(entry *Entry) lookup.Key {
	if key, ok := entry.String(constants.EntryLookupKeyField); ok && key != "" {
		return lookup.Normalize(key)
	}
	name, _ := entry.String(constants.EntryNameField)
	return lookup.Normalize(name)
}

// newResult returns an empty result whose collections encode as arrays.
func newResult(path string) *Result {
	return &Result{
		Path:    path,
		Applied: lookup.KeySet{},
		Changes: differ.Changeset{Updated: []differ.EntryUpdate{}},
	}
}

// Apply merges table into doc in memory.
func Apply(doc *Document, table lookup.Table) *Result {
	result := newResult("")

	for _, entry := range doc.Entries() {
		key := JoinKey(entry)
		if key.IsZero() {
			continue
		}
		rec, ok := table.Get(key)
		if !ok {
			continue
		}
		result.Applied.Add(key)

		changes := differ.Compare(entry, rec)
		if len(changes) == 0 {
			continue
		}
		for _, change := range changes {
			entry.Set(change.Field.String(), change.NewValue)
		}
		result.Changes.Add(differ.EntryUpdate{
			Entry:     entry.Key(),
			LookupKey: key,
			Changes:   changes,
		})
		result.Updated++
	}

	return result
}

// Update merges table into the registry at path. A missing registry is
// skipped without error and is never created.
func Update(ctx context.Context, path string, table lookup.Table, opts ...Option) (*Result, error) {
	options := Defaults().Apply(opts...)
	logger := registryLogger(ctx, path, options.logger)

	if err := ctx.Err(); err != nil {
		return nil, errors.WrapCanceled("update registry", err)
	}

	data, err := os.ReadFile(path) //nolint:gosec // registry paths come from configuration
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug().Msg("Registry file not found, skipping")
			result := newResult(path)
			result.Skipped = true
			return result, nil
		}
		return nil, errors.WrapIO("read", path, err)
	}

	if !utf8.Valid(data) {
		return nil, errors.NewParseError("json", path, "registry is not valid UTF-8", nil)
	}

	doc, err := Parse(data)
	if err != nil {
		var perr *errors.ParseError
		if stderrors.As(err, &perr) {
			perr.File = path
		}
		return nil, err
	}

	result := Apply(doc, table)
	result.Path = path

	logger.Debug().
		Int("entries", doc.Len()).
		Int("matched", result.Applied.Len()).
		Int("updated", result.Updated).
		Msg("Merged lookup table into registry")

	if result.Updated == 0 || options.dryRun {
		return result, nil
	}

	out, err := Marshal(doc)
	if err != nil {
		return nil, errors.WrapResource("encode", "registry", path, err)
	}
	if err := save.File(path, out, save.WithBackup(options.backupSuffix), save.WithLogger(logger)); err != nil {
		return nil, errors.WrapResource("save", "registry", path, err)
	}
	result.Written = true

	logger.Debug().
		Int("updated", result.Updated).
		Bool("backup", options.backupSuffix != "").
		Msg("Registry written")
	return result, nil
}

func registryLogger(ctx context.Context, path string, logger *zerolog.Logger) *zerolog.Logger {
	if logger == nil {
		return logging.FromContext(logging.WithRegistry(ctx, path))
	}
	scoped := logger.With().Str("registry", path).Logger()
	return &scoped
}
