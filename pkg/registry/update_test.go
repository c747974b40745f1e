package registry

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/firegistry/pkg/differ"
	"github.com/agentstation/firegistry/pkg/errors"
	"github.com/agentstation/firegistry/pkg/logging"
	"github.com/agentstation/firegistry/pkg/lookup"
)

func table(t *testing.T, rows map[string]map[lookup.Field]string) lookup.Table {
	t.Helper()
	tbl := lookup.Table{}
	for key, values := range rows {
		rec := lookup.Record{}
		for f, v := range values {
			rec.Set(f, v)
		}
		require.True(t, tbl.Put(lookup.Normalize(key), rec))
	}
	return tbl
}

func writeRegistry(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fi_registry.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestJoinKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  lookup.Key
	}{
		{name: "lookup key", input: `{"fi_lookup_key": " ACME ", "fi_name": "Other"}`, want: "acme"},
		{name: "falls back to name when missing", input: `{"fi_name": "Acme Bank"}`, want: "acme bank"},
		{name: "falls back to name when empty", input: `{"fi_lookup_key": "", "fi_name": "Acme"}`, want: "acme"},
		{name: "falls back to name when null", input: `{"fi_lookup_key": null, "fi_name": "Acme"}`, want: "acme"},
		{name: "falls back to name when not a string", input: `{"fi_lookup_key": 7, "fi_name": "Acme"}`, want: "acme"},
		{name: "whitespace lookup key does not fall back", input: `{"fi_lookup_key": "   ", "fi_name": "Acme"}`, want: ""},
		{name: "neither", input: `{"routing": "123"}`, want: ""},
		{name: "non-string name", input: `{"fi_name": 12}`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := parseEntry("e", []byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, JoinKey(entry))
		})
	}
}

func TestApply(t *testing.T) {
	doc, err := Parse([]byte(`{
  "acme": {"fi_lookup_key": "ACME", "core_vendor": "FIS"},
  "same": {"fi_name": "Same", "core_vendor": "Fiserv"},
  "nokey": {"routing": "011000015"},
  "other": {"fi_lookup_key": "other"}
}`))
	require.NoError(t, err)

	tbl := table(t, map[string]map[lookup.Field]string{
		"acme":  {lookup.CoreVendor: "Jack Henry", lookup.DebitProcessor: "Star"},
		"same":  {lookup.CoreVendor: "Fiserv"},
		"ghost": {lookup.CoreVendor: "Nobody"},
	})

	result := Apply(doc, tbl)

	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, []lookup.Key{"acme", "same"}, result.Applied.Sorted())
	require.Len(t, result.Changes.Updated, 1)
	assert.Equal(t, differ.EntryUpdate{
		Entry:     "acme",
		LookupKey: "acme",
		Changes: []differ.FieldChange{
			{Field: lookup.CoreVendor, OldValue: "FIS", NewValue: "Jack Henry", Type: differ.ChangeTypeUpdate},
			{Field: lookup.DebitProcessor, NewValue: "Star", Type: differ.ChangeTypeAdd},
		},
	}, result.Changes.Updated[0])

	acme, _ := doc.Get("acme")
	assert.Equal(t, []string{"fi_lookup_key", "core_vendor", "debit_processor"}, acme.Names())
	vendor, _ := acme.String("core_vendor")
	assert.Equal(t, "Jack Henry", vendor)

	nokey, _ := doc.Get("nokey")
	assert.Equal(t, []string{"routing"}, nokey.Names())
}

func TestApplyReplacesNonStringValues(t *testing.T) {
	doc, err := Parse([]byte(`{"acme": {"fi_name": "acme", "core_product": null}}`))
	require.NoError(t, err)

	result := Apply(doc, table(t, map[string]map[lookup.Field]string{
		"acme": {lookup.CoreProduct: "DNA"},
	}))

	assert.Equal(t, 1, result.Updated)
	acme, _ := doc.Get("acme")
	assert.Equal(t, `"DNA"`, acme.Raw("core_product"))
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("rewrites changed registry", func(t *testing.T) {
		path := writeRegistry(t, `{"acme": {"fi_name": "Acme Bank", "fi_lookup_key": "ACME", "core_vendor": "FIS", "charter": 1234}, "beta": {"fi_name": "Beta"}}`)
		tbl := table(t, map[string]map[lookup.Field]string{
			"acme": {lookup.CoreVendor: "Jack Henry", lookup.DebitProcessor: "Star"},
		})

		result, err := Update(ctx, path, tbl)
		require.NoError(t, err)

		assert.Equal(t, path, result.Path)
		assert.False(t, result.Skipped)
		assert.True(t, result.Written)
		assert.Equal(t, 1, result.Updated)
		assert.Equal(t, []lookup.Key{"acme"}, result.Applied.Sorted())

		want := `{
  "acme": {
    "fi_name": "Acme Bank",
    "fi_lookup_key": "ACME",
    "core_vendor": "Jack Henry",
    "charter": 1234,
    "debit_processor": "Star"
  },
  "beta": {
    "fi_name": "Beta"
  }
}
`
		if diff := cmp.Diff(want, readFile(t, path)); diff != "" {
			t.Errorf("registry mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("second run is idempotent", func(t *testing.T) {
		path := writeRegistry(t, `{"acme": {"fi_lookup_key": "acme"}}`)
		tbl := table(t, map[string]map[lookup.Field]string{
			"acme": {lookup.CoreVendor: "Fiserv", lookup.CoreProduct: "Premier"},
		})

		first, err := Update(ctx, path, tbl)
		require.NoError(t, err)
		assert.Equal(t, 1, first.Updated)
		written := readFile(t, path)

		second, err := Update(ctx, path, tbl)
		require.NoError(t, err)
		assert.Equal(t, 0, second.Updated)
		assert.False(t, second.Written)
		assert.Equal(t, []lookup.Key{"acme"}, second.Applied.Sorted())
		assert.Equal(t, written, readFile(t, path))
	})

	t.Run("unchanged registry is not rewritten", func(t *testing.T) {
		original := `{"acme":{"fi_lookup_key":"acme","core_vendor":"Fiserv"}}`
		path := writeRegistry(t, original)

		result, err := Update(ctx, path, table(t, map[string]map[lookup.Field]string{
			"acme": {lookup.CoreVendor: "Fiserv"},
		}))
		require.NoError(t, err)
		assert.Equal(t, 0, result.Updated)
		assert.False(t, result.Written)
		assert.Equal(t, original, readFile(t, path))
	})

	t.Run("missing registry is skipped", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "fi_registry.json")

		result, err := Update(ctx, path, table(t, map[string]map[lookup.Field]string{
			"acme": {lookup.CoreVendor: "Fiserv"},
		}))
		require.NoError(t, err)
		assert.True(t, result.Skipped)
		assert.Equal(t, 0, result.Updated)
		assert.Equal(t, 0, result.Applied.Len())

		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("dry run does not write", func(t *testing.T) {
		original := `{"acme": {"fi_lookup_key": "acme"}}`
		path := writeRegistry(t, original)

		result, err := Update(ctx, path, table(t, map[string]map[lookup.Field]string{
			"acme": {lookup.CoreVendor: "Fiserv"},
		}), WithDryRun(true))
		require.NoError(t, err)
		assert.Equal(t, 1, result.Updated)
		assert.False(t, result.Written)
		assert.Equal(t, original, readFile(t, path))
	})

	t.Run("backup keeps previous bytes", func(t *testing.T) {
		original := `{"acme": {"fi_lookup_key": "acme"}}`
		path := writeRegistry(t, original)

		result, err := Update(ctx, path, table(t, map[string]map[lookup.Field]string{
			"acme": {lookup.CoreVendor: "Fiserv"},
		}), WithBackup(".bak"))
		require.NoError(t, err)
		assert.True(t, result.Written)
		assert.Equal(t, original, readFile(t, path+".bak"))
		assert.Contains(t, readFile(t, path), `"core_vendor": "Fiserv"`)
	})

	t.Run("malformed registry is a parse error", func(t *testing.T) {
		original := `{"acme": {"fi_lookup_key": "acme"`
		path := writeRegistry(t, original)

		_, err := Update(ctx, path, table(t, map[string]map[lookup.Field]string{
			"acme": {lookup.CoreVendor: "Fiserv"},
		}))
		require.Error(t, err)

		var perr *errors.ParseError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, path, perr.File)
		assert.Equal(t, original, readFile(t, path))
	})

	t.Run("non-object entry is a parse error", func(t *testing.T) {
		path := writeRegistry(t, `{"acme": {"fi_lookup_key": "acme"}, "bad": 3}`)

		_, err := Update(ctx, path, table(t, map[string]map[lookup.Field]string{
			"acme": {lookup.CoreVendor: "Fiserv"},
		}))
		var perr *errors.ParseError
		require.ErrorAs(t, err, &perr)
		assert.Contains(t, perr.Message, `entry "bad"`)
	})

	t.Run("invalid UTF-8 is a parse error", func(t *testing.T) {
		original := "{\"ac\xffme\": {\"fi_lookup_key\": \"acme\"}}"
		path := writeRegistry(t, original)

		result, err := Update(ctx, path, table(t, map[string]map[lookup.Field]string{
			"acme": {lookup.CoreVendor: "Fiserv"},
		}))
		assert.Nil(t, result)
		var perr *errors.ParseError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, path, perr.File)
		assert.Contains(t, perr.Message, "UTF-8")
		assert.Equal(t, original, readFile(t, path))
	})

	t.Run("symlinked registry updates its target", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("symlinks need extra privileges on windows")
		}
		dir := t.TempDir()
		target := filepath.Join(dir, "real.json")
		link := filepath.Join(dir, "fi_registry.json")
		require.NoError(t, os.WriteFile(target, []byte(`{"acme":{"fi_lookup_key":"acme"}}`), 0o644))
		require.NoError(t, os.Symlink("real.json", link))

		result, err := Update(ctx, link, table(t, map[string]map[lookup.Field]string{
			"acme": {lookup.CoreVendor: "Fiserv"},
		}))
		require.NoError(t, err)
		assert.True(t, result.Written)
		assert.Equal(t, link, result.Path)

		info, err := os.Lstat(link)
		require.NoError(t, err)
		assert.NotZero(t, info.Mode()&os.ModeSymlink)
		assert.Contains(t, readFile(t, target), `"core_vendor": "Fiserv"`)
	})

	t.Run("canceled context", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := Update(canceled, writeRegistry(t, `{}`), lookup.Table{})
		require.Error(t, err)
		assert.True(t, errors.IsCanceled(err))
	})

	t.Run("logs to the provided logger", func(t *testing.T) {
		logger := logging.NewTestLogger(t)
		path := writeRegistry(t, `{"acme": {"fi_lookup_key": "acme"}}`)

		_, err := Update(ctx, path, table(t, map[string]map[lookup.Field]string{
			"acme": {lookup.CoreVendor: "Fiserv"},
		}), WithLogger(logger.Logger))
		require.NoError(t, err)
		logger.AssertContains(t, "Registry written")
		logger.AssertContains(t, path)
	})
}
