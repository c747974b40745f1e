package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/firegistry/internal/appcontext"
	"github.com/agentstation/firegistry/internal/cmd/application"
	"github.com/agentstation/firegistry/pkg/errors"
)

const header = "lookup_key,Core Vendor,Core Product,Debit Processor,Credit Processor\n"

type workspace struct {
	dir    string
	csv    string
	root   string
	public string
}

func newWorkspace(t *testing.T, csv string) *workspace {
	t.Helper()
	dir := t.TempDir()
	ws := &workspace{
		dir:    dir,
		csv:    filepath.Join(dir, "export.csv"),
		root:   filepath.Join(dir, "fi_registry.json"),
		public: filepath.Join(dir, "public", "assets", "data", "fi_registry.json"),
	}
	require.NoError(t, os.WriteFile(ws.csv, []byte(csv), 0o644))
	return ws
}

func (ws *workspace) write(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func (ws *workspace) app(tweaks ...func(*appcontext.Settings)) *application.Mock {
	return &application.Mock{
		Tweak: func(s *appcontext.Settings) {
			s.Registries = []string{ws.root, ws.public}
			for _, tweak := range tweaks {
				tweak(s)
			}
		},
	}
}

func run(t *testing.T, app application.Application, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestImportReport(t *testing.T) {
	ws := newWorkspace(t, header+"acme,Jack Henry,,Star,\nghost,Fiserv,,,\n")
	ws.write(t, ws.root, `{"acme": {"fi_lookup_key": "ACME", "core_vendor": "FIS"}}`)

	out, err := run(t, ws.app(), ws.csv)
	require.NoError(t, err)

	want := "" +
		ws.root + ": updated 1 entries\n" +
		"Skipping missing registry file: " + ws.public + "\n" +
		ws.public + ": updated 0 entries\n" +
		"CSV rows missing from registry (lookup_key): ghost\n" +
		"Total entries updated: 1\n"
	assert.Equal(t, want, out)

	data, err := os.ReadFile(ws.root)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"core_vendor": "Jack Henry"`)
	assert.Contains(t, string(data), `"debit_processor": "Star"`)
}

func TestImportEmptyCSV(t *testing.T) {
	ws := newWorkspace(t, header+"  ,Fiserv,,,\n")
	original := `{"acme": {"fi_lookup_key": "acme"}}`
	ws.write(t, ws.root, original)

	out, err := run(t, ws.app(), ws.csv)
	require.NoError(t, err)
	assert.Equal(t, EmptyMessage+"\n", out)

	data, err := os.ReadFile(ws.root)
	require.NoError(t, err)
	assert.Equal(t, original, string(data))
}

func TestImportUsageErrors(t *testing.T) {
	ws := newWorkspace(t, header)

	t.Run("missing argument", func(t *testing.T) {
		_, err := run(t, ws.app())
		require.Error(t, err)
		assert.True(t, errors.IsUsage(err))
		assert.Equal(t, UsageMessage, err.Error())
	})

	t.Run("too many arguments", func(t *testing.T) {
		_, err := run(t, ws.app(), ws.csv, ws.csv)
		require.Error(t, err)
		assert.True(t, errors.IsUsage(err))
	})

	t.Run("missing csv", func(t *testing.T) {
		missing := filepath.Join(ws.dir, "missing.csv")
		_, err := run(t, ws.app(), missing)
		require.Error(t, err)
		assert.True(t, errors.IsUsage(err))
		assert.Equal(t, "CSV file not found: "+missing, err.Error())
	})
}

func TestImportDryRunVerbose(t *testing.T) {
	ws := newWorkspace(t, header+"acme,Fiserv,,,\n")
	original := `{"acme": {"fi_lookup_key": "acme", "core_vendor": "FIS"}}`
	ws.write(t, ws.root, original)

	app := ws.app(func(s *appcontext.Settings) { s.Verbose = true })

	out, err := run(t, app, "--dry-run", ws.csv)
	require.NoError(t, err)

	assert.Contains(t, out, ws.root+": would update 1 entries\n")
	assert.Contains(t, out, "core_vendor: FIS → Fiserv")
	assert.Contains(t, out, "Total entries updated: 1\n")

	data, err := os.ReadFile(ws.root)
	require.NoError(t, err)
	assert.Equal(t, original, string(data))
}

func TestImportRegistryFlagOverridesConfig(t *testing.T) {
	ws := newWorkspace(t, header+"acme,Fiserv,,,\n")
	other := filepath.Join(ws.dir, "other.json")
	ws.write(t, other, `{"acme": {"fi_name": "ACME"}}`)

	out, err := run(t, ws.app(), "--registry", other, ws.csv)
	require.NoError(t, err)
	assert.Equal(t, other+": updated 1 entries\nTotal entries updated: 1\n", out)
}

func TestImportBackupAndDelimiter(t *testing.T) {
	ws := newWorkspace(t, "lookup_key\tCore Vendor\nacme\tFiserv\n")
	original := `{"acme": {"fi_lookup_key": "acme"}}`
	ws.write(t, ws.root, original)

	_, err := run(t, ws.app(), "--delimiter", "tab", "--backup", ws.csv)
	require.NoError(t, err)

	backup, err := os.ReadFile(ws.root + ".bak")
	require.NoError(t, err)
	assert.Equal(t, original, string(backup))
}

func TestImportConfigDefaults(t *testing.T) {
	ws := newWorkspace(t, "lookup_key;Core Vendor\nacme;Fiserv\n")
	original := `{"acme": {"fi_lookup_key": "acme"}}`
	ws.write(t, ws.root, original)

	app := ws.app(func(s *appcontext.Settings) {
		s.Delimiter = ";"
		s.DryRun = true
	})

	out, err := run(t, app, ws.csv)
	require.NoError(t, err)
	assert.Contains(t, out, ws.root+": would update 1 entries")

	data, err := os.ReadFile(ws.root)
	require.NoError(t, err)
	assert.Equal(t, original, string(data))
}

func TestImportJSONFormat(t *testing.T) {
	ws := newWorkspace(t, header+"acme,Fiserv,,,\nghost,FIS,,,\n")
	ws.write(t, ws.root, `{"acme": {"fi_lookup_key": "acme"}}`)

	app := ws.app(func(s *appcontext.Settings) { s.Format = "json" })

	out, err := run(t, app, ws.csv)
	require.NoError(t, err)

	var report struct {
		TotalUpdated int      `json:"total_updated"`
		Matched      []string `json:"matched"`
		Unmatched    []string `json:"unmatched"`
		Registries   []struct {
			Path    string `json:"path"`
			Skipped bool   `json:"skipped"`
			Updated int    `json:"updated"`
		} `json:"registries"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 1, report.TotalUpdated)
	assert.Equal(t, []string{"acme"}, report.Matched)
	assert.Equal(t, []string{"ghost"}, report.Unmatched)
	require.Len(t, report.Registries, 2)
	assert.True(t, report.Registries[1].Skipped)
}

func TestImportTableFormat(t *testing.T) {
	ws := newWorkspace(t, header+"acme,Fiserv,,,\nghost,FIS,,,\n")
	ws.write(t, ws.root, `{"acme": {"fi_lookup_key": "acme"}}`)

	app := ws.app(func(s *appcontext.Settings) { s.Format = "table" })

	out, err := run(t, app, ws.csv)
	require.NoError(t, err)
	assert.Contains(t, out, ws.root)
	assert.Contains(t, out, "written")
	assert.Contains(t, out, "missing")
	assert.Contains(t, out, "CSV rows missing from registry (lookup_key): ghost")
}

func TestImportInvalidFormat(t *testing.T) {
	ws := newWorkspace(t, header+"acme,Fiserv,,,\n")
	app := ws.app(func(s *appcontext.Settings) { s.Format = "xml" })

	_, err := run(t, app, ws.csv)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestImportMalformedRegistry(t *testing.T) {
	ws := newWorkspace(t, header+"acme,Fiserv,,,\n")
	ws.write(t, ws.root, `{"acme": [`)

	_, err := run(t, ws.app(), ws.csv)
	require.Error(t, err)
	assert.False(t, errors.IsUsage(err))

	var perr *errors.ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		input   string
		want    rune
		wantErr bool
	}{
		{input: "", want: ','},
		{input: ";", want: ';'},
		{input: "tab", want: '\t'},
		{input: `\t`, want: '\t'},
		{input: "|", want: '|'},
		{input: "ab", wantErr: true},
		{input: `"`, wantErr: true},
		{input: "\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDelimiter(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
