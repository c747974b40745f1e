package lookup_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/agentstation/firegistry/pkg/lookup"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want lookup.Key
	}{
		{name: "padded upper", in: " ACME ", want: "acme"},
		{name: "lower", in: "acme", want: "acme"},
		{name: "title", in: "Acme", want: "acme"},
		{name: "tabs and newlines", in: "\tFirst Bank\n", want: "first bank"},
		{name: "inner spaces kept", in: "First  Bank", want: "first  bank"},
		{name: "empty", in: "", want: ""},
		{name: "whitespace only", in: "   \t ", want: ""},
		{name: "non ascii", in: " ÉCOLE Crédit ", want: "école crédit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lookup.Normalize(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want == "", got.IsZero())
		})
	}
}

func TestNormalize_Collisions(t *testing.T) {
	table := lookup.Table{}
	for i, raw := range []string{" ACME ", "acme", "Acme"} {
		rec := lookup.Record{}
		rec.Set(lookup.CoreVendor, []string{"FIS", "Fiserv", "Jack Henry"}[i])
		require.True(t, table.Put(lookup.Normalize(raw), rec))
	}

	require.Equal(t, 1, table.Len())
	rec, ok := table.Get("acme")
	require.True(t, ok)
	v, _ := rec.Get(lookup.CoreVendor)
	assert.Equal(t, "Jack Henry", v, "last row wins")
}

func TestProperty_NormalizeIdempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := rapid.StringMatching(`[ \tA-Za-z0-9ÉéÖöÜüß&.'-]{0,24}`).Draw(rt, "s")

		once := lookup.Normalize(s)
		twice := lookup.Normalize(once.String())
		if once != twice {
			rt.Fatalf("Normalize not idempotent: %q -> %q -> %q", s, once, twice)
		}
		if lookup.Normalize("  "+s+"\t") != once {
			rt.Fatalf("surrounding whitespace changed the key for %q", s)
		}
	})
}

func TestFields(t *testing.T) {
	want := map[lookup.Field]string{
		lookup.CoreVendor:      "Core Vendor",
		lookup.CoreProduct:     "Core Product",
		lookup.DebitProcessor:  "Debit Processor",
		lookup.CreditProcessor: "Credit Processor",
	}

	fields := lookup.Fields()
	require.Len(t, fields, 4)
	for _, f := range fields {
		assert.True(t, f.IsValid())
		assert.Equal(t, want[f], f.Column())
	}
	assert.False(t, lookup.Field("fi_name").IsValid())
	assert.Equal(t, "core_vendor", lookup.CoreVendor.String())
}

func TestRecord(t *testing.T) {
	rec := lookup.Record{}

	assert.True(t, rec.Set(lookup.DebitProcessor, "  Star "))
	assert.False(t, rec.Set(lookup.CoreVendor, "   "))
	assert.False(t, rec.Set(lookup.Field("partner"), "Acme"))
	assert.True(t, rec.Set(lookup.CoreVendor, "Jack Henry"))

	assert.Equal(t, 2, rec.Len())
	_, ok := rec.Get(lookup.CoreProduct)
	assert.False(t, ok)

	assert.Equal(t, []lookup.Value{
		{Field: lookup.CoreVendor, Value: "Jack Henry"},
		{Field: lookup.DebitProcessor, Value: "Star"},
	}, rec.Values())
}

func TestTable(t *testing.T) {
	table := lookup.Table{}
	rec := lookup.Record{lookup.CoreVendor: "FIS"}

	assert.False(t, table.Put("", rec), "empty key rejected")
	assert.False(t, table.Put("acme", lookup.Record{}), "empty record rejected")
	assert.True(t, table.Put("zeta", rec))
	assert.True(t, table.Put("acme", rec))
	assert.True(t, table.Put("ghost", rec))

	assert.Equal(t, []lookup.Key{"acme", "ghost", "zeta"}, table.Keys())

	applied := lookup.KeySet{}
	applied.Add("acme")
	other := lookup.KeySet{}
	other.Add("zeta")
	applied.Union(other)

	assert.True(t, applied.Has("zeta"))
	assert.Equal(t, 2, applied.Len())
	assert.Equal(t, []lookup.Key{"acme", "zeta"}, applied.Sorted())
	assert.Equal(t, []lookup.Key{"ghost"}, table.Missing(applied))
	none := table.Missing(lookup.KeySet{"acme": {}, "ghost": {}, "zeta": {}})
	assert.NotNil(t, none)
	assert.Empty(t, none)
	assert.Equal(t, []string{"acme", "zeta"}, lookup.Strings(applied.Sorted()))
}
