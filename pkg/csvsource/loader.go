// Package csvsource loads the FI metadata CSV export into a lookup table.
//
// The first record names the columns. Each data row is keyed by its
// normalized lookup_key column and contributes the canonical fields whose
// columns are present and non-empty. Rows without a key or without any
// populated field are dropped; later rows replace earlier rows with the
// same key.
package csvsource

import (
	"encoding/csv"
	stderrors "errors"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/agentstation/firegistry/pkg/constants"
	"github.com/agentstation/firegistry/pkg/errors"
	"github.com/agentstation/firegistry/pkg/lookup"
)

// Load reads the CSV file at path. The caller is responsible for reporting a
// missing file; here it surfaces as an IOError like any other read failure.
func Load(path string, opts ...Option) (lookup.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()

	table, err := read(f, path, Defaults().Apply(opts...))
	if err != nil {
		return nil, err
	}
	return table, nil
}

// Read builds a lookup table from r.
func Read(r io.Reader, opts ...Option) (lookup.Table, error) {
	return read(r, "", Defaults().Apply(opts...))
}

func read(r io.Reader, name string, options *Options) (lookup.Table, error) {
	// A UTF-8 byte-order mark is dropped; other bytes pass through untouched
	// so invalid UTF-8 can be reported instead of replaced.
	decoded := transform.NewReader(r, unicode.BOMOverride(transform.Nop))

	reader := csv.NewReader(decoded)
	reader.Comma = options.Comma()
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return lookup.Table{}, nil
	}
	if err != nil {
		return nil, wrapCSVError(name, err)
	}
	if err := checkUTF8(reader, header, name); err != nil {
		return nil, err
	}

	columns := indexColumns(header)
	logger := options.Logger()
	table := lookup.Table{}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, wrapCSVError(name, err)
		}
		if err := checkUTF8(reader, row, name); err != nil {
			return nil, err
		}
		line, _ := reader.FieldPos(0)

		key := lookup.Normalize(columns.value(row, constants.LookupKeyColumn))
		if key.IsZero() {
			logger.Debug().Int("line", line).Msg("Skipping CSV row without lookup_key")
			continue
		}

		rec := lookup.Record{}
		for _, field := range lookup.Fields() {
			rec.Set(field, columns.value(row, field.Column()))
		}
		if rec.Len() == 0 {
			logger.Debug().Int("line", line).Str("lookup_key", key.String()).Msg("Skipping CSV row without core metadata")
			continue
		}

		if _, dup := table.Get(key); dup {
			logger.Debug().Int("line", line).Str("lookup_key", key.String()).Msg("Duplicate lookup_key, later row wins")
		}
		table.Put(key, rec)
	}

	logger.Debug().Str("source", name).Int("rows", table.Len()).Msg("Loaded CSV lookup table")
	return table, nil
}

// columnIndex maps header names to their position. Duplicate names resolve
// to the right-most column.
type columnIndex map[string]int

func indexColumns(header []string) columnIndex {
	idx := make(columnIndex, len(header))
	for i, name := range header {
		idx[name] = i
	}
	return idx
}

// value returns the cell for column, or "" when the column is absent from
// the header or the row is too short.
func (c columnIndex) value(row []string, column string) string {
	i, ok := c[column]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// checkUTF8 rejects a record holding a cell that is not valid UTF-8.
func checkUTF8(reader *csv.Reader, record []string, name string) error {
	for i, cell := range record {
		if utf8.ValidString(cell) {
			continue
		}
		line, column := reader.FieldPos(i)
		return &errors.ParseError{
			Format:  "csv",
			File:    name,
			Line:    line,
			Column:  column,
			Message: "invalid UTF-8",
		}
	}
	return nil
}

func wrapCSVError(name string, err error) error {
	var parseErr *csv.ParseError
	if stderrors.As(err, &parseErr) {
		return &errors.ParseError{
			Format:  "csv",
			File:    name,
			Line:    parseErr.Line,
			Column:  parseErr.Column,
			Message: parseErr.Err.Error(),
			Err:     err,
		}
	}
	return errors.WrapIO("read", name, err)
}
