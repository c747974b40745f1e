package registry

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/agentstation/firegistry/pkg/errors"
)

// Document is a registry file: a JSON object of entries, kept in file order.
type Document struct {
	entries []*Entry
	index   map[string]int
}

// Entry is one registry entry: a JSON object whose field values are kept
// as raw JSON so unknown fields round-trip unchanged.
type Entry struct {
	key    string
	fields []field
	index  map[string]int
}

type field struct {
	name  string
	value json.RawMessage
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{index: map[string]int{}}
}

// NewEntry returns an empty entry stored under key.
func NewEntry(key string) *Entry {
	return &Entry{key: key, index: map[string]int{}}
}

// Parse decodes a registry document. The top level must be an object and
// every top-level value must itself be an object.
func Parse(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	if err := expectObject(dec); err != nil {
		return nil, syntaxError(data, err, "registry must be a JSON object")
	}

	doc := NewDocument()
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, syntaxError(data, err, "")
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, syntaxError(data, err, "")
		}
		entry, err := parseEntry(key, raw)
		if err != nil {
			return nil, err
		}
		doc.Put(entry)
	}
	if _, err := dec.Token(); err != nil {
		return nil, syntaxError(data, err, "")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.NewParseError("json", "", "unexpected data after top-level object", err)
	}
	return doc, nil
}

func parseEntry(key string, raw json.RawMessage) (*Entry, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := expectObject(dec); err != nil {
		return nil, errors.NewParseError("json", "", fmt.Sprintf("entry %q is not a JSON object", key), err)
	}

	entry := NewEntry(key)
	for dec.More() {
		name, err := readKey(dec)
		if err != nil {
			return nil, errors.NewParseError("json", "", fmt.Sprintf("entry %q: %v", key, err), err)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, errors.NewParseError("json", "", fmt.Sprintf("entry %q: %v", key, err), err)
		}
		entry.setRaw(name, value)
	}
	return entry, nil
}

var errNotObject = stderrors.New("not a JSON object")

func expectObject(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errNotObject
	}
	return nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}

// syntaxError converts a decoder error into a ParseError, adding the line
// and column when the decoder reports an offset.
func syntaxError(data []byte, err error, message string) error {
	if stderrors.Is(err, errNotObject) {
		return errors.NewParseError("json", "", message, err)
	}
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	perr := errors.NewParseError("json", "", err.Error(), err)
	var serr *json.SyntaxError
	if stderrors.As(err, &serr) {
		perr.Line, perr.Column = position(data, serr.Offset)
	}
	return perr
}

func position(data []byte, offset int64) (line, column int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	before := data[:offset]
	line = bytes.Count(before, []byte{'\n'}) + 1
	column = int(offset) - bytes.LastIndexByte(before, '\n')
	return line, column
}

// Len returns the number of entries.
func (d *Document) Len() int {
	return len(d.entries)
}

// Entries returns the entries in document order.
func (d *Document) Entries() []*Entry {
	return d.entries
}

// Get returns the entry stored under key.
func (d *Document) Get(key string) (*Entry, bool) {
	i, ok := d.index[key]
	if !ok {
		return nil, false
	}
	return d.entries[i], true
}

// Put appends entry, or replaces the entry with the same key in place.
func (d *Document) Put(entry *Entry) {
	if i, ok := d.index[entry.key]; ok {
		d.entries[i] = entry
		return
	}
	d.index[entry.key] = len(d.entries)
	d.entries = append(d.entries, entry)
}

// Key returns the top-level key the entry is stored under.
func (e *Entry) Key() string {
	return e.key
}

// Len returns the number of fields.
func (e *Entry) Len() int {
	return len(e.fields)
}

// Names returns the field names in order.
func (e *Entry) Names() []string {
	names := make([]string, len(e.fields))
	for i, f := range e.fields {
		names[i] = f.name
	}
	return names
}

// Has reports whether the field is present with any JSON value.
func (e *Entry) Has(name string) bool {
	_, ok := e.index[name]
	return ok
}

// String returns the field value when it is a JSON string.
func (e *Entry) String(name string) (string, bool) {
	i, ok := e.index[name]
	if !ok {
		return "", false
	}
	raw := e.fields[i].value
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Raw returns the field's JSON text, or "" when absent.
func (e *Entry) Raw(name string) string {
	i, ok := e.index[name]
	if !ok {
		return ""
	}
	return string(e.fields[i].value)
}

// Set stores value as a JSON string. Existing fields keep their position;
// new fields are appended.
func (e *Entry) Set(name, value string) {
	e.setRaw(name, encodeString(value))
}

func (e *Entry) setRaw(name string, value json.RawMessage) {
	if i, ok := e.index[name]; ok {
		e.fields[i].value = value
		return
	}
	e.index[name] = len(e.fields)
	e.fields = append(e.fields, field{name: name, value: value})
}
