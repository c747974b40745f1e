package registry

import (
	"bytes"
	"encoding/json"

	"github.com/agentstation/firegistry/pkg/constants"
	"github.com/agentstation/firegistry/pkg/errors"
)

// Marshal encodes doc with two-space indentation and a trailing newline.
// Entry and field order are kept; raw values are re-indented but otherwise
// written as read.
func Marshal(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if doc.Len() == 0 {
		buf.WriteString("{}\n")
		return buf.Bytes(), nil
	}

	indent := constants.JSONIndent
	buf.WriteString("{\n")
	for i, entry := range doc.entries {
		buf.WriteString(indent)
		buf.Write(encodeString(entry.key))
		buf.WriteString(": ")
		if err := writeEntry(&buf, entry, indent); err != nil {
			return nil, err
		}
		if i < len(doc.entries)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

func writeEntry(buf *bytes.Buffer, entry *Entry, prefix string) error {
	if len(entry.fields) == 0 {
		buf.WriteString("{}")
		return nil
	}

	inner := prefix + constants.JSONIndent
	buf.WriteString("{\n")
	for i, f := range entry.fields {
		buf.WriteString(inner)
		buf.Write(encodeString(f.name))
		buf.WriteString(": ")
		if err := json.Indent(buf, f.value, inner, constants.JSONIndent); err != nil {
			return errors.NewParseError("json", "", "field "+f.name+" of entry "+entry.key+": "+err.Error(), err)
		}
		if i < len(entry.fields)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString(prefix)
	buf.WriteByte('}')
	return nil
}

// encodeString encodes s as a JSON string without HTML escaping.
func encodeString(s string) json.RawMessage {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'})
}
