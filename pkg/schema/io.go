package schema

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/matzehuels/bpserial/pkg/errors"
)

// Marshal encodes v (a *Schema or *Catalog) as JSON with a trailing newline.
func Marshal(v any, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, v, pretty); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSON encodes v to w.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write schema")
	}
	return nil
}

// ReadJSON decodes a schema document.
func ReadJSON(r io.Reader) (*Schema, error) {
	var s Schema
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedJSON, err, "decode schema")
	}
	if s.SchemaVersion == "" {
		return nil, errors.New(errors.ErrCodeMissingField, "schema has no schemaVersion")
	}
	return &s, nil
}

// Parse decodes a schema document from data.
func Parse(data []byte) (*Schema, error) {
	return ReadJSON(bytes.NewReader(data))
}
