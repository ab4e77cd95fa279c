package document

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/matzehuels/bpserial/pkg/errors"
)

// Read decodes a document from r. Syntax errors are reported with code
// MALFORMED_JSON. Read does not close r.
func Read(r io.Reader) (*Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedJSON, err, "decode document")
	}
	return &d, nil
}

// Parse decodes a document from data.
func Parse(data []byte) (*Document, error) {
	return Read(bytes.NewReader(data))
}

// Write encodes d to w, indented when pretty is set.
func Write(w io.Writer, d *Document, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(d); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode document")
	}
	return nil
}

// Marshal is Write into a byte slice.
func Marshal(d *Document, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, d, pretty); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Import reads the document file at path. Paths ending in ".gz" are
// decompressed.
func Import(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()

	var r io.Reader = f
	if IsCompressed(path) {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, err, "gzip %s", path)
		}
		defer zr.Close()
		r = zr
	}
	return Read(r)
}

// ReadFile returns the raw, decompressed bytes of the document file at path.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read %s", path)
	}
	if !IsCompressed(path) {
		return data, nil
	}
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "gzip %s", path)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "gzip %s", path)
	}
	return out, nil
}

// Export writes d to the file at path, compressing when the path ends in
// ".gz".
func Export(d *Document, path string, pretty bool) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrap(errors.ErrCodeIO, cerr, "close %s", path)
		}
	}()

	if !IsCompressed(path) {
		return Write(f, d, pretty)
	}
	zw := gzip.NewWriter(f)
	if err := Write(zw, d, pretty); err != nil {
		zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "gzip %s", path)
	}
	return nil
}

// IsCompressed reports whether path names a gzip-compressed document.
func IsCompressed(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".gz")
}
