package corpus

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"unicode/utf8"

	"github.com/valyala/fastjson"
)

// ErrMalformedInput is returned when the corpus document cannot be turned
// into records.
var ErrMalformedInput = errors.New("malformed corpus")

//go:embed sample/mva.json
var sampleFS embed.FS

const samplePath = "sample/mva.json"

var utf8BOM = []byte("\xef\xbb\xbf")

// Load reads the corpus file at path.
func Load(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	records, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// LoadFS reads the corpus file name from fsys.
func LoadFS(fsys fs.FS, name string) ([]Record, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	records, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return records, nil
}

// Sample returns the corpus compiled into the binary.
func Sample() ([]Record, error) {
	return LoadFS(sampleFS, samplePath)
}

// Parse decodes a JSON array of {section, title, description} objects.
// Every element must carry all three fields as strings. Invalid UTF-8 is
// rejected rather than replaced.
func Parse(data []byte) ([]Record, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: input is not valid UTF-8", ErrMalformedInput)
	}

	var p fastjson.Parser
	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	items, err := v.Array()
	if err != nil {
		return nil, fmt.Errorf("%w: top-level value is %s, want array", ErrMalformedInput, v.Type())
	}

	records := make([]Record, 0, len(items))
	for i, item := range items {
		if item.Type() != fastjson.TypeObject {
			return nil, fmt.Errorf("%w: element %d is %s, want object", ErrMalformedInput, i, item.Type())
		}

		var rec Record
		fields := []struct {
			name string
			dst  *string
		}{
			{"section", &rec.Section},
			{"title", &rec.Title},
			{"description", &rec.Description},
		}
		for _, f := range fields {
			fv := item.Get(f.name)
			if fv == nil {
				return nil, fmt.Errorf("%w: element %d is missing field %q", ErrMalformedInput, i, f.name)
			}
			b, err := fv.StringBytes()
			if err != nil {
				return nil, fmt.Errorf("%w: element %d field %q is %s, want string", ErrMalformedInput, i, f.name, fv.Type())
			}
			*f.dst = string(b)
		}
		records = append(records, rec)
	}

	return records, nil
}
