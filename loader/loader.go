package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/buger/jsonparser"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a document.
type Format int

const (
	// FormatAuto picks JSON when the document starts with '{' or '[', YAML otherwise.
	FormatAuto Format = iota
	// FormatJSON is RFC 8259 JSON.
	FormatJSON
	// FormatYAML is YAML 1.2.
	FormatYAML
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return FormatAuto, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// FormatOf returns the format implied by a file extension.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatAuto
	}
}

var (
	// ErrUnsupportedFormat is returned for unknown format names.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrEmptyDocument is returned when the input holds no document.
	ErrEmptyDocument = errors.New("empty document")
)

// Decode decodes one document. Objects become map[string]any, arrays []any
// and numbers json.Number, whatever the input format.
func Decode(data []byte, format Format) (any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrEmptyDocument
	}

	if format == FormatAuto {
		format = FormatYAML
		if trimmed[0] == '{' || trimmed[0] == '[' {
			format = FormatJSON
		}
	}

	switch format {
	case FormatJSON:
		return decodeJSON(trimmed)
	case FormatYAML:
		return decodeYAML(trimmed)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedFormat, format)
	}
}

// ReadAll decodes the single document read from r.
func ReadAll(r io.Reader, format Format) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return Decode(data, format)
}

// LoadFile decodes the document at path, choosing the format from its extension.
func LoadFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := Decode(data, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return doc, nil
}

// PeekSchemaURI returns the top-level "$schema" of a JSON document without
// decoding the rest of it.
func PeekSchemaURI(data []byte) (string, bool) {
	uri, err := jsonparser.GetString(data, "$schema")
	if err != nil || uri == "" {
		return "", false
	}
	return uri, true
}

func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid JSON: trailing data after document")
	}
	return doc, nil
}

func decodeYAML(data []byte) (any, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if doc == nil {
		return nil, ErrEmptyDocument
	}
	return normalize(doc, "")
}

// normalize rewrites a decoded YAML value into the shapes the JSON decoder
// produces.
func normalize(v any, at string) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			n, err := normalize(e, at+"/"+k)
			if err != nil {
				return nil, err
			}
			t[k] = n
		}
		return t, nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("invalid YAML: non-string key %v at %q", k, at)
			}
			n, err := normalize(e, at+"/"+key)
			if err != nil {
				return nil, err
			}
			out[key] = n
		}
		return out, nil
	case []any:
		for i, e := range t {
			n, err := normalize(e, at+"/"+strconv.Itoa(i))
			if err != nil {
				return nil, err
			}
			t[i] = n
		}
		return t, nil
	case int:
		return json.Number(strconv.Itoa(t)), nil
	case int64:
		return json.Number(strconv.FormatInt(t, 10)), nil
	case uint64:
		return json.Number(strconv.FormatUint(t, 10)), nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil, fmt.Errorf("invalid YAML: %v at %q is not a JSON number", t, at)
		}
		return json.Number(strconv.FormatFloat(t, 'g', -1, 64)), nil
	case time.Time:
		return t.Format(time.RFC3339Nano), nil
	case string, bool, nil:
		return t, nil
	default:
		return nil, fmt.Errorf("invalid YAML: unsupported value %T at %q", v, at)
	}
}
