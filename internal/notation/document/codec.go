package document

import (
	"bytes"
	"regexp"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"astrie/internal/errors"
	"astrie/internal/plugin"
)

// Codec reads and writes documents in one concrete syntax. Decode reports
// syntax errors as *plugin.ParseError.
type Codec interface {
	Key() string
	Decode(data []byte) (*Document, error)
	Encode(d *Document) ([]byte, error)
}

// Codecs returns the json, yaml and toml codecs.
func Codecs() []Codec {
	return []Codec{JSON{}, YAML{}, TOML{}}
}

func emptyDocument(key string) *plugin.ParseError {
	return plugin.NewParseError(key, 0, 0, "empty document")
}

// JSON is the json codec.
type JSON struct{}

func (JSON) Key() string { return "json" }

func (c JSON) Decode(data []byte) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, emptyDocument(c.Key())
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var d Document
	if err := dec.Decode(&d); err != nil {
		line, col := 0, 0

		var syn *json.SyntaxError
		var typ *json.UnmarshalTypeError

		switch {
		case errors.As(err, &syn):
			line, col = position(data, syn.Offset)
		case errors.As(err, &typ):
			line, col = position(data, typ.Offset)
		}

		return nil, &plugin.ParseError{Notation: c.Key(), Line: line, Column: col, Msg: err.Error(), Err: err}
	}

	return &d, nil
}

// Encode marshals compactly and indents in a second step. MarshalIndent
// misplaces closing brackets after nested type arguments on its first call
// in a process.
func (JSON) Encode(d *Document) ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, errors.Wrap(err, "encode json document")
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, errors.Wrap(err, "indent json document")
	}

	buf.WriteByte('\n')

	return buf.Bytes(), nil
}

// YAML is the yaml codec.
type YAML struct{}

func (YAML) Key() string { return "yaml" }

var yamlLine = regexp.MustCompile(`line (\d+)`)

func (c YAML) Decode(data []byte) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, emptyDocument(c.Key())
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var d Document
	if err := dec.Decode(&d); err != nil {
		line := 0
		if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
			line, _ = strconv.Atoi(m[1])
		}

		return nil, &plugin.ParseError{Notation: c.Key(), Line: line, Msg: err.Error(), Err: err}
	}

	return &d, nil
}

func (YAML) Encode(d *Document) ([]byte, error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(d); err != nil {
		return nil, errors.Wrap(err, "encode yaml document")
	}

	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "encode yaml document")
	}

	return buf.Bytes(), nil
}

// TOML is the toml codec.
type TOML struct{}

func (TOML) Key() string { return "toml" }

func (c TOML) Decode(data []byte) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, emptyDocument(c.Key())
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var d Document
	if err := dec.Decode(&d); err != nil {
		line, col := 0, 0

		var decErr *toml.DecodeError
		var strict *toml.StrictMissingError

		switch {
		case errors.As(err, &decErr):
			line, col = decErr.Position()
		case errors.As(err, &strict) && len(strict.Errors) > 0:
			line, col = strict.Errors[0].Position()
		}

		return nil, &plugin.ParseError{Notation: c.Key(), Line: line, Column: col, Msg: err.Error(), Err: err}
	}

	return &d, nil
}

func (TOML) Encode(d *Document) ([]byte, error) {
	data, err := toml.Marshal(d)
	if err != nil {
		return nil, errors.Wrap(err, "encode toml document")
	}

	return data, nil
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (line, col int) {
	if offset < 0 {
		return 0, 0
	}

	if offset > int64(len(data)) {
		offset = int64(len(data))
	}

	line, col = 1, 1

	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}

	return line, col
}
