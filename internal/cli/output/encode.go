package output

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// JSONFormatter writes indented JSON without HTML escaping, so inputs
// like "<#fff>" print as typed.
type JSONFormatter struct{}

func (JSONFormatter) Format(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(records(data))
}

// YAMLFormatter writes YAML with two-space indentation.
type YAMLFormatter struct{}

func (YAMLFormatter) Format(w io.Writer, data any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records(data)); err != nil {
		return err
	}
	return enc.Close()
}

// records replaces a table with its rows keyed by header, which is
// the shape structured formats expect.
func records(data any) any {
	switch t := data.(type) {
	case *Table:
		return t.Records()
	case Table:
		return t.Records()
	}
	return data
}
