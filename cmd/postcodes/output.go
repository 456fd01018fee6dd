package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// validity is one line of validate output.
type validity struct {
	Postcode string `json:"postcode" yaml:"postcode"`
	Valid    bool   `json:"valid" yaml:"valid"`
}

func (v validity) String() string {
	return fmt.Sprintf("%s: %t", v.Postcode, v.Valid)
}

func checkFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q (want text, json or yaml)", format)
	}
}

// renderOne writes a single value in the requested format.
func renderOne[T fmt.Stringer](w io.Writer, format string, value T) error {
	switch format {
	case formatJSON, formatYAML:
		return encode(w, format, value)
	default:
		_, err := fmt.Fprintln(w, value.String())
		return err
	}
}

// renderList writes values as a list. In text mode every element is printed
// on its own line using its String method.
func renderList[T fmt.Stringer](w io.Writer, format string, values []T) error {
	switch format {
	case formatJSON, formatYAML:
		if values == nil {
			values = []T{}
		}
		return encode(w, format, values)
	default:
		for _, v := range values {
			if _, err := fmt.Fprintln(w, v.String()); err != nil {
				return err
			}
		}
		return nil
	}
}

func encode(w io.Writer, format string, value any) error {
	if format == formatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(value); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}
