package render

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/jhlabs/unfold/docsite/internal/site"
)

// JSON renders rec as indented JSON with a trailing newline.
func JSON(rec site.Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// YAML renders rec as YAML with two-space indentation.
func YAML(rec site.Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(rec); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Render produces the bytes of s in the given format.
func Render(s site.Site, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return JSON(s.Record())
	case FormatYAML:
		return YAML(s.Record())
	default:
		return Module(s)
	}
}
