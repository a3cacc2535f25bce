// Package frontmatter splits content documents into YAML frontmatter and
// body, and exposes the fields the sidebar cares about.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Split separates YAML frontmatter (`---` delimited) from the Markdown body.
//
// If the document does not start with a delimiter, had is false and body is
// the full input. LF and CRLF documents are both accepted.
func Split(content []byte) (fm []byte, body []byte, had bool, err error) {
	nl := detectNewline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return []byte{}, content[start+len(open):], true, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// A closing delimiter at EOF without trailing newline.
		tail := []byte(nl + "---")
		if bytes.HasSuffix(content, tail) {
			return content[start : len(content)-len(tail)+len(nl)], []byte{}, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}

	end := start + idx + len(nl)
	return content[start:end], content[start+idx+len(closeSeq):], true, nil
}

// ParseYAML parses raw YAML frontmatter (without --- delimiters) into Fields.
func ParseYAML(fm []byte) (Fields, error) {
	if len(bytes.TrimSpace(fm)) == 0 {
		return Fields{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(fm, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return Fields(fields), nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
