package render

import "github.com/jhlabs/unfold/docsite/internal/foundation/normalization"

// Format identifies an output serialization.
type Format string

const (
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatModule Format = "mjs"
)

// AllFormats lists every supported format in a stable order.
var AllFormats = []Format{FormatModule, FormatJSON, FormatYAML}

var formatNames = normalization.NewNormalizer("format",
	map[string]Format{"json": FormatJSON, "yaml": FormatYAML, "mjs": FormatModule},
	map[string]Format{"yml": FormatYAML, "module": FormatModule, "js": FormatModule},
)

// ParseFormat normalizes a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	return formatNames.Parse(s)
}

// FileName is the file a format is written to.
func (f Format) FileName() string {
	switch f {
	case FormatJSON:
		return "docsite.record.json"
	case FormatYAML:
		return "docsite.record.yaml"
	default:
		return "astro.config.mjs"
	}
}
