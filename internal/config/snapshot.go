package config

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// Snapshot computes a stable hash of every setting that affects rendered
// output: the site record, the output directory and formats. Settings that
// only affect the tool (history, events, watch) are excluded so changing
// them does not force a re-render.
func (c *Config) Snapshot() string {
	if c == nil {
		return ""
	}
	h := sha256.New()
	w := func(parts ...string) {
		h.Write([]byte(strings.Join(parts, "=")))
		h.Write([]byte{0})
	}

	// Record holds only plain data; Marshal cannot fail.
	record, _ := json.Marshal(c.Site.Record())
	w("record", string(record))
	w("output.directory", c.Output.Directory)
	formats := make([]string, 0, len(c.Output.Formats))
	for _, f := range c.Output.Formats {
		formats = append(formats, string(f))
	}
	w("output.formats", strings.Join(formats, ","))
	return hex.EncodeToString(h.Sum(nil))
}
