package content

import (
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Extensions lists the content file extensions the framework renders.
var Extensions = []string{".md", ".mdx", ".mdoc"}

// IsContentFile reports whether name has a content extension.
func IsContentFile(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SlugifySegment lowercases a path segment, folds accents, turns whitespace
// and underscores into hyphens and drops every other character outside
// [a-z0-9-].
func SlugifySegment(seg string) string {
	folded, _, err := transform.String(stripMarks, seg)
	if err != nil {
		folded = seg
	}
	var b strings.Builder
	lastHyphen := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r == '-' || r == '_' || unicode.IsSpace(r):
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// SlugForPath derives a slug from a content-root-relative file path in
// forward-slash form. "index" files take their directory's slug.
func SlugForPath(rel string) string {
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	segs := strings.Split(rel, "/")
	if len(segs) > 0 && strings.EqualFold(segs[len(segs)-1], "index") {
		segs = segs[:len(segs)-1]
	}
	out := make([]string, 0, len(segs))
	for _, s := range segs {
		if slug := SlugifySegment(s); slug != "" {
			out = append(out, slug)
		}
	}
	return strings.Join(out, "/")
}

// LabelFromName turns a file stem or directory name into a display label:
// "quick-start" becomes "Quick Start".
func LabelFromName(name string) string {
	if IsContentFile(name) {
		name = strings.TrimSuffix(name, path.Ext(name))
	}
	words := strings.FieldsFunc(name, func(r rune) bool { return r == '-' || r == '_' || unicode.IsSpace(r) })
	// Casers are stateful and must not be shared.
	return cases.Title(language.English).String(strings.Join(words, " "))
}
