package content

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/inful/mdfp"

	"github.com/jhlabs/unfold/docsite/internal/foundation/errors"
	"github.com/jhlabs/unfold/docsite/internal/frontmatter"
	"github.com/jhlabs/unfold/docsite/internal/logfields"
	"github.com/jhlabs/unfold/docsite/internal/markdown"
)

// Document is one content file.
type Document struct {
	Slug  string
	Path  string // relative to the content root, forward slashes
	Title string
	// Label overrides Title in the sidebar (frontmatter sidebar.label).
	Label  string
	Order  int
	Draft  bool
	Hidden bool

	Fingerprint string
	// StoredFingerprint is the frontmatter fingerprint field, if any.
	StoredFingerprint string
	Links             []markdown.Link

	// Err records a parse failure; the document is still listed.
	Err error
}

// SidebarLabel is the label shown for the document in a generated group.
func (d *Document) SidebarLabel() string {
	if d.Label != "" {
		return d.Label
	}
	return d.Title
}

// FingerprintStale reports whether a stored fingerprint no longer matches.
func (d *Document) FingerprintStale() bool {
	return d.StoredFingerprint != "" && d.StoredFingerprint != d.Fingerprint
}

// Tree is an indexed content directory.
type Tree struct {
	Root string
	docs map[string]*Document
	// Collisions lists paths whose slug was already taken by another file.
	Collisions map[string][]string
}

// Scan walks root and indexes every content file. Hidden entries (leading
// "." or "_") are skipped. Per-file parse errors are recorded on the
// Document; only I/O failures abort the scan.
func Scan(root string) (*Tree, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryContent, "content root not accessible").
			Fatal().
			WithContext("path", root).
			Build()
	}
	if !info.IsDir() {
		return nil, errors.ContentError("content root is not a directory").
			Fatal().
			WithContext("path", root).
			Build()
	}

	t := &Tree{Root: root, docs: map[string]*Document{}, Collisions: map[string][]string{}}
	walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if p != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !IsContentFile(name) {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		doc, err := loadDocument(p, filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		if prev, taken := t.docs[doc.Slug]; taken {
			t.Collisions[doc.Slug] = append(t.Collisions[doc.Slug], doc.Path)
			slog.Warn("Duplicate content slug", logfields.Slug(doc.Slug), logfields.Path(doc.Path), slog.String("kept", prev.Path))
			return nil
		}
		t.docs[doc.Slug] = doc
		return nil
	})
	if walkErr != nil {
		return nil, errors.FileSystemError("failed to scan content tree").WithCause(walkErr).
			WithContext("path", root).
			Build()
	}

	slog.Debug("Scanned content tree", logfields.Path(root), slog.Int("documents", len(t.docs)))
	return t, nil
}

func loadDocument(abs, rel string) (*Document, error) {
	// #nosec G304 - path comes from walking the configured content root
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}

	doc := &Document{Slug: SlugForPath(rel), Path: rel}

	fm, body, _, err := frontmatter.Split(data)
	if err != nil {
		doc.Err = err
		doc.Title = LabelFromName(path.Base(rel))
		return doc, nil
	}
	fields, err := frontmatter.ParseYAML(fm)
	if err != nil {
		doc.Err = fmt.Errorf("invalid frontmatter: %w", err)
		fields = frontmatter.Fields{}
	}

	doc.Title = documentTitle(fields, body, rel)
	doc.Label, _ = fields.SidebarLabel()
	doc.Order, _ = fields.SidebarOrder()
	doc.Draft = fields.Draft()
	doc.Hidden = fields.SidebarHidden()
	doc.Links = markdown.ExtractLinks(body)
	doc.StoredFingerprint, _ = fields.String(mdfp.FingerprintField)

	canonical, err := frontmatter.Canonical(fields, mdfp.FingerprintField)
	if err != nil {
		doc.Err = fmt.Errorf("canonicalize frontmatter: %w", err)
		return doc, nil
	}
	doc.Fingerprint = mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(string(canonical), "\n"), string(body))
	return doc, nil
}

func documentTitle(fields frontmatter.Fields, body []byte, rel string) string {
	if title, ok := fields.Title(); ok {
		return title
	}
	if title, ok := markdown.FirstHeading(body); ok {
		return title
	}
	base := path.Base(rel)
	if strings.EqualFold(strings.TrimSuffix(base, path.Ext(base)), "index") {
		if dir := path.Dir(rel); dir != "." {
			base = path.Base(dir)
		}
	}
	return LabelFromName(base)
}

// Lookup returns the document for slug.
func (t *Tree) Lookup(slug string) (*Document, bool) {
	d, ok := t.docs[slug]
	return d, ok
}

// Len is the number of indexed documents.
func (t *Tree) Len() int { return len(t.docs) }

// Documents returns all documents sorted by slug.
func (t *Tree) Documents() []*Document {
	out := make([]*Document, 0, len(t.docs))
	for _, d := range t.docs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}

// Under returns the documents strictly below dir, sorted by slug.
func (t *Tree) Under(dir string) []*Document {
	prefix := DirSlug(dir) + "/"
	var out []*Document
	for _, d := range t.Documents() {
		if strings.HasPrefix(d.Slug, prefix) {
			out = append(out, d)
		}
	}
	return out
}

// DirSlug slugifies every segment of a content-relative directory.
func DirSlug(dir string) string {
	var segs []string
	for _, s := range strings.Split(strings.Trim(path.Clean(dir), "/"), "/") {
		if slug := SlugifySegment(s); slug != "" {
			segs = append(segs, slug)
		}
	}
	return strings.Join(segs, "/")
}

// HasDir reports whether dir exists under the content root.
func (t *Tree) HasDir(dir string) bool {
	info, err := os.Stat(filepath.Join(t.Root, filepath.FromSlash(dir)))
	return err == nil && info.IsDir()
}

// Fingerprint aggregates every document fingerprint into one digest.
func (t *Tree) Fingerprint() string {
	h := sha256.New()
	for _, d := range t.Documents() {
		fmt.Fprintf(h, "%s\t%s\n", d.Slug, d.Fingerprint)
	}
	return hex.EncodeToString(h.Sum(nil))
}
