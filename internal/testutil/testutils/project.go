package testutils

import (
	"path/filepath"
	"testing"
)

// UnfoldDocs is a content tree satisfying every slug of the default
// Unfold.js sidebar, keyed by slash-separated path under the content root.
var UnfoldDocs = map[string]string{
	"index.mdx":                       "---\ntitle: Unfold.js\n---\n",
	"getting-started/introduction.md": "---\ntitle: Introduction\n---\n",
	"getting-started/installation.md": "# Installation\n",
	"getting-started/quick-start.mdx": "---\ntitle: Quick Start\n---\n",
	"examples/basic-book.md":          "---\ntitle: Basic Book\n---\n",
	"examples/magazine.md":            "---\ntitle: Magazine Layout\n---\n",
	"examples/interactive.mdx":        "---\ntitle: Interactive Demo\n---\n",
	"api/book.md":                     "---\ntitle: Book\n---\n",
	"guides/styling.md":               "---\ntitle: Styling\n---\n",
	"guides/events.md":                "---\ntitle: Events\n---\n",
	"guides/responsive.md":            "---\ntitle: Responsive Design\n---\n",
}

// WriteTree writes files (slash-separated relative paths) under root.
func WriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, body := range files {
		WriteFile(t, filepath.Join(root, filepath.FromSlash(rel)), body)
	}
}

// WriteUnfoldProject writes UnfoldDocs under root/src/content/docs and the
// default stylesheet under root/src/styles.
func WriteUnfoldProject(t *testing.T, root string) {
	t.Helper()
	WriteTree(t, filepath.Join(root, "src", "content", "docs"), UnfoldDocs)
	WriteFile(t, filepath.Join(root, "src", "styles", "global.css"), "@import 'tailwindcss';\n")
}
