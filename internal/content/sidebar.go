package content

import (
	"sort"
	"strings"

	"github.com/jhlabs/unfold/docsite/internal/site"
)

// Entry is a resolved sidebar node: a link when Slug is set, otherwise a
// group of Entries.
type Entry struct {
	Label   string  `json:"label" yaml:"label"`
	Slug    string  `json:"slug,omitempty" yaml:"slug,omitempty"`
	Entries []Entry `json:"entries,omitempty" yaml:"entries,omitempty"`
	// Missing marks an explicit slug with no matching document.
	Missing bool `json:"missing,omitempty" yaml:"missing,omitempty"`
	// Generated marks entries derived from an autogenerate directive.
	Generated bool `json:"generated,omitempty" yaml:"generated,omitempty"`
}

// IsGroup reports whether e is a group.
func (e Entry) IsGroup() bool { return e.Slug == "" }

// ResolveSidebar expands s.Sidebar against t. Item groups keep their order
// and labels; autogenerate groups list the documents under their directory
// sorted by sidebar order then slug, with subdirectories as nested groups.
// Drafts and hidden documents are left out of generated groups.
func ResolveSidebar(s site.Site, t *Tree) []Entry {
	out := make([]Entry, 0, len(s.Sidebar))
	for _, g := range s.Sidebar {
		group := Entry{Label: g.Label}
		switch g.Kind() {
		case site.GroupItems:
			for _, it := range g.Items {
				_, found := t.Lookup(it.Slug)
				group.Entries = append(group.Entries, Entry{Label: it.Label, Slug: it.Slug, Missing: !found})
			}
		case site.GroupAutogenerate:
			group.Entries = generate(t, DirSlug(g.Autogenerate.Directory))
		}
		out = append(out, group)
	}
	return out
}

type node struct {
	entry Entry
	order int
	key   string
	index *Document
}

func generate(t *Tree, dir string) []Entry {
	prefix := dir + "/"
	groups := map[string]*node{}
	var top []*node

	group := func(sub string, order int) *node {
		g, ok := groups[sub]
		if !ok {
			g = &node{
				entry: Entry{Label: LabelFromName(sub), Generated: true},
				order: order,
				key:   prefix + sub,
			}
			groups[sub] = g
			top = append(top, g)
		}
		if order < g.order {
			g.order = order
		}
		return g
	}

	for _, d := range t.Under(dir) {
		if d.Draft || d.Hidden {
			continue
		}
		rest := strings.TrimPrefix(d.Slug, prefix)
		sub, _, nested := strings.Cut(rest, "/")
		switch {
		case nested:
			group(sub, d.Order)
		case len(t.Under(d.Slug)) > 0:
			// Directory index: listed first inside its own group.
			group(sub, d.Order).index = d
		default:
			top = append(top, &node{
				entry: Entry{Label: d.SidebarLabel(), Slug: d.Slug, Generated: true},
				order: d.Order,
				key:   d.Slug,
			})
		}
	}

	for sub, g := range groups {
		var entries []Entry
		if g.index != nil {
			entries = append(entries, Entry{Label: g.index.SidebarLabel(), Slug: g.index.Slug, Generated: true})
		}
		g.entry.Entries = append(entries, generate(t, prefix+sub)...)
	}

	sort.SliceStable(top, func(i, j int) bool {
		if top[i].order != top[j].order {
			return top[i].order < top[j].order
		}
		return top[i].key < top[j].key
	})
	entries := make([]Entry, 0, len(top))
	for _, n := range top {
		entries = append(entries, n.entry)
	}
	return entries
}

// Walk visits every link entry depth-first.
func Walk(entries []Entry, fn func(Entry)) {
	for _, e := range entries {
		if e.IsGroup() {
			Walk(e.Entries, fn)
			continue
		}
		fn(e)
	}
}
