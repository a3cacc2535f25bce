package lint

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jhlabs/unfold/docsite/internal/content"
	"github.com/jhlabs/unfold/docsite/internal/markdown"
	"github.com/jhlabs/unfold/docsite/internal/site"
)

// Rule names.
const (
	RuleSlugMissing         = "slug-missing"
	RuleSlugDuplicate       = "slug-duplicate"
	RuleSlugCollision       = "slug-collision"
	RuleAutogenerateMissing = "autogenerate-missing"
	RuleAutogenerateEmpty   = "autogenerate-empty"
	RuleCSSMissing          = "css-missing"
	RuleDocParse            = "doc-parse"
	RuleDocOrphan           = "doc-orphan"
	RuleLinkUnknown         = "link-unknown-slug"
	RuleFingerprintStale    = "fingerprint-mismatch"
)

// Input is everything a rule may inspect.
type Input struct {
	Site site.Site
	Tree *content.Tree
	// ProjectRoot anchors customCss paths.
	ProjectRoot string
	// Sidebar is the resolved sidebar; filled by Run when empty.
	Sidebar []content.Entry
}

// Rule checks one aspect of the site against its content.
type Rule interface {
	Name() string
	Check(in *Input) []Issue
}

// RuleFunc adapts a function to Rule.
type RuleFunc struct {
	RuleName string
	Fn       func(in *Input) []Issue
}

func (r RuleFunc) Name() string            { return r.RuleName }
func (r RuleFunc) Check(in *Input) []Issue { return r.Fn(in) }

// DefaultRules returns every built-in rule in reporting order.
func DefaultRules() []Rule {
	return []Rule{
		RuleFunc{RuleSlugMissing, checkSlugMissing},
		RuleFunc{RuleSlugDuplicate, checkSlugDuplicate},
		RuleFunc{RuleSlugCollision, checkSlugCollision},
		RuleFunc{RuleAutogenerateMissing, checkAutogenerate},
		RuleFunc{RuleCSSMissing, checkStylesheets},
		RuleFunc{RuleDocParse, checkParseErrors},
		RuleFunc{RuleFingerprintStale, checkFingerprints},
		RuleFunc{RuleLinkUnknown, checkLinks},
		RuleFunc{RuleDocOrphan, checkOrphans},
	}
}

// Linter applies rules to an Input.
type Linter struct {
	rules []Rule
}

// NewLinter creates a linter with the given rules, or DefaultRules when none.
func NewLinter(rules ...Rule) *Linter {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Linter{rules: rules}
}

// Run applies every rule and returns the combined result.
func (l *Linter) Run(in *Input) *Result {
	if in.Sidebar == nil {
		in.Sidebar = content.ResolveSidebar(in.Site, in.Tree)
	}
	result := &Result{Issues: []Issue{}, DocumentsTotal: in.Tree.Len()}
	for _, r := range l.rules {
		result.Issues = append(result.Issues, r.Check(in)...)
	}
	return result
}

// Lint runs the default rules.
func Lint(s site.Site, tree *content.Tree, projectRoot string) *Result {
	return NewLinter().Run(&Input{Site: s, Tree: tree, ProjectRoot: projectRoot})
}

func checkSlugMissing(in *Input) []Issue {
	var issues []Issue
	for _, g := range in.Site.Sidebar {
		for _, it := range g.Items {
			if _, ok := in.Tree.Lookup(it.Slug); ok {
				continue
			}
			issues = append(issues, Issue{
				Rule:     RuleSlugMissing,
				Severity: SeverityError,
				Subject:  it.Slug,
				Message:  fmt.Sprintf("sidebar entry %q in group %q has no content document", it.Label, g.Label),
				Fix:      fmt.Sprintf("create %s.md under %s or fix the slug", it.Slug, in.Tree.Root),
			})
		}
	}
	return issues
}

func checkSlugDuplicate(in *Input) []Issue {
	seen := map[string]int{}
	var issues []Issue
	for _, slug := range in.Site.Slugs() {
		seen[slug]++
		if seen[slug] == 2 {
			issues = append(issues, Issue{
				Rule:     RuleSlugDuplicate,
				Severity: SeverityWarning,
				Subject:  slug,
				Message:  "slug appears more than once in the sidebar",
			})
		}
	}
	return issues
}

func checkSlugCollision(in *Input) []Issue {
	slugs := make([]string, 0, len(in.Tree.Collisions))
	for slug := range in.Tree.Collisions {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	var issues []Issue
	for _, slug := range slugs {
		doc, _ := in.Tree.Lookup(slug)
		for _, p := range in.Tree.Collisions[slug] {
			issues = append(issues, Issue{
				Rule:     RuleSlugCollision,
				Severity: SeverityWarning,
				Subject:  p,
				Message:  fmt.Sprintf("resolves to slug %q already used by %s", slug, doc.Path),
				Fix:      "rename one of the files",
			})
		}
	}
	return issues
}

func checkAutogenerate(in *Input) []Issue {
	var issues []Issue
	for _, g := range in.Site.Sidebar {
		if g.Kind() != site.GroupAutogenerate {
			continue
		}
		dir := g.Autogenerate.Directory
		switch {
		case !in.Tree.HasDir(dir):
			issues = append(issues, Issue{
				Rule:     RuleAutogenerateMissing,
				Severity: SeverityError,
				Subject:  dir,
				Message:  fmt.Sprintf("autogenerate directory for group %q does not exist", g.Label),
				Fix:      fmt.Sprintf("create %s", filepath.Join(in.Tree.Root, dir)),
			})
		case len(in.Tree.Under(dir)) == 0:
			issues = append(issues, Issue{
				Rule:     RuleAutogenerateEmpty,
				Severity: SeverityWarning,
				Subject:  dir,
				Message:  fmt.Sprintf("autogenerate directory for group %q has no documents", g.Label),
			})
		}
	}
	return issues
}

func checkStylesheets(in *Input) []Issue {
	var issues []Issue
	for _, p := range in.Site.CustomCSS {
		full := filepath.Join(in.ProjectRoot, filepath.FromSlash(p))
		if info, err := os.Stat(full); err == nil && !info.IsDir() {
			continue
		}
		issues = append(issues, Issue{
			Rule:     RuleCSSMissing,
			Severity: SeverityError,
			Subject:  p,
			Message:  "stylesheet does not exist",
			Fix:      fmt.Sprintf("create %s or remove it from custom_css", full),
		})
	}
	return issues
}

func checkParseErrors(in *Input) []Issue {
	var issues []Issue
	for _, d := range in.Tree.Documents() {
		if d.Err == nil {
			continue
		}
		issues = append(issues, Issue{
			Rule:     RuleDocParse,
			Severity: SeverityError,
			Subject:  d.Path,
			Message:  d.Err.Error(),
		})
	}
	return issues
}

func checkFingerprints(in *Input) []Issue {
	var issues []Issue
	for _, d := range in.Tree.Documents() {
		if !d.FingerprintStale() {
			continue
		}
		issues = append(issues, Issue{
			Rule:     RuleFingerprintStale,
			Severity: SeverityWarning,
			Subject:  d.Path,
			Message:  "frontmatter fingerprint does not match the document",
			Fix:      "update the fingerprint field to " + d.Fingerprint,
		})
	}
	return issues
}

func checkLinks(in *Input) []Issue {
	var issues []Issue
	for _, d := range in.Tree.Documents() {
		for _, l := range d.Links {
			if l.Image {
				continue
			}
			slug, ok := markdown.SlugFromLink(l.Destination)
			if !ok {
				continue
			}
			if _, found := in.Tree.Lookup(slug); found {
				continue
			}
			issues = append(issues, Issue{
				Rule:     RuleLinkUnknown,
				Severity: SeverityWarning,
				Subject:  d.Path,
				Message:  fmt.Sprintf("link %q points to no document", l.Destination),
			})
		}
	}
	return issues
}

func checkOrphans(in *Input) []Issue {
	reachable := map[string]bool{"": true}
	content.Walk(in.Sidebar, func(e content.Entry) { reachable[e.Slug] = true })

	var issues []Issue
	for _, d := range in.Tree.Documents() {
		if reachable[d.Slug] || d.Draft {
			continue
		}
		issues = append(issues, Issue{
			Rule:     RuleDocOrphan,
			Severity: SeverityInfo,
			Subject:  d.Path,
			Message:  "document is not reachable from the sidebar",
		})
	}
	return issues
}
