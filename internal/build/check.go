package build

import (
	"github.com/jhlabs/unfold/docsite/internal/config"
	"github.com/jhlabs/unfold/docsite/internal/content"
	"github.com/jhlabs/unfold/docsite/internal/lint"
	"github.com/jhlabs/unfold/docsite/internal/site"
)

// Inspection is the result of Check.
type Inspection struct {
	Tree    *content.Tree
	Sidebar []content.Entry
	Lint    *lint.Result
}

// Check validates the site record, scans the content tree and lints the
// two against each other without writing anything.
func Check(cfg *config.Config) (*Inspection, error) {
	if err := site.Validate(cfg.Site); err != nil {
		return nil, err
	}
	tree, err := content.Scan(cfg.ContentRoot())
	if err != nil {
		return nil, err
	}
	in := &lint.Input{Site: cfg.Site, Tree: tree, ProjectRoot: cfg.ProjectRoot()}
	result := lint.NewLinter().Run(in)
	return &Inspection{Tree: tree, Sidebar: in.Sidebar, Lint: result}, nil
}
