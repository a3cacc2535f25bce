package commands

import (
	"fmt"

	"github.com/jhlabs/unfold/docsite/internal/build"
	"github.com/jhlabs/unfold/docsite/internal/config"
	"github.com/jhlabs/unfold/docsite/internal/foundation/errors"
	"github.com/jhlabs/unfold/docsite/internal/lint"
)

// LintCmd implements the 'lint' command.
type LintCmd struct {
	Format      string `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
	MinSeverity string `name:"min-severity" default:"info" help:"Hide issues below this severity (info, warning, error)" enum:"info,warning,error"`
}

// Run prints the lint result and fails when errors were found, so the
// command can gate CI.
func (l *LintCmd) Run(g *Global, root *CLI) error {
	minSev, err := lint.ParseSeverity(l.MinSeverity)
	if err != nil {
		return errors.WrapError(err, errors.CategoryValidation, "invalid --min-severity").UserAction().Build()
	}
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	inspection, err := build.Check(cfg)
	if err != nil {
		return err
	}

	formatter, err := lint.NewFormatter(l.Format)
	if err != nil {
		return err
	}
	if err := formatter.Format(g.out(), inspection.Lint.Filter(minSev), cfg.ContentRoot()); err != nil {
		return errors.InternalError("formatting lint output").WithCause(err).Build()
	}

	if inspection.Lint.HasErrors() {
		return errors.ValidationError(fmt.Sprintf("lint found %d error(s)", inspection.Lint.Count(lint.SeverityError))).
			WithContext("path", cfg.ContentRoot()).
			Build()
	}
	return nil
}
