package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/jhlabs/unfold/docsite/internal/build"
	"github.com/jhlabs/unfold/docsite/internal/config"
	"github.com/jhlabs/unfold/docsite/internal/history"
	"github.com/jhlabs/unfold/docsite/internal/lint"
	"github.com/jhlabs/unfold/docsite/internal/render"
	"github.com/jhlabs/unfold/docsite/internal/site"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	Format          []string `short:"f" sep:"," help:"Output formats: mjs, json, yaml (default: output.formats)"`
	Out             string   `short:"o" help:"Output directory (default: output.directory)"`
	Stdout          bool     `help:"Print the rendered record instead of writing files"`
	Force           bool     `help:"Render even when inputs are unchanged"`
	DryRun          bool     `name:"dry-run" help:"Run all checks without writing outputs"`
	AllowLintErrors bool     `name:"allow-lint-errors" help:"Write outputs even when lint reports errors"`
}

func (r *RenderCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if err := applyOutputFlags(cfg, r.Format, r.Out); err != nil {
		return err
	}
	if r.Stdout {
		return r.printRecord(g.out(), cfg)
	}

	ctx, cancel := signalContext()
	defer cancel()

	p, err := newPipeline(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer p.Close()

	report, err := p.gen.Run(ctx, build.Request{
		Config:          cfg,
		Trigger:         build.TriggerCLI,
		Force:           r.Force,
		AllowLintErrors: r.AllowLintErrors,
		DryRun:          r.DryRun,
	})
	printReport(g.out(), report, r.DryRun)
	return err
}

// printRecord writes the record to w without touching the output
// directory. Without --format the JSON record is printed.
func (r *RenderCmd) printRecord(w io.Writer, cfg *config.Config) error {
	if err := site.Validate(cfg.Site); err != nil {
		return err
	}
	formats := []render.Format{render.FormatJSON}
	if len(r.Format) > 0 {
		formats = cfg.Output.Formats
	}
	for _, f := range formats {
		data, err := render.Render(cfg.Site, f)
		if err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	return nil
}

func printReport(w io.Writer, report *build.Report, dryRun bool) {
	if report == nil {
		return
	}
	if report.Lint != nil && len(report.Lint.Issues) > 0 {
		for _, issue := range report.Lint.Issues {
			_, _ = fmt.Fprintf(w, "%-7s %s [%s] %s\n", issue.Severity, issue.Subject, issue.Rule, issue.Message)
		}
	}
	switch {
	case report.Outcome == history.OutcomeSkipped:
		_, _ = fmt.Fprintf(w, "Skipped: %s\n", report.SkipReason)
	case report.Outcome == history.OutcomeFailed:
		_, _ = fmt.Fprintf(w, "Render %s failed after %s\n", report.ID, report.Duration.Round(time.Millisecond))
	case dryRun:
		_, _ = fmt.Fprintf(w, "Dry run: %d document(s) checked, %d error(s), %d warning(s); nothing written\n",
			report.Documents, countOf(report.Lint, lint.SeverityError), countOf(report.Lint, lint.SeverityWarning))
	default:
		for _, f := range report.Files {
			state := "unchanged"
			if f.Changed {
				state = "written"
			}
			_, _ = fmt.Fprintf(w, "%-9s %s\n", state, f.Path)
		}
		_, _ = fmt.Fprintf(w, "Render %s: %s, %d document(s), %d file(s) changed in %s\n",
			report.ID, report.Outcome, report.Documents, report.ChangedFiles(), report.Duration.Round(time.Millisecond))
	}
}

func countOf(res *lint.Result, s lint.Severity) int {
	if res == nil {
		return 0
	}
	return res.Count(s)
}
