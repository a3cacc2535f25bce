package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/jhlabs/unfold/docsite/internal/config"
	"github.com/jhlabs/unfold/docsite/internal/foundation/errors"
	"github.com/jhlabs/unfold/docsite/internal/render"
)

// Global is shared state bound into every command's Run.
type Global struct {
	Logger *slog.Logger
	// Out receives command output; stdout when nil.
	Out io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docsite.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Init     InitCmd     `cmd:"" help:"Write a default docsite.yaml"`
	Validate ValidateCmd `cmd:"" help:"Validate the site configuration"`
	Render   RenderCmd   `cmd:"" help:"Render framework init arguments (astro.config.mjs, JSON, YAML)"`
	Lint     LintCmd     `cmd:"" help:"Check the configuration against the content tree"`
	Sidebar  SidebarCmd  `cmd:"" help:"Print the resolved sidebar"`
	Watch    WatchCmd    `cmd:"" help:"Re-render whenever the configuration, content or stylesheets change"`
	History  HistoryCmd  `cmd:"" help:"Show recent renders"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// applyOutputFlags overrides the configured output with command flags.
// out is taken relative to the working directory.
func applyOutputFlags(cfg *config.Config, formats []string, out string) error {
	if len(formats) > 0 {
		parsed := make([]render.Format, 0, len(formats))
		for _, f := range formats {
			pf, err := render.ParseFormat(f)
			if err != nil {
				return errors.WrapError(err, errors.CategoryValidation, "invalid --format").UserAction().Build()
			}
			parsed = append(parsed, pf)
		}
		cfg.Output.Formats = parsed
	}
	if out != "" {
		cfg.Output.Directory = absPath(out)
	}
	return nil
}
