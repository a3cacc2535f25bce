package commands

import (
	"fmt"
	"log/slog"

	"github.com/jhlabs/unfold/docsite/internal/config"
	"github.com/jhlabs/unfold/docsite/internal/logfields"
	"github.com/jhlabs/unfold/docsite/internal/site"
)

// ValidateCmd implements the 'validate' command.
type ValidateCmd struct{}

func (v *ValidateCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if err := site.Validate(cfg.Site); err != nil {
		return err
	}
	slog.Debug("Configuration valid", logfields.Path(cfg.Path()), logfields.ConfigHash(cfg.Snapshot()))
	_, _ = fmt.Fprintf(g.out(), "%s: configuration is valid (%d sidebar groups)\n", cfg.Path(), len(cfg.Site.Sidebar))
	return nil
}
