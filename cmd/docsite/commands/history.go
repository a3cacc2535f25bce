package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/jhlabs/unfold/docsite/internal/config"
	"github.com/jhlabs/unfold/docsite/internal/foundation/errors"
	"github.com/jhlabs/unfold/docsite/internal/gitinfo"
	"github.com/jhlabs/unfold/docsite/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit  int    `short:"n" default:"20" help:"Number of renders to show (0 for all)"`
	Format string `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
	Prune  int    `help:"Delete all but the newest N renders before listing"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if !cfg.HistoryEnabled() {
		return errors.ConfigError("render history is disabled (history.enabled: false)").
			WithContext("path", cfg.Path()).
			Build()
	}
	store, err := history.NewSQLiteStore(cfg.HistoryPath())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx, cancel := signalContext()
	defer cancel()

	if h.Prune > 0 {
		removed, err := store.Prune(ctx, h.Prune)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(g.out(), "Pruned %d render(s)\n", removed)
	}

	entries, err := store.List(ctx, h.Limit)
	if err != nil {
		return err
	}
	if h.Format == "json" {
		enc := json.NewEncoder(g.out())
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(g.out(), "No renders recorded")
		return nil
	}

	tw := tabwriter.NewWriter(g.out(), 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "STARTED\tTRIGGER\tOUTCOME\tDURATION\tFILES\tCOMMIT\tID")
	for _, e := range entries {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			e.StartedAt.Local().Format(time.DateTime), e.Trigger, e.Outcome,
			e.Duration.Round(time.Millisecond), len(e.Files), gitinfo.ShortCommit(e.Commit), e.ID)
	}
	return tw.Flush()
}
