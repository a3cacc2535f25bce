package commands

import (
	"log/slog"
	"time"

	"github.com/jhlabs/unfold/docsite/internal/config"
	"github.com/jhlabs/unfold/docsite/internal/logfields"
	"github.com/jhlabs/unfold/docsite/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Debounce     time.Duration `help:"Override watch.debounce"`
	LintInterval time.Duration `name:"lint-interval" help:"Override watch.lint_interval"`
	Force        bool          `help:"Force the initial render"`
	NoMetrics    bool          `name:"no-metrics" help:"Do not serve Prometheus metrics"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	p, err := newPipeline(ctx, cfg, !w.NoMetrics && cfg.Watch.MetricsAddr != "")
	if err != nil {
		return err
	}
	defer p.Close()

	svc := watch.New(watch.Options{
		ConfigPath:   root.Config,
		Renderer:     p.gen,
		Recorder:     p.recorder,
		Registry:     p.registry,
		Debounce:     w.Debounce,
		LintInterval: w.LintInterval,
		ForceFirst:   w.Force,
	})
	slog.Info("Starting watch mode", logfields.Path(root.Config))
	return svc.Run(ctx)
}
