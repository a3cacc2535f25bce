package commands

import (
	"context"
	"log/slog"
	"path/filepath"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/jhlabs/unfold/docsite/internal/build"
	"github.com/jhlabs/unfold/docsite/internal/config"
	"github.com/jhlabs/unfold/docsite/internal/events"
	"github.com/jhlabs/unfold/docsite/internal/history"
	"github.com/jhlabs/unfold/docsite/internal/logfields"
	"github.com/jhlabs/unfold/docsite/internal/metrics"
)

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// pipeline is a generator with the resources it holds open.
type pipeline struct {
	gen      *build.Generator
	store    history.Store
	pub      events.Publisher
	registry *prom.Registry
	recorder metrics.Recorder
}

// newPipeline wires history, events and metrics from cfg into a generator.
// A registry is created only when withMetrics is set.
func newPipeline(ctx context.Context, cfg *config.Config, withMetrics bool) (*pipeline, error) {
	p := &pipeline{gen: build.NewGenerator(), recorder: metrics.NoopRecorder{}}

	if cfg.HistoryEnabled() {
		store, err := history.NewSQLiteStore(cfg.HistoryPath())
		if err != nil {
			return nil, err
		}
		p.store = store
		p.gen.WithHistory(store)
	}

	if cfg.Events.Enabled {
		pub, err := events.NewNATSPublisher(ctx, events.NATSOptions{
			URL:     cfg.Events.URL,
			Stream:  cfg.Events.Stream,
			Subject: cfg.Events.Subject,
		})
		if err != nil {
			// Events are best effort; rendering proceeds without them.
			slog.Warn("Render events disabled", slog.String("url", cfg.Events.URL), logfields.Error(err))
		} else {
			p.pub = pub
			p.gen.WithPublisher(pub)
		}
	}

	if withMetrics {
		p.registry = prom.NewRegistry()
		p.recorder = metrics.NewPrometheusRecorder(p.registry)
		p.gen.WithRecorder(p.recorder)
	}
	return p, nil
}

func (p *pipeline) Close() {
	if p.pub != nil {
		if err := p.pub.Close(); err != nil {
			slog.Warn("Failed to close event publisher", logfields.Error(err))
		}
	}
	if p.store != nil {
		if err := p.store.Close(); err != nil {
			slog.Warn("Failed to close history store", logfields.Error(err))
		}
	}
}
