package watch

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/jhlabs/unfold/docsite/internal/build"
	"github.com/jhlabs/unfold/docsite/internal/config"
	"github.com/jhlabs/unfold/docsite/internal/foundation/errors"
	"github.com/jhlabs/unfold/docsite/internal/lint"
	"github.com/jhlabs/unfold/docsite/internal/logfields"
	"github.com/jhlabs/unfold/docsite/internal/metrics"
)

// Renderer runs one render; *build.Generator implements it.
type Renderer interface {
	Run(ctx context.Context, req build.Request) (*build.Report, error)
}

// Options configures a Service.
type Options struct {
	ConfigPath string
	Renderer   Renderer
	Recorder   metrics.Recorder
	// Registry is served on the config's watch.metrics_addr when set.
	Registry *prom.Registry
	// Debounce and LintInterval override the config when non-zero.
	Debounce     time.Duration
	LintInterval time.Duration
	// ForceFirst forces the initial render.
	ForceFirst bool

	load  func(path string) (*config.Config, error)
	check func(cfg *config.Config) (*build.Inspection, error)
}

// Service re-renders whenever an input changes.
type Service struct {
	opts Options

	mu      sync.RWMutex
	cfg     *config.Config
	sources *sources
	last    *RenderStatus

	metricsAddr chan string
}

// New creates a Service.
func New(opts Options) *Service {
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.load == nil {
		opts.load = config.Load
	}
	if opts.check == nil {
		opts.check = build.Check
	}
	return &Service{opts: opts, metricsAddr: make(chan string, 1)}
}

// MetricsAddr blocks until the metrics listener is bound and returns its
// address, or returns "" when ctx ends first.
func (s *Service) MetricsAddr(ctx context.Context) string {
	select {
	case addr := <-s.metricsAddr:
		s.metricsAddr <- addr
		return addr
	case <-ctx.Done():
		return ""
	}
}

func (s *Service) current() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func (s *Service) setConfig(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	s.sources = newSources(cfg)
}

func (s *Service) debounce(cfg *config.Config) time.Duration {
	if s.opts.Debounce > 0 {
		return s.opts.Debounce
	}
	return cfg.DebounceDuration()
}

// Run renders once, then watches until ctx is canceled. It returns nil on
// cancellation and an error only when watching cannot start.
func (s *Service) Run(ctx context.Context) error {
	cfg, err := s.opts.load(s.opts.ConfigPath)
	if err != nil {
		return err
	}
	s.setConfig(cfg)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapError(err, errors.CategoryWatch, "failed to create file watcher").Build()
	}
	defer func() { _ = fw.Close() }()
	s.syncWatches(fw)

	sched, err := NewScheduler()
	if err != nil {
		return errors.WrapError(err, errors.CategoryWatch, "failed to create scheduler").Build()
	}
	interval := s.opts.LintInterval
	if interval <= 0 {
		interval = cfg.LintIntervalDuration()
	}
	if _, err := sched.Every("periodic-lint", interval, func() { s.lintOnce() }); err != nil {
		return errors.WrapError(err, errors.CategoryWatch, "failed to schedule lint").Build()
	}
	sched.Start()
	defer func() {
		if err := sched.Stop(); err != nil {
			slog.Warn("Scheduler shutdown failed", logfields.Error(err))
		}
	}()

	if cfg.Watch.MetricsAddr != "" && s.opts.Registry != nil {
		stop, err := s.serveMetrics(cfg.Watch.MetricsAddr)
		if err != nil {
			return err
		}
		defer stop()
	}

	slog.Info("Watching for changes",
		logfields.Path(s.opts.ConfigPath),
		slog.String("content", cfg.ContentRoot()),
		slog.Duration("debounce", s.debounce(cfg)))
	s.render(ctx, cfg, s.opts.ForceFirst)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	reloadConfig := false

	for {
		select {
		case <-ctx.Done():
			slog.Info("Watcher stopped")
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			src := s.sources.classify(ev.Name)
			if src == SourceNone {
				continue
			}
			s.opts.Recorder.IncWatchEvent(string(src))
			slog.Debug("Input changed", logfields.Path(ev.Name), slog.String("source", string(src)), slog.String("op", ev.Op.String()))
			if src == SourceConfig {
				reloadConfig = true
			}
			if src == SourceContent && ev.Has(fsnotify.Create) {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					s.syncWatches(fw)
				}
			}
			timer.Reset(s.debounce(s.current()))

		case werr, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Error("File watcher error", logfields.Error(werr))

		case <-timer.C:
			if reloadConfig {
				reloadConfig = false
				next, loadErr := s.opts.load(s.opts.ConfigPath)
				if loadErr != nil {
					slog.Error("Configuration reload failed; keeping previous configuration", logfields.Error(loadErr))
					continue
				}
				if fixed := startupSettingsChanged(s.current(), next); len(fixed) > 0 {
					slog.Warn("Changed settings take effect after restarting watch", slog.Any("settings", fixed))
				}
				s.setConfig(next)
				s.syncWatches(fw)
				slog.Info("Configuration reloaded", logfields.ConfigHash(next.Snapshot()))
			}
			s.render(ctx, s.current(), false)
		}
	}
}

// startupSettingsChanged lists the settings that differ between prev and
// next but are only read when watch starts.
func startupSettingsChanged(prev, next *config.Config) []string {
	var changed []string
	if prev.HistoryEnabled() != next.HistoryEnabled() || prev.HistoryPath() != next.HistoryPath() {
		changed = append(changed, "history")
	}
	if prev.Events != next.Events {
		changed = append(changed, "events")
	}
	if prev.Watch.MetricsAddr != next.Watch.MetricsAddr {
		changed = append(changed, "watch.metrics_addr")
	}
	if prev.LintIntervalDuration() != next.LintIntervalDuration() {
		changed = append(changed, "watch.lint_interval")
	}
	return changed
}

// syncWatches makes the watcher's directory set match the current sources.
func (s *Service) syncWatches(fw *fsnotify.Watcher) {
	want := map[string]bool{}
	for _, d := range s.sources.dirs() {
		want[d] = true
	}
	for _, d := range fw.WatchList() {
		if !want[d] {
			_ = fw.Remove(d)
		}
	}
	have := map[string]bool{}
	for _, d := range fw.WatchList() {
		have[d] = true
	}
	for d := range want {
		if have[d] {
			continue
		}
		if err := fw.Add(d); err != nil {
			slog.Warn("Cannot watch directory", logfields.Path(d), logfields.Error(err))
		}
	}
}

func (s *Service) render(ctx context.Context, cfg *config.Config, force bool) {
	report, err := s.opts.Renderer.Run(ctx, build.Request{Config: cfg, Trigger: build.TriggerWatch, Force: force})
	s.recordStatus(report, err)
	if err != nil {
		slog.Error("Render failed", logfields.Error(err))
		return
	}
	slog.Info("Render complete",
		logfields.RenderID(report.ID),
		logfields.Outcome(string(report.Outcome)),
		slog.Int("files_changed", report.ChangedFiles()))
}

// lintOnce re-checks the current config against the content tree.
func (s *Service) lintOnce() {
	cfg := s.current()
	in, err := s.opts.check(cfg)
	if err != nil {
		slog.Warn("Scheduled lint failed", logfields.Error(err))
		return
	}
	for _, sev := range []lint.Severity{lint.SeverityError, lint.SeverityWarning, lint.SeverityInfo} {
		s.opts.Recorder.SetLintIssues(strings.ToLower(sev.String()), in.Lint.Count(sev))
	}
	s.opts.Recorder.SetDocuments(in.Tree.Len())
	for _, issue := range in.Lint.Filter(lint.SeverityWarning).Issues {
		slog.Warn("Lint issue", logfields.Rule(issue.Rule), slog.String("subject", issue.Subject), slog.String("message", issue.Message))
	}
	slog.Debug("Scheduled lint complete",
		slog.Int("errors", in.Lint.Count(lint.SeverityError)),
		slog.Int("warnings", in.Lint.Count(lint.SeverityWarning)))
}

func (s *Service) serveMetrics(addr string) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryWatch, "failed to bind metrics listener").
			WithContext("addr", addr).
			Build()
	}
	srv := &http.Server{Handler: s.router(), ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", logfields.Error(err))
		}
	}()
	s.metricsAddr <- ln.Addr().String()
	slog.Info("Serving metrics", slog.String("addr", ln.Addr().String()))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
