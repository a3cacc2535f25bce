package watch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jhlabs/unfold/docsite/internal/build"
	"github.com/jhlabs/unfold/docsite/internal/config"
	"github.com/jhlabs/unfold/docsite/internal/history"
	"github.com/jhlabs/unfold/docsite/internal/metrics"
)

type countingRenderer struct {
	mu       sync.Mutex
	requests []build.Request
}

func (c *countingRenderer) Run(_ context.Context, req build.Request) (*build.Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, req)
	return &build.Report{ID: "r", Outcome: history.OutcomeSuccess}, nil
}

func (c *countingRenderer) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.requests)
}

func (c *countingRenderer) last() build.Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requests[len(c.requests)-1]
}

func newProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	cfgPath := filepath.Join(root, config.DefaultFileName)
	_, err := config.Init(cfgPath, false, config.InitOptions{SkipGit: true})
	require.NoError(t, err)
	mustWrite(t, filepath.Join(root, "src", "content", "docs", "guides", "styling.md"), "# Styling\n")
	mustWrite(t, filepath.Join(root, "src", "styles", "global.css"), "body {}\n")
	return cfgPath
}

func mustWrite(t *testing.T, p, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
}

func startService(t *testing.T, opts Options) (*Service, context.CancelFunc) {
	t.Helper()
	if opts.Debounce == 0 {
		opts.Debounce = 20 * time.Millisecond
	}
	svc := New(opts)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("watcher did not stop")
		}
	})
	return svc, cancel
}

func TestService_RendersOnStartAndOnChange(t *testing.T) {
	cfgPath := newProject(t)
	root := filepath.Dir(cfgPath)
	r := &countingRenderer{}
	startService(t, Options{ConfigPath: cfgPath, Renderer: r, ForceFirst: true})

	require.Eventually(t, func() bool { return r.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.True(t, r.last().Force)
	assert.Equal(t, build.TriggerWatch, r.last().Trigger)

	mustWrite(t, filepath.Join(root, "src", "content", "docs", "guides", "styling.md"), "# Styling v2\n")
	require.Eventually(t, func() bool { return r.count() >= 2 }, 2*time.Second, 10*time.Millisecond)
	assert.False(t, r.last().Force)

	n := r.count()
	mustWrite(t, filepath.Join(root, "src", "styles", "global.css"), "body { margin: 0 }\n")
	require.Eventually(t, func() bool { return r.count() > n }, 2*time.Second, 10*time.Millisecond)

	// Output files next to the config are not inputs.
	n = r.count()
	mustWrite(t, filepath.Join(root, "astro.config.mjs"), "// generated\n")
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, n, r.count())
}

func TestService_StopReleasesResources(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	cfgPath := newProject(t)
	r := &countingRenderer{}
	svc := New(Options{ConfigPath: cfgPath, Renderer: r, Debounce: 20 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	require.Eventually(t, func() bool { return r.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestService_WatchesNewDirectories(t *testing.T) {
	cfgPath := newProject(t)
	root := filepath.Dir(cfgPath)
	r := &countingRenderer{}
	startService(t, Options{ConfigPath: cfgPath, Renderer: r})
	require.Eventually(t, func() bool { return r.count() == 1 }, 2*time.Second, 10*time.Millisecond)

	newDir := filepath.Join(root, "src", "content", "docs", "api")
	require.NoError(t, os.MkdirAll(newDir, 0o750))
	require.Eventually(t, func() bool { return r.count() >= 2 }, 2*time.Second, 10*time.Millisecond)

	// Give the watcher a moment to register the new directory.
	time.Sleep(50 * time.Millisecond)
	n := r.count()
	mustWrite(t, filepath.Join(newDir, "book.md"), "# Book\n")
	require.Eventually(t, func() bool { return r.count() > n }, 2*time.Second, 10*time.Millisecond)
}

func TestService_ReloadsConfig(t *testing.T) {
	cfgPath := newProject(t)
	r := &countingRenderer{}
	startService(t, Options{ConfigPath: cfgPath, Renderer: r})
	require.Eventually(t, func() bool { return r.count() == 1 }, 2*time.Second, 10*time.Millisecond)

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "Unfold.js", r.last().Config.Site.Title)

	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	updated := []byte(string(data) + "\n")
	updated = []byte(strings.Replace(string(updated), "title: Unfold.js", "title: Fold.js", 1))
	require.NoError(t, os.WriteFile(cfgPath, updated, 0o600))

	require.Eventually(t, func() bool {
		return r.count() >= 2 && r.last().Config.Site.Title == "Fold.js"
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, cfg.ContentRoot(), r.last().Config.ContentRoot())

	// A broken config is ignored and the previous one kept.
	n := r.count()
	require.NoError(t, os.WriteFile(cfgPath, []byte("title: [unterminated\n"), 0o600))
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, n, r.count())

	mustWrite(t, filepath.Join(filepath.Dir(cfgPath), "src", "content", "docs", "guides", "events.md"), "# Events\n")
	require.Eventually(t, func() bool { return r.count() > n }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "Fold.js", r.last().Config.Site.Title)
}

func TestService_ReloadsEnvFileEdits(t *testing.T) {
	cfgPath := newProject(t)
	root := filepath.Dir(cfgPath)
	t.Setenv("DOCSITE_WATCH_TITLE", "")
	require.NoError(t, os.Unsetenv("DOCSITE_WATCH_TITLE"))

	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	body := strings.Replace(string(data), "title: Unfold.js", "title: ${DOCSITE_WATCH_TITLE}", 1)
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o600))
	mustWrite(t, filepath.Join(root, ".env"), "DOCSITE_WATCH_TITLE=First\n")

	r := &countingRenderer{}
	startService(t, Options{ConfigPath: cfgPath, Renderer: r})
	require.Eventually(t, func() bool { return r.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "First", r.last().Config.Site.Title)

	mustWrite(t, filepath.Join(root, ".env"), "DOCSITE_WATCH_TITLE=Second\n")
	require.Eventually(t, func() bool {
		return r.count() >= 2 && r.last().Config.Site.Title == "Second"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestService_ServesMetrics(t *testing.T) {
	cfgPath := newProject(t)
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	require.NotEmpty(t, cfg.Watch.MetricsAddr)

	// Rebind to an ephemeral port.
	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(cfgPath, []byte(strings.Replace(string(data), cfg.Watch.MetricsAddr, "127.0.0.1:0", 1)), 0o600))

	reg := prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)
	svc, _ := startService(t, Options{ConfigPath: cfgPath, Renderer: &countingRenderer{}, Recorder: rec, Registry: reg})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	addr := svc.MetricsAddr(ctx)
	require.NotEmpty(t, addr)

	rec.IncRenderOutcome("success")
	resp, err := http.Get("http://" + addr + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "docsite_render_outcomes_total")

	require.Eventually(t, func() bool { return svc.Status().LastRender != nil }, 2*time.Second, 10*time.Millisecond)
	health, err := http.Get("http://" + addr + "/healthz")
	require.NoError(t, err)
	defer health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)
	var st Status
	require.NoError(t, json.NewDecoder(health.Body).Decode(&st))
	require.NotNil(t, st.LastRender)
	assert.Equal(t, "success", st.LastRender.Outcome)
	assert.NotEmpty(t, st.ConfigHash)
}

func TestService_LintOnce(t *testing.T) {
	cfgPath := newProject(t)
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)

	reg := prom.NewRegistry()
	svc := New(Options{ConfigPath: cfgPath, Renderer: &countingRenderer{}, Recorder: metrics.NewPrometheusRecorder(reg)})
	svc.setConfig(cfg)
	svc.lintOnce()

	mfs, err := reg.Gather()
	require.NoError(t, err)
	found := false
	for _, mf := range mfs {
		if mf.GetName() == "docsite_content_documents" {
			found = true
			assert.InDelta(t, 1, mf.GetMetric()[0].GetGauge().GetValue(), 0)
		}
	}
	assert.True(t, found)
}

func TestService_StartFailsWithoutConfig(t *testing.T) {
	err := New(Options{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml"), Renderer: &countingRenderer{}}).Run(context.Background())
	require.Error(t, err)
}

func TestStartupSettingsChanged(t *testing.T) {
	cfgPath := newProject(t)
	prev, err := config.Load(cfgPath)
	require.NoError(t, err)
	next, err := config.Load(cfgPath)
	require.NoError(t, err)
	assert.Empty(t, startupSettingsChanged(prev, next))

	next.Site.Title = "Fold.js"
	next.Watch.Debounce = "2s"
	assert.Empty(t, startupSettingsChanged(prev, next), "site and debounce apply on reload")

	disabled := false
	next.History.Enabled = &disabled
	next.Events.Enabled = true
	next.Watch.MetricsAddr = "127.0.0.1:0"
	next.Watch.LintInterval = "1h"
	assert.Equal(t, []string{"history", "events", "watch.metrics_addr", "watch.lint_interval"}, startupSettingsChanged(prev, next))
}

func TestSourcesClassify(t *testing.T) {
	cfgPath := newProject(t)
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	root := cfg.ProjectRoot()
	s := newSources(cfg)

	cases := map[string]Source{
		cfgPath:                     SourceConfig,
		filepath.Join(root, ".env"): SourceConfig,
		filepath.Join(root, "src", "styles", "global.css"):       SourceCSS,
		filepath.Join(root, "src", "styles", "other.css"):        SourceNone,
		filepath.Join(root, "src", "content", "docs", "a.md"):    SourceContent,
		filepath.Join(root, "src", "content", "docs", "api"):     SourceContent,
		filepath.Join(root, "src", "content", "docs", ".a.swp"):  SourceNone,
		filepath.Join(root, "src", "content", "docs", "img.png"): SourceNone,
		filepath.Join(root, "astro.config.mjs"):                  SourceNone,
	}
	for p, want := range cases {
		assert.Equal(t, want, s.classify(p), p)
	}

	dirs := s.dirs()
	assert.Contains(t, dirs, root)
	assert.Contains(t, dirs, filepath.Join(root, "src", "styles"))
	assert.Contains(t, dirs, filepath.Join(root, "src", "content", "docs", "guides"))
}
