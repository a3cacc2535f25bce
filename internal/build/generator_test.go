package build

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhlabs/unfold/docsite/internal/config"
	"github.com/jhlabs/unfold/docsite/internal/events"
	"github.com/jhlabs/unfold/docsite/internal/foundation/errors"
	"github.com/jhlabs/unfold/docsite/internal/gitinfo"
	"github.com/jhlabs/unfold/docsite/internal/history"
	"github.com/jhlabs/unfold/docsite/internal/lint"
	"github.com/jhlabs/unfold/docsite/internal/render"
	"github.com/jhlabs/unfold/docsite/internal/site"
	"github.com/jhlabs/unfold/docsite/internal/testutil/testutils"
)

type capturePublisher struct {
	events []events.RenderedEvent
	err    error
}

func (c *capturePublisher) PublishRendered(_ context.Context, e events.RenderedEvent) error {
	if c.err != nil {
		return c.err
	}
	c.events = append(c.events, e)
	return nil
}

func (c *capturePublisher) Close() error { return nil }

type fixture struct {
	root  string
	cfg   *config.Config
	store *history.SQLiteStore
	pub   *capturePublisher
	gen   *Generator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	cfgPath := filepath.Join(root, config.DefaultFileName)
	_, err := config.Init(cfgPath, false, config.InitOptions{SkipGit: true})
	require.NoError(t, err)
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)

	testutils.WriteUnfoldProject(t, root)

	store, err := history.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	pub := &capturePublisher{}
	gen := NewGenerator().
		WithHistory(store).
		WithPublisher(pub).
		WithGitDetector(func(string) (*gitinfo.Repository, error) {
			return &gitinfo.Repository{Commit: "abc123"}, nil
		})
	return &fixture{root: root, cfg: cfg, store: store, pub: pub, gen: gen}
}

func (f *fixture) history(t *testing.T) []history.Entry {
	t.Helper()
	entries, err := f.store.List(context.Background(), 0)
	require.NoError(t, err)
	return entries
}

func TestRun_WritesModuleAndRecords(t *testing.T) {
	f := newFixture(t)

	report, err := f.gen.Run(context.Background(), Request{Config: f.cfg})
	require.NoError(t, err)

	assert.Equal(t, history.OutcomeSuccess, report.Outcome)
	assert.Equal(t, TriggerCLI, report.Trigger)
	assert.Equal(t, len(testutils.UnfoldDocs), report.Documents)
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, f.cfg.Snapshot(), report.ConfigHash)
	require.Len(t, report.Files, 1)
	assert.True(t, report.Files[0].Changed)

	got, err := os.ReadFile(filepath.Join(f.root, "astro.config.mjs"))
	require.NoError(t, err)
	want, err := render.Module(site.Default())
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))

	entries := f.history(t)
	require.Len(t, entries, 1)
	assert.Equal(t, report.ID, entries[0].ID)
	assert.Equal(t, "abc123", entries[0].Commit)

	require.Len(t, f.pub.events, 1)
	assert.Equal(t, "Unfold.js", f.pub.events[0].Site)
	assert.Equal(t, report.ID, f.pub.events[0].RenderID)
}

func TestRun_SkipsUnchangedInputs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.gen.Run(ctx, Request{Config: f.cfg})
	require.NoError(t, err)

	report, err := f.gen.Run(ctx, Request{Config: f.cfg, Trigger: TriggerWatch})
	require.NoError(t, err)
	assert.Equal(t, history.OutcomeSkipped, report.Outcome)
	assert.Equal(t, "no_changes", report.SkipReason)
	assert.Len(t, f.history(t), 1, "skipped renders are not recorded")
	assert.Len(t, f.pub.events, 1)

	report, err = f.gen.Run(ctx, Request{Config: f.cfg, Force: true})
	require.NoError(t, err)
	assert.Equal(t, history.OutcomeSuccess, report.Outcome)
	assert.False(t, report.Files[0].Changed, "identical output is not rewritten")

	testutils.WriteFile(t, filepath.Join(f.cfg.ContentRoot(), "api", "page.md"), "---\ntitle: Page\n---\n")
	report, err = f.gen.Run(ctx, Request{Config: f.cfg})
	require.NoError(t, err)
	assert.Equal(t, history.OutcomeSuccess, report.Outcome, "content change defeats the skip")

	require.NoError(t, os.Remove(filepath.Join(f.root, "astro.config.mjs")))
	report, err = f.gen.Run(ctx, Request{Config: f.cfg})
	require.NoError(t, err)
	assert.Equal(t, history.OutcomeSuccess, report.Outcome, "missing output defeats the skip")
}

func TestRun_LintErrorsFail(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.Remove(filepath.Join(f.cfg.ContentRoot(), "guides", "events.md")))

	report, err := f.gen.Run(context.Background(), Request{Config: f.cfg})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
	assert.Equal(t, history.OutcomeFailed, report.Outcome)
	assert.Equal(t, 1, report.Lint.Count(lint.SeverityError))
	assert.NoFileExists(t, filepath.Join(f.root, "astro.config.mjs"))

	entries := f.history(t)
	require.Len(t, entries, 1)
	assert.Equal(t, history.OutcomeFailed, entries[0].Outcome)
	assert.Equal(t, 1, entries[0].Errors)
	assert.NotEmpty(t, entries[0].Message)
	assert.Empty(t, f.pub.events)

	report, err = f.gen.Run(context.Background(), Request{Config: f.cfg, AllowLintErrors: true})
	require.NoError(t, err)
	assert.Equal(t, history.OutcomeWarning, report.Outcome)
	assert.FileExists(t, filepath.Join(f.root, "astro.config.mjs"))
}

func TestRun_InvalidRecordFails(t *testing.T) {
	f := newFixture(t)
	f.cfg.Site.Title = ""

	report, err := f.gen.Run(context.Background(), Request{Config: f.cfg})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
	assert.Equal(t, history.OutcomeFailed, report.Outcome)
	assert.Nil(t, report.Lint)
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	f := newFixture(t)

	report, err := f.gen.Run(context.Background(), Request{Config: f.cfg, DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, history.OutcomeSuccess, report.Outcome)
	assert.Empty(t, report.Files)
	assert.NoFileExists(t, filepath.Join(f.root, "astro.config.mjs"))
	assert.Empty(t, f.history(t))
	assert.Empty(t, f.pub.events)
}

func TestRun_PublishFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.pub.err = stderrors.New("nats down")

	report, err := f.gen.Run(context.Background(), Request{Config: f.cfg})
	require.NoError(t, err)
	assert.Equal(t, history.OutcomeSuccess, report.Outcome)
	assert.Len(t, f.history(t), 1)
}

func TestRun_AllFormats(t *testing.T) {
	f := newFixture(t)
	f.cfg.Output.Formats = render.AllFormats

	report, err := f.gen.Run(context.Background(), Request{Config: f.cfg})
	require.NoError(t, err)
	require.Len(t, report.Files, 3)
	for _, format := range render.AllFormats {
		assert.FileExists(t, filepath.Join(f.root, format.FileName()))
	}
}

func TestRun_NilConfig(t *testing.T) {
	report, err := NewGenerator().Run(context.Background(), Request{})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
	assert.Equal(t, history.OutcomeFailed, report.Outcome)
}

func TestCheck(t *testing.T) {
	f := newFixture(t)
	in, err := Check(f.cfg)
	require.NoError(t, err)
	assert.Equal(t, len(testutils.UnfoldDocs), in.Tree.Len())
	assert.Len(t, in.Sidebar, len(f.cfg.Site.Sidebar))
	assert.Empty(t, in.Lint.Issues)
}
