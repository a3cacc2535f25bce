package build

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhlabs/unfold/docsite/internal/config"
	"github.com/jhlabs/unfold/docsite/internal/content"
	"github.com/jhlabs/unfold/docsite/internal/events"
	"github.com/jhlabs/unfold/docsite/internal/foundation/errors"
	"github.com/jhlabs/unfold/docsite/internal/gitinfo"
	"github.com/jhlabs/unfold/docsite/internal/history"
	"github.com/jhlabs/unfold/docsite/internal/lint"
	"github.com/jhlabs/unfold/docsite/internal/logfields"
	"github.com/jhlabs/unfold/docsite/internal/metrics"
	"github.com/jhlabs/unfold/docsite/internal/observability"
	"github.com/jhlabs/unfold/docsite/internal/render"
	"github.com/jhlabs/unfold/docsite/internal/site"
)

// Stage names used for logging and metrics.
const (
	StageValidate = "validate"
	StageScan     = "scan"
	StageLint     = "lint"
	StageSkip     = "skip_evaluation"
	StageWrite    = "write"
	StageHistory  = "history"
	StagePublish  = "publish"
)

// Generator executes renders. The zero value is not usable; use
// NewGenerator.
type Generator struct {
	store     history.Store
	publisher events.Publisher
	recorder  metrics.Recorder
	gitDetect func(dir string) (*gitinfo.Repository, error)
	newID     func() string
	now       func() time.Time
}

// NewGenerator creates a Generator without history, events or metrics.
func NewGenerator() *Generator {
	return &Generator{
		publisher: events.NoopPublisher{},
		recorder:  metrics.NoopRecorder{},
		gitDetect: gitinfo.Detect,
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

// WithHistory records every render in store and enables skip evaluation.
func (g *Generator) WithHistory(store history.Store) *Generator {
	g.store = store
	return g
}

// WithPublisher publishes render events through p.
func (g *Generator) WithPublisher(p events.Publisher) *Generator {
	if p != nil {
		g.publisher = p
	}
	return g
}

// WithRecorder reports metrics to r.
func (g *Generator) WithRecorder(r metrics.Recorder) *Generator {
	if r != nil {
		g.recorder = r
	}
	return g
}

// WithGitDetector replaces git repository detection (for testing).
func (g *Generator) WithGitDetector(fn func(dir string) (*gitinfo.Repository, error)) *Generator {
	g.gitDetect = fn
	return g
}

type run struct {
	g      *Generator
	ctx    context.Context
	req    Request
	report *Report
}

// Run executes the render pipeline. The returned report is non-nil even
// when an error is returned.
func (g *Generator) Run(ctx context.Context, req Request) (*Report, error) {
	if req.Trigger == "" {
		req.Trigger = TriggerCLI
	}
	r := &run{g: g, req: req, report: &Report{
		ID:        g.newID(),
		Trigger:   req.Trigger,
		StartedAt: g.now(),
	}}
	r.ctx = observability.WithTrigger(observability.WithRenderID(ctx, r.report.ID), req.Trigger)

	if req.Config == nil {
		return r.fail("", errors.ConfigError("config required").Build())
	}
	cfg := req.Config
	r.report.ConfigHash = cfg.Snapshot()

	// Stage 1: validate the record
	stageStart := time.Now()
	if err := site.Validate(cfg.Site); err != nil {
		return r.fail(StageValidate, err)
	}
	r.stageDone(StageValidate, stageStart, metrics.ResultSuccess)

	// Stage 2: scan content
	stageStart = time.Now()
	tree, err := content.Scan(cfg.ContentRoot())
	if err != nil {
		return r.fail(StageScan, err)
	}
	r.report.Documents = tree.Len()
	r.report.ContentHash = tree.Fingerprint()
	g.recorder.SetDocuments(tree.Len())
	r.stageDone(StageScan, stageStart, metrics.ResultSuccess)

	// Stage 3: lint
	stageStart = time.Now()
	r.report.Lint = lint.Lint(cfg.Site, tree, cfg.ProjectRoot())
	for _, sev := range []lint.Severity{lint.SeverityError, lint.SeverityWarning, lint.SeverityInfo} {
		g.recorder.SetLintIssues(strings.ToLower(sev.String()), r.report.Lint.Count(sev))
	}
	if r.report.Lint.HasErrors() && !req.AllowLintErrors {
		n := r.report.Lint.Count(lint.SeverityError)
		return r.fail(StageLint, errors.ValidationError("content does not match the site configuration").
			WithContext("problems", lintProblems(r.report.Lint)).
			WithContext("errors", n).
			Build())
	}
	lintResult := metrics.ResultSuccess
	if r.report.Lint.HasWarnings() {
		lintResult = metrics.ResultWarning
	}
	r.stageDone(StageLint, stageStart, lintResult)

	if req.DryRun {
		r.report.Outcome = r.successOutcome()
		return r.finish(), nil
	}

	// Stage 4: skip evaluation
	if !req.Force && g.store != nil {
		stageStart = time.Now()
		if reason, skip := r.canSkip(cfg); skip {
			r.report.SkipReason = reason
			r.report.Outcome = history.OutcomeSkipped
			r.stageDone(StageSkip, stageStart, metrics.ResultSkipped)
			observability.InfoContext(r.ctx, "Render skipped - inputs unchanged")
			return r.finish(), nil
		}
		r.stageDone(StageSkip, stageStart, metrics.ResultSuccess)
	}

	// Stage 5: write outputs
	stageStart = time.Now()
	files, err := render.Write(cfg.Site, cfg.OutputDir(), cfg.Output.Formats)
	r.report.Files = files
	if err != nil {
		return r.fail(StageWrite, err)
	}
	r.stageDone(StageWrite, stageStart, metrics.ResultSuccess)
	for _, f := range files {
		observability.DebugContext(r.ctx, "Output written",
			logfields.Format(string(f.Format)), logfields.Path(f.Path), slog.Bool("changed", f.Changed))
	}

	r.report.Outcome = r.successOutcome()
	r.record(cfg, "")
	r.publish(cfg)
	return r.finish(), nil
}

func (r *run) successOutcome() history.Outcome {
	if r.report.Lint != nil && (r.report.Lint.HasWarnings() || r.report.Lint.HasErrors()) {
		return history.OutcomeWarning
	}
	return history.OutcomeSuccess
}

// canSkip reports whether the latest successful render used the same
// inputs and its outputs are still present.
func (r *run) canSkip(cfg *config.Config) (string, bool) {
	latest, err := r.g.store.Latest(r.ctx)
	if err != nil {
		observability.WarnContext(r.ctx, "Failed to read render history", logfields.Error(err))
		return "", false
	}
	if latest == nil {
		return "", false
	}
	switch latest.Outcome {
	case history.OutcomeSuccess, history.OutcomeWarning, history.OutcomeSkipped:
	default:
		return "", false
	}
	if latest.ConfigHash != r.report.ConfigHash || latest.ContentHash != r.report.ContentHash {
		return "", false
	}
	for _, f := range cfg.Output.Formats {
		if _, err := os.Stat(filepath.Join(cfg.OutputDir(), f.FileName())); err != nil {
			return "", false
		}
	}
	return "no_changes", true
}

func (r *run) stageDone(stage string, start time.Time, result metrics.ResultLabel) {
	d := time.Since(start)
	r.g.recorder.ObserveStageDuration(stage, d)
	r.g.recorder.IncStageResult(stage, result)
	observability.DebugContext(observability.WithStage(r.ctx, stage), "Stage complete",
		logfields.DurationMS(float64(d.Microseconds())/1000))
}

func (r *run) fail(stage string, err error) (*Report, error) {
	r.report.Outcome = history.OutcomeFailed
	if stage != "" {
		r.g.recorder.IncStageResult(stage, metrics.ResultFatal)
		observability.ErrorContext(observability.WithStage(r.ctx, stage), "Render failed", logfields.Error(err))
	}
	if !r.req.DryRun && r.req.Config != nil {
		r.record(r.req.Config, err.Error())
	}
	return r.finish(), err
}

func (r *run) finish() *Report {
	r.report.Duration = r.g.now().Sub(r.report.StartedAt)
	r.g.recorder.IncRenderOutcome(string(r.report.Outcome))
	r.g.recorder.ObserveRenderDuration(r.report.Duration)
	observability.InfoContext(r.ctx, "Render finished",
		logfields.Outcome(string(r.report.Outcome)),
		logfields.DurationMS(float64(r.report.Duration.Microseconds())/1000),
		slog.Int("files_changed", r.report.ChangedFiles()))
	return r.report
}

func (r *run) commit(cfg *config.Config) string {
	if r.report.Commit != "" || r.g.gitDetect == nil {
		return r.report.Commit
	}
	if repo, err := r.g.gitDetect(cfg.ProjectRoot()); err == nil {
		r.report.Commit = repo.Commit
	}
	return r.report.Commit
}

func (r *run) record(cfg *config.Config, message string) {
	if r.g.store == nil {
		return
	}
	start := time.Now()
	errs, warnings := r.report.issueCounts()
	entry := history.Entry{
		ID:          r.report.ID,
		StartedAt:   r.report.StartedAt,
		Duration:    r.g.now().Sub(r.report.StartedAt),
		Trigger:     r.report.Trigger,
		Outcome:     r.report.Outcome,
		ConfigHash:  r.report.ConfigHash,
		ContentHash: r.report.ContentHash,
		Commit:      r.commit(cfg),
		Files:       r.report.FilePaths(),
		Errors:      errs,
		Warnings:    warnings,
		Message:     message,
	}
	if err := r.g.store.Append(r.ctx, entry); err != nil {
		r.g.recorder.IncStageResult(StageHistory, metrics.ResultWarning)
		observability.WarnContext(r.ctx, "Failed to record render history", logfields.Error(err))
		return
	}
	r.g.recorder.ObserveStageDuration(StageHistory, time.Since(start))
}

func (r *run) publish(cfg *config.Config) {
	start := time.Now()
	errs, warnings := r.report.issueCounts()
	event := events.RenderedEvent{
		RenderID:    r.report.ID,
		Site:        cfg.Site.Title,
		Outcome:     string(r.report.Outcome),
		Trigger:     r.report.Trigger,
		ConfigHash:  r.report.ConfigHash,
		ContentHash: r.report.ContentHash,
		Commit:      r.commit(cfg),
		Files:       r.report.FilePaths(),
		Errors:      errs,
		Warnings:    warnings,
		DurationMS:  r.g.now().Sub(r.report.StartedAt).Milliseconds(),
		Timestamp:   r.g.now(),
	}
	if err := r.g.publisher.PublishRendered(r.ctx, event); err != nil {
		r.g.recorder.IncStageResult(StagePublish, metrics.ResultWarning)
		observability.WarnContext(r.ctx, "Failed to publish render event", logfields.Error(err))
		return
	}
	r.g.recorder.ObserveStageDuration(StagePublish, time.Since(start))
	r.g.recorder.IncStageResult(StagePublish, metrics.ResultSuccess)
}

func lintProblems(res *lint.Result) []string {
	var out []string
	for _, issue := range res.Issues {
		if issue.Severity == lint.SeverityError {
			out = append(out, issue.Rule+": "+issue.Subject+": "+issue.Message)
		}
	}
	return out
}
