package build

import (
	"time"

	"github.com/jhlabs/unfold/docsite/internal/config"
	"github.com/jhlabs/unfold/docsite/internal/history"
	"github.com/jhlabs/unfold/docsite/internal/lint"
	"github.com/jhlabs/unfold/docsite/internal/render"
)

// Triggers recorded with each render.
const (
	TriggerCLI      = "cli"
	TriggerWatch    = "watch"
	TriggerSchedule = "schedule"
)

// Request contains all inputs of one render.
type Request struct {
	Config *config.Config
	// Trigger names what started the render; defaults to TriggerCLI.
	Trigger string
	// Force renders even when inputs are unchanged.
	Force bool
	// AllowLintErrors writes outputs even when lint reports errors.
	AllowLintErrors bool
	// DryRun runs every check but writes nothing and records nothing.
	DryRun bool
}

// Report is the outcome of one render.
type Report struct {
	ID          string
	Trigger     string
	StartedAt   time.Time
	Duration    time.Duration
	Outcome     history.Outcome
	ConfigHash  string
	ContentHash string
	Commit      string
	Documents   int
	Files       []render.WrittenFile
	Lint        *lint.Result
	// SkipReason is set when Outcome is skipped.
	SkipReason string
}

// FilePaths returns the written file paths.
func (r *Report) FilePaths() []string {
	out := make([]string, 0, len(r.Files))
	for _, f := range r.Files {
		out = append(out, f.Path)
	}
	return out
}

// ChangedFiles counts files whose content changed.
func (r *Report) ChangedFiles() int {
	n := 0
	for _, f := range r.Files {
		if f.Changed {
			n++
		}
	}
	return n
}

func (r *Report) issueCounts() (errs, warnings int) {
	if r.Lint == nil {
		return 0, 0
	}
	return r.Lint.Count(lint.SeverityError), r.Lint.Count(lint.SeverityWarning)
}
