// Package lint cross-checks the site configuration against the content
// tree and the project's stylesheets.
package lint

import (
	"encoding/json"
	"strings"

	"github.com/jhlabs/unfold/docsite/internal/foundation/normalization"
)

// Severity indicates the importance level of a linting issue.
type Severity int

const (
	// SeverityInfo marks observations that need no action.
	SeverityInfo Severity = iota
	// SeverityWarning marks issues that should be fixed but don't break the site.
	SeverityWarning
	// SeverityError marks issues that will break the framework build.
	SeverityError
)

// String returns the human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON encodes the severity as its lowercase name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToLower(s.String()))
}

var severityNames = normalization.NewNormalizer("severity",
	map[string]Severity{"info": SeverityInfo, "warning": SeverityWarning, "error": SeverityError},
	map[string]Severity{"warn": SeverityWarning},
)

// ParseSeverity accepts info, warning or error.
func ParseSeverity(s string) (Severity, error) {
	return severityNames.Parse(s)
}

// Issue is a single linting problem.
type Issue struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	// Subject is what the issue is about: a slug, a file, or a config field.
	Subject string `json:"subject"`
	Message string `json:"message"`
	Fix     string `json:"fix,omitempty"`
}

// Result contains all issues found during linting.
type Result struct {
	Issues         []Issue `json:"issues"`
	DocumentsTotal int     `json:"documents_total"`
}

// Count returns the number of issues at severity s.
func (r *Result) Count(s Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == s {
			n++
		}
	}
	return n
}

// HasErrors returns true if any error-level issues exist.
func (r *Result) HasErrors() bool { return r.Count(SeverityError) > 0 }

// HasWarnings returns true if any warning-level issues exist.
func (r *Result) HasWarnings() bool { return r.Count(SeverityWarning) > 0 }

// Filter returns a copy holding only issues at or above min.
func (r *Result) Filter(min Severity) *Result {
	out := &Result{DocumentsTotal: r.DocumentsTotal, Issues: []Issue{}}
	for _, issue := range r.Issues {
		if issue.Severity >= min {
			out.Issues = append(out.Issues, issue)
		}
	}
	return out
}
