package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Formatter formats linting results for output.
type Formatter interface {
	Format(w io.Writer, result *Result, contentRoot string) error
}

// NewFormatter returns the formatter for name ("text" or "json").
func NewFormatter(name string) (Formatter, error) {
	switch strings.ToLower(name) {
	case "", "text":
		return NewTextFormatter(), nil
	case "json":
		return NewJSONFormatter(), nil
	}
	return nil, fmt.Errorf("unknown lint output format %q", name)
}

// TextFormatter formats results as human-readable text.
type TextFormatter struct{}

// NewTextFormatter creates a text formatter.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// Format outputs results in human-readable text format. Issues keep the
// order the rules produced them in.
func (f *TextFormatter) Format(w io.Writer, result *Result, contentRoot string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Linting site against content in: %s\n", contentRoot)
	b.WriteString(strings.Repeat("━", 60))
	b.WriteString("\n\n")

	for _, issue := range result.Issues {
		formatIssue(&b, issue)
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("━", 60))
	b.WriteString("\nResults:\n")
	fmt.Fprintf(&b, "  %d document%s scanned\n", result.DocumentsTotal, pluralize(result.DocumentsTotal))
	if n := result.Count(SeverityError); n > 0 {
		fmt.Fprintf(&b, "  %d error%s (breaks the site build)\n", n, pluralize(n))
	}
	if n := result.Count(SeverityWarning); n > 0 {
		fmt.Fprintf(&b, "  %d warning%s (should fix)\n", n, pluralize(n))
	}
	if n := result.Count(SeverityInfo); n > 0 {
		fmt.Fprintf(&b, "  %d info\n", n)
	}
	b.WriteString("\n")

	switch {
	case result.HasErrors():
		b.WriteString("❌ Site configuration has errors that will break the docs build.\n")
	case result.HasWarnings():
		b.WriteString("⚠️  Site configuration has warnings. Consider fixing before deploy.\n")
	case len(result.Issues) > 0:
		b.WriteString("ℹ️  All issues are informational.\n")
	default:
		b.WriteString("✨ Site configuration and content are consistent!\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func formatIssue(b *strings.Builder, issue Issue) {
	var icon string
	switch issue.Severity {
	case SeverityError:
		icon = "✗"
	case SeverityWarning:
		icon = "⚠"
	case SeverityInfo:
		icon = "ℹ"
	}

	fmt.Fprintf(b, "%s %s [%s]\n", icon, issue.Subject, issue.Rule)
	fmt.Fprintf(b, "  %s: %s\n", issue.Severity, issue.Message)
	if issue.Fix != "" {
		fmt.Fprintf(b, "  Fix: %s\n", issue.Fix)
	}
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// JSONFormatter formats results as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// JSONOutput represents the JSON output structure.
type JSONOutput struct {
	ContentRoot    string  `json:"content_root"`
	DocumentsTotal int     `json:"documents_total"`
	ErrorCount     int     `json:"error_count"`
	WarningCount   int     `json:"warning_count"`
	InfoCount      int     `json:"info_count"`
	Issues         []Issue `json:"issues"`
}

// Format outputs results as indented JSON.
func (f *JSONFormatter) Format(w io.Writer, result *Result, contentRoot string) error {
	out := JSONOutput{
		ContentRoot:    contentRoot,
		DocumentsTotal: result.DocumentsTotal,
		ErrorCount:     result.Count(SeverityError),
		WarningCount:   result.Count(SeverityWarning),
		InfoCount:      result.Count(SeverityInfo),
		Issues:         result.Issues,
	}
	if out.Issues == nil {
		out.Issues = []Issue{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
