package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
)

// CLIErrorAdapter handles error presentation and exit code determination for CLI applications.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
	exit    func(int)
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
		out:     os.Stderr,
		exit:    os.Exit,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	if classified, ok := AsClassified(err); ok {
		return exitCodeFromClassified(classified)
	}

	return 1
}

// exitCodeFromClassified maps ClassifiedError to exit codes.
func exitCodeFromClassified(err *ClassifiedError) int {
	switch err.Category() {
	case CategoryValidation:
		return 2 // Invalid usage
	case CategoryNotFound, CategoryAlreadyExists:
		return 3
	case CategoryConfig:
		return 7 // Configuration error
	case CategoryNetwork, CategoryEvents, CategoryGit:
		return 8 // External system error
	case CategoryContent:
		return 9 // Content tree problems
	case CategoryRender, CategoryFileSystem, CategoryHistory:
		return 11 // Build error
	case CategoryWatch, CategoryRuntime:
		return 12 // Runtime error
	case CategoryInternal:
		return 10 // Internal error
	default:
		return 1 // General error
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	if classified, ok := AsClassified(err); ok {
		return a.formatClassified(classified)
	}

	return fmt.Sprintf("Error: %v", err)
}

// formatClassified formats a ClassifiedError for display. User-facing
// categories print the message plus any listed problems; everything else
// is prefixed with its category.
func (a *CLIErrorAdapter) formatClassified(err *ClassifiedError) string {
	if a.verbose {
		return err.Error()
	}

	var b strings.Builder
	switch err.Category() {
	case CategoryConfig, CategoryValidation, CategoryNotFound, CategoryAlreadyExists:
		b.WriteString(err.Message())
	default:
		fmt.Fprintf(&b, "%s: %s", err.Category(), err.Message())
	}

	if problems, ok := err.Context().Get("problems"); ok {
		if list, ok := problems.([]string); ok {
			for _, p := range list {
				fmt.Fprintf(&b, "\n  - %s", p)
			}
		}
	}
	if path, ok := err.Context().GetString("path"); ok {
		fmt.Fprintf(&b, " (%s)", path)
	}
	return b.String()
}

// HandleError processes an error and exits the program with appropriate code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}

	exitCode := a.ExitCodeFor(err)
	message := a.FormatError(err)

	if a.shouldLog(err) {
		a.logError(err)
	}

	fmt.Fprintf(a.out, "%s\n", message)
	a.exit(exitCode)
}

// shouldLog determines if an error should be logged.
func (a *CLIErrorAdapter) shouldLog(err error) bool {
	if a.verbose {
		return true
	}

	if classified, ok := AsClassified(err); ok {
		return classified.Category() == CategoryInternal ||
			classified.Category() == CategoryRuntime
	}

	return true
}

// logError logs an error with appropriate level and context.
func (a *CLIErrorAdapter) logError(err error) {
	classified, ok := AsClassified(err)
	if !ok {
		a.logger.Error("Unclassified error", "error", err)
		return
	}

	attrs := []slog.Attr{
		slog.String("category", string(classified.Category())),
	}
	if classified.CanRetry() {
		attrs = append(attrs, slog.Bool("retryable", true))
	}
	keys := make([]string, 0, len(classified.Context()))
	for k := range classified.Context() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, classified.Context()[k]))
	}
	if cause := classified.Cause(); cause != nil {
		attrs = append(attrs, slog.String("cause", cause.Error()))
	}

	a.logger.LogAttrs(context.Background(), slogLevelFromSeverity(classified.Severity()), classified.Message(), attrs...)
}

// slogLevelFromSeverity converts ClassifiedError severity to slog level.
func slogLevelFromSeverity(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
