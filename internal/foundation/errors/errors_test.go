package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("path", "docsite.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "invalid configuration" {
			t.Errorf("expected message 'invalid configuration', got %s", err.Message())
		}

		path, exists := err.Context().GetString("path")
		if !exists || path != "docsite.yaml" {
			t.Errorf("expected context path=docsite.yaml, got %v", path)
		}
	})

	t.Run("Error detection", func(t *testing.T) {
		err := ConfigError("test error").Build()

		if !IsClassified(err) {
			t.Error("expected error to be classified")
		}
		if !HasCategory(err, CategoryConfig) {
			t.Error("expected error to have config category")
		}
		if !HasSeverity(err, SeverityFatal) {
			t.Error("expected error to have fatal severity")
		}
		if err.CanRetry() {
			t.Error("expected config error to not be retryable")
		}
		if !err.IsFatal() {
			t.Error("expected config error to be fatal")
		}
	})

	t.Run("Wrapped chain", func(t *testing.T) {
		inner := RenderError("write failed").Build()
		outer := fmt.Errorf("run: %w", inner)

		if !HasCategory(outer, CategoryRender) {
			t.Error("expected wrapped error to keep render category")
		}
		if GetCategory(errors.New("plain")) != CategoryInternal {
			t.Error("expected plain error to be internal")
		}
	})
}

func TestErrorBuilder(t *testing.T) {
	originalErr := errors.New("connection refused")
	err := WrapError(originalErr, CategoryEvents, "publish failed").
		Warning().
		Retryable().
		WithContext("subject", "docsite.rendered").
		Build()

	if !errors.Is(err, originalErr) {
		t.Error("expected wrapped error to match original")
	}
	if !err.CanRetry() {
		t.Error("expected retryable error")
	}
	if err.IsFatal() {
		t.Error("warning must not be fatal")
	}
	want := "[events:warning] publish failed: connection refused"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestConvenienceConstructorsWithCause(t *testing.T) {
	cause := errors.New("disk full")
	tests := []struct {
		name     string
		builder  *ErrorBuilder
		category ErrorCategory
		retry    bool
		fatal    bool
	}{
		{"render", RenderError("render failed"), CategoryRender, false, true},
		{"filesystem", FileSystemError("write failed"), CategoryFileSystem, true, false},
		{"events", EventsError("publish failed"), CategoryEvents, true, false},
		{"internal", InternalError("marshal failed"), CategoryInternal, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.builder.WithCause(cause).Build()
			if !errors.Is(err, cause) {
				t.Error("expected cause to be wrapped")
			}
			if err.Category() != tt.category {
				t.Errorf("category = %s, want %s", err.Category(), tt.category)
			}
			if err.CanRetry() != tt.retry {
				t.Errorf("CanRetry() = %v, want %v", err.CanRetry(), tt.retry)
			}
			if err.IsFatal() != tt.fatal {
				t.Errorf("IsFatal() = %v, want %v", err.IsFatal(), tt.fatal)
			}
		})
	}
}

func TestWithContextDoesNotMutateOriginal(t *testing.T) {
	base := ValidationError("bad").WithContext("a", 1).Build()
	derived := base.WithContext("b", 2)

	if _, ok := base.Context().Get("b"); ok {
		t.Error("original context must not change")
	}
	if v, ok := derived.Context().Get("a"); !ok || v != 1 {
		t.Error("derived context must keep existing keys")
	}
}
