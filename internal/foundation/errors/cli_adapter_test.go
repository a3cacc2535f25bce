package errors

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation", err: ValidationError("bad slug").Build(), expected: 2},
		{name: "config", err: ConfigError("bad config").Build(), expected: 7},
		{name: "content", err: ContentError("missing doc").Build(), expected: 9},
		{name: "render", err: RenderError("write").Build(), expected: 11},
		{name: "events", err: EventsError("nats").Build(), expected: 8},
		{name: "internal", err: InternalError("boom").Build(), expected: 10},
		{name: "unclassified", err: errors.New("unknown"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	err := ValidationError("site configuration is invalid").
		WithContext("problems", []string{"sidebar[0]: label is required", "custom_css[0]: not a stylesheet"}).
		Build()
	msg := adapter.FormatError(err)

	assert.True(t, strings.HasPrefix(msg, "site configuration is invalid"))
	assert.Contains(t, msg, "\n  - sidebar[0]: label is required")
	assert.Contains(t, msg, "\n  - custom_css[0]: not a stylesheet")

	assert.Equal(t, "render: write failed", adapter.FormatError(RenderError("write failed").Build()))
	assert.Equal(t, "Error: plain", adapter.FormatError(errors.New("plain")))
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var logs, out bytes.Buffer
	adapter := NewCLIErrorAdapter(true, slog.New(slog.NewTextHandler(&logs, nil)))
	adapter.out = &out
	code := -1
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(ConfigError("configuration file not found").WithContext("path", "x.yaml").Build())

	require.Equal(t, 7, code)
	assert.Contains(t, out.String(), "configuration file not found")
	assert.Contains(t, logs.String(), "category=config")
	assert.Contains(t, logs.String(), "path=x.yaml")
}
