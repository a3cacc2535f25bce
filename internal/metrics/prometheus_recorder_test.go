package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("scan", 150*time.Millisecond)
	pr.ObserveRenderDuration(500 * time.Millisecond)
	pr.IncStageResult("scan", ResultSuccess)
	pr.IncRenderOutcome("success")
	pr.IncRenderOutcome("success")
	pr.SetLintIssues("warning", 3)
	pr.SetDocuments(15)
	pr.IncWatchEvent("content")

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, mfs, 7)

	values := map[string]float64{}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				values[mf.GetName()] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[mf.GetName()] = m.GetGauge().GetValue()
			}
		}
	}
	assert.InDelta(t, 2, values["docsite_render_outcomes_total"], 0)
	assert.InDelta(t, 3, values["docsite_lint_issues"], 0)
	assert.InDelta(t, 15, values["docsite_content_documents"], 0)
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncRenderOutcome("skipped")

	srv := httptest.NewServer(HTTPHandler(reg))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `docsite_render_outcomes_total{outcome="skipped"} 1`)
}
