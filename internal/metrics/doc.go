// Package metrics provides render and watch metrics for docsite.
//
// Components receive a Recorder through dependency injection. NoopRecorder
// is the default, so callers never check for nil:
//
//	type Generator struct {
//		recorder metrics.Recorder
//	}
//
//	g.recorder.ObserveStageDuration("scan", time.Since(start))
//
// PrometheusRecorder registers its collectors on a caller-supplied registry;
// HTTPHandler serves that registry for `docsite watch`.
package metrics
