// Package metrics provides build observability for blogc.
//
// Components receive a Recorder through dependency injection. By default
// they use NoopRecorder, so metrics cost nothing unless a real recorder is
// wired in:
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	r := runner.New(c, runner.WithRecorder(rec))
//	mux.Handle("/metrics", metrics.HTTPHandler(reg))
package metrics
