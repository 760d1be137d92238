// Package metrics records run and stage metrics for blogsync.
//
// Components receive a Recorder; NoopRecorder is the default so callers never
// nil-check. PrometheusRecorder backs the real implementation, and
// WriteTextfile exports a registry for the node_exporter textfile collector,
// which suits a CLI that exits after each run.
package metrics
