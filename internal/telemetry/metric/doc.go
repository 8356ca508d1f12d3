// Package metric records Prometheus metrics for redline exchanges.
//
//   - prometheus.go: the registry and textfile export
//   - collector.go: build information and saved connection count
//
// redline is a one-shot process, so nothing is served over HTTP. When
// --metrics-file is set the registry is written in the node_exporter
// textfile format on exit.
package metric
