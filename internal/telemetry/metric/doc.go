// Package metric provides Prometheus metrics for nearhand.
//
// Metrics include:
//
//   - Account and login counters
//   - Help request lifecycle counters by outcome
//   - HTTP request counters and latency histograms
//   - Storage engine size gauges (registered by the storage package)
//
// Metrics are exposed at /metrics in Prometheus format.
package metric
