// Package metrics provides the centralized Prometheus registry reference
// for the catalog proxy. All metrics are defined in their respective
// packages (cache, keno) to maintain modularity and avoid circular
// dependencies.
//
// This package provides documentation and reference for all available
// metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the proxy.
// All metrics are automatically registered via promauto in their respective
// packages and served by the /metrics endpoint.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - keno_cache_hits_total{layer="memory"} (Counter): fresh cache hits
//   - keno_cache_misses_total (Counter): misses, absent or stale
//   - keno_cache_entries{layer="memory"} (Gauge): live entry count
//
// Vendor Request Metrics (pkg/keno):
//   - keno_requests_total{method, status} (Counter): vendor RPCs by method
//     and outcome (HTTP status or network_error/application_error/...)
//   - keno_request_duration_seconds{method} (Histogram): vendor RPC duration
//   - keno_errors_total{kind} (Counter): vendor errors by kind
//     (transport, application)
//
// Retry Metrics (pkg/keno):
//   - keno_retries_total (Counter): retry attempts
//   - keno_retry_exhausted_total (Counter): calls that exhausted retries
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(keno_cache_hits_total[5m])) /
//   (sum(rate(keno_cache_hits_total[5m])) + sum(rate(keno_cache_misses_total[5m])))
//
//   # Vendor Error Rate
//   rate(keno_errors_total[5m])
//
//   # P95 Vendor Latency
//   histogram_quantile(0.95, rate(keno_request_duration_seconds_bucket[5m]))
