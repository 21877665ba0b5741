// Package metrics provides the centralized Prometheus metrics registry for
// the idstore tool. All metrics are defined in their respective packages
// (directory, batch) to maintain modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the tool.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Directory Request Metrics (pkg/directory):
//   - idstore_requests_total{operation, status} (Counter): API requests by operation and outcome
//   - idstore_request_duration_seconds{operation} (Histogram): request duration by operation
//   - idstore_errors_total{class} (Counter): errors by class (client, server, throttle, network)
//
// Retry Metrics (pkg/directory):
//   - idstore_retries_total{error_class} (Counter): retry attempts by error class
//   - idstore_retry_backoff_seconds{error_class} (Histogram): backoff duration by error class
//   - idstore_retry_exhausted_total{error_class} (Counter): requests that exhausted max retries
//
// Enrichment Metrics (pkg/batch):
//   - idstore_enrichment_tasks_total{outcome} (Counter): tasks by outcome (success, failure, cancelled)
//   - idstore_enrichment_tasks_in_flight (Gauge): tasks currently executing
//   - idstore_enrichment_task_duration_seconds (Histogram): per-task duration
//
// Example Prometheus Queries:
//
//   # Request Error Rate
//   rate(idstore_errors_total[5m])
//
//   # Enrichment Failure Ratio
//   sum(rate(idstore_enrichment_tasks_total{outcome="failure"}[5m])) /
//   sum(rate(idstore_enrichment_tasks_total[5m]))
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(idstore_request_duration_seconds_bucket[5m]))
