// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_http_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backoffice_http_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	RecordOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_record_operations_total",
			Help: "Record store operations by resource and outcome",
		},
		[]string{"resource", "operation", "outcome"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_record_cache_lookups_total",
			Help: "Record cache lookups by result",
		},
		[]string{"result"},
	)

	SpreadsheetRowsImported = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "backoffice_quote_schedule_rows_imported_total",
			Help: "Quote schedule rows persisted from uploaded workbooks",
		},
	)
)
