package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ShiftOperations compte les écritures par opération (propose, update, delete) et résultat
	ShiftOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planning_shift_operations_total",
			Help: "Number of shift write operations by operation and result",
		},
		[]string{"operation", "result"},
	)

	ViolationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planning_violations_total",
			Help: "Number of constraint violations reported, by kind",
		},
		[]string{"kind"},
	)

	ShiftsRepaired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "planning_shifts_repaired_total",
			Help: "Number of shifts snapped back onto the time grid",
		},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planning_api_requests_total",
			Help: "Number of HTTP requests by method, route and status",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "planning_api_request_duration_seconds",
			Help:    "HTTP request latency by method, route and status",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)
)

const (
	ResultCommitted = "committed"
	ResultRejected  = "rejected"
	ResultFailed    = "failed"
)

// Handler expose les métriques au format Prometheus
func Handler() http.Handler {
	return promhttp.Handler()
}
