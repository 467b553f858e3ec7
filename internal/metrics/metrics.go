// Package metrics provides Prometheus metrics for planning runs and the HTTP API.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Planning run outcomes.
const (
	OutcomeSuccess    = "success"
	OutcomeSource     = "source_error"
	OutcomeValidation = "validation_error"
	OutcomeConstraint = "constraint_error"
	OutcomeInfeasible = "infeasible"
	OutcomeOther      = "error"
)

var (
	// PlanRunsTotal counts planning runs by outcome.
	PlanRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "routing_plan_runs_total",
			Help: "Total number of planning runs",
		},
		[]string{"outcome"},
	)

	// PlanDuration tracks how long a full planning and simulation run takes.
	PlanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "routing_plan_duration_seconds",
			Help:    "Planning run duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		},
	)

	SnapshotGeneration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "routing_snapshot_generation",
			Help: "Generation number of the snapshot being served",
		},
	)

	TotalMileage = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "routing_total_mileage",
			Help: "Total simulated mileage of the served snapshot",
		},
	)

	TruckMileage = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "routing_truck_mileage",
			Help: "Simulated mileage per truck of the served snapshot",
		},
		[]string{"truck_id"},
	)

	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)
)

// RecordPlanRun records one planning run.
func RecordPlanRun(outcome string, duration time.Duration) {
	PlanRunsTotal.WithLabelValues(outcome).Inc()
	PlanDuration.Observe(duration.Seconds())
}

// RecordSnapshot publishes the generation and mileage of a newly served snapshot.
func RecordSnapshot(generation uint64, total float64, perTruck map[int]float64) {
	SnapshotGeneration.Set(float64(generation))
	TotalMileage.Set(total)
	TruckMileage.Reset()
	for id, miles := range perTruck {
		TruckMileage.WithLabelValues(strconv.Itoa(id)).Set(miles)
	}
}

// RecordHTTPRequest records one served HTTP request.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	HTTPRequestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
	HTTPRequestTotal.WithLabelValues(method, path, code).Inc()
}
