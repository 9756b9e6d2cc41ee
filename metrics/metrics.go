// Package metrics provides Prometheus metrics collection for HTTP server
// and solver monitoring. HTTP metrics follow the usual trio:
//   - http_request_total: Counter with method, path, and status labels
//   - http_request_duration_seconds: Histogram with method and path labels
//   - http_request_in_flight: Gauge for concurrent requests
//
// Solver metrics track regimen calculations:
//   - solve_total: Counter with outcome label (ok, infeasible, invalid)
//   - solve_duration_seconds: Histogram of calculation latency
//   - solve_options_returned: Histogram of ranked options per calculation
//
// All metrics are automatically registered with the Prometheus default registry
// during package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (IPs seen in last ~5 minutes)",
		},
	)

	SolveTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solve_total",
			Help: "Total regimen calculations by outcome",
		},
		[]string{"outcome"},
	)

	SolveDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "solve_duration_seconds",
			Help:    "Regimen calculation latency",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		},
	)

	SolveOptionsReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "solve_options_returned",
			Help:    "Ranked dosing options returned per calculation",
			Buckets: []float64{0, 1, 2, 3, 4, 5},
		},
	)
)

// Solve outcome label values.
const (
	OutcomeOK         = "ok"
	OutcomeInfeasible = "infeasible"
	OutcomeInvalid    = "invalid"
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(SolveTotals)
	prometheus.MustRegister(SolveDuration)
	prometheus.MustRegister(SolveOptionsReturned)
}

// ObserveSolve records one calculation outcome with its latency and, for
// successful calculations, the number of options returned.
func ObserveSolve(outcome string, seconds float64, optionCount int) {
	SolveTotals.WithLabelValues(outcome).Inc()
	SolveDuration.Observe(seconds)
	if outcome != OutcomeInvalid {
		SolveOptionsReturned.Observe(float64(optionCount))
	}
}
