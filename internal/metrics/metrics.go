// Package metrics exposes Prometheus collectors for report computation,
// HTTP traffic and the projection worker pool.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tradejournal/internal/analytics"
	"tradejournal/internal/workpool"
)

// Registry holds all Prometheus metrics for the trading journal. It
// implements analytics.Observer.
type Registry struct {
	registry *prometheus.Registry

	// Report metrics
	ReportDuration *prometheus.HistogramVec
	Reports        *prometheus.CounterVec

	// Goal metrics
	GoalsEvaluated prometheus.Counter
	GoalsInvalid   prometheus.Counter
	GoalsDuration  prometheus.Histogram

	// Failures by engine operation
	Failures *prometheus.CounterVec

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// NewRegistry creates a registry with all trading journal metrics and the
// standard process and Go runtime collectors.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		ReportDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tradejournal_report_duration_seconds",
				Help:    "Duration of performance report computations in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
			},
			[]string{"tier"},
		),

		Reports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradejournal_reports_total",
				Help: "Total number of performance reports by daily series tier and data presence",
			},
			[]string{"tier", "no_data"},
		),

		GoalsEvaluated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tradejournal_goals_evaluated_total",
				Help: "Total number of goals evaluated",
			},
		),

		GoalsInvalid: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tradejournal_goals_invalid_total",
				Help: "Total number of goals skipped as not evaluable",
			},
		),

		GoalsDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tradejournal_goals_duration_seconds",
				Help:    "Duration of goal evaluation requests in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
			},
		),

		Failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradejournal_engine_failures_total",
				Help: "Total number of engine requests aborted by storage failures",
			},
			[]string{"operation"},
		),

		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradejournal_http_requests_total",
				Help: "Total number of HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),

		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tradejournal_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.ReportDuration,
		r.Reports,
		r.GoalsEvaluated,
		r.GoalsInvalid,
		r.GoalsDuration,
		r.Failures,
		r.HTTPRequests,
		r.HTTPDuration,
	)

	return r
}

// ObserveReport implements analytics.Observer.
func (r *Registry) ObserveReport(tier analytics.SeriesTier, noData bool, duration time.Duration) {
	r.ReportDuration.WithLabelValues(string(tier)).Observe(duration.Seconds())
	r.Reports.WithLabelValues(string(tier), strconv.FormatBool(noData)).Inc()
}

// ObserveGoals implements analytics.Observer.
func (r *Registry) ObserveGoals(evaluated, invalid int, duration time.Duration) {
	r.GoalsEvaluated.Add(float64(evaluated))
	r.GoalsInvalid.Add(float64(invalid))
	r.GoalsDuration.Observe(duration.Seconds())
}

// ObserveFailure implements analytics.Observer.
func (r *Registry) ObserveFailure(operation string) {
	r.Failures.WithLabelValues(operation).Inc()
}

// RecordRequest records one served HTTP request.
func (r *Registry) RecordRequest(method, route string, status int, duration time.Duration) {
	r.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RegisterPool exposes worker pool statistics as gauges.
func (r *Registry) RegisterPool(pool *workpool.WorkerPool) {
	r.registry.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "tradejournal_pool_workers",
			Help: "Number of projection worker goroutines",
		}, func() float64 { return float64(pool.Stats().Workers) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "tradejournal_pool_queue_length",
			Help: "Number of simulation chunks waiting for a worker",
		}, func() float64 { return float64(pool.Stats().QueueLen) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "tradejournal_pool_tasks_completed_total",
			Help: "Total number of simulation chunks run by the pool",
		}, func() float64 { return float64(pool.Stats().TasksDone) }),
	)
}

// Handler returns the HTTP handler serving this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Gatherer exposes the underlying registry for tests and custom exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

var _ analytics.Observer = (*Registry)(nil)
