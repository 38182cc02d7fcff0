// Package metrics provides Prometheus instrumentation for ratequeue components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for ratequeue components.
type Registry struct {
	// Admission metrics
	AdmissionRequests   *prometheus.CounterVec
	AdmissionAllowed    *prometheus.CounterVec
	AdmissionDenied     *prometheus.CounterVec
	AdmissionWindowUsed *prometheus.GaugeVec

	// Execution metrics
	TasksExecuted         *prometheus.CounterVec
	TasksCompleted        *prometheus.CounterVec
	TasksFailed           *prometheus.CounterVec
	TaskExecutionDuration *prometheus.HistogramVec
	WorkerPoolSize        *prometheus.GaugeVec
	WorkerPoolActive      *prometheus.GaugeVec
	QueueDepth            *prometheus.GaugeVec
	DispatchErrors        *prometheus.CounterVec
}

// DefaultRegistry is the default metrics registry used by ratequeue components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		AdmissionRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ratequeue",
				Subsystem: "admission",
				Name:      "requests_total",
				Help:      "Total number of admission checks",
			},
			[]string{"limiter_type", "limiter_name"},
		),

		AdmissionAllowed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ratequeue",
				Subsystem: "admission",
				Name:      "allowed_total",
				Help:      "Total number of admitted requests",
			},
			[]string{"limiter_type", "limiter_name"},
		),

		AdmissionDenied: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ratequeue",
				Subsystem: "admission",
				Name:      "denied_total",
				Help:      "Total number of rejected requests",
			},
			[]string{"limiter_type", "limiter_name"},
		),

		AdmissionWindowUsed: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "ratequeue",
				Subsystem: "admission",
				Name:      "window_used",
				Help:      "Requests currently counted in the rolling window",
			},
			[]string{"limiter_type", "limiter_name"},
		),

		TasksExecuted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ratequeue",
				Subsystem: "execution",
				Name:      "tasks_executed_total",
				Help:      "Total number of tasks executed",
			},
			[]string{"pool_name"},
		),

		TasksCompleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ratequeue",
				Subsystem: "execution",
				Name:      "tasks_completed_total",
				Help:      "Total number of tasks completed successfully",
			},
			[]string{"pool_name"},
		),

		TasksFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ratequeue",
				Subsystem: "execution",
				Name:      "tasks_failed_total",
				Help:      "Total number of tasks that failed",
			},
			[]string{"pool_name"},
		),

		TaskExecutionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "ratequeue",
				Subsystem: "execution",
				Name:      "task_duration_seconds",
				Help:      "Time spent executing tasks",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"pool_name"},
		),

		WorkerPoolSize: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "ratequeue",
				Subsystem: "workerpool",
				Name:      "size",
				Help:      "Current number of live workers",
			},
			[]string{"pool_name"},
		),

		WorkerPoolActive: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "ratequeue",
				Subsystem: "workerpool",
				Name:      "active_workers",
				Help:      "Number of workers currently executing tasks",
			},
			[]string{"pool_name"},
		),

		QueueDepth: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "ratequeue",
				Subsystem: "queue",
				Name:      "depth",
				Help:      "Number of queued tasks awaiting dispatch",
			},
			[]string{"pool_name"},
		),

		DispatchErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ratequeue",
				Subsystem: "execution",
				Name:      "dispatch_errors_total",
				Help:      "Total number of recoverable dispatcher errors",
			},
			[]string{"pool_name"},
		),
	}
}
