package workerpool

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/ratequeue/pkg/execution/queue"
	"github.com/vnykmshr/ratequeue/pkg/metrics"
)

// MetricsPool wraps a Pool with Prometheus metrics collection.
type MetricsPool struct {
	pool     Pool
	source   queue.Queue[Task]
	name     string
	registry *metrics.Registry
	enabled  bool
}

// NewWithMetrics creates a new worker pool with metrics enabled.
func NewWithMetrics(config Config, name string) (Pool, error) {
	// Use a separate registry for each metrics-enabled component to avoid conflicts
	registry := prometheus.NewRegistry()

	return NewWithConfigAndMetrics(config, name, metrics.Config{
		Enabled:  true,
		Registry: registry,
	})
}

// NewWithConfigAndMetrics creates a new worker pool with custom config and
// metrics. Completion and dispatch-error callbacks are chained, not replaced.
func NewWithConfigAndMetrics(config Config, name string, metricsConfig metrics.Config) (Pool, error) {
	if !metricsConfig.Enabled {
		return NewWithConfigSafe(config)
	}

	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	mp := &MetricsPool{
		source:   config.Source,
		name:     name,
		registry: registry,
		enabled:  true,
	}

	userOnComplete := config.OnTaskComplete
	config.OnTaskComplete = func(result Result) {
		mp.observeCompletion(result)
		if userOnComplete != nil {
			userOnComplete(result)
		}
	}

	userOnDispatchError := config.OnDispatchError
	config.OnDispatchError = func(err error) {
		if mp.enabled {
			mp.registry.DispatchErrors.WithLabelValues(mp.name).Inc()
		}
		if userOnDispatchError != nil {
			userOnDispatchError(err)
		}
	}

	basePool, err := NewWithConfigSafe(config)
	if err != nil {
		return nil, err
	}
	mp.pool = basePool

	mp.updateGauges()
	return mp, nil
}

// observeCompletion records per-task metrics.
func (mp *MetricsPool) observeCompletion(result Result) {
	if !mp.enabled {
		return
	}

	mp.registry.TasksExecuted.WithLabelValues(mp.name).Inc()
	mp.registry.TaskExecutionDuration.WithLabelValues(mp.name).Observe(result.Duration.Seconds())

	if result.Error != nil {
		mp.registry.TasksFailed.WithLabelValues(mp.name).Inc()
	} else {
		mp.registry.TasksCompleted.WithLabelValues(mp.name).Inc()
	}

	mp.updateGauges()
}

// updateGauges refreshes the current state gauges.
func (mp *MetricsPool) updateGauges() {
	if !mp.enabled || mp.pool == nil {
		return
	}

	mp.registry.WorkerPoolSize.WithLabelValues(mp.name).Set(float64(mp.pool.Workers()))
	mp.registry.WorkerPoolActive.WithLabelValues(mp.name).Set(float64(mp.pool.Executing()))
	mp.registry.QueueDepth.WithLabelValues(mp.name).Set(float64(mp.source.Len()))
}

// Stop signals the dispatcher loop to exit.
func (mp *MetricsPool) Stop() {
	mp.pool.Stop()
}

// Stopped reports whether Stop has been called.
func (mp *MetricsPool) Stopped() bool {
	return mp.pool.Stopped()
}

// Workers returns the current number of live workers.
func (mp *MetricsPool) Workers() int {
	workers := mp.pool.Workers()
	mp.updateGauges()
	return workers
}

// Executing returns the number of tasks currently executing.
func (mp *MetricsPool) Executing() int {
	executing := mp.pool.Executing()
	mp.updateGauges()
	return executing
}

// MaxWorkers returns the bound on concurrent executions.
func (mp *MetricsPool) MaxWorkers() int {
	return mp.pool.MaxWorkers()
}

// EnableMetrics enables metrics collection.
func (mp *MetricsPool) EnableMetrics(config metrics.Config) error {
	mp.enabled = config.Enabled

	if config.Registry != nil {
		mp.registry = metrics.NewRegistry(config.Registry)
	}

	if mp.enabled {
		mp.updateGauges()
	}

	return nil
}

// DisableMetrics disables metrics collection.
func (mp *MetricsPool) DisableMetrics() {
	mp.enabled = false
}

// MetricsEnabled returns true if metrics are currently enabled.
func (mp *MetricsPool) MetricsEnabled() bool {
	return mp.enabled
}
