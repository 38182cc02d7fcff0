package rollingwindow

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/ratequeue/pkg/metrics"
)

// MetricsLimiter wraps a Limiter with Prometheus metrics collection.
type MetricsLimiter struct {
	limiter  Limiter
	name     string
	registry *metrics.Registry
	enabled  bool
}

// NewWithMetrics creates a new rolling window limiter with metrics enabled.
func NewWithMetrics(requestsPerMinute int, name string) (Limiter, error) {
	// Use a separate registry for each metrics-enabled component to avoid conflicts
	registry := prometheus.NewRegistry()
	config := metrics.Config{
		Enabled:  true,
		Registry: registry,
	}

	return NewWithConfigAndMetrics(Config{
		RequestsPerMinute: requestsPerMinute,
		Clock:             SystemClock{},
	}, name, config)
}

// NewWithConfigAndMetrics creates a new rolling window limiter with custom
// config and metrics.
func NewWithConfigAndMetrics(config Config, name string, metricsConfig metrics.Config) (Limiter, error) {
	baseLimiter, err := NewWithConfigSafe(config)
	if err != nil {
		return nil, err
	}

	if !metricsConfig.Enabled {
		return baseLimiter, nil
	}

	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	return &MetricsLimiter{
		limiter:  baseLimiter,
		name:     name,
		registry: registry,
		enabled:  true,
	}, nil
}

// Allow reports whether one request may be admitted now.
func (ml *MetricsLimiter) Allow() bool {
	return ml.AllowN(1)
}

// AllowN reports whether n requests may be admitted now.
func (ml *MetricsLimiter) AllowN(n int) bool {
	if ml.enabled {
		ml.registry.AdmissionRequests.WithLabelValues("rolling_window", ml.name).Add(float64(n))
	}

	allowed := ml.limiter.AllowN(n)

	if ml.enabled {
		if allowed {
			ml.registry.AdmissionAllowed.WithLabelValues("rolling_window", ml.name).Add(float64(n))
		} else {
			ml.registry.AdmissionDenied.WithLabelValues("rolling_window", ml.name).Add(float64(n))
		}

		ml.registry.AdmissionWindowUsed.WithLabelValues("rolling_window", ml.name).Set(float64(ml.limiter.Accepted()))
	}

	return allowed
}

// Accepted returns the number of requests currently counted in the window.
func (ml *MetricsLimiter) Accepted() int {
	accepted := ml.limiter.Accepted()

	if ml.enabled {
		ml.registry.AdmissionWindowUsed.WithLabelValues("rolling_window", ml.name).Set(float64(accepted))
	}

	return accepted
}

// Limit returns the configured requests-per-minute quota.
func (ml *MetricsLimiter) Limit() int {
	return ml.limiter.Limit()
}

// Reset clears all recorded acceptances.
func (ml *MetricsLimiter) Reset() {
	ml.limiter.Reset()

	if ml.enabled {
		ml.registry.AdmissionWindowUsed.WithLabelValues("rolling_window", ml.name).Set(0)
	}
}

// EnableMetrics enables metrics collection.
func (ml *MetricsLimiter) EnableMetrics(config metrics.Config) error {
	ml.enabled = config.Enabled

	if config.Registry != nil {
		ml.registry = metrics.NewRegistry(config.Registry)
	}

	return nil
}

// DisableMetrics disables metrics collection.
func (ml *MetricsLimiter) DisableMetrics() {
	ml.enabled = false
}

// MetricsEnabled returns true if metrics are currently enabled.
func (ml *MetricsLimiter) MetricsEnabled() bool {
	return ml.enabled
}
