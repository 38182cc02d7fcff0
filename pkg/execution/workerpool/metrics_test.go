package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vnykmshr/ratequeue/internal/testutil"
	"github.com/vnykmshr/ratequeue/pkg/execution/queue"
	"github.com/vnykmshr/ratequeue/pkg/metrics"
)

// flakySource wraps a real queue and fails the first Take calls, simulating
// a transient dispatch error.
type flakySource struct {
	queue.Queue[Task]
	failures atomic.Int64
}

func (s *flakySource) Take(ctx context.Context) (Task, error) {
	if s.failures.Add(-1) >= 0 {
		return nil, errors.New("transient source error")
	}
	return s.Queue.Take(ctx)
}

func newMetricsPool(t *testing.T, config Config, name string) (*MetricsPool, Pool) {
	t.Helper()

	registry := prometheus.NewRegistry()
	pool, err := NewWithConfigAndMetrics(config, name, metrics.Config{
		Enabled:  true,
		Registry: registry,
	})
	testutil.AssertNoError(t, err)

	mp, ok := pool.(*MetricsPool)
	if !ok {
		t.Fatalf("expected *MetricsPool, got %T", pool)
	}
	return mp, pool
}

func TestMetricsPoolCountsTaskOutcomes(t *testing.T) {
	q := newTestQueue(t, 8)

	completed := make(chan Result, 4)
	mp, pool := newMetricsPool(t, Config{
		Source:     q,
		MaxWorkers: 2,
		OnTaskComplete: func(result Result) {
			completed <- result
		},
	}, "outcomes")
	defer pool.Stop()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		testutil.AssertNoError(t, q.Put(ctx, TaskFunc(func(ctx context.Context) error {
			return nil
		})))
	}
	testutil.AssertNoError(t, q.Put(ctx, TaskFunc(func(ctx context.Context) error {
		return errors.New("boom")
	})))

	for i := 0; i < 4; i++ {
		select {
		case <-completed:
		case <-time.After(testutil.TestTimeout):
			t.Fatal("task did not complete in time")
		}
	}

	// The user callback is chained after the metrics observer, so all four
	// completions are counted by now.
	executed := promtestutil.ToFloat64(mp.registry.TasksExecuted.WithLabelValues("outcomes"))
	testutil.AssertEqual(t, executed, 4)
	succeeded := promtestutil.ToFloat64(mp.registry.TasksCompleted.WithLabelValues("outcomes"))
	testutil.AssertEqual(t, succeeded, 3)
	failed := promtestutil.ToFloat64(mp.registry.TasksFailed.WithLabelValues("outcomes"))
	testutil.AssertEqual(t, failed, 1)

	// Accessors refresh the state gauges
	testutil.AssertEqual(t, mp.Executing(), 0)
	active := promtestutil.ToFloat64(mp.registry.WorkerPoolActive.WithLabelValues("outcomes"))
	testutil.AssertEqual(t, active, 0)
	depth := promtestutil.ToFloat64(mp.registry.QueueDepth.WithLabelValues("outcomes"))
	testutil.AssertEqual(t, depth, 0)
	if size := promtestutil.ToFloat64(mp.registry.WorkerPoolSize.WithLabelValues("outcomes")); size < 1 {
		t.Errorf("worker pool size gauge is %v, want at least 1 live worker", size)
	}
}

func TestMetricsPoolTracksQueueDepth(t *testing.T) {
	q := newTestQueue(t, 4)

	release := make(chan struct{})
	completed := make(chan Result, 4)
	mp, pool := newMetricsPool(t, Config{
		Source:        q,
		MaxWorkers:    1,
		RetryInterval: time.Millisecond,
		OnTaskComplete: func(result Result) {
			completed <- result
		},
	}, "depth")
	defer pool.Stop()

	blocking := TaskFunc(func(ctx context.Context) error {
		<-release
		return nil
	})

	// One task executes, one is held by the dispatcher, two stay queued.
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		testutil.AssertNoError(t, q.Put(ctx, blocking))
	}
	testutil.Eventually(t, testutil.TestTimeout, func() bool {
		return q.Len() == 2
	})

	mp.Executing()
	depth := promtestutil.ToFloat64(mp.registry.QueueDepth.WithLabelValues("depth"))
	testutil.AssertEqual(t, depth, 2)

	close(release)
	for i := 0; i < 4; i++ {
		<-completed
	}
	depth = promtestutil.ToFloat64(mp.registry.QueueDepth.WithLabelValues("depth"))
	testutil.AssertEqual(t, depth, 0)
}

func TestMetricsPoolCountsDispatchErrors(t *testing.T) {
	source := &flakySource{Queue: newTestQueue(t, 4)}
	source.failures.Store(1)

	dispatchErrs := make(chan error, 1)
	completed := make(chan Result, 1)
	mp, pool := newMetricsPool(t, Config{
		Source:     source,
		MaxWorkers: 1,
		OnDispatchError: func(err error) {
			dispatchErrs <- err
		},
		OnTaskComplete: func(result Result) {
			completed <- result
		},
	}, "flaky")
	defer pool.Stop()

	select {
	case err := <-dispatchErrs:
		testutil.AssertError(t, err)
	case <-time.After(testutil.TestTimeout):
		t.Fatal("dispatch error callback was not invoked")
	}

	// The dispatcher recovered; tasks still flow after the transient error
	testutil.AssertNoError(t, source.Put(context.Background(), TaskFunc(func(ctx context.Context) error {
		return nil
	})))
	select {
	case result := <-completed:
		testutil.AssertEqual(t, result.Error, nil)
	case <-time.After(testutil.TestTimeout):
		t.Fatal("task queued after transient error did not execute")
	}

	errCount := promtestutil.ToFloat64(mp.registry.DispatchErrors.WithLabelValues("flaky"))
	testutil.AssertEqual(t, errCount, 1)
}

func TestMetricsDisabledReturnsBasePool(t *testing.T) {
	q := newTestQueue(t, 2)

	pool, err := NewWithConfigAndMetrics(Config{
		Source:     q,
		MaxWorkers: 1,
	}, "disabled", metrics.Config{Enabled: false})
	testutil.AssertNoError(t, err)
	defer pool.Stop()

	if _, ok := pool.(*MetricsPool); ok {
		t.Error("disabled metrics should not wrap the pool")
	}
}

func TestMetricsPoolInstrumentable(t *testing.T) {
	q := newTestQueue(t, 2)
	mp, pool := newMetricsPool(t, Config{
		Source:     q,
		MaxWorkers: 1,
	}, "toggle")
	defer pool.Stop()

	testutil.AssertEqual(t, mp.MetricsEnabled(), true)

	mp.DisableMetrics()
	testutil.AssertEqual(t, mp.MetricsEnabled(), false)

	testutil.AssertNoError(t, mp.EnableMetrics(metrics.Config{
		Enabled:  true,
		Registry: prometheus.NewRegistry(),
	}))
	testutil.AssertEqual(t, mp.MetricsEnabled(), true)
}

func TestDispatchErrorRecovery(t *testing.T) {
	source := &flakySource{Queue: newTestQueue(t, 4)}
	source.failures.Store(2)

	var dispatchErrs atomic.Int64
	completed := make(chan Result, 1)
	pool, err := NewWithConfigSafe(Config{
		Source:     source,
		MaxWorkers: 1,
		OnDispatchError: func(err error) {
			dispatchErrs.Add(1)
		},
		OnTaskComplete: func(result Result) {
			completed <- result
		},
	})
	testutil.AssertNoError(t, err)
	defer pool.Stop()

	// The dispatcher reports each transient error and keeps draining
	testutil.Eventually(t, testutil.TestTimeout, func() bool {
		return dispatchErrs.Load() == 2
	})
	testutil.AssertEqual(t, pool.Stopped(), false)

	testutil.AssertNoError(t, source.Put(context.Background(), TaskFunc(func(ctx context.Context) error {
		return nil
	})))
	select {
	case result := <-completed:
		testutil.AssertEqual(t, result.Error, nil)
	case <-time.After(testutil.TestTimeout):
		t.Fatal("task queued after transient errors did not execute")
	}
}
