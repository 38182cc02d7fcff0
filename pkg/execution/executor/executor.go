package executor

import (
	"context"
	"fmt"
	"time"

	rqerrors "github.com/vnykmshr/ratequeue/pkg/common/errors"
	"github.com/vnykmshr/ratequeue/pkg/common/validation"
	"github.com/vnykmshr/ratequeue/pkg/execution/queue"
	"github.com/vnykmshr/ratequeue/pkg/execution/workerpool"
	"github.com/vnykmshr/ratequeue/pkg/ratelimit/rollingwindow"
)

// Executor is a thread-safe rate-limited asynchronous executor. Submitted
// requests are admitted against a rolling per-minute quota, queued up to a
// bounded capacity, and executed concurrently by a worker pool. Each
// admitted request gets a CompletionHandle that resolves to its outcome.
type Executor interface {
	// Queue submits a request for execution as soon as possible (FIFO).
	// It returns rqerrors.ErrRateLimited (wrapped) without blocking when
	// the rolling window has no remaining capacity. When admitted, it may
	// block while the queue is full and returns once the request is
	// enqueued, not once it is executed.
	Queue(request Request) (*CompletionHandle, error)

	// QueueWithContext is like Queue but aborts a submission that is
	// blocked on a full queue when ctx is canceled. The admission slot
	// consumed by a canceled submission is not returned to the window.
	QueueWithContext(ctx context.Context, request Request) (*CompletionHandle, error)

	// QueuedRequests returns the number of admitted requests that are
	// enqueued but not yet dispatched.
	QueuedRequests() int

	// RequestsPerMinute returns the configured rolling-window quota.
	RequestsPerMinute() int

	// MaxQueueSize returns the configured queue capacity.
	MaxQueueSize() int

	// Stop signals the dispatcher to exit. Requests already executing or
	// dispatched still run to completion; queued requests stop draining.
	Stop()
}

// Config holds configuration options for creating an Executor.
type Config struct {
	// RequestsPerMinute is the rolling-window admission quota.
	// Must be greater than 0.
	RequestsPerMinute int

	// MaxQueueSize is the pending-request queue capacity and the bound on
	// concurrent executions. Must be greater than 0.
	MaxQueueSize int

	// Clock provides the current time to the admission window.
	// If nil, the system clock is used.
	Clock rollingwindow.Clock

	// Limiter overrides the internally-built rolling window limiter, for
	// example with a metrics-instrumented one. When set, RequestsPerMinute
	// and Clock are ignored and the quota is read from the limiter.
	Limiter rollingwindow.Limiter

	// IdleTimeout is how long an idle worker lives before retiring.
	// Zero means workerpool.DefaultIdleTimeout.
	IdleTimeout time.Duration

	// OnRequestComplete is called after each request executes, with the
	// pool-level result. Optional.
	OnRequestComplete func(result workerpool.Result)

	// OnDispatchError is called when the dispatcher observes a recoverable
	// error while waiting for work. Optional.
	OnDispatchError func(err error)
}

// rateLimitedExecutor implements the Executor interface by composing the
// rolling window limiter, the bounded queue and the worker pool. The
// configuration is immutable for the lifetime of the instance.
type rateLimitedExecutor struct {
	maxQueueSize int

	limiter rollingwindow.Limiter
	pending queue.Queue[workerpool.Task]
	pool    workerpool.Pool
}

// NewSafe creates an Executor with the given quota and queue capacity,
// returning an error instead of panicking on invalid input. The executor
// begins accepting and processing work immediately.
func NewSafe(requestsPerMinute, maxQueueSize int) (Executor, error) {
	return NewWithConfigSafe(Config{
		RequestsPerMinute: requestsPerMinute,
		MaxQueueSize:      maxQueueSize,
	})
}

// NewWithConfigSafe creates an Executor with the specified configuration,
// returning an error instead of panicking on invalid input. The executor
// begins accepting and processing work immediately.
func NewWithConfigSafe(config Config) (Executor, error) {
	if err := validation.ValidatePositive("executor", "maxQueueSize", config.MaxQueueSize); err != nil {
		return nil, err
	}

	limiter := config.Limiter
	if limiter == nil {
		if err := validation.ValidatePositive("executor", "requestsPerMinute", config.RequestsPerMinute); err != nil {
			return nil, err
		}
		var err error
		limiter, err = rollingwindow.NewWithConfigSafe(rollingwindow.Config{
			RequestsPerMinute: config.RequestsPerMinute,
			Clock:             config.Clock,
		})
		if err != nil {
			return nil, err
		}
	}

	pending, err := queue.NewSafe[workerpool.Task](config.MaxQueueSize)
	if err != nil {
		return nil, err
	}

	// No more concurrent executions than the queue capacity are ever
	// meaningful, so the pool bound follows MaxQueueSize.
	pool, err := workerpool.NewWithConfigSafe(workerpool.Config{
		Source:          pending,
		MaxWorkers:      config.MaxQueueSize,
		IdleTimeout:     config.IdleTimeout,
		OnTaskComplete:  config.OnRequestComplete,
		OnDispatchError: config.OnDispatchError,
	})
	if err != nil {
		return nil, err
	}

	return &rateLimitedExecutor{
		maxQueueSize: config.MaxQueueSize,
		limiter:      limiter,
		pending:      pending,
		pool:         pool,
	}, nil
}

// Queue submits a request for execution.
func (e *rateLimitedExecutor) Queue(request Request) (*CompletionHandle, error) {
	return e.QueueWithContext(context.Background(), request)
}

// QueueWithContext submits a request for execution with a context that can
// abort a submission blocked on backpressure.
func (e *rateLimitedExecutor) QueueWithContext(ctx context.Context, request Request) (*CompletionHandle, error) {
	if request == nil {
		return nil, fmt.Errorf("request cannot be nil")
	}
	if e.pool.Stopped() {
		return nil, fmt.Errorf("cannot queue request %s: %w", request.ID(), rqerrors.ErrClosed)
	}

	// The admission decision is atomic inside the limiter: concurrent
	// submitters can never both consume the last slot in the window.
	if !e.limiter.Allow() {
		return nil, fmt.Errorf("request %s rejected: %w", request.ID(), rqerrors.ErrRateLimited)
	}

	handle := newCompletionHandle()
	task := workerpool.TaskFunc(func(taskCtx context.Context) error {
		result, err := request.Execute(taskCtx)
		if err != nil {
			handle.fail(err)
			return err
		}
		handle.complete(result)
		return nil
	})

	// Backpressure: blocks while the queue is at capacity. A submission
	// canceled here does not return its admission slot to the window.
	if err := e.pending.Put(ctx, task); err != nil {
		return nil, fmt.Errorf("submission of request %s canceled while waiting for queue space: %w", request.ID(), err)
	}

	return handle, nil
}

// QueuedRequests returns the number of enqueued-but-not-dispatched requests.
func (e *rateLimitedExecutor) QueuedRequests() int {
	return e.pending.Len()
}

// RequestsPerMinute returns the rolling-window quota.
func (e *rateLimitedExecutor) RequestsPerMinute() int {
	return e.limiter.Limit()
}

// MaxQueueSize returns the queue capacity.
func (e *rateLimitedExecutor) MaxQueueSize() int {
	return e.maxQueueSize
}

// Stop signals the dispatcher to exit. Best-effort and non-blocking.
func (e *rateLimitedExecutor) Stop() {
	e.pool.Stop()
}
