package workerpool

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vnykmshr/ratequeue/pkg/common/errors"
	"github.com/vnykmshr/ratequeue/pkg/execution/queue"
)

// Task represents a unit of work that can be executed by a worker.
type Task interface {
	// Execute runs the task with the given context.
	// It should respect context cancellation and return any error encountered.
	Execute(ctx context.Context) error
}

// TaskFunc is a function type that implements the Task interface.
type TaskFunc func(ctx context.Context) error

// Execute implements the Task interface for TaskFunc.
func (f TaskFunc) Execute(ctx context.Context) error {
	return f(ctx)
}

// Result represents the result of a task execution.
type Result struct {
	// Task is the original task that was executed
	Task Task

	// Error is any error that occurred during task execution
	Error error

	// Duration is how long the task took to execute
	Duration time.Duration

	// WorkerID identifies which worker executed the task
	WorkerID int
}

// Pool executes tasks drained from a source queue by a single dispatcher.
// Workers are spawned on demand up to a bound and retire when idle, so a
// quiet pool holds no standing goroutines beyond the dispatcher itself.
type Pool interface {
	// Stop signals the dispatcher to exit. It does not block and does not
	// cancel tasks that are executing or already pulled from the source;
	// those run to completion.
	Stop()

	// Stopped reports whether Stop has been called.
	Stopped() bool

	// Workers returns the current number of live workers.
	Workers() int

	// Executing returns the number of tasks currently executing.
	Executing() int

	// MaxWorkers returns the bound on concurrent executions.
	MaxWorkers() int
}

// Config holds configuration options for creating a worker pool.
type Config struct {
	// Source is the queue the dispatcher drains. Must not be nil.
	Source queue.Queue[Task]

	// MaxWorkers is the bound on concurrently executing tasks.
	// Must be greater than 0.
	MaxWorkers int

	// IdleTimeout is how long a worker waits for a new task before
	// retiring. Zero means DefaultIdleTimeout.
	IdleTimeout time.Duration

	// RetryInterval is how long the dispatcher waits between hand-off
	// attempts when every worker is busy and the growth bound is reached.
	// Zero means DefaultRetryInterval.
	RetryInterval time.Duration

	// OnTaskComplete is called after a task completes (success or failure).
	OnTaskComplete func(result Result)

	// OnDispatchError is called when the dispatcher observes a recoverable
	// error while waiting for work. If nil, such errors are dropped.
	OnDispatchError func(err error)

	// PanicHandler is called when a task panics during execution.
	// The panic is always recovered and reported as a task error.
	PanicHandler func(task Task, recovered interface{})
}

const (
	// DefaultIdleTimeout is how long an idle worker lives before retiring.
	DefaultIdleTimeout = 60 * time.Second

	// DefaultRetryInterval is the pause between hand-off retries when the
	// pool is saturated.
	DefaultRetryInterval = 10 * time.Millisecond
)

// pool implements the Pool interface.
type pool struct {
	config Config

	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once

	// handoff carries tasks from the dispatcher to workers. It is
	// unbuffered: the source queue is the only buffer in the system.
	handoff chan Task

	mu           sync.Mutex
	live         int
	nextWorkerID int

	executing atomic.Int64
}

// NewSafe creates a worker pool draining the given source with at most
// maxWorkers concurrent executions, returning an error instead of panicking
// on invalid input. The dispatcher starts immediately.
func NewSafe(source queue.Queue[Task], maxWorkers int) (Pool, error) {
	return NewWithConfigSafe(Config{
		Source:     source,
		MaxWorkers: maxWorkers,
	})
}

// NewWithConfigSafe creates a worker pool with the specified configuration,
// returning an error instead of panicking on invalid input. The dispatcher
// starts immediately.
func NewWithConfigSafe(config Config) (Pool, error) {
	if config.Source == nil {
		return nil, errors.NewValidationError("workerpool", "source", nil, "cannot be nil").
			WithHint("provide the queue the dispatcher should drain")
	}
	if config.MaxWorkers <= 0 {
		return nil, errors.NewValidationError("workerpool", "maxWorkers", config.MaxWorkers, "must be positive").
			WithHint("bound concurrent executions to the queue capacity")
	}
	if config.IdleTimeout <= 0 {
		config.IdleTimeout = DefaultIdleTimeout
	}
	if config.RetryInterval <= 0 {
		config.RetryInterval = DefaultRetryInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &pool{
		config:  config,
		ctx:     ctx,
		cancel:  cancel,
		handoff: make(chan Task),
	}

	go p.dispatch()

	return p, nil
}
