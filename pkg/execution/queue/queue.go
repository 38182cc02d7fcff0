package queue

import (
	"context"

	"github.com/vnykmshr/ratequeue/pkg/common/validation"
)

// Queue is a fixed-capacity FIFO hand-off between producers and a consumer.
// Put applies backpressure: a producer blocks while the queue is full until
// space frees or its context is canceled.
type Queue[T any] interface {
	// Put enqueues an item at the tail, blocking while the queue is at
	// capacity. It returns the context error if ctx is canceled before the
	// item could be enqueued; the item is then not enqueued.
	Put(ctx context.Context, item T) error

	// Take removes and returns the head item, blocking while the queue is
	// empty. It returns the context error if ctx is canceled first.
	Take(ctx context.Context) (T, error)

	// TryTake removes and returns the head item without blocking.
	// The second return value reports whether an item was available.
	TryTake() (T, bool)

	// Len returns the current number of enqueued items. The value is a
	// point-in-time observation and may be stale by the time it is read.
	Len() int

	// Cap returns the queue capacity.
	Cap() int
}

// boundedQueue implements Queue on top of a buffered channel, which gives
// FIFO ordering and producer blocking without busy-waiting.
type boundedQueue[T any] struct {
	items chan T
}

// NewSafe creates a bounded queue with the given capacity, returning an
// error instead of panicking on invalid input.
func NewSafe[T any](capacity int) (Queue[T], error) {
	if err := validation.ValidatePositive("queue", "capacity", capacity); err != nil {
		return nil, err
	}

	return &boundedQueue[T]{
		items: make(chan T, capacity),
	}, nil
}

// Put enqueues an item, blocking while the queue is full.
func (q *boundedQueue[T]) Put(ctx context.Context, item T) error {
	// Check if context is already canceled before attempting to enqueue
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	select {
	case q.items <- item:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Take dequeues the head item, blocking while the queue is empty.
func (q *boundedQueue[T]) Take(ctx context.Context) (T, error) {
	select {
	case item := <-q.items:
		return item, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// TryTake dequeues the head item without blocking.
func (q *boundedQueue[T]) TryTake() (T, bool) {
	select {
	case item := <-q.items:
		return item, true
	default:
		var zero T
		return zero, false
	}
}

// Len returns the current number of enqueued items.
func (q *boundedQueue[T]) Len() int {
	return len(q.items)
}

// Cap returns the queue capacity.
func (q *boundedQueue[T]) Cap() int {
	return cap(q.items)
}
