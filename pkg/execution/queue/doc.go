/*
Package queue provides a bounded blocking FIFO used to hand admitted work
from submitting goroutines to a single dispatcher.

The queue never exceeds its capacity: once full, Put blocks the producer
until the consumer drains an item or the producer's context is canceled.
This is the backpressure mechanism of the executor, distinct from rate
rejection.

	q, err := queue.NewSafe[string](8)
	if err != nil {
		log.Fatal(err)
	}

	// producer side, may block
	if err := q.Put(ctx, "job"); err != nil {
		// canceled while waiting for space
	}

	// consumer side, may block
	item, err := q.Take(ctx)

All operations are safe for concurrent use by multiple producers and
consumers; FIFO order is preserved end to end.
*/
package queue
