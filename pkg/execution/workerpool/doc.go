/*
Package workerpool executes tasks drained from a bounded queue by a single
dispatcher goroutine.

The pool starts with zero workers. When the dispatcher hands off a task and
no worker is free, a new worker is spawned, up to MaxWorkers. Workers that
sit idle for IdleTimeout retire, so a quiet pool costs only the dispatcher
goroutine. When every worker is busy and the bound is reached, the
dispatcher retries the hand-off instead of dropping the task: a task that
has left the source queue has nowhere else to go.

	q, _ := queue.NewSafe[workerpool.Task](8)
	pool, err := workerpool.NewSafe(q, 8)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Stop()

	q.Put(ctx, workerpool.TaskFunc(func(ctx context.Context) error {
		// do work
		return nil
	}))

Stop is a best-effort signal, not a drain: it halts future dispatch but
never cancels tasks that are executing or already pulled from the queue.
Task panics are recovered and reported through the completion callback as
errors, so one bad task cannot take down a worker.
*/
package workerpool
