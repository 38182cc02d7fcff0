/*
Package executor provides a thread-safe rate-limited asynchronous executor.

Submissions pass through two independent gates. The first is admission: a
rolling 60-second window caps how many requests per minute may be accepted,
and a submission over quota fails immediately with ErrRateLimited without
blocking. The second is backpressure: admitted requests are enqueued into a
bounded FIFO, and when the queue is full the submitter blocks until space
frees. A single dispatcher drains the queue into a worker pool that executes
requests concurrently, bounded by the queue capacity.

Each admitted request gets a CompletionHandle, returned as soon as the
request is enqueued. The handle resolves exactly once, to the request's
result or its execution error:

	exec, err := executor.NewSafe(100, 8) // 100 rpm, queue of 8
	if err != nil {
		log.Fatal(err)
	}
	defer exec.Stop()

	handle, err := exec.Queue(request)
	if errors.Is(err, rqerrors.ErrRateLimited) {
		// over quota, retry later
	}

	result, err := handle.Wait(ctx)

Execution errors never surface from Queue; they are delivered only through
the handle and do not affect the dispatcher or other in-flight requests.

A submission blocked on a full queue can be abandoned via QueueWithContext.
The admission slot such a submission already consumed is not returned to
the rolling window; callers that cancel aggressively will see slightly
fewer admissions than the quota allows within that minute.
*/
package executor
