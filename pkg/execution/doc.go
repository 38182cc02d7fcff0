/*
Package execution provides the building blocks for rate-limited
asynchronous task execution.

Three subpackages compose into a pipeline:

  - queue: Bounded FIFO queue with blocking, context-aware Put and Take
  - workerpool: Dynamic worker pool fed by a single dispatcher
  - executor: Rate-limited executor tying admission, queueing and
    execution together

Most applications only need the executor:

	exec, err := executor.NewSafe(100, 8) // 100 rpm, queue of 8
	if err != nil {
		log.Fatal(err)
	}
	defer exec.Stop()

	handle, err := exec.Queue(request)
	if err != nil {
		// rejected by the rate limiter, or executor stopped
	}
	result, err := handle.Wait(ctx)

The queue and workerpool packages are usable on their own for pipelines
that need backpressure or bounded concurrency without admission control.
*/
package execution
