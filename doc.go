/*
Package ratequeue provides a thread-safe rate-limited task executor for Go
applications.

Rate Limiting (pkg/ratelimit):
  - rollingwindow: Rolling 60-second window limiter with per-second buckets

Execution (pkg/execution):
  - queue: Bounded blocking FIFO hand-off queue
  - workerpool: Dynamically-sized worker pool fed by a single dispatcher
  - executor: Rate-limited asynchronous executor with per-request futures

Example usage:

	import "github.com/vnykmshr/ratequeue/pkg/execution/executor"

	exec, _ := executor.NewSafe(100, 8) // 100 requests/minute, queue of 8

	handle, err := exec.Queue(request)
	if err != nil {
		// rate limited or submission canceled
	}

	result, err := handle.Wait(ctx)
*/
package ratequeue
