/*
Package ratelimit provides rate limiting primitives for Go applications.

The rollingwindow subpackage implements a rolling per-minute admission
window: acceptances are counted in one-second buckets, and a request is
admitted only when the total over the trailing 60 seconds is below the
configured quota.

	limiter, err := rollingwindow.NewSafe(100) // 100 requests per minute
	if err != nil {
		log.Fatal(err)
	}
	if limiter.Allow() {
		// Process request
	}

Admission never blocks: Allow decides immediately against the current
window and the caller chooses how to handle a denial. The purge, sum and
increment happen under a single lock, so concurrent callers can never
jointly exceed the quota.

All limiters are safe for concurrent use. Prometheus instrumentation is
available through the NewWithMetrics constructors.
*/
package ratelimit
