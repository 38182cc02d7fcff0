/*
Package rollingwindow provides a rate limiter that counts admitted requests
over a rolling 60-second window.

Rather than keeping a log of individual timestamps, acceptances are bucketed
by whole second. The bucket map is purged on every admission check, so it
never grows much past 60 entries regardless of the quota. The purge, sum and
increment run under a single lock, which makes the admit decision atomic:
two concurrent callers can never both claim the last slot in the window.

Basic usage:

	limiter, err := rollingwindow.NewSafe(100) // 100 requests per minute
	if err != nil {
		log.Fatal(err)
	}

	if limiter.Allow() {
		// admitted, proceed
	} else {
		// over quota, retry later
	}

A Clock can be injected through Config for deterministic tests:

	limiter, _ := rollingwindow.NewWithConfigSafe(rollingwindow.Config{
		RequestsPerMinute: 100,
		Clock:             mockClock,
	})

Unlike a fixed-interval counter, the window rolls continuously: a request
rejected now becomes admissible as soon as enough old buckets age past the
trailing minute, with no reset spike at interval boundaries.
*/
package rollingwindow
