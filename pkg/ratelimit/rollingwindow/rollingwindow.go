package rollingwindow

import (
	"sync"
	"time"
)

// windowSeconds is the rolling window expressed in whole seconds.
const windowSeconds = int64(Window / time.Second)

// rollingWindow implements the Limiter interface by bucketing accepted
// requests per whole second. Bucketing keeps memory bounded to roughly 60
// entries while preserving second-level precision; summing the buckets is
// cheap at that size. Purge, sum and increment run as one critical section
// so the admit decision is linearizable.
type rollingWindow struct {
	mu       sync.Mutex
	limit    int
	accepted map[int64]int
	clock    Clock
}

// Allow reports whether one request may be admitted now.
func (rw *rollingWindow) Allow() bool {
	return rw.AllowN(1)
}

// AllowN reports whether n requests may be admitted now.
func (rw *rollingWindow) AllowN(n int) bool {
	if n <= 0 {
		return true
	}

	rw.mu.Lock()
	defer rw.mu.Unlock()

	now := rw.clock.Now().Unix()
	rw.purge(now)

	if rw.sum()+n > rw.limit {
		return false
	}

	rw.accepted[now] += n
	return true
}

// Accepted returns the number of requests currently counted in the window.
func (rw *rollingWindow) Accepted() int {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	rw.purge(rw.clock.Now().Unix())
	return rw.sum()
}

// Limit returns the configured requests-per-minute quota.
func (rw *rollingWindow) Limit() int {
	return rw.limit
}

// Reset clears all recorded acceptances.
func (rw *rollingWindow) Reset() {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	rw.accepted = make(map[int64]int)
}

// purge removes buckets that have fallen out of the rolling window.
// A bucket exactly windowSeconds old still counts.
// Caller must hold rw.mu.
func (rw *rollingWindow) purge(now int64) {
	cutoff := now - windowSeconds
	for ts := range rw.accepted {
		if ts < cutoff {
			delete(rw.accepted, ts)
		}
	}
}

// sum totals all remaining buckets. Caller must hold rw.mu.
func (rw *rollingWindow) sum() int {
	total := 0
	for _, count := range rw.accepted {
		total += count
	}
	return total
}
