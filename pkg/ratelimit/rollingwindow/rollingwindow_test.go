package rollingwindow

import (
	"sync"
	"testing"
	"time"

	"github.com/vnykmshr/ratequeue/internal/testutil"
)

func TestNewSafe(t *testing.T) {
	tests := []struct {
		name    string
		limit   int
		wantErr bool
	}{
		{"valid quota", 100, false},
		{"quota of one", 1, false},
		{"zero quota", 0, false},
		{"negative quota", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter, err := NewSafe(tt.limit)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error for invalid quota")
				}
				if limiter != nil {
					t.Error("expected nil limiter on error")
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				testutil.AssertEqual(t, limiter.Limit(), tt.limit)
				testutil.AssertEqual(t, limiter.Accepted(), 0)
			}
		})
	}
}

func TestAllowUpToQuota(t *testing.T) {
	clock := testutil.NewMockClock(time.Unix(1000, 0))
	limiter, err := NewWithConfigSafe(Config{RequestsPerMinute: 5, Clock: clock})
	testutil.AssertNoError(t, err)

	for i := 0; i < 5; i++ {
		if !limiter.Allow() {
			t.Fatalf("request %d should be admitted", i+1)
		}
	}
	testutil.AssertEqual(t, limiter.Accepted(), 5)

	// Quota exhausted within the same second
	testutil.AssertEqual(t, limiter.Allow(), false)
	testutil.AssertEqual(t, limiter.Accepted(), 5)
}

func TestZeroQuotaRejectsEverything(t *testing.T) {
	limiter, err := NewSafe(0)
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, limiter.Allow(), false)
	testutil.AssertEqual(t, limiter.AllowN(1), false)
	testutil.AssertEqual(t, limiter.Accepted(), 0)
}

func TestAllowN(t *testing.T) {
	clock := testutil.NewMockClock(time.Unix(1000, 0))
	limiter, err := NewWithConfigSafe(Config{RequestsPerMinute: 10, Clock: clock})
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, limiter.AllowN(7), true)
	testutil.AssertEqual(t, limiter.Accepted(), 7)

	// All-or-nothing: 4 more would exceed the quota
	testutil.AssertEqual(t, limiter.AllowN(4), false)
	testutil.AssertEqual(t, limiter.Accepted(), 7)

	testutil.AssertEqual(t, limiter.AllowN(3), true)
	testutil.AssertEqual(t, limiter.Accepted(), 10)

	// AllowN(0) always succeeds without recording anything
	testutil.AssertEqual(t, limiter.AllowN(0), true)
	testutil.AssertEqual(t, limiter.Accepted(), 10)
}

func TestRollingWindowDecay(t *testing.T) {
	start := time.Unix(10000, 0)
	clock := testutil.NewMockClock(start)
	limiter, err := NewWithConfigSafe(Config{RequestsPerMinute: 3, Clock: clock})
	testutil.AssertNoError(t, err)

	// Exhaust the quota at T
	testutil.AssertEqual(t, limiter.AllowN(3), true)
	testutil.AssertEqual(t, limiter.Allow(), false)

	// 30 seconds later the acceptances are still inside the window
	clock.Advance(30 * time.Second)
	testutil.AssertEqual(t, limiter.Allow(), false)
	testutil.AssertEqual(t, limiter.Accepted(), 3)

	// A bucket exactly 60 seconds old still counts
	clock.Set(start.Add(60 * time.Second))
	testutil.AssertEqual(t, limiter.Allow(), false)

	// One second past the window the buckets are purged
	clock.Advance(time.Second)
	testutil.AssertEqual(t, limiter.Accepted(), 0)
	testutil.AssertEqual(t, limiter.Allow(), true)
}

func TestPartialDecay(t *testing.T) {
	start := time.Unix(20000, 0)
	clock := testutil.NewMockClock(start)
	limiter, err := NewWithConfigSafe(Config{RequestsPerMinute: 2, Clock: clock})
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, limiter.Allow(), true)
	clock.Advance(10 * time.Second)
	testutil.AssertEqual(t, limiter.Allow(), true)
	testutil.AssertEqual(t, limiter.Allow(), false)

	// The first acceptance ages out; the second is still counted
	clock.Set(start.Add(61 * time.Second))
	testutil.AssertEqual(t, limiter.Accepted(), 1)
	testutil.AssertEqual(t, limiter.Allow(), true)
	testutil.AssertEqual(t, limiter.Allow(), false)
}

func TestReset(t *testing.T) {
	clock := testutil.NewMockClock(time.Unix(1000, 0))
	limiter, err := NewWithConfigSafe(Config{RequestsPerMinute: 2, Clock: clock})
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, limiter.AllowN(2), true)
	testutil.AssertEqual(t, limiter.Allow(), false)

	limiter.Reset()
	testutil.AssertEqual(t, limiter.Accepted(), 0)
	testutil.AssertEqual(t, limiter.Allow(), true)
}

func TestBoundedBucketCount(t *testing.T) {
	clock := testutil.NewMockClock(time.Unix(1000, 0))
	limiter, err := NewWithConfigSafe(Config{RequestsPerMinute: 1000000, Clock: clock})
	testutil.AssertNoError(t, err)

	// Spread acceptances over five minutes; purge-on-access must keep the
	// bucket map bounded to the window size.
	for i := 0; i < 300; i++ {
		limiter.Allow()
		clock.Advance(time.Second)
	}

	rw := limiter.(*rollingWindow)
	rw.mu.Lock()
	buckets := len(rw.accepted)
	rw.mu.Unlock()

	if buckets > 61 {
		t.Errorf("bucket map has %d entries, want at most 61", buckets)
	}
}

func TestConcurrentAdmission(t *testing.T) {
	// Property: with quota Q and T > Q racing goroutines, exactly Q are
	// admitted under any interleaving.
	const quota = 50
	const goroutines = 200

	clock := testutil.NewMockClock(time.Unix(1000, 0))
	limiter, err := NewWithConfigSafe(Config{RequestsPerMinute: quota, Clock: clock})
	testutil.AssertNoError(t, err)

	var wg sync.WaitGroup
	var start sync.WaitGroup
	start.Add(1)

	admitted := make(chan bool, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start.Wait()
			admitted <- limiter.Allow()
		}()
	}

	start.Done()
	wg.Wait()
	close(admitted)

	allowed := 0
	for ok := range admitted {
		if ok {
			allowed++
		}
	}

	testutil.AssertEqual(t, allowed, quota)
	testutil.AssertEqual(t, limiter.Accepted(), quota)
}
