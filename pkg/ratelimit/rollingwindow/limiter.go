package rollingwindow

import (
	"time"

	"github.com/vnykmshr/ratequeue/pkg/common/errors"
)

// Window is the rolling window duration. The limiter counts accepted
// requests over the trailing minute; other window sizes are not supported.
const Window = time.Minute

// Limiter decides whether a request may be admitted against a rolling
// per-minute quota. Admission checks are atomic: concurrent callers can
// never both consume the last remaining slot.
type Limiter interface {
	// Allow reports whether one request may be admitted now. If admitted,
	// the acceptance is recorded in the rolling window. It does not block.
	Allow() bool

	// AllowN reports whether n requests may be admitted now. Either all n
	// are recorded or none are. It does not block.
	AllowN(n int) bool

	// Accepted returns the number of requests currently counted in the
	// rolling window.
	Accepted() int

	// Limit returns the configured requests-per-minute quota.
	Limit() int

	// Reset clears all recorded acceptances.
	Reset()
}

// Clock provides the current time. It can be mocked for testing.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the system time.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Config holds configuration options for creating a new Limiter.
type Config struct {
	// RequestsPerMinute is the admission quota over the rolling window.
	// A quota of 0 rejects every request.
	RequestsPerMinute int

	// Clock provides the current time. If nil, SystemClock is used.
	Clock Clock
}

// NewSafe creates a new rolling window limiter with validation that returns
// an error instead of panicking. This is the recommended way to create
// limiters for production use.
func NewSafe(requestsPerMinute int) (Limiter, error) {
	return NewWithConfigSafe(Config{
		RequestsPerMinute: requestsPerMinute,
		Clock:             SystemClock{},
	})
}

// NewWithConfigSafe creates a new rolling window limiter with validation
// that returns an error instead of panicking.
func NewWithConfigSafe(config Config) (Limiter, error) {
	if config.RequestsPerMinute < 0 {
		return nil, errors.NewValidationError("rollingwindow", "requestsPerMinute", config.RequestsPerMinute, "cannot be negative").
			WithHint("use 0 to reject all requests or a positive quota")
	}
	if config.Clock == nil {
		config.Clock = SystemClock{}
	}

	return &rollingWindow{
		limit:    config.RequestsPerMinute,
		accepted: make(map[int64]int),
		clock:    config.Clock,
	}, nil
}
