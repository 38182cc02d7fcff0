package executor

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Request is an opaque unit of work submitted to the executor. Execute may
// take an arbitrary amount of wall-clock time and either returns a result
// or fails; the executor imposes no constraints on what it does internally.
type Request interface {
	// ID returns the unique identifier of this request.
	ID() uuid.UUID

	// Execute performs the work, returning a result on success.
	Execute(ctx context.Context) (string, error)
}

// request is the Request implementation returned by NewRequest.
type request struct {
	id uuid.UUID
	fn func(ctx context.Context) (string, error)
}

// NewRequest creates a Request with a freshly generated id that runs fn
// when executed.
func NewRequest(fn func(ctx context.Context) (string, error)) Request {
	return &request{
		id: uuid.New(),
		fn: fn,
	}
}

// ID returns the unique identifier of this request.
func (r *request) ID() uuid.UUID {
	return r.id
}

// Execute performs the work.
func (r *request) Execute(ctx context.Context) (string, error) {
	return r.fn(ctx)
}

// NewSimulatedRequest creates a request that emulates a remote call: it
// sleeps for 1-4 seconds and fails with a 10% chance. Useful for demos and
// load tests.
func NewSimulatedRequest() Request {
	return NewRequest(func(ctx context.Context) (string, error) {
		delay := time.Duration(rand.Int63n(3000)+1000) * time.Millisecond

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			return "", ctx.Err()
		}

		if rand.Float64() < 0.1 {
			return "", errors.New("failed to execute!")
		}
		return "Success! o7", nil
	})
}
