package executor

import (
	"context"
	"sync"
)

// CompletionHandle carries the eventual outcome of an admitted request.
// It is resolved exactly once, by the worker that executes the request, to
// either a result or an error. Any number of goroutines may observe it.
type CompletionHandle struct {
	done   chan struct{}
	once   sync.Once
	result string
	err    error
}

func newCompletionHandle() *CompletionHandle {
	return &CompletionHandle{done: make(chan struct{})}
}

// complete resolves the handle with a successful result.
func (h *CompletionHandle) complete(result string) {
	h.once.Do(func() {
		h.result = result
		close(h.done)
	})
}

// fail resolves the handle with an execution error.
func (h *CompletionHandle) fail(err error) {
	h.once.Do(func() {
		h.err = err
		close(h.done)
	})
}

// Done returns a channel that is closed once the request has executed.
func (h *CompletionHandle) Done() <-chan struct{} {
	return h.done
}

// Resolved reports whether the request has executed, without blocking.
func (h *CompletionHandle) Resolved() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the request has executed and returns its outcome, or
// returns the context error if ctx is canceled first. Canceling ctx only
// abandons the wait; the request itself still runs.
func (h *CompletionHandle) Wait(ctx context.Context) (string, error) {
	select {
	case <-h.done:
		return h.result, h.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
