package printqueue

import (
	"context"
	"sync"
)

// Result is the single-resolution handle for one enqueued payload. It is
// resolved with the payload's return value or rejected with its error
// exactly once, and only after the payload has returned.
type Result struct {
	id    string
	done  chan struct{}
	once  sync.Once
	value any
	err   error
}

func newResult(id string) *Result {
	return &Result{id: id, done: make(chan struct{})}
}

// ID returns the job identifier assigned at enqueue time.
func (r *Result) ID() string { return r.id }

// Done is closed once the payload has finished.
func (r *Result) Done() <-chan struct{} { return r.done }

// Wait blocks until the payload has finished or ctx is done. ctx bounds
// only the caller's wait; the job itself keeps its place and still runs.
func (r *Result) Wait(ctx context.Context) (any, error) {
	select {
	case <-r.done:
		return r.value, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *Result) settle(v any, err error) {
	r.once.Do(func() {
		r.value, r.err = v, err
		close(r.done)
	})
}
