package printqueue

import (
	"context"
	"time"
)

// Snapshot is a read-only projection of the queue state.
type Snapshot struct {
	// QueueLength counts entries that have not started yet.
	QueueLength int
	// IsPrinting is true while a payload is executing.
	IsPrinting bool
	Paused     bool
}

// Status returns a fresh snapshot. It never fails and has no side effects.
func (q *Queue) Status() Snapshot {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Snapshot{QueueLength: len(q.entries), IsPrinting: q.busy, Paused: q.paused}
}

// WaitIdle blocks until nothing is executing and nothing runnable is
// pending, or ctx is done. Entries held back by a pause do not count.
func (q *Queue) WaitIdle(ctx context.Context) error {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		s := q.Status()
		if !s.IsPrinting && (s.QueueLength == 0 || s.Paused) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
