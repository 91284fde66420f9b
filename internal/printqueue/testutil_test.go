package printqueue

import (
	"context"
	"testing"
	"time"
)

// fastQueue returns a queue without cooldown so tests run quickly.
func fastQueue(t *testing.T, paused bool) (*Queue, *MemoryPublisher) {
	t.Helper()
	pub := NewMemoryPublisher()
	q := NewWithConfig(Config{Cooldown: -1, StartPaused: paused, Events: pub})
	return q, pub
}

// testCtx returns a context with a short timeout, canceled on test cleanup.
func testCtx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return c
}

// gate is a payload that blocks until released and reports when it started.
type gate struct {
	started chan struct{}
	release chan struct{}
}

func newGate() *gate {
	return &gate{started: make(chan struct{}), release: make(chan struct{})}
}

func (g *gate) payload(v any) Payload {
	return func() (any, error) {
		close(g.started)
		<-g.release
		return v, nil
	}
}

