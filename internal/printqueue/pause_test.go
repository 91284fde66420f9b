package printqueue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPause_HoldsEntriesUntilResume(t *testing.T) {
	q, pub := fastQueue(t, false)
	q.Pause()
	q.Pause()
	res := q.Enqueue(func() (any, error) { return "late", nil })

	select {
	case <-res.Done():
		t.Fatal("entry ran while paused")
	case <-time.After(20 * time.Millisecond):
	}
	s := q.Status()
	assert.Equal(t, 1, s.QueueLength)
	assert.True(t, s.Paused)
	require.NoError(t, q.WaitIdle(testCtx(t)))

	q.Resume()
	v, err := res.Wait(testCtx(t))
	require.NoError(t, err)
	assert.Equal(t, "late", v)

	names := pub.Names()
	paused := 0
	for _, n := range names {
		if n == EventQueuePaused {
			paused++
		}
	}
	assert.Equal(t, 1, paused)
	assert.Contains(t, names, EventQueueResumed)
}

func TestPause_InFlightJobFinishes(t *testing.T) {
	q, _ := fastQueue(t, false)
	g := newGate()
	first := q.Enqueue(g.payload("first"))
	second := q.Enqueue(func() (any, error) { return "second", nil })
	<-g.started

	q.Pause()
	close(g.release)
	v, err := first.Wait(testCtx(t))
	require.NoError(t, err)
	assert.Equal(t, "first", v)

	select {
	case <-second.Done():
		t.Fatal("second entry started while paused")
	case <-time.After(20 * time.Millisecond):
	}
	q.Resume()
	v, err = second.Wait(testCtx(t))
	require.NoError(t, err)
	assert.Equal(t, "second", v)
}

func TestResume_WithoutPauseIsHarmless(t *testing.T) {
	q, pub := fastQueue(t, false)
	q.Resume()
	assert.Empty(t, pub.Events())
	assert.Equal(t, Snapshot{}, q.Status())
}
