package printqueue

// Pause stops new entries from starting. The entry currently executing, if
// any, runs to completion. Enqueue keeps accepting entries while paused.
func (q *Queue) Pause() {
	q.mu.Lock()
	if q.paused {
		q.mu.Unlock()
		return
	}
	q.paused = true
	q.mu.Unlock()
	q.pub.Publish(Event{Name: EventQueuePaused})
	q.log.Info().Msg("queue paused")
}

// Resume lifts a pause and starts the head entry if the printer is idle.
func (q *Queue) Resume() {
	q.mu.Lock()
	was := q.paused
	q.paused = false
	q.mu.Unlock()
	if was {
		q.pub.Publish(Event{Name: EventQueueResumed})
		q.log.Info().Msg("queue resumed")
	}
	q.advance()
}
