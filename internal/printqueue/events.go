package printqueue

// Event names published by the queue.
const (
	EventJobEnqueued  = "job_enqueued"
	EventJobStarted   = "job_started"
	EventJobFinished  = "job_finished"
	EventQueuePaused  = "queue_paused"
	EventQueueResumed = "queue_resumed"
)

// Event represents a queue lifecycle event.
// Minimal and stable: name + job ID and optional fields via key/values.
type Event struct {
	Name   string
	JobID  string
	Fields map[string]any
}

// EventPublisher receives events from the queue. Implementations should be
// lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}
