package printqueue

import "github.com/rs/zerolog"

// LogPublisher writes every event as a debug line.
type LogPublisher struct {
	log zerolog.Logger
}

func NewLogPublisher(l zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: l.With().Str("component", "events").Logger()}
}

func (p *LogPublisher) Publish(e Event) {
	ev := p.log.Debug().Str("event", e.Name)
	if e.JobID != "" {
		ev = ev.Str("job_id", e.JobID)
	}
	ev.Fields(e.Fields).Msg("queue event")
}
