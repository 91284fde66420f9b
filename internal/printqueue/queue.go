package printqueue

import (
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Payload is an opaque unit of work. The queue never inspects what it does.
type Payload func() (any, error)

type entry struct {
	id       string
	payload  Payload
	result   *Result
	enqueued time.Time
}

// Queue is an in-process FIFO with a single execution slot.
type Queue struct {
	mu      sync.Mutex
	entries []*entry
	busy    bool
	paused  bool

	cooldown time.Duration
	pub      EventPublisher
	log      zerolog.Logger
}

// Enqueue appends payload to the tail of the queue and returns its handle.
// It never blocks on execution and never fails; payload errors surface only
// through the returned Result.
func (q *Queue) Enqueue(p Payload) *Result {
	e := &entry{id: uuid.NewString(), payload: p, enqueued: time.Now()}
	e.result = newResult(e.id)

	q.mu.Lock()
	q.entries = append(q.entries, e)
	queueLengthGauge.Set(float64(len(q.entries)))
	q.mu.Unlock()

	q.pub.Publish(Event{Name: EventJobEnqueued, JobID: e.id})
	q.log.Debug().Str("job_id", e.id).Msg("job enqueued")
	q.advance()
	return e.result
}

// advance starts the head entry when the printer is idle. Calling it while
// a job is in flight, while paused, or with an empty queue is a no-op.
func (q *Queue) advance() {
	e := q.next()
	if e == nil {
		return
	}
	go q.drain(e)
}

// next removes the head entry and marks the printer busy, all under one
// lock. Returns nil when busy, paused or empty.
func (q *Queue) next() *entry {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.busy || q.paused || len(q.entries) == 0 {
		return nil
	}
	e := q.entries[0]
	q.entries[0] = nil
	q.entries = q.entries[1:]
	q.busy = true
	queueLengthGauge.Set(float64(len(q.entries)))
	printingGauge.Set(1)
	return e
}

// drain owns the execution slot: it runs e, releases the slot, waits the
// cooldown and then tries to claim the slot again for the next entry.
func (q *Queue) drain(e *entry) {
	for e != nil {
		q.run(e)

		q.mu.Lock()
		q.busy = false
		printingGauge.Set(0)
		q.mu.Unlock()

		if q.cooldown > 0 {
			time.Sleep(q.cooldown)
		}
		e = q.next()
	}
}

func (q *Queue) run(e *entry) {
	start := time.Now()
	waitDuration.Observe(start.Sub(e.enqueued).Seconds())
	q.pub.Publish(Event{Name: EventJobStarted, JobID: e.id})
	q.log.Debug().Str("job_id", e.id).Msg("job started")

	v, err := execute(e.payload)
	e.payload = nil

	outcome := outcomeOK
	switch {
	case IsPanic(err):
		outcome = outcomePanic
	case err != nil:
		outcome = outcomeFailed
	}
	jobsTotal.WithLabelValues(outcome).Inc()
	jobDuration.Observe(time.Since(start).Seconds())

	e.result.settle(v, err)

	q.pub.Publish(Event{Name: EventJobFinished, JobID: e.id, Fields: map[string]any{"ok": err == nil}})
	q.log.Debug().Str("job_id", e.id).Str("outcome", outcome).Dur("dur", time.Since(start)).Msg("job finished")
}

// execute runs p, converting a panic into a PanicError.
func execute(p Payload) (v any, err error) {
	if p == nil {
		return nil, ErrNilPayload
	}
	defer func() {
		if r := recover(); r != nil {
			v = nil
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return p()
}
