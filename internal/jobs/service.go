package jobs

import (
	"printd/internal/printqueue"
	"printd/pkg/types"
)

// Service glues uploads, the producer and the queue together.
type Service struct {
	queue    *printqueue.Queue
	producer *Producer
}

func NewService(q *printqueue.Queue, p *Producer) *Service {
	return &Service{queue: q, producer: p}
}

// Submit enqueues a print job for u. A missing file is rejected here and
// the queue is never touched.
func (s *Service) Submit(u Upload) (*printqueue.Result, error) {
	if len(u.Data) == 0 {
		return nil, ErrNoFile
	}
	return s.queue.Enqueue(s.producer.PrintJob(u)), nil
}

// Status reports the queue state for GET /api/queue.
func (s *Service) Status() types.StatusResponse {
	snap := s.queue.Status()
	return types.StatusResponse{QueueLength: snap.QueueLength, IsPrinting: snap.IsPrinting, Paused: snap.Paused}
}

func (s *Service) Pause()  { s.queue.Pause() }
func (s *Service) Resume() { s.queue.Resume() }
