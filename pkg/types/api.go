package types

// StatusResponse is returned by GET /api/queue.
type StatusResponse struct {
	// Number of jobs waiting to start.
	// example: 2
	QueueLength int `json:"queueLength" example:"2"`
	// True while a job is being printed.
	// example: true
	IsPrinting bool `json:"isPrinting" example:"true"`
	// True when the queue has been paused by an operator.
	// example: false
	Paused bool `json:"paused,omitempty" example:"false"`
}

// PrintResponse is returned by POST /api/print.
type PrintResponse struct {
	// Human-readable acknowledgement.
	// example: Print request received successfully.
	Message string `json:"message" example:"Print request received successfully."`
	// Identifier of the queued job.
	// example: 3f1c2a9e-7d7b-4c55-9a43-0d6f8f1d2b11
	JobID string `json:"jobId" example:"3f1c2a9e-7d7b-4c55-9a43-0d6f8f1d2b11"`
	// Job result when the request asked to wait for completion.
	Result any `json:"result,omitempty"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: No file uploaded.
	Error string `json:"error" example:"No file uploaded."`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
