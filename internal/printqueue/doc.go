// Package printqueue serializes print jobs against a single physical printer.
// It is structured into small files by concern:
//
//   - queue.go: Queue type, Enqueue and the advance/drain loop.
//   - config.go: Config and package defaults; NewWithConfig applies defaults.
//   - result.go: Result, the single-resolution handle returned by Enqueue.
//   - status_report.go: Status snapshot and WaitIdle.
//   - pause.go: Pause/Resume controls.
//   - errors.go: error types and helpers (IsPanic, ErrNilPayload).
//   - events.go, eventpub_memory.go, eventpub_log.go: lifecycle events.
//   - metrics.go: Prometheus collectors.
//
// A Queue runs at most one payload at a time, in submission order. Payload
// failures are reported only through the Result of the failing entry; the
// queue itself has no error state. There is no capacity limit and no way to
// cancel an entry once it has been enqueued.
package printqueue
