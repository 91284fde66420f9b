package printqueue

import (
	"errors"
	"fmt"
)

// ErrNilPayload rejects an entry that was enqueued without a payload.
var ErrNilPayload = errors.New("nil payload")

// PanicError is the rejection of an entry whose payload panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string { return fmt.Sprintf("payload panicked: %v", e.Value) }

// IsPanic reports whether err is, or wraps, a PanicError.
func IsPanic(err error) bool {
	var pe *PanicError
	return errors.As(err, &pe)
}
