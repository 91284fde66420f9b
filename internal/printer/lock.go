package printer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrDeviceLocked is returned when another process holds the device lock.
var ErrDeviceLocked = errors.New("printer is in use by another process")

// DeviceLock is an exclusive advisory lock on a file, taken so that only one
// printd process feeds a given printer.
type DeviceLock struct {
	fl *flock.Flock
}

// LockDevice takes the lock at path without blocking.
func LockDevice(path string) (*DeviceLock, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("lock dir: %w", err)
		}
	}
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDeviceLocked, path)
	}
	return &DeviceLock{fl: fl}, nil
}

func (l *DeviceLock) Path() string { return l.fl.Path() }

func (l *DeviceLock) Unlock() error { return l.fl.Unlock() }
