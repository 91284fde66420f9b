package printqueue

import (
	"time"

	"github.com/rs/zerolog"
)

// Defaults applied when corresponding Config fields are unset.
const (
	defaultCooldown = 50 * time.Millisecond
)

// Config encapsulates all tunables for Queue construction.
type Config struct {
	// Cooldown is the pause between the end of one job and the attempt to
	// start the next. Zero selects the default; a negative value disables it.
	Cooldown time.Duration
	// StartPaused constructs the queue in the paused state.
	StartPaused bool
	// Logger receives debug lifecycle lines. Defaults to a disabled logger.
	Logger *zerolog.Logger
	// Events receives lifecycle events. Defaults to a no-op publisher.
	Events EventPublisher
}

// New constructs a Queue with package defaults.
func New() *Queue {
	return NewWithConfig(Config{})
}

// NewWithConfig constructs a Queue from Config.
func NewWithConfig(cfg Config) *Queue {
	q := &Queue{
		paused: cfg.StartPaused,
		pub:    noopPublisher{},
		log:    zerolog.Nop(),
	}
	switch {
	case cfg.Cooldown < 0:
		q.cooldown = 0
	case cfg.Cooldown == 0:
		q.cooldown = defaultCooldown
	default:
		q.cooldown = cfg.Cooldown
	}
	if cfg.Logger != nil {
		q.log = cfg.Logger.With().Str("component", "printqueue").Logger()
	}
	if cfg.Events != nil {
		q.pub = cfg.Events
	}
	return q
}
