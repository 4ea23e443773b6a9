package internal

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock measures time elapsed since it was created, read from a
// clockwork.Clock so tests can drive it with a fake.
type Clock struct {
	source clockwork.Clock
	start  time.Time
}

// NewClock starts a clock on source, or on the real clock when source is nil.
func NewClock(source clockwork.Clock) *Clock {
	if source == nil {
		source = clockwork.NewRealClock()
	}

	return &Clock{source: source, start: source.Now()}
}

func (c *Clock) Now() time.Duration {
	return c.source.Since(c.start)
}
