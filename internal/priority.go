package internal

import (
	"fmt"
	"strings"
	"time"
)

type Priority int

const (
	// PriorityImmediate work is already due when scheduled.
	PriorityImmediate Priority = iota + 1
	// PriorityNormal work gets a fixed timeout window before it counts as expired.
	PriorityNormal
)

func (p Priority) String() string {
	switch p {
	case PriorityImmediate:
		return "immediate"
	case PriorityNormal:
		return "normal"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "immediate":
		return PriorityImmediate, nil
	case "normal", "":
		return PriorityNormal, nil
	default:
		return 0, fmt.Errorf("sched: unknown priority %q", s)
	}
}

// timeout returns how long after scheduling a task of this priority expires.
func (c Config) timeout(p Priority) time.Duration {
	if p == PriorityImmediate {
		return c.ImmediateTimeout
	}

	return c.NormalTimeout
}
