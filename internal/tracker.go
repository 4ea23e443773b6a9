package internal

import (
	"sync"

	"github.com/petermattis/goid"
)

// Tracker holds the ambient priority of each goroutine.
// Goroutines without an entry are at PriorityNormal.
type Tracker struct {
	priorities sync.Map // map[int64]Priority
}

func NewTracker() *Tracker {
	return &Tracker{}
}

func (t *Tracker) Current() Priority {
	if p, ok := t.priorities.Load(goid.Get()); ok {
		return p.(Priority)
	}

	return PriorityNormal
}

// RunWithPriority runs fn with p as the ambient priority and restores the
// previous one afterward, even if fn panics.
func (t *Tracker) RunWithPriority(p Priority, fn func() error) error {
	prev := t.swap(p)
	defer t.swap(prev)

	return fn()
}

// swap sets the ambient priority and returns the previous one.
func (t *Tracker) swap(p Priority) Priority {
	gid := goid.Get()
	prev := t.Current()

	if p == PriorityNormal {
		t.priorities.Delete(gid)
	} else {
		t.priorities.Store(gid, p)
	}

	return prev
}
