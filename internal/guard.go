package internal

import (
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"
)

// guard is a mutex the holding goroutine may lock again.
// Units of work run while their turn holds the guard, so they can call back
// into the scheduler, while other goroutines wait for the turn to end.
type guard struct {
	mu    sync.Mutex
	owner atomic.Int64 // goroutine id, 0 when free
	depth int
}

func (g *guard) Lock() {
	gid := goid.Get()
	if g.owner.Load() == gid {
		g.depth++
		return
	}

	g.mu.Lock()
	g.owner.Store(gid)
	g.depth = 1
}

func (g *guard) Unlock() {
	g.depth--
	if g.depth > 0 {
		return
	}

	g.owner.Store(0)
	g.mu.Unlock()
}
