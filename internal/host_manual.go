package internal

import (
	"fmt"
	"sync"
)

// ManualHost queues posted turns until the caller runs them.
type ManualHost struct {
	mu    sync.Mutex
	turns []func() error
}

func NewManualHost() *ManualHost {
	return &ManualHost{}
}

func (h *ManualHost) Post(turn func() error) {
	h.mu.Lock()
	h.turns = append(h.turns, turn)
	h.mu.Unlock()
}

func (h *ManualHost) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.turns)
}

// Turn runs the oldest posted turn. It reports false when nothing was posted.
func (h *ManualHost) Turn() (bool, error) {
	h.mu.Lock()
	if len(h.turns) == 0 {
		h.mu.Unlock()
		return false, nil
	}
	turn := h.turns[0]
	h.turns[0] = nil
	h.turns = h.turns[1:]
	h.mu.Unlock()

	return true, turn()
}

// RunUntilIdle runs turns until none are left, stopping at the first error.
// limit guards against turns that keep re-posting forever; zero means no limit.
func (h *ManualHost) RunUntilIdle(limit int) error {
	for n := 0; limit <= 0 || n < limit; n++ {
		ran, err := h.Turn()
		if err != nil {
			return err
		}
		if !ran {
			return nil
		}
	}

	return fmt.Errorf("sched: host still busy after %d turns", limit)
}
