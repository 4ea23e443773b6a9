package internal

import "sync"

// Host runs turns on the surrounding event loop.
type Host interface {
	// Post schedules turn to run once on a later host turn.
	// An error returned by turn belongs to the host that ran it.
	Post(turn func() error)
}

// YieldPolicy reports whether the current time slice is used up.
type YieldPolicy func() bool

// NeverYield keeps running until the store is empty.
func NeverYield() bool { return false }

// HostCallback lets the scheduler ask the host for one future turn at a time.
type HostCallback struct {
	mu      sync.Mutex
	host    Host
	fn      func() (bool, error)
	pending bool

	shouldYield YieldPolicy
}

func NewHostCallback(host Host, policy YieldPolicy) *HostCallback {
	if policy == nil {
		policy = NeverYield
	}

	return &HostCallback{host: host, shouldYield: policy}
}

// Request registers fn for the next host turn. While a turn is already
// requested only fn is replaced.
func (h *HostCallback) Request(fn func() (bool, error)) {
	h.mu.Lock()
	h.fn = fn
	if h.pending {
		h.mu.Unlock()
		return
	}
	h.pending = true
	h.mu.Unlock()

	h.host.Post(h.turn)
}

func (h *HostCallback) Pending() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.pending
}

func (h *HostCallback) ShouldYield() bool {
	return h.shouldYield()
}

func (h *HostCallback) turn() (err error) {
	h.mu.Lock()
	fn := h.fn
	h.pending = false
	h.mu.Unlock()

	if fn == nil {
		return nil
	}

	more := true
	defer func() {
		// re-arm before a failure reaches the host, so one bad turn can't stall the rest
		if more || err != nil {
			h.rearm()
		}
	}()
	defer recoverInto(&err)

	more, err = fn()
	return err
}

func (h *HostCallback) rearm() {
	h.mu.Lock()
	if h.pending {
		h.mu.Unlock()
		return
	}
	h.pending = true
	h.mu.Unlock()

	h.host.Post(h.turn)
}
