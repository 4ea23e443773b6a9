package internal

import (
	"context"
	"log/slog"
	"sync"
)

// LoopHost runs posted turns one at a time on its own goroutine.
type LoopHost struct {
	mu      sync.Mutex
	turns   []func() error
	started bool
	stopped bool

	wake   chan struct{}
	stopCh chan struct{}
	doneCh chan struct{}

	logger  *slog.Logger
	onError func(error)
}

// NewLoopHost creates a stopped loop. onError may be nil.
func NewLoopHost(logger *slog.Logger, onError func(error)) *LoopHost {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &LoopHost{
		wake:    make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
		logger:  logger.With("component", "loop-host"),
		onError: onError,
	}
}

// Start launches the loop goroutine. It exits when ctx is cancelled or Stop is called.
func (h *LoopHost) Start(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.started || h.stopped {
		return
	}
	h.started = true

	go h.run(ctx)
}

// Stop ends the loop and waits for the running turn to finish.
// Turns still queued are dropped. It must not be called from inside a turn.
func (h *LoopHost) Stop() {
	h.mu.Lock()
	started, stopped := h.started, h.stopped
	h.stopped = true
	h.turns = nil
	h.mu.Unlock()

	if !stopped {
		close(h.stopCh)
		if !started {
			close(h.doneCh)
		}
	}

	<-h.doneCh
}

func (h *LoopHost) Done() <-chan struct{} {
	return h.doneCh
}

// Post queues turn for the loop. After Stop the turn is dropped and
// ErrHostStopped goes to onError.
func (h *LoopHost) Post(turn func() error) {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		h.logger.Warn("turn dropped", "error", ErrHostStopped)
		if h.onError != nil {
			h.onError(ErrHostStopped)
		}
		return
	}
	h.turns = append(h.turns, turn)
	h.mu.Unlock()

	select {
	case h.wake <- struct{}{}:
	default:
	}
}

func (h *LoopHost) run(ctx context.Context) {
	defer close(h.doneCh)
	h.logger.Debug("loop started")

	for {
		select {
		case <-ctx.Done():
			h.markStopped()
			h.logger.Debug("loop stopping (context cancelled)")
			return
		case <-h.stopCh:
			h.logger.Debug("loop stopping (stop called)")
			return
		case <-h.wake:
			for h.next(ctx) {
			}
		}
	}
}

// next runs one queued turn and reports whether another may follow.
func (h *LoopHost) next(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}

	h.mu.Lock()
	if h.stopped || len(h.turns) == 0 {
		h.mu.Unlock()
		return false
	}
	turn := h.turns[0]
	h.turns[0] = nil
	h.turns = h.turns[1:]
	h.mu.Unlock()

	if err := turn(); err != nil {
		h.logger.Error("host turn failed", "error", err)
		if h.onError != nil {
			h.onError(err)
		}
	}

	return true
}

func (h *LoopHost) markStopped() {
	h.mu.Lock()
	h.stopped = true
	h.turns = nil
	h.mu.Unlock()
}
