package internal

import "log/slog"

// RenderCallback is one render queue entry. It keeps its own continuation
// chain, separate from task continuations.
type RenderCallback func() (RenderResult, error)

type RenderResult struct {
	next RenderCallback
}

func RenderDone() RenderResult { return RenderResult{} }

// RenderContinue runs next before the queue moves on to the following entry.
func RenderContinue(next RenderCallback) RenderResult { return RenderResult{next: next} }

func (r RenderResult) Next() (RenderCallback, bool) {
	return r.next, r.next != nil
}

type drainState int

const (
	stateIdle drainState = iota
	stateDraining
)

// RenderQueue holds render work that is scheduled as an immediate task but
// can be forced to completion synchronously with Flush.
type RenderQueue struct {
	guard     *guard
	scheduler *Scheduler
	logger    *slog.Logger

	// nil when nothing is queued and no drain is scheduled
	queue []RenderCallback

	// the scheduled drain, if any
	pending *Task

	state drainState
}

func NewRenderQueue(g *guard, scheduler *Scheduler, logger *slog.Logger) *RenderQueue {
	return &RenderQueue{
		guard:     g,
		scheduler: scheduler,
		logger:    logger.With("component", "render-queue"),
	}
}

// Push queues cb and reports whether this call scheduled a new drain.
func (q *RenderQueue) Push(cb RenderCallback) bool {
	if cb == nil {
		return false
	}

	q.guard.Lock()
	defer q.guard.Unlock()

	if q.queue != nil {
		q.queue = append(q.queue, cb)
		return false
	}

	q.queue = []RenderCallback{cb}
	q.pending = q.scheduler.RunAsync(PriorityImmediate, q.drainTask)

	return true
}

func (q *RenderQueue) Len() int {
	q.guard.Lock()
	defer q.guard.Unlock()

	return len(q.queue)
}

// Flush drains the queue on the calling goroutine. The scheduled drain is
// cancelled first; the queued entries themselves are never dropped.
func (q *RenderQueue) Flush() error {
	q.guard.Lock()
	defer q.guard.Unlock()

	if q.pending != nil {
		q.scheduler.CancelTask(q.pending)
		q.pending = nil
	}

	return q.drain()
}

func (q *RenderQueue) drainTask(bool) (Result, error) {
	return Done(), q.drain()
}

func (q *RenderQueue) flushTask(bool) (Result, error) {
	return Done(), q.Flush()
}

func (q *RenderQueue) drain() (err error) {
	if q.state == stateDraining || q.queue == nil {
		return nil
	}

	q.state = stateDraining
	defer func() { q.state = stateIdle }()

	// entries pushed while draining are appended and picked up by this loop
	i := 0
	for ; i < len(q.queue); i++ {
		if err = runRenderChain(q.queue[i]); err != nil {
			break
		}
	}

	if err == nil {
		q.queue = nil
		q.pending = nil
		return nil
	}

	// keep the rest for a later drain; a non-nil empty slice still means "drain scheduled"
	q.queue = q.queue[i+1:]
	q.pending = q.scheduler.RunAsync(PriorityImmediate, q.flushTask)
	q.logger.Debug("render entry failed, rescheduled remainder", "remaining", len(q.queue), "error", err)

	return err
}

func runRenderChain(cb RenderCallback) error {
	for cb != nil {
		res, err := invokeRender(cb)
		if err != nil {
			return err
		}

		cb, _ = res.Next()
	}

	return nil
}
