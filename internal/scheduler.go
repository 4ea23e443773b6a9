package internal

import (
	"log/slog"
	"time"
)

type Scheduler struct {
	guard   *guard
	store   *TaskStore
	host    *HostCallback
	clock   *Clock
	tracker *Tracker
	config  Config
	logger  *slog.Logger

	// tie-break for tasks sharing a deadline
	nextID uint64

	// a host turn was requested and hasn't started yet
	awaitingHost bool

	// a work loop is on the stack
	processing bool
}

func NewScheduler(g *guard, host *HostCallback, clock *Clock, tracker *Tracker, cfg Config, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		guard:   g,
		store:   NewTaskStore(),
		host:    host,
		clock:   clock,
		tracker: tracker,
		config:  cfg,
		logger:  logger.With("component", "scheduler"),
	}
}

func (s *Scheduler) Now() time.Duration {
	return s.clock.Now()
}

func (s *Scheduler) CurrentPriority() Priority {
	return s.tracker.Current()
}

// Len counts pending tasks, cancelled placeholders included.
func (s *Scheduler) Len() int {
	s.guard.Lock()
	defer s.guard.Unlock()

	return s.store.Len()
}

// RunSync runs fn right away with p as the ambient priority.
func (s *Scheduler) RunSync(p Priority, fn func() error) error {
	if fn == nil {
		return nil
	}

	return s.tracker.RunWithPriority(p, fn)
}

// RunAsync queues work and makes sure a host turn is coming to run it.
// The returned task is the handle for CancelTask.
func (s *Scheduler) RunAsync(p Priority, work Work) *Task {
	if work == nil {
		return nil
	}

	s.guard.Lock()
	defer s.guard.Unlock()

	s.nextID++
	task := &Task{
		id:         s.nextID,
		priority:   p,
		expiration: s.clock.Now() + s.config.timeout(p),
		work:       work,
		scheduler:  s,
	}
	s.store.Insert(task)
	s.logger.Debug("task scheduled", "task", task.id, "priority", p, "expiration", task.expiration)

	s.requestHost()

	return task
}

// CancelTask detaches the task's work. The placeholder stays in the store
// until the work loop reaches it.
func (s *Scheduler) CancelTask(task *Task) {
	if task == nil {
		return
	}

	s.guard.Lock()
	defer s.guard.Unlock()

	if task.scheduler != s {
		s.logger.Warn("cancel ignored, task belongs to another scheduler", "task", task.id)
		return
	}

	task.work = nil
	s.logger.Debug("task cancelled", "task", task.id)
}

// FlushWork runs every pending task on the calling goroutine, ignoring the
// yield policy. Called from inside a unit of work it does nothing, the
// running loop already picks up new tasks.
func (s *Scheduler) FlushWork() error {
	s.guard.Lock()
	defer s.guard.Unlock()

	if s.processing {
		return nil
	}

	for {
		more, err := s.workLoop(s.clock.Now(), false)
		if err != nil {
			s.requestHost()
			return err
		}
		if !more {
			return nil
		}
	}
}

func (s *Scheduler) requestHost() {
	if s.awaitingHost || s.processing {
		return
	}

	s.awaitingHost = true
	s.host.Request(s.turn)
}

// turn is what the host calls back into.
func (s *Scheduler) turn() (bool, error) {
	s.guard.Lock()
	defer s.guard.Unlock()

	if s.processing {
		return false, nil
	}

	s.logger.Debug("host turn", "pending", s.store.Len())

	return s.callTasks(s.clock.Now())
}

// callTasks runs tasks in (expiration, id) order and reports whether any are
// left when it stops.
func (s *Scheduler) callTasks(initial time.Duration) (bool, error) {
	return s.workLoop(initial, true)
}

func (s *Scheduler) workLoop(initial time.Duration, canYield bool) (bool, error) {
	s.awaitingHost = false
	s.processing = true

	prev := s.tracker.Current()
	defer func() {
		s.tracker.swap(prev)
		s.processing = false
	}()

	now := initial
	for task := s.store.Peek(); task != nil; task = s.store.Peek() {
		if canYield && task.expiration > now && s.host.ShouldYield() {
			break
		}

		work := task.work
		if work == nil {
			s.store.Pop()
			continue
		}

		task.work = nil
		s.tracker.swap(task.priority)

		res, err := invokeWork(work, task.expiration <= now)
		if err != nil {
			s.logger.Debug("task failed", "task", task.id, "error", err)
			return s.store.Len() > 0, err
		}

		if next, ok := res.Next(); ok {
			task.work = next
		} else if s.store.Peek() == task {
			s.store.Pop()
		}

		now = s.clock.Now()
	}

	return s.store.Len() > 0, nil
}
