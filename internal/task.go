package internal

import "time"

// Work is one unit of work. didTimeout reports whether the task's deadline had
// already passed when it was invoked.
type Work func(didTimeout bool) (Result, error)

// Result tells the scheduler whether a task is finished or has more work.
type Result struct {
	next Work
}

func Done() Result { return Result{} }

// Continue keeps the task in place and runs next on its following visit.
func Continue(next Work) Result { return Result{next: next} }

func (r Result) Next() (Work, bool) {
	return r.next, r.next != nil
}

type Task struct {
	id         uint64
	priority   Priority
	expiration time.Duration

	// nil once the task is running, finished or cancelled
	work Work

	scheduler *Scheduler
}

func (t *Task) ID() uint64                { return t.id }
func (t *Task) Priority() Priority        { return t.priority }
func (t *Task) Expiration() time.Duration { return t.expiration }

// Cancelled reports whether the task no longer has work attached.
// A running task also reports true until its unit of work returns.
func (t *Task) Cancelled() bool { return t.work == nil }

// less orders tasks by deadline, then by creation order.
func (t *Task) less(other *Task) bool {
	if t.expiration != other.expiration {
		return t.expiration < other.expiration
	}

	return t.id < other.id
}
