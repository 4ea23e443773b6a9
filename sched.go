package sched

import (
	"io"
	"log/slog"
	"time"

	"github.com/AnatoleLucet/sched/internal"
	"github.com/dop251/goja_nodejs/eventloop"
	"github.com/jonboulle/clockwork"
)

type (
	Priority       = internal.Priority
	Task           = internal.Task
	Work           = internal.Work
	Result         = internal.Result
	RenderCallback = internal.RenderCallback
	RenderResult   = internal.RenderResult
	Config         = internal.Config
	Host           = internal.Host
	ManualHost     = internal.ManualHost
	LoopHost       = internal.LoopHost
	GojaHost       = internal.GojaHost
	YieldPolicy    = internal.YieldPolicy
	Option         = internal.Option
	PanicError     = internal.PanicError
)

const (
	PriorityImmediate = internal.PriorityImmediate
	PriorityNormal    = internal.PriorityNormal
)

var ErrHostStopped = internal.ErrHostStopped

// Done finishes the task.
func Done() Result { return internal.Done() }

// Continue keeps the task scheduled and runs next on its next visit.
func Continue(next Work) Result { return internal.Continue(next) }

// RenderDone finishes a render entry.
func RenderDone() RenderResult { return internal.RenderDone() }

// RenderContinue runs next before the render queue moves to the following entry.
func RenderContinue(next RenderCallback) RenderResult { return internal.RenderContinue(next) }

func WithConfig(cfg Config) Option              { return internal.WithConfig(cfg) }
func WithLogger(logger *slog.Logger) Option     { return internal.WithLogger(logger) }
func WithLogOutput(w io.Writer) Option          { return internal.WithLogOutput(w) }
func WithClock(clock clockwork.Clock) Option    { return internal.WithClock(clock) }
func WithHost(host Host) Option                 { return internal.WithHost(host) }
func WithYieldPolicy(policy YieldPolicy) Option { return internal.WithYieldPolicy(policy) }

// ParsePriority accepts "immediate" or "normal". An empty string is normal.
func ParsePriority(s string) (Priority, error) { return internal.ParsePriority(s) }

func DefaultConfig() Config                   { return internal.DefaultConfig() }
func ParseConfig(data []byte) (Config, error) { return internal.ParseConfig(data) }
func LoadConfig(path string) (Config, error)  { return internal.LoadConfig(path) }

func NewManualHost() *ManualHost { return internal.NewManualHost() }

// NewLoopHost creates a goroutine backed host. Call Start before posting.
func NewLoopHost(logger *slog.Logger, onError func(error)) *LoopHost {
	return internal.NewLoopHost(logger, onError)
}

// NewGojaHost runs scheduler turns on a goja_nodejs event loop.
func NewGojaHost(loop *eventloop.EventLoop, logger *slog.Logger, onError func(error)) *GojaHost {
	return internal.NewGojaHost(loop, logger, onError)
}

// Runtime is an independent scheduler with its own task store and render queue.
type Runtime struct {
	rt *internal.Runtime
}

// New creates a runtime. Without WithHost it runs its turns on its own LoopHost,
// released by Close.
func New(opts ...Option) (*Runtime, error) {
	rt, err := internal.NewRuntime(opts...)
	if err != nil {
		return nil, err
	}

	return &Runtime{rt}, nil
}

// Close releases the runtime's own host.
func (r *Runtime) Close() error { return r.rt.Close() }

// Config returns the config the runtime was built with.
func (r *Runtime) Config() Config { return r.rt.Config() }

// Logger returns the logger the runtime's components write to.
func (r *Runtime) Logger() *slog.Logger { return r.rt.Logger() }

// Host returns the host running the runtime's turns.
func (r *Runtime) Host() Host { return r.rt.Host() }

// Now returns the time elapsed since the runtime was created.
func (r *Runtime) Now() time.Duration { return r.rt.Now() }

// CurrentPriority returns the ambient priority of the calling goroutine.
func (r *Runtime) CurrentPriority() Priority { return r.rt.CurrentPriority() }

// RunSync runs fn immediately with p as the ambient priority.
func (r *Runtime) RunSync(p Priority, fn func() error) error { return r.rt.RunSync(p, fn) }

// RunAsync schedules work for a later host turn and returns its handle.
func (r *Runtime) RunAsync(p Priority, work Work) *Task { return r.rt.RunAsync(p, work) }

// CancelTask stops a scheduled task from running. Unknown handles are ignored.
func (r *Runtime) CancelTask(task *Task) { r.rt.CancelTask(task) }

// PendingTasks counts scheduled tasks, cancelled ones not yet swept included.
func (r *Runtime) PendingTasks() int { return r.rt.PendingTasks() }

// FlushWork runs all scheduled tasks on the calling goroutine.
func (r *Runtime) FlushWork() error { return r.rt.FlushWork() }

// PushRenderCallback queues render work and reports whether it scheduled a new drain.
func (r *Runtime) PushRenderCallback(cb RenderCallback) bool { return r.rt.PushRenderCallback(cb) }

// FlushRenderQueue drains the render queue before returning.
func (r *Runtime) FlushRenderQueue() error { return r.rt.FlushRenderQueue() }

// Act runs fn, then flushes the render queue and all scheduled tasks.
func (r *Runtime) Act(fn func() error) error { return r.rt.Act(fn) }

// Package-level helpers use the process-wide runtime.

func Now() time.Duration                        { return internal.GetRuntime().Now() }
func CurrentPriority() Priority                 { return internal.GetRuntime().CurrentPriority() }
func RunSync(p Priority, fn func() error) error { return internal.GetRuntime().RunSync(p, fn) }
func RunAsync(p Priority, work Work) *Task      { return internal.GetRuntime().RunAsync(p, work) }
func CancelTask(task *Task)                     { internal.GetRuntime().CancelTask(task) }
func FlushWork() error                          { return internal.GetRuntime().FlushWork() }
func PushRenderCallback(cb RenderCallback) bool { return internal.GetRuntime().PushRenderCallback(cb) }
func FlushRenderQueue() error                   { return internal.GetRuntime().FlushRenderQueue() }
func Act(fn func() error) error                 { return internal.GetRuntime().Act(fn) }
