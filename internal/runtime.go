package internal

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

type Runtime struct {
	config Config
	logger *slog.Logger
	clock  *Clock

	guard   *guard
	tracker *Tracker
	batcher *Batcher

	host         Host
	ownedHost    *LoopHost
	hostCallback *HostCallback

	scheduler   *Scheduler
	renderQueue *RenderQueue
}

type options struct {
	config    *Config
	logger    *slog.Logger
	logOutput io.Writer
	clock     clockwork.Clock
	host      Host
	yieldWith YieldPolicy
}

type Option func(*options)

func WithConfig(cfg Config) Option { return func(o *options) { o.config = &cfg } }

// WithLogger overrides the logger the config would build.
func WithLogger(logger *slog.Logger) Option { return func(o *options) { o.logger = logger } }

// WithLogOutput sends the config-built logger to w instead of stderr.
func WithLogOutput(w io.Writer) Option { return func(o *options) { o.logOutput = w } }

// WithClock sets the time source. Task deadlines are measured from the
// moment the runtime is created.
func WithClock(clock clockwork.Clock) Option { return func(o *options) { o.clock = clock } }

// WithHost replaces the default LoopHost. The caller owns the host's lifecycle.
func WithHost(host Host) Option { return func(o *options) { o.host = host } }

func WithYieldPolicy(policy YieldPolicy) Option {
	return func(o *options) { o.yieldWith = policy }
}

func NewRuntime(opts ...Option) (*Runtime, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cfg := DefaultConfig()
	if o.config != nil {
		cfg = *o.config
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := o.logger
	switch {
	case logger != nil:
	case o.logOutput != nil:
		logger = newLogger(cfg, o.logOutput)
	case o.config != nil:
		logger = newLogger(cfg, os.Stderr)
	default:
		logger = slog.New(slog.DiscardHandler)
	}

	clock := NewClock(o.clock)

	r := &Runtime{
		config:  cfg,
		logger:  logger,
		clock:   clock,
		guard:   &guard{},
		tracker: NewTracker(),
		batcher: NewBatcher(),
		host:    o.host,
	}

	if r.host == nil {
		r.ownedHost = NewLoopHost(logger, nil)
		r.ownedHost.Start(context.Background())
		r.host = r.ownedHost
	}

	r.hostCallback = NewHostCallback(r.host, o.yieldWith)
	r.scheduler = NewScheduler(r.guard, r.hostCallback, clock, r.tracker, cfg, logger)
	r.renderQueue = NewRenderQueue(r.guard, r.scheduler, logger)

	return r, nil
}

// Close stops the runtime's own LoopHost. Hosts passed with WithHost are left alone.
func (r *Runtime) Close() error {
	if r.ownedHost != nil {
		r.ownedHost.Stop()
	}

	return nil
}

// newLogger builds the runtime's logger from the config's log_level and
// log_format. The config must already be valid.
func newLogger(cfg Config, w io.Writer) *slog.Logger {
	lvl, _ := cfg.level()
	opts := &slog.HandlerOptions{Level: lvl}

	if strings.EqualFold(cfg.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

func (r *Runtime) Config() Config       { return r.config }
func (r *Runtime) Logger() *slog.Logger { return r.logger }
func (r *Runtime) Host() Host           { return r.host }

func (r *Runtime) Now() time.Duration {
	return r.scheduler.Now()
}

func (r *Runtime) CurrentPriority() Priority {
	return r.scheduler.CurrentPriority()
}

func (r *Runtime) RunSync(p Priority, fn func() error) error {
	return r.scheduler.RunSync(p, fn)
}

func (r *Runtime) RunAsync(p Priority, work Work) *Task {
	return r.scheduler.RunAsync(p, work)
}

func (r *Runtime) CancelTask(task *Task) {
	r.scheduler.CancelTask(task)
}

// PendingTasks counts scheduled tasks, cancelled placeholders included.
func (r *Runtime) PendingTasks() int {
	return r.scheduler.Len()
}

func (r *Runtime) FlushWork() error {
	return r.scheduler.FlushWork()
}

func (r *Runtime) PushRenderCallback(cb RenderCallback) bool {
	return r.renderQueue.Push(cb)
}

// FlushRenderQueue runs every queued render entry before returning.
func (r *Runtime) FlushRenderQueue() error {
	return r.renderQueue.Flush()
}

func (r *Runtime) RenderQueueLen() int {
	return r.renderQueue.Len()
}
