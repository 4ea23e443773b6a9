package internal

import (
	"log/slog"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/eventloop"
)

// GojaHost runs turns on a goja_nodejs event loop, next to the JavaScript
// the loop is executing.
type GojaHost struct {
	loop    *eventloop.EventLoop
	logger  *slog.Logger
	onError func(error)
}

// NewGojaHost wraps a loop the caller starts and stops. onError may be nil.
func NewGojaHost(loop *eventloop.EventLoop, logger *slog.Logger, onError func(error)) *GojaHost {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &GojaHost{
		loop:    loop,
		logger:  logger.With("component", "goja-host"),
		onError: onError,
	}
}

// Post queues turn on the loop. A terminated loop drops it and reports
// ErrHostStopped.
func (h *GojaHost) Post(turn func() error) {
	ok := h.loop.RunOnLoop(func(*goja.Runtime) {
		if err := turn(); err != nil {
			h.logger.Error("host turn failed", "error", err)
			h.report(err)
		}
	})
	if !ok {
		h.logger.Warn("turn dropped", "error", ErrHostStopped)
		h.report(ErrHostStopped)
	}
}

func (h *GojaHost) report(err error) {
	if h.onError != nil {
		h.onError(err)
	}
}
