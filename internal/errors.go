package internal

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// ErrHostStopped is passed to a host's onError when it drops a posted turn.
var ErrHostStopped = errors.New("sched: host is stopped")

// PanicError carries a panic recovered from a unit of work or a render callback.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("sched: panic in unit of work: %v", e.Value)
}

// Unwrap exposes the panic value when it was itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}

	return nil
}

// recoverInto turns a panic into a *PanicError assigned to err.
// It must be deferred directly.
func recoverInto(err *error) {
	if r := recover(); r != nil {
		*err = &PanicError{Value: r, Stack: debug.Stack()}
	}
}

func invokeWork(work Work, didTimeout bool) (res Result, err error) {
	defer recoverInto(&err)

	return work(didTimeout)
}

func invokeRender(cb RenderCallback) (res RenderResult, err error) {
	defer recoverInto(&err)

	return cb()
}
