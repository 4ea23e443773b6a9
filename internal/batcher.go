package internal

import (
	"errors"
	"sync"

	"github.com/petermattis/goid"
)

type Batcher struct {
	// each nested batch increases the goroutine's depth by 1
	// onComplete only runs when the outermost batch is done
	depths sync.Map // map[int64]int
}

func NewBatcher() *Batcher {
	return &Batcher{}
}

func (b *Batcher) IsBatching() bool {
	return b.depth(goid.Get()) > 0
}

// Batch runs fn and, once the outermost batch on this goroutine returns,
// onComplete. Errors from both are joined. onComplete is skipped when fn
// panics.
func (b *Batcher) Batch(fn, onComplete func() error) (err error) {
	gid := goid.Get()
	b.depths.Store(gid, b.depth(gid)+1)

	returned := false
	defer func() {
		depth := b.depth(gid) - 1
		if depth > 0 {
			b.depths.Store(gid, depth)
			return
		}
		b.depths.Delete(gid)

		if returned && onComplete != nil {
			if cerr := onComplete(); cerr != nil {
				err = errors.Join(err, cerr)
			}
		}
	}()

	err = fn()
	returned = true

	return err
}

func (b *Batcher) depth(gid int64) int {
	if d, ok := b.depths.Load(gid); ok {
		return d.(int)
	}

	return 0
}

// Act runs fn like a test harness would: inside a batch, then forces every
// queued render entry and scheduled task to finish before returning.
func (r *Runtime) Act(fn func() error) error {
	if fn == nil {
		fn = func() error { return nil }
	}

	return r.batcher.Batch(fn, r.flushAll)
}

func (r *Runtime) flushAll() error {
	if err := r.renderQueue.Flush(); err != nil {
		return err
	}

	return r.scheduler.FlushWork()
}
