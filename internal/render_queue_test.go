package internal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderQueue(t *testing.T) {
	t.Run("drains each continuation chain before the next entry", func(t *testing.T) {
		log := []string{}
		r, _, _ := newTestRuntime(t)

		f := func() (RenderResult, error) {
			log = append(log, "f")
			return RenderContinue(logRender(&log, "h")), nil
		}

		assert.True(t, r.PushRenderCallback(f))
		assert.False(t, r.PushRenderCallback(logRender(&log, "g")))

		require.NoError(t, r.FlushRenderQueue())
		assert.Equal(t, []string{"f", "h", "g"}, log)
		assert.Equal(t, 0, r.RenderQueueLen())
	})

	t.Run("schedules a single drain", func(t *testing.T) {
		log := []string{}
		r, host, _ := newTestRuntime(t)

		r.PushRenderCallback(logRender(&log, "a"))
		r.PushRenderCallback(logRender(&log, "b"))
		r.PushRenderCallback(logRender(&log, "c"))

		assert.Equal(t, 1, r.PendingTasks())
		assert.Equal(t, 1, host.Len())
		assert.Equal(t, 3, r.RenderQueueLen())

		require.NoError(t, host.RunUntilIdle(10))
		assert.Equal(t, []string{"a", "b", "c"}, log)
		assert.Equal(t, 0, r.RenderQueueLen())
		assert.Equal(t, 0, r.PendingTasks())
	})

	t.Run("flush cancels the scheduled drain", func(t *testing.T) {
		log := []string{}
		r, host, _ := newTestRuntime(t)

		r.PushRenderCallback(logRender(&log, "a"))
		require.NoError(t, r.FlushRenderQueue())
		assert.Equal(t, []string{"a"}, log)

		// the cancelled drain is still a placeholder until the loop sweeps it
		assert.Equal(t, 1, r.PendingTasks())
		require.NoError(t, host.RunUntilIdle(10))
		assert.Equal(t, []string{"a"}, log)
		assert.Equal(t, 0, r.PendingTasks())
	})

	t.Run("flush on an empty queue is a no-op", func(t *testing.T) {
		r, host, _ := newTestRuntime(t)

		require.NoError(t, r.FlushRenderQueue())
		assert.Equal(t, 0, host.Len())
		assert.False(t, r.PushRenderCallback(nil))
	})

	t.Run("failed entry keeps the rest for a later drain", func(t *testing.T) {
		log := []string{}
		r, host, _ := newTestRuntime(t)
		boom := errors.New("boom")

		r.PushRenderCallback(logRender(&log, "a"))
		r.PushRenderCallback(func() (RenderResult, error) {
			log = append(log, "b")
			return RenderDone(), boom
		})
		r.PushRenderCallback(logRender(&log, "c"))
		r.PushRenderCallback(logRender(&log, "d"))

		err := r.FlushRenderQueue()
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, []string{"a", "b"}, log)
		assert.Equal(t, 2, r.RenderQueueLen())

		require.NoError(t, host.RunUntilIdle(10))
		assert.Equal(t, []string{"a", "b", "c", "d"}, log)
		assert.Equal(t, 0, r.RenderQueueLen())
		assert.Equal(t, 0, r.PendingTasks())
	})

	t.Run("failed entry during a scheduled drain reaches the host", func(t *testing.T) {
		log := []string{}
		r, host, _ := newTestRuntime(t)
		boom := errors.New("boom")

		r.PushRenderCallback(logRender(&log, "a"))
		r.PushRenderCallback(func() (RenderResult, error) { return RenderDone(), boom })
		r.PushRenderCallback(logRender(&log, "c"))

		ran, err := host.Turn()
		assert.True(t, ran)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, []string{"a"}, log)
		assert.Equal(t, 1, host.Len())

		require.NoError(t, host.RunUntilIdle(10))
		assert.Equal(t, []string{"a", "c"}, log)
	})

	t.Run("last entry failing still leaves a drain scheduled", func(t *testing.T) {
		log := []string{}
		r, host, _ := newTestRuntime(t)
		boom := errors.New("boom")

		r.PushRenderCallback(func() (RenderResult, error) { return RenderDone(), boom })
		assert.ErrorIs(t, r.FlushRenderQueue(), boom)
		assert.Equal(t, 0, r.RenderQueueLen())

		// the queue is empty but a drain is on its way, so no new one is scheduled
		assert.False(t, r.PushRenderCallback(logRender(&log, "x")))

		require.NoError(t, host.RunUntilIdle(10))
		assert.Equal(t, []string{"x"}, log)
		assert.True(t, r.PushRenderCallback(logRender(&log, "y")))
	})

	t.Run("nested flush inside an entry does not start a second drain", func(t *testing.T) {
		log := []string{}
		r, _, _ := newTestRuntime(t)

		r.PushRenderCallback(func() (RenderResult, error) {
			log = append(log, "a")
			assert.False(t, r.PushRenderCallback(logRender(&log, "pushed from a")))
			require.NoError(t, r.FlushRenderQueue())
			log = append(log, "a after flush")
			return RenderDone(), nil
		})
		r.PushRenderCallback(logRender(&log, "b"))

		require.NoError(t, r.FlushRenderQueue())
		assert.Equal(t, []string{"a", "a after flush", "b", "pushed from a"}, log)
		assert.Equal(t, 0, r.RenderQueueLen())
	})

	t.Run("panicking entry is reported and the queue recovers", func(t *testing.T) {
		log := []string{}
		r, host, _ := newTestRuntime(t)

		r.PushRenderCallback(func() (RenderResult, error) { panic("kaboom") })
		r.PushRenderCallback(logRender(&log, "b"))

		var panicErr *PanicError
		require.ErrorAs(t, r.FlushRenderQueue(), &panicErr)
		assert.Equal(t, "kaboom", panicErr.Value)

		require.NoError(t, r.FlushRenderQueue())
		assert.Equal(t, []string{"b"}, log)
		require.NoError(t, host.RunUntilIdle(10))
		assert.Equal(t, []string{"b"}, log)
	})

	t.Run("drain runs alongside scheduler tasks in deadline order", func(t *testing.T) {
		log := []string{}
		r, host, _ := newTestRuntime(t)

		r.RunAsync(PriorityNormal, func(bool) (Result, error) {
			log = append(log, "normal")
			r.PushRenderCallback(logRender(&log, "render from normal"))
			return Done(), nil
		})
		r.PushRenderCallback(logRender(&log, "render"))

		require.NoError(t, host.RunUntilIdle(10))
		assert.Equal(t, []string{"render", "normal", "render from normal"}, log)
	})
}
