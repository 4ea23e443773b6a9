package internal

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogging(t *testing.T) {
	t.Run("config builds a json logger", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := DefaultConfig()
		cfg.LogLevel = "debug"
		cfg.LogFormat = "json"

		r, _, _ := newTestRuntime(t, WithConfig(cfg), WithLogOutput(&buf))
		task := r.RunAsync(PriorityImmediate, logWork(&[]string{}, "a"))

		var entry map[string]any
		line, _, _ := bytes.Cut(buf.Bytes(), []byte("\n"))
		require.NoError(t, json.Unmarshal(line, &entry))
		assert.Equal(t, "task scheduled", entry["msg"])
		assert.Equal(t, "scheduler", entry["component"])
		assert.Equal(t, float64(task.ID()), entry["task"])
	})

	t.Run("level filters records", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger(Config{LogLevel: "WARN"}, &buf)

		logger.Info("hidden")
		assert.Empty(t, buf.String())

		logger.Warn("shown")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("no config and no logger stays quiet", func(t *testing.T) {
		r, _, _ := newTestRuntime(t)

		assert.False(t, r.Logger().Enabled(t.Context(), slog.LevelError))
	})

	t.Run("cancelling a foreign task warns", func(t *testing.T) {
		var buf bytes.Buffer
		r, _, _ := newTestRuntime(t, WithLogger(newLogger(Config{LogLevel: "debug"}, &buf)))
		other, _, _ := newTestRuntime(t)

		r.CancelTask(other.RunAsync(PriorityNormal, func(bool) (Result, error) { return Done(), nil }))
		assert.Contains(t, buf.String(), "level=WARN")
	})
}
