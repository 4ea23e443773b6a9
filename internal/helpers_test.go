package internal

import (
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

func newTestRuntime(t *testing.T, opts ...Option) (*Runtime, *ManualHost, *clockwork.FakeClock) {
	t.Helper()

	host := NewManualHost()
	clock := clockwork.NewFakeClock()

	r, err := NewRuntime(append([]Option{WithHost(host), WithClock(clock)}, opts...)...)
	require.NoError(t, err)

	return r, host, clock
}

func logWork(log *[]string, name string) Work {
	return func(bool) (Result, error) {
		*log = append(*log, name)
		return Done(), nil
	}
}

func logRender(log *[]string, name string) RenderCallback {
	return func() (RenderResult, error) {
		*log = append(*log, name)
		return RenderDone(), nil
	}
}
