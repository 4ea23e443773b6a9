package internal

import "sync"

var (
	once          sync.Once
	globalRuntime *Runtime
)

// GetRuntime returns the process-wide runtime, created on first use with the
// default config and a LoopHost.
func GetRuntime() *Runtime {
	once.Do(func() {
		r, err := NewRuntime()
		if err != nil {
			// the default config is always valid
			panic(err)
		}

		globalRuntime = r
	})

	return globalRuntime
}
