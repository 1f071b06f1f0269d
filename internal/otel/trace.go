package otel

import (
	"os"
	"sync/atomic"
)

// TraceEnv turns on per-message tracing in the UI reducer.
const TraceEnv = "RELEASEBASE_TRACE"

// traceEnabled is read on the UI goroutine and written by tests.
var traceEnabled atomic.Bool

func init() {
	traceEnabled.Store(os.Getenv(TraceEnv) != "")
}

// TraceEnabled reports whether RELEASEBASE_TRACE is set.
func TraceEnabled() bool {
	return traceEnabled.Load()
}

func setTraceEnabled(v bool) {
	traceEnabled.Store(v)
}
