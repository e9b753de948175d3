package log

import (
	"sync/atomic"
	"time"
)

// State holds every piece of runtime state a Logger needs to touch from
// more than one goroutine, kept as individual atomics rather than behind
// a single mutex so the hot logging path never blocks on bookkeeping.
type State struct {
	Initialized    atomic.Bool
	ShutdownCalled atomic.Bool

	DroppedLogs        atomic.Uint64
	TotalLogsProcessed atomic.Uint64
	TotalRotations     atomic.Uint64
	TotalDeletions     atomic.Uint64

	DegradedSink atomic.Bool // set by a file sink write failure, cleared by the next successful write (§4.4)

	StartTime atomic.Value // time.Time, for heartbeat uptime reporting
}

func newState() *State {
	s := &State{}
	s.StartTime.Store(time.Time{})
	return s
}
