// Package log is a high-throughput, low-latency logging library built
// around one lock-free ring buffer per producer goroutine, drained in
// batches by a single background goroutine.
package log

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/davecgh/go-spew/spew"

	"github.com/Pp3ng/blitz-logger/formatter"
	"github.com/Pp3ng/blitz-logger/ring"
)

// Logger is the facade applications call into. A zero Logger is not
// usable; construct one with New.
type Logger struct {
	cfg atomic.Value // *Config

	registry *BufferRegistry
	console  *consoleSink
	file     *fileSink
	drain    *drainLoop
	state    *State

	minLevel atomic.Int32

	initMu sync.Mutex

	heartbeat *heartbeatTicker
}

// New builds a Logger from cfg, opening its configured sinks and starting
// the background drain loop. The returned Logger owns cfg's file handle
// and goroutine; call Shutdown to release them.
func New(cfg *Config) (*Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg = cfg.Clone()
	cfg.validate()

	l := &Logger{
		registry: newBufferRegistry(),
		state:    newState(),
	}
	l.cfg.Store(cfg)
	l.minLevel.Store(int32(cfg.MinLevel))
	l.state.StartTime.Store(time.Now())

	if cfg.ConsoleOutput {
		l.console = newConsoleSink(stdoutWriter(), cfg.UseColors)
	}

	if cfg.FileOutput {
		fs, err := newFileSink(cfg, func() { l.state.DegradedSink.Store(true) })
		if err != nil {
			return nil, err
		}
		l.file = fs
	}

	f := formatter.New(formatterOptions(cfg), nil)
	l.drain = newDrainLoop(cfg, l.registry, l.console, l.file, f, l.state)
	go l.drain.run()

	l.state.Initialized.Store(true)

	if cfg.HeartbeatEnabled {
		l.heartbeat = startHeartbeat(l, cfg)
	}

	return l, nil
}

func formatterOptions(cfg *Config) formatter.Options {
	return formatter.Options{
		ShowTimestamp:   cfg.ShowTimestamp,
		ShowThreadID:    cfg.ShowThreadID,
		ShowSourceLoc:   cfg.ShowSourceLoc,
		ShowModule:      cfg.ShowModule,
		TimestampLayout: cfg.TimestampLayout,
	}
}

// getConfig returns the Logger's current configuration.
func (l *Logger) getConfig() *Config {
	return l.cfg.Load().(*Config)
}

// GetConfig returns a copy of the Logger's current configuration.
func (l *Logger) GetConfig() *Config {
	return l.getConfig().Clone()
}

// SetLevel changes the minimum severity the Logger accepts, taking effect
// immediately for every producer goroutine without a config reload.
func (l *Logger) SetLevel(level Level) {
	l.minLevel.Store(int32(level))
}

// SetModule tags every subsequent record from the calling goroutine with
// name, until SetModule is called again on that goroutine. Module tags
// are per-goroutine, mirroring the thread-local module context of the
// original design — Go has no thread-local storage, so attachment is
// keyed by goroutine id instead (see goroutineID).
func (l *Logger) SetModule(name string) {
	gid := goroutineID()
	slot := l.registry.attach(gid, l.getConfig().BufferCapacity)
	slot.module.Store(name)
}

// Detach marks the calling goroutine's producer buffer inactive
// immediately, for code that manages its own goroutine lifecycle and
// knows exactly when it is done logging from the current goroutine. Go
// gives this library no goroutine-exit hook to call Detach automatically,
// so a goroutine that never calls it (or Go) is only reclaimed later, via
// the drain loop's idle-cycle fallback.
func (l *Logger) Detach() {
	gid := goroutineID()
	if slot, ok := l.registry.lookup(gid); ok {
		slot.buf.Deactivate()
	}
}

// Go starts fn in a new goroutine and guarantees that goroutine's producer
// buffer is deactivated as soon as fn returns, so the drain loop can
// reclaim it without waiting out the idle-cycle threshold. Prefer this
// over a bare "go" statement for any worker pool or short-lived task
// goroutine that logs, so its buffer does not linger in the registry
// after the goroutine is gone.
func (l *Logger) Go(fn func()) {
	go func() {
		defer l.Detach()
		fn()
	}()
}

// log is the common path for every severity convenience method. skip is
// the number of stack frames between the public API call and this
// function, used to attribute the record to the right call site.
func (l *Logger) log(level Level, skip int, format string, args ...any) {
	if Level(l.minLevel.Load()) > level {
		return
	}
	if !l.state.Initialized.Load() || l.state.ShutdownCalled.Load() {
		return
	}

	gid := goroutineID()
	slot := l.registry.attach(gid, l.getConfig().BufferCapacity)

	message := format
	if len(args) > 0 {
		message = fmt.Sprintf(format, args...)
	}

	file, line := callSite(skip+1, l.getConfig().ShowFullPath)

	rec := ring.Record{
		Message:   message,
		Level:     int8(level),
		Timestamp: time.Now(),
		Module:    slot.module.Load(),
		File:      file,
		Line:      line,
		ThreadID:  gid,
	}

	for !slot.buf.TryPush(rec) {
		runtime.Gosched()
	}
}

// Trace logs at TRACE severity.
func (l *Logger) Trace(format string, args ...any) { l.log(LevelTrace, 2, format, args...) }

// Debug logs at DEBUG severity.
func (l *Logger) Debug(format string, args ...any) { l.log(LevelDebug, 2, format, args...) }

// Info logs at INFO severity.
func (l *Logger) Info(format string, args ...any) { l.log(LevelInfo, 2, format, args...) }

// Warning logs at WARNING severity.
func (l *Logger) Warning(format string, args ...any) { l.log(LevelWarning, 2, format, args...) }

// Error logs at ERROR severity.
func (l *Logger) Error(format string, args ...any) { l.log(LevelError, 2, format, args...) }

// Fatal logs at FATAL severity. Unlike the original C++ design this never
// terminates the process itself — Go code that wants process exit on a
// fatal condition calls os.Exit explicitly after Fatal returns, so a
// library caller can't be killed out from under its own defers.
func (l *Logger) Fatal(format string, args ...any) { l.log(LevelFatal, 2, format, args...) }

// Step logs a numbered milestone at STEP severity, prefixing the message
// with its step number so a sequence of steps reads as a trace through a
// multi-stage operation.
func (l *Logger) Step(n int, format string, args ...any) {
	l.log(LevelStep, 2, fmt.Sprintf("[Step %d] %s", n, format), args...)
}

// Dump logs a DEBUG-severity record whose message is a deep, human
// readable rendering of value — field names, nested structs, pointers
// followed — for ad hoc inspection of a value too complex for a format
// string to usefully describe.
func (l *Logger) Dump(label string, value any) {
	l.log(LevelDebug, 2, "%s: %s", label, strings.TrimRight(spew.Sdump(value), "\n"))
}

// Flush blocks until every record currently queued has been drained and
// the file sink has been synced to disk, or timeout elapses.
func (l *Logger) Flush(timeout time.Duration) error {
	if !l.state.Initialized.Load() || l.state.ShutdownCalled.Load() {
		return fmtErrorf("logger not initialized or already shut down")
	}
	return l.drain.requestFlush(timeout)
}

// Shutdown drains every producer buffer to empty, closes the file sink,
// and stops the background drain goroutine. It is safe to call more than
// once; only the first call does any work.
func (l *Logger) Shutdown(timeout ...time.Duration) error {
	if !l.state.ShutdownCalled.CompareAndSwap(false, true) {
		return nil
	}

	if l.heartbeat != nil {
		l.heartbeat.stop()
	}

	effective := 2 * time.Second
	if len(timeout) > 0 {
		effective = timeout[0]
	}

	stopErr := l.drain.stop(effective)
	l.state.Initialized.Store(false)

	var closeErr error
	if l.file != nil {
		closeErr = l.file.close()
	}

	return combineErrors(stopErr, closeErr)
}
