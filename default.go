package log

import (
	"sync"
	"sync/atomic"
	"time"
)

// defaultLogger is the package-level Logger every top-level convenience
// function delegates to, constructed lazily on first use with library
// defaults so importing this package never requires explicit setup.
var (
	defaultLoggerOnce sync.Once
	defaultLoggerPtr  atomic.Pointer[Logger]
)

func defaultLogger() *Logger {
	defaultLoggerOnce.Do(func() {
		l, err := New(DefaultConfig())
		if err != nil {
			// DefaultConfig always validates cleanly; New only fails on
			// file sink setup (the default config writes logs/app.log
			// relative to the working directory). There is no error
			// return here, so such a failure panics on first use.
			panic(err)
		}
		defaultLoggerPtr.Store(l)
	})
	return defaultLoggerPtr.Load()
}

// SetDefault installs l as the package-level default logger. Intended for
// applications that want package-level log.Info/log.Error calls routed to
// a logger they configured themselves.
func SetDefault(l *Logger) {
	defaultLoggerOnce.Do(func() {})
	defaultLoggerPtr.Store(l)
}

// Trace logs at TRACE severity on the default logger.
func Trace(format string, args ...any) { defaultLogger().log(LevelTrace, 2, format, args...) }

// Debug logs at DEBUG severity on the default logger.
func Debug(format string, args ...any) { defaultLogger().log(LevelDebug, 2, format, args...) }

// Info logs at INFO severity on the default logger.
func Info(format string, args ...any) { defaultLogger().log(LevelInfo, 2, format, args...) }

// Warning logs at WARNING severity on the default logger.
func Warning(format string, args ...any) { defaultLogger().log(LevelWarning, 2, format, args...) }

// Error logs at ERROR severity on the default logger.
func Error(format string, args ...any) { defaultLogger().log(LevelError, 2, format, args...) }

// Fatal logs at FATAL severity on the default logger.
func Fatal(format string, args ...any) { defaultLogger().log(LevelFatal, 2, format, args...) }

// SetLevel changes the default logger's minimum severity.
func SetLevel(level Level) { defaultLogger().SetLevel(level) }

// SetModule tags subsequent records from the calling goroutine on the
// default logger.
func SetModule(name string) { defaultLogger().SetModule(name) }

// Flush blocks until the default logger has drained every queued record.
func Flush(timeout time.Duration) error { return defaultLogger().Flush(timeout) }

// Shutdown releases the default logger's sinks and background goroutine.
func Shutdown(timeout ...time.Duration) error { return defaultLogger().Shutdown(timeout...) }
