// Package compat adapts blitz-logger's Logger to the logging interfaces
// expected by third-party servers, so applications standardizing on this
// logger don't need a second logging dependency just to satisfy a
// library's Logger parameter.
package compat

import (
	"fmt"
	"strings"

	"github.com/Pp3ng/blitz-logger"
)

// FastHTTPAdapter wraps a Logger to implement fasthttp's Logger interface
// (the single-method Printf(format string, args ...any) contract).
type FastHTTPAdapter struct {
	logger        *log.Logger
	defaultLevel  log.Level
	levelDetector func(string) log.Level
}

// NewFastHTTPAdapter creates a fasthttp-compatible logger adapter.
func NewFastHTTPAdapter(logger *log.Logger, opts ...FastHTTPOption) *FastHTTPAdapter {
	adapter := &FastHTTPAdapter{
		logger:        logger,
		defaultLevel:  log.LevelInfo,
		levelDetector: DetectLogLevel,
	}
	for _, opt := range opts {
		opt(adapter)
	}
	return adapter
}

// FastHTTPOption customizes adapter construction.
type FastHTTPOption func(*FastHTTPAdapter)

// WithDefaultLevel sets the level used when no level detector is set
// (WithLevelDetector(nil)). With a detector in place its result is always
// used; the built-in DetectLogLevel returns LevelInfo for messages it does
// not recognize.
func WithDefaultLevel(level log.Level) FastHTTPOption {
	return func(a *FastHTTPAdapter) { a.defaultLevel = level }
}

// WithLevelDetector overrides the message-content level detector.
func WithLevelDetector(detector func(string) log.Level) FastHTTPOption {
	return func(a *FastHTTPAdapter) { a.levelDetector = detector }
}

// Printf implements fasthttp's Logger interface.
func (a *FastHTTPAdapter) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	level := a.defaultLevel
	if a.levelDetector != nil {
		level = a.levelDetector(msg)
	}

	switch level {
	case log.LevelDebug:
		a.logger.Debug("[fasthttp] %s", msg)
	case log.LevelWarning:
		a.logger.Warning("[fasthttp] %s", msg)
	case log.LevelError:
		a.logger.Error("[fasthttp] %s", msg)
	default:
		a.logger.Info("[fasthttp] %s", msg)
	}
}

// DetectLogLevel guesses a severity from common substrings in fasthttp's
// own log messages, which carry no level of their own.
func DetectLogLevel(msg string) log.Level {
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "error") || strings.Contains(lower, "failed") ||
		strings.Contains(lower, "fatal") || strings.Contains(lower, "panic"):
		return log.LevelError
	case strings.Contains(lower, "warn") || strings.Contains(lower, "deprecated"):
		return log.LevelWarning
	case strings.Contains(lower, "debug") || strings.Contains(lower, "trace"):
		return log.LevelDebug
	default:
		return log.LevelInfo
	}
}
