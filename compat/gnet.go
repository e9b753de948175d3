package compat

import (
	"fmt"
	"os"
	"time"

	"github.com/Pp3ng/blitz-logger"
)

// GnetAdapter wraps a Logger to implement gnet's logging.Logger interface.
type GnetAdapter struct {
	logger       *log.Logger
	fatalHandler func(msg string)
}

// NewGnetAdapter creates a gnet-compatible logger adapter.
func NewGnetAdapter(logger *log.Logger, opts ...GnetOption) *GnetAdapter {
	adapter := &GnetAdapter{
		logger: logger,
		fatalHandler: func(msg string) {
			os.Exit(1)
		},
	}
	for _, opt := range opts {
		opt(adapter)
	}
	return adapter
}

// GnetOption customizes adapter construction.
type GnetOption func(*GnetAdapter)

// WithFatalHandler overrides what Fatalf does after logging and flushing.
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) { a.fatalHandler = handler }
}

func (a *GnetAdapter) Debugf(format string, args ...any) {
	a.logger.Debug("[gnet] "+format, args...)
}

func (a *GnetAdapter) Infof(format string, args ...any) {
	a.logger.Info("[gnet] "+format, args...)
}

func (a *GnetAdapter) Warnf(format string, args ...any) {
	a.logger.Warning("[gnet] "+format, args...)
}

func (a *GnetAdapter) Errorf(format string, args ...any) {
	a.logger.Error("[gnet] "+format, args...)
}

// Fatalf logs at error severity, flushes, then calls the fatal handler.
// gnet expects Fatalf to terminate the process; the default handler does,
// but callers embedding this adapter in a larger application can supply
// their own via WithFatalHandler.
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.logger.Error("[gnet] fatal: %s", msg)
	_ = a.logger.Flush(100 * time.Millisecond)

	if a.fatalHandler != nil {
		a.fatalHandler(msg)
	}
}
