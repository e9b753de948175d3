package compat

import (
	"fmt"

	"github.com/Pp3ng/blitz-logger"
)

// Builder assembles logging adapters for third-party servers (gnet,
// fasthttp) backed by a single shared Logger, so an application wiring
// both into one process logs through one sink and one file.
type Builder struct {
	logger *log.Logger
	logCfg *log.Config
	err    error
}

// NewBuilder creates an adapter builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithLogger uses an existing Logger for every adapter this builder
// produces. Takes precedence over WithConfig.
func (b *Builder) WithLogger(l *log.Logger) *Builder {
	if l == nil {
		b.err = fmt.Errorf("compat: provided logger cannot be nil")
		return b
	}
	b.logger = l
	return b
}

// WithConfig provides a configuration for a new Logger, used only if
// WithLogger was never called.
func (b *Builder) WithConfig(cfg *log.Config) *Builder {
	b.logCfg = cfg
	return b
}

func (b *Builder) getLogger() (*log.Logger, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.logger != nil {
		return b.logger, nil
	}

	cfg := b.logCfg
	if cfg == nil {
		cfg = log.DefaultConfig()
	}

	l, err := log.New(cfg)
	if err != nil {
		return nil, err
	}
	b.logger = l
	return l, nil
}

// BuildGnet creates a gnet-compatible adapter.
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(l, opts...), nil
}

// BuildFastHTTP creates a fasthttp-compatible adapter.
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(l, opts...), nil
}

// GetLogger returns the underlying Logger. If WithLogger supplied none, it
// constructs one from the WithConfig configuration, or from the library
// defaults when WithConfig was not called either.
func (b *Builder) GetLogger() (*log.Logger, error) {
	return b.getLogger()
}

// Example usage:
//
//	appLogger, err := log.New(log.DefaultConfig())
//	if err != nil {
//	    panic(err)
//	}
//
//	builder := compat.NewBuilder().WithLogger(appLogger)
//
//	gnetLogger, err := builder.BuildGnet()
//	fasthttpLogger, err := builder.BuildFastHTTP()
//
//	go gnet.Run(events, "tcp://:9000", gnet.WithLogger(gnetLogger))
//
//	server := &fasthttp.Server{Logger: fasthttpLogger}
//	go server.ListenAndServe(":8080")
