package log

// Builder provides a fluent API for assembling a Config and building the
// Logger from it in one chain, mirroring the chainable setup style the
// rest of this package's configuration surface follows.
type Builder struct {
	cfg *Config
	err error
}

// NewBuilder starts a Builder from the library's default configuration.
func NewBuilder() *Builder {
	return &Builder{cfg: DefaultConfig()}
}

// Build validates the accumulated configuration and constructs a Logger
// from it.
func (b *Builder) Build() (*Logger, error) {
	if b.err != nil {
		return nil, b.err
	}
	return New(b.cfg)
}

// Level sets the minimum severity the logger accepts.
func (b *Builder) Level(level Level) *Builder {
	b.cfg.MinLevel = level
	return b
}

// LevelString sets the minimum severity from its case-insensitive name.
func (b *Builder) LevelString(name string) *Builder {
	if b.err != nil {
		return b
	}
	level, err := ParseLevel(name)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg.MinLevel = level
	return b
}

// Directory sets the directory log files are written to.
func (b *Builder) Directory(dir string) *Builder {
	b.cfg.LogDir = dir
	return b
}

// FilePrefix sets the base filename (without extension) of the active
// log file.
func (b *Builder) FilePrefix(prefix string) *Builder {
	b.cfg.FilePrefix = prefix
	return b
}

// Extension sets the log file extension, without its leading dot.
func (b *Builder) Extension(ext string) *Builder {
	b.cfg.Extension = ext
	return b
}

// BufferCapacity sets the per-goroutine ring buffer capacity, rounded up
// to the next power of two by the buffer itself.
func (b *Builder) BufferCapacity(capacity int) *Builder {
	b.cfg.BufferCapacity = capacity
	return b
}

// MaxFileSizeMB sets the size threshold, in megabytes, at which the
// active log file is rotated.
func (b *Builder) MaxFileSizeMB(size int64) *Builder {
	b.cfg.MaxFileSize = size * 1024 * 1024
	return b
}

// MaxFiles sets how many log files are retained in total, counting the
// live file, so at most n-1 rotated archives are kept before the oldest
// is deleted.
func (b *Builder) MaxFiles(n int) *Builder {
	b.cfg.MaxFiles = n
	return b
}

// EnableConsole turns console mirroring on or off.
func (b *Builder) EnableConsole(enable bool) *Builder {
	b.cfg.ConsoleOutput = enable
	return b
}

// EnableFile turns file output on or off.
func (b *Builder) EnableFile(enable bool) *Builder {
	b.cfg.FileOutput = enable
	return b
}

// UseColors turns ANSI color wrapping of console output on or off.
func (b *Builder) UseColors(enable bool) *Builder {
	b.cfg.UseColors = enable
	return b
}

// Heartbeat enables the periodic self-diagnostic record at the given
// interval.
func (b *Builder) Heartbeat(intervalSeconds int64) *Builder {
	b.cfg.HeartbeatEnabled = true
	b.cfg.HeartbeatIntervalS = intervalSeconds
	return b
}

// Example usage:
//
//	logger, err := log.NewBuilder().
//	    Directory("/var/log/app").
//	    LevelString("debug").
//	    MaxFileSizeMB(50).
//	    EnableConsole(true).
//	    Build()
//
//	if err == nil {
//	    defer logger.Shutdown()
//	    logger.Info("logger initialized")
//	}
