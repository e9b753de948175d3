// Package formatter renders a log record into the library's single wire
// grammar:
//
//	[<timestamp>] [<LEVEL>] [T-<thread>] [<module>] [<file>:<line>] <message>
//
// Each bracketed field is independently optional. A disabled field drops
// both its brackets and the single trailing space that would have
// separated it from the next field, so toggling fields off never leaves
// stray whitespace in the line.
package formatter

import (
	"strconv"
	"time"

	"github.com/Pp3ng/blitz-logger/sanitizer"
)

// Options controls which optional fields Format renders, mirroring the
// show_* knobs of the logger's Config.
type Options struct {
	ShowTimestamp bool
	ShowThreadID  bool
	ShowSourceLoc bool
	ShowModule    bool

	TimestampLayout string
}

// Record is the minimal set of fields Format needs out of a drained
// ring.Record; kept independent of the ring package so this formatter has
// no import-cycle risk and can be unit tested without constructing one.
type Record struct {
	Message   string
	Level     string
	Timestamp time.Time
	Module    string
	File      string
	Line      int
	ThreadID  uint64
}

// Formatter renders Records into newline-terminated lines, sanitizing the
// module name and message so neither can inject terminal escape sequences
// or corrupt the file's line structure.
type Formatter struct {
	opts Options
	san  *sanitizer.Sanitizer
	buf  []byte
}

// New creates a Formatter with the given options, sanitizing text with s.
// A nil s gets a hex-encoding sanitizer, matching the safe default.
func New(opts Options, s *sanitizer.Sanitizer) *Formatter {
	if s == nil {
		s = sanitizer.New(sanitizer.HexEncode)
	}
	if opts.TimestampLayout == "" {
		opts.TimestampLayout = "2006-01-02 15:04:05.000"
	}
	return &Formatter{opts: opts, san: s, buf: make([]byte, 0, 256)}
}

// Format renders rec per the configured Options, returning a
// newline-terminated line. The returned slice is owned by the Formatter
// and is only valid until the next call to Format.
func (f *Formatter) Format(rec Record) []byte {
	f.buf = f.buf[:0]
	wrote := false

	if f.opts.ShowTimestamp {
		f.buf = append(f.buf, '[')
		f.buf = rec.Timestamp.AppendFormat(f.buf, f.opts.TimestampLayout)
		f.buf = append(f.buf, ']')
		wrote = true
	}

	// Level always renders: unlike the other fields it has no show_level
	// knob, it is the anchor every line carries.
	f.space(wrote)
	f.buf = append(f.buf, '[')
	f.buf = append(f.buf, rec.Level...)
	f.buf = append(f.buf, ']')
	wrote = true

	if f.opts.ShowThreadID {
		f.space(wrote)
		f.buf = append(f.buf, "[T-"...)
		f.buf = strconv.AppendUint(f.buf, rec.ThreadID, 10)
		f.buf = append(f.buf, ']')
		wrote = true
	}

	if f.opts.ShowModule {
		f.space(wrote)
		f.buf = append(f.buf, '[')
		f.buf = append(f.buf, f.san.Sanitize(rec.Module)...)
		f.buf = append(f.buf, ']')
		wrote = true
	}

	if f.opts.ShowSourceLoc {
		f.space(wrote)
		f.buf = append(f.buf, '[')
		f.buf = append(f.buf, rec.File...)
		f.buf = append(f.buf, ':')
		f.buf = strconv.AppendInt(f.buf, int64(rec.Line), 10)
		f.buf = append(f.buf, ']')
		wrote = true
	}

	f.space(wrote)
	f.buf = append(f.buf, f.san.Sanitize(rec.Message)...)
	f.buf = append(f.buf, '\n')

	return f.buf
}

func (f *Formatter) space(wrote bool) {
	if wrote {
		f.buf = append(f.buf, ' ')
	}
}
