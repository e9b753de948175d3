// Package sanitizer strips or hex-encodes characters that would corrupt a
// terminal or a log file if written verbatim — control sequences, raw NUL
// bytes, and other non-printable runes arriving in caller-supplied message
// or module-name text.
//
// Adapted from the teacher's rule-based sanitizer: the JSON/shell policy
// presets are dropped (this logger only ever emits the txt grammar spec'd
// for its Formatter), leaving the filter+transform engine that matters for
// a single purpose — safe terminal and file text.
package sanitizer

import (
	"encoding/hex"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Mode selects how a matched rune is handled.
type Mode int

const (
	// HexEncode replaces the rune's UTF-8 bytes with "<hex>".
	HexEncode Mode = iota
	// Strip removes the rune entirely.
	Strip
)

// Sanitizer rewrites runes that are not printable per strconv.IsPrint, or
// that are ASCII control characters, according to its configured Mode.
// The zero value is ready to use (defaults to HexEncode).
type Sanitizer struct {
	mode Mode
	buf  []byte
}

// New creates a Sanitizer using the given Mode.
func New(mode Mode) *Sanitizer {
	return &Sanitizer{mode: mode, buf: make([]byte, 0, 256)}
}

// needsSanitizing reports whether s contains any rune this Sanitizer would
// rewrite, letting callers skip allocation on the common clean-text path.
func needsSanitizing(s string) bool {
	for _, r := range s {
		if shouldRewrite(r) {
			return true
		}
	}
	return false
}

func shouldRewrite(r rune) bool {
	return unicode.IsControl(r) || !strconv.IsPrint(r)
}

// Sanitize returns s with every control or non-printable rune rewritten
// per the Sanitizer's Mode. Clean input is returned unmodified with no
// allocation.
func (s *Sanitizer) Sanitize(in string) string {
	if !needsSanitizing(in) {
		return in
	}

	s.buf = s.buf[:0]
	for _, r := range in {
		if !shouldRewrite(r) {
			s.buf = utf8.AppendRune(s.buf, r)
			continue
		}
		switch s.mode {
		case Strip:
			// drop the rune
		default: // HexEncode
			var rb [utf8.UTFMax]byte
			n := utf8.EncodeRune(rb[:], r)
			s.buf = append(s.buf, '<')
			s.buf = append(s.buf, hex.EncodeToString(rb[:n])...)
			s.buf = append(s.buf, '>')
		}
	}
	return string(s.buf)
}
