package log

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// fmtErrorf wraps fmt.Errorf, prefixing every logger-internal error with
// "log: " so callers can recognize them in combined error chains.
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "log: ") {
		format = "log: " + format
	}
	return fmt.Errorf(format, args...)
}

// internalLog reports a logger-internal diagnostic (a sink write or
// rotation failure the caller cannot surface through the normal record
// pipeline, since that pipeline is what just failed) to stderr, prefixed
// "blitz-logger: " so it is recognizable among an application's own
// output.
func internalLog(format string, args ...any) {
	if !strings.HasPrefix(format, "blitz-logger: ") {
		format = "blitz-logger: " + format
	}
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// combineErrors joins two errors that may each independently be nil.
func combineErrors(err1, err2 error) error {
	if err1 == nil {
		return err2
	}
	if err2 == nil {
		return err1
	}
	return fmt.Errorf("%w; %w", err1, err2)
}

// parseKeyValue splits a "key=value" override string.
func parseKeyValue(arg string) (key, value string, err error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 {
		return "", "", fmtErrorf("invalid override %q, expected key=value", arg)
	}
	key = strings.TrimSpace(parts[0])
	value = strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", fmtErrorf("empty key in override %q", arg)
	}
	return key, value, nil
}

func parseInt(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmtErrorf("invalid integer %q: %w", s, err)
	}
	return n, nil
}

// goroutineID extracts the numeric id Go's runtime assigns each goroutine
// out of the header line of runtime.Stack's output. Go deliberately
// exposes no public goroutine-local-storage API; this is the same
// best-effort trick used throughout the ecosystem (e.g. gls-style
// libraries) to key per-producer state off "which goroutine is this",
// standing in for the thread-local identity the original design assumed.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]

	const prefix = "goroutine "
	if !bytesHasPrefix(b, prefix) {
		return 0
	}
	b = b[len(prefix):]

	i := 0
	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		i++
	}
	id, err := strconv.ParseUint(string(b[:i]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func bytesHasPrefix(b []byte, prefix string) bool {
	if len(b) < len(prefix) {
		return false
	}
	return string(b[:len(prefix)]) == prefix
}

// callSite captures the file and line of the logger's caller, skip frames
// above the point where it is invoked. full selects whether the file path
// is kept absolute/as-given or trimmed to its base name.
func callSite(skip int, full bool) (file string, line int) {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "(unknown)", 0
	}
	if !full {
		if idx := strings.LastIndexByte(file, '/'); idx >= 0 {
			file = file[idx+1:]
		}
	}
	return file, line
}
