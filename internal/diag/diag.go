// Package diag provides the logger's own diagnostic output: messages about
// failed requests and unusable symbol maps that have nowhere else to go.
package diag

import (
	"io"
	"log/slog"
	"strings"

	"github.com/pwnctrl/codectrl-go/writers"
)

const (
	prefix      = "[codeCTRL] "
	colorPrefix = "\x1b[35m[codeCTRL]\x1b[0m "
)

// prefixWriter tags every line. slog handlers emit one record per Write.
type prefixWriter struct {
	w      io.Writer
	prefix []byte
}

func (p *prefixWriter) Write(b []byte) (int, error) {
	line := make([]byte, 0, len(p.prefix)+len(b))
	line = append(line, p.prefix...)
	line = append(line, b...)
	if _, err := p.w.Write(line); err != nil {
		return 0, err
	}
	return len(b), nil
}

// New returns a text logger writing to w. Every record is tagged with the
// codeCTRL prefix so it stands out from application output.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return newLogger(w, level, prefix)
}

// Console returns a logger on stderr, coloured when stderr is a terminal.
func Console(level slog.Level) *slog.Logger {
	w, tty := writers.GetColorStderr()
	if tty {
		return newLogger(w, level, colorPrefix)
	}
	return newLogger(w, level, prefix)
}

func newLogger(w io.Writer, level slog.Level, tag string) *slog.Logger {
	pw := &prefixWriter{w: w, prefix: []byte(tag)}
	return slog.New(slog.NewTextHandler(pw, &slog.HandlerOptions{Level: level}))
}

// ParseLevel converts "debug", "info", "warn" or "error" to a slog.Level.
// Unknown strings map to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
