package logger

import (
	"log/slog"
	"net"
	"strconv"
)

// Option overrides a default for a single Log call or a batch.
type Option func(*callOptions)

type callOptions struct {
	surround uint32
	host     string
	port     int
}

func (o callOptions) address() string {
	return net.JoinHostPort(o.host, strconv.Itoa(o.port))
}

// WithSurround sets how many source lines are captured on each side of the call site.
func WithSurround(surround uint32) Option {
	return func(o *callOptions) { o.surround = surround }
}

// WithHost sends to another collector host.
func WithHost(host string) Option {
	return func(o *callOptions) {
		if host != "" {
			o.host = host
		}
	}
}

// WithPort sends to another collector port.
func WithPort(port int) Option {
	return func(o *callOptions) {
		if port > 0 && port <= 65535 {
			o.port = port
		}
	}
}

// LoggerOption configures a Logger.
type LoggerOption func(*Logger)

// WithSourceReader replaces the reader used for code lines and snippets.
func WithSourceReader(src SourceReader) LoggerOption {
	return func(l *Logger) { l.src = src }
}

// WithSymbolMaps replaces the symbol map lookup. NoSymbolMaps disables translation.
func WithSymbolMaps(maps SymbolMaps) LoggerOption {
	return func(l *Logger) { l.symbols = maps }
}

// WithDiagnostics sets the logger that receives the library's own warnings.
func WithDiagnostics(d *slog.Logger) LoggerOption {
	return func(l *Logger) { l.diag = d }
}
