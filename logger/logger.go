package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/pwnctrl/codectrl-go/configs"
	"github.com/pwnctrl/codectrl-go/internal/diag"
	"github.com/pwnctrl/codectrl-go/internal/schema"
	"github.com/pwnctrl/codectrl-go/writers"
)

// A Logger captures the call site of every Log call and sends it to a
// CodeCTRL collector. It holds no connection between calls and can be used
// from multiple goroutines; concurrent calls are independent.
type Logger struct {
	cfg     *configs.CodeCTRL
	src     SourceReader
	symbols SymbolMaps
	diag    *slog.Logger
	connect func(ctx context.Context, addr string) (*writers.CollectorWriter, error)
}

// New creates a logger. A nil cfg means configs.Default().
func New(cfg *configs.CodeCTRL, opts ...LoggerOption) *Logger {
	if cfg == nil {
		cfg = configs.Default()
	}
	l := &Logger{
		cfg:     cfg,
		src:     osSourceReader{},
		symbols: NewFileSymbolMaps(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.diag == nil {
		l.diag = diag.Console(slog.LevelWarn)
	}
	l.connect = func(ctx context.Context, addr string) (*writers.CollectorWriter, error) {
		return writers.NewCollectorWriter(ctx, addr, l.cfg)
	}
	return l
}

// Config returns the logger's config.
func (l *Logger) Config() *configs.CodeCTRL {
	return l.cfg
}

func (l *Logger) callOptions(opts []Option) callOptions {
	o := callOptions{
		surround: l.cfg.Surround(),
		host:     l.cfg.Host(),
		port:     l.cfg.Port(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (l *Logger) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if t := l.cfg.Timeout(); t > 0 {
		return context.WithTimeout(ctx, t)
	}
	return context.WithCancel(ctx)
}

// Log captures the caller and sends message to the collector.
//
// A source file that cannot be read and a failed transport are returned as
// errors. A collector that answers with an error status yields an Err
// Result of kind RequestError.
func (l *Logger) Log(ctx context.Context, message any, opts ...Option) (Result[*schema.RequestResult], error) {
	o := l.callOptions(opts)
	record, err := l.createLog(message, o.surround)
	if err != nil {
		return Result[*schema.RequestResult]{}, err
	}
	return l.send(ctx, o.address(), record)
}

// LogIf calls predicate once and logs only when it returns true. A skipped
// log is Ok with a nil value.
func (l *Logger) LogIf(ctx context.Context, predicate func() bool, message any, opts ...Option) (Result[*schema.RequestResult], error) {
	if !predicate() {
		return Ok[*schema.RequestResult](nil), nil
	}
	o := l.callOptions(opts)
	record, err := l.createLog(message, o.surround)
	if err != nil {
		return Result[*schema.RequestResult]{}, err
	}
	return l.send(ctx, o.address(), record)
}

// LogWhenEnv logs only when the configured environment toggle
// (CODECTRL_DEBUG by default) is set at call time. A skipped log is Ok with
// a nil value.
func (l *Logger) LogWhenEnv(ctx context.Context, message any, opts ...Option) (Result[*schema.RequestResult], error) {
	if _, ok := os.LookupEnv(l.cfg.EnvToggle()); !ok {
		return Ok[*schema.RequestResult](nil), nil
	}
	o := l.callOptions(opts)
	record, err := l.createLog(message, o.surround)
	if err != nil {
		return Result[*schema.RequestResult]{}, err
	}
	return l.send(ctx, o.address(), record)
}

func (l *Logger) send(ctx context.Context, addr string, record *LogRecord) (Result[*schema.RequestResult], error) {
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	w, err := l.connect(ctx, addr)
	if err != nil {
		return Result[*schema.RequestResult]{}, err
	}
	defer w.Close()

	res, err := w.SendLog(ctx, record.proto())
	if err != nil {
		l.diag.Warn("could not reach collector", slog.String("addr", addr), slog.String("error", err.Error()))
		return Result[*schema.RequestResult]{}, err
	}
	if res.Status == schema.RequestStatusError {
		return Err[*schema.RequestResult](RequestError, res.Message).withDiag(l.diag), nil
	}
	return Ok(res), nil
}

// ServerDetails asks the configured collector to describe itself.
func (l *Logger) ServerDetails(ctx context.Context, opts ...Option) (*schema.ServerDetails, error) {
	o := l.callOptions(opts)

	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	w, err := l.connect(ctx, o.address())
	if err != nil {
		return nil, err
	}
	defer w.Close()

	return w.ServerDetails(ctx)
}
