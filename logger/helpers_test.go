package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"google.golang.org/grpc"

	"github.com/pwnctrl/codectrl-go/configs"
	"github.com/pwnctrl/codectrl-go/internal/collector"
	"github.com/pwnctrl/codectrl-go/internal/diag"
	"github.com/pwnctrl/codectrl-go/writers"
)

type testEnv struct {
	logger    *Logger
	collector *collector.Collector
	diag      *bytes.Buffer

	mu    sync.Mutex
	dials []string
}

func (e *testEnv) dialed() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.dials...)
}

// newTestEnv returns a logger wired to an in-memory collector. Every
// connection the logger opens is recorded.
func newTestEnv(t *testing.T, opts ...LoggerOption) *testEnv {
	t.Helper()

	c := collector.New(collector.WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	dial, stop := c.ServeBufconn()
	t.Cleanup(stop)

	cfg := configs.Default()
	cfg.AddDialOptions(grpc.WithContextDialer(dial))

	env := &testEnv{collector: c, diag: &bytes.Buffer{}}
	opts = append([]LoggerOption{WithDiagnostics(diag.New(env.diag, slog.LevelDebug))}, opts...)
	env.logger = New(cfg, opts...)

	connect := env.logger.connect
	env.logger.connect = func(ctx context.Context, addr string) (*writers.CollectorWriter, error) {
		env.mu.Lock()
		env.dials = append(env.dials, addr)
		env.mu.Unlock()
		return connect(ctx, addr)
	}
	return env
}

type failingReader struct{}

var errUnreadable = errors.New("unreadable")

func (failingReader) ReadLines(string) ([]string, error) {
	return nil, errUnreadable
}

// mapReader serves files from memory.
type mapReader map[string][]string

func (m mapReader) ReadLines(path string) ([]string, error) {
	lines, ok := m[path]
	if !ok {
		return nil, errors.New("no such file: " + path)
	}
	return lines, nil
}
