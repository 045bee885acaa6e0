package writers

import (
	"context"
	"fmt"
	"sync/atomic"

	"google.golang.org/grpc"

	"github.com/pwnctrl/codectrl-go/internal/schema"
)

// CollectorWriter sends logs to a CodeCTRL collector over gRPC.
// One writer owns one connection; streams opened with SendLogs are never
// shared between callers.
type CollectorWriter struct {
	addr   string
	conn   *grpc.ClientConn
	client schema.LogClientClient
	closed atomic.Bool
}

// NewCollectorWriter connects to addr, or to config.Address() when addr is
// empty. The connection is established lazily by the first call.
func NewCollectorWriter(ctx context.Context, addr string, config ConfigCodeCTRLInterface) (*CollectorWriter, error) {
	if addr == "" {
		addr = config.Address()
	}

	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(config.TransportCredentials()),
	}, config.DialOptions()...)

	conn, err := grpc.DialContext(ctx, addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect GRPC: %w", err)
	}

	return &CollectorWriter{
		addr:   addr,
		conn:   conn,
		client: schema.NewLogClientClient(conn),
	}, nil
}

// Addr returns the collector address
func (w *CollectorWriter) Addr() string {
	return w.addr
}

// SendLog sends a single log with a unary call
func (w *CollectorWriter) SendLog(ctx context.Context, log *schema.Log) (*schema.RequestResult, error) {
	if w.closed.Load() {
		return nil, ErrWriterIsClosed
	}
	res, err := w.client.SendLog(ctx, log)
	if err != nil {
		return nil, fmt.Errorf("send log to %s: %w", w.addr, err)
	}
	return res, nil
}

// SendLogs opens a client stream; the caller owns it until CloseAndRecv
func (w *CollectorWriter) SendLogs(ctx context.Context) (*LogStream, error) {
	if w.closed.Load() {
		return nil, ErrWriterIsClosed
	}
	stream, err := w.client.SendLogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("open log stream to %s: %w", w.addr, err)
	}
	return &LogStream{addr: w.addr, stream: stream}, nil
}

// ServerDetails asks the collector to describe itself
func (w *CollectorWriter) ServerDetails(ctx context.Context) (*schema.ServerDetails, error) {
	if w.closed.Load() {
		return nil, ErrWriterIsClosed
	}
	details, err := w.client.GetServerDetails(ctx)
	if err != nil {
		return nil, fmt.Errorf("get server details from %s: %w", w.addr, err)
	}
	return details, nil
}

// Close closes the connection
func (w *CollectorWriter) Close() error {
	if w.closed.Swap(true) {
		return nil
	}
	return w.conn.Close()
}

// LogStream is one SendLogs session.
type LogStream struct {
	addr   string
	stream schema.LogClient_SendLogsClient
	sent   int
	closed bool
}

// Send writes one log to the stream
func (s *LogStream) Send(log *schema.Log) error {
	if s.closed {
		return ErrStreamIsClosed
	}
	if err := s.stream.Send(log); err != nil {
		return fmt.Errorf("send log %d to %s: %w", s.sent+1, s.addr, err)
	}
	s.sent++
	return nil
}

// Sent returns how many logs were handed to the stream
func (s *LogStream) Sent() int {
	return s.sent
}

// CloseAndRecv signals the end of the stream and waits for the collector's
// aggregate response
func (s *LogStream) CloseAndRecv() (*schema.RequestResult, error) {
	if s.closed {
		return nil, ErrStreamIsClosed
	}
	s.closed = true
	res, err := s.stream.CloseAndRecv()
	if err != nil {
		return nil, fmt.Errorf("close log stream to %s: %w", s.addr, err)
	}
	return res, nil
}
