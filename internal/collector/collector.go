// Package collector is a small in-process CodeCTRL collector. It accepts
// logs over the LogClient service, stamps them with an ID and keeps them in
// memory. It backs the development collector command and the tests.
package collector

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"

	"github.com/pwnctrl/codectrl-go/internal/schema"
)

const bufSize = 1 << 20

// Collector implements schema.LogClientServer.
type Collector struct {
	schema.UnimplementedLogClientServer

	logger  *slog.Logger
	out     io.Writer
	started time.Time

	mu       sync.Mutex
	host     string
	port     uint32
	status   schema.RequestStatus
	message  string
	logs     []*schema.Log
	unary    int
	sessions int
}

// Option configures a Collector.
type Option func(*Collector)

// WithLogger sets the logger used for connection level events.
func WithLogger(l *slog.Logger) Option {
	return func(c *Collector) { c.logger = l }
}

// WithOutput makes the collector print every received log as a JSON line.
func WithOutput(w io.Writer) Option {
	return func(c *Collector) { c.out = w }
}

// New returns a collector that confirms every request.
func New(opts ...Option) *Collector {
	c := &Collector{
		logger:  slog.Default(),
		started: time.Now(),
		message: "OK",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetResponse changes the status and message returned for later requests.
func (c *Collector) SetResponse(status schema.RequestStatus, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = status
	c.message = message
}

// Logs returns the received logs in arrival order.
func (c *Collector) Logs() []*schema.Log {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*schema.Log, len(c.logs))
	copy(out, c.logs)
	return out
}

// Calls returns how many SendLog calls and SendLogs sessions were served.
func (c *Collector) Calls() (unary, sessions int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unary, c.sessions
}

// NewServer returns a gRPC server with the collector registered on it.
func (c *Collector) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{grpc.ForceServerCodec(schema.Codec{})}, opts...)
	server := grpc.NewServer(opts...)
	schema.RegisterLogClientServer(server, c)
	return server
}

// Serve serves on lis until the returned stop function is called.
func (c *Collector) Serve(lis net.Listener) (stop func()) {
	if addr, ok := lis.Addr().(*net.TCPAddr); ok {
		c.mu.Lock()
		c.host, c.port = addr.IP.String(), uint32(addr.Port)
		c.mu.Unlock()
	}

	server := c.NewServer()
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := server.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			c.logger.Error("collector stopped", slog.String("error", err.Error()))
		}
	}()

	return func() {
		server.Stop()
		<-done
	}
}

// ServeBufconn serves on an in-memory listener and returns a dialer for
// grpc.WithContextDialer.
func (c *Collector) ServeBufconn() (dial func(context.Context, string) (net.Conn, error), stop func()) {
	lis := bufconn.Listen(bufSize)
	stop = c.Serve(lis)
	dial = func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}
	return dial, stop
}

// GetServerDetails implements schema.LogClientServer.
func (c *Collector) GetServerDetails(context.Context) (*schema.ServerDetails, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return &schema.ServerDetails{
		Host:   c.host,
		Port:   c.port,
		Uptime: uint64(time.Since(c.started).Seconds()),
	}, nil
}

// SendLog implements schema.LogClientServer.
func (c *Collector) SendLog(_ context.Context, log *schema.Log) (*schema.RequestResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unary++
	c.record(log)
	return c.result(), nil
}

// SendLogs implements schema.LogClientServer. The response is sent once the
// client closes its side of the stream.
func (c *Collector) SendLogs(stream schema.LogClient_SendLogsServer) error {
	received := 0
	for {
		log, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			c.logger.Warn("log stream broken", slog.Int("received", received), slog.String("error", err.Error()))
			return err
		}
		c.mu.Lock()
		c.record(log)
		c.mu.Unlock()
		received++
	}

	c.mu.Lock()
	c.sessions++
	res := c.result()
	c.mu.Unlock()

	c.logger.Debug("log stream closed", slog.Int("received", received))
	return stream.SendAndClose(res)
}

// record must be called with mu held.
func (c *Collector) record(log *schema.Log) {
	log.UUID = uuid.NewString()
	c.logs = append(c.logs, log)

	if c.out == nil {
		return
	}
	b, err := json.Marshal(log)
	if err != nil {
		c.logger.Warn("failed to encode log", slog.String("error", err.Error()))
		return
	}
	b = append(b, '\n')
	if _, err := c.out.Write(b); err != nil {
		c.logger.Warn("failed to write log", slog.String("error", err.Error()))
	}
}

// result must be called with mu held.
func (c *Collector) result() *schema.RequestResult {
	return &schema.RequestResult{Status: c.status, Message: c.message}
}
