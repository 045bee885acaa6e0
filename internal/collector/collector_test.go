package collector

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/pwnctrl/codectrl-go/internal/schema"
)

func dialBufconn(t *testing.T, c *Collector) schema.LogClientClient {
	t.Helper()

	dial, stop := c.ServeBufconn()
	t.Cleanup(stop)

	conn, err := grpc.DialContext(context.Background(), "bufnet",
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithContextDialer(dial))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return schema.NewLogClientClient(conn)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestCollectorSendLog(t *testing.T) {
	var out bytes.Buffer
	c := New(WithLogger(quietLogger()), WithOutput(&out))
	client := dialBufconn(t, c)

	res, err := client.SendLog(context.Background(), &schema.Log{
		Message:     "hello",
		CodeSnippet: map[uint32]string{2: "x := 1"},
	})
	require.NoError(t, err)
	assert.Equal(t, schema.RequestStatusConfirmed, res.Status)
	assert.Equal(t, "OK", res.Message)

	logs := c.Logs()
	require.Len(t, logs, 1)
	assert.Len(t, logs[0].UUID, 36)

	var printed schema.Log
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out.String())), &printed))
	assert.Equal(t, logs[0].UUID, printed.UUID)
	assert.Equal(t, "x := 1", printed.CodeSnippet[2])

	unary, sessions := c.Calls()
	assert.Equal(t, 1, unary)
	assert.Zero(t, sessions)
}

func TestCollectorSendLogs(t *testing.T) {
	c := New(WithLogger(quietLogger()))
	c.SetResponse(schema.RequestStatusError, "denied")
	client := dialBufconn(t, c)

	stream, err := client.SendLogs(context.Background())
	require.NoError(t, err)
	require.NoError(t, stream.Send(&schema.Log{Message: "one"}))
	require.NoError(t, stream.Send(&schema.Log{Message: "two"}))

	res, err := stream.CloseAndRecv()
	require.NoError(t, err)
	assert.Equal(t, schema.RequestStatusError, res.Status)
	assert.Equal(t, "denied", res.Message)

	logs := c.Logs()
	require.Len(t, logs, 2)
	assert.Equal(t, "one", logs[0].Message)
	assert.Equal(t, "two", logs[1].Message)
	assert.NotEqual(t, logs[0].UUID, logs[1].UUID)
}

func TestCollectorServerDetails(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	c := New(WithLogger(quietLogger()))
	stop := c.Serve(lis)
	t.Cleanup(stop)

	conn, err := grpc.DialContext(context.Background(), lis.Addr().String(),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	details, err := schema.NewLogClientClient(conn).GetServerDetails(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", details.Host)
	assert.Equal(t, uint32(lis.Addr().(*net.TCPAddr).Port), details.Port)
	assert.False(t, details.RequiresAuthentication)
}
