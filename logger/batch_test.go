package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwnctrl/codectrl-go/internal/schema"
)

func TestSendBatchEmpty(t *testing.T) {
	env := newTestEnv(t)

	res, err := env.logger.StartBatch().Build().SendBatch(context.Background())
	require.NoError(t, err)
	assert.True(t, res.IsErr())
	assert.Equal(t, BatchEmpty, res.Kind())
	assert.Empty(t, env.dialed())

	_, ok := res.Unwrap()
	assert.False(t, ok)
	assert.Contains(t, env.diag.String(), "BATCH_EMPTY")
}

func TestSendBatchSkippedByPredicate(t *testing.T) {
	env := newTestEnv(t)

	calls := 0
	b := env.logger.StartBatch().AddLogIf(func() bool { calls++; return false }, "skipped")
	assert.Equal(t, 1, calls)
	assert.Zero(t, b.Len())

	res, err := b.Build().SendBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, BatchEmpty, res.Kind())
	assert.Empty(t, env.dialed())
}

func TestSendBatch(t *testing.T) {
	env := newTestEnv(t)

	res, err := env.logger.StartBatch().
		AddLog("one").
		AddLogIf(func() bool { return true }, "two").
		AddLog(3, WithSurround(0)).
		Build().
		SendBatch(context.Background())
	require.NoError(t, err)
	assert.True(t, res.IsOk())

	logs := env.collector.Logs()
	require.Len(t, logs, 3)
	assert.Equal(t, "one", logs[0].Message)
	assert.Equal(t, "two", logs[1].Message)
	assert.Equal(t, "3", logs[2].Message)
	assert.Equal(t, "int", logs[2].MessageType)

	assert.Len(t, logs[0].CodeSnippet, 7)
	assert.Len(t, logs[2].CodeSnippet, 1)
	for _, log := range logs {
		assert.Equal(t, packagePath+".TestSendBatch", log.Stack[len(log.Stack)-1].Name)
	}

	unary, sessions := env.collector.Calls()
	assert.Zero(t, unary)
	assert.Equal(t, 1, sessions)
	assert.Len(t, env.dialed(), 1)
}

func TestSendBatchRequestError(t *testing.T) {
	env := newTestEnv(t)
	env.collector.SetResponse(schema.RequestStatusError, "quota exceeded")

	res, err := env.logger.StartBatch().AddLog("one").Build().SendBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RequestError, res.Kind())
	assert.Equal(t, "quota exceeded", res.Message())
}

func TestSendBatchWhenEnv(t *testing.T) {
	env := newTestEnv(t)
	env.logger.Config().SetEnvToggle("CODECTRL_TEST_BATCH_WHEN_ENV")

	b := env.logger.StartBatch().AddLogWhenEnv("hidden")
	assert.Zero(t, b.Len())

	t.Setenv("CODECTRL_TEST_BATCH_WHEN_ENV", "1")
	b.AddLogWhenEnv("shown")
	require.Equal(t, 1, b.Len())

	res, err := b.Build().SendBatch(context.Background())
	require.NoError(t, err)
	assert.True(t, res.IsOk())

	logs := env.collector.Logs()
	require.Len(t, logs, 1)
	assert.Equal(t, "shown", logs[0].Message)
}

func TestSendBatchCaptureError(t *testing.T) {
	env := newTestEnv(t, WithSourceReader(failingReader{}))

	calls := 0
	b := env.logger.StartBatch().
		AddLog("fails").
		AddLogIf(func() bool { calls++; return true }, "never evaluated")
	assert.Zero(t, calls)
	assert.Zero(t, b.Len())

	_, err := b.Build().SendBatch(context.Background())
	var captureErr *CaptureError
	require.ErrorAs(t, err, &captureErr)
	assert.ErrorIs(t, err, errUnreadable)
	assert.Empty(t, env.dialed())
}

func TestBatchHostOverride(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.logger.StartBatch(WithHost("10.0.0.9"), WithPort(4000)).
		AddLog("routed", WithHost("ignored")).
		Build().
		SendBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.9:4000"}, env.dialed())
}

func TestBuildTakesRecords(t *testing.T) {
	env := newTestEnv(t)

	b := env.logger.StartBatch().AddLog("one").AddLog("two")
	require.Equal(t, 2, b.Len())

	sender := b.Build()
	assert.Zero(t, b.Len())
	require.Len(t, sender.Records(), 2)

	b.AddLog("three")
	assert.Len(t, sender.Records(), 2)

	records := sender.Records()
	records[0] = &LogRecord{Message: "injected"}
	records[1] = nil
	assert.Equal(t, "one", sender.Records()[0].Message)
	assert.Equal(t, "two", sender.Records()[1].Message)
	assert.Equal(t, "one", sender.Records()[0].Message)
	assert.Equal(t, "two", sender.Records()[1].Message)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		res, err := sender.SendBatch(ctx)
		require.NoError(t, err)
		assert.True(t, res.IsOk())
	}
	assert.Len(t, env.collector.Logs(), 4)
}
