package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pwnctrl/codectrl-go/internal/diag"
)

func TestResultOk(t *testing.T) {
	r := Ok(7)
	assert.True(t, r.IsOk())
	assert.False(t, r.IsErr())
	assert.Zero(t, r.Kind())
	assert.Empty(t, r.Message())

	v, ok := r.Unwrap()
	assert.True(t, ok)
	assert.Equal(t, 7, v)
}

func TestResultErrUnwrap(t *testing.T) {
	var buf bytes.Buffer
	r := Err[*int](RequestError, "token expired").withDiag(diag.New(&buf, slog.LevelDebug))

	assert.True(t, r.IsErr())
	assert.Equal(t, RequestError, r.Kind())
	assert.Equal(t, "token expired", r.Message())

	assert.NotPanics(t, func() {
		v, ok := r.Unwrap()
		assert.False(t, ok)
		assert.Nil(t, v)
	})
	assert.Contains(t, buf.String(), "log request failed")
	assert.Contains(t, buf.String(), "REQUEST_ERROR")
	assert.Contains(t, buf.String(), "token expired")
}

func TestResultErrWithoutDiagnostics(t *testing.T) {
	r := Err[string](BatchEmpty, "")
	assert.NotPanics(t, func() {
		v, ok := r.Unwrap()
		assert.False(t, ok)
		assert.Empty(t, v)
	})

	var zero Result[int]
	assert.True(t, zero.IsErr())
	_, ok := zero.Unwrap()
	assert.False(t, ok)
}

func TestLoggerErrorString(t *testing.T) {
	assert.Equal(t, "BATCH_EMPTY", BatchEmpty.String())
	assert.Equal(t, "REQUEST_ERROR", RequestError.String())
	assert.Equal(t, "UNKNOWN", LoggerError(0).String())
}
