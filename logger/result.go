package logger

import "log/slog"

// LoggerError is the kind of a failed Result.
type LoggerError uint8

const (
	// BatchEmpty means SendBatch was called with nothing to send.
	BatchEmpty LoggerError = iota + 1
	// RequestError means the collector answered with an error status.
	RequestError
)

func (e LoggerError) String() string {
	switch e {
	case BatchEmpty:
		return "BATCH_EMPTY"
	case RequestError:
		return "REQUEST_ERROR"
	default:
		return "UNKNOWN"
	}
}

// Result is either Ok with a value or Err with a kind and an optional
// message. The zero Result is an Err of unknown kind.
type Result[T any] struct {
	ok      bool
	value   T
	kind    LoggerError
	message string
	diag    *slog.Logger
}

func Ok[T any](value T) Result[T] {
	return Result[T]{ok: true, value: value}
}

func Err[T any](kind LoggerError, message string) Result[T] {
	return Result[T]{kind: kind, message: message}
}

func (r Result[T]) IsOk() bool { return r.ok }

func (r Result[T]) IsErr() bool { return !r.ok }

// Kind returns the error kind, or 0 for Ok.
func (r Result[T]) Kind() LoggerError {
	if r.ok {
		return 0
	}
	return r.kind
}

// Message returns the collector supplied text of an Err.
func (r Result[T]) Message() string {
	if r.ok {
		return ""
	}
	return r.message
}

// Unwrap returns the value and true for Ok. For Err it reports the error on
// the diagnostic logger and returns the zero value and false.
func (r Result[T]) Unwrap() (T, bool) {
	if r.ok {
		return r.value, true
	}

	l := r.diag
	if l == nil {
		l = slog.Default()
	}
	attrs := []any{slog.String("kind", r.kind.String())}
	if r.message != "" {
		attrs = append(attrs, slog.String("message", r.message))
	}
	l.Warn("log request failed", attrs...)

	var zero T
	return zero, false
}

func (r Result[T]) withDiag(l *slog.Logger) Result[T] {
	r.diag = l
	return r
}
