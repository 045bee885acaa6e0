package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/pwnctrl/codectrl-go/internal/schema"
)

// Batch accumulates records for a single SendLogs session. It is meant to
// be filled by one goroutine and is not safe for concurrent use.
//
// The first capture error stops the batch: later Add calls do nothing and
// SendBatch returns the error.
type Batch struct {
	logger  *Logger
	opts    callOptions
	pending []*LogRecord
	err     error
}

// StartBatch begins a batch bound to the collector and surround resolved
// from opts.
func (l *Logger) StartBatch(opts ...Option) *Batch {
	return &Batch{logger: l, opts: l.callOptions(opts)}
}

func (b *Batch) surround(opts []Option) uint32 {
	o := b.opts
	for _, opt := range opts {
		opt(&o)
	}
	return o.surround
}

// AddLog captures the caller and appends a record. Only WithSurround is
// honoured in opts; the collector is fixed by StartBatch.
func (b *Batch) AddLog(message any, opts ...Option) *Batch {
	if b.err != nil {
		return b
	}
	record, err := b.logger.createLog(message, b.surround(opts))
	if err != nil {
		b.err = err
		return b
	}
	b.pending = append(b.pending, record)
	return b
}

// AddLogIf calls predicate once, before any capture, and appends a record
// only when it returns true.
func (b *Batch) AddLogIf(predicate func() bool, message any, opts ...Option) *Batch {
	if b.err != nil || !predicate() {
		return b
	}
	record, err := b.logger.createLog(message, b.surround(opts))
	if err != nil {
		b.err = err
		return b
	}
	b.pending = append(b.pending, record)
	return b
}

// AddLogWhenEnv appends a record only when the environment toggle is set.
func (b *Batch) AddLogWhenEnv(message any, opts ...Option) *Batch {
	if b.err != nil {
		return b
	}
	if _, ok := os.LookupEnv(b.logger.cfg.EnvToggle()); !ok {
		return b
	}
	record, err := b.logger.createLog(message, b.surround(opts))
	if err != nil {
		b.err = err
		return b
	}
	b.pending = append(b.pending, record)
	return b
}

// Len returns the number of records appended so far.
func (b *Batch) Len() int {
	return len(b.pending)
}

// Build hands the accumulated records to a sender. The batch gives up its
// records and should not be used afterwards.
func (b *Batch) Build() *BatchSender {
	s := &BatchSender{
		logger:  b.logger,
		addr:    b.opts.address(),
		records: b.pending,
		err:     b.err,
	}
	b.pending = nil
	b.err = nil
	return s
}

// BatchSender sends a frozen set of records to a fixed collector.
type BatchSender struct {
	logger  *Logger
	addr    string
	records []*LogRecord
	err     error
}

// Records returns a copy of the records that SendBatch will send, in order.
func (s *BatchSender) Records() []*LogRecord {
	out := make([]*LogRecord, len(s.records))
	copy(out, s.records)
	return out
}

// SendBatch streams every record in append order over one SendLogs session
// and waits for the collector's single response.
//
// An empty batch yields Err(BatchEmpty) without connecting. A collector
// error status yields Err(RequestError). Capture and transport failures are
// returned as errors; records already streamed before a transport failure
// are not reported separately.
func (s *BatchSender) SendBatch(ctx context.Context) (Result[struct{}], error) {
	l := s.logger
	if s.err != nil {
		return Result[struct{}]{}, s.err
	}
	if len(s.records) == 0 {
		return Err[struct{}](BatchEmpty, "").withDiag(l.diag), nil
	}

	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	w, err := l.connect(ctx, s.addr)
	if err != nil {
		return Result[struct{}]{}, err
	}
	defer w.Close()

	stream, err := w.SendLogs(ctx)
	if err != nil {
		l.diag.Warn("could not reach collector", slog.String("addr", s.addr), slog.String("error", err.Error()))
		return Result[struct{}]{}, err
	}

	for _, record := range s.records {
		if err := stream.Send(record.proto()); err != nil {
			if errors.Is(err, io.EOF) {
				// the server ended the stream; its status carries the cause
				if _, recvErr := stream.CloseAndRecv(); recvErr != nil {
					err = recvErr
				}
			}
			l.diag.Warn("log stream failed",
				slog.String("addr", s.addr),
				slog.Int("sent", stream.Sent()),
				slog.Int("total", len(s.records)),
				slog.String("error", err.Error()))
			return Result[struct{}]{}, err
		}
	}

	res, err := stream.CloseAndRecv()
	if err != nil {
		l.diag.Warn("log stream failed", slog.String("addr", s.addr), slog.String("error", err.Error()))
		return Result[struct{}]{}, err
	}
	if res.Status == schema.RequestStatusError {
		return Err[struct{}](RequestError, res.Message).withDiag(l.diag), nil
	}
	return Ok(struct{}{}), nil
}
