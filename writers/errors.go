package writers

import "errors"

var (
	ErrWriterIsClosed = errors.New("codectrl writer is closed")
	ErrStreamIsClosed = errors.New("codectrl log stream is closed")
)
