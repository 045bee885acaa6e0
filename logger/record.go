package logger

import (
	"fmt"
	"log/slog"

	"github.com/goccy/go-json"
)

const (
	language = "Go"
	// collectors use the peer address; this is only a placeholder
	placeholderAddress = "127.0.0.1"
)

// createLog captures the current call chain and builds a record for message.
// The snippet covers surround lines on each side of the innermost frame.
func (l *Logger) createLog(message any, surround uint32) (*LogRecord, error) {
	return l.buildRecord(message, captureFrames(), surround)
}

// buildRecord turns captured frames into a record. With no frames the
// record still carries the message but no location.
func (l *Logger) buildRecord(message any, frames []stackFrame, surround uint32) (*LogRecord, error) {
	record := &LogRecord{
		Message:     formatMessage(message),
		MessageType: fmt.Sprintf("%T", message),
		Language:    language,
		Address:     placeholderAddress,
	}

	for _, f := range frames {
		loc := location{file: f.file, line: f.line, column: f.column}
		m, err := l.symbols.Lookup(f.file)
		if err != nil {
			record.Warnings = append(record.Warnings, err.Error())
			l.diag.Debug("symbol map ignored", slog.String("file", f.file), slog.String("error", err.Error()))
		}
		loc = translate(loc, m)

		code, err := readLine(l.src, loc.file, loc.line)
		if err != nil {
			return nil, err
		}

		record.Stack = append(record.Stack, BacktraceEntry{
			Name:         f.function,
			FilePath:     loc.file,
			LineNumber:   loc.line,
			ColumnNumber: loc.column,
			Code:         code,
		})
	}

	if len(record.Stack) == 0 {
		return record, nil
	}

	primary := record.Stack[len(record.Stack)-1]
	record.FileName = primary.FilePath
	record.LineNumber = primary.LineNumber

	snippet, err := extractSnippet(l.src, primary.FilePath, primary.LineNumber, surround)
	if err != nil {
		return nil, err
	}
	record.CodeSnippet = snippet

	return record, nil
}

func formatMessage(message any) string {
	switch v := message.(type) {
	case string:
		return v
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	}

	b, err := json.Marshal(message)
	if err != nil {
		return fmt.Sprint(message)
	}
	return string(b)
}
