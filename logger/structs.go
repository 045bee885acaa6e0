package logger

import "github.com/pwnctrl/codectrl-go/internal/schema"

// BacktraceEntry is one retained frame of the call chain that reached the
// logger. Code holds the trimmed source line at LineNumber.
type BacktraceEntry struct {
	Name         string `json:"name"`
	FilePath     string `json:"file_path"`
	LineNumber   uint32 `json:"line_number"`
	ColumnNumber uint32 `json:"column_number"`
	Code         string `json:"code"`
}

// LogRecord is what a single Log call captures. Stack is ordered from the
// outermost frame to the direct caller of the logger; LineNumber and
// FileName mirror the last entry. ID is assigned by the collector.
type LogRecord struct {
	ID          string            `json:"id"`
	Stack       []BacktraceEntry  `json:"stack"`
	LineNumber  uint32            `json:"line_number"`
	FileName    string            `json:"file_name"`
	CodeSnippet map[uint32]string `json:"code_snippet"`
	Message     string            `json:"message"`
	MessageType string            `json:"message_type"`
	Language    string            `json:"language"`
	Address     string            `json:"address"`
	Warnings    []string          `json:"warnings"`
}

func (r *LogRecord) proto() *schema.Log {
	stack := make([]*schema.BacktraceData, 0, len(r.Stack))
	for _, e := range r.Stack {
		stack = append(stack, &schema.BacktraceData{
			Name:         e.Name,
			FilePath:     e.FilePath,
			LineNumber:   e.LineNumber,
			ColumnNumber: e.ColumnNumber,
			Code:         e.Code,
		})
	}

	return &schema.Log{
		UUID:        r.ID,
		Stack:       stack,
		LineNumber:  r.LineNumber,
		CodeSnippet: r.CodeSnippet,
		Message:     r.Message,
		MessageType: r.MessageType,
		FileName:    r.FileName,
		Address:     r.Address,
		Language:    r.Language,
		Warnings:    r.Warnings,
	}
}
