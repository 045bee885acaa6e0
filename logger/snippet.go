package logger

import (
	"fmt"
	"os"
	"strings"
)

// SourceReader returns the lines of a source file, without line endings.
type SourceReader interface {
	ReadLines(path string) ([]string, error)
}

type osSourceReader struct{}

func (osSourceReader) ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return splitLines(string(data)), nil
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// CaptureError reports a source file that could not be read while a log
// record was being built.
type CaptureError struct {
	Path string
	Err  error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("codectrl: read source %s: %v", e.Path, e.Err)
}

func (e *CaptureError) Unwrap() error {
	return e.Err
}

// extractSnippet returns the lines [center-surround, center+surround] of
// file keyed by line number, clamped to the lines the file has.
func extractSnippet(src SourceReader, file string, center, surround uint32) (map[uint32]string, error) {
	lines, err := src.ReadLines(file)
	if err != nil {
		return nil, &CaptureError{Path: file, Err: err}
	}

	first := uint64(1)
	if center > surround {
		first = uint64(center - surround)
	}
	last := uint64(center) + uint64(surround)
	if n := uint64(len(lines)); last > n {
		last = n
	}

	snippet := make(map[uint32]string)
	for n := first; n <= last; n++ {
		snippet[uint32(n)] = lines[n-1]
	}
	return snippet, nil
}

// readLine returns the trimmed text of a single line, or "" when the line
// is outside the file.
func readLine(src SourceReader, file string, line uint32) (string, error) {
	lines, err := src.ReadLines(file)
	if err != nil {
		return "", &CaptureError{Path: file, Err: err}
	}
	if line == 0 || int(line) > len(lines) {
		return "", nil
	}
	return strings.TrimSpace(lines[line-1]), nil
}
