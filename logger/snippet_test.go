package logger

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLines(t *testing.T, n int) string {
	t.Helper()
	var sb strings.Builder
	for i := 1; i <= n; i++ {
		sb.WriteString("line " + strconv.Itoa(i) + "\n")
	}
	path := filepath.Join(t.TempDir(), "source.go")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o600))
	return path
}

func TestExtractSnippet(t *testing.T) {
	path := writeLines(t, 10)

	for _, tc := range []struct {
		name             string
		center, surround uint32
		first, last      uint32
	}{
		{name: "middle", center: 5, surround: 3, first: 2, last: 8},
		{name: "clamped at start", center: 2, surround: 3, first: 1, last: 5},
		{name: "center equals surround", center: 3, surround: 3, first: 1, last: 6},
		{name: "clamped at end", center: 9, surround: 3, first: 6, last: 10},
		{name: "clamped both ends", center: 5, surround: 20, first: 1, last: 10},
		{name: "no surround", center: 7, surround: 0, first: 7, last: 7},
		{name: "first line", center: 1, surround: 2, first: 1, last: 3},
		{name: "last line", center: 10, surround: 2, first: 8, last: 10},
	} {
		t.Run(tc.name, func(t *testing.T) {
			snippet, err := extractSnippet(osSourceReader{}, path, tc.center, tc.surround)
			require.NoError(t, err)

			assert.Len(t, snippet, int(tc.last-tc.first+1))
			for n := tc.first; n <= tc.last; n++ {
				assert.Equal(t, "line "+strconv.Itoa(int(n)), snippet[n])
			}
			assert.NotContains(t, snippet, uint32(0))
			assert.NotContains(t, snippet, tc.first-1)
			assert.NotContains(t, snippet, tc.last+1)
		})
	}
}

func TestExtractSnippetCenterPastEnd(t *testing.T) {
	snippet, err := extractSnippet(mapReader{"f": {"a", "b"}}, "f", 10, 3)
	require.NoError(t, err)
	assert.Empty(t, snippet)
}

func TestExtractSnippetUnreadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.go")

	_, err := extractSnippet(osSourceReader{}, path, 1, 3)
	var captureErr *CaptureError
	require.ErrorAs(t, err, &captureErr)
	assert.Equal(t, path, captureErr.Path)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestReadLine(t *testing.T) {
	src := mapReader{"f": {"package main", "\tfmt.Println(1)  ", ""}}

	for line, want := range map[uint32]string{
		0: "",
		1: "package main",
		2: "fmt.Println(1)",
		3: "",
		4: "",
	} {
		got, err := readLine(src, "f", line)
		require.NoError(t, err)
		assert.Equal(t, want, got, "line %d", line)
	}

	_, err := readLine(failingReader{}, "f", 1)
	assert.ErrorIs(t, err, errUnreadable)
}

func TestSplitLines(t *testing.T) {
	for in, want := range map[string][]string{
		"":           nil,
		"a":          {"a"},
		"a\n":        {"a"},
		"a\r\nb\r\n": {"a", "b"},
		"a\n\nb":     {"a", "", "b"},
		"a\n\n":      {"a", ""},
	} {
		assert.Equal(t, want, splitLines(in), "%q", in)
	}
}
