package writers

import (
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// GetColorStderr returns stderr wrapped so ANSI colours also work on Windows
// consoles, and reports whether stderr is a terminal. When it is not, colour
// escapes are stripped.
func GetColorStderr() (io.Writer, bool) {
	fd := os.Stderr.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return colorable.NewColorableStderr(), true
	}
	return colorable.NewNonColorable(os.Stderr), false
}
