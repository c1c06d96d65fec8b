//go:build unix

package term

import (
	"os"

	"golang.org/x/sys/unix"
)

// winsize returns the terminal's column count via TIOCGWINSZ. ok is false
// if the ioctl fails or reports a zero width, in which case the caller
// falls back to a default.
func winsize(f *os.File) (cols int, ok bool) {
	ws, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 {
		return 0, false
	}
	return int(ws.Col), true
}
