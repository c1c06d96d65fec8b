//go:build unix

package term

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// state holds a saved termios so it can be restored later.
type state struct {
	termios unix.Termios
}

func getTermios(fd int) (unix.Termios, error) {
	t, err := unix.IoctlGetTermios(fd, ioctlGetAttr)
	if err != nil {
		return unix.Termios{}, err
	}
	return *t, nil
}

// enableRawMode captures the current termios, disables canonical input,
// echo, signal generation, extended processing, software flow control,
// CR-to-LF translation, parity checking and output post-processing, sets
// 8-bit characters, and configures a minimum read of 1 byte with no
// timer. It returns the saved state for later restoration.
func enableRawMode(f *os.File) (*state, error) {
	fd := int(f.Fd())
	orig, err := getTermios(fd)
	if err != nil {
		return nil, fmt.Errorf("can't get terminal attributes: %w", err)
	}

	raw := orig
	raw.Iflag &^= unix.IXON | unix.ICRNL | unix.BRKINT | unix.INPCK | unix.ISTRIP
	raw.Oflag &^= unix.OPOST
	raw.Cflag |= unix.CS8
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN | unix.ISIG
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, ioctlSetAttr, &raw); err != nil {
		return nil, fmt.Errorf("can't set terminal attributes: %w", err)
	}
	return &state{termios: orig}, nil
}

// restoreMode restores a termios captured by enableRawMode.
func restoreMode(f *os.File, s *state) error {
	fd := int(f.Fd())
	t := s.termios
	if err := unix.IoctlSetTermios(fd, ioctlSetAttr, &t); err != nil {
		return fmt.Errorf("can't restore terminal attributes: %w", err)
	}
	return nil
}
