//go:build unix

package term

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// pollReadable performs a zero-timeout readiness check on f, used by
// KeyAvailable to drain already-buffered bytes in one pass.
func pollReadable(f *os.File) bool {
	ready, _ := waitReadable(f, 0)
	return ready
}

// waitReadable blocks until f is readable or timeout elapses. A negative
// timeout blocks indefinitely.
func waitReadable(f *os.File, timeout time.Duration) (ready bool, err error) {
	ms := -1
	if timeout >= 0 {
		ms = int(timeout / time.Millisecond)
	}
	fds := []unix.PollFd{{Fd: int32(f.Fd()), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, ms)
	if err != nil {
		return false, err
	}
	return n > 0 && fds[0].Revents&unix.POLLIN != 0, nil
}

// cprTimeout bounds how long readCPR waits for a terminal that never
// answers ESC[6n, so a stalled query degrades gracefully rather than
// hanging the editor.
const cprTimeout = 200 * time.Millisecond

// readCPR reads a cursor-position report (ESC[<row>;<col>R) from f.
func readCPR(f *os.File) (row, col int, ok bool) {
	deadline := time.Now().Add(cprTimeout)
	buf := make([]byte, 0, 32)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return 0, 0, false
		}
		ready, err := waitReadable(f, remaining)
		if err != nil || !ready {
			return 0, 0, false
		}
		var b [1]byte
		if _, err := f.Read(b[:]); err != nil {
			return 0, 0, false
		}
		buf = append(buf, b[0])
		if b[0] == 'R' {
			break
		}
		if len(buf) >= 32 {
			return 0, 0, false
		}
	}
	return parseCPR(buf)
}

// parseCPR parses "\x1b[<row>;<col>R".
func parseCPR(buf []byte) (row, col int, ok bool) {
	if len(buf) < 6 || buf[0] != 0x1b || buf[1] != '[' {
		return 0, 0, false
	}
	body := buf[2 : len(buf)-1] // strip ESC [ and trailing R
	semi := -1
	for i, b := range body {
		if b == ';' {
			semi = i
			break
		}
	}
	if semi < 0 {
		return 0, 0, false
	}
	row, ok1 := atoiBytes(body[:semi])
	col, ok2 := atoiBytes(body[semi+1:])
	if !ok1 || !ok2 {
		return 0, 0, false
	}
	return row, col, true
}

func atoiBytes(b []byte) (int, bool) {
	if len(b) == 0 {
		return 0, false
	}
	n := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
