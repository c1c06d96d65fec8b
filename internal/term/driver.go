// Package term implements POSIX terminal control: TTY capability
// detection, raw mode with restore, ANSI control primitives, and
// cursor/width queries.
package term

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Capability classifies what kind of terminal, if any, is attached.
type Capability int

const (
	// NotATTY means stdin (or stdout) is not a terminal, e.g. a pipe.
	NotATTY Capability = iota
	// Unsupported means the terminal is attached but its TERM value is
	// known not to support the escape sequences this driver emits.
	Unsupported
	// Supported means full raw-mode line editing can proceed.
	Supported
)

// unsupportedTerms lists TERM values (case-insensitive) that cannot handle
// the ANSI sequences this driver relies on.
var unsupportedTerms = []string{"dumb", "cons25", "emacs"}

// Detect classifies the terminal attached to in/out.
func Detect(in, out *os.File) Capability {
	if !isatty.IsTerminal(in.Fd()) || !isatty.IsTerminal(out.Fd()) {
		return NotATTY
	}
	term, ok := os.LookupEnv("TERM")
	if !ok || term == "" {
		return Unsupported
	}
	for _, bad := range unsupportedTerms {
		if strings.EqualFold(term, bad) {
			return Unsupported
		}
	}
	return Supported
}

// Driver is the terminal I/O surface the editor uses once a session has
// been established as Supported. All methods that write to the terminal
// return an error on I/O failure; the session remains usable afterward.
type Driver struct {
	in, out *os.File

	rawEnabled bool
	savedState *state
}

// New wraps the given files. out is normally os.Stdout, in normally
// os.Stdin.
func New(in, out *os.File) *Driver {
	return &Driver{in: in, out: out}
}

// IsTTY reports whether both the driver's input and output are attached to
// a terminal.
func (d *Driver) IsTTY() bool {
	return isatty.IsTerminal(d.in.Fd()) && isatty.IsTerminal(d.out.Fd())
}

func (d *Driver) writeString(s string) error {
	_, err := d.out.WriteString(s)
	if err != nil {
		Logger.Printf("terminal write failed: %v", err)
	}
	return err
}

// WriteString writes an arbitrary (already-rendered) string verbatim.
func (d *Driver) WriteString(s string) error { return d.writeString(s) }

// WriteByte writes a single byte, e.g. a literal character.
func (d *Driver) WriteByte(b byte) error {
	_, err := d.out.Write([]byte{b})
	return err
}

// EraseLine emits ESC[2K.
func (d *Driver) EraseLine() error { return d.writeString(ansiEraseLine) }

// EraseToEOL emits ESC[0K.
func (d *Driver) EraseToEOL() error { return d.writeString(ansiEraseToEOL) }

// CR moves the cursor to column 0 with a bare carriage return.
func (d *Driver) CR() error { return d.writeString("\r") }

// SetDefault resets text attributes (ESC[0m).
func (d *Driver) SetDefault() error { return d.writeString(ansiReset) }

// LineFeed writes a newline.
func (d *Driver) LineFeed() error { return d.writeString("\n") }

// MoveToColumn positions the cursor at absolute column n (0-based), via a
// carriage return followed by a relative-right move of n columns.
func (d *Driver) MoveToColumn(n int) error {
	if n <= 0 {
		return d.CR()
	}
	return d.writeString(fmt.Sprintf("\r\033[%dC", n))
}

// MoveUp moves the cursor up n rows. n<=0 is a no-op.
func (d *Driver) MoveUp(n int) error {
	if n <= 0 {
		return nil
	}
	return d.writeString(fmt.Sprintf(ansiUp, n))
}

// MoveDown moves the cursor down n rows. n<=0 is a no-op.
func (d *Driver) MoveDown(n int) error {
	if n <= 0 {
		return nil
	}
	return d.writeString(fmt.Sprintf(ansiDown, n))
}

// SetColor emits the foreground color escape.
func (d *Driver) SetColor(code int) error {
	return d.writeString(fmt.Sprintf(ansiColor, code))
}

// SetEmphasis emits an emphasis escape (bold/underline/reverse); None is a
// no-op.
func (d *Driver) SetEmphasis(seq string) error {
	if seq == "" {
		return nil
	}
	return d.writeString(seq)
}

// Width returns the terminal's column count, falling back to 80 if the
// window size can't be queried.
func (d *Driver) Width() int {
	w, ok := winsize(d.out)
	if !ok || w <= 0 {
		return 80
	}
	return w
}

// CursorPosition queries the cursor's current (row, col) via ESC[6n. On
// any failure it returns ok=false and the caller should assume column 0.
func (d *Driver) CursorPosition() (row, col int, ok bool) {
	if err := d.writeString(ansiCursorQuery); err != nil {
		return 0, 0, false
	}
	return readCPR(d.in)
}

// KeyAvailable performs a zero-timeout readiness check on the input file,
// used to drain already-buffered bytes (e.g. pasted text) in one pass.
func (d *Driver) KeyAvailable() bool {
	return pollReadable(d.in)
}

// EnableRaw switches the terminal into raw mode, capturing the previous
// termios so DisableRaw (or a process-exit handler installed by the
// embedder) can restore it. Calling EnableRaw twice without an
// intervening DisableRaw is a no-op.
func (d *Driver) EnableRaw() error {
	if d.rawEnabled {
		return nil
	}
	saved, err := enableRawMode(d.in)
	if err != nil {
		Logger.Printf("enable raw mode failed: %v", err)
		return err
	}
	d.savedState = saved
	d.rawEnabled = true
	return nil
}

// DisableRaw restores the termios captured by EnableRaw. Safe to call when
// raw mode was never enabled.
func (d *Driver) DisableRaw() error {
	if !d.rawEnabled || d.savedState == nil {
		return nil
	}
	err := restoreMode(d.in, d.savedState)
	if err != nil {
		Logger.Printf("disable raw mode failed: %v", err)
	}
	d.rawEnabled = false
	return err
}

// ReadByte reads a single raw byte, blocking.
func (d *Driver) ReadByte() (byte, error) {
	var buf [1]byte
	_, err := d.in.Read(buf[:])
	return buf[0], err
}

// RawInput exposes the underlying input file for the non-TTY and
// unsupported-terminal fallback paths, which read buffered lines rather
// than raw bytes.
func (d *Driver) RawInput() *os.File { return d.in }
