package linedit

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/creack/pty"
)

// ptyPair is the master/slave pair backing a test Session: the slave acts
// as the session's terminal, the master is the other end of the pty used
// to feed keystrokes and read rendered output.
type ptyPair struct {
	Master, Slave *os.File
}

// newTestSession opens a pty pair and returns a Session driven through the
// slave end, along with the master end for feeding keystrokes and reading
// rendered output.
func newTestSession(t *testing.T) (*Session, *ptyPair) {
	t.Helper()
	t.Setenv("TERM", "xterm")
	master, slave, err := pty.Open()
	if err != nil {
		t.Fatalf("pty.Open: %v", err)
	}
	t.Cleanup(func() {
		master.Close()
		slave.Close()
	})
	s := NewSession(slave, slave)
	return s, &ptyPair{Master: master, Slave: slave}
}

func readLineAsync(t *testing.T, s *Session) <-chan lineResult {
	ch := make(chan lineResult, 1)
	go func() {
		line, ok := s.ReadLine()
		ch <- lineResult{line, ok}
	}()
	return ch
}

type lineResult struct {
	line string
	ok   bool
}

func waitResult(t *testing.T, ch <-chan lineResult) lineResult {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("ReadLine did not return in time")
		return lineResult{}
	}
}

// TestScenarioS1HelloReturn types "hello" and Return, expecting it back.
func TestScenarioS1HelloReturn(t *testing.T) {
	s, files := newTestSession(t)
	ch := readLineAsync(t, s)
	files.Master.WriteString("hello\r")
	r := waitResult(t, ch)
	if !r.ok || r.line != "hello" {
		t.Fatalf("ReadLine() = (%q, %v), want (\"hello\", true)", r.line, r.ok)
	}
	if got := s.history.Count(); got != 1 {
		t.Errorf("history.Count() = %d, want 1", got)
	}
}

// TestScenarioS2LeftInsert types "abc", moves left twice, inserts "X".
func TestScenarioS2LeftInsert(t *testing.T) {
	s, files := newTestSession(t)
	ch := readLineAsync(t, s)
	files.Master.WriteString("abc\x1b[D\x1b[DX\r")
	r := waitResult(t, ch)
	if !r.ok || r.line != "aXbc" {
		t.Fatalf("ReadLine() = (%q, %v), want (\"aXbc\", true)", r.line, r.ok)
	}
}

// TestScenarioS3SelectionDelete types "abc", selects the last two chars
// with Shift-Left twice, then Delete.
func TestScenarioS3SelectionDelete(t *testing.T) {
	s, files := newTestSession(t)
	ch := readLineAsync(t, s)
	files.Master.WriteString("abc\x1b[1;2D\x1b[1;2D\x7f\r")
	r := waitResult(t, ch)
	if !r.ok || r.line != "a" {
		t.Fatalf("ReadLine() = (%q, %v), want (\"a\", true)", r.line, r.ok)
	}
}

// TestScenarioS6CopyPaste exercises Ctrl-C copy and Ctrl-V paste over a
// selection.
func TestScenarioS6CopyPaste(t *testing.T) {
	s, files := newTestSession(t)
	ch := readLineAsync(t, s)
	// abc, select all three with Shift-Left x3, Ctrl-C, Right, Ctrl-V, Return.
	files.Master.WriteString("abc\x1b[1;2D\x1b[1;2D\x1b[1;2D\x03\x1b[C\x16\r")
	r := waitResult(t, ch)
	if !r.ok || r.line != "abcabc" {
		t.Fatalf("ReadLine() = (%q, %v), want (\"abcabc\", true)", r.line, r.ok)
	}
	if s.clipboard != "abc" {
		t.Errorf("clipboard = %q, want %q", s.clipboard, "abc")
	}
}

// TestScenarioS4Multiline exercises the multiline continuation predicate.
func TestScenarioS4Multiline(t *testing.T) {
	s, files := newTestSession(t)
	s.SetMultiline(func(line string) bool {
		return strings.Count(line, "(") > strings.Count(line, ")")
	}, "")
	ch := readLineAsync(t, s)
	files.Master.WriteString("f(\rx)\r")
	r := waitResult(t, ch)
	if !r.ok || r.line != "f(\nx)" {
		t.Fatalf("ReadLine() = (%q, %v), want (\"f(\\nx)\", true)", r.line, r.ok)
	}
	if got := s.current.CountLines(); got != 1 {
		t.Errorf("CountLines() = %d, want 1", got)
	}
}

// TestScenarioS5Completion exercises tab-completion acceptance.
func TestScenarioS5Completion(t *testing.T) {
	s, files := newTestSession(t)
	s.SetCompleter(func(line string, charIdx int) []string {
		if line == "p" {
			return []string{"rint"}
		}
		return nil
	})
	ch := readLineAsync(t, s)
	files.Master.WriteString("p\t\r")
	r := waitResult(t, ch)
	if !r.ok || r.line != "print" {
		t.Fatalf("ReadLine() = (%q, %v), want (\"print\", true)", r.line, r.ok)
	}
}

// TestCtrlGAborts exercises Ctrl-G's abort-and-clear behavior.
func TestCtrlGAborts(t *testing.T) {
	s, files := newTestSession(t)
	ch := readLineAsync(t, s)
	files.Master.WriteString("abc\x07")
	r := waitResult(t, ch)
	if r.ok || r.line != "" {
		t.Fatalf("ReadLine() after Ctrl-G = (%q, %v), want (\"\", false)", r.line, r.ok)
	}
}
