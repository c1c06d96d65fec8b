package linedit

import (
	"os"

	"github.com/morpho-lang/linedit/history"
	"github.com/morpho-lang/linedit/internal/term"
)

// Mode is the editor's current interaction mode.
type Mode int

const (
	Default Mode = iota
	Selection
	History
)

// Session is a reusable line editor: construct one with NewSession, call
// ReadLine as many times as needed, and Clear it when done. A Session is
// not safe for concurrent use; ReadLine blocks on terminal I/O and there
// is no internal concurrency.
type Session struct {
	driver *term.Driver
	cap    term.Capability

	mode  Mode
	posn  int
	sposn int

	prompt             string
	continuationPrompt string
	continuationSet    bool

	current   buffer
	clipboard string

	history        stringList
	historySentinl bool
	suggestions    stringList

	colorMap   *ColorMap
	tokenizer  Tokenizer
	completer  Completer
	multiline  MultilineFunc
	splitter   GraphemeFunc
	cache      *graphemeCache
	frame      frame
	histStore  history.Store
}

// NewSession creates a Session reading from in and writing to out,
// normally os.Stdin and os.Stdout. All fields start zeroed/empty; the
// default prompt is ">".
func NewSession(in, out *os.File) *Session {
	term.Logger = Logger
	s := &Session{
		driver: term.New(in, out),
		prompt: ">",
		sposn:  -1,
		cache:  newGraphemeCache(),
	}
	s.cap = term.Detect(in, out)
	return s
}

// Clear releases the session's owned buffers and caches. Idempotent.
func (s *Session) Clear() {
	s.current.Reset()
	s.clipboard = ""
	s.history.Clear()
	s.suggestions.Clear()
	s.colorMap = nil
	s.tokenizer = nil
	s.completer = nil
	s.multiline = nil
	s.cache = newGraphemeCache()
	s.mode = Default
	s.posn = 0
	s.sposn = -1
}

// SetPrompt sets the primary prompt string.
func (s *Session) SetPrompt(p string) { s.prompt = p }

// SetTokenizer installs a syntax-coloring tokenizer along with the color
// map it references. The map is copied and sorted.
func (s *Session) SetTokenizer(t Tokenizer, colors map[TokenType]Color) {
	s.tokenizer = t
	s.colorMap = NewColorMap(colors)
}

// SetCompleter installs a tab-completion callback.
func (s *Session) SetCompleter(c Completer) { s.completer = c }

// SetMultiline installs the continuation predicate and, optionally, a
// distinct continuation prompt. If cprompt is "", the primary prompt is
// used for continuation lines too.
func (s *Session) SetMultiline(fn MultilineFunc, cprompt string) {
	s.multiline = fn
	s.continuationPrompt = cprompt
	s.continuationSet = cprompt != ""
}

// SetGraphemeSplitter installs a grapheme-cluster splitter; without one,
// editing operates one code point at a time.
func (s *Session) SetGraphemeSplitter(fn GraphemeFunc) { s.splitter = fn }

// SetHistoryStore installs a persistent history backend; entries appended
// via ReadLine are also recorded there, and are not preloaded
// automatically — call LoadHistory to seed the in-memory list from it.
func (s *Session) SetHistoryStore(store history.Store) { s.histStore = store }

// LoadHistory seeds the in-memory history list from the installed store,
// most recent first. A no-op if no store is installed.
func (s *Session) LoadHistory(limit int) error {
	if s.histStore == nil {
		return nil
	}
	entries, err := s.histStore.Recent(limit)
	if err != nil {
		return err
	}
	for i := len(entries) - 1; i >= 0; i-- {
		s.history.Add(entries[i])
	}
	return nil
}

func (s *Session) continuationPromptText() string {
	if s.continuationSet {
		return s.continuationPrompt
	}
	return s.prompt
}

// TerminalWidth returns the terminal's column count.
func (s *Session) TerminalWidth() int {
	if s.cap == term.NotATTY {
		return 80
	}
	return s.driver.Width()
}

// IsTTY reports whether the session is attached to a terminal at all
// (Supported or Unsupported both count; NotATTY does not).
func (s *Session) IsTTY() bool { return s.cap != term.NotATTY }

// ReadLine reads one line of input, dispatching to the TTY, unsupported
// terminal, or non-TTY path as appropriate. It returns the accepted line,
// or ("", false) if the read was aborted (Ctrl-G) or hit EOF.
func (s *Session) ReadLine() (string, bool) {
	s.current.Reset()
	s.posn = 0
	s.sposn = -1
	s.mode = Default

	switch s.cap {
	case term.Supported:
		return s.readLineSupported()
	case term.Unsupported:
		return s.readLineUnsupported()
	default:
		return s.readLineNoTTY()
	}
}

// AddSuggestion adds a completion candidate at the head of the
// suggestions list; called from within a
// Completer callback with only the remaining characters (after what the
// user already typed).
func (s *Session) AddSuggestion(remaining string) {
	s.suggestions.Add(remaining)
}

// DisplayStyled writes text out-of-band (not as part of the edited
// buffer) in the given color and emphasis, degrading to a plain write
// when not a supported TTY.
func (s *Session) DisplayStyled(text string, color Color, emphasis Emphasis) {
	if s.cap != term.Supported {
		s.driver.WriteString(text)
		return
	}
	s.driver.SetColor(term.ColorCode(int(color), color == DefaultColor))
	s.driver.SetEmphasis(emphasis.ansi())
	s.driver.WriteString(text)
	s.driver.SetDefault()
}

// DisplaySyntaxColored writes text through the installed tokenizer and
// color map, degrading to a plain write when no tokenizer is installed or
// the session is not on a supported TTY.
func (s *Session) DisplaySyntaxColored(text string) {
	if s.cap != term.Supported || s.tokenizer == nil {
		s.driver.WriteString(text)
		return
	}
	styled := styledRender(text, s.tokenizer, s.colorMap, -1, -1, "")
	s.driver.WriteString(styled)
}
