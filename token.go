package linedit

// Token is one lexical unit returned by a Tokenizer: its character range
// in the edited buffer and its type, used to look up a color in the
// installed ColorMap.
type Token struct {
	Start, End int // character indices, [Start, End)
	Type       TokenType
}

// Tokenizer splits line into Tokens for syntax coloring. It is called
// with the full buffer contents on every redraw, so it must be cheap. A
// zero-length token ends coloring: the rest of the line after it is
// rendered uncolored.
type Tokenizer func(line string) []Token

// Completer returns candidate completions for the token ending at
// charIdx in line. The last candidate in the returned slice is shown
// first; Down rotates through the candidates and Tab accepts the one
// shown.
type Completer func(line string, charIdx int) []string

// MultilineFunc reports whether line is an incomplete statement that
// should continue onto another input line rather than being submitted.
type MultilineFunc func(line string) bool
