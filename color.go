package linedit

import (
	"sort"

	"github.com/morpho-lang/linedit/internal/term"
)

// Color enumerates the eight ANSI foreground colors plus a default.
type Color int

const (
	Black Color = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
	DefaultColor
)

// Emphasis enumerates the text emphases.
type Emphasis int

const (
	Bold Emphasis = iota
	Underline
	Reverse
	NoEmphasis
)

func (e Emphasis) ansi() string {
	switch e {
	case Bold:
		return term.AnsiBold
	case Underline:
		return term.AnsiUnderline
	case Reverse:
		return term.AnsiReverse
	default:
		return term.AnsiNone
	}
}

// TokenType identifies a lexical token's category, used only as a key
// into the color map.
type TokenType int

// colorEntry maps one token type to a color.
type colorEntry struct {
	Type  TokenType
	Color Color
}

// ColorMap is a token-type-to-color table, sorted by Type for binary
// search once installed.
type ColorMap struct {
	entries []colorEntry
}

// NewColorMap builds a ColorMap from the given entries, copying and
// sorting them.
func NewColorMap(entries map[TokenType]Color) *ColorMap {
	cm := &ColorMap{entries: make([]colorEntry, 0, len(entries))}
	for t, c := range entries {
		cm.entries = append(cm.entries, colorEntry{t, c})
	}
	sort.Slice(cm.entries, func(i, j int) bool { return cm.entries[i].Type < cm.entries[j].Type })
	return cm
}

// Lookup finds the color for t via binary search, returning
// (DefaultColor, false) if the map doesn't contain an entry for t.
func (cm *ColorMap) Lookup(t TokenType) (Color, bool) {
	if cm == nil {
		return DefaultColor, false
	}
	i := sort.Search(len(cm.entries), func(i int) bool { return cm.entries[i].Type >= t })
	if i < len(cm.entries) && cm.entries[i].Type == t {
		return cm.entries[i].Color, true
	}
	return DefaultColor, false
}
