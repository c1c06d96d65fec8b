package linedit

import (
	"strings"

	"github.com/morpho-lang/linedit/internal/term"
)

// styledRender produces the intermediate styled byte string for one
// redraw: reset, then either tokenizer-driven coloring or a flat default
// render, selection reverse-video overlay, and a trailing bold suggestion.
//
// selStart/selEnd are character offsets of the current selection;
// selStart < 0 means no selection is active.
func styledRender(line string, tokenizer Tokenizer, cm *ColorMap, selStart, selEnd int, suggestion string) string {
	var out strings.Builder
	out.WriteString(term.ResetSeq)

	if tokenizer != nil {
		renderTokenized(&out, line, tokenizer, cm, selStart, selEnd)
	} else {
		writeRunOverlay(&out, line, 0, DefaultColor, true, selStart, selEnd)
	}

	if suggestion != "" {
		out.WriteString(term.AnsiBold)
		out.WriteString(suggestion)
		out.WriteString(term.ResetSeq)
	}

	out.WriteString(term.ResetSeq)
	return out.String()
}

// renderTokenized walks line via tokenizer, coloring each returned token
// and any uncolored bytes preceding it in the default color. It aborts
// coloring the remainder of the line (falling back to a flat render for
// what's left) if the tokenizer fails to make forward progress.
func renderTokenized(out *strings.Builder, line string, tokenizer Tokenizer, cm *ColorMap, selStart, selEnd int) {
	tokens := tokenizer(line)
	total := len(line)
	pos := 0 // byte offset

	byteOfChar := func(charIdx int) int {
		n, off := 0, 0
		for off < total && n < charIdx {
			_, size := decodeRuneAt([]byte(line), off)
			off += size
			n++
		}
		return off
	}

	iterations := 0
	for _, t := range tokens {
		iterations++
		if iterations > total+1 {
			if !tokenizerLoopWarned {
				Logger.Printf("tokenizer did not terminate; rendering remainder uncolored")
				tokenizerLoopWarned = true
			}
			break
		}
		startByte := byteOfChar(t.Start)
		endByte := byteOfChar(t.End)
		if startByte < pos {
			continue // non-progressing or out-of-order token, skip
		}
		if startByte > pos {
			writeRunOverlay(out, line[pos:startByte], charIdxOfByte(line, pos), DefaultColor, true, selStart, selEnd)
		}
		color, isDefault := cm.Lookup(t.Type)
		if !cm.hasEntries() {
			isDefault = true
		}
		if endByte > startByte {
			writeRunOverlay(out, line[startByte:endByte], t.Start, color, isDefault, selStart, selEnd)
		}
		pos = endByte
		if startByte == endByte && t.Start == t.End {
			// zero-length token: no progress possible, stop coloring.
			break
		}
	}
	if pos < total {
		writeRunOverlay(out, line[pos:], charIdxOfByte(line, pos), DefaultColor, true, selStart, selEnd)
	}
}

// tokenizerLoopWarned records that the non-terminating-tokenizer
// diagnostic has been logged, so it is logged only once per process.
var tokenizerLoopWarned bool

func (cm *ColorMap) hasEntries() bool {
	return cm != nil && len(cm.entries) > 0
}

func charIdxOfByte(s string, byteOff int) int {
	n, off := 0, 0
	for off < byteOff && off < len(s) {
		_, size := decodeRuneAt([]byte(s), off)
		off += size
		n++
	}
	return n
}

// writeRunOverlay emits run in the given color (or the default color if
// isDefault), overlaying reverse-video for the portion of run that falls
// within [selStart, selEnd) in character coordinates. startChar is the
// character index of run's first byte within the full line.
func writeRunOverlay(out *strings.Builder, run string, startChar int, color Color, isDefault bool, selStart, selEnd int) {
	if selStart < 0 || selEnd <= selStart {
		emitColor(out, color, isDefault)
		out.WriteString(run)
		out.WriteString(term.ResetSeq)
		emitColor(out, color, isDefault)
		return
	}

	emitColor(out, color, isDefault)
	charIdx := startChar
	inSel := false
	if startChar > selStart && startChar < selEnd {
		out.WriteString(term.AnsiReverse)
		inSel = true
	}
	for _, r := range run {
		if charIdx == selStart {
			out.WriteString(term.AnsiReverse)
			inSel = true
		}
		if charIdx == selEnd {
			out.WriteString(term.ResetSeq)
			emitColor(out, color, isDefault)
			inSel = false
		}
		out.WriteRune(r)
		charIdx++
	}
	if inSel {
		out.WriteString(term.ResetSeq)
		emitColor(out, color, isDefault)
	}
}

func emitColor(out *strings.Builder, color Color, isDefault bool) {
	out.WriteString(term.ColorSeq(term.ColorCode(int(color), isDefault)))
}

// renderString expands run (a rendered byte run, possibly containing
// embedded control characters and ANSI escapes) into terminal writes,
// handling \r, \n (erase-to-EOL, newline, continuation prompt), \t (one
// space), other control bytes and existing escape sequences passed
// through verbatim, and printable clusters measured/consulted for
// display width.
//
// While writing, it also tracks how many raw characters (in the same
// cluster-counting convention as displayCoordinatesOf) have been written
// so far. The instant that count reaches target, it queries the
// terminal's actual cursor position via CursorPosition — a real
// measurement taken from this same write pass, not a separate estimate —
// and returns it as (col, line, true), with col converted to the 0-based
// column MoveToColumn takes and line the number of newlines written
// before that point. If the terminal never answers (no CPR support, or
// target is never reached) it returns ok=false and the caller should fall
// back to a cache-only estimate.
func renderString(d *term.Driver, cache *graphemeCache, splitter GraphemeFunc, run, continuationPrompt string, target int) (col, line int, ok bool) {
	chars, curLine := 0, 0
	capture := func() {
		if ok || chars != target {
			return
		}
		if _, c, found := d.CursorPosition(); found {
			col, line, ok = c-1, curLine, true
		}
	}

	for len(run) > 0 {
		capture()
		switch run[0] {
		case '\r':
			d.CR()
			run = run[1:]
		case '\n':
			d.EraseToEOL()
			d.LineFeed()
			if continuationPrompt != "" {
				d.WriteString(continuationPrompt)
			}
			run = run[1:]
			curLine++
			chars++
		case '\t':
			d.WriteByte(' ')
			run = run[1:]
			chars++
		case 0x1b:
			n := escapeSequenceLen(run)
			d.WriteString(run[:n])
			run = run[n:]
		default:
			if run[0] < 0x20 || run[0] == 0x7f {
				run = run[1:]
				continue
			}
			glen := graphemeLen(run, splitter)
			cluster := run[:glen]
			d.WriteString(cluster)
			_ = cache.width(cluster, terminalMeasurer{d})
			run = run[glen:]
			chars++
		}
	}
	capture()
	return col, line, ok
}

// escapeSequenceLen returns the byte length of the CSI escape sequence
// starting at s[0]=='\x1b', so it can be passed through verbatim rather
// than interpreted as printable text.
func escapeSequenceLen(s string) int {
	if len(s) < 2 || s[1] != '[' {
		if len(s) >= 1 {
			return 1
		}
		return 0
	}
	for i := 2; i < len(s); i++ {
		if s[i] >= '@' && s[i] <= '~' {
			return i + 1
		}
	}
	return len(s)
}

// terminalMeasurer adapts a Driver to the measurer interface consulted by
// graphemeCache.width during live rendering.
type terminalMeasurer struct{ d *term.Driver }

func (t terminalMeasurer) writeRaw(s string) error { return t.d.WriteString(s) }

func (t terminalMeasurer) cursorColumn() (int, bool) {
	_, col, ok := t.d.CursorPosition()
	return col, ok
}

// frame tracks the vertical cursor offset and total display-line count
// between keypresses, so the next redraw knows how far to move up before
// re-rendering and whether the previous frame's trailing lines need
// clearing.
type frame struct {
	vpos, nlines int
}

// changeHeight adjusts for a shrinking or growing frame between
// keypresses so the previous frame's trailing lines aren't left behind:
// on growth it appends blank lines; on shrinkage it moves down past the
// old content and erases the now-orphaned lines.
func changeHeight(d *term.Driver, old, new frame) {
	if new.nlines == old.nlines {
		return
	}
	if new.nlines > old.nlines {
		d.MoveDown(old.nlines - old.vpos)
		for i := old.nlines; i < new.nlines; i++ {
			d.LineFeed()
		}
		d.MoveUp(new.nlines - old.vpos)
		return
	}
	d.MoveDown(old.nlines - old.vpos)
	for i := new.nlines; i < old.nlines; i++ {
		d.CR()
		d.EraseLine()
		d.MoveUp(1)
	}
}

// physicalRedraw performs the minimal-movement redraw: move to the frame
// start line, emit the prompt and styled buffer, erase to end of line,
// then reposition the cursor to posn.
//
// The reposition target is measured live, from the same write this
// function just performed (see renderString), so it reflects the
// terminal's actual rendering of any wide or unusual grapheme clusters
// rather than a static guess. Only if the terminal doesn't answer the
// cursor-position query does it fall back to a cache-based estimate over
// rawLine and prompt, computed after the write so it still benefits from
// whatever the write pass just measured live.
func physicalRedraw(d *term.Driver, cache *graphemeCache, splitter GraphemeFunc, cur frame, prompt, continuationPrompt, rawLine, styled string, posn int) frame {
	d.MoveUp(cur.vpos)
	d.CR()
	d.WriteString(prompt)
	col, ypos, ok := renderString(d, cache, splitter, styled, continuationPrompt, posn)
	d.EraseToEOL()

	if !ok {
		total, _ := utf8Count(rawLine)
		x, y := displayCoordinatesOf(rawLine, posn, total, splitter, cache)
		promptWidth := graphemeDisplayWidth(prompt, splitter, cache)
		col, ypos = promptWidth+x, y
	}

	nlines := strings.Count(styled, "\n")
	d.MoveUp(nlines - ypos)
	d.MoveToColumn(col)
	return frame{vpos: ypos, nlines: nlines}
}
