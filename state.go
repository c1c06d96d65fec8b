package linedit

// readLineSupported runs the full raw-mode editing loop: enable raw mode,
// redraw, process keypresses until a terminating event, then restore.
func (s *Session) readLineSupported() (string, bool) {
	if err := s.driver.EnableRaw(); err != nil {
		return s.readLineUnsupported()
	}
	defer s.driver.DisableRaw()

	s.mode = Default
	s.posn = 0
	s.frame = frame{}
	s.redraw()

	dec := decoder{splitter: s.splitter}
	readMore := func() (byte, bool) {
		if !s.driver.KeyAvailable() {
			return 0, false
		}
		b, err := s.driver.ReadByte()
		return b, err == nil
	}

	finish := func(result string, ok bool) (string, bool) {
		s.posn = s.current.LengthChars()
		s.suggestions.Clear()
		s.redraw()
		s.driver.DisableRaw()
		if ok && result != "" {
			s.history.Add(result)
			if s.histStore != nil {
				if _, err := s.histStore.Append(result); err != nil {
					Logger.Printf("history store append: %v", err)
				}
			}
		}
		s.driver.WriteString("\n")
		return result, ok
	}

	for {
		first, err := s.driver.ReadByte()
		if err != nil {
			s.driver.WriteString("\n")
			return "", false
		}
		key := dec.Decode(first, readMore)
		terminate, result, ok := s.processKeypress(key)
		s.redraw()
		if terminate {
			return finish(result, ok)
		}

		// Drain any remaining immediately-available bytes so pasted text
		// is absorbed within this iteration rather than one event at a
		// time.
		for s.driver.KeyAvailable() {
			b, err := s.driver.ReadByte()
			if err != nil {
				break
			}
			key = dec.Decode(b, readMore)
			terminate, result, ok = s.processKeypress(key)
			s.redraw()
			if terminate {
				return finish(result, ok)
			}
		}
	}
}

// redraw renders the current buffer and repositions the cursor, tracking
// frame height between calls so growth/shrinkage doesn't leave stale
// lines on screen.
func (s *Session) redraw() {
	selStart, selEnd := -1, -1
	if s.mode == Selection {
		selStart, selEnd = s.selectionRange()
	}

	suggestion := ""
	if s.atEnd() {
		if sug, ok := s.suggestions.Current(); ok {
			suggestion = sug
		}
	}

	line := s.current.String()
	styled := styledRender(line, s.tokenizer, s.colorMap, selStart, selEnd, suggestion)

	old := s.frame
	changeHeight(s.driver, old, frame{vpos: old.vpos, nlines: countDisplayLines(styled)})
	s.frame = physicalRedraw(s.driver, s.cache, s.splitter, old, s.currentPrompt(), s.continuationPromptText(), line, styled, s.posn)
}

func countDisplayLines(styled string) int {
	n := 0
	for i := 0; i < len(styled); i++ {
		if styled[i] == '\n' {
			n++
		}
	}
	return n
}

func graphemeDisplayWidth(s string, splitter GraphemeFunc, cache *graphemeCache) int {
	w := 0
	for len(s) > 0 {
		glen := graphemeLen(s, splitter)
		w += cache.width(s[:glen], nil)
		s = s[glen:]
	}
	return w
}

func (s *Session) currentPrompt() string {
	return s.prompt
}

func (s *Session) atEnd() bool {
	return s.posn == s.current.LengthChars()
}

func (s *Session) selectionRange() (int, int) {
	if s.sposn < 0 {
		return -1, -1
	}
	if s.sposn < s.posn {
		return s.sposn, s.posn
	}
	return s.posn, s.sposn
}

// collapseLeft returns the selection's low edge, for a plain (non-Shift)
// Left/Ctrl-B while a selection is active: the cursor lands on the edge
// rather than moving one more grapheme past it.
func (s *Session) collapseLeft() int {
	lo, _ := s.selectionRange()
	return lo
}

// collapseRight is collapseLeft's mirror for Right/Ctrl-F.
func (s *Session) collapseRight() int {
	_, hi := s.selectionRange()
	return hi
}

// processKeypress applies one decoded Key to the session state per the
// editor's transition table, returning whether the session should
// terminate (Return outside multiline, or Ctrl-G).
func (s *Session) processKeypress(k Key) (terminate bool, result string, ok bool) {
	regen := true

	switch k.Type {
	case KeyCharacter:
		s.current.Insert(s.posn, k.Bytes)
		s.posn++
		s.mode = Default

	case KeyDelete:
		if s.mode == Selection {
			lo, hi := s.selectionRange()
			s.current.Delete(lo, hi-lo)
			s.posn = lo
			s.sposn = -1
		} else if s.posn > 0 {
			s.deleteGraphemeBefore(s.posn)
		}
		s.mode = Default

	case KeyLeft:
		if s.mode == Selection {
			s.posn = s.collapseLeft()
		} else {
			s.posn = s.prevGrapheme(s.posn)
		}
		s.mode = Default
		s.sposn = -1

	case KeyRight:
		if s.mode == Selection {
			s.posn = s.collapseRight()
		} else {
			s.posn = s.nextGrapheme(s.posn)
		}
		s.mode = Default
		s.sposn = -1

	case KeyShiftLeft:
		if s.mode != Selection {
			s.sposn = s.posn
			s.mode = Selection
		}
		s.posn = s.prevGrapheme(s.posn)

	case KeyShiftRight:
		if s.mode != Selection {
			s.sposn = s.posn
			s.mode = Selection
		}
		s.posn = s.nextGrapheme(s.posn)

	case KeyUp:
		if s.mode != History {
			s.enterHistory()
		}
		s.historyUp()
		s.posn = s.current.LengthChars()

	case KeyDown:
		if s.mode == History {
			s.historyDown()
			s.posn = s.current.LengthChars()
		} else if s.suggestions.Count() > 0 {
			s.suggestions.posn++
			if s.suggestions.posn >= s.suggestions.Count() {
				s.suggestions.posn = 0
			}
			regen = false
		}

	case KeyReturn:
		if s.multiline != nil && s.multiline(s.current.String()) {
			s.current.Insert(s.posn, "\n")
			s.posn++
		} else {
			if s.mode == History {
				s.leaveHistory()
			}
			return true, s.current.String(), true
		}

	case KeyTab:
		s.mode = Default
		if sug, ok := s.suggestions.Current(); ok {
			s.current.Insert(s.posn, sug)
			s.posn = s.current.LengthChars()
		} else {
			s.current.Insert(s.posn, "\t")
			s.posn++
		}

	case KeyCtrl:
		switch k.Ctrl {
		case 'A':
			s.mode = Default
			s.posn = s.lineStart(s.posn)
		case 'B':
			if s.mode == Selection {
				s.posn = s.collapseLeft()
			} else {
				s.posn = s.prevGrapheme(s.posn)
			}
			s.mode = Default
		case 'C':
			if s.mode == Selection {
				lo, hi := s.selectionRange()
				s.clipboard = s.current.Slice(lo, hi)
			}
			regen = false
		case 'D':
			s.mode = Default
			s.deleteGraphemeAt(s.posn)
		case 'E':
			s.mode = Default
			s.posn = s.lineEnd(s.posn)
		case 'F':
			if s.mode == Selection {
				s.posn = s.collapseRight()
			} else {
				s.posn = s.nextGrapheme(s.posn)
			}
			s.mode = Default
		case 'G':
			if s.mode == History {
				s.leaveHistory()
			}
			s.current.Reset()
			return true, "", false
		case 'L':
			if s.mode == History {
				s.leaveHistory()
			}
			s.current.Reset()
			s.posn = 0
			s.mode = Default
		case 'N':
			s.mode = Default
			s.posn = s.verticalMove(s.posn, 1)
		case 'P':
			s.mode = Default
			s.posn = s.verticalMove(s.posn, -1)
		case 'V':
			s.mode = Default
			s.current.Insert(s.posn, s.clipboard)
			s.posn += charCount(s.clipboard)
		default:
			regen = false
		}

	default:
		regen = false
	}

	if s.mode != Selection {
		s.sposn = -1
	}

	if regen && s.atEnd() {
		s.regenerateSuggestions()
	}

	return false, "", false
}

func charCount(s string) int {
	n, _ := utf8Count(s)
	return n
}

func (s *Session) prevGrapheme(posn int) int {
	if posn <= 0 {
		return 0
	}
	// Walk from the start since clusters are variable length; cheap
	// enough for interactive line lengths.
	full := s.current.String()
	idx := 0
	lastStart := 0
	rest := full
	for idx < posn && rest != "" {
		glen := graphemeLen(rest, s.splitter)
		lastStart = idx
		rest = rest[glen:]
		idx++
	}
	return lastStart
}

func (s *Session) nextGrapheme(posn int) int {
	total := s.current.LengthChars()
	if posn >= total {
		return total
	}
	full := s.current.Locate(posn)
	glen := graphemeLen(full, s.splitter)
	// glen is in bytes; translate back to a character count advance.
	n, _ := utf8Count(full[:glen])
	if n == 0 {
		n = 1
	}
	return posn + n
}

func (s *Session) deleteGraphemeBefore(posn int) {
	start := s.prevGrapheme(posn)
	s.current.Delete(start, posn-start)
	s.posn = start
}

func (s *Session) deleteGraphemeAt(posn int) {
	next := s.nextGrapheme(posn)
	if next > posn {
		s.current.Delete(posn, next-posn)
	}
}

func (s *Session) lineStart(posn int) int {
	_, y := s.current.Coordinates(posn)
	return s.current.FindPosition(0, y)
}

func (s *Session) lineEnd(posn int) int {
	_, y := s.current.Coordinates(posn)
	return s.current.FindPosition(-1, y)
}

func (s *Session) verticalMove(posn, dy int) int {
	x, y := s.current.Coordinates(posn)
	y += dy
	if y < 0 {
		return 0
	}
	if y > s.current.CountLines() {
		return s.current.LengthChars()
	}
	p := s.current.FindPosition(x, y)
	if p < 0 {
		return s.lineEnd(posn)
	}
	return p
}

// enterHistory pushes the user's in-progress buffer as a sentinel at
// history position 0 and switches to History mode.
func (s *Session) enterHistory() {
	s.mode = History
	s.history.posn = 0
	s.history.Add(s.current.String())
	s.historySentinl = true
}

// leaveHistory removes the sentinel pushed by enterHistory.
func (s *Session) leaveHistory() {
	if s.historySentinl {
		s.history.RemoveAt(0)
		s.historySentinl = false
	}
	s.mode = Default
}

func (s *Session) historyUp() {
	if s.history.posn+1 < s.history.Count() {
		s.history.posn++
	}
	if text, _, ok := s.history.Select(s.history.posn); ok {
		s.current.Reset()
		s.current.Append(text)
	}
}

func (s *Session) historyDown() {
	if s.history.posn == 0 {
		s.leaveHistory()
		return
	}
	s.history.posn--
	if text, _, ok := s.history.Select(s.history.posn); ok {
		s.current.Reset()
		s.current.Append(text)
	}
}

// regenerateSuggestions reruns the completer for the current buffer and
// cursor position, replacing the suggestions list.
func (s *Session) regenerateSuggestions() {
	s.suggestions.Clear()
	if s.completer == nil {
		return
	}
	for _, cand := range s.completer(s.current.String(), s.posn) {
		s.suggestions.Add(cand)
	}
}
