package linedit

import "fmt"

// BadEscSeq reports a terminal escape sequence that didn't match any
// recognized form. It's logged, never returned to callers: raw-mode input
// treats unparseable sequences as KeyUnknown rather than surfacing terminal
// noise as an editing error.
type BadEscSeq struct {
	Seq []byte
}

func (e BadEscSeq) Error() string {
	return fmt.Sprintf("bad escape sequence: %q", e.Seq)
}

// KeyType tags the kind of event decoded from raw input bytes.
type KeyType int

const (
	KeyCharacter KeyType = iota
	KeyReturn
	KeyTab
	KeyDelete
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyShiftLeft
	KeyShiftRight
	KeyHome
	KeyEnd
	KeyCtrl
	KeyUnknown
)

// Key is a decoded keypress event: a tagged union over the types above.
// For KeyCharacter, Rune and Bytes carry the decoded code point. For
// KeyCtrl, Ctrl carries the letter (e.g. 'A' for Ctrl-A).
type Key struct {
	Type  KeyType
	Rune  rune
	Bytes string
	Ctrl  byte
}

// decoder assembles raw bytes read from a terminal into Keys, tracking
// only what's needed within one escape sequence.
type decoder struct {
	splitter GraphemeFunc
}

// Decode classifies the byte sequence starting with first, consuming as
// many bytes as one event requires and returning the decoded Key. next is
// called to fetch additional bytes for multi-byte
// sequences (UTF-8 continuations or escape sequences); it returns ok=false
// if no more bytes are currently available.
func (d *decoder) Decode(first byte, next func() (byte, bool)) Key {
	switch {
	case first == 27:
		return d.decodeEscape(next)
	case first == 9:
		return Key{Type: KeyTab}
	case first == 127:
		return Key{Type: KeyDelete}
	case first == 13:
		return Key{Type: KeyReturn}
	case first >= 1 && first <= 26:
		return Key{Type: KeyCtrl, Ctrl: 'A' + first - 1}
	default:
		return d.decodeCharacter(first, next)
	}
}

// decodeCharacter assembles a UTF-8 code point starting with lead byte
// first, reading utf8ByteCount(first)-1 continuation bytes.
func (d *decoder) decodeCharacter(first byte, next func() (byte, bool)) Key {
	n := utf8ByteCount(first)
	if n == 0 {
		n = 1
	}
	buf := make([]byte, 1, n)
	buf[0] = first
	for len(buf) < n {
		b, ok := next()
		if !ok {
			break
		}
		buf = append(buf, b)
	}
	r, _ := decodeRuneAt(buf, 0)
	return Key{Type: KeyCharacter, Rune: r, Bytes: string(buf)}
}

// decodeEscape parses an ANSI escape sequence: arrow keys and their
// Shift-modified CSI forms. Anything unrecognized becomes KeyUnknown.
func (d *decoder) decodeEscape(next func() (byte, bool)) Key {
	b1, ok := next()
	if !ok {
		Logger.Printf("%v", BadEscSeq{Seq: []byte{27}})
		return Key{Type: KeyUnknown}
	}
	if b1 != '[' {
		Logger.Printf("%v", BadEscSeq{Seq: []byte{27, b1}})
		return Key{Type: KeyUnknown}
	}
	b2, ok := next()
	if !ok {
		Logger.Printf("%v", BadEscSeq{Seq: []byte{27, '['}})
		return Key{Type: KeyUnknown}
	}
	if b2 >= '0' && b2 <= '9' {
		return d.decodeExtendedCSI(b2, next)
	}
	switch b2 {
	case 'A':
		return Key{Type: KeyUp}
	case 'B':
		return Key{Type: KeyDown}
	case 'C':
		return Key{Type: KeyRight}
	case 'D':
		return Key{Type: KeyLeft}
	case 'H':
		return Key{Type: KeyHome}
	case 'F':
		return Key{Type: KeyEnd}
	default:
		Logger.Printf("%v", BadEscSeq{Seq: []byte{27, '[', b2}})
		return Key{Type: KeyUnknown}
	}
}

// decodeExtendedCSI reads the remainder of a digit-led CSI sequence up to
// its terminating letter, recognizing only the Shift-arrow forms
// "1;2C"/"1;2D"; everything else is discarded as unknown.
func (d *decoder) decodeExtendedCSI(first byte, next func() (byte, bool)) Key {
	seq := []byte{first}
	for {
		b, ok := next()
		if !ok {
			Logger.Printf("%v", BadEscSeq{Seq: append([]byte{27, '['}, seq...)})
			return Key{Type: KeyUnknown}
		}
		seq = append(seq, b)
		if b >= 'A' && b <= 'Z' {
			break
		}
		if len(seq) > 8 {
			Logger.Printf("%v", BadEscSeq{Seq: append([]byte{27, '['}, seq...)})
			return Key{Type: KeyUnknown}
		}
	}
	s := string(seq)
	switch s {
	case "1;2C":
		return Key{Type: KeyShiftRight}
	case "1;2D":
		return Key{Type: KeyShiftLeft}
	default:
		Logger.Printf("%v", BadEscSeq{Seq: append([]byte{27, '['}, seq...)})
		return Key{Type: KeyUnknown}
	}
}
