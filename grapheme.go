package linedit

import (
	"hash/fnv"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// GraphemeFunc splits the next grapheme cluster off the front of s and
// returns its length in bytes, bounded by maxLen. Installing one gets the
// editor true cluster-aware editing; without one, linedit treats each
// code point as its own grapheme.
type GraphemeFunc func(s string, maxLen int) int

// UnisegSplitter is a grapheme splitter backed by github.com/rivo/uniseg.
// It is not installed by default; pass it to SetGraphemeSplitter for full
// cluster support.
func UnisegSplitter(s string, maxLen int) int {
	if maxLen <= 0 || s == "" {
		return 0
	}
	if maxLen < len(s) {
		s = s[:maxLen]
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(s, -1)
	return len(cluster)
}

// utf8ByteCount inspects the first byte of p and returns the number of
// bytes in that code point (1-4), or 0 if it is a continuation byte.
func utf8ByteCount(p byte) int {
	switch {
	case p&0xc0 == 0x80:
		return 0
	case p&0xf8 == 0xf0:
		return 4
	case p&0xf0 == 0xe0:
		return 3
	case p&0xe0 == 0xc0:
		return 2
	default:
		return 1
	}
}

// utf8Count returns the number of code points decoded from s, and false if
// s contains an invalid sequence.
func utf8Count(s string) (int, bool) {
	n := 0
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && size <= 1 {
			return n, false
		}
		s = s[size:]
		n++
	}
	return n, true
}

// graphemeLen returns the byte length of the next grapheme cluster at the
// front of s: splitter(s, max) if a splitter is installed, else the byte
// length of the first code point.
func graphemeLen(s string, splitter GraphemeFunc) int {
	if s == "" {
		return 0
	}
	if splitter != nil {
		if n := splitter(s, len(s)); n > 0 {
			return n
		}
	}
	if n := utf8ByteCount(s[0]); n > 0 {
		return n
	}
	return 1 // invalid UTF-8: advance one byte rather than get stuck
}

// graphemeCache memoizes display widths of multi-byte grapheme clusters,
// keyed by their byte sequence. Open-addressed, FNV-1a hashed, grows at a
// 3/4 load factor from an initial capacity of 8, doubling each time.
// Length-1 clusters are never inserted; their width is computed directly.
type graphemeCache struct {
	keys   []string // "" marks an empty slot
	widths []int
	count  int
}

func newGraphemeCache() *graphemeCache {
	return &graphemeCache{
		keys:   make([]string, 8),
		widths: make([]int, 8),
	}
}

func fnv1a(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

// lookup returns the cached width for cluster and whether it was found.
func (c *graphemeCache) lookup(cluster string) (int, bool) {
	if len(cluster) <= 1 {
		return controlOrPrintableWidth(cluster), true
	}
	idx := c.slot(cluster)
	if c.keys[idx] == cluster {
		return c.widths[idx], true
	}
	return 0, false
}

// insert stores width for cluster, growing the table first if needed.
func (c *graphemeCache) insert(cluster string, width int) {
	if len(cluster) <= 1 {
		return
	}
	if (c.count+1)*4 > len(c.keys)*3 {
		c.grow()
	}
	idx := c.slot(cluster)
	if c.keys[idx] == "" {
		c.count++
	}
	c.keys[idx] = cluster
	c.widths[idx] = width
}

func (c *graphemeCache) slot(cluster string) int {
	mask := uint64(len(c.keys) - 1)
	idx := fnv1a(cluster) & mask
	for c.keys[idx] != "" && c.keys[idx] != cluster {
		idx = (idx + 1) & mask
	}
	return int(idx)
}

func (c *graphemeCache) grow() {
	old := *c
	c.keys = make([]string, len(old.keys)*2)
	c.widths = make([]int, len(old.widths)*2)
	c.count = 0
	for i, k := range old.keys {
		if k != "" {
			c.insert(k, old.widths[i])
		}
	}
}

// controlOrPrintableWidth handles single-byte clusters directly: control
// characters are width 0, everything else width 1.
func controlOrPrintableWidth(s string) int {
	if s == "" {
		return 0
	}
	b := s[0]
	if b < 0x20 || b == 0x7f {
		return 0
	}
	return 1
}

// measurer live-measures an unknown cluster's display width by writing it
// to the terminal and diffing the cursor column before and after. It is
// supplied by the renderer, which alone knows how to query cursor
// position and write raw bytes.
type measurer interface {
	writeRaw(s string) error
	cursorColumn() (int, bool)
}

// width returns the display width of cluster, consulting/populating the cache via live measurement when
// m is non-nil (i.e. we are rendering to a real terminal); otherwise it
// falls back to go-runewidth for a static estimate.
func (c *graphemeCache) width(cluster string, m measurer) int {
	if w, ok := c.lookup(cluster); ok {
		return w
	}
	if m != nil {
		if x0, ok := m.cursorColumn(); ok {
			if err := m.writeRaw(cluster); err == nil {
				if x1, ok := m.cursorColumn(); ok {
					w := x1 - x0
					if w < 1 {
						w = 1
					}
					c.insert(cluster, w)
					return w
				}
			}
		}
	}
	w := staticWidth(cluster)
	c.insert(cluster, w)
	return w
}

// staticWidth estimates a cluster's width from its first rune via
// go-runewidth, for contexts with no live terminal to measure against.
func staticWidth(cluster string) int {
	r, _ := utf8.DecodeRuneInString(cluster)
	if r == utf8.RuneError {
		return 1
	}
	w := runewidth.RuneWidth(r)
	if w < 1 {
		w = 1
	}
	return w
}
