package linedit

import "testing"

func TestUtf8ByteCount(t *testing.T) {
	tests := []struct {
		b    byte
		want int
	}{
		{'a', 1},
		{0x80, 0}, // continuation byte
		{0xC2, 2}, // 2-byte lead
		{0xE2, 3}, // 3-byte lead
		{0xF0, 4}, // 4-byte lead
	}
	for _, tt := range tests {
		if got := utf8ByteCount(tt.b); got != tt.want {
			t.Errorf("utf8ByteCount(%#x) = %d, want %d", tt.b, got, tt.want)
		}
	}
}

func TestUtf8Count(t *testing.T) {
	n, ok := utf8Count("héllo")
	if !ok || n != 5 {
		t.Errorf("utf8Count(héllo) = (%d, %v), want (5, true)", n, ok)
	}
}

func TestUtf8CountInvalid(t *testing.T) {
	_, ok := utf8Count(string([]byte{0xff, 0xfe}))
	if ok {
		t.Errorf("utf8Count on invalid bytes: ok = true, want false")
	}
}

func TestGraphemeLenNoSplitter(t *testing.T) {
	if got, want := graphemeLen("héllo", nil), 1; got != want {
		t.Errorf("graphemeLen without splitter = %d, want %d", got, want)
	}
	if got, want := graphemeLen("é", nil), 2; got != want {
		t.Errorf("graphemeLen(é) = %d, want %d", got, want)
	}
}

func TestGraphemeLenWithSplitter(t *testing.T) {
	splitter := func(s string, maxLen int) int { return 3 }
	if got, want := graphemeLen("abcdef", splitter), 3; got != want {
		t.Errorf("graphemeLen with splitter = %d, want %d", got, want)
	}
}

func TestGraphemeCacheControlAndAscii(t *testing.T) {
	c := newGraphemeCache()
	if w := c.width("a", nil); w != 1 {
		t.Errorf("width(a) = %d, want 1", w)
	}
	if w := c.width("\t", nil); w != 0 {
		t.Errorf("width(tab) = %d, want 0", w)
	}
}

func TestGraphemeCacheStaticFallbackConsistent(t *testing.T) {
	c := newGraphemeCache()
	cluster := "世" // wide CJK character, multi-byte
	w1 := c.width(cluster, nil)
	w2 := c.width(cluster, nil)
	if w1 != w2 {
		t.Errorf("width(%q) not stable across calls: %d then %d", cluster, w1, w2)
	}
	if w1 < 1 {
		t.Errorf("width(%q) = %d, want >= 1", cluster, w1)
	}
}

func TestGraphemeCacheGrows(t *testing.T) {
	c := newGraphemeCache()
	for i := 0; i < 50; i++ {
		cluster := string(rune(0x4e00 + i)) // distinct multi-byte CJK code points
		c.insert(cluster, 2)
	}
	for i := 0; i < 50; i++ {
		cluster := string(rune(0x4e00 + i))
		if w, ok := c.lookup(cluster); !ok || w != 2 {
			t.Errorf("lookup(%q) = (%d, %v), want (2, true)", cluster, w, ok)
		}
	}
}
