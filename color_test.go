package linedit

import "testing"

func TestColorMapLookup(t *testing.T) {
	cm := NewColorMap(map[TokenType]Color{
		5: Red,
		1: Green,
		9: Blue,
	})
	for i := 1; i < len(cm.entries); i++ {
		if cm.entries[i-1].Type > cm.entries[i].Type {
			t.Fatalf("entries not sorted: %v", cm.entries)
		}
	}
	if c, ok := cm.Lookup(5); !ok || c != Red {
		t.Errorf("Lookup(5) = (%v, %v), want (Red, true)", c, ok)
	}
	if _, ok := cm.Lookup(42); ok {
		t.Errorf("Lookup(42) found an entry, want none")
	}
}

func TestColorMapLookupNil(t *testing.T) {
	var cm *ColorMap
	if _, ok := cm.Lookup(0); ok {
		t.Errorf("Lookup on nil ColorMap found an entry, want none")
	}
}
