package linedit

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStringListAddPrepends(t *testing.T) {
	var l stringList
	l.Add("a")
	l.Add("b")
	if got, want := l.items[0], "b"; got != want {
		t.Errorf("items[0] = %q, want %q", got, want)
	}
	if got, want := l.Count(), 2; got != want {
		t.Errorf("Count() = %d, want %d", got, want)
	}
}

func TestStringListSelectClamps(t *testing.T) {
	var l stringList
	l.Add("a")
	l.Add("b")
	s, actual, ok := l.Select(10)
	if !ok || s != "a" || actual != 1 {
		t.Errorf("Select(10) = (%q, %d, %v), want (%q, %d, true)", s, actual, ok, "a", 1)
	}
}

func TestStringListSelectEmpty(t *testing.T) {
	var l stringList
	if _, _, ok := l.Select(0); ok {
		t.Errorf("Select(0) on empty list: ok = true, want false")
	}
}

func TestStringListRemoveAt(t *testing.T) {
	var l stringList
	l.Add("a")
	l.Add("b")
	l.Add("c")
	l.RemoveAt(1) // removes "b" (items = [c, b, a])
	if diff := cmp.Diff([]string{"c", "a"}, l.items); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}
