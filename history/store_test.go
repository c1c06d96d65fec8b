package history

import (
	"path/filepath"
	"testing"
)

func TestMemoryStoreRecentOrder(t *testing.T) {
	s := NewMemoryStore()
	s.Append("first")
	s.Append("second")
	s.Append("third")

	got, err := s.Recent(0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	want := []string{"third", "second", "first"}
	if len(got) != len(want) {
		t.Fatalf("Recent() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Recent()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMemoryStoreRecentLimit(t *testing.T) {
	s := NewMemoryStore()
	for _, cmd := range []string{"a", "b", "c", "d"} {
		s.Append(cmd)
	}
	got, err := s.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if want := []string{"d", "c"}; len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Recent(2) = %v, want %v", got, want)
	}
}

func TestBoltStoreAppendAndRecent(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenBoltStore(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatalf("OpenBoltStore: %v", err)
	}
	defer s.Close()

	for _, cmd := range []string{"one", "two", "three"} {
		if _, err := s.Append(cmd); err != nil {
			t.Fatalf("Append(%q): %v", cmd, err)
		}
	}

	got, err := s.Recent(0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	want := []string{"three", "two", "one"}
	if len(got) != len(want) {
		t.Fatalf("Recent() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Recent()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBoltStorePersists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.db")

	s1, err := OpenBoltStore(path)
	if err != nil {
		t.Fatalf("OpenBoltStore: %v", err)
	}
	s1.Append("persisted")
	s1.Close()

	s2, err := OpenBoltStore(path)
	if err != nil {
		t.Fatalf("OpenBoltStore (reopen): %v", err)
	}
	defer s2.Close()
	got, err := s2.Recent(1)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 1 || got[0] != "persisted" {
		t.Errorf("Recent(1) after reopen = %v, want [\"persisted\"]", got)
	}
}
