package store

import (
	"fmt"
	"testing"
)

func TestSeenStore_Basic(t *testing.T) {
	s := NewSeenStore(100, 0.001)

	if s.Seen("id1") {
		t.Error("empty store should not report any identifier as seen")
	}
	if s.Size() != 0 {
		t.Errorf("empty store Size() = %d", s.Size())
	}

	s.Mark("id1")
	if !s.Seen("id1") {
		t.Error("identifier should be seen after Mark")
	}
	if s.Size() != 1 {
		t.Errorf("Size() = %d, want 1", s.Size())
	}

	// Marking twice does not grow the store.
	s.Mark("id1")
	if s.Size() != 1 {
		t.Errorf("Size() after duplicate Mark = %d, want 1", s.Size())
	}

	s.Mark("")
	if s.Size() != 1 {
		t.Error("empty identifier should be ignored")
	}
}

func TestSeenStore_Forget(t *testing.T) {
	s := NewSeenStore(100, 0.001)

	s.Mark("id1")
	s.Forget("id1")

	if s.Seen("id1") {
		t.Error("identifier should not be seen after Forget")
	}
	if s.Size() != 0 {
		t.Errorf("Size() after Forget = %d, want 0", s.Size())
	}
}

func TestSeenStore_Eviction(t *testing.T) {
	s := NewSeenStore(10, 0.001)

	for i := 0; i < 20; i++ {
		s.Mark(fmt.Sprintf("id%d", i))
	}

	if s.Size() > 10 {
		t.Errorf("Size() = %d, want at most 10", s.Size())
	}
	if !s.Seen("id19") {
		t.Error("most recent identifier should survive eviction")
	}
}

func TestSeenStore_Reset(t *testing.T) {
	s := NewSeenStore(100, 0.001)

	s.Mark("id1")
	s.Mark("id2")
	s.Reset()

	if s.Size() != 0 {
		t.Errorf("Size() after Reset = %d, want 0", s.Size())
	}
	if s.Seen("id1") {
		t.Error("identifier should not survive Reset")
	}
}
