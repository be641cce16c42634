package lexer

import (
	"strings"
	"testing"
)

func TestByteSearchMatchConsumesWhileTrue(t *testing.T) {
	s := NewSource("aaaaab")
	byteSearchMatch(s,
		func(b byte) bool { return b == 'a' },
		func(r rune) bool { return false },
	)
	if s.Offset() != 5 {
		t.Fatalf("Offset() = %d, want 5", s.Offset())
	}
	if b, _ := s.PeekByte(); b != 'b' {
		t.Fatalf("stopped at %q, want 'b'", b)
	}
}

func TestByteSearchMatchStopsAtEOFWithoutConsumingPastIt(t *testing.T) {
	s := NewSource("aaa")
	byteSearchMatch(s,
		func(b byte) bool { return b == 'a' },
		func(r rune) bool { return false },
	)
	if !s.IsEOF() {
		t.Fatalf("expected EOF, Offset() = %d", s.Offset())
	}
}

func TestByteSearchMatchCrossesBatchBoundary(t *testing.T) {
	// byteSearchBatch is 32; this exercises more than one batch so the
	// outer re-measurement loop actually runs more than once.
	src := strings.Repeat("a", byteSearchBatch*3+5) + "b"
	s := NewSource(src)
	byteSearchMatch(s,
		func(b byte) bool { return b == 'a' },
		func(r rune) bool { return false },
	)
	if int(s.Offset()) != len(src)-1 {
		t.Fatalf("Offset() = %d, want %d", s.Offset(), len(src)-1)
	}
}

func TestByteSearchMatchFallsBackToRunePredicate(t *testing.T) {
	s := NewSource("a中b")
	byteSearchMatch(s,
		func(b byte) bool { return b == 'a' },
		func(r rune) bool { return r == '中' },
	)
	if b, _ := s.PeekByte(); b != 'b' {
		t.Fatalf("stopped at %q, want 'b'", b)
	}
}
