package atom

import (
	"math"
	"testing"
)

func TestBase54BoundaryValues(t *testing.T) {
	tests := []struct {
		n    uint64
		want string
	}{
		{0, "a"},
		{25, "z"},
		{26, "A"},
		{51, "Z"},
		{52, "_"},
		{53, "$"},
		{54, "aa"},
	}
	for _, tt := range tests {
		got := Base54(tt.n).AsString()
		if got != tt.want {
			t.Errorf("Base54(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestBase54IsAlwaysInline(t *testing.T) {
	for _, n := range []uint64{0, 1, 53, 54, 1000, math.MaxUint32, math.MaxUint64} {
		a := Base54(n)
		if !a.IsInline() {
			t.Errorf("Base54(%d) is not inline", n)
		}
		if len(a.AsString()) > MaxLenInline {
			t.Errorf("Base54(%d) produced %d bytes, want <= %d", n, len(a.AsString()), MaxLenInline)
		}
	}
}

func TestBase54IsLegalIdentifier(t *testing.T) {
	isStart := func(b byte) bool {
		return b == '_' || b == '$' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
	}
	isPart := func(b byte) bool {
		return isStart(b) || (b >= '0' && b <= '9')
	}
	for n := uint64(0); n < 10000; n++ {
		s := Base54(n).AsString()
		if len(s) == 0 {
			t.Fatalf("Base54(%d) is empty", n)
		}
		if !isStart(s[0]) {
			t.Fatalf("Base54(%d) = %q has illegal start character %q", n, s, s[0])
		}
		for i := 1; i < len(s); i++ {
			if !isPart(s[i]) {
				t.Fatalf("Base54(%d) = %q has illegal character %q at %d", n, s, s[i], i)
			}
		}
	}
}

func TestBase54NoSkippedNamesAcrossWrap(t *testing.T) {
	// After the 54 single-character names (0..53), the next name must be
	// "aa", not "ab": the minus-one-before-division step in base54Indexes
	// is what prevents skipping.
	if got := Base54(54).AsString(); got != "aa" {
		t.Fatalf("Base54(54) = %q, want %q", got, "aa")
	}
	if got := Base54(55).AsString(); got != "ba" {
		t.Fatalf("Base54(55) = %q, want %q", got, "ba")
	}
}

func TestBase54Uint64MaxFitsInline(t *testing.T) {
	a := Base54(math.MaxUint64)
	if !a.IsInline() {
		t.Fatal("Base54(math.MaxUint64) is not inline")
	}
	if l := len(a.AsString()); l > maxMangledLen {
		t.Fatalf("Base54(math.MaxUint64) length = %d, want <= %d", l, maxMangledLen)
	}
}
