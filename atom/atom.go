// Package atom implements Atom, an immutable 16-byte small-string value
// with three representations distinguished by the top 3 bits of its
// final byte: an inline string of the full 16-byte capacity, a short
// inline string (length in the low 5 bits of the final byte), and an
// out-of-line string that borrows a pointer and length from somewhere
// else (the caller's string, or an arena.Arena).
//
// This package assumes a 64-bit platform, where Atom is two machine
// words (16 bytes): the narrower 32-bit layout (8 bytes) is not
// implemented, since Go's GOARCH=386/arm targets are a vanishingly
// small fraction of real deployments for a JS/TS toolchain.
package atom

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/cznic/mathutil"
)

// MaxLenInline is the number of bytes an Atom can hold without going
// out-of-line. It is, by construction, exactly the size of Atom itself.
const MaxLenInline = 16

// MaxLen is the longest string an Atom can ever represent: the low 61
// bits of the tagged length word, since the top 3 bits are the
// out-of-line representation tag.
const MaxLen = ^uint64(0) >> 3

const (
	tagOutOfLine  = 0b110 // top 3 bits of the final byte: out-of-line
	tagInlineFlag = 0b111 // top 3 bits of the final byte: short inline
	niche         = 0xFF  // reserved final-byte value: no valid Atom has this
	shortLenMask  = 0x1F  // low 5 bits of the final byte: short inline length
	taggedLenMask = MaxLen
)

// Atom is an immutable small string. The zero value is NOT a valid Atom
// (unlike Go's usual zero-value convention) — construct one with New,
// NewIn, NewConst, or Default.
type Atom struct {
	b [MaxLenInline]byte
}

func init() {
	if unsafe.Sizeof(Atom{}) != MaxLenInline {
		panic(fmt.Sprintf("atom: Atom must be exactly %d bytes, got %d", MaxLenInline, unsafe.Sizeof(Atom{})))
	}
}

type representation int

const (
	reprInlineFull representation = iota
	reprInlineShort
	reprOutOfLine
	reprNiche
)

func (a Atom) representation() representation {
	last := a.b[MaxLenInline-1]
	switch last >> 5 {
	case tagOutOfLine:
		return reprOutOfLine
	case tagInlineFlag:
		if last == niche {
			return reprNiche
		}
		return reprInlineShort
	default:
		return reprInlineFull
	}
}

// New returns an Atom borrowing s. If len(s) <= MaxLenInline the content
// is copied inline (no borrow occurs); otherwise the Atom stores a
// pointer directly into s's backing array.
//
// s is assumed to be valid UTF-8, exactly as Rust's &str guarantees at
// the type level and as every string the lexer package hands to this
// constructor already is. The representation scheme relies on this: a
// valid UTF-8 string's final byte can never be a multi-byte lead byte,
// which is what frees up the 0b110/0b111 top-bit patterns to tag the
// out-of-line and short-inline representations. Passing an arbitrary
// (non-UTF-8) byte string of exactly MaxLenInline bytes whose last byte
// happens to have one of those top-bit patterns will be misidentified.
//
// SAFETY / invariant: when len(s) > MaxLenInline, the returned Atom does
// not keep s's backing array alive by itself (Go's GC does not see
// through the uintptr stashed in the out-of-line representation). The
// caller must keep s (or something that shares its backing array) alive
// for as long as the Atom is used. Use NewIn to tie the Atom's lifetime
// to an arena.Arena instead.
func New(s string) Atom {
	return newAtom(s, false, nil)
}

// NewConst is like New, documenting that s is expected to be a
// compile-time string literal or other value with effectively static
// lifetime (Go has no const-evaluated structs with pointers, so this is
// a naming convention, not a compiler-enforced guarantee).
func NewConst(s string) Atom {
	return New(s)
}

// Default returns the empty Atom, stored inline.
func Default() Atom {
	return New("")
}

// arenaAllocator is the minimal contract NewIn needs from an arena.
// Satisfied by *arena.Arena; expressed as an interface here so this
// package does not import arena (which would be a needless cycle-prone
// coupling for a leaf small-string type).
type arenaAllocator interface {
	AllocString(string) string
}

// NewIn is like New, but if s is too long to store inline, it is first
// copied into a, and the Atom borrows from a's storage instead of from
// s. The Atom may then safely outlive s, as long as it does not outlive
// a.
func NewIn(s string, a arenaAllocator) Atom {
	return newAtom(s, true, a)
}

func newAtom(s string, copyOut bool, a arenaAllocator) Atom {
	n := len(s)
	if uint64(n) > MaxLen {
		panic(fmt.Sprintf("atom: string of length %d exceeds MaxLen (%d)", n, MaxLen))
	}
	if n < MaxLenInline {
		return newInlineShort(s)
	}
	if n == MaxLenInline {
		return newInlineFull(s)
	}
	if copyOut {
		s = a.AllocString(s)
	}
	return newOutOfLine(s)
}

func newInlineShort(s string) Atom {
	var a Atom
	copy(a.b[:], s)
	a.b[MaxLenInline-1] = tagInlineFlag<<5 | byte(len(s)&shortLenMask)
	return a
}

func newInlineFull(s string) Atom {
	var a Atom
	copy(a.b[:], s)
	return a
}

func newOutOfLine(s string) Atom {
	var a Atom
	ptr := uintptr(unsafe.Pointer(unsafe.StringData(s)))
	binary.LittleEndian.PutUint64(a.b[0:8], uint64(ptr))
	tagged := uint64(len(s)) | (uint64(tagOutOfLine) << 61)
	binary.LittleEndian.PutUint64(a.b[8:16], tagged)
	return a
}

// Len returns the length in bytes of the Atom's string.
//
// Len computes both the inline and out-of-line candidate lengths and
// selects between them without branching on the representation tag
// more than once; mathutil.Min/Max supply the same
// select-without-an-if-chain idiom the pack's own cznic-exp/lldb uses
// for clamping (e.g. mathutil.Min(rem, bufSize)).
func (a Atom) Len() int {
	last := a.b[MaxLenInline-1]
	tag3 := int(last >> 5)

	shortLen := int(last & shortLenMask)
	taggedLen := binary.LittleEndian.Uint64(a.b[8:16]) & taggedLenMask

	// Candidate lengths for the two variable-length representations;
	// MaxLenInline covers the full-inline case.
	inlineCandidate := mathutil.Min(shortLen, MaxLenInline-1)
	outOfLineCandidate := int(mathutil.MinUint64(taggedLen, uint64(MaxLen)))

	switch tag3 {
	case tagOutOfLine:
		return outOfLineCandidate
	case tagInlineFlag:
		return inlineCandidate
	default:
		return MaxLenInline
	}
}

// IsEmpty reports whether the Atom's string has zero length.
func (a Atom) IsEmpty() bool {
	return a.Len() == 0
}

// IsInline reports whether the Atom's bytes are stored inline (either
// representation).
func (a Atom) IsInline() bool {
	r := a.representation()
	return r == reprInlineFull || r == reprInlineShort
}

// IsHeap reports whether the Atom borrows its bytes from elsewhere
// (the out-of-line representation). In Go the backing memory may be a
// caller's stack- or heap-resident string, or an arena chunk; "heap"
// here just means "not inline".
func (a Atom) IsHeap() bool {
	return a.representation() == reprOutOfLine
}

// AsString returns the Atom's content as a string. For inline
// representations this is a fresh copy (inline bytes don't alias
// anything); for the out-of-line representation it reconstructs the
// borrowed string via the stashed pointer, which is only valid as long
// as the invariant documented on New/NewIn still holds.
func (a Atom) AsString() string {
	switch a.representation() {
	case reprInlineFull:
		return string(a.b[:])
	case reprInlineShort:
		n := int(a.b[MaxLenInline-1] & shortLenMask)
		return string(a.b[:n])
	case reprOutOfLine:
		ptr := uintptr(binary.LittleEndian.Uint64(a.b[0:8]))
		n := int(binary.LittleEndian.Uint64(a.b[8:16]) & taggedLenMask)
		if n == 0 {
			return ""
		}
		return unsafe.String((*byte)(unsafe.Pointer(ptr)), n)
	default:
		panic("atom: AsString called on an invalid (niche) Atom")
	}
}

// String implements fmt.Stringer, returning the same text as AsString.
func (a Atom) String() string {
	return a.AsString()
}

// AsPtr returns a pointer to the first byte of the Atom's content, or
// nil for an empty Atom. For inline representations the pointer is into
// the Atom's own storage (valid exactly as long as the Atom value
// itself is addressable and not copied); for out-of-line it is the
// borrowed pointer.
func (a *Atom) AsPtr() *byte {
	if a.Len() == 0 {
		return nil
	}
	switch a.representation() {
	case reprOutOfLine:
		ptr := uintptr(binary.LittleEndian.Uint64(a.b[0:8]))
		return (*byte)(unsafe.Pointer(ptr))
	default:
		return &a.b[0]
	}
}

// Equal reports whether a and other represent the same string.
//
// When both are inline, or both are out-of-line with equal lengths, the
// low 15 bytes (everything but the final tag/length byte... for
// out-of-line, everything but the tag bits of the length word) can
// differ in representation-irrelevant padding only when lengths differ,
// so a direct content comparison is always correct: no need to
// normalize representations first.
func (a Atom) Equal(other Atom) bool {
	ra, ro := a.representation(), other.representation()
	if ra == reprNiche || ro == reprNiche {
		return false
	}
	if (ra == reprInlineFull || ra == reprInlineShort) && ra == ro && a.b == other.b {
		return true
	}
	return a.AsString() == other.AsString()
}

// IsValid reports whether a is not the reserved niche bit pattern
// (0xFF in the final byte). A niche Atom only ever arises from the zero
// value of an Option-like wrapper around Atom; normal construction
// through New/NewIn/NewConst/Default never produces one.
func (a Atom) IsValid() bool {
	return a.representation() != reprNiche
}
