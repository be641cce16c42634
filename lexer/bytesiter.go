package lexer

import "unicode/utf8"

// BytesIter is a non-owning byte cursor used by scanners that want to
// read ahead without committing the main Source cursor. Unlike Source,
// it carries no character-boundary invariant: it may sit mid-character
// at any moment. The scanner using it is responsible for
// re-synchronizing (by checking AtBoundary, or simply knowing from
// context that it is on a boundary) before converting back to text.
//
// BytesIter is derived from a string slice plus a starting offset,
// rather than from a raw pointer pair: a Go string slice already
// shares backing storage with its parent without copying, which is
// the property a pointer-pair design would be after anyway.
type BytesIter struct {
	s   string
	pos int
}

// NewBytesIter returns a BytesIter over s starting at offset 0.
func NewBytesIter(s string) BytesIter {
	return BytesIter{s: s}
}

// NewBytesIterAt reconstructs a BytesIter over s starting at byte
// offset pos.
func NewBytesIterAt(s string, pos int) BytesIter {
	return BytesIter{s: s, pos: pos}
}

// Pos returns the iterator's current byte offset into its underlying
// slice.
func (it *BytesIter) Pos() int { return it.pos }

// Peek returns the next byte without advancing, or (0, false) at EOF.
func (it *BytesIter) Peek() (byte, bool) {
	if it.pos >= len(it.s) {
		return 0, false
	}
	return it.s[it.pos], true
}

// Next returns the next byte and advances past it, or (0, false) at
// EOF.
func (it *BytesIter) Next() (byte, bool) {
	b, ok := it.Peek()
	if ok {
		it.pos++
	}
	return b, ok
}

// AtBoundary reports whether the iterator's current position is on a
// UTF-8 character boundary: true at EOF, or when the next byte is not a
// continuation byte (top bits != 0b10).
func (it *BytesIter) AtBoundary() bool {
	if it.pos >= len(it.s) {
		return true
	}
	return it.s[it.pos]&0xC0 != 0x80
}

// AsStr returns the remaining bytes as a string, provided the iterator
// currently sits on a character boundary. It panics otherwise: calling
// it mid-character is a scanner bug, not a recoverable condition.
func (it *BytesIter) AsStr() string {
	if !it.AtBoundary() {
		panic("lexer: BytesIter.AsStr called off a character boundary")
	}
	return it.s[it.pos:]
}

// NextRune decodes and consumes one Unicode code point, wherever in the
// underlying slice the iterator currently sits (it need not be on a
// boundary coming in, though after a well-formed decode it will be one
// going out). Used by scanners that switch from byte-level to
// rune-level scanning mid-identifier without re-slicing.
func (it *BytesIter) NextRune() (rune, bool) {
	if it.pos >= len(it.s) {
		return 0, false
	}
	c, size := utf8.DecodeRuneInString(it.s[it.pos:])
	it.pos += size
	return c, true
}

// Chars returns a Unicode code point iterator over the remaining bytes,
// provided the iterator currently sits on a character boundary.
func (it *BytesIter) Chars() *RuneIter {
	return &RuneIter{s: it.AsStr()}
}

// RuneIter walks a string's Unicode code points one at a time. It exists
// so scanners that switched from byte-level to Unicode-level scanning
// don't need to re-decode UTF-8 by hand.
type RuneIter struct {
	s   string
	pos int
}

// Next returns the next rune and advances past it, or (0, false) at
// EOF.
func (r *RuneIter) Next() (rune, bool) {
	if r.pos >= len(r.s) {
		return 0, false
	}
	c, size := utf8.DecodeRuneInString(r.s[r.pos:])
	r.pos += size
	return c, true
}

// Pos returns how many bytes of the original string have been consumed.
func (r *RuneIter) Pos() int { return r.pos }
