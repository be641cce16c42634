package lexer

import "github.com/cznic/mathutil"

// byteSearchBatch is the unroll factor for the happy path of the
// byte-search primitive: as long as this many bytes remain, they are
// pulled as one batch before re-checking the stop condition against
// the source's remaining length, rather than re-measuring remaining
// length on every single byte.
const byteSearchBatch = 32

// byteSearchMatch is the engine behind whitespace skipping (the
// punctuation and string/regex scanners do not use it): it advances s
// past every consecutive byte (or,
// for non-ASCII bytes, decoded rune) for which the matching
// continuation predicate returns true, and stops at the first
// rejected byte/rune or at EOF without consuming it.
//
// continueByte is tried first for every ASCII byte (the common case);
// continueRune is only reached for a non-ASCII lead byte, mirroring
// the identifier scanner's own byte-then-rune tiering.
func byteSearchMatch(s *Source, continueByte func(byte) bool, continueRune func(rune) bool) {
	for {
		remaining := len(s.Remaining())
		batch := mathutil.Min(remaining, byteSearchBatch)
		if batch == 0 {
			return
		}
		consumed := 0
		for consumed < batch {
			b, ok := s.PeekByte()
			if !ok {
				return
			}
			if b < 0x80 {
				if !continueByte(b) {
					return
				}
				s.NextByteUnchecked()
				consumed++
				continue
			}
			r, ok := s.PeekChar()
			if !ok || !continueRune(r) {
				return
			}
			s.NextChar()
			consumed++
		}
	}
}
