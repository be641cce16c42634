package lexer

import (
	"unicode"

	"github.com/gojslex/jslex/arena"
)

// asciiIDStart and asciiIDPart are branch-free 128-entry lookup tables
// for the ASCII identifier character classes. Built once at package
// init instead of computed inline so every classification on the hot
// path is a single array load.
var (
	asciiIDStart [128]bool
	asciiIDPart  [128]bool
)

func init() {
	for b := 0; b < 128; b++ {
		isStart := b == '_' || b == '$' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
		asciiIDStart[b] = isStart
		asciiIDPart[b] = isStart || (b >= '0' && b <= '9')
	}
}

// IsIdentifierStartASCIIByte reports whether b (an ASCII byte) may
// begin a JS identifier: `_`, `$`, or an ASCII letter.
func IsIdentifierStartASCIIByte(b byte) bool {
	return b < 128 && asciiIDStart[b]
}

// IsIdentifierPartASCIIByte reports whether b (an ASCII byte) may
// continue a JS identifier: the start set plus ASCII digits.
func IsIdentifierPartASCIIByte(b byte) bool {
	return b < 128 && asciiIDPart[b]
}

// identifierStartTables / identifierContinueTables classify identifier
// characters outside ASCII via the derived Unicode ID_Start/ID_Continue
// property, expressed as the underlying general categories plus the
// Other_ID_Start/Other_ID_Continue stability extensions — the same
// idiom the pack's tdewolff-parse-derived JS lexer reference uses
// (unicode.IsOneOf(identifierStart, r)), rather than hand-rolling a
// custom range table.
var identifierStartTables = []*unicode.RangeTable{
	unicode.Lu, unicode.Ll, unicode.Lt, unicode.Lm, unicode.Lo, unicode.Nl,
	unicode.Other_ID_Start,
}

var identifierContinueTables = []*unicode.RangeTable{
	unicode.Lu, unicode.Ll, unicode.Lt, unicode.Lm, unicode.Lo, unicode.Nl,
	unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc,
	unicode.Other_ID_Continue,
}

// IsIdentifierStartUnicode reports whether r may begin a JS identifier,
// per the derived ID_Start property plus the JS grammar's `$`/`_`
// additions.
func IsIdentifierStartUnicode(r rune) bool {
	return r == '$' || r == '_' || unicode.IsOneOf(identifierStartTables, r)
}

// IsIdentifierPartUnicode reports whether r may continue a JS
// identifier, per the derived ID_Continue property plus the JS
// grammar's `$`, `_`, ZWNJ (U+200C) and ZWJ (U+200D) additions.
func IsIdentifierPartUnicode(r rune) bool {
	return r == '$' || r == '_' || r == '\u200C' || r == '\u200D' || unicode.IsOneOf(identifierContinueTables, r)
}

// ScanIdentifierASCIIStart is the fast-path entry point from the
// per-byte dispatch: the first character is known to be a single ASCII
// identifier-start byte and has NOT yet been consumed from the source
// cursor. This is the hottest branch in the whole lexer, so the inner
// ASCII-consume loop is written to be trivially inlinable
// and the Unicode/escape branches are reached only through a handoff,
// keeping the straight-line ASCII case unobstructed.
//
// Precondition: the source is not at EOF and PeekByteUnchecked is an
// ASCII identifier-start byte.
func (l *Lexer) ScanIdentifierASCIIStart(start uint32) Token {
	rest := l.source.Remaining()
	it := NewBytesIterAt(rest, 1)
	return l.identifierTail(start, it)
}

// ScanIdentifierUnicodeStart is entered when the per-byte dispatch finds
// a multi-byte UTF-8 lead byte. firstCharLen is the encoded length of
// the already peeked (not consumed) first code point; the caller is
// responsible for having verified that code point is an identifier
// start character.
func (l *Lexer) ScanIdentifierUnicodeStart(start uint32, firstCharLen int) Token {
	rest := l.source.Remaining()
	it := NewBytesIterAt(rest, firstCharLen)
	return l.identifierTail(start, it)
}

// ScanIdentifierEscapeStart is entered when the per-byte dispatch finds
// a leading `\`, not yet consumed: the identifier begins with a Unicode
// escape (e.g. a leading escape for 'A' followed by "bc" spells the
// identifier "Abc").
func (l *Lexer) ScanIdentifierEscapeStart(start uint32) Token {
	rest := l.source.Remaining()
	it := NewBytesIterAt(rest, 0)
	return l.scanIdentifierEscape(start, it)
}

// ScanPrivateIdentifier is entered after the per-byte dispatch has
// already consumed a leading `#`. It classifies the next byte and
// dispatches to the matching path, or emits InvalidCharacter and
// returns a token spanning only the `#`.
func (l *Lexer) ScanPrivateIdentifier(start uint32) Token {
	b, ok := l.source.PeekByte()
	if !ok {
		l.errors = append(l.errors, newUnexpectedEnd(l.source.Offset()))
		return Token{Start: start, End: l.source.Offset(), Kind: KindPrivateIdentifier}
	}
	if IsIdentifierStartASCIIByte(b) {
		rest := l.source.Remaining()
		it := NewBytesIterAt(rest, 1)
		tok := l.identifierTail(start, it)
		tok.Kind = KindPrivateIdentifier
		return tok
	}
	if b == '\\' {
		tok := l.scanIdentifierEscape(start, NewBytesIterAt(l.source.Remaining(), 0))
		tok.Kind = KindPrivateIdentifier
		return tok
	}
	if b >= 0x80 {
		r, _ := l.source.PeekChar()
		if IsIdentifierStartUnicode(r) {
			rest := l.source.Remaining()
			it := NewBytesIterAt(rest, runeLen(r))
			tok := l.identifierTail(start, it)
			tok.Kind = KindPrivateIdentifier
			return tok
		}
	}
	end := l.source.Offset()
	l.errors = append(l.errors, newInvalidCharacter(start, end))
	return Token{Start: start, End: end, Kind: KindPrivateIdentifier}
}

// identifierTail is the general-purpose consume loop shared by every
// identifier entry point once the first character has been dealt with.
// It handles mixed ASCII and Unicode identifier-part characters and
// returns as soon as it finds either the end of the identifier or a
// `\` escape. The ASCII-identifier-part test happens first (common
// case), the `\` test second (uncommon), the non-ASCII decode last
// (rare) — deliberately ordered by expected frequency.
func (l *Lexer) identifierTail(start uint32, it BytesIter) Token {
	for {
		b, ok := it.Peek()
		if !ok {
			l.source.SkipByte(it.Pos())
			return Token{Start: start, End: l.source.Offset(), Kind: KindIdentifier}
		}
		if b < 0x80 {
			if IsIdentifierPartASCIIByte(b) {
				it.Next()
				continue
			}
			if b == '\\' {
				return l.scanIdentifierEscape(start, it)
			}
			l.source.SkipByte(it.Pos())
			return Token{Start: start, End: l.source.Offset(), Kind: KindIdentifier}
		}
		save := it
		r, _ := it.NextRune()
		if IsIdentifierPartUnicode(r) {
			continue
		}
		it = save
		l.source.SkipByte(it.Pos())
		return Token{Start: start, End: l.source.Offset(), Kind: KindIdentifier}
	}
}

// scanIdentifierEscape is entered the first time a `\` is found while
// scanning an identifier (it precondition: it.Peek() == '\\'). Because
// the decoded text differs from the source text, this switches
// strategy entirely: everything consumed so far is copied into an
// arena-backed growable string, and the rest of the identifier is
// scanned chunk by chunk, decoding escapes as they're found and
// appending literal runs verbatim in between.
func (l *Lexer) scanIdentifierEscape(start uint32, it BytesIter) Token {
	prefix := it.s[:it.pos]
	b := l.arena.NewBuilder(len(prefix) + 8)
	b.WriteString(prefix)

	// isFirstChar tracks position in the identifier, not decode success:
	// it must become false after the first escape is attempted even if
	// that attempt fails and writes nothing to b, since a failed escape
	// still occupies the identifier's first-character slot.
	isFirstChar := len(prefix) == 0

	for {
		// it is positioned on `\` here, on every iteration of this loop.
		// The main cursor hasn't moved since it was derived from it, so
		// its current offset is exactly it.pos's base in absolute terms.
		base := l.source.Offset()
		escapeStart := base + uint32(it.pos)
		it.Next() // consume '\'
		r, ok := decodeIdentifierEscape(&it, isFirstChar)
		isFirstChar = false
		if !ok {
			escapeEnd := base + uint32(it.pos)
			l.errors = append(l.errors, newUnicodeEscapeSequence(escapeStart, escapeEnd, "invalid identifier escape sequence"))
		} else {
			b.WriteRune(r)
		}

		chunkStart := it.pos
		for {
			nb, ok := it.Peek()
			if !ok {
				b.WriteString(it.s[chunkStart:it.pos])
				l.source.SkipByte(it.pos)
				l.finishEscapedIdentifier(start, b)
				return Token{Start: start, End: l.source.Offset(), Kind: KindIdentifier, HasEscape: true}
			}
			if nb < 0x80 {
				if IsIdentifierPartASCIIByte(nb) {
					it.Next()
					continue
				}
				if nb == '\\' {
					b.WriteString(it.s[chunkStart:it.pos])
					break // back to outer loop to decode another escape
				}
				b.WriteString(it.s[chunkStart:it.pos])
				l.source.SkipByte(it.pos)
				l.finishEscapedIdentifier(start, b)
				return Token{Start: start, End: l.source.Offset(), Kind: KindIdentifier, HasEscape: true}
			}
			save := it
			r, _ := it.NextRune()
			if IsIdentifierPartUnicode(r) {
				continue
			}
			it = save
			b.WriteString(it.s[chunkStart:it.pos])
			l.source.SkipByte(it.pos)
			l.finishEscapedIdentifier(start, b)
			return Token{Start: start, End: l.source.Offset(), Kind: KindIdentifier, HasEscape: true}
		}
	}
}

// finishEscapedIdentifier freezes the builder and registers the decoded
// text in the lexer's escape map, keyed by the token's start offset.
func (l *Lexer) finishEscapedIdentifier(start uint32, b *arena.Builder) {
	if l.escapedStrings == nil {
		l.escapedStrings = make(map[uint32]string)
	}
	l.escapedStrings[start] = b.Freeze()
}

// decodeIdentifierEscape decodes one `\uXXXX` or `\u{XXXX...}` escape,
// with it positioned immediately after the consumed `\`. isFirstChar
// selects whether the decoded code point must satisfy
// IsIdentifierStartUnicode (true) or IsIdentifierPartUnicode (false).
// Surrogates are always rejected.
func decodeIdentifierEscape(it *BytesIter, isFirstChar bool) (rune, bool) {
	b, ok := it.Next()
	if !ok || b != 'u' {
		return 0, false
	}
	cp, ok := decodeUnicodeEscapeBody(it)
	if !ok {
		return 0, false
	}
	return validateIdentifierEscapeChar(cp, isFirstChar)
}

// decodeUnicodeEscapeBody parses the digits of a `uXXXX` or `u{XXXX...}`
// escape, with it positioned immediately after the already-consumed `u`
// (and the `\` before it). It performs no identifier- or string-specific
// validation of the result — callers apply their own rules (identifiers
// reject surrogates and require ID_Start/ID_Continue membership; string
// literals accept any code point up to U+10FFFF without a diagnostic,
// decoding a lone surrogate as U+FFFD).
func decodeUnicodeEscapeBody(it *BytesIter) (rune, bool) {
	if next, ok := it.Peek(); ok && next == '{' {
		it.Next()
		var cp rune
		digits := 0
		for {
			b, ok := it.Peek()
			if !ok {
				return 0, false
			}
			if b == '}' {
				it.Next()
				break
			}
			v, ok := hexDigitValue(b)
			if !ok {
				return 0, false
			}
			cp = cp<<4 | rune(v)
			digits++
			if digits > 6 || cp > 0x10FFFF {
				return 0, false
			}
			it.Next()
		}
		if digits == 0 {
			return 0, false
		}
		return cp, true
	}

	var cp rune
	for i := 0; i < 4; i++ {
		b, ok := it.Next()
		if !ok {
			return 0, false
		}
		v, ok := hexDigitValue(b)
		if !ok {
			return 0, false
		}
		cp = cp<<4 | rune(v)
	}
	return cp, true
}

func validateIdentifierEscapeChar(cp rune, isFirstChar bool) (rune, bool) {
	if isSurrogate(cp) {
		return 0, false
	}
	if isFirstChar {
		if !IsIdentifierStartUnicode(cp) {
			return 0, false
		}
	} else if !IsIdentifierPartUnicode(cp) {
		return 0, false
	}
	return cp, true
}

func isSurrogate(r rune) bool { return r >= 0xD800 && r <= 0xDFFF }

func hexDigitValue(b byte) (int, bool) {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0'), true
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10, true
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10, true
	default:
		return 0, false
	}
}

func runeLen(r rune) int {
	switch {
	case r < 0x80:
		return 1
	case r < 0x800:
		return 2
	case r < 0x10000:
		return 3
	default:
		return 4
	}
}
