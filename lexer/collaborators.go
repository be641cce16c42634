package lexer

import "github.com/gojslex/jslex/arena"

// This file implements the narrow string/regex/number collaborators
// invoked by the core as external helpers, scoped down from full
// grammar support (which stays out of scope) to exactly what the
// lexer core needs to produce delimiter-matched String, Regex, and
// Number tokens and to populate the escaped_strings map for escaped
// string literals.

// dispatchStringLiteral is entered on `'` or `"`. It scans to the
// matching unescaped quote (or EOF), decoding any `\` escapes it finds
// along the way into an arena-backed growable string exactly as the
// identifier escape path does (collaborators.go mirrors
// lexer/identifier.go's chunk-copy strategy rather than inventing a
// second one).
func dispatchStringLiteral(l *Lexer, start uint32) Token {
	return l.scanStringLiteral(start)
}

func (l *Lexer) scanStringLiteral(start uint32) Token {
	quote := l.source.PeekByteUnchecked()
	l.source.NextByteUnchecked()

	var builder *arena.Builder
	chunkStart := l.source.Offset()
	hasEscape := false

	flushChunk := func() {
		if builder != nil {
			builder.WriteString(l.source.Whole()[chunkStart:l.source.Offset()])
		}
	}

	for {
		b, ok := l.source.PeekByte()
		if !ok {
			flushChunk()
			if builder != nil {
				l.finishEscapedString(start, builder)
			}
			l.errors = append(l.errors, newUnexpectedEnd(l.source.Offset()))
			return Token{Start: start, End: l.source.Offset(), Kind: KindString, HasEscape: hasEscape}
		}
		if b == quote {
			flushChunk()
			if builder != nil {
				l.finishEscapedString(start, builder)
			}
			l.source.NextByteUnchecked()
			return Token{Start: start, End: l.source.Offset(), Kind: KindString, HasEscape: hasEscape}
		}
		if b == '\\' {
			hasEscape = true
			if builder == nil {
				builder = l.arena.NewBuilder(16)
			}
			flushChunk()
			l.source.NextByteUnchecked() // consume '\'
			l.decodeStringEscape(builder)
			chunkStart = l.source.Offset()
			continue
		}
		if b < 0x80 {
			l.source.NextByteUnchecked()
		} else {
			l.source.NextChar()
		}
	}
}

// decodeStringEscape decodes one escape sequence with the cursor
// positioned immediately after the already-consumed `\`, appending its
// decoded form to b. Malformed escapes record a diagnostic and
// contribute nothing; a bad \x escape leaves the cursor on the offending
// byte, a bad \u escape leaves it just past the bytes the decoder read,
// and scanning recovers by continuing the outer loop.
func (l *Lexer) decodeStringEscape(b *arena.Builder) {
	escByte, ok := l.source.PeekByte()
	if !ok {
		l.errors = append(l.errors, newUnexpectedEnd(l.source.Offset()))
		return
	}
	switch escByte {
	case 'n':
		b.WriteRune('\n')
		l.source.NextByteUnchecked()
	case 'r':
		b.WriteRune('\r')
		l.source.NextByteUnchecked()
	case 't':
		b.WriteRune('\t')
		l.source.NextByteUnchecked()
	case 'b':
		b.WriteRune('\b')
		l.source.NextByteUnchecked()
	case 'f':
		b.WriteRune('\f')
		l.source.NextByteUnchecked()
	case 'v':
		b.WriteRune('\v')
		l.source.NextByteUnchecked()
	case '0':
		b.WriteRune(0)
		l.source.NextByteUnchecked()
	case '\\', '\'', '"', '`':
		b.WriteRune(rune(escByte))
		l.source.NextByteUnchecked()
	case '\n':
		l.source.NextByteUnchecked() // line continuation: contributes no character
	case '\r':
		l.source.NextByteUnchecked()
		if nb, ok := l.source.PeekByte(); ok && nb == '\n' {
			l.source.NextByteUnchecked()
		}
	case 'u':
		escStart := l.source.Offset() - 1 // position of the '\'
		l.source.NextByteUnchecked()      // consume 'u'
		rest := l.source.Remaining()
		it := NewBytesIterAt(rest, 0)
		cp, ok := decodeUnicodeEscapeBody(&it)
		l.source.SkipByte(it.Pos())
		if !ok {
			l.errors = append(l.errors, newUnicodeEscapeSequence(escStart, l.source.Offset(), "invalid string escape sequence"))
			return
		}
		if isSurrogate(cp) {
			cp = 0xFFFD
		}
		b.WriteRune(cp)
	case 'x':
		l.source.NextByteUnchecked()
		var cp rune
		for i := 0; i < 2; i++ {
			hb, ok := l.source.PeekByte()
			if !ok {
				l.errors = append(l.errors, newUnicodeEscapeSequence(l.source.Offset(), l.source.Offset(), "invalid \\x escape"))
				return
			}
			v, ok := hexDigitValue(hb)
			if !ok {
				l.errors = append(l.errors, newUnicodeEscapeSequence(l.source.Offset(), l.source.Offset(), "invalid \\x escape"))
				return
			}
			cp = cp<<4 | rune(v)
			l.source.NextByteUnchecked()
		}
		b.WriteRune(cp)
	default:
		// Any other character following a backslash stands for itself
		// (e.g. "\q" decodes to "q"), matching the JS NonEscapeCharacter
		// production's fallback rule.
		if escByte < 0x80 {
			b.WriteRune(rune(escByte))
			l.source.NextByteUnchecked()
		} else {
			r, _ := l.source.NextChar()
			b.WriteRune(r)
		}
	}
}

func (l *Lexer) finishEscapedString(start uint32, b *arena.Builder) {
	if l.escapedStrings == nil {
		l.escapedStrings = make(map[uint32]string)
	}
	l.escapedStrings[start] = b.Freeze()
}

// dispatchNumberLiteral is entered on an ASCII digit. Like the string
// and regex collaborators above, it implements only delimiter/shape
// matching, not full numeric-literal grammar validation: number-literal
// parsing stays out of this core exactly as string/template and regex
// parsing do, so this exists to keep the dispatch table complete for
// ordinary source rather than to fully validate numbers.
func dispatchNumberLiteral(l *Lexer, start uint32) Token {
	return l.scanNumberLiteral(start)
}

func (l *Lexer) scanNumberLiteral(start uint32) Token {
	consumeDigits := func(isDigit func(byte) bool) {
		for {
			b, ok := l.source.PeekByte()
			if !ok || (!isDigit(b) && b != '_') {
				return
			}
			l.source.NextByteUnchecked()
		}
	}

	first := l.source.PeekByteUnchecked()
	l.source.NextByteUnchecked()
	if first == '0' {
		if b, ok := l.source.PeekByte(); ok {
			switch b {
			case 'x', 'X':
				l.source.NextByteUnchecked()
				consumeDigits(isHexDigitByte)
				return l.finishNumberLiteral(start)
			case 'o', 'O':
				l.source.NextByteUnchecked()
				consumeDigits(isOctalDigitByte)
				return l.finishNumberLiteral(start)
			case 'b', 'B':
				l.source.NextByteUnchecked()
				consumeDigits(isBinaryDigitByte)
				return l.finishNumberLiteral(start)
			}
		}
	}

	consumeDigits(isDecimalDigitByte)
	if b, ok := l.source.PeekByte(); ok && b == '.' {
		l.source.NextByteUnchecked()
		consumeDigits(isDecimalDigitByte)
	}
	if b, ok := l.source.PeekByte(); ok && (b == 'e' || b == 'E') {
		l.source.NextByteUnchecked()
		if b2, ok := l.source.PeekByte(); ok && (b2 == '+' || b2 == '-') {
			l.source.NextByteUnchecked()
		}
		consumeDigits(isDecimalDigitByte)
	}
	if b, ok := l.source.PeekByte(); ok && b == 'n' {
		l.source.NextByteUnchecked() // BigInt suffix
	}
	return l.finishNumberLiteral(start)
}

func (l *Lexer) finishNumberLiteral(start uint32) Token {
	return Token{Start: start, End: l.source.Offset(), Kind: KindNumber}
}

func isDecimalDigitByte(b byte) bool { return b >= '0' && b <= '9' }

func isHexDigitByte(b byte) bool {
	_, ok := hexDigitValue(b)
	return ok
}

func isOctalDigitByte(b byte) bool { return b >= '0' && b <= '7' }

func isBinaryDigitByte(b byte) bool { return b == '0' || b == '1' }

// scanRegexLiteral is entered from dispatchSlash once regexAllowed
// determines a `/` begins a regex literal rather than the division
// operator. Only delimiter matching is implemented: the body is
// scanned for the closing unescaped `/` outside a character class, and
// any trailing identifier-part flag characters are consumed, but the
// pattern's own grammar is not validated.
func (l *Lexer) scanRegexLiteral(start uint32) Token {
	l.source.NextByteUnchecked() // consume opening '/'
	inClass := false
	for {
		b, ok := l.source.PeekByte()
		if !ok {
			l.errors = append(l.errors, newUnexpectedEnd(l.source.Offset()))
			return Token{Start: start, End: l.source.Offset(), Kind: KindRegex}
		}
		if isLineTerminatorByte(b) {
			l.errors = append(l.errors, newInvalidCharacter(start, l.source.Offset()))
			return Token{Start: start, End: l.source.Offset(), Kind: KindRegex}
		}
		if b == '\\' {
			l.source.NextByteUnchecked()
			if _, ok := l.source.PeekByte(); ok {
				if l.source.PeekByteUnchecked() < 0x80 {
					l.source.NextByteUnchecked()
				} else {
					l.source.NextChar()
				}
			}
			continue
		}
		if b == '[' {
			inClass = true
			l.source.NextByteUnchecked()
			continue
		}
		if b == ']' {
			inClass = false
			l.source.NextByteUnchecked()
			continue
		}
		if b == '/' && !inClass {
			l.source.NextByteUnchecked()
			break
		}
		if b < 0x80 {
			l.source.NextByteUnchecked()
		} else {
			l.source.NextChar()
		}
	}
	for {
		b, ok := l.source.PeekByte()
		if !ok || !IsIdentifierPartASCIIByte(b) {
			break
		}
		l.source.NextByteUnchecked()
	}
	return Token{Start: start, End: l.source.Offset(), Kind: KindRegex}
}
