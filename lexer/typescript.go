package lexer

// ReLexAsTypeScriptLAngle narrows a just-produced `<<`, `<=`, or `<<=`
// token down to a single `<`, backing the cursor up by len-1 bytes,
// clearing any queued lookahead, and rewriting the current token in
// place. TypeScript's generic-type-argument grammar needs this when a
// `<` it expected was instead greedily lexed as part of a longer
// operator.
func (l *Lexer) ReLexAsTypeScriptLAngle() Token {
	switch l.currentToken.Kind {
	case KindShiftLeft, KindLE, KindShiftLeftEq:
	default:
		errorf("lexer: ReLexAsTypeScriptLAngle called on a %s token, not <</<=/<<=", l.currentToken.Kind)
	}
	return l.reLexNarrowToSingleByte(KindLAngle)
}

// ReLexRightAngle is the symmetric counterpart for closing generic
// type-argument lists: it narrows a just-produced `>>`, `>>>`, or `>=`
// token down to a single `>`.
func (l *Lexer) ReLexRightAngle() Token {
	switch l.currentToken.Kind {
	case KindShiftRight, KindUShiftRight, KindGE:
	default:
		errorf("lexer: ReLexRightAngle called on a %s token, not >>/>>>/>=", l.currentToken.Kind)
	}
	return l.reLexNarrowToSingleByte(KindRAngle)
}

// reLexNarrowToSingleByte implements the shared mechanics behind both
// re-lex operations: back the cursor up so only the operator's first
// byte remains consumed, drop any speculative lookahead (it was
// computed against the wider token and is no longer valid), and
// re-finish the current token as a single-byte token of kind.
func (l *Lexer) reLexNarrowToSingleByte(kind Kind) Token {
	cur := l.currentToken
	n := tokenByteLen(cur)
	if n > 1 {
		l.source.Back(uint32(n - 1))
	}
	l.lookahead = l.lookahead[:0]
	tok := Token{Start: cur.Start, End: l.source.Offset(), Kind: kind, IsOnNewLine: cur.IsOnNewLine}
	l.currentToken = tok
	return tok
}
