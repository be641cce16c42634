package lexer

import "unicode"

// isASCIIWhitespaceByte reports whether b is an ASCII byte of the JS
// WhiteSpace production (TAB, VT, FF, SP) — the line-terminator bytes
// are classified separately so the scanner can track is_on_new_line.
func isASCIIWhitespaceByte(b byte) bool {
	switch b {
	case '\t', '\v', '\f', ' ':
		return true
	default:
		return false
	}
}

// isLineTerminatorByte reports whether b is an ASCII
// LineTerminatorSequence byte (CR or LF).
func isLineTerminatorByte(b byte) bool {
	return b == '\n' || b == '\r'
}

// isLineTerminatorRune reports whether r is one of the JS grammar's
// four line terminators, including the two non-ASCII ones (LS, PS).
func isLineTerminatorRune(r rune) bool {
	switch r {
	case '\n', '\r', '\u2028', '\u2029':
		return true
	default:
		return false
	}
}

// isWhitespaceRune reports whether r is a non-ASCII JS WhiteSpace
// character: NBSP, BOM/ZWNBSP, or any Unicode space separator (Zs) —
// the full production, not just the ASCII subset.
func isWhitespaceRune(r rune) bool {
	switch r {
	case '\u00A0', '\uFEFF':
		return true
	default:
		return unicode.Is(unicode.Zs, r)
	}
}

// dispatchWhitespace consumes a run of whitespace and line terminators
// starting at the lexer's current cursor position (the triggering byte
// has not yet been consumed). It records whether any line terminator
// was seen in the run by OR-ing into the lexer's pending-newline flag,
// and returns a Skip token for the driver loop to discard.
func dispatchWhitespace(l *Lexer, start uint32) Token {
	sawNewline := false
	byteSearchMatch(l.source,
		func(b byte) bool {
			if isLineTerminatorByte(b) {
				sawNewline = true
				return true
			}
			return isASCIIWhitespaceByte(b)
		},
		func(r rune) bool {
			if isLineTerminatorRune(r) {
				sawNewline = true
				return true
			}
			return isWhitespaceRune(r)
		},
	)
	l.pendingNewline = l.pendingNewline || sawNewline
	return Token{Start: start, End: l.source.Offset(), Kind: KindSkip}
}
