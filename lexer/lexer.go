package lexer

import (
	"fmt"

	"github.com/gojslex/jslex/arena"
)

// SourceType names the dialect of the source being lexed. The Lexer
// records it, but neither the per-byte dispatch nor the TypeScript
// re-lex operations consult it: every dialect is tokenized the same way.
type SourceType uint8

const (
	SourceScript SourceType = iota
	SourceModule
	SourceTypeScript
	SourceTSX
)

// Context switches the lexer between ordinary tokenization and the
// JSX-attribute-value mode.
type Context uint8

const (
	ContextRegular Context = iota
	ContextJSXAttributeValue
)

// maxLookahead is the TypeScript grammar's bound on speculative
// lookahead depth.
const maxLookahead = 4

// Error is a hard, programmer-error failure signal raised via panic —
// never returned for ordinary lexical errors, which always go through
// the errors slice instead.
type Error string

func (e Error) Error() string { return string(e) }

func errorf(format string, args ...interface{}) {
	panic(Error(fmt.Sprintf(format, args...)))
}

// ErrLookaheadTooDeep is the panic value Lookahead raises when asked to
// peek further ahead than maxLookahead tokens. It is a named sentinel
// (rather than an ad hoc errorf message) so callers that wrap Lookahead
// in their own recover can match on it with errors.Is.
const ErrLookaheadTooDeep = Error("lexer: lookahead exceeds maximum depth")

// lookaheadEntry is one queued speculative token, paired with the
// cursor position immediately after it was scanned so NextToken can
// restore the cursor correctly when it is finally popped.
type lookaheadEntry struct {
	token    Token
	posAfter SourcePosition
}

// Checkpoint is an opaque snapshot obtained from Lexer.Checkpoint and
// consumed by Lexer.Rewind.
type Checkpoint struct {
	pos       SourcePosition
	token     Token
	errorsLen int
}

// Lexer is the per-byte dispatch driver. It is not safe for concurrent
// use: all operations require exclusive access to the Lexer.
type Lexer struct {
	arena      *arena.Arena
	source     *Source
	sourceType SourceType
	context    Context

	currentToken   Token
	prevKind       Kind
	pendingNewline bool

	errors    []Diagnostic
	lookahead []lookaheadEntry

	escapedStrings   map[uint32]string
	escapedTemplates map[uint32]string
}

// NewLexer constructs a Lexer over src, allocating escaped text into a.
// a must outlive every Token the Lexer produces whose HasEscape bit is
// set.
func NewLexer(a *arena.Arena, src string, sourceType SourceType) *Lexer {
	l := &Lexer{
		arena:      a,
		source:     NewSource(src),
		sourceType: sourceType,
	}
	if l.source.Overlong() {
		l.errors = append(l.errors, newOverlongSource())
	}
	return l
}

// Source returns the lexer's underlying cursor, mainly for tests and
// for Token.Text callers that only have a Lexer in hand.
func (l *Lexer) Source() *Source { return l.source }

// Errors returns every diagnostic recorded so far. The slice is owned
// by the Lexer; callers must not mutate it.
func (l *Lexer) Errors() []Diagnostic { return l.errors }

// SetContext records whether the lexer is in regular or JSX-attribute-
// value context. The per-byte dispatch does not read it: tokens are
// scanned the same way in both contexts.
func (l *Lexer) SetContext(c Context) { l.context = c }

// EscapedIdentifier returns the decoded text for an identifier token
// whose HasEscape bit is set, keyed by the token's start offset.
func (l *Lexer) EscapedIdentifier(start uint32) (string, bool) {
	s, ok := l.escapedStrings[start]
	return s, ok
}

// EscapedString returns the decoded text for a string-literal token
// whose HasEscape bit is set, keyed by the token's start offset.
// Identifiers and string literals share the same underlying map since
// their token start offsets never collide; this accessor just gives
// callers the name that matches what they're holding.
func (l *Lexer) EscapedString(start uint32) (string, bool) {
	s, ok := l.escapedStrings[start]
	return s, ok
}

// EscapedTemplate looks up decoded template-literal text keyed by a
// token's start offset. This package does not scan template literals
// and nothing writes the (unexported) map, so it always reports
// ("", false).
func (l *Lexer) EscapedTemplate(start uint32) (string, bool) {
	s, ok := l.escapedTemplates[start]
	return s, ok
}

// Checkpoint snapshots the lexer's resumable state.
func (l *Lexer) Checkpoint() Checkpoint {
	return Checkpoint{
		pos:       l.source.Position(),
		token:     l.currentToken,
		errorsLen: len(l.errors),
	}
}

// Rewind restores the lexer to a previously taken Checkpoint,
// truncating errors accumulated since and discarding any queued
// lookahead.
func (l *Lexer) Rewind(cp Checkpoint) {
	l.source.SetPosition(cp.pos)
	l.currentToken = cp.token
	l.errors = l.errors[:cp.errorsLen]
	l.lookahead = l.lookahead[:0]
}

// NextToken is the main driver: if the lookahead queue is non-empty,
// pop its front entry and restore the cursor to just past it;
// otherwise run the per-byte dispatch from the current cursor
// position.
func (l *Lexer) NextToken() Token {
	if len(l.lookahead) > 0 {
		entry := l.lookahead[0]
		l.lookahead = l.lookahead[1:]
		l.source.SetPosition(entry.posAfter)
		l.currentToken = entry.token
		l.prevKind = entry.token.Kind
		return entry.token
	}
	tok := l.scanToken()
	l.currentToken = tok
	return tok
}

// Lookahead lazily populates the queue up to depth n (1 <= n <= 4),
// without disturbing the lexer's externally observable cursor
// position, and returns the n-th queued token. Errors raised while
// populating the queue are retained when the queued tokens are later
// consumed by NextToken; only Rewind truncates them, back to the error
// count recorded in its Checkpoint.
func (l *Lexer) Lookahead(n int) Token {
	if n < 1 || n > maxLookahead {
		panic(ErrLookaheadTooDeep)
	}
	savedPos := l.source.Position()
	savedToken := l.currentToken
	savedPrevKind := l.prevKind

	for len(l.lookahead) < n {
		if len(l.lookahead) > 0 {
			l.source.SetPosition(l.lookahead[len(l.lookahead)-1].posAfter)
		}
		tok := l.scanToken()
		l.lookahead = append(l.lookahead, lookaheadEntry{token: tok, posAfter: l.source.Position()})
	}

	l.source.SetPosition(savedPos)
	l.currentToken = savedToken
	l.prevKind = savedPrevKind
	return l.lookahead[n-1].token
}

// scanToken runs the per-byte dispatch until it produces a non-Skip
// token, accumulating is_on_new_line across any whitespace runs along
// the way.
func (l *Lexer) scanToken() Token {
	for {
		if l.source.IsEOF() {
			tok := Token{Start: l.source.Offset(), End: l.source.Offset(), Kind: KindEOF, IsOnNewLine: l.pendingNewline}
			l.pendingNewline = false
			l.prevKind = tok.Kind
			return tok
		}
		start := l.source.Offset()
		b := l.source.PeekByteUnchecked()
		tok := dispatchTable[b](l, start)
		if tok.Kind == KindSkip {
			continue
		}
		tok.IsOnNewLine = l.pendingNewline
		l.pendingNewline = false
		l.prevKind = tok.Kind
		return tok
	}
}

// regexAllowed reports whether a `/` encountered right now should be
// scanned as the start of a regex literal rather than as the division
// operator, based on the kind of the previously emitted token — the
// same previous-token heuristic real JS lexers use in place of full
// grammar context, since true parser-driven disambiguation is out of
// this core's scope.
func (l *Lexer) regexAllowed() bool {
	switch l.prevKind {
	case KindIdentifier, KindPrivateIdentifier, KindNumber, KindString, KindRegex,
		KindRParen, KindRBracket, KindRBrace:
		return false
	default:
		return true
	}
}

func tokenByteLen(t Token) int { return int(t.End - t.Start) }

// dispatchTable is the 256-entry per-byte dispatch table: a static
// array of function values indexed by the first byte of the next
// token, populated once at package init instead of a chain of
// if/switch branches.
type dispatchFunc func(l *Lexer, start uint32) Token

var dispatchTable [256]dispatchFunc

func init() {
	for b := 0; b < 256; b++ {
		dispatchTable[b] = dispatchInvalidByte
	}
	for b := 0; b < 128; b++ {
		if IsIdentifierStartASCIIByte(byte(b)) {
			dispatchTable[b] = dispatchIdentifierASCII
		}
	}
	for b := 0x80; b < 256; b++ {
		dispatchTable[b] = dispatchUnicodeIdentifierOrInvalid
	}
	for b := '0'; b <= '9'; b++ {
		dispatchTable[b] = dispatchNumberLiteral
	}

	dispatchTable['\\'] = dispatchIdentifierEscape
	dispatchTable['#'] = dispatchPrivateIdentifier

	dispatchTable[' '] = dispatchWhitespace
	dispatchTable['\t'] = dispatchWhitespace
	dispatchTable['\v'] = dispatchWhitespace
	dispatchTable['\f'] = dispatchWhitespace
	dispatchTable['\r'] = dispatchWhitespace
	dispatchTable['\n'] = dispatchWhitespace

	dispatchTable['\''] = dispatchStringLiteral
	dispatchTable['"'] = dispatchStringLiteral
	dispatchTable['/'] = dispatchSlash

	dispatchTable['<'] = dispatchLAngle
	dispatchTable['>'] = dispatchRAngle
	dispatchTable['='] = dispatchEquals

	dispatchTable[';'] = dispatchSingle(KindSemicolon)
	dispatchTable[','] = dispatchSingle(KindComma)
	dispatchTable['.'] = dispatchSingle(KindDot)
	dispatchTable[':'] = dispatchSingle(KindColon)
	dispatchTable['?'] = dispatchSingle(KindQuestion)
	dispatchTable['('] = dispatchSingle(KindLParen)
	dispatchTable[')'] = dispatchSingle(KindRParen)
	dispatchTable['{'] = dispatchSingle(KindLBrace)
	dispatchTable['}'] = dispatchSingle(KindRBrace)
	dispatchTable['['] = dispatchSingle(KindLBracket)
	dispatchTable[']'] = dispatchSingle(KindRBracket)
	dispatchTable['+'] = dispatchSingle(KindPlus)
	dispatchTable['-'] = dispatchSingle(KindMinus)
	dispatchTable['*'] = dispatchSingle(KindStar)
	dispatchTable['%'] = dispatchSingle(KindPercent)
	dispatchTable['!'] = dispatchSingle(KindBang)
	dispatchTable['~'] = dispatchSingle(KindTilde)
	dispatchTable['&'] = dispatchSingle(KindAmp)
	dispatchTable['|'] = dispatchSingle(KindPipe)
	dispatchTable['^'] = dispatchSingle(KindCaret)
}

func dispatchInvalidByte(l *Lexer, start uint32) Token {
	l.source.NextByteUnchecked()
	end := l.source.Offset()
	l.errors = append(l.errors, newInvalidCharacter(start, end))
	return Token{Start: start, End: end, Kind: KindInvalidCharacter}
}

func dispatchIdentifierASCII(l *Lexer, start uint32) Token {
	return l.ScanIdentifierASCIIStart(start)
}

func dispatchIdentifierEscape(l *Lexer, start uint32) Token {
	return l.ScanIdentifierEscapeStart(start)
}

func dispatchPrivateIdentifier(l *Lexer, start uint32) Token {
	l.source.NextByteUnchecked() // consume '#'
	return l.ScanPrivateIdentifier(start)
}

func dispatchUnicodeIdentifierOrInvalid(l *Lexer, start uint32) Token {
	r, ok := l.source.PeekChar()
	if !ok {
		l.errors = append(l.errors, newUnexpectedEnd(start))
		return Token{Start: start, End: start, Kind: KindInvalidCharacter}
	}
	if isWhitespaceRune(r) || isLineTerminatorRune(r) {
		return dispatchWhitespace(l, start)
	}
	if IsIdentifierStartUnicode(r) {
		return l.ScanIdentifierUnicodeStart(start, runeLen(r))
	}
	l.source.NextChar()
	end := l.source.Offset()
	l.errors = append(l.errors, newInvalidCharacter(start, end))
	return Token{Start: start, End: end, Kind: KindInvalidCharacter}
}

func dispatchSingle(kind Kind) dispatchFunc {
	return func(l *Lexer, start uint32) Token {
		l.source.NextByteUnchecked()
		return Token{Start: start, End: l.source.Offset(), Kind: kind}
	}
}

func dispatchLAngle(l *Lexer, start uint32) Token {
	l.source.NextByteUnchecked()
	if b, ok := l.source.PeekByte(); ok {
		switch b {
		case '=':
			l.source.NextByteUnchecked()
			return Token{Start: start, End: l.source.Offset(), Kind: KindLE}
		case '<':
			l.source.NextByteUnchecked()
			if b2, ok := l.source.PeekByte(); ok && b2 == '=' {
				l.source.NextByteUnchecked()
				return Token{Start: start, End: l.source.Offset(), Kind: KindShiftLeftEq}
			}
			return Token{Start: start, End: l.source.Offset(), Kind: KindShiftLeft}
		}
	}
	return Token{Start: start, End: l.source.Offset(), Kind: KindLAngle}
}

func dispatchRAngle(l *Lexer, start uint32) Token {
	l.source.NextByteUnchecked()
	if b, ok := l.source.PeekByte(); ok {
		switch b {
		case '=':
			l.source.NextByteUnchecked()
			return Token{Start: start, End: l.source.Offset(), Kind: KindGE}
		case '>':
			l.source.NextByteUnchecked()
			if b2, ok := l.source.PeekByte(); ok && b2 == '>' {
				l.source.NextByteUnchecked()
				return Token{Start: start, End: l.source.Offset(), Kind: KindUShiftRight}
			}
			return Token{Start: start, End: l.source.Offset(), Kind: KindShiftRight}
		}
	}
	return Token{Start: start, End: l.source.Offset(), Kind: KindRAngle}
}

func dispatchEquals(l *Lexer, start uint32) Token {
	l.source.NextByteUnchecked()
	if b, ok := l.source.PeekByte(); ok && b == '=' {
		l.source.NextByteUnchecked()
		if b2, ok := l.source.PeekByte(); ok && b2 == '=' {
			l.source.NextByteUnchecked()
			return Token{Start: start, End: l.source.Offset(), Kind: KindStrictEq}
		}
		return Token{Start: start, End: l.source.Offset(), Kind: KindEq}
	}
	return Token{Start: start, End: l.source.Offset(), Kind: KindAssign}
}

func dispatchSlash(l *Lexer, start uint32) Token {
	if l.regexAllowed() {
		return l.scanRegexLiteral(start)
	}
	l.source.NextByteUnchecked()
	return Token{Start: start, End: l.source.Offset(), Kind: KindSlash}
}
