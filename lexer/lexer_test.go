package lexer

import (
	"testing"

	"github.com/gojslex/jslex/arena"
)

func allTokens(l *Lexer) []Token {
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Kind == KindEOF {
			return toks
		}
	}
}

func TestLexerEndToEndScenarios(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		kinds []Kind
	}{
		{
			name:  "simple assignment with string literal",
			src:   "x = 'ABCDE';",
			kinds: []Kind{KindIdentifier, KindAssign, KindString, KindSemicolon, KindEOF},
		},
		{
			name:  "string literal with escaped newline",
			src:   "x = 'ABCDE\\n';",
			kinds: []Kind{KindIdentifier, KindAssign, KindString, KindSemicolon, KindEOF},
		},
		{
			name:  "slash after an assignment operator starts a regex",
			src:   "x = /y/;",
			kinds: []Kind{KindIdentifier, KindAssign, KindRegex, KindSemicolon, KindEOF},
		},
		{
			name:  "private identifier",
			src:   "#priv",
			kinds: []Kind{KindPrivateIdentifier, KindEOF},
		},
	}
	for _, test := range tests {
		l := NewLexer(arena.New(0), test.src, SourceScript)
		toks := allTokens(l)
		if len(toks) != len(test.kinds) {
			t.Fatalf("%s: got %d tokens, want %d (%v)", test.name, len(toks), len(test.kinds), toks)
		}
		for i, want := range test.kinds {
			if toks[i].Kind != want {
				t.Errorf("%s: token[%d].Kind = %s, want %s", test.name, i, toks[i].Kind, want)
			}
		}
	}
}

func TestLexerStringWithEscapedNewlineDecodesToRealNewline(t *testing.T) {
	l := NewLexer(arena.New(0), "x = 'ABCDE\\n';", SourceScript)
	l.NextToken() // x
	l.NextToken() // =
	strTok := l.NextToken()
	if strTok.Kind != KindString {
		t.Fatalf("Kind = %s, want String", strTok.Kind)
	}
	if !strTok.HasEscape {
		t.Fatal("HasEscape = false, want true")
	}
	got, ok := l.EscapedString(strTok.Start)
	if !ok {
		t.Fatal("no escaped text registered for the string literal")
	}
	want := "ABCDE\n"
	if got != want {
		t.Fatalf("decoded string = %q, want %q", got, want)
	}
}

func TestLexerPrevTokenKindDrivesRegexVsDivision(t *testing.T) {
	// After an identifier, a number, or a closing bracket, '/' is
	// division; at the start of an expression it is a regex.
	divisionAfter := []string{"x/y/", "1/y/", "(x)/y/"}
	for _, src := range divisionAfter {
		l := NewLexer(arena.New(0), src, SourceScript)
		for {
			tok := l.NextToken()
			if tok.Kind == KindSlash {
				break
			}
			if tok.Kind == KindEOF {
				t.Fatalf("%q: never produced a Slash token", src)
			}
		}
	}

	regexAt := []string{"=/y/", "(/y/", ",/y/"}
	for _, src := range regexAt {
		l := NewLexer(arena.New(0), src, SourceScript)
		var found bool
		for {
			tok := l.NextToken()
			if tok.Kind == KindRegex {
				found = true
				break
			}
			if tok.Kind == KindEOF {
				break
			}
		}
		if !found {
			t.Errorf("%q: expected a Regex token", src)
		}
	}
}

func TestLexerIsOnNewLineAcrossMultipleSkipTokens(t *testing.T) {
	l := NewLexer(arena.New(0), "a  \n\t b", SourceScript)
	l.NextToken()
	second := l.NextToken()
	if !second.IsOnNewLine {
		t.Fatal("IsOnNewLine = false across a whitespace run containing a newline, want true")
	}
}

func TestLexerInvalidCharacterRecordsDiagnosticAndAdvances(t *testing.T) {
	l := NewLexer(arena.New(0), "a@b", SourceScript)
	first := l.NextToken()
	if first.Kind != KindIdentifier || first.Text(l.Source()) != "a" {
		t.Fatalf("first token = %s %q, want Identifier %q", first.Kind, first.Text(l.Source()), "a")
	}
	invalid := l.NextToken()
	if invalid.Kind != KindInvalidCharacter {
		t.Fatalf("second token = %s, want InvalidCharacter", invalid.Kind)
	}
	if len(l.Errors()) == 0 || l.Errors()[0].Kind != InvalidCharacter {
		t.Fatalf("expected an InvalidCharacter diagnostic, got %+v", l.Errors())
	}
	third := l.NextToken()
	if third.Kind != KindIdentifier || third.Text(l.Source()) != "b" {
		t.Fatalf("third token = %s %q, want Identifier %q", third.Kind, third.Text(l.Source()), "b")
	}
}

func TestLookaheadMatchesSubsequentNextTokenCalls(t *testing.T) {
	src := "a b c d"
	l := NewLexer(arena.New(0), src, SourceScript)

	var peeked []Token
	for n := 1; n <= 4; n++ {
		peeked = append(peeked, l.Lookahead(n))
	}

	for i, want := range peeked {
		got := l.NextToken()
		if got.Text(l.Source()) != want.Text(l.Source()) || got.Kind != want.Kind {
			t.Fatalf("NextToken()[%d] = %s %q, want %s %q", i, got.Kind, got.Text(l.Source()), want.Kind, want.Text(l.Source()))
		}
	}
}

func TestLookaheadDoesNotDisturbCursorUntilConsumed(t *testing.T) {
	l := NewLexer(arena.New(0), "a b", SourceScript)
	before := l.Source().Position()
	l.Lookahead(2)
	after := l.Source().Position()
	if before != after {
		t.Fatal("Lookahead moved the externally observable cursor position")
	}
}

func TestLookaheadBeyondMaxDepthPanics(t *testing.T) {
	l := NewLexer(arena.New(0), "a b c d e", SourceScript)
	defer func() {
		if recover() == nil {
			t.Fatal("Lookahead(5) should have panicked: exceeds maxLookahead")
		}
	}()
	l.Lookahead(maxLookahead + 1)
}

func TestCheckpointRewindRestoresCursorAndTruncatesErrors(t *testing.T) {
	l := NewLexer(arena.New(0), "a @ b", SourceScript)
	l.NextToken() // a
	cp := l.Checkpoint()

	l.NextToken() // '@' -> InvalidCharacter, records a diagnostic
	if len(l.Errors()) == 0 {
		t.Fatal("expected a diagnostic to have been recorded before rewinding")
	}

	l.Rewind(cp)
	if len(l.Errors()) != 0 {
		t.Fatalf("Rewind did not truncate errors: len = %d, want 0", len(l.Errors()))
	}

	again := l.NextToken()
	if again.Kind != KindInvalidCharacter {
		t.Fatalf("token after Rewind = %s, want InvalidCharacter (cursor should be back at '@')", again.Kind)
	}
}

func TestCheckpointRewindDiscardsQueuedLookahead(t *testing.T) {
	l := NewLexer(arena.New(0), "a b c", SourceScript)
	cp := l.Checkpoint()
	l.Lookahead(2)
	if len(l.lookahead) == 0 {
		t.Fatal("Lookahead should have queued entries")
	}
	l.Rewind(cp)
	if len(l.lookahead) != 0 {
		t.Fatalf("Rewind did not clear queued lookahead: len = %d", len(l.lookahead))
	}
}
