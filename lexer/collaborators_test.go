package lexer

import (
	"testing"

	"github.com/gojslex/jslex/arena"
)

func TestStringLiteralRoundTrip(t *testing.T) {
	tests := []string{`'abc'`, `"abc"`, `''`, `"with spaces and punctuation!"`}
	for _, src := range tests {
		tok, l := scanOne(t, src)
		if tok.Kind != KindString {
			t.Fatalf("scan(%q).Kind = %s, want String", src, tok.Kind)
		}
		if tok.Text(l.Source()) != src {
			t.Errorf("scan(%q).Text() = %q, want %q", src, tok.Text(l.Source()), src)
		}
		if tok.HasEscape {
			t.Errorf("scan(%q).HasEscape = true, want false", src)
		}
	}
}

func TestStringLiteralEscapes(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`'a\nb'`, "a\nb"},
		{`'a\tb'`, "a\tb"},
		{`'a\\b'`, `a\b`},
		{`'a\'b'`, "a'b"},
		{`"a\"b"`, `a"b`},
		{"'a\\x41b'", "aAb"},
		{"'a\\u0041b'", "aAb"},
	}
	for _, test := range tests {
		l := NewLexer(arena.New(0), test.src, SourceScript)
		tok := l.NextToken()
		if tok.Kind != KindString {
			t.Fatalf("scan(%q).Kind = %s, want String", test.src, tok.Kind)
		}
		if !tok.HasEscape {
			t.Fatalf("scan(%q).HasEscape = false, want true", test.src)
		}
		got, ok := l.EscapedString(tok.Start)
		if !ok || got != test.want {
			t.Fatalf("scan(%q) decoded = %q, %v, want %q, true", test.src, got, ok, test.want)
		}
	}
}

func TestStringLiteralLineContinuation(t *testing.T) {
	l := NewLexer(arena.New(0), "'a\\\nb'", SourceScript)
	tok := l.NextToken()
	if tok.Kind != KindString || !tok.HasEscape {
		t.Fatalf("Kind=%s HasEscape=%v, want String/true", tok.Kind, tok.HasEscape)
	}
	got, _ := l.EscapedString(tok.Start)
	if got != "ab" {
		t.Fatalf("decoded = %q, want %q", got, "ab")
	}
}

func TestStringLiteralUnterminatedRecordsUnexpectedEnd(t *testing.T) {
	l := NewLexer(arena.New(0), "'abc", SourceScript)
	tok := l.NextToken()
	if tok.Kind != KindString {
		t.Fatalf("Kind = %s, want String", tok.Kind)
	}
	if len(l.Errors()) == 0 || l.Errors()[0].Kind != UnexpectedEnd {
		t.Fatalf("expected UnexpectedEnd diagnostic, got %+v", l.Errors())
	}
}

func TestRegexLiteralDelimiterMatching(t *testing.T) {
	tok, l := scanOne(t, "/abc/gi")
	if tok.Kind != KindRegex {
		t.Fatalf("Kind = %s, want Regex", tok.Kind)
	}
	if tok.Text(l.Source()) != "/abc/gi" {
		t.Errorf("Text() = %q, want %q", tok.Text(l.Source()), "/abc/gi")
	}
}

func TestRegexLiteralBracketClassIgnoresSlash(t *testing.T) {
	tok, l := scanOne(t, `/[a/b]/`)
	if tok.Kind != KindRegex {
		t.Fatalf("Kind = %s, want Regex", tok.Kind)
	}
	if tok.Text(l.Source()) != `/[a/b]/` {
		t.Errorf("Text() = %q, want %q", tok.Text(l.Source()), `/[a/b]/`)
	}
}

func TestRegexLiteralEscapedSlashDoesNotTerminate(t *testing.T) {
	tok, l := scanOne(t, `/a\/b/`)
	if tok.Kind != KindRegex {
		t.Fatalf("Kind = %s, want Regex", tok.Kind)
	}
	if tok.Text(l.Source()) != `/a\/b/` {
		t.Errorf("Text() = %q, want %q", tok.Text(l.Source()), `/a\/b/`)
	}
}

func TestNumberLiteralShapes(t *testing.T) {
	tests := []string{"0", "123", "3.14", "0x1F", "0o17", "0b101", "1e10", "1.5e-3", "123n"}
	for _, src := range tests {
		tok, l := scanOne(t, src)
		if tok.Kind != KindNumber {
			t.Fatalf("scan(%q).Kind = %s, want Number", src, tok.Kind)
		}
		if tok.Text(l.Source()) != src {
			t.Errorf("scan(%q).Text() = %q, want %q", src, tok.Text(l.Source()), src)
		}
	}
}

func TestNumberLiteralAllowsDigitSeparators(t *testing.T) {
	tok, l := scanOne(t, "1_000_000")
	if tok.Kind != KindNumber {
		t.Fatalf("Kind = %s, want Number", tok.Kind)
	}
	if tok.Text(l.Source()) != "1_000_000" {
		t.Errorf("Text() = %q, want %q", tok.Text(l.Source()), "1_000_000")
	}
}
