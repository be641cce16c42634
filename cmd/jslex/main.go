// jslex is a small driver for the jslex lexer core.
//
// It reads a file (or stdin) named on the command line, lexes it under
// a chosen source dialect, and prints each token's kind, span and text.
// With -mangle it does nothing lexer-related at all and instead prints
// the Base54-mangled identifiers for a range of integers, which exists
// to exercise the atom package's mangler from the command line.
package main // import "github.com/gojslex/jslex/cmd/jslex"

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gojslex/jslex/arena"
	"github.com/gojslex/jslex/atom"
	"github.com/gojslex/jslex/lexer"
)

var (
	sourceType = flag.String("source", "script", "source dialect: script, module, ts, tsx")
	showEscape = flag.Bool("escapes", false, "print decoded text for tokens with escape sequences")
	mangle     = flag.Int("mangle", -1, "print Base54(0)..Base54(n-1) instead of lexing, then exit")
)

func main() {
	flag.Parse()

	if *mangle >= 0 {
		runMangle(*mangle)
		return
	}

	st, err := parseSourceType(*sourceType)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	args := flag.Args()
	if len(args) == 0 {
		lexReader(os.Stdin, st)
		return
	}
	for _, file := range args {
		lexFile(file, st)
	}
}

// runMangle prints the first n Base54-mangled names, one per line.
func runMangle(n int) {
	for i := uint64(0); i < uint64(n); i++ {
		fmt.Println(atom.Base54(i).AsString())
	}
}

func parseSourceType(s string) (lexer.SourceType, error) {
	switch s {
	case "script":
		return lexer.SourceScript, nil
	case "module":
		return lexer.SourceModule, nil
	case "ts":
		return lexer.SourceTypeScript, nil
	case "tsx":
		return lexer.SourceTSX, nil
	}
	return 0, fmt.Errorf("unknown -source %q: want script, module, ts or tsx", s)
}

// lexFile reads the named source file and lexes it.
func lexFile(file string, st lexer.SourceType) {
	fd, err := os.Open(file)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer fd.Close()
	lexReader(fd, st)
}

// lexReader reads r to EOF and runs the lexer over its contents,
// printing one line per token.
func lexReader(r io.Reader, st lexer.SourceType) {
	src, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	a := arena.New(len(src))
	l := lexer.NewLexer(a, string(src), st)
	for {
		tok := l.NextToken()
		printToken(l, tok)
		if tok.Kind == lexer.KindEOF {
			break
		}
	}
	for _, d := range l.Errors() {
		fmt.Fprintln(os.Stderr, d)
	}
}

func printToken(l *lexer.Lexer, tok lexer.Token) {
	fmt.Printf("%-20s [%d,%d) %q\n", tok.Kind, tok.Start, tok.End, tok.Text(l.Source()))
	if !*showEscape || !tok.HasEscape {
		return
	}
	switch tok.Kind {
	case lexer.KindIdentifier, lexer.KindPrivateIdentifier:
		if s, ok := l.EscapedIdentifier(tok.Start); ok {
			fmt.Printf("%24s-> %q\n", "", s)
		}
	case lexer.KindString:
		if s, ok := l.EscapedString(tok.Start); ok {
			fmt.Printf("%24s-> %q\n", "", s)
		}
	}
}
