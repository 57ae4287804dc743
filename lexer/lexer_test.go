package lexer

import "testing"

func scanAll(t *testing.T, input string) []Token {
	t.Helper()
	l := New(input)
	var tokens []Token
	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("unexpected lex error: %v", err)
		}
		if tok.Type == TokenEOF {
			break
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

func assertTypes(t *testing.T, got []Token, want ...TokenType) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Type != w {
			t.Fatalf("token %d: got %s, want %s (%v)", i, got[i].Type, w, got[i])
		}
	}
}

func TestBasicTokens(t *testing.T) {
	tokens := scanAll(t, `foo = bar`)
	assertTypes(t, tokens, TokenText, TokenEquals, TokenText)
	if tokens[0].Lexeme != "foo" || tokens[2].Lexeme != "bar" {
		t.Fatalf("unexpected lexemes: %v", tokens)
	}
}

func TestBraces(t *testing.T) {
	tokens := scanAll(t, `{ a b }`)
	assertTypes(t, tokens, TokenOpen, TokenText, TokenText, TokenClose)
}

func TestStringWithEscapedQuote(t *testing.T) {
	tokens := scanAll(t, `foo = "string with \" escaped quote"`)
	assertTypes(t, tokens, TokenText, TokenEquals, TokenString)
	want := `string with \" escaped quote`
	if tokens[2].Lexeme != want {
		t.Fatalf("got lexeme %q, want %q", tokens[2].Lexeme, want)
	}
}

func TestStringContainingHashtag(t *testing.T) {
	tokens := scanAll(t, `3hashtags = "###"`)
	assertTypes(t, tokens, TokenText, TokenEquals, TokenString)
	if tokens[2].Lexeme != "###" {
		t.Fatalf("got lexeme %q, want %q", tokens[2].Lexeme, "###")
	}
}

func TestComment(t *testing.T) {
	l := New("foo = FOO # here's a comment\nbar = BAR")
	var types []TokenType
	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("unexpected lex error: %v", err)
		}
		if tok.Type == TokenEOF {
			break
		}
		types = append(types, tok.Type)
	}
	want := []TokenType{TokenText, TokenEquals, TokenText, TokenComment, TokenText, TokenEquals, TokenText}
	if len(types) != len(want) {
		t.Fatalf("got %v, want %v", types, want)
	}
	for i, w := range want {
		if types[i] != w {
			t.Fatalf("token %d: got %s, want %s", i, types[i], w)
		}
	}
}

func TestCommentContainingQuotes(t *testing.T) {
	tokens := scanAll(t, `foo = FOO # this is a comment, not a "string"`)
	assertTypes(t, tokens, TokenText, TokenEquals, TokenText, TokenComment)
}

func TestUnterminatedString(t *testing.T) {
	l := New(`foo = "unterminated`)
	if _, err := l.Next(); err != nil {
		t.Fatalf("unexpected error on 'foo': %v", err)
	}
	if _, err := l.Next(); err != nil {
		t.Fatalf("unexpected error on '=': %v", err)
	}
	if _, err := l.Next(); err == nil {
		t.Fatal("expected unterminated string error, got nil")
	}
}

func TestEOFIsSticky(t *testing.T) {
	l := New("foo")
	if _, err := l.Next(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 3; i++ {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tok.Type != TokenEOF {
			t.Fatalf("expected EOF, got %s", tok.Type)
		}
	}
}

func TestLineAndColumnTracking(t *testing.T) {
	l := New("foo\n  bar")
	tok, _ := l.Next()
	if tok.Line != 1 || tok.Column != 1 {
		t.Fatalf("foo: got line %d col %d, want 1 1", tok.Line, tok.Column)
	}
	tok, _ = l.Next()
	if tok.Line != 2 || tok.Column != 3 {
		t.Fatalf("bar: got line %d col %d, want 2 3", tok.Line, tok.Column)
	}
}

func TestNegativeFloatBareWord(t *testing.T) {
	tokens := scanAll(t, `offset = -0.5`)
	assertTypes(t, tokens, TokenText, TokenEquals, TokenText)
	if tokens[2].Lexeme != "-0.5" {
		t.Fatalf("got lexeme %q, want %q", tokens[2].Lexeme, "-0.5")
	}
}
