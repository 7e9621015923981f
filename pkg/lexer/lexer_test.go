package lexer

import (
	"testing"

	"github.com/kartiknair/mcc/pkg/diag"
	"github.com/kartiknair/mcc/pkg/token"
)

func types(tokens []token.Token) []token.TokenType {
	result := make([]token.TokenType, len(tokens))
	for i, t := range tokens {
		result[i] = t.Type
	}
	return result
}

func equalTypes(a, b []token.TokenType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLex(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []token.TokenType
	}{
		{"Empty", "", []token.TokenType{token.EOF}},
		{"Whitespace", " \t\n\r ", []token.TokenType{token.EOF}},
		{
			"Arithmetic", "1+2*(3-4)/5;",
			[]token.TokenType{
				token.INT, token.PLUS, token.INT, token.STAR, token.LEFT_PAREN, token.INT,
				token.MINUS, token.INT, token.RIGHT_PAREN, token.SLASH, token.INT,
				token.SEMICOLON, token.EOF,
			},
		},
		{
			"Comparisons", "a<=b>=c==d!=e<f>g=h",
			[]token.TokenType{
				token.IDENTIFIER, token.LESSER_EQUAL, token.IDENTIFIER, token.GREATER_EQUAL,
				token.IDENTIFIER, token.EQUAL_EQUAL, token.IDENTIFIER, token.BANG_EQUAL,
				token.IDENTIFIER, token.LESSER, token.IDENTIFIER, token.GREATER,
				token.IDENTIFIER, token.EQUAL, token.IDENTIFIER, token.EOF,
			},
		},
		{
			"Keywords", "if (x) return 1; else while (y) {}",
			[]token.TokenType{
				token.IF, token.LEFT_PAREN, token.IDENTIFIER, token.RIGHT_PAREN,
				token.RETURN, token.INT, token.SEMICOLON, token.ELSE, token.WHILE,
				token.LEFT_PAREN, token.IDENTIFIER, token.RIGHT_PAREN,
				token.LEFT_BRACE, token.RIGHT_BRACE, token.EOF,
			},
		},
		{"Keyword prefix", "iffy", []token.TokenType{token.IDENTIFIER, token.EOF}},
		{"Keyword prefix else", "elsex", []token.TokenType{token.IDENTIFIER, token.EOF}},
		{"Keyword prefix while", "whiles", []token.TokenType{token.IDENTIFIER, token.EOF}},
		{"Keyword before paren", "return(1);", []token.TokenType{
			token.RETURN, token.LEFT_PAREN, token.INT, token.RIGHT_PAREN, token.SEMICOLON, token.EOF,
		}},
		{"Call", "foo();", []token.TokenType{
			token.IDENTIFIER, token.LEFT_PAREN, token.RIGHT_PAREN, token.SEMICOLON, token.EOF,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Lex(tt.src)
			if err != nil {
				t.Fatalf("Lex failed: %v", err)
			}
			if got := types(tokens); !equalTypes(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLexemesAndOffsets(t *testing.T) {
	tokens, err := Lex("foo = 12 <= bar;")
	if err != nil {
		t.Fatal(err)
	}

	want := []struct {
		lexeme string
		offset int
	}{
		{"foo", 0}, {"=", 4}, {"12", 6}, {"<=", 9}, {"bar", 12}, {";", 15}, {"", 16},
	}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i, w := range want {
		if tokens[i].Lexeme != w.lexeme || tokens[i].Offset != w.offset {
			t.Errorf("token %d: got %q@%d, want %q@%d", i, tokens[i].Lexeme, tokens[i].Offset, w.lexeme, w.offset)
		}
	}
	if tokens[2].Value != 12 {
		t.Errorf("got value %d, want 12", tokens[2].Value)
	}
}

func TestEOFOffset(t *testing.T) {
	src := "return 1;  "
	tokens, err := Lex(src)
	if err != nil {
		t.Fatal(err)
	}
	eof := tokens[len(tokens)-1]
	if eof.Type != token.EOF || eof.Offset != len(src) {
		t.Errorf("got %v, want EOF at %d", eof, len(src))
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		src    string
		offset int
	}{
		{"1 $ 2", 2},
		{"a = B;", 4},
		{"return 1 & 2;", 9},
		{"!", 0},
		{"99999999999999999999;", 0},
	}

	for _, tt := range tests {
		_, err := Lex(tt.src)
		if !diag.IsKind(err, diag.Lexical) {
			t.Errorf("%q: got %v, want a lexical error", tt.src, err)
			continue
		}
		if d := err.(*diag.Error); d.Offset != tt.offset {
			t.Errorf("%q: got offset %d, want %d", tt.src, d.Offset, tt.offset)
		}
	}
}

func TestLexAllocations(t *testing.T) {
	src := "a=0; while(a<5) a=a+1; return a;"
	allocs := testing.AllocsPerRun(100, func() {
		if _, err := Lex(src); err != nil {
			t.Fatal(err)
		}
	})
	// The token slice grows by doubling; nothing else should allocate.
	if allocs > 8 {
		t.Errorf("Lex allocated %.0f times per run", allocs)
	}
}
