package token

import "testing"

func TestKeywordTable(t *testing.T) {
	for i, kw := range Keywords {
		typ := TokenType(int(KEYWORD_BEGIN) + i + 1)
		if !typ.IsKeyword() {
			t.Errorf("%s does not map to a keyword kind", kw)
		}
		if typ.String() != kw {
			t.Errorf("Keywords[%d] = %s, but its kind prints as %s", i, kw, typ)
		}
	}
	if n := int(KEYWORD_END - KEYWORD_BEGIN - 1); n != len(Keywords) {
		t.Errorf("%d keyword kinds, %d keywords", n, len(Keywords))
	}
}

func TestOperatorTable(t *testing.T) {
	for i, op := range Operators {
		if op.Type.String() != op.Text {
			t.Errorf("%s has kind %s", op.Text, op.Type)
		}
		// A shorter operator must never shadow a longer one listed after it.
		for _, later := range Operators[i+1:] {
			if len(later.Text) > len(op.Text) && later.Text[:len(op.Text)] == op.Text {
				t.Errorf("%s is listed before %s", op.Text, later.Text)
			}
		}
	}
}

func TestClassification(t *testing.T) {
	for _, typ := range []TokenType{PLUS, MINUS, STAR, SLASH, EQUAL, LESSER, GREATER_EQUAL, BANG_EQUAL} {
		if !typ.IsBinaryOperator() {
			t.Errorf("%s is not a binary operator", typ)
		}
	}
	for _, typ := range []TokenType{INT, IDENTIFIER, EOF, RETURN, LEFT_PAREN, SEMICOLON} {
		if typ.IsBinaryOperator() {
			t.Errorf("%s is a binary operator", typ)
		}
	}
	if INT.IsKeyword() || IDENTIFIER.IsKeyword() {
		t.Error("non-keyword kinds reported as keywords")
	}
}

func TestTokenString(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{Token{Lexeme: "42", Type: INT, Offset: 3, Value: 42}, "number(42)@3"},
		{Token{Lexeme: "foo", Type: IDENTIFIER, Offset: 0}, `"foo"@0`},
		{Token{Lexeme: "<=", Type: LESSER_EQUAL, Offset: 7}, `"<="@7`},
	}
	for _, tt := range tests {
		if got := tt.tok.String(); got != tt.want {
			t.Errorf("got %s, want %s", got, tt.want)
		}
		if tt.tok.Len() != len(tt.tok.Lexeme) {
			t.Errorf("%s: Len() = %d", tt.want, tt.tok.Len())
		}
	}
}
