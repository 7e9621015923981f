package token

import "fmt"

type TokenType int

const (
	INT TokenType = iota
	IDENTIFIER
	EOF

	KEYWORD_BEGIN
	RETURN
	IF
	ELSE
	WHILE
	KEYWORD_END

	LEFT_PAREN
	RIGHT_PAREN
	LEFT_BRACE
	RIGHT_BRACE
	SEMICOLON

	binaryop_begin
	EQUAL
	PLUS
	MINUS
	STAR
	SLASH

	LESSER
	GREATER
	LESSER_EQUAL
	GREATER_EQUAL
	EQUAL_EQUAL
	BANG_EQUAL
	binaryop_end
)

var names = map[TokenType]string{
	INT:           "number",
	IDENTIFIER:    "identifier",
	EOF:           "end of input",
	RETURN:        "return",
	IF:            "if",
	ELSE:          "else",
	WHILE:         "while",
	LEFT_PAREN:    "(",
	RIGHT_PAREN:   ")",
	LEFT_BRACE:    "{",
	RIGHT_BRACE:   "}",
	SEMICOLON:     ";",
	EQUAL:         "=",
	PLUS:          "+",
	MINUS:         "-",
	STAR:          "*",
	SLASH:         "/",
	LESSER:        "<",
	GREATER:       ">",
	LESSER_EQUAL:  "<=",
	GREATER_EQUAL: ">=",
	EQUAL_EQUAL:   "==",
	BANG_EQUAL:    "!=",
}

func (t TokenType) String() string {
	if name, ok := names[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

func (t TokenType) IsBinaryOperator() bool {
	return t > binaryop_begin && t < binaryop_end
}

func (t TokenType) IsKeyword() bool {
	return t > KEYWORD_BEGIN && t < KEYWORD_END
}

// Token is a lexeme together with its byte offset in the source. Value is
// only meaningful for INT tokens.
type Token struct {
	Lexeme string
	Type   TokenType
	Offset int
	Value  int64
}

func (t Token) Len() int {
	return len(t.Lexeme)
}

func (t Token) String() string {
	if t.Type == INT {
		return fmt.Sprintf("%s(%d)@%d", t.Type, t.Value, t.Offset)
	}
	return fmt.Sprintf("%q@%d", t.Lexeme, t.Offset)
}

// Keywords are listed in the same order as the keyword block above.
var Keywords = [...]string{
	"return",
	"if",
	"else",
	"while",
}

// Operators holds every punctuator, two-character ones first so that a
// longest-match scan over the slice finds `<=` before `<`.
var Operators = [...]struct {
	Text string
	Type TokenType
}{
	{"==", EQUAL_EQUAL},
	{"!=", BANG_EQUAL},
	{"<=", LESSER_EQUAL},
	{">=", GREATER_EQUAL},
	{"+", PLUS},
	{"-", MINUS},
	{"*", STAR},
	{"/", SLASH},
	{"(", LEFT_PAREN},
	{")", RIGHT_PAREN},
	{"<", LESSER},
	{">", GREATER},
	{"=", EQUAL},
	{";", SEMICOLON},
	{"{", LEFT_BRACE},
	{"}", RIGHT_BRACE},
}
