package lexer

import (
	"strconv"
	"strings"

	"github.com/kartiknair/mcc/pkg/diag"
	"github.com/kartiknair/mcc/pkg/token"
)

type Lexer struct {
	start   int
	current int
	source  string
	tokens  []token.Token
}

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

func (l *Lexer) advance() byte {
	l.current++
	return l.source[l.current-1]
}

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.current]
}

func (l *Lexer) addToken(typ token.TokenType) {
	l.tokens = append(l.tokens, token.Token{
		Lexeme: l.source[l.start:l.current],
		Type:   typ,
		Offset: l.start,
	})
}

func isDigit(b byte) bool {
	return '0' <= b && b <= '9'
}

func isLower(b byte) bool {
	return 'a' <= b && b <= 'z'
}

func isAlphaNumeric(b byte) bool {
	return isLower(b) || ('A' <= b && b <= 'Z') || isDigit(b) || b == '_'
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func (l *Lexer) lexNumber() error {
	for isDigit(l.peek()) {
		l.advance()
	}

	text := l.source[l.start:l.current]
	value, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return diag.Errorf(diag.Lexical, l.start, "Integer literal `%s` is out of range.", text)
	}

	l.addToken(token.INT)
	l.tokens[len(l.tokens)-1].Value = value
	return nil
}

// lexKeyword matches a keyword only when the next byte cannot continue an
// identifier, so `iffy` and `return_` stay identifiers.
func (l *Lexer) lexKeyword() bool {
	rest := l.source[l.start:]
	for i, kw := range token.Keywords {
		if !strings.HasPrefix(rest, kw) {
			continue
		}
		if len(rest) > len(kw) && isAlphaNumeric(rest[len(kw)]) {
			continue
		}
		l.current = l.start + len(kw)
		l.addToken(token.TokenType(int(token.KEYWORD_BEGIN) + i + 1))
		return true
	}
	return false
}

func (l *Lexer) lexIdent() {
	for isLower(l.peek()) {
		l.advance()
	}
	l.addToken(token.IDENTIFIER)
}

func (l *Lexer) lexOperator() bool {
	rest := l.source[l.start:]
	for _, op := range token.Operators {
		if strings.HasPrefix(rest, op.Text) {
			l.current = l.start + len(op.Text)
			l.addToken(op.Type)
			return true
		}
	}
	return false
}

func (l *Lexer) ScanToken() error {
	c := l.peek()

	switch {
	case isSpace(c):
		l.advance()
	case l.lexOperator():
	case isDigit(c):
		return l.lexNumber()
	case l.lexKeyword():
	case isLower(c):
		l.lexIdent()
	default:
		return diag.Errorf(diag.Lexical, l.start, "Unexpected character: `%c`.", c)
	}

	return nil
}

// Lex splits source into tokens. The returned slice always ends with an
// EOF token positioned at len(source).
func Lex(source string) ([]token.Token, error) {
	l := Lexer{source: source}

	for !l.isAtEnd() {
		// we are at the beginning of the next lexeme.
		l.start = l.current
		if err := l.ScanToken(); err != nil {
			return nil, err
		}
	}

	l.start = l.current
	l.addToken(token.EOF)
	return l.tokens, nil
}
