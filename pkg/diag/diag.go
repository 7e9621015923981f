// Package diag holds the error type every compiler stage reports through and
// the source-context rendering used by the command line driver.
package diag

import (
	"errors"
	"fmt"
	"strings"
)

type Kind int

const (
	Lexical Kind = iota
	Syntax
	Semantic
	// Internal marks a generator/parser mismatch rather than bad input.
	Internal
)

func (k Kind) String() string {
	switch k {
	case Lexical:
		return "lex-error"
	case Syntax:
		return "parse-error"
	case Semantic:
		return "semantic-error"
	case Internal:
		return "internal-error"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// NoOffset is used by errors that have no position in the source.
const NoOffset = -1

type Error struct {
	Kind    Kind
	Message string
	Offset  int

	// Expected names the token a Syntax error was looking for, if any.
	Expected string
}

func (e *Error) Error() string {
	if e.Offset == NoOffset {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %d: %s", e.Kind, e.Offset, e.Message)
}

func Errorf(kind Kind, offset int, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Offset: offset}
}

// Expected builds the Syntax error for a missing token.
func Expected(offset int, want string, found string) *Error {
	return &Error{
		Kind:     Syntax,
		Message:  fmt.Sprintf("Expected `%s`, found `%s`.", want, found),
		Offset:   offset,
		Expected: want,
	}
}

func Internalf(format string, args ...interface{}) *Error {
	return Errorf(Internal, NoOffset, format, args...)
}

// IsKind reports whether err is (or wraps) a diag error of the given kind.
func IsKind(err error, kind Kind) bool {
	var d *Error
	return errors.As(err, &d) && d.Kind == kind
}

// Position converts a byte offset into a 1-based line and column.
func Position(source string, offset int) (line, column int) {
	if offset > len(source) {
		offset = len(source)
	}
	line = 1 + strings.Count(source[:offset], "\n")
	column = offset - strings.LastIndex(source[:offset], "\n")
	return line, column
}

// SourceContext renders the line holding offset with a caret under the
// offending column:
//
//	   1 | a = 1 +;
//	     |        ^
func SourceContext(source string, offset int) string {
	if offset < 0 {
		return ""
	}
	lines := strings.Split(source, "\n")
	line, column := Position(source, offset)
	// CRLF input keeps its byte offsets; only the displayed line drops the \r.
	text := strings.TrimSuffix(lines[line-1], "\r")

	highlight := make([]byte, column)
	for i := 0; i < column-1; i++ {
		if i < len(text) && text[i] == '\t' {
			highlight[i] = '\t'
		} else {
			highlight[i] = ' '
		}
	}
	highlight[column-1] = '^'

	return fmt.Sprintf("%4d | %s\n     | %s", line, text, string(highlight))
}

// Render formats err for a terminal. Positioned errors get the source line
// and a caret; internal errors get the message alone.
func Render(source string, err error) string {
	var d *Error
	if !errors.As(err, &d) {
		return err.Error()
	}
	if d.Kind == Internal || d.Offset == NoOffset {
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}
	line, column := Position(source, d.Offset)
	return fmt.Sprintf("%s\n%s: %d:%d: %s", SourceContext(source, d.Offset), d.Kind, line, column, d.Message)
}
