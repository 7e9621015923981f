package ast

import (
	"fmt"

	"github.com/kartiknair/mcc/pkg/symtab"
	"github.com/kartiknair/mcc/pkg/token"
)

// Program is one compilation unit. The parser fills Statements and Locals;
// backends only read them.
type Program struct {
	Path       string
	Source     string
	Tokens     []token.Token
	Statements []Statement
	Locals     *symtab.Table
}

func NewProgram(path string, source string) *Program {
	return &Program{
		Path:   path,
		Source: source,
		Locals: symtab.New(),
	}
}

type Statement interface {
	isStatement()
}

type ReturnStatement struct {
	Expression Expression

	ReturnToken token.Token
}

type IfStatement struct {
	Condition Expression
	Then      Statement
	Else      Statement // nil when there is no else branch

	IfToken token.Token
}

type WhileStatement struct {
	Condition Expression
	Body      Statement

	WhileToken token.Token
}

// BlockStatement owns its statements; generators walk the slice once.
type BlockStatement struct {
	Statements []Statement

	LeftBraceToken token.Token
}

type ExpressionStatement struct {
	Expression Expression
}

func (*ReturnStatement) isStatement()     {}
func (*IfStatement) isStatement()         {}
func (*WhileStatement) isStatement()      {}
func (*BlockStatement) isStatement()      {}
func (*ExpressionStatement) isStatement() {}

type Expression interface {
	isExpression()
	ErrorToken() token.Token
}

type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Eq
	Ne
	Lt
	Le
)

var binaryOpNames = [...]string{
	Add: "+",
	Sub: "-",
	Mul: "*",
	Div: "/",
	Eq:  "==",
	Ne:  "!=",
	Lt:  "<",
	Le:  "<=",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return fmt.Sprintf("BinaryOp(%d)", int(op))
}

func (op BinaryOp) IsComparison() bool {
	return op >= Eq
}

type NumberLiteral struct {
	Value int64

	Token token.Token
}

type BinaryExpression struct {
	Op    BinaryOp
	Left  Expression
	Right Expression

	Operator token.Token
}

type VariableExpression struct {
	Identifier token.Token
	Local      *symtab.Local
}

type AssignExpression struct {
	Target Expression
	Value  Expression

	EqualToken token.Token
}

type CallExpression struct {
	Callee token.Token
}

func (*NumberLiteral) isExpression()      {}
func (*BinaryExpression) isExpression()   {}
func (*VariableExpression) isExpression() {}
func (*AssignExpression) isExpression()   {}
func (*CallExpression) isExpression()     {}

func (n *NumberLiteral) ErrorToken() token.Token {
	return n.Token
}

func (b *BinaryExpression) ErrorToken() token.Token {
	return b.Operator
}

func (v *VariableExpression) ErrorToken() token.Token {
	return v.Identifier
}

func (a *AssignExpression) ErrorToken() token.Token {
	return a.EqualToken
}

func (c *CallExpression) ErrorToken() token.Token {
	return c.Callee
}
