package parser

import (
	"github.com/kartiknair/mcc/pkg/ast"
	"github.com/kartiknair/mcc/pkg/diag"
	"github.com/kartiknair/mcc/pkg/token"
)

// Parser consumes Program.Tokens one statement at a time and declares
// locals in Program.Locals as it meets them.
type Parser struct {
	current int

	Program *ast.Program
}

func New(p *ast.Program) *Parser {
	return &Parser{Program: p}
}

func (p *Parser) peek(distance int) token.Token {
	return p.Program.Tokens[p.current+distance]
}

func (p *Parser) check(typ token.TokenType) bool {
	return p.peek(0).Type == typ
}

// match consumes the current token if it has the given type.
func (p *Parser) match(typ token.TokenType) bool {
	if !p.check(typ) {
		return false
	}
	p.current++
	return true
}

func (p *Parser) expect(typ token.TokenType) (token.Token, error) {
	t := p.peek(0)
	if t.Type != typ {
		return t, diag.Expected(t.Offset, typ.String(), describe(t))
	}

	p.current++
	return t, nil
}

func describe(t token.Token) string {
	if t.Type == token.EOF {
		return t.Type.String()
	}
	return t.Lexeme
}

func (p *Parser) AtEnd() bool {
	return p.check(token.EOF)
}

// Next parses a single statement. It must not be called once AtEnd
// reports true.
func (p *Parser) Next() (ast.Statement, error) {
	return p.parseStatement()
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	t := p.peek(0)

	switch t.Type {
	case token.RETURN:
		p.current++
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMICOLON); err != nil {
			return nil, err
		}
		return &ast.ReturnStatement{
			Expression:  expr,
			ReturnToken: t,
		}, nil
	case token.LEFT_BRACE:
		block, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return block, nil
	case token.IF:
		p.current++
		condition, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		then, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		stmt := &ast.IfStatement{
			Condition: condition,
			Then:      then,
			IfToken:   t,
		}
		if p.match(token.ELSE) {
			stmt.Else, err = p.parseStatement()
			if err != nil {
				return nil, err
			}
		}
		return stmt, nil
	case token.WHILE:
		p.current++
		condition, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		body, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		return &ast.WhileStatement{
			Condition:  condition,
			Body:       body,
			WhileToken: t,
		}, nil
	}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.ExpressionStatement{
		Expression: expr,
	}, nil
}

// parseCondition parses the parenthesised condition of `if` and `while`.
func (p *Parser) parseCondition() (ast.Expression, error) {
	if _, err := p.expect(token.LEFT_PAREN); err != nil {
		return nil, err
	}
	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RIGHT_PAREN); err != nil {
		return nil, err
	}
	return condition, nil
}

func (p *Parser) parseBlock() (*ast.BlockStatement, error) {
	leftBrace, err := p.expect(token.LEFT_BRACE)
	if err != nil {
		return nil, err
	}

	statements := []ast.Statement{}
	for !p.check(token.RIGHT_BRACE) {
		if p.AtEnd() {
			return nil, diag.Expected(p.peek(0).Offset, token.RIGHT_BRACE.String(), describe(p.peek(0)))
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	p.current++ // skip the `}`

	return &ast.BlockStatement{
		Statements:     statements,
		LeftBraceToken: leftBrace,
	}, nil
}

func (p *Parser) parseExpression() (ast.Expression, error) {
	return p.parseAssign()
}

// assign = equality ("=" assign)?
func (p *Parser) parseAssign() (ast.Expression, error) {
	target, err := p.parseEquality()
	if err != nil {
		return nil, err
	}

	if p.check(token.EQUAL) {
		equal := p.peek(0)
		p.current++
		value, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		return &ast.AssignExpression{
			Target:     target,
			Value:      value,
			EqualToken: equal,
		}, nil
	}

	return target, nil
}

var (
	equalityOps = map[token.TokenType]ast.BinaryOp{
		token.EQUAL_EQUAL: ast.Eq,
		token.BANG_EQUAL:  ast.Ne,
	}
	// `>` and `>=` have no node kind of their own: the operands are
	// exchanged and the `<` / `<=` kinds reused.
	relationalOps = map[token.TokenType]ast.BinaryOp{
		token.LESSER:        ast.Lt,
		token.LESSER_EQUAL:  ast.Le,
		token.GREATER:       ast.Lt,
		token.GREATER_EQUAL: ast.Le,
	}
	addOps = map[token.TokenType]ast.BinaryOp{
		token.PLUS:  ast.Add,
		token.MINUS: ast.Sub,
	}
	mulOps = map[token.TokenType]ast.BinaryOp{
		token.STAR:  ast.Mul,
		token.SLASH: ast.Div,
	}
)

// parseBinary parses one left-associative precedence level whose operands
// are produced by next.
func (p *Parser) parseBinary(
	ops map[token.TokenType]ast.BinaryOp,
	next func() (ast.Expression, error),
) (ast.Expression, error) {
	lhs, err := next()
	if err != nil {
		return nil, err
	}

	for {
		operator := p.peek(0)
		op, ok := ops[operator.Type]
		if !ok {
			return lhs, nil
		}
		p.current++

		rhs, err := next()
		if err != nil {
			return nil, err
		}

		if operator.Type == token.GREATER || operator.Type == token.GREATER_EQUAL {
			lhs, rhs = rhs, lhs
		}
		lhs = &ast.BinaryExpression{Op: op, Left: lhs, Right: rhs, Operator: operator}
	}
}

// equality = relational (("==" | "!=") relational)*
func (p *Parser) parseEquality() (ast.Expression, error) {
	return p.parseBinary(equalityOps, p.parseRelational)
}

// relational = add (("<" | "<=" | ">" | ">=") add)*
func (p *Parser) parseRelational() (ast.Expression, error) {
	return p.parseBinary(relationalOps, p.parseAdd)
}

// add = mul (("+" | "-") mul)*
func (p *Parser) parseAdd() (ast.Expression, error) {
	return p.parseBinary(addOps, p.parseMul)
}

// mul = unary (("*" | "/") unary)*
func (p *Parser) parseMul() (ast.Expression, error) {
	return p.parseBinary(mulOps, p.parseUnary)
}

// unary = ("+" | "-")? primary
func (p *Parser) parseUnary() (ast.Expression, error) {
	if p.match(token.PLUS) {
		return p.parsePrimary()
	}

	if p.check(token.MINUS) {
		minus := p.peek(0)
		p.current++
		operand, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpression{
			Op:       ast.Sub,
			Left:     &ast.NumberLiteral{Value: 0, Token: minus},
			Right:    operand,
			Operator: minus,
		}, nil
	}

	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	t := p.peek(0)

	switch t.Type {
	case token.LEFT_PAREN:
		p.current++
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RIGHT_PAREN); err != nil {
			return nil, err
		}
		return expr, nil
	case token.IDENTIFIER:
		p.current++
		if p.check(token.LEFT_PAREN) {
			return p.parseCall(t)
		}
		return &ast.VariableExpression{
			Identifier: t,
			Local:      p.Program.Locals.Resolve(t.Lexeme),
		}, nil
	case token.INT:
		p.current++
		return &ast.NumberLiteral{Value: t.Value, Token: t}, nil
	}

	return nil, diag.Errorf(diag.Syntax, t.Offset, "Expected expression, found `%s`.", describe(t))
}

// parseCall parses `name()`; the cursor sits on the `(`.
func (p *Parser) parseCall(callee token.Token) (ast.Expression, error) {
	p.current++ // skip the `(`

	next := p.peek(0)
	switch next.Type {
	case token.RIGHT_PAREN:
		p.current++
		return &ast.CallExpression{Callee: callee}, nil
	case token.EOF, token.SEMICOLON:
		return nil, diag.Expected(next.Offset, token.RIGHT_PAREN.String(), describe(next))
	}

	return nil, diag.Errorf(
		diag.Semantic, next.Offset,
		"Function `%s` called with arguments; only zero-argument calls are supported.",
		callee.Lexeme,
	)
}

// Parse parses every statement of m.Tokens into m.Statements.
func Parse(m *ast.Program) error {
	p := New(m)

	result := []ast.Statement{}
	for !p.AtEnd() {
		stmt, err := p.Next()
		if err != nil {
			return err
		}
		result = append(result, stmt)
	}

	m.Statements = result
	return nil
}
