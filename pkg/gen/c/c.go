package cgen

import (
	"fmt"
	"strings"

	"github.com/kartiknair/mcc/pkg/analyzer"
	"github.com/kartiknair/mcc/pkg/ast"
	"github.com/kartiknair/mcc/pkg/diag"
)

// Source identifiers are lowercase letters only, so `mcc_<name>` never
// contains a second underscore and cannot meet the generated names below,
// nor a C keyword.
func localName(name string) string {
	return "mcc_" + name
}

// resultName holds the value of the last top-level expression statement.
const resultName = "mcc_last_value"

// Callees get a C name of their own and keep their real symbol through an
// asm label, so `for()` or `result()` still link against `for`/`result`.
func calleeName(name string) string {
	return "mcc_fn_" + name
}

func genStatement(stmt ast.Statement) (string, error) {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		expr, err := genExpression(s.Expression)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s;", expr), nil
	case *ast.ReturnStatement:
		expr, err := genExpression(s.Expression)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("return (int)%s;", expr), nil
	case *ast.IfStatement:
		return genIfStatement(s)
	case *ast.WhileStatement:
		cond, err := genExpression(s.Condition)
		if err != nil {
			return "", err
		}
		body, err := genStatement(s.Body)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("while (%s) %s", cond, body), nil
	case *ast.BlockStatement:
		return genBlockStatement(s)
	}

	return "", diag.Internalf("Statement node has invalid static type %T.", stmt)
}

func genIfStatement(s *ast.IfStatement) (string, error) {
	cond, err := genExpression(s.Condition)
	if err != nil {
		return "", err
	}
	then, err := genStatement(s.Then)
	if err != nil {
		return "", err
	}

	if s.Else == nil {
		return fmt.Sprintf("if (%s) %s", cond, then), nil
	}

	elseStmt, err := genStatement(s.Else)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("if (%s) %s else %s", cond, then, elseStmt), nil
}

func genBlockStatement(blockStmt *ast.BlockStatement) (string, error) {
	gennedStatements := ""
	for _, statement := range blockStmt.Statements {
		genned, err := genStatement(statement)
		if err != nil {
			return "", err
		}
		gennedStatements += genned
	}
	return fmt.Sprintf("{%s}", gennedStatements), nil
}

func genExpression(expr ast.Expression) (string, error) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return fmt.Sprintf("%dL", e.Value), nil
	case *ast.VariableExpression:
		return localName(e.Identifier.Lexeme), nil
	case *ast.CallExpression:
		if e.Callee.Lexeme == "main" {
			return "(long)main()", nil
		}
		return fmt.Sprintf("%s()", calleeName(e.Callee.Lexeme)), nil
	case *ast.AssignExpression:
		target, ok := e.Target.(*ast.VariableExpression)
		if !ok {
			return "", diag.Internalf("Left side of assignment is not a variable (%T).", e.Target)
		}
		value, err := genExpression(e.Value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s = %s)", localName(target.Identifier.Lexeme), value), nil
	case *ast.BinaryExpression:
		left, err := genExpression(e.Left)
		if err != nil {
			return "", err
		}
		right, err := genExpression(e.Right)
		if err != nil {
			return "", err
		}
		// Comparisons yield int in C; widen so every value stays a long.
		if e.Op.IsComparison() {
			return fmt.Sprintf("(long)(%s %s %s)", left, e.Op, right), nil
		}
		return fmt.Sprintf("(%s %s %s)", left, e.Op, right), nil
	}

	return "", diag.Internalf("Expression node has invalid static type %T.", expr)
}

func Gen(m *ast.Program) (string, error) {
	var b strings.Builder

	for _, name := range analyzer.Callees(m) {
		if name != "main" {
			fmt.Fprintf(&b, "long %s(void) __asm__(\"%s\");\n", calleeName(name), name)
		}
	}

	b.WriteString("int main(void) {\n")
	for _, local := range m.Locals.Locals() {
		fmt.Fprintf(&b, "long %s = 0;\n", localName(local.Name))
	}
	fmt.Fprintf(&b, "long %s = 0;\n", resultName)

	for _, statement := range m.Statements {
		if exprStmt, ok := statement.(*ast.ExpressionStatement); ok {
			expr, err := genExpression(exprStmt.Expression)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&b, "%s = %s;\n", resultName, expr)
			continue
		}

		genned, err := genStatement(statement)
		if err != nil {
			return "", err
		}
		b.WriteString(genned)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "return (int)%s;\n}\n", resultName)
	return b.String(), nil
}
