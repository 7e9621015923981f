package analyzer

import (
	"sort"

	"github.com/kartiknair/mcc/pkg/ast"
	"github.com/kartiknair/mcc/pkg/diag"
)

type Analyzer struct {
	Program *ast.Program

	callees map[string]bool
	// collecting skips the lvalue check so that every call in an
	// unanalyzed program is still reached.
	collecting bool
}

func (a *Analyzer) analysisError(expr ast.Expression, message string) error {
	return diag.Errorf(diag.Semantic, expr.ErrorToken().Offset, "%s", message)
}

func (a *Analyzer) analyzeExpression(expr ast.Expression) error {
	switch e := expr.(type) {
	case *ast.NumberLiteral, *ast.VariableExpression:
		return nil
	case *ast.CallExpression:
		a.callees[e.Callee.Lexeme] = true
		return nil
	case *ast.BinaryExpression:
		if err := a.analyzeExpression(e.Left); err != nil {
			return err
		}
		return a.analyzeExpression(e.Right)
	case *ast.AssignExpression:
		if _, ok := e.Target.(*ast.VariableExpression); !ok {
			if !a.collecting {
				return a.analysisError(e, "Target for assignment is not lvalue.")
			}
			if err := a.analyzeExpression(e.Target); err != nil {
				return err
			}
		}
		return a.analyzeExpression(e.Value)
	}

	return diag.Internalf("Expression node has invalid static type %T.", expr)
}

func (a *Analyzer) analyzeStatement(statement ast.Statement) error {
	switch s := statement.(type) {
	case *ast.ExpressionStatement:
		return a.analyzeExpression(s.Expression)
	case *ast.ReturnStatement:
		return a.analyzeExpression(s.Expression)
	case *ast.IfStatement:
		if err := a.analyzeExpression(s.Condition); err != nil {
			return err
		}
		if err := a.analyzeStatement(s.Then); err != nil {
			return err
		}
		if s.Else != nil {
			return a.analyzeStatement(s.Else)
		}
		return nil
	case *ast.WhileStatement:
		if err := a.analyzeExpression(s.Condition); err != nil {
			return err
		}
		return a.analyzeStatement(s.Body)
	case *ast.BlockStatement:
		for _, stmt := range s.Statements {
			if err := a.analyzeStatement(stmt); err != nil {
				return err
			}
		}
		return nil
	}

	return diag.Internalf("Statement node has invalid static type %T.", statement)
}

// Analyze checks a parsed program for errors the grammar cannot rule out,
// such as assigning to something that is not a variable.
func Analyze(m *ast.Program) error {
	a := Analyzer{
		Program: m,
		callees: make(map[string]bool),
	}

	for _, statement := range m.Statements {
		if err := a.analyzeStatement(statement); err != nil {
			return err
		}
	}

	return nil
}

// Callees returns the distinct function names called anywhere in m,
// sorted. Backends that must declare external functions use it. It does
// not require m to have passed Analyze; a root holding a node of unknown
// type is walked only up to that node, and the backend reports it.
func Callees(m *ast.Program) []string {
	a := Analyzer{
		Program:    m,
		callees:    make(map[string]bool),
		collecting: true,
	}
	for _, statement := range m.Statements {
		_ = a.analyzeStatement(statement)
	}

	names := make([]string, 0, len(a.callees))
	for name := range a.callees {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
