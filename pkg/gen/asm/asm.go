// Package asmgen emits x86-64 assembly (Intel syntax) that evaluates the
// program on the machine stack: every expression pushes exactly one word and
// every operator pops its operands, right first.
package asmgen

import (
	"fmt"
	"math"
	"strings"

	"github.com/kartiknair/mcc/pkg/ast"
	"github.com/kartiknair/mcc/pkg/diag"
)

type Generator struct {
	out strings.Builder

	// labels disambiguates control-flow labels. It only ever grows within
	// one Generator, so nested and sibling statements never collide.
	labels int
	// depth counts words pushed above the frame; it is used to keep rsp
	// 16-byte aligned at call sites and to check that every top-level
	// statement leaves the stack as it found it.
	depth int
}

func New() *Generator {
	return &Generator{}
}

func (g *Generator) emit(format string, args ...interface{}) {
	fmt.Fprintf(&g.out, "  "+format+"\n", args...)
}

func (g *Generator) label(format string, args ...interface{}) {
	fmt.Fprintf(&g.out, format+":\n", args...)
}

func (g *Generator) push(operand string) {
	g.emit("push %s", operand)
	g.depth++
}

func (g *Generator) pop(register string) {
	g.emit("pop %s", register)
	g.depth--
}

func (g *Generator) nextLabel() int {
	n := g.labels
	g.labels++
	return n
}

// genAddress pushes the address of an lvalue. Only variables have one; the
// analyzer rejects anything else, so reaching the error is a compiler bug.
func (g *Generator) genAddress(expr ast.Expression) error {
	v, ok := expr.(*ast.VariableExpression)
	if !ok {
		return diag.Internalf("Left side of assignment is not a variable (%T).", expr)
	}
	if v.Local == nil {
		return diag.Internalf("Variable `%s` was never bound to a frame slot.", v.Identifier.Lexeme)
	}

	g.emit("mov rax, rbp")
	g.emit("sub rax, %d", v.Local.Offset)
	g.push("rax")
	return nil
}

var binaryInstructions = map[ast.BinaryOp][]string{
	ast.Add: {"add rax, rdi"},
	ast.Sub: {"sub rax, rdi"},
	ast.Mul: {"imul rax, rdi"},
	ast.Div: {"cqo", "idiv rdi"},
	ast.Eq:  {"cmp rax, rdi", "sete al", "movzb rax, al"},
	ast.Ne:  {"cmp rax, rdi", "setne al", "movzb rax, al"},
	ast.Lt:  {"cmp rax, rdi", "setl al", "movzb rax, al"},
	ast.Le:  {"cmp rax, rdi", "setle al", "movzb rax, al"},
}

func (g *Generator) genExpression(expr ast.Expression) error {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		// push only takes a sign-extended 32-bit immediate.
		if e.Value < math.MinInt32 || e.Value > math.MaxInt32 {
			g.emit("mov rax, %d", e.Value)
			g.push("rax")
			return nil
		}
		g.push(fmt.Sprint(e.Value))
		return nil
	case *ast.VariableExpression:
		if err := g.genAddress(e); err != nil {
			return err
		}
		g.pop("rax")
		g.emit("mov rax, [rax]")
		g.push("rax")
		return nil
	case *ast.AssignExpression:
		if err := g.genAddress(e.Target); err != nil {
			return err
		}
		if err := g.genExpression(e.Value); err != nil {
			return err
		}
		g.pop("rdi")
		g.pop("rax")
		g.emit("mov [rax], rdi")
		g.push("rdi")
		return nil
	case *ast.CallExpression:
		g.emit("mov rax, 0")
		if g.depth%2 == 1 {
			g.emit("sub rsp, 8")
			g.emit("call %s", e.Callee.Lexeme)
			g.emit("add rsp, 8")
		} else {
			g.emit("call %s", e.Callee.Lexeme)
		}
		g.push("rax")
		return nil
	case *ast.BinaryExpression:
		instructions, ok := binaryInstructions[e.Op]
		if !ok {
			return diag.Internalf("Binary operator %s is not recognized.", e.Op)
		}
		if err := g.genExpression(e.Left); err != nil {
			return err
		}
		if err := g.genExpression(e.Right); err != nil {
			return err
		}
		g.pop("rdi")
		g.pop("rax")
		for _, inst := range instructions {
			g.emit("%s", inst)
		}
		g.push("rax")
		return nil
	}

	return diag.Internalf("Expression node has invalid static type %T.", expr)
}

// genCondition evaluates cond and leaves the flags set for `je` to branch
// when it is zero.
func (g *Generator) genCondition(cond ast.Expression) error {
	if err := g.genExpression(cond); err != nil {
		return err
	}
	g.pop("rax")
	g.emit("cmp rax, 0")
	return nil
}

// genDiscarded emits a nested statement and drops the word an expression
// statement leaves behind.
func (g *Generator) genDiscarded(stmt ast.Statement) error {
	if err := g.genStatement(stmt); err != nil {
		return err
	}
	if _, ok := stmt.(*ast.ExpressionStatement); ok {
		g.pop("rax")
	}
	return nil
}

func (g *Generator) genStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		return g.genExpression(s.Expression)
	case *ast.ReturnStatement:
		if err := g.genExpression(s.Expression); err != nil {
			return err
		}
		g.pop("rax")
		g.emit("mov rsp, rbp")
		g.emit("pop rbp")
		g.emit("ret")
		return nil
	case *ast.IfStatement:
		n := g.nextLabel()
		if err := g.genCondition(s.Condition); err != nil {
			return err
		}
		if s.Else == nil {
			g.emit("je .Lend%d", n)
			if err := g.genDiscarded(s.Then); err != nil {
				return err
			}
		} else {
			g.emit("je .Lelse%d", n)
			if err := g.genDiscarded(s.Then); err != nil {
				return err
			}
			g.emit("jmp .Lend%d", n)
			g.label(".Lelse%d", n)
			if err := g.genDiscarded(s.Else); err != nil {
				return err
			}
		}
		g.label(".Lend%d", n)
		return nil
	case *ast.WhileStatement:
		n := g.nextLabel()
		g.label(".Lbegin%d", n)
		if err := g.genCondition(s.Condition); err != nil {
			return err
		}
		g.emit("je .Lend%d", n)
		if err := g.genDiscarded(s.Body); err != nil {
			return err
		}
		g.emit("jmp .Lbegin%d", n)
		g.label(".Lend%d", n)
		return nil
	case *ast.BlockStatement:
		for _, child := range s.Statements {
			if err := g.genDiscarded(child); err != nil {
				return err
			}
		}
		return nil
	}

	return diag.Internalf("Statement node has invalid static type %T.", stmt)
}

func (g *Generator) Prologue(frameSize int) {
	g.out.WriteString(".intel_syntax noprefix\n")
	g.out.WriteString(".globl main\n")
	g.label("main")
	g.emit("push rbp")
	g.emit("mov rbp, rsp")
	g.emit("sub rsp, %d", frameSize)
}

// Statement emits one top-level statement followed by the discard of its
// result, leaving the last expression value in rax.
func (g *Generator) Statement(stmt ast.Statement) error {
	if err := g.genDiscarded(stmt); err != nil {
		return err
	}
	if g.depth != 0 {
		return diag.Internalf("Stack depth is %d after a top-level statement.", g.depth)
	}
	return nil
}

func (g *Generator) Epilogue() {
	g.emit("mov rsp, rbp")
	g.emit("pop rbp")
	g.emit("ret")
}

func (g *Generator) String() string {
	return g.out.String()
}

func Gen(m *ast.Program) (string, error) {
	g := New()

	g.Prologue(m.Locals.FrameSize())
	for _, statement := range m.Statements {
		if err := g.Statement(statement); err != nil {
			return "", err
		}
	}
	g.Epilogue()

	return g.String(), nil
}
