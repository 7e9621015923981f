package llvmgen

import (
	"fmt"

	"github.com/kartiknair/mcc/pkg/analyzer"
	"github.com/kartiknair/mcc/pkg/ast"
	"github.com/kartiknair/mcc/pkg/diag"
	"github.com/kartiknair/mcc/pkg/symtab"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Every value in the language is a 64-bit signed integer.
var word = types.I64

type generator struct {
	module *ir.Module
	main   *ir.Func
	block  *ir.Block

	locals  map[*symtab.Local]*ir.InstAlloca
	callees map[string]*ir.Func
	// result holds the value of the last top-level expression statement,
	// which main returns when control falls off the end.
	result *ir.InstAlloca
	labels int
}

func (g *generator) nextLabel() int {
	n := g.labels
	g.labels++
	return n
}

func (g *generator) genAddress(expr ast.Expression) (value.Value, error) {
	v, ok := expr.(*ast.VariableExpression)
	if !ok {
		return nil, diag.Internalf("Left side of assignment is not a variable (%T).", expr)
	}
	slot, ok := g.locals[v.Local]
	if !ok {
		return nil, diag.Internalf("Variable `%s` has no stack slot.", v.Identifier.Lexeme)
	}
	return slot, nil
}

var predicates = map[ast.BinaryOp]enum.IPred{
	ast.Eq: enum.IPredEQ,
	ast.Ne: enum.IPredNE,
	ast.Lt: enum.IPredSLT,
	ast.Le: enum.IPredSLE,
}

func (g *generator) genBinary(e *ast.BinaryExpression) (value.Value, error) {
	left, err := g.genExpression(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := g.genExpression(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case ast.Add:
		return g.block.NewAdd(left, right), nil
	case ast.Sub:
		return g.block.NewSub(left, right), nil
	case ast.Mul:
		return g.block.NewMul(left, right), nil
	case ast.Div:
		return g.block.NewSDiv(left, right), nil
	}

	pred, ok := predicates[e.Op]
	if !ok {
		return nil, diag.Internalf("Binary operator %s is not recognized.", e.Op)
	}
	return g.block.NewZExt(g.block.NewICmp(pred, left, right), word), nil
}

func (g *generator) genExpression(expr ast.Expression) (value.Value, error) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return constant.NewInt(word, e.Value), nil
	case *ast.VariableExpression:
		slot, err := g.genAddress(e)
		if err != nil {
			return nil, err
		}
		return g.block.NewLoad(word, slot), nil
	case *ast.AssignExpression:
		slot, err := g.genAddress(e.Target)
		if err != nil {
			return nil, err
		}
		v, err := g.genExpression(e.Value)
		if err != nil {
			return nil, err
		}
		g.block.NewStore(v, slot)
		return v, nil
	case *ast.CallExpression:
		if e.Callee.Lexeme == g.main.Name() {
			return g.block.NewSExt(g.block.NewCall(g.main), word), nil
		}
		return g.block.NewCall(g.callee(e.Callee.Lexeme)), nil
	case *ast.BinaryExpression:
		return g.genBinary(e)
	}

	return nil, diag.Internalf("Expression node has invalid static type %T.", expr)
}

// callee returns the declaration for an external zero-argument function,
// creating it on first use.
func (g *generator) callee(name string) *ir.Func {
	if f, ok := g.callees[name]; ok {
		return f
	}
	f := g.module.NewFunc(name, word)
	g.callees[name] = f
	return f
}

func (g *generator) genCondition(cond ast.Expression) (value.Value, error) {
	v, err := g.genExpression(cond)
	if err != nil {
		return nil, err
	}
	return g.block.NewICmp(enum.IPredNE, v, constant.NewInt(word, 0)), nil
}

// branchTo terminates the current block with a jump unless a return already
// terminated it.
func (g *generator) branchTo(target *ir.Block) {
	if g.block.Term == nil {
		g.block.NewBr(target)
	}
}

func (g *generator) genStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		_, err := g.genExpression(s.Expression)
		return err
	case *ast.ReturnStatement:
		v, err := g.genExpression(s.Expression)
		if err != nil {
			return err
		}
		g.block.NewRet(g.block.NewTrunc(v, types.I32))
		// Anything after a return is unreachable but still has to live in
		// a block of its own.
		g.block = g.main.NewBlock(fmt.Sprintf("dead.%d", g.nextLabel()))
		return nil
	case *ast.IfStatement:
		n := g.nextLabel()
		cond, err := g.genCondition(s.Condition)
		if err != nil {
			return err
		}

		thenBlock := g.main.NewBlock(fmt.Sprintf("then.%d", n))
		endBlock := g.main.NewBlock(fmt.Sprintf("end.%d", n))
		if s.Else != nil {
			elseBlock := g.main.NewBlock(fmt.Sprintf("else.%d", n))
			g.block.NewCondBr(cond, thenBlock, elseBlock)
			g.block = elseBlock
			if err := g.genStatement(s.Else); err != nil {
				return err
			}
			g.branchTo(endBlock)
		} else {
			g.block.NewCondBr(cond, thenBlock, endBlock)
		}

		g.block = thenBlock
		if err := g.genStatement(s.Then); err != nil {
			return err
		}
		g.branchTo(endBlock)

		g.block = endBlock
		return nil
	case *ast.WhileStatement:
		n := g.nextLabel()
		beginBlock := g.main.NewBlock(fmt.Sprintf("begin.%d", n))
		bodyBlock := g.main.NewBlock(fmt.Sprintf("body.%d", n))
		endBlock := g.main.NewBlock(fmt.Sprintf("end.%d", n))

		g.block.NewBr(beginBlock)
		g.block = beginBlock
		cond, err := g.genCondition(s.Condition)
		if err != nil {
			return err
		}
		g.block.NewCondBr(cond, bodyBlock, endBlock)

		g.block = bodyBlock
		if err := g.genStatement(s.Body); err != nil {
			return err
		}
		g.branchTo(beginBlock)

		g.block = endBlock
		return nil
	case *ast.BlockStatement:
		for _, child := range s.Statements {
			if err := g.genStatement(child); err != nil {
				return err
			}
		}
		return nil
	}

	return diag.Internalf("Statement node has invalid static type %T.", stmt)
}

// genTopLevel is genStatement plus recording the value of expression
// statements, mirroring the stack machine leaving it in rax.
func (g *generator) genTopLevel(stmt ast.Statement) error {
	exprStmt, ok := stmt.(*ast.ExpressionStatement)
	if !ok {
		return g.genStatement(stmt)
	}
	v, err := g.genExpression(exprStmt.Expression)
	if err != nil {
		return err
	}
	g.block.NewStore(v, g.result)
	return nil
}

func Gen(m *ast.Program) (string, error) {
	g := generator{
		module:  ir.NewModule(),
		locals:  make(map[*symtab.Local]*ir.InstAlloca),
		callees: make(map[string]*ir.Func),
	}
	g.module.SourceFilename = m.Path

	// Declare callees up front so they precede main in the output.
	for _, name := range analyzer.Callees(m) {
		if name != "main" {
			g.callee(name)
		}
	}

	g.main = g.module.NewFunc("main", types.I32)
	g.block = g.main.NewBlock("mcc.entry")

	zero := constant.NewInt(word, 0)
	g.result = g.block.NewAlloca(word)
	g.result.SetName("mcc.result")
	g.block.NewStore(zero, g.result)
	for _, local := range m.Locals.Locals() {
		slot := g.block.NewAlloca(word)
		slot.SetName(local.Name)
		g.block.NewStore(zero, slot)
		g.locals[local] = slot
	}

	for _, statement := range m.Statements {
		if err := g.genTopLevel(statement); err != nil {
			return "", err
		}
	}

	if g.block.Term == nil {
		last := g.block.NewLoad(word, g.result)
		g.block.NewRet(g.block.NewTrunc(last, types.I32))
	}

	return g.module.String(), nil
}
