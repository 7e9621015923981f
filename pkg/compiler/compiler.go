// Package compiler strings the stages together: lex, parse, analyze and
// generate.
package compiler

import (
	"fmt"
	"time"

	"github.com/alecthomas/repr"

	"github.com/kartiknair/mcc/pkg/analyzer"
	"github.com/kartiknair/mcc/pkg/ast"
	"github.com/kartiknair/mcc/pkg/gen"
	"github.com/kartiknair/mcc/pkg/lexer"
	"github.com/kartiknair/mcc/pkg/logger"
	"github.com/kartiknair/mcc/pkg/parser"
)

type Options struct {
	// Path is only used for diagnostics and the LLVM source_filename.
	Path    string
	Backend gen.Backend
}

type Result struct {
	Program *ast.Program
	Output  string
}

// Parse runs the front end (lexer, parser and analyzer) over source.
func Parse(path string, source string) (*ast.Program, error) {
	m := ast.NewProgram(path, source)

	start := time.Now()
	logger.LogPhase("lex")
	tokens, err := lexer.Lex(source)
	if err != nil {
		logger.LogCompileFailed("lex", err)
		return nil, err
	}
	m.Tokens = tokens
	logger.LogPhaseComplete("lex", start, "tokens", len(tokens))

	start = time.Now()
	logger.LogPhase("parse")
	if err := parser.Parse(m); err != nil {
		logger.LogCompileFailed("parse", err)
		return nil, err
	}
	logger.LogPhaseComplete("parse", start, "statements", len(m.Statements), "locals", m.Locals.Len())

	start = time.Now()
	logger.LogPhase("analyze")
	if err := analyzer.Analyze(m); err != nil {
		logger.LogCompileFailed("analyze", err)
		return nil, err
	}
	logger.LogPhaseComplete("analyze", start)

	return m, nil
}

func Compile(source string, opts Options) (*Result, error) {
	m, err := Parse(opts.Path, source)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	phase := "gen-" + opts.Backend.String()
	logger.LogPhase(phase)
	output, err := gen.Gen(m, opts.Backend)
	if err != nil {
		logger.LogCompileFailed(phase, err)
		return nil, err
	}
	logger.LogPhaseComplete(phase, start, "bytes", len(output))

	return &Result{Program: m, Output: output}, nil
}

type DumpKind int

const (
	DumpTokens DumpKind = iota
	DumpAST
	DumpLocals
)

func ParseDumpKind(name string) (DumpKind, error) {
	switch name {
	case "tokens", "token":
		return DumpTokens, nil
	case "ast", "node", "nodes":
		return DumpAST, nil
	case "locals", "lvar":
		return DumpLocals, nil
	}
	return 0, fmt.Errorf("unknown dump %q (want tokens, ast or locals)", name)
}

// Dump renders one intermediate stage of the pipeline for debugging.
func Dump(path string, source string, kind DumpKind) (string, error) {
	if kind == DumpTokens {
		tokens, err := lexer.Lex(source)
		if err != nil {
			return "", err
		}
		return repr.String(tokens, repr.Indent("  ")), nil
	}

	m, err := Parse(path, source)
	if err != nil {
		return "", err
	}
	if kind == DumpLocals {
		return repr.String(m.Locals.Locals(), repr.Indent("  ")), nil
	}
	return repr.String(m.Statements, repr.Indent("  "), repr.OmitEmpty(true)), nil
}
