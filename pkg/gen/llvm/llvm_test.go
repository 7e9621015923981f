package llvmgen

import (
	"strings"
	"testing"

	"github.com/llir/llvm/asm"

	"github.com/kartiknair/mcc/pkg/ast"
	"github.com/kartiknair/mcc/pkg/diag"
	"github.com/kartiknair/mcc/pkg/lexer"
	"github.com/kartiknair/mcc/pkg/parser"
)

func gen(t *testing.T, src string) string {
	t.Helper()

	m := ast.NewProgram("test.c", src)
	tokens, err := lexer.Lex(src)
	if err != nil {
		t.Fatalf("Lex failed: %v", err)
	}
	m.Tokens = tokens
	if err := parser.Parse(m); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	out, err := Gen(m)
	if err != nil {
		t.Fatalf("Gen failed: %v", err)
	}
	return out
}

func TestGen(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"Return", "return 7;", []string{"define i32 @main()", "trunc i64 7 to i32", "ret i32"}},
		{"Locals", "a=1; b=a;", []string{"%a = alloca i64", "%b = alloca i64", "store i64 1, i64* %a"}},
		{"Arithmetic", "return 1+2*3-4/5;", []string{"mul i64", "add i64", "sub i64", "sdiv i64"}},
		{"Comparison", "a=1; return a<=2;", []string{"icmp sle i64", "zext i1"}},
		{"Equality", "a=1; return a!=2;", []string{"icmp ne i64"}},
		{"If", "if (1) return 1; else return 2;", []string{"then.0:", "else.0:", "end.0:", "br i1"}},
		{"While", "a=0; while (a<5) a=a+1;", []string{"begin.0:", "body.0:", "end.0:", "icmp slt i64"}},
		{"Call", "return foo()+foo();", []string{"declare i64 @foo()", "call i64 @foo()"}},
		{"Recursive main", "return main();", []string{"call i32 @main()", "sext i32"}},
		{"Result", "1+2;", []string{"%mcc.result = alloca i64", "load i64, i64* %mcc.result"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := gen(t, tt.src)
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("missing %q in:\n%s", want, out)
				}
			}
		})
	}
}

// The generated module must be accepted by the IR parser, which checks
// that every block is terminated and every name is defined.
func TestGenParses(t *testing.T) {
	sources := []string{
		"",
		"return 1;",
		"a=b=3; return a;",
		"a=0; while(a<5) a=a+1; return a;",
		"if(0) return 1; else return 2;",
		"if(1) return 1;",
		"if(1) { return 1; } 2; return 3; 4;",
		"i=0; j=0; while(i<=10) { j=j+i; i=i+1; if (j>20) return j; } return j;",
		"a=foo(); b=bar(); return a+b+foo();",
		"return main();",
	}

	for _, src := range sources {
		out := gen(t, src)
		if _, err := asm.ParseString("test.ll", out); err != nil {
			t.Errorf("%q: generated IR does not parse: %v\n%s", src, err, out)
		}
	}
}

func TestMainDeclaredOnce(t *testing.T) {
	out := gen(t, "return main()+1;")
	if n := strings.Count(out, "@main()"); n != 2 {
		t.Errorf("got %d references to @main(), want the definition and one call:\n%s", n, out)
	}
	if strings.Contains(out, "declare i64 @main") {
		t.Errorf("main declared as an external function:\n%s", out)
	}
}

type unknownStatement struct{ ast.Statement }

type unknownExpression struct{ ast.Expression }

func TestGenUnknownNodes(t *testing.T) {
	programs := [][]ast.Statement{
		{unknownStatement{}},
		{&ast.ExpressionStatement{Expression: unknownExpression{}}},
		{&ast.ReturnStatement{Expression: unknownExpression{}}},
		{&ast.WhileStatement{Condition: &ast.NumberLiteral{Value: 0}, Body: unknownStatement{}}},
		{&ast.IfStatement{Condition: unknownExpression{}, Then: &ast.BlockStatement{}}},
	}

	for i, statements := range programs {
		m := ast.NewProgram("test.c", "")
		m.Statements = statements

		_, err := Gen(m)
		if !diag.IsKind(err, diag.Internal) {
			t.Errorf("program %d: got %v, want an internal error", i, err)
			continue
		}
		if strings.Contains(diag.Render("", err), "^") {
			t.Errorf("program %d: internal error rendered with source context", i)
		}
	}
}
