package main

import (
	"bytes"
	"io/ioutil"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"
)

// runApp runs the command line with args and returns what it wrote to
// stdout and stderr.
func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	app := newApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	// Keep cli.Exit errors from terminating the test binary.
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run(append([]string{"mcc"}, args...))
	return stdout.String(), stderr.String(), err
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"Default command", []string{"return 7;"}, ".intel_syntax noprefix\n"},
		{"Build", []string{"build", "return 7;"}, ".intel_syntax noprefix\n"},
		{"Emit C", []string{"build", "--emit", "c", "return 7;"}, "int main(void) {\n"},
		{"Emit LLVM", []string{"build", "--emit", "llvm", "return 7;"}, "define i32 @main()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := runApp(t, tt.args...)
			if err != nil {
				t.Fatalf("mcc %v: %v", tt.args, err)
			}
			if !strings.Contains(stdout, tt.want) {
				t.Errorf("output is missing %q:\n%s", tt.want, stdout)
			}
		})
	}
}

func TestBuildFiles(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.c")
	out := filepath.Join(dir, "prog.s")
	if err := ioutil.WriteFile(src, []byte("a=1; return a;"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := runApp(t, "build", "-f", src, "-o", out); err != nil {
		t.Fatal(err)
	}
	written, err := ioutil.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(written), "sub rsp, 16\n") {
		t.Errorf("unexpected output:\n%s", written)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"Syntax", []string{"build", "1+;"}, "     |   ^\nparse-error: 1:3: Expected expression, found `;`."},
		{"Lexical", []string{"build", "a $ b;"}, "lex-error: 1:3: Unexpected character: `$`."},
		{"Semantic", []string{"1=2;"}, "semantic-error: 1:2: Target for assignment is not lvalue."},
		{"Missing source", []string{"build"}, "Source program not provided."},
		{"Too many arguments", []string{"build", "a=1;", "return", "a;"}, "Too many arguments provided."},
		{"Unknown backend", []string{"build", "--emit", "wasm", "1;"}, "unknown backend"},
		{"Unknown dump", []string{"dump", "--what", "ir", "1;"}, "unknown dump"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runApp(t, tt.args...)
			if err == nil {
				t.Fatalf("mcc %v succeeded", tt.args)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got %q, want it to contain %q", err.Error(), tt.want)
			}
		})
	}
}

func TestDump(t *testing.T) {
	stdout, _, err := runApp(t, "dump", "--what", "locals", "a=1; b=a;")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`Name: "a"`, `Name: "b"`, "Offset: 16"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("dump is missing %q:\n%s", want, stdout)
		}
	}
}

func TestVerboseLogging(t *testing.T) {
	_, stderr, err := runApp(t, "-v", "--log-format", "json", "build", "a=1;")
	if err != nil {
		t.Fatal(err)
	}
	for _, phase := range []string{"lex", "parse", "analyze", "gen-asm"} {
		if !strings.Contains(stderr, `"phase":"`+phase+`"`) {
			t.Errorf("no log entry for phase %s:\n%s", phase, stderr)
		}
	}

	_, stderr, err = runApp(t, "build", "a=1;")
	if err != nil {
		t.Fatal(err)
	}
	if stderr != "" {
		t.Errorf("quiet run logged:\n%s", stderr)
	}
}

func TestRun(t *testing.T) {
	if _, err := exec.LookPath("cc"); err != nil {
		t.Skip("no C toolchain available")
	}

	stdout, _, err := runApp(t, "run", "--cc", "cc", "a=0; while(a<5) a=a+1; return a;")
	if err != nil {
		t.Skipf("toolchain cannot build the program: %v", err)
	}
	if !strings.Contains(stdout, "=> 5\n") {
		t.Errorf("unexpected output: %q", stdout)
	}
}
