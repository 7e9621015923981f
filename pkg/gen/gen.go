package gen

import (
	"fmt"
	"strings"

	"github.com/kartiknair/mcc/pkg/ast"
	asmgen "github.com/kartiknair/mcc/pkg/gen/asm"
	cgen "github.com/kartiknair/mcc/pkg/gen/c"
	llvmgen "github.com/kartiknair/mcc/pkg/gen/llvm"
)

type Backend int

const (
	BackendAsm Backend = iota
	BackendLLVM
	BackendC
)

var backendNames = map[string]Backend{
	"asm":  BackendAsm,
	"llvm": BackendLLVM,
	"c":    BackendC,
}

func (b Backend) String() string {
	for name, backend := range backendNames {
		if backend == b {
			return name
		}
	}
	return fmt.Sprintf("Backend(%d)", int(b))
}

// ParseBackend maps a command line name (asm, llvm, c) to a Backend.
func ParseBackend(name string) (Backend, error) {
	backend, ok := backendNames[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("unknown backend %q (want asm, llvm or c)", name)
	}
	return backend, nil
}

func Asm(m *ast.Program) (string, error) {
	return asmgen.Gen(m)
}

func LLVM(m *ast.Program) (string, error) {
	return llvmgen.Gen(m)
}

func C(m *ast.Program) (string, error) {
	return cgen.Gen(m)
}

func Gen(m *ast.Program, backend Backend) (string, error) {
	switch backend {
	case BackendAsm:
		return Asm(m)
	case BackendLLVM:
		return LLVM(m)
	case BackendC:
		return C(m)
	}
	return "", fmt.Errorf("unknown backend %s", backend)
}
