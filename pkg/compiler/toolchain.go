package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/kartiknair/mcc/pkg/gen"
	"github.com/kartiknair/mcc/pkg/logger"
)

// DefaultCC is the C driver used to assemble and link when neither a flag
// nor MCC_CC names one. LLVM IR input needs clang, so that backend defaults
// to DefaultLLVMCC instead.
const (
	DefaultCC     = "cc"
	DefaultLLVMCC = "clang"
)

// DefaultDriver returns the C driver that can read backend's output.
func DefaultDriver(backend gen.Backend) string {
	if backend == gen.BackendLLVM {
		return DefaultLLVMCC
	}
	return DefaultCC
}

// sourceLanguage is the `-x` argument the C driver needs to read each
// backend's output from stdin.
var sourceLanguage = map[gen.Backend]string{
	gen.BackendAsm:  "assembler",
	gen.BackendLLVM: "ir",
	gen.BackendC:    "c",
}

// BuildExecutable feeds generated code to the C driver cc and links it into
// an executable inside dir. It returns the executable's path.
func BuildExecutable(cc string, backend gen.Backend, code string, dir string) (string, error) {
	if cc == "" {
		cc = DefaultDriver(backend)
	}
	lang, ok := sourceLanguage[backend]
	if !ok {
		return "", fmt.Errorf("cannot build backend %s", backend)
	}

	exePath := filepath.Join(dir, "mcc-exe.out")
	cmd := exec.Command(cc, "-x", lang, "-o", exePath, "-")
	cmd.Stdin = strings.NewReader(code)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	logger.LogPhase("link")
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s failed: %w\n%s", cc, err, stderr.String())
	}
	logger.LogPhaseComplete("link", start, "cc", cc, "output", exePath)

	return exePath, nil
}

// RunExecutable runs path and returns its exit status. A non-zero status is
// not an error; failing to start the process is.
func RunExecutable(path string) (int, error) {
	cmd := exec.Command(path)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to run compiled binary: %w", err)
	}
	return 0, nil
}
