package main

import (
	"errors"
	"fmt"
	"io/ioutil"
	"log"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/kartiknair/mcc/pkg/compiler"
	"github.com/kartiknair/mcc/pkg/diag"
	"github.com/kartiknair/mcc/pkg/gen"
	"github.com/kartiknair/mcc/pkg/logger"
)

var fileFlag = &cli.StringFlag{
	Name:    "file",
	Aliases: []string{"f"},
	Usage:   "Read the program from `PATH` instead of the first argument.",
}

// readSource returns the program text and a name for it. The program comes
// from --file, from stdin when the argument is "-", or is the argument
// itself.
func readSource(c *cli.Context) (string, string, error) {
	if path := c.String("file"); path != "" {
		if c.Args().Len() > 0 {
			return "", "", errors.New("Source given both with --file and as an argument.")
		}
		code, err := ioutil.ReadFile(path)
		if err != nil {
			return "", "", fmt.Errorf("Failed while attempting to read source file: %w", err)
		}
		return string(code), path, nil
	}

	if c.Args().Len() > 1 {
		return "", "", errors.New(`

Too many arguments provided.

Quote the program so it is a single argument, and put flags before it.
    Wrong: $ mcc build a=1; return a; -o out.s
    Right: $ mcc build -o out.s 'a=1; return a;'
`)
	}

	switch arg := c.Args().First(); arg {
	case "":
		return "", "", errors.New("Source program not provided.")
	case "-":
		code, err := ioutil.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("Failed while reading stdin: %w", err)
		}
		return string(code), "<stdin>", nil
	default:
		return arg, "<arg>", nil
	}
}

// compileError renders a pipeline error with its source context and turns
// it into a failing exit status.
func compileError(source string, err error) error {
	var d *diag.Error
	if errors.As(err, &d) {
		return cli.Exit(diag.Render(source, err), 1)
	}
	return cli.Exit(err.Error(), 1)
}

func writeOutput(c *cli.Context, path string, output string) error {
	if path == "" || path == "-" {
		_, err := fmt.Fprint(c.App.Writer, output)
		return err
	}
	return ioutil.WriteFile(path, []byte(output), 0644)
}

func build(c *cli.Context) error {
	source, path, err := readSource(c)
	if err != nil {
		return err
	}
	backend, err := gen.ParseBackend(c.String("emit"))
	if err != nil {
		return err
	}

	result, err := compiler.Compile(source, compiler.Options{Path: path, Backend: backend})
	if err != nil {
		return compileError(source, err)
	}
	return writeOutput(c, c.String("output"), result.Output)
}

func run(c *cli.Context) error {
	source, path, err := readSource(c)
	if err != nil {
		return err
	}
	backend, err := gen.ParseBackend(c.String("emit"))
	if err != nil {
		return err
	}

	result, err := compiler.Compile(source, compiler.Options{Path: path, Backend: backend})
	if err != nil {
		return compileError(source, err)
	}

	tmpDir, err := ioutil.TempDir("", "mcc-tmp--*")
	if err != nil {
		return fmt.Errorf("Failed while creating temp directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	exePath, err := compiler.BuildExecutable(c.String("cc"), backend, result.Output, tmpDir)
	if err != nil {
		return err
	}

	status, err := compiler.RunExecutable(exePath)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%s => %d\n", path, status)
	return nil
}

func dump(c *cli.Context) error {
	kind, err := compiler.ParseDumpKind(c.String("what"))
	if err != nil {
		return err
	}
	source, path, err := readSource(c)
	if err != nil {
		return err
	}

	out, err := compiler.Dump(path, source, kind)
	if err != nil {
		return compileError(source, err)
	}
	fmt.Fprintln(c.App.Writer, out)
	return nil
}

func emitFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "emit",
		Value: "asm",
		Usage: "Output `KIND`: asm (x86-64), llvm or c.",
	}
}

func buildFlags() []cli.Flag {
	return []cli.Flag{
		fileFlag,
		emitFlag(),
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Value:   "-",
			Usage:   "Write output to `PATH` (- for stdout).",
		},
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "mcc",
		Usage: "Compiles a tiny C subset to x86-64 stack-machine assembly.",
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log every compilation phase and its duration to stderr.",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Value: "text",
				Usage: "Log format: text or json.",
			},
		}, buildFlags()...),
		Before: func(c *cli.Context) error {
			cfg := logger.DefaultConfig()
			cfg.Format = c.String("log-format")
			cfg.Output = c.App.ErrWriter
			if c.Bool("verbose") {
				cfg.Level = slog.LevelDebug
			}
			return logger.Init(cfg)
		},
		// `mcc 'return 1;'` behaves like `mcc build 'return 1;'`.
		Action: build,
		Commands: []*cli.Command{
			{
				Name:      "build",
				Usage:     "Compiles the program and writes the generated code.",
				ArgsUsage: "PROGRAM | -",
				Flags:     buildFlags(),
				Action:    build,
			},
			{
				Name:      "run",
				Usage:     "Builds the program with a C toolchain, runs it and prints its exit status.",
				ArgsUsage: "PROGRAM | -",
				Flags: []cli.Flag{
					fileFlag,
					emitFlag(),
					&cli.StringFlag{
						Name:    "cc",
						Usage:   "C driver used to assemble and link (default: " + compiler.DefaultCC + ", or " + compiler.DefaultLLVMCC + " for --emit llvm, which only clang reads).",
						EnvVars: []string{"MCC_CC"},
					},
				},
				Action: run,
			},
			{
				Name:      "dump",
				Usage:     "Prints an intermediate stage: tokens, ast or locals.",
				ArgsUsage: "PROGRAM | -",
				Flags: []cli.Flag{
					fileFlag,
					&cli.StringFlag{
						Name:  "what",
						Value: "ast",
						Usage: "Stage to print: tokens, ast or locals.",
					},
				},
				Action: dump,
			},
		},
	}
}

func main() {
	err := newApp().Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
