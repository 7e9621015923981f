package main

import (
	"fmt"
	"log"

	"github.com/alecthomas/repr"

	"github.com/kartiknair/mcc/pkg/compiler"
	"github.com/kartiknair/mcc/pkg/diag"
	"github.com/kartiknair/mcc/pkg/gen"
)

func main() {
	code := `
i = 0; j = 0;
while (i <= 10) { j = j + i; i = i + 1; }
if (j == 55) return 1; else return 0;
`

	m, err := compiler.Parse("playground.c", code)
	if err != nil {
		log.Fatal(diag.Render(code, err))
	}
	repr.Println(m.Statements, repr.Indent("  "), repr.OmitEmpty(true))

	gennedAsm, err := gen.Asm(m)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(gennedAsm)

	// gennedC, _ := gen.C(m)
	// fmt.Println(gennedC)
	gennedLLVM, err := gen.LLVM(m)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(gennedLLVM)
}
