package tools

import (
	"fmt"
	"strings"

	"github.com/aunetx/libmoon/parser"
)

// Listing re-prints a parsed program in a canonical one-line-per-
// instruction form ("mnemonic:operand,operand", each line prefixed with
// its line index), used by -list and by the debugger's listing pane. Moon has no comments or label-column
// alignment to preserve, so this is a pretty-printer for diagnostics, not a
// source-rewriting formatter.
func Listing(program *parser.Program) string {
	var sb strings.Builder
	for _, inst := range program.Instructions {
		fmt.Fprintf(&sb, "%4d  %s\n", inst.Line, formatInstruction(inst))
	}
	return sb.String()
}

func formatInstruction(inst *parser.Instruction) string {
	switch inst.Mnemonic {
	case "var":
		return fmt.Sprintf("var:%s,%s", inst.Name, inst.Tag)
	case "set", "add", "sub", "mul", "div", "mod":
		return fmt.Sprintf("%s:%s,%s", inst.Mnemonic, inst.Name, inst.Operand)
	case "ret":
		return fmt.Sprintf("ret:%s", inst.Name)
	case "flg":
		return fmt.Sprintf("flg:%s", inst.Label)
	case "gto":
		return fmt.Sprintf("gto:%s", inst.Label)
	case "jmp", "jne":
		return fmt.Sprintf("%s:%s,%s", inst.Mnemonic, inst.Name, inst.Label)
	case "prt":
		return fmt.Sprintf("prt:%s", inst.Operand)
	case "nll":
		return ""
	case "cadd", "csub", "cmul", "cdiv", "cmod":
		return fmt.Sprintf("%s:%s,%s", inst.Mnemonic, inst.Operand, inst.Operand2)
	default:
		return inst.Mnemonic
	}
}
