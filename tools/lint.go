// Package tools provides static-analysis helpers over a parsed Moon
// program: a linter, a symbol cross-reference table, and a canonical
// listing formatter.
package tools

import (
	"fmt"
	"sort"

	"github.com/aunetx/libmoon/parser"
	"github.com/aunetx/libmoon/vm"
)

// LintLevel represents the severity of a lint issue.
type LintLevel int

const (
	LintError LintLevel = iota
	LintWarning
)

func (l LintLevel) String() string {
	switch l {
	case LintError:
		return "error"
	case LintWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// LintIssue is a single finding.
type LintIssue struct {
	Level   LintLevel
	Line    int
	Message string
	Code    string
}

func (i *LintIssue) String() string {
	return fmt.Sprintf("line %d: %s: %s [%s]", i.Line, i.Level, i.Message, i.Code)
}

// labelUsingMnemonics lists the mnemonics whose Label field names a
// jump target.
var labelUsingMnemonics = map[string]bool{"gto": true, "jmp": true, "jne": true}

// Lint analyzes a parsed program for undefined labels, unreachable
// `flg` labels, variables read before declaration, and variables
// declared but never read. It does not re-run the parser: a program
// that failed to parse never reaches Lint.
func Lint(program *parser.Program) []*LintIssue {
	var issues []*LintIssue

	declared := make(map[string]int)
	read := make(map[string]bool)
	referencedLabels := make(map[string]bool)
	// The carry cell is never declared with `var`; seed it so reads of
	// `&-` are not flagged as uses-before-declaration.
	declared[vm.CarryName] = -1

	for _, inst := range program.Instructions {
		switch inst.Mnemonic {
		case "var":
			if _, exists := declared[inst.Name]; exists {
				issues = append(issues, &LintIssue{
					Level: LintWarning, Line: inst.Line,
					Message: fmt.Sprintf("variable %q redeclared", inst.Name),
					Code:    "REDECLARED_VAR",
				})
			}
			declared[inst.Name] = inst.Line

		case "set", "add", "sub", "mul", "div", "mod":
			// set only writes its destination; the in-place forms read it.
			wasRead := read[inst.Name]
			checkRead(declared, read, &issues, inst.Line, inst.Name)
			if inst.Mnemonic == "set" {
				read[inst.Name] = wasRead
			}
			checkOperandRead(declared, read, &issues, inst.Line, inst.Operand)

		case "cadd", "csub", "cmul", "cdiv", "cmod":
			checkOperandRead(declared, read, &issues, inst.Line, inst.Operand)
			checkOperandRead(declared, read, &issues, inst.Line, inst.Operand2)

		case "prt", "jmp", "jne":
			checkOperandRead(declared, read, &issues, inst.Line, inst.Operand)
			if inst.Mnemonic == "prt" {
				continue
			}
			checkRead(declared, read, &issues, inst.Line, inst.Name)
		}

		if labelUsingMnemonics[inst.Mnemonic] && inst.Label != "" {
			referencedLabels[inst.Label] = true
			if _, ok := program.Labels.Lookup(inst.Label); !ok {
				issues = append(issues, &LintIssue{
					Level: LintError, Line: inst.Line,
					Message: fmt.Sprintf("label %q is not defined", inst.Label),
					Code:    "UNDEF_LABEL",
				})
			}
		}
	}

	for _, name := range program.Labels.Names() {
		if !referencedLabels[name] {
			line, _ := program.Labels.Lookup(name)
			issues = append(issues, &LintIssue{
				Level: LintWarning, Line: line,
				Message: fmt.Sprintf("label %q is never jumped to", name),
				Code:    "UNUSED_LABEL",
			})
		}
	}

	for name, line := range declared {
		if name == vm.CarryName {
			continue
		}
		if !read[name] {
			issues = append(issues, &LintIssue{
				Level: LintWarning, Line: line,
				Message: fmt.Sprintf("variable %q is declared but never read", name),
				Code:    "UNUSED_VAR",
			})
		}
	}

	sort.Slice(issues, func(i, j int) bool { return issues[i].Line < issues[j].Line })
	return issues
}

func checkRead(declared map[string]int, read map[string]bool, issues *[]*LintIssue, line int, name string) {
	if name == "" {
		return
	}
	read[name] = true
	if _, ok := declared[name]; !ok {
		*issues = append(*issues, &LintIssue{
			Level: LintError, Line: line,
			Message: fmt.Sprintf("variable %q used before declaration", name),
			Code:    "UNDEF_VAR",
		})
	}
}

func checkOperandRead(declared map[string]int, read map[string]bool, issues *[]*LintIssue, line int, op parser.Operand) {
	if op.Kind != parser.OperandVariable {
		return
	}
	checkRead(declared, read, issues, line, op.Text)
}
