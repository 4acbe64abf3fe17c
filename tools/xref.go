package tools

import (
	"sort"

	"github.com/aunetx/libmoon/parser"
)

// ReferenceKind distinguishes a symbol's definition site from its uses.
type ReferenceKind int

const (
	RefDefinition ReferenceKind = iota
	RefRead
	RefWrite
	RefJumpTarget
)

func (r ReferenceKind) String() string {
	switch r {
	case RefDefinition:
		return "definition"
	case RefRead:
		return "read"
	case RefWrite:
		return "write"
	case RefJumpTarget:
		return "jump-target"
	default:
		return "unknown"
	}
}

// Reference is one occurrence of a symbol at a given line.
type Reference struct {
	Kind ReferenceKind
	Line int
}

// SymbolKind distinguishes variables from labels in the cross-reference
// table: the two live in separate namespaces.
type SymbolKind int

const (
	SymbolVariable SymbolKind = iota
	SymbolLabel
)

// Symbol collects every reference to one name.
type Symbol struct {
	Name       string
	Kind       SymbolKind
	References []Reference
}

// Xref builds a name -> Symbol table for every variable and label in
// program, in declaration-then-reference order.
func Xref(program *parser.Program) map[string]*Symbol {
	table := make(map[string]*Symbol)

	get := func(name string, kind SymbolKind) *Symbol {
		sym, ok := table[name]
		if !ok {
			sym = &Symbol{Name: name, Kind: kind}
			table[name] = sym
		}
		return sym
	}

	for _, inst := range program.Instructions {
		switch inst.Mnemonic {
		case "var":
			sym := get(inst.Name, SymbolVariable)
			sym.References = append(sym.References, Reference{Kind: RefDefinition, Line: inst.Line})

		case "set", "add", "sub", "mul", "div", "mod":
			sym := get(inst.Name, SymbolVariable)
			sym.References = append(sym.References, Reference{Kind: RefWrite, Line: inst.Line})
			addOperandRef(table, get, inst.Operand, inst.Line)

		case "cadd", "csub", "cmul", "cdiv", "cmod":
			addOperandRef(table, get, inst.Operand, inst.Line)
			addOperandRef(table, get, inst.Operand2, inst.Line)

		case "prt":
			addOperandRef(table, get, inst.Operand, inst.Line)

		case "jmp", "jne":
			sym := get(inst.Name, SymbolVariable)
			sym.References = append(sym.References, Reference{Kind: RefRead, Line: inst.Line})
			labelSym := get(inst.Label, SymbolLabel)
			labelSym.References = append(labelSym.References, Reference{Kind: RefJumpTarget, Line: inst.Line})

		case "gto":
			labelSym := get(inst.Label, SymbolLabel)
			labelSym.References = append(labelSym.References, Reference{Kind: RefJumpTarget, Line: inst.Line})

		case "flg":
			labelSym := get(inst.Label, SymbolLabel)
			labelSym.References = append(labelSym.References, Reference{Kind: RefDefinition, Line: inst.Line})
		}
	}

	return table
}

func addOperandRef(table map[string]*Symbol, get func(string, SymbolKind) *Symbol, op parser.Operand, line int) {
	if op.Kind != parser.OperandVariable {
		return
	}
	sym := get(op.Text, SymbolVariable)
	sym.References = append(sym.References, Reference{Kind: RefRead, Line: line})
}

// Names returns the cross-reference table's keys, sorted, for stable
// diagnostic output.
func Names(table map[string]*Symbol) []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
