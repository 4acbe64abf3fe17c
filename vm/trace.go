package vm

import (
	"fmt"
	"io"

	"github.com/aunetx/libmoon/parser"
)

// TraceEntry is one executed step's trace record: the instruction
// executed and the single variable it wrote, if any.
type TraceEntry struct {
	Sequence    uint64
	PC          int
	Mnemonic    string
	Changed     string // name of the variable the step wrote, if any
	ChangedCell Cell
	HasChange   bool
}

// ExecutionTrace is an ambient, off-by-default observability concern:
// it never affects interpreter semantics, only what gets written to
// Writer.
type ExecutionTrace struct {
	Writer     io.Writer
	MaxEntries int

	entries  []TraceEntry
	sequence uint64
}

// NewExecutionTrace creates a trace that writes to w, keeping at most
// maxEntries in memory (0 means unbounded).
func NewExecutionTrace(w io.Writer, maxEntries int) *ExecutionTrace {
	return &ExecutionTrace{Writer: w, MaxEntries: maxEntries}
}

// Record appends one trace entry for the instruction just executed at
// pc and writes a formatted line to Writer, if set.
func (t *ExecutionTrace) Record(pc int, inst *parser.Instruction, store *Store) {
	entry := TraceEntry{Sequence: t.sequence, PC: pc, Mnemonic: inst.Mnemonic}
	t.sequence++

	if name := writtenVariable(inst); name != "" {
		if cell, ok := store.Get(name); ok {
			entry.Changed = name
			entry.ChangedCell = cell
			entry.HasChange = true
		}
	}

	if t.MaxEntries <= 0 || len(t.entries) < t.MaxEntries {
		t.entries = append(t.entries, entry)
	}

	if t.Writer != nil {
		if entry.HasChange {
			fmt.Fprintf(t.Writer, "#%d pc=%d %s %s=%s\n",
				entry.Sequence, entry.PC, entry.Mnemonic, entry.Changed, entry.ChangedCell.Display())
		} else {
			fmt.Fprintf(t.Writer, "#%d pc=%d %s\n", entry.Sequence, entry.PC, entry.Mnemonic)
		}
	}
}

// Entries returns the recorded trace entries (bounded by MaxEntries).
func (t *ExecutionTrace) Entries() []TraceEntry {
	return t.entries
}

// writtenVariable returns the name of the variable an instruction
// writes, or "" if it writes none (control flow, prt, nll, flg, ret).
func writtenVariable(inst *parser.Instruction) string {
	switch inst.Mnemonic {
	case "var", "set", "add", "sub", "mul", "div", "mod":
		return inst.Name
	case "cadd", "csub", "cmul", "cdiv", "cmod":
		return CarryName
	default:
		return ""
	}
}
