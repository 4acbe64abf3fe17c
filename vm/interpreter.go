package vm

import (
	"fmt"
	"io"

	"github.com/aunetx/libmoon/parser"
)

// State is the interpreter's two-state machine: every instruction maps
// Running(pc) to Running(next) or Halted(error); and Running(pc) with
// pc == len(program) maps to Halted(pc). There is no pause, yield, or
// resume.
type State int

const (
	StateRunning State = iota
	StateHalted
)

// Interpreter holds the program counter, the frozen program, and the
// variable store: the only state a run mutates.
type Interpreter struct {
	Program *parser.Program
	Store   *Store
	PC      int
	State   State

	// MaxSteps is an ambient safety valve, not part of the language:
	// 0 (the default) means unbounded -- there is no cancellation or
	// timeout otherwise. Set it to halt a runaway program after a
	// fixed number of steps instead.
	MaxSteps uint64
	steps    uint64

	// Trace, if non-nil, receives one TraceEntry per executed step.
	Trace *ExecutionTrace

	// Output receives prt output; if nil, prt is a no-op.
	Output io.Writer
}

// NewInterpreter creates an Interpreter over program with an empty
// variable store and pc == 0.
func NewInterpreter(program *parser.Program, output io.Writer) *Interpreter {
	return &Interpreter{
		Program: program,
		Store:   NewStore(),
		PC:      0,
		State:   StateRunning,
		Output:  output,
	}
}

// Run steps until the program halts or a runtime error occurs, returning
// the final pc. A successful run returns pc == len(program).
func (it *Interpreter) Run() (int, error) {
	for it.State == StateRunning {
		if err := it.Step(); err != nil {
			return it.PC, err
		}
	}
	return it.PC, nil
}

// Step executes exactly one instruction. Once the interpreter has
// halted, Step is a no-op.
func (it *Interpreter) Step() error {
	if it.State == StateHalted {
		return nil
	}
	if it.PC >= len(it.Program.Instructions) {
		it.State = StateHalted
		return nil
	}
	if it.MaxSteps > 0 && it.steps >= it.MaxSteps {
		it.State = StateHalted
		return NewRuntimeError(it.PC, ErrStepLimitExceeded,
			fmt.Sprintf("exceeded configured step limit of %d", it.MaxSteps))
	}

	inst := it.Program.Instructions[it.PC]
	next, err := it.execute(inst)
	if err != nil {
		it.State = StateHalted
		return err
	}

	it.steps++
	if it.Trace != nil {
		it.Trace.Record(it.PC, inst, it.Store)
	}

	it.PC = next
	if it.PC >= len(it.Program.Instructions) {
		it.State = StateHalted
	}
	return nil
}

// execute dispatches one instruction, returning the next pc on success.
func (it *Interpreter) execute(inst *parser.Instruction) (int, error) {
	switch inst.Mnemonic {
	case "var":
		it.Store.Declare(inst.Name, inst.Tag)
		return it.PC + 1, nil

	case "set":
		if err := it.executeSet(inst); err != nil {
			return it.PC, err
		}
		return it.PC + 1, nil

	case "add", "sub", "mul", "div", "mod":
		op, _ := MnemonicOperator(inst.Mnemonic)
		if err := ExecuteInPlace(it.Store, inst.Line, inst.Name, inst.Operand, op); err != nil {
			return it.PC, err
		}
		return it.PC + 1, nil

	case "cadd", "csub", "cmul", "cdiv", "cmod":
		op, _ := MnemonicOperator(inst.Mnemonic)
		if err := ExecuteCarry(it.Store, inst.Line, inst.Operand, inst.Operand2, op); err != nil {
			return it.PC, err
		}
		return it.PC + 1, nil

	case "prt":
		if it.Output != nil {
			fmt.Fprintln(it.Output, it.formatPrt(inst))
		}
		return it.PC + 1, nil

	case "flg", "nll":
		return it.PC + 1, nil

	case "gto":
		return it.resolveLabel(inst.Line, inst.Label)

	case "jmp":
		return it.executeConditionalJump(inst, func(isZero bool) bool { return isZero })

	case "jne":
		return it.executeConditionalJump(inst, func(isZero bool) bool { return !isZero })

	case "ret":
		// Reserved: present in the instruction set but has no run-time
		// behaviour.
		return it.PC, NewRuntimeError(inst.Line, ErrUnimplementedInstruction,
			"ret has no runtime behaviour")

	default:
		return it.PC, NewRuntimeError(inst.Line, ErrUnimplementedInstruction,
			fmt.Sprintf("unimplemented instruction %q", inst.Mnemonic))
	}
}

func (it *Interpreter) executeSet(inst *parser.Instruction) error {
	dest, ok := it.Store.Get(inst.Name)
	if !ok {
		return NewRuntimeError(inst.Line, ErrVariableDoesNotExist,
			fmt.Sprintf("variable %q does not exist", inst.Name))
	}
	value, err := resolveOperand(it.Store, inst.Line, inst.Operand, dest.Tag)
	if err != nil {
		return err
	}
	it.Store.MustSet(inst.Name, value)
	return nil
}

func (it *Interpreter) resolveLabel(line int, label string) (int, error) {
	target, ok := it.Program.Labels.Lookup(label)
	if !ok {
		return it.PC, NewRuntimeError(line, ErrCouldNotFindFlag,
			fmt.Sprintf("label %q is not defined", label))
	}
	return target, nil
}

// executeConditionalJump backs both jmp and jne: shouldJump maps the
// cell's "value == 0" predicate to whether the jump is taken (identity
// for jmp, negated for jne).
func (it *Interpreter) executeConditionalJump(inst *parser.Instruction, shouldJump func(isZero bool) bool) (int, error) {
	cell, ok := it.Store.Get(inst.Name)
	if !ok {
		return it.PC, NewRuntimeError(inst.Line, ErrVariableDoesNotExist,
			fmt.Sprintf("variable %q does not exist", inst.Name))
	}
	if !cell.Has {
		return it.PC, NewRuntimeError(inst.Line, ErrVariableIsUninitialized,
			fmt.Sprintf("variable %q is uninitialized", inst.Name))
	}

	var isZero bool
	switch cell.Tag {
	case parser.TagInt:
		isZero = cell.IntVal == 0
	case parser.TagFlt:
		isZero = cell.FltVal == 0
	case parser.TagChr:
		return it.PC, NewRuntimeError(inst.Line, ErrCannotApplyComparisonsOnChar,
			fmt.Sprintf("variable %q is chr, comparisons not allowed", inst.Name))
	}

	if shouldJump(isZero) {
		return it.resolveLabel(inst.Line, inst.Label)
	}
	return it.PC + 1, nil
}

// formatPrt renders one `prt` output line: a literal marker for a
// literal operand, or "name = value _tag" for a variable reference. The
// exact decoration isn't fixed; one line per call and an uninitialised
// marker for unset cells are the only requirements.
func (it *Interpreter) formatPrt(inst *parser.Instruction) string {
	if inst.Operand.Kind == parser.OperandLiteral {
		return fmt.Sprintf("%d : %s", inst.Line, inst.Operand.Text)
	}
	cell, _ := it.Store.Get(inst.Operand.Text)
	return fmt.Sprintf("%d : %s = %s", inst.Line, inst.Operand.Text, cell.Display())
}
