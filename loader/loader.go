// Package loader chains parsing and execution into a single
// "parse -> run" entry point. Run parses a file and runs it;
// RunProgram runs a program that is already parsed, as main.go does.
package loader

import (
	"io"

	"github.com/aunetx/libmoon/parser"
	"github.com/aunetx/libmoon/vm"
)

// Options configures one loaded run. The zero value runs unbounded, with
// no trace and no prt output.
type Options struct {
	Sigil    byte // variable-reference sigil; 0 means parser.DefaultSigil
	MaxSteps uint64
	Output   io.Writer
	Trace    *vm.ExecutionTrace
}

// Result is what a completed (or halted-on-error) run produced.
type Result struct {
	Program     *parser.Program
	Interpreter *vm.Interpreter
	PC          int
}

// Run reads path, parses it, and runs it to completion or error. A parse
// error is returned as-is (no instruction vector exists in that case); a
// runtime error is returned alongside the partial Result so callers can
// still inspect the store and pc at the point of failure.
func Run(path string, opts Options) (*Result, error) {
	sigil := opts.Sigil
	if sigil == 0 {
		sigil = parser.DefaultSigil
	}

	program, err := parser.ParseFile(path, sigil)
	if err != nil {
		return nil, err
	}

	return RunProgram(program, opts)
}

// RunProgram runs an already-parsed program; main.go calls it after its
// own parser.ParseFile so that -list/-lint/-xref can run first.
func RunProgram(program *parser.Program, opts Options) (*Result, error) {
	it := vm.NewInterpreter(program, opts.Output)
	it.MaxSteps = opts.MaxSteps
	it.Trace = opts.Trace

	pc, runErr := it.Run()
	result := &Result{Program: program, Interpreter: it, PC: pc}
	return result, runErr
}
