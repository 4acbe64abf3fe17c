package service

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/aunetx/libmoon/parser"
	"github.com/aunetx/libmoon/vm"
)

var serviceLog *log.Logger

func init() {
	if os.Getenv("LIBMOON_DEBUG") != "" {
		logPath := filepath.Join(os.TempDir(), "libmoon-service-debug.log")
		f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600) // #nosec G304 -- fixed filename in temp dir
		if err != nil {
			serviceLog = log.New(os.Stderr, "SERVICE: ", log.Ltime|log.Lmicroseconds|log.Lshortfile)
		} else {
			serviceLog = log.New(f, "SERVICE: ", log.Ltime|log.Lmicroseconds|log.Lshortfile)
		}
	} else {
		serviceLog = log.New(io.Discard, "", 0)
	}
}

// Service provides a thread-safe interface to an interpreter run,
// used by the HTTP API's session manager.
// Lock ordering: s.mu guards every field, including the Interpreter;
// nothing here calls back into a caller-held lock.
type Service struct {
	mu     sync.Mutex
	it     *vm.Interpreter
	events EventWriter
	output *writerFunc
}

// writerFunc adapts a func([]byte) into an io.Writer, used to forward
// prt output into the same StepEvent stream as state changes.
type writerFunc struct {
	fn func([]byte)
}

func (w *writerFunc) Write(p []byte) (int, error) {
	w.fn(p)
	return len(p), nil
}

// NewService wraps program in a fresh interpreter. events, if non-nil,
// receives one StepEvent after every Step call.
func NewService(program *parser.Program, events EventWriter) *Service {
	s := &Service{events: events}
	s.output = &writerFunc{fn: func(p []byte) {
		if s.events != nil {
			s.events(StepEvent{PC: s.it.PC, State: stateName(s.it.State), Output: string(p)})
		}
	}}
	s.it = vm.NewInterpreter(program, s.output)
	return s
}

// Step executes exactly one instruction and reports the result.
func (s *Service) Step() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pc := s.it.PC
	err := s.it.Step()
	serviceLog.Printf("step pc=%d err=%v", pc, err)

	if s.events == nil {
		return err
	}
	event := StepEvent{PC: s.it.PC, State: stateName(s.it.State)}
	if err != nil {
		event.Err = err.Error()
	}
	if inst := s.instructionAt(pc); inst != nil {
		if name := writtenVariableName(inst); name != "" {
			if cell, ok := s.it.Store.Get(name); ok {
				snap := snapshotCell(cell)
				event.Changed = name
				event.Cell = &snap
			}
		}
	}
	s.events(event)
	return err
}

// Run steps to completion or error, invoking the EventWriter after
// every step along the way.
func (s *Service) Run() (int, error) {
	for {
		if s.State() == vm.StateHalted {
			return s.PC(), nil
		}
		if err := s.Step(); err != nil {
			return s.PC(), err
		}
	}
}

// Reset rebuilds the interpreter over the same program, discarding all
// store state and resetting pc to 0.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.it = vm.NewInterpreter(s.it.Program, s.output)
}

// PC returns the current program counter.
func (s *Service) PC() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.it.PC
}

// State returns the current interpreter state.
func (s *Service) State() vm.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.it.State
}

// StateName returns the current interpreter state as the same string
// used in StepEvent.State ("running" or "halted").
func (s *Service) StateName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return stateName(s.it.State)
}

// Store returns a JSON-friendly snapshot of every declared variable.
func (s *Service) Store() map[string]CellSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StoreSnapshot(s.it.Store)
}

func (s *Service) instructionAt(pc int) *parser.Instruction {
	if pc < 0 || pc >= len(s.it.Program.Instructions) {
		return nil
	}
	return s.it.Program.Instructions[pc]
}

func writtenVariableName(inst *parser.Instruction) string {
	switch inst.Mnemonic {
	case "var", "set", "add", "sub", "mul", "div", "mod":
		return inst.Name
	case "cadd", "csub", "cmul", "cdiv", "cmod":
		return vm.CarryName
	default:
		return ""
	}
}
