package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aunetx/libmoon/vm"
)

// Debugger holds interactive debugging state layered over an
// Interpreter: breakpoints, watchpoints, command history, and an
// expression evaluator for conditions and print arguments.
type Debugger struct {
	Interp *vm.Interpreter

	Breakpoints *BreakpointManager
	Watchpoints *WatchpointManager
	History     *CommandHistory
	Evaluator   *ExpressionEvaluator

	Running  bool
	StepMode StepMode

	// LastCommand repeats on empty input, gdb-style.
	LastCommand string

	Output strings.Builder
}

// StepMode represents the debugger's stepping mode. Moon has no call
// stack (gto/jmp/jne target labels, they don't push a return address),
// so there is no step-over or step-out -- every step is a single
// instruction.
type StepMode int

const (
	StepNone StepMode = iota
	StepSingle
)

// NewDebugger creates a new debugger instance wrapping interp.
func NewDebugger(interp *vm.Interpreter) *Debugger {
	return &Debugger{
		Interp:      interp,
		Breakpoints: NewBreakpointManager(),
		Watchpoints: NewWatchpointManager(),
		History:     NewCommandHistory(),
		Evaluator:   NewExpressionEvaluator(),
		StepMode:    StepNone,
	}
}

// ResolveLine resolves a flg label or a numeric literal to an
// instruction line index.
func (d *Debugger) ResolveLine(target string) (int, error) {
	if line, ok := d.Interp.Program.Labels.Lookup(target); ok {
		return line, nil
	}
	line, err := strconv.Atoi(target)
	if err != nil {
		return 0, fmt.Errorf("unknown label or line: %s", target)
	}
	return line, nil
}

// ExecuteCommand processes and executes a debugger command line.
func (d *Debugger) ExecuteCommand(cmdLine string) error {
	cmdLine = strings.TrimSpace(cmdLine)

	if cmdLine == "" {
		cmdLine = d.LastCommand
	}

	if cmdLine != "" {
		d.History.Add(cmdLine)
		d.LastCommand = cmdLine
	}

	parts := strings.Fields(cmdLine)
	if len(parts) == 0 {
		return nil
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	return d.handleCommand(cmd, args)
}

// handleCommand dispatches commands to their handlers.
func (d *Debugger) handleCommand(cmd string, args []string) error {
	switch cmd {
	case "run", "r":
		return d.cmdRun(args)
	case "continue", "c":
		return d.cmdContinue(args)
	case "step", "s":
		return d.cmdStep(args)

	case "break", "b":
		return d.cmdBreak(args)
	case "tbreak", "tb":
		return d.cmdTBreak(args)
	case "delete", "d":
		return d.cmdDelete(args)
	case "enable":
		return d.cmdEnable(args)
	case "disable":
		return d.cmdDisable(args)

	case "watch", "w":
		return d.cmdWatch(args)

	case "print", "p":
		return d.cmdPrint(args)
	case "info", "i":
		return d.cmdInfo(args)
	case "list", "l":
		return d.cmdList(args)

	case "set":
		return d.cmdSet(args)

	case "reset":
		return d.cmdReset(args)

	case "help", "h", "?":
		return d.cmdHelp(args)

	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmd)
	}
}

// ShouldBreak checks if execution should pause at the current line.
func (d *Debugger) ShouldBreak() (bool, string) {
	line := d.Interp.PC

	if d.StepMode == StepSingle {
		d.StepMode = StepNone
		return true, "single step"
	}

	if bp := d.Breakpoints.GetBreakpoint(line); bp != nil {
		if !bp.Enabled {
			return false, ""
		}

		if bp.Condition != "" {
			result, err := d.Evaluator.Evaluate(bp.Condition, d.Interp.Store)
			if err != nil {
				return true, fmt.Sprintf("breakpoint %d (condition error: %v)", bp.ID, err)
			}
			if !result {
				return false, ""
			}
		}

		bp.HitCount++

		if bp.Temporary {
			_ = d.Breakpoints.DeleteBreakpoint(bp.ID)
		}

		return true, fmt.Sprintf("breakpoint %d", bp.ID)
	}

	if wp, changed := d.Watchpoints.CheckWatchpoints(d.Interp.Store); wp != nil && changed {
		return true, fmt.Sprintf("watchpoint %d: %s", wp.ID, wp.Name)
	}

	return false, ""
}

// GetOutput returns and clears the output buffer.
func (d *Debugger) GetOutput() string {
	output := d.Output.String()
	d.Output.Reset()
	return output
}

// Printf writes formatted output to the output buffer.
func (d *Debugger) Printf(format string, args ...interface{}) {
	d.Output.WriteString(fmt.Sprintf(format, args...))
}

// Println writes a line to the output buffer.
func (d *Debugger) Println(args ...interface{}) {
	d.Output.WriteString(fmt.Sprintln(args...))
}
