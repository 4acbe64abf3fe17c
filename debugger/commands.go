package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aunetx/libmoon/parser"
	"github.com/aunetx/libmoon/tools"
	"github.com/aunetx/libmoon/vm"
)

// Command handler implementations.

// cmdRun resets the interpreter and starts execution from line 0.
func (d *Debugger) cmdRun(args []string) error {
	d.Interp = vm.NewInterpreter(d.Interp.Program, &d.Output)
	d.Running = true
	d.StepMode = StepNone

	d.Println("Starting program execution...")
	return nil
}

// cmdContinue resumes execution after a breakpoint or watchpoint.
func (d *Debugger) cmdContinue(args []string) error {
	if d.Interp.State == vm.StateHalted {
		return fmt.Errorf("program is not running")
	}

	d.Running = true
	d.StepMode = StepNone

	d.Println("Continuing...")
	return nil
}

// cmdStep executes a single instruction.
func (d *Debugger) cmdStep(args []string) error {
	d.StepMode = StepSingle
	d.Running = true
	return nil
}

// cmdBreak sets a breakpoint at a label or line number.
func (d *Debugger) cmdBreak(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: break <label|line> [if <condition>]")
	}

	line, err := d.ResolveLine(args[0])
	if err != nil {
		return err
	}

	var condition string
	if len(args) > 1 && strings.ToLower(args[1]) == "if" {
		condition = strings.Join(args[2:], " ")
	}

	bp := d.Breakpoints.AddBreakpoint(line, false, condition)

	if condition != "" {
		d.Printf("Breakpoint %d at line %d (condition: %s)\n", bp.ID, line, condition)
	} else {
		d.Printf("Breakpoint %d at line %d\n", bp.ID, line)
	}

	return nil
}

// cmdTBreak sets a temporary breakpoint, auto-deleted after its first hit.
func (d *Debugger) cmdTBreak(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: tbreak <label|line>")
	}

	line, err := d.ResolveLine(args[0])
	if err != nil {
		return err
	}

	bp := d.Breakpoints.AddBreakpoint(line, true, "")
	d.Printf("Temporary breakpoint %d at line %d\n", bp.ID, line)

	return nil
}

// cmdDelete deletes one breakpoint, or all of them with no argument.
func (d *Debugger) cmdDelete(args []string) error {
	if len(args) == 0 {
		d.Breakpoints.Clear()
		d.Println("All breakpoints deleted")
		return nil
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint ID: %s", args[0])
	}

	if err := d.Breakpoints.DeleteBreakpoint(id); err != nil {
		return err
	}

	d.Printf("Breakpoint %d deleted\n", id)
	return nil
}

// cmdEnable enables a breakpoint by ID.
func (d *Debugger) cmdEnable(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: enable <breakpoint-id>")
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint ID: %s", args[0])
	}

	if err := d.Breakpoints.EnableBreakpoint(id); err != nil {
		return err
	}

	d.Printf("Breakpoint %d enabled\n", id)
	return nil
}

// cmdDisable disables a breakpoint by ID.
func (d *Debugger) cmdDisable(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: disable <breakpoint-id>")
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint ID: %s", args[0])
	}

	if err := d.Breakpoints.DisableBreakpoint(id); err != nil {
		return err
	}

	d.Printf("Breakpoint %d disabled\n", id)
	return nil
}

// cmdWatch sets a watchpoint on a declared variable.
func (d *Debugger) cmdWatch(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: watch <variable>")
	}

	name := strings.TrimPrefix(args[0], "&")
	if !d.Interp.Store.Exists(name) {
		return fmt.Errorf("undeclared variable: %s", name)
	}

	wp := d.Watchpoints.AddWatchpoint(name)
	if err := d.Watchpoints.InitializeWatchpoint(wp.ID, d.Interp.Store); err != nil {
		_ = d.Watchpoints.DeleteWatchpoint(wp.ID)
		return err
	}

	d.Printf("Watchpoint %d: %s\n", wp.ID, name)
	return nil
}

// cmdPrint evaluates and prints an expression against the variable store.
func (d *Debugger) cmdPrint(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: print <expression>")
	}

	expression := strings.Join(args, " ")
	result, err := d.Evaluator.EvaluateExpression(expression, d.Interp.Store)
	if err != nil {
		return err
	}

	d.Printf("$%d = %s\n", d.Evaluator.GetValueNumber(), result.String())
	return nil
}

// cmdInfo displays breakpoint or watchpoint state.
func (d *Debugger) cmdInfo(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: info <breakpoints|watchpoints|store>")
	}

	switch strings.ToLower(args[0]) {
	case "breakpoints", "break", "b":
		return d.showBreakpoints()
	case "watchpoints", "watch", "w":
		return d.showWatchpoints()
	case "store", "vars":
		return d.showStore()
	default:
		return fmt.Errorf("unknown info command: %s", args[0])
	}
}

func (d *Debugger) showBreakpoints() error {
	breakpoints := d.Breakpoints.GetAllBreakpoints()
	if len(breakpoints) == 0 {
		d.Println("No breakpoints")
		return nil
	}

	d.Println("Breakpoints:")
	for _, bp := range breakpoints {
		status := "enabled"
		if !bp.Enabled {
			status = "disabled"
		}

		temp := ""
		if bp.Temporary {
			temp = " (temporary)"
		}

		condition := ""
		if bp.Condition != "" {
			condition = fmt.Sprintf(" if %s", bp.Condition)
		}

		d.Printf("  %d: line %d %s%s%s (hit %d times)\n",
			bp.ID, bp.Line, status, temp, condition, bp.HitCount)
	}

	return nil
}

func (d *Debugger) showWatchpoints() error {
	watchpoints := d.Watchpoints.GetAllWatchpoints()
	if len(watchpoints) == 0 {
		d.Println("No watchpoints")
		return nil
	}

	d.Println("Watchpoints:")
	for _, wp := range watchpoints {
		status := "enabled"
		if !wp.Enabled {
			status = "disabled"
		}

		d.Printf("  %d: %s %s (hit %d times, last value: %s)\n",
			wp.ID, wp.Name, status, wp.HitCount, wp.LastValue)
	}

	return nil
}

func (d *Debugger) showStore() error {
	names := d.Interp.Store.Names()
	if len(names) == 0 {
		d.Println("No declared variables")
		return nil
	}

	d.Println("Store:")
	for _, name := range names {
		cell, _ := d.Interp.Store.Get(name)
		d.Printf("  %s (%s) = %s\n", name, cell.Tag, cell.Display())
	}

	return nil
}

// cmdList shows the instruction listing around the current line.
func (d *Debugger) cmdList(args []string) error {
	line := d.Interp.PC
	listing := tools.Listing(d.Interp.Program)
	lines := strings.Split(strings.TrimRight(listing, "\n"), "\n")

	start := line - CodeContextLinesBeforeCompact
	if start < 0 {
		start = 0
	}
	end := line + CodeContextLinesAfterCompact
	if end > len(lines) {
		end = len(lines)
	}

	for i := start; i < end; i++ {
		marker := "  "
		if i == line {
			marker = "=>"
		}
		d.Printf("%s %s\n", marker, lines[i])
	}

	return nil
}

// cmdSet assigns a variable's value directly from the debugger.
func (d *Debugger) cmdSet(args []string) error {
	if len(args) < 3 || args[1] != "=" {
		return fmt.Errorf("usage: set <variable> = <value>")
	}

	name := strings.TrimPrefix(args[0], "&")
	cell, ok := d.Interp.Store.Get(name)
	if !ok {
		return fmt.Errorf("undeclared variable: %s", name)
	}

	switch cell.Tag {
	case parser.TagInt:
		v, err := vm.ParseIntLiteral(args[2])
		if err != nil {
			return fmt.Errorf("invalid int literal: %s", args[2])
		}
		d.Interp.Store.MustSet(name, vm.NewIntCell(v))
	case parser.TagFlt:
		v, err := vm.ParseFltLiteral(args[2])
		if err != nil {
			return fmt.Errorf("invalid flt literal: %s", args[2])
		}
		d.Interp.Store.MustSet(name, vm.NewFltCell(v))
	case parser.TagChr:
		v, err := vm.ParseChrLiteral(args[2])
		if err != nil {
			return fmt.Errorf("invalid chr literal: %s", args[2])
		}
		d.Interp.Store.MustSet(name, vm.NewChrCell(v))
	}

	d.Printf("%s set to %s\n", name, args[2])
	return nil
}

// cmdReset discards all interpreter state and restarts at line 0.
func (d *Debugger) cmdReset(args []string) error {
	d.Interp = vm.NewInterpreter(d.Interp.Program, &d.Output)
	d.Println("Interpreter reset")
	return nil
}

// cmdHelp displays help information.
func (d *Debugger) cmdHelp(args []string) error {
	if len(args) > 0 {
		return d.showCommandHelp(args[0])
	}

	d.Println("Moon Debugger Commands:")
	d.Println()
	d.Println("Execution Control:")
	d.Println("  run (r)           - Start program execution")
	d.Println("  continue (c)      - Continue execution")
	d.Println("  step (s)          - Execute single instruction")
	d.Println()
	d.Println("Breakpoints:")
	d.Println("  break (b) <label> - Set breakpoint")
	d.Println("  tbreak (tb) <lbl> - Set temporary breakpoint")
	d.Println("  delete (d) [id]   - Delete breakpoint(s)")
	d.Println("  enable <id>       - Enable breakpoint")
	d.Println("  disable <id>      - Disable breakpoint")
	d.Println()
	d.Println("Watchpoints:")
	d.Println("  watch (w) <var>   - Watch a variable for value changes")
	d.Println()
	d.Println("Inspection:")
	d.Println("  print (p) <expr>  - Evaluate expression")
	d.Println("  info (i) <what>   - Show breakpoints/watchpoints/store")
	d.Println("  list (l)          - List instructions around current line")
	d.Println()
	d.Println("Modification:")
	d.Println("  set <var> = <val> - Assign a variable's value")
	d.Println()
	d.Println("Control:")
	d.Println("  reset             - Reset the interpreter")
	d.Println("  help (h, ?)       - Show this help")
	d.Println()
	d.Println("Type 'help <command>' for detailed help on a specific command.")

	return nil
}

func (d *Debugger) showCommandHelp(cmd string) error {
	helpText := map[string]string{
		"break": "break <label|line> [if <condition>]\n  Set a breakpoint at the given label or instruction line.\n  Optional condition is evaluated each time the line is reached.",
		"step":  "step\n  Execute a single instruction.",
		"print": "print <expression>\n  Evaluate and print an expression over &variable references\n  and int/flt literals.",
		"watch": "watch <variable>\n  Break when the named variable's value changes.",
		"info":  "info <breakpoints|watchpoints|store>\n  Display debugger or interpreter state.",
	}

	if help, exists := helpText[cmd]; exists {
		d.Println(help)
		return nil
	}

	return fmt.Errorf("no help available for command: %s", cmd)
}
