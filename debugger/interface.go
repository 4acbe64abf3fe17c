package debugger

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/aunetx/libmoon/vm"
)

// RunCLI runs the line-oriented debugger REPL.
func RunCLI(dbg *Debugger) error {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("(moon-dbg) ")

		if !scanner.Scan() {
			break
		}

		cmdLine := strings.TrimSpace(scanner.Text())

		if cmdLine == "quit" || cmdLine == "q" || cmdLine == "exit" {
			fmt.Println("Exiting debugger...")
			break
		}

		if err := dbg.ExecuteCommand(cmdLine); err != nil {
			fmt.Printf("Error: %v\n", err)
		}

		output := dbg.GetOutput()
		if output != "" {
			fmt.Print(output)
		}

		if dbg.Running {
			for dbg.Running {
				if shouldBreak, reason := dbg.ShouldBreak(); shouldBreak {
					dbg.Running = false
					fmt.Printf("Stopped: %s at line %d\n", reason, dbg.Interp.PC)
					break
				}

				if err := dbg.Interp.Step(); err != nil {
					if dbg.Interp.State == vm.StateHalted {
						dbg.Running = false
						fmt.Println("Program halted")
						break
					}
					fmt.Printf("Runtime error: %v\n", err)
					dbg.Running = false
					break
				}

				if out := dbg.GetOutput(); out != "" {
					fmt.Print(out)
				}

				if dbg.Interp.State == vm.StateHalted {
					dbg.Running = false
					fmt.Println("Program halted")
					break
				}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("input error: %w", err)
	}

	return nil
}

// RunTUI runs the tview-based debugger interface.
func RunTUI(dbg *Debugger) error {
	tui := NewTUI(dbg)
	return tui.Run()
}
