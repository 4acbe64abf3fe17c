package debugger

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/aunetx/libmoon/tools"
)

// TUI is the text user interface for the debugger, built on tview.
// Moon has no registers, memory, or stack to show; the panel layout
// covers the instruction listing, the variable store, and
// breakpoints/watchpoints.
type TUI struct {
	Debugger *Debugger
	App      *tview.Application
	Pages    *tview.Pages

	MainLayout *tview.Flex

	ListingView     *tview.TextView
	StoreView       *tview.TextView
	BreakpointsView *tview.TextView
	OutputView      *tview.TextView
	CommandInput    *tview.InputField
}

// NewTUI creates a new text user interface over dbg.
func NewTUI(dbg *Debugger) *TUI {
	t := &TUI{
		Debugger: dbg,
		App:      tview.NewApplication(),
	}

	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()

	return t
}

// NewTUIWithScreen creates a TUI bound to an explicit tcell screen, so
// tests can drive it against a tcell.SimulationScreen instead of a
// real terminal.
func NewTUIWithScreen(dbg *Debugger, screen tcell.Screen) *TUI {
	t := &TUI{
		Debugger: dbg,
		App:      tview.NewApplication().SetScreen(screen),
	}

	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()

	return t
}

func (t *TUI) initializeViews() {
	t.ListingView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	t.ListingView.SetBorder(true).SetTitle(" Instructions ")

	t.StoreView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	t.StoreView.SetBorder(true).SetTitle(" Store ")

	t.BreakpointsView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	t.BreakpointsView.SetBorder(true).SetTitle(" Breakpoints/Watchpoints ")

	t.OutputView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().
		SetLabel("> ").
		SetFieldWidth(0)
	t.CommandInput.SetBorder(true).SetTitle(" Command ")
	t.CommandInput.SetDoneFunc(t.handleCommand)
}

func (t *TUI) buildLayout() {
	rightPanel := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.StoreView, 0, 1, false).
		AddItem(t.BreakpointsView, 0, 1, false)

	mainContent := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.ListingView, 0, 2, false).
		AddItem(rightPanel, 0, 1, false)

	t.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(mainContent, 0, 4, false).
		AddItem(t.OutputView, 8, 0, false).
		AddItem(t.CommandInput, 3, 0, true)

	t.Pages = tview.NewPages().
		AddPage("main", t.MainLayout, true, true)
}

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF1:
			t.executeCommand("help")
			return nil
		case tcell.KeyF5:
			t.executeCommand("continue")
			return nil
		case tcell.KeyF9:
			t.executeCommand("break")
			return nil
		case tcell.KeyF11:
			t.executeCommand("step")
			return nil
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		case tcell.KeyCtrlL:
			t.RefreshAll()
			return nil
		}
		return event
	})
}

func (t *TUI) handleCommand(key tcell.Key) {
	if key == tcell.KeyEnter {
		cmd := t.CommandInput.GetText()
		if cmd != "" {
			t.executeCommand(cmd)
			t.CommandInput.SetText("")
		}
	}
}

func (t *TUI) executeCommand(cmd string) {
	t.Debugger.Output.Reset()

	err := t.Debugger.ExecuteCommand(cmd)
	output := t.Debugger.GetOutput()

	if err != nil {
		t.WriteOutput(fmt.Sprintf("[red]Error:[white] %v\n", err))
	}
	if output != "" {
		t.WriteOutput(output)
	}

	t.RefreshAll()
}

// WriteOutput appends text to the output view.
func (t *TUI) WriteOutput(text string) {
	_, _ = t.OutputView.Write([]byte(text))
	t.OutputView.ScrollToEnd()
}

// RefreshAll refreshes every view panel.
func (t *TUI) RefreshAll() {
	t.UpdateListingView()
	t.UpdateStoreView()
	t.UpdateBreakpointsView()
	t.App.Draw()
}

// UpdateListingView redraws the instruction listing, highlighting the
// current line and any breakpoints.
func (t *TUI) UpdateListingView() {
	t.ListingView.Clear()

	line := t.Debugger.Interp.PC
	listing := tools.Listing(t.Debugger.Interp.Program)
	rawLines := strings.Split(strings.TrimRight(listing, "\n"), "\n")

	start := line - CodeContextLinesBefore
	if start < 0 {
		start = 0
	}
	end := line + CodeContextLinesAfter
	if end > len(rawLines) {
		end = len(rawLines)
	}

	var out []string
	for i := start; i < end; i++ {
		marker := "  "
		color := "white"
		if i == line {
			marker = "->"
			color = "yellow"
		}
		if t.Debugger.Breakpoints.GetBreakpoint(i) != nil {
			marker = "* "
		}
		out = append(out, fmt.Sprintf("[%s]%s %s[white]", color, marker, rawLines[i]))
	}

	t.ListingView.SetText(strings.Join(out, "\n"))
}

// UpdateStoreView redraws every declared variable and its value.
func (t *TUI) UpdateStoreView() {
	t.StoreView.Clear()

	var lines []string
	for _, name := range t.Debugger.Interp.Store.Names() {
		cell, _ := t.Debugger.Interp.Store.Get(name)
		lines = append(lines, fmt.Sprintf("%s (%s) = %s", name, cell.Tag, cell.Display()))
	}
	if len(lines) == 0 {
		lines = append(lines, "[yellow]No declared variables[white]")
	}

	t.StoreView.SetText(strings.Join(lines, "\n"))
}

// UpdateBreakpointsView redraws the breakpoints and watchpoints panel.
func (t *TUI) UpdateBreakpointsView() {
	t.BreakpointsView.Clear()

	var lines []string

	bps := t.Debugger.Breakpoints.GetAllBreakpoints()
	if len(bps) > 0 {
		lines = append(lines, "[yellow]Breakpoints:[white]")
		for _, bp := range bps {
			status := "enabled"
			color := "green"
			if !bp.Enabled {
				status = "disabled"
				color = "red"
			}

			line := fmt.Sprintf("  %d: [%s]%s[white] line %d", bp.ID, color, status, bp.Line)
			if bp.Condition != "" {
				line += fmt.Sprintf(" if %s", bp.Condition)
			}
			line += fmt.Sprintf(" (hits: %d)", bp.HitCount)

			lines = append(lines, line)
		}
	} else {
		lines = append(lines, "[yellow]No breakpoints set[white]")
	}

	lines = append(lines, "")

	wps := t.Debugger.Watchpoints.GetAllWatchpoints()
	if len(wps) > 0 {
		lines = append(lines, "[yellow]Watchpoints:[white]")
		for _, wp := range wps {
			lines = append(lines, fmt.Sprintf("  %d: %s = %s", wp.ID, wp.Name, wp.LastValue))
		}
	}

	t.BreakpointsView.SetText(strings.Join(lines, "\n"))
}

// Run starts the TUI application.
func (t *TUI) Run() error {
	t.RefreshAll()

	t.WriteOutput("[green]Moon Debugger TUI[white]\n")
	t.WriteOutput("Press F1 for help, F5 to continue, F9 to break, F11 to step\n")
	t.WriteOutput("Type 'help' for command list\n\n")

	return t.App.SetRoot(t.Pages, true).SetFocus(t.CommandInput).Run()
}

// Stop stops the TUI application.
func (t *TUI) Stop() {
	t.App.Stop()
}
