package debugger

// TUI Display Update Constants
const (
	// DisplayUpdateFrequency controls how often the TUI display updates
	// during continuous execution (every N steps, to keep the display
	// responsive without overwhelming the terminal).
	DisplayUpdateFrequency = 100
)

// Listing View Context Constants
const (
	// CodeContextLinesBefore is the default number of lines to show
	// before PC in the full instruction listing view.
	CodeContextLinesBefore = 20

	// CodeContextLinesAfter is the default number of lines to show
	// after PC in the full instruction listing view.
	CodeContextLinesAfter = 80

	// CodeContextLinesBeforeCompact is the number of lines to show
	// before PC in compact views.
	CodeContextLinesBeforeCompact = 5

	// CodeContextLinesAfterCompact is the number of lines to show
	// after PC in compact views.
	CodeContextLinesAfterCompact = 10
)

// Store View Constants
const (
	// StoreViewRows is the fixed height of the variable store panel.
	StoreViewRows = 12
)
