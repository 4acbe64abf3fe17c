// Package service wraps a *vm.Interpreter with Run/Step/Reset plus an
// event callback invoked after each step. The HTTP API's SessionManager
// builds on it; the TUI debugger drives a *vm.Interpreter directly.
package service

import (
	"strings"

	"github.com/aunetx/libmoon/vm"
)

// CellSnapshot is a JSON-friendly rendering of one vm.Cell. Value is the
// bare value ("10"); the tag is reported separately in Tag.
type CellSnapshot struct {
	Tag string `json:"tag"`
	Has bool   `json:"has"`
	Value string `json:"value,omitempty"`
}

func snapshotCell(c vm.Cell) CellSnapshot {
	snap := CellSnapshot{Tag: c.Tag.String(), Has: c.Has}
	if c.Has {
		snap.Value = strings.TrimSuffix(c.Display(), " _"+c.Tag.String())
	}
	return snap
}

// StoreSnapshot renders every declared variable for a JSON response.
func StoreSnapshot(store *vm.Store) map[string]CellSnapshot {
	out := make(map[string]CellSnapshot, store.Len())
	for _, name := range store.Names() {
		cell, _ := store.Get(name)
		out[name] = snapshotCell(cell)
	}
	return out
}

// StepEvent describes one executed step, delivered to an EventWriter.
type StepEvent struct {
	PC      int           `json:"pc"`
	State   string        `json:"state"`
	Changed string        `json:"changed,omitempty"`
	Cell    *CellSnapshot `json:"cell,omitempty"`
	Output  string        `json:"output,omitempty"`
	Err     string        `json:"error,omitempty"`
}

func stateName(s vm.State) string {
	if s == vm.StateHalted {
		return "halted"
	}
	return "running"
}
