package vm

import (
	"sort"

	"github.com/aunetx/libmoon/parser"
)

// CarryName is the reserved destination variable of the three-operand
// carry arithmetic forms.
const CarryName = "-"

// Store is the keyed mapping from variable name to Cell: the sole
// mutable runtime state besides the program counter. Insertion happens
// only via Declare (for var) or WriteCarry (for the reserved CarryName);
// Set and the in-place arithmetic forms require the key to already
// exist.
type Store struct {
	cells map[string]Cell
}

// NewStore creates an empty variable store.
func NewStore() *Store {
	return &Store{cells: make(map[string]Cell)}
}

// Declare creates an uninitialised cell of tag under name, overwriting
// any previous binding (vm dispatch table, Var).
func (s *Store) Declare(name string, tag parser.Tag) {
	s.cells[name] = NewUninitCell(tag)
}

// Get returns the cell bound to name.
func (s *Store) Get(name string) (Cell, bool) {
	c, ok := s.cells[name]
	return c, ok
}

// MustSet overwrites an already-declared cell unconditionally. Callers
// that have not already verified existence should use Get first.
func (s *Store) MustSet(name string, cell Cell) {
	s.cells[name] = cell
}

// WriteCarry overwrites the reserved carry cell with a fresh cell of
// tag/value, creating it lazily on first write. Its tag may change from
// write to write.
func (s *Store) WriteCarry(cell Cell) {
	s.cells[CarryName] = cell
}

// Exists reports whether name has been declared.
func (s *Store) Exists(name string) bool {
	_, ok := s.cells[name]
	return ok
}

// Names returns every declared variable name (including the carry cell
// if written), sorted, for diagnostics.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.cells))
	for name := range s.cells {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports the number of declared variables.
func (s *Store) Len() int {
	return len(s.cells)
}
