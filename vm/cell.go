// Package vm implements Moon's variable store, arithmetic engine, and
// small-step interpreter: the runtime half of the pipeline, executing
// the instruction vector and label table the parser package produces.
package vm

import (
	"fmt"
	"strconv"

	"github.com/aunetx/libmoon/parser"
)

// Cell is a typed variable slot. Its tag never changes after creation;
// Has guards whether it currently holds a value of that tag, so the Go
// zero value of a Cell is never mistaken for an initialised int/float/
// char zero.
type Cell struct {
	Tag parser.Tag
	Has bool

	IntVal int32
	FltVal float64
	ChrVal rune
}

// NewUninitCell creates an uninitialised cell of the given tag.
func NewUninitCell(tag parser.Tag) Cell {
	return Cell{Tag: tag}
}

// NewIntCell creates an initialised Int cell.
func NewIntCell(v int32) Cell {
	return Cell{Tag: parser.TagInt, Has: true, IntVal: v}
}

// NewFltCell creates an initialised Flt cell.
func NewFltCell(v float64) Cell {
	return Cell{Tag: parser.TagFlt, Has: true, FltVal: v}
}

// NewChrCell creates an initialised Chr cell.
func NewChrCell(v rune) Cell {
	return Cell{Tag: parser.TagChr, Has: true, ChrVal: v}
}

// Display renders a cell's contents for `prt`: the value plus its tag
// suffix, or a human-readable uninitialised marker.
func (c Cell) Display() string {
	if !c.Has {
		return fmt.Sprintf("uninitialised _%s", c.Tag)
	}
	switch c.Tag {
	case parser.TagInt:
		return fmt.Sprintf("%d _int", c.IntVal)
	case parser.TagFlt:
		return fmt.Sprintf("%s _flt", strconv.FormatFloat(c.FltVal, 'g', -1, 64))
	case parser.TagChr:
		return fmt.Sprintf("%c _chr", c.ChrVal)
	default:
		return fmt.Sprintf("<unknown tag %s>", c.Tag)
	}
}

// ParseIntLiteral parses a literal token as an Int cell value.
func ParseIntLiteral(text string) (int32, error) {
	v, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

// ParseFltLiteral parses a literal token as a Flt cell value.
func ParseFltLiteral(text string) (float64, error) {
	return strconv.ParseFloat(text, 64)
}

// ParseChrLiteral parses a literal token as a Chr cell value: exactly one
// rune, no surrounding quotes (Moon has no character-literal syntax of
// its own; the token itself is the character).
func ParseChrLiteral(text string) (rune, error) {
	runes := []rune(text)
	if len(runes) != 1 {
		return 0, fmt.Errorf("expected exactly one character, got %q", text)
	}
	return runes[0], nil
}
