package vm

import (
	"fmt"
	"math"

	"github.com/aunetx/libmoon/parser"
)

// Operator is one of the five binary arithmetic operators shared by both
// the in-place and carry instruction forms.
type Operator int

const (
	OpAdd Operator = iota
	OpSub
	OpMul
	OpDiv
	OpMod
)

var operatorSymbols = map[Operator]string{
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
	OpMod: "%",
}

func (op Operator) String() string {
	if s, ok := operatorSymbols[op]; ok {
		return s
	}
	return fmt.Sprintf("Operator(%d)", int(op))
}

// MnemonicOperator maps the in-place/carry mnemonics to their Operator.
func MnemonicOperator(mnemonic string) (Operator, bool) {
	switch mnemonic {
	case "add", "cadd":
		return OpAdd, true
	case "sub", "csub":
		return OpSub, true
	case "mul", "cmul":
		return OpMul, true
	case "div", "cdiv":
		return OpDiv, true
	case "mod", "cmod":
		return OpMod, true
	default:
		return 0, false
	}
}

// applyOperator combines two cells of the same tag with op. The caller
// must already have rejected parser.TagChr. Integer division/modulo by
// zero is not intercepted: it panics with Go's native "integer divide by
// zero" runtime error, since overflow/division semantics apply unchecked.
// Float division/modulo by zero follows IEEE-754 (±Inf or NaN), never
// panicking.
func applyOperator(tag parser.Tag, op Operator, a, b Cell) Cell {
	switch tag {
	case parser.TagInt:
		return NewIntCell(applyInt(op, a.IntVal, b.IntVal))
	case parser.TagFlt:
		return NewFltCell(applyFlt(op, a.FltVal, b.FltVal))
	default:
		// unreachable: callers reject TagChr before calling applyOperator
		panic(fmt.Sprintf("applyOperator: unsupported tag %s", tag))
	}
}

func applyInt(op Operator, a, b int32) int32 {
	switch op {
	case OpAdd:
		return a + b
	case OpSub:
		return a - b
	case OpMul:
		return a * b
	case OpDiv:
		return a / b
	case OpMod:
		return a % b
	default:
		panic(fmt.Sprintf("applyInt: unknown operator %d", int(op)))
	}
}

func applyFlt(op Operator, a, b float64) float64 {
	switch op {
	case OpAdd:
		return a + b
	case OpSub:
		return a - b
	case OpMul:
		return a * b
	case OpDiv:
		return a / b
	case OpMod:
		return math.Mod(a, b)
	default:
		panic(fmt.Sprintf("applyFlt: unknown operator %d", int(op)))
	}
}

// resolveOperand resolves operand to a Cell of tag, for the two-operand
// in-place arithmetic forms and for `set`. A literal is parsed at tag; a
// variable reference must already exist, be initialised, and carry tag.
func resolveOperand(store *Store, line int, operand parser.Operand, tag parser.Tag) (Cell, error) {
	if operand.Kind == parser.OperandLiteral {
		switch tag {
		case parser.TagInt:
			v, err := ParseIntLiteral(operand.Text)
			if err != nil {
				return Cell{}, NewRuntimeError(line, ErrCouldNotParseIntValue,
					fmt.Sprintf("%q is not a valid int literal", operand.Text))
			}
			return NewIntCell(v), nil
		case parser.TagFlt:
			v, err := ParseFltLiteral(operand.Text)
			if err != nil {
				return Cell{}, NewRuntimeError(line, ErrCouldNotParseFltValue,
					fmt.Sprintf("%q is not a valid flt literal", operand.Text))
			}
			return NewFltCell(v), nil
		case parser.TagChr:
			v, err := ParseChrLiteral(operand.Text)
			if err != nil {
				return Cell{}, NewRuntimeError(line, ErrCouldNotParseChrValue,
					fmt.Sprintf("%q is not a valid chr literal", operand.Text))
			}
			return NewChrCell(v), nil
		}
	}

	cell, ok := store.Get(operand.Text)
	if !ok {
		return Cell{}, NewRuntimeError(line, ErrVariableDoesNotExist,
			fmt.Sprintf("variable %q does not exist", operand.Text))
	}
	if !cell.Has {
		return Cell{}, NewRuntimeError(line, ErrVariableIsUninitialized,
			fmt.Sprintf("variable %q is uninitialized", operand.Text))
	}
	if cell.Tag != tag {
		return Cell{}, NewRuntimeError(line, ErrVariablesDifferInType,
			fmt.Sprintf("variable %q has tag %s, expected %s", operand.Text, cell.Tag, tag))
	}
	return cell, nil
}

// ExecuteInPlace runs the two-operand add/sub/mul/div/mod form: destName
// must already exist, be initialised, and be Int or Flt; operand is
// resolved to destName's tag and combined with op, then written back.
func ExecuteInPlace(store *Store, line int, destName string, operand parser.Operand, op Operator) error {
	dest, ok := store.Get(destName)
	if !ok {
		return NewRuntimeError(line, ErrVariableDoesNotExist,
			fmt.Sprintf("variable %q does not exist", destName))
	}
	if !dest.Has {
		return NewRuntimeError(line, ErrVariableIsUninitialized,
			fmt.Sprintf("variable %q is uninitialized", destName))
	}
	if dest.Tag == parser.TagChr {
		return NewRuntimeError(line, ErrCannotApplyOperationsOnChar,
			fmt.Sprintf("variable %q is chr, arithmetic not allowed", destName))
	}

	rhs, err := resolveOperand(store, line, operand, dest.Tag)
	if err != nil {
		return err
	}

	store.MustSet(destName, applyOperator(dest.Tag, op, dest, rhs))
	return nil
}

// resolveCarryOperand is resolveOperand specialised for the carry forms:
// a literal that fails to parse at tag reports CannotDetermineReturnType
// rather than a CouldNotParse* kind.
func resolveCarryOperand(store *Store, line int, operand parser.Operand, tag parser.Tag) (Cell, error) {
	if operand.Kind == parser.OperandLiteral {
		var ok bool
		var cell Cell
		switch tag {
		case parser.TagInt:
			if v, err := ParseIntLiteral(operand.Text); err == nil {
				cell, ok = NewIntCell(v), true
			}
		case parser.TagFlt:
			if v, err := ParseFltLiteral(operand.Text); err == nil {
				cell, ok = NewFltCell(v), true
			}
		}
		if !ok {
			return Cell{}, NewRuntimeError(line, ErrCannotDetermineReturnType,
				fmt.Sprintf("literal %q cannot be parsed as %s", operand.Text, tag))
		}
		return cell, nil
	}

	cell, exists := store.Get(operand.Text)
	if !exists {
		return Cell{}, NewRuntimeError(line, ErrVariableDoesNotExist,
			fmt.Sprintf("variable %q does not exist", operand.Text))
	}
	if !cell.Has {
		return Cell{}, NewRuntimeError(line, ErrVariableIsUninitialized,
			fmt.Sprintf("variable %q is uninitialized", operand.Text))
	}
	if cell.Tag != tag {
		return Cell{}, NewRuntimeError(line, ErrVariablesDifferInType,
			fmt.Sprintf("variable %q has tag %s, expected %s", operand.Text, cell.Tag, tag))
	}
	return cell, nil
}

// ExecuteCarry runs one of the cadd/csub/cmul/cdiv/cmod forms: the
// result tag is inferred from the first variable-reference operand and
// written to the reserved carry cell (vm.CarryName).
func ExecuteCarry(store *Store, line int, op1, op2 parser.Operand, op Operator) error {
	tag, err := inferCarryTag(store, line, op1, op2)
	if err != nil {
		return err
	}
	if tag == parser.TagChr {
		return NewRuntimeError(line, ErrCannotApplyOperationsOnChar,
			"carry arithmetic cannot operate on chr")
	}

	v1, err := resolveCarryOperand(store, line, op1, tag)
	if err != nil {
		return err
	}
	v2, err := resolveCarryOperand(store, line, op2, tag)
	if err != nil {
		return err
	}

	store.WriteCarry(applyOperator(tag, op, v1, v2))
	return nil
}

// inferCarryTag determines the carry form's result tag from the first
// operand (in lexical order) that is a variable reference. Two literal
// operands cannot determine a tag.
func inferCarryTag(store *Store, line int, op1, op2 parser.Operand) (parser.Tag, error) {
	var ref parser.Operand
	switch {
	case op1.Kind == parser.OperandVariable:
		ref = op1
	case op2.Kind == parser.OperandVariable:
		ref = op2
	default:
		return 0, NewRuntimeError(line, ErrCannotDetermineReturnType,
			"both operands are literals, cannot infer a result type")
	}

	cell, ok := store.Get(ref.Text)
	if !ok {
		return 0, NewRuntimeError(line, ErrVariableDoesNotExist,
			fmt.Sprintf("variable %q does not exist", ref.Text))
	}
	if !cell.Has {
		return 0, NewRuntimeError(line, ErrVariableIsUninitialized,
			fmt.Sprintf("variable %q is uninitialized", ref.Text))
	}
	return cell.Tag, nil
}
