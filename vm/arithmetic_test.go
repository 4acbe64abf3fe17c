package vm_test

import (
	"math"
	"testing"

	"github.com/aunetx/libmoon/parser"
	"github.com/aunetx/libmoon/vm"
)

func literal(text string) parser.Operand {
	return parser.Operand{Kind: parser.OperandLiteral, Text: text}
}

func variable(name string) parser.Operand {
	return parser.Operand{Kind: parser.OperandVariable, Text: name}
}

func TestExecuteInPlace_Add(t *testing.T) {
	s := vm.NewStore()
	s.Declare("a", parser.TagInt)
	s.MustSet("a", vm.NewIntCell(10))

	if err := vm.ExecuteInPlace(s, 0, "a", literal("5"), vm.OpAdd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cell, _ := s.Get("a")
	if cell.IntVal != 15 {
		t.Fatalf("expected 15, got %d", cell.IntVal)
	}
}

func TestExecuteInPlace_ChrRejected(t *testing.T) {
	s := vm.NewStore()
	s.Declare("c", parser.TagChr)
	s.MustSet("c", vm.NewChrCell('x'))

	err := vm.ExecuteInPlace(s, 0, "c", literal("y"), vm.OpAdd)
	assertRuntimeErrorKind(t, err, vm.ErrCannotApplyOperationsOnChar)
}

func TestExecuteInPlace_UninitializedDest(t *testing.T) {
	s := vm.NewStore()
	s.Declare("a", parser.TagInt)

	err := vm.ExecuteInPlace(s, 0, "a", literal("1"), vm.OpAdd)
	assertRuntimeErrorKind(t, err, vm.ErrVariableIsUninitialized)
}

func TestExecuteInPlace_VariablesDifferInType(t *testing.T) {
	s := vm.NewStore()
	s.Declare("a", parser.TagInt)
	s.MustSet("a", vm.NewIntCell(1))
	s.Declare("b", parser.TagFlt)
	s.MustSet("b", vm.NewFltCell(1))

	err := vm.ExecuteInPlace(s, 0, "a", variable("b"), vm.OpAdd)
	assertRuntimeErrorKind(t, err, vm.ErrVariablesDifferInType)
}

func TestExecuteInPlace_CouldNotParseIntValue(t *testing.T) {
	s := vm.NewStore()
	s.Declare("a", parser.TagInt)
	s.MustSet("a", vm.NewIntCell(1))

	err := vm.ExecuteInPlace(s, 0, "a", literal("notanumber"), vm.OpAdd)
	assertRuntimeErrorKind(t, err, vm.ErrCouldNotParseIntValue)
}

func TestExecuteCarry_InfersTagFromFirstVariableOperand(t *testing.T) {
	s := vm.NewStore()
	s.Declare("a", parser.TagFlt)
	s.MustSet("a", vm.NewFltCell(2.5))

	if err := vm.ExecuteCarry(s, 0, variable("a"), literal("1.5"), vm.OpAdd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	carry, ok := s.Get(vm.CarryName)
	if !ok {
		t.Fatalf("expected carry cell to exist")
	}
	if carry.Tag != parser.TagFlt || carry.FltVal != 4.0 {
		t.Fatalf("expected carry flt 4.0, got %+v", carry)
	}
}

func TestExecuteCarry_TwoLiteralsCannotDetermineType(t *testing.T) {
	s := vm.NewStore()
	err := vm.ExecuteCarry(s, 0, literal("1"), literal("2"), vm.OpAdd)
	assertRuntimeErrorKind(t, err, vm.ErrCannotDetermineReturnType)
}

func TestExecuteCarry_LiteralParseFailureIsCannotDetermineReturnType(t *testing.T) {
	s := vm.NewStore()
	s.Declare("a", parser.TagInt)
	s.MustSet("a", vm.NewIntCell(1))

	err := vm.ExecuteCarry(s, 0, variable("a"), literal("notanumber"), vm.OpAdd)
	assertRuntimeErrorKind(t, err, vm.ErrCannotDetermineReturnType)
}

func TestExecuteCarry_ChrRejected(t *testing.T) {
	s := vm.NewStore()
	s.Declare("a", parser.TagChr)
	s.MustSet("a", vm.NewChrCell('x'))

	err := vm.ExecuteCarry(s, 0, variable("a"), literal("y"), vm.OpAdd)
	assertRuntimeErrorKind(t, err, vm.ErrCannotApplyOperationsOnChar)
}

func TestApplyOperator_FloatDivZero(t *testing.T) {
	s := vm.NewStore()
	s.Declare("a", parser.TagFlt)
	s.MustSet("a", vm.NewFltCell(5))

	if err := vm.ExecuteInPlace(s, 0, "a", literal("0"), vm.OpDiv); err != nil {
		t.Fatalf("unexpected error dividing float by zero: %v", err)
	}
	cell, _ := s.Get("a")
	if !math.IsInf(cell.FltVal, 1) {
		t.Fatalf("expected +Inf, got %v", cell.FltVal)
	}
}

func assertRuntimeErrorKind(t *testing.T, err error, want vm.RuntimeErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error of kind %s, got nil", want)
	}
	rerr, ok := err.(*vm.RuntimeError)
	if !ok {
		t.Fatalf("expected *vm.RuntimeError, got %T: %v", err, err)
	}
	if rerr.Kind != want {
		t.Fatalf("expected error kind %s, got %s", want, rerr.Kind)
	}
}
