package parser_test

import (
	"testing"

	"github.com/aunetx/libmoon/parser"
)

func parseOne(t *testing.T, source string) *parser.Instruction {
	t.Helper()
	p := parser.NewParser("test.moon", parser.DefaultSigil)
	program, err := p.Parse(source)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(program.Instructions) != 1 {
		t.Fatalf("expected 1 instruction, got %d", len(program.Instructions))
	}
	return program.Instructions[0]
}

func TestParser_Var(t *testing.T) {
	inst := parseOne(t, "var:a,int")
	if inst.Mnemonic != "var" || inst.Name != "a" || inst.Tag != parser.TagInt {
		t.Fatalf("unexpected instruction: %+v", inst)
	}
}

func TestParser_SetLiteral(t *testing.T) {
	inst := parseOne(t, "set:a,10")
	if inst.Mnemonic != "set" || inst.Name != "a" {
		t.Fatalf("unexpected instruction: %+v", inst)
	}
	if inst.Operand.Kind != parser.OperandLiteral || inst.Operand.Text != "10" {
		t.Fatalf("unexpected operand: %+v", inst.Operand)
	}
}

func TestParser_SetVariableReference(t *testing.T) {
	inst := parseOne(t, "set:b,&a")
	if inst.Operand.Kind != parser.OperandVariable || inst.Operand.Text != "a" {
		t.Fatalf("unexpected operand: %+v", inst.Operand)
	}
}

func TestParser_WhitespaceStrippedEverywhere(t *testing.T) {
	inst := parseOne(t, "  set :  a ,  10  ")
	if inst.Mnemonic != "set" || inst.Name != "a" || inst.Operand.Text != "10" {
		t.Fatalf("unexpected instruction: %+v", inst)
	}
}

func TestParser_FlgBindsLabel(t *testing.T) {
	p := parser.NewParser("test.moon", parser.DefaultSigil)
	program, err := p.Parse("nll:x\nflg:loop\ngto:loop")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	line, ok := program.Labels.Lookup("loop")
	if !ok || line != 1 {
		t.Fatalf("expected label 'loop' at line 1, got line=%d ok=%v", line, ok)
	}
}

func TestParser_BlankLinesAreNll(t *testing.T) {
	p := parser.NewParser("test.moon", parser.DefaultSigil)
	program, err := p.Parse("\n   \nvar:a,int")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(program.Instructions) != 3 {
		t.Fatalf("expected 3 instructions, got %d", len(program.Instructions))
	}
	if program.Instructions[0].Mnemonic != "nll" || program.Instructions[1].Mnemonic != "nll" {
		t.Fatalf("expected nll instructions, got %+v / %+v", program.Instructions[0], program.Instructions[1])
	}
}

func TestParser_NonEmptyLineWithoutColonIsNotEnoughOperands(t *testing.T) {
	p := parser.NewParser("test.moon", parser.DefaultSigil)
	_, err := p.Parse("this has no colon")
	assertParseErrorKind(t, err, parser.ErrNotEnoughOperands)
}

func TestParser_OutputLengthMatchesInputLines(t *testing.T) {
	source := "var:a,int\nset:a,1\n\nadd:a,1\nprt:&a"
	p := parser.NewParser("test.moon", parser.DefaultSigil)
	program, err := p.Parse(source)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(program.Instructions) != 5 {
		t.Fatalf("expected 5 instructions (one per line), got %d", len(program.Instructions))
	}
}

func TestParser_TooMuchInstructionSeparator(t *testing.T) {
	p := parser.NewParser("test.moon", parser.DefaultSigil)
	_, err := p.Parse("set:a:b,10")
	assertParseErrorKind(t, err, parser.ErrTooMuchInstructionSeparator)
}

func TestParser_NotEnoughOperands(t *testing.T) {
	p := parser.NewParser("test.moon", parser.DefaultSigil)
	_, err := p.Parse("set:a")
	assertParseErrorKind(t, err, parser.ErrNotEnoughOperands)
}

func TestParser_TooMuchOperands(t *testing.T) {
	p := parser.NewParser("test.moon", parser.DefaultSigil)
	_, err := p.Parse("prt:a,b")
	assertParseErrorKind(t, err, parser.ErrTooMuchOperands)
}

func TestParser_EmptyOperand(t *testing.T) {
	p := parser.NewParser("test.moon", parser.DefaultSigil)
	_, err := p.Parse("set:a,")
	assertParseErrorKind(t, err, parser.ErrEmptyOperand)
}

func TestParser_EmptyInstruction(t *testing.T) {
	p := parser.NewParser("test.moon", parser.DefaultSigil)
	_, err := p.Parse(":a,b")
	assertParseErrorKind(t, err, parser.ErrEmptyInstruction)
}

func TestParser_UnknownInstruction(t *testing.T) {
	p := parser.NewParser("test.moon", parser.DefaultSigil)
	_, err := p.Parse("foo:x,1")
	assertParseErrorKind(t, err, parser.ErrUnknownInstruction)
}

func TestParser_UnknownType(t *testing.T) {
	p := parser.NewParser("test.moon", parser.DefaultSigil)
	_, err := p.Parse("var:a,bogus")
	assertParseErrorKind(t, err, parser.ErrUnknownType)
}

func TestParser_CarryInstructionsBothOperands(t *testing.T) {
	inst := parseOne(t, "cadd:&a,1.5")
	if inst.Mnemonic != "cadd" {
		t.Fatalf("unexpected mnemonic: %q", inst.Mnemonic)
	}
	if inst.Operand.Kind != parser.OperandVariable || inst.Operand.Text != "a" {
		t.Fatalf("unexpected operand1: %+v", inst.Operand)
	}
	if inst.Operand2.Kind != parser.OperandLiteral || inst.Operand2.Text != "1.5" {
		t.Fatalf("unexpected operand2: %+v", inst.Operand2)
	}
}

func TestParser_ReparseIsIdempotent(t *testing.T) {
	source := "var:a,int\nset:a,1\nflg:loop\nadd:a,1\njne:&a,loop\nprt:&a"
	p1 := parser.NewParser("test.moon", parser.DefaultSigil)
	prog1, err := p1.Parse(source)
	if err != nil {
		t.Fatalf("first parse error: %v", err)
	}
	p2 := parser.NewParser("test.moon", parser.DefaultSigil)
	prog2, err := p2.Parse(source)
	if err != nil {
		t.Fatalf("second parse error: %v", err)
	}
	if len(prog1.Instructions) != len(prog2.Instructions) {
		t.Fatalf("instruction count differs between parses")
	}
	for i := range prog1.Instructions {
		a, b := prog1.Instructions[i], prog2.Instructions[i]
		if *a != *b {
			t.Fatalf("instruction %d differs: %+v vs %+v", i, a, b)
		}
	}
	if prog1.Labels.Len() != prog2.Labels.Len() {
		t.Fatalf("label count differs between parses")
	}
}

func assertParseErrorKind(t *testing.T, err error, want parser.ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error of kind %s, got nil", want)
	}
	perr, ok := err.(*parser.Error)
	if !ok {
		t.Fatalf("expected *parser.Error, got %T: %v", err, err)
	}
	if perr.Kind != want {
		t.Fatalf("expected error kind %s, got %s", want, perr.Kind)
	}
}
