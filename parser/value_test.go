package parser_test

import (
	"testing"

	"github.com/aunetx/libmoon/parser"
)

func TestParseTag(t *testing.T) {
	cases := map[string]parser.Tag{
		"int": parser.TagInt,
		"flt": parser.TagFlt,
		"chr": parser.TagChr,
	}
	for token, want := range cases {
		got, err := parser.ParseTag(parser.Position{}, token)
		if err != nil {
			t.Fatalf("ParseTag(%q) error: %v", token, err)
		}
		if got != want {
			t.Fatalf("ParseTag(%q) = %v, want %v", token, got, want)
		}
	}
}

func TestParseTag_Unknown(t *testing.T) {
	_, err := parser.ParseTag(parser.Position{}, "bogus")
	assertParseErrorKind(t, err, parser.ErrUnknownType)
}

func TestParseOperand_Literal(t *testing.T) {
	op, err := parser.ParseOperand(parser.Position{}, "10", parser.DefaultSigil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op.Kind != parser.OperandLiteral || op.Text != "10" {
		t.Fatalf("unexpected operand: %+v", op)
	}
}

func TestParseOperand_Variable(t *testing.T) {
	op, err := parser.ParseOperand(parser.Position{}, "&a", parser.DefaultSigil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op.Kind != parser.OperandVariable || op.Text != "a" {
		t.Fatalf("unexpected operand: %+v", op)
	}
}

func TestParseOperand_CustomSigil(t *testing.T) {
	op, err := parser.ParseOperand(parser.Position{}, "$a", '$')
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op.Kind != parser.OperandVariable || op.Text != "a" {
		t.Fatalf("unexpected operand: %+v", op)
	}
}

func TestParseOperand_Empty(t *testing.T) {
	_, err := parser.ParseOperand(parser.Position{}, "", parser.DefaultSigil)
	assertParseErrorKind(t, err, parser.ErrEmptyValue)
}
