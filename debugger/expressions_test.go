package debugger

import (
	"testing"

	"github.com/aunetx/libmoon/parser"
	"github.com/aunetx/libmoon/vm"
)

func newTestStore() *vm.Store {
	s := vm.NewStore()
	s.Declare("a", parser.TagInt)
	s.MustSet("a", vm.NewIntCell(10))
	s.Declare("b", parser.TagInt)
	s.MustSet("b", vm.NewIntCell(20))
	s.Declare("ratio", parser.TagFlt)
	s.MustSet("ratio", vm.NewFltCell(2.5))
	s.Declare("letter", parser.TagChr)
	s.MustSet("letter", vm.NewChrCell('x'))
	return s
}

func TestExpressionEvaluator_Numbers(t *testing.T) {
	eval := NewExpressionEvaluator()
	store := newTestStore()

	tests := []struct {
		name string
		expr string
		want ExprValue
	}{
		{"Decimal", "42", intValue(42)},
		{"Negative", "-1", intValue(-1)},
		{"Float", "2.5", fltValue(2.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eval.EvaluateExpression(tt.expr, store)
			if err != nil {
				t.Fatalf("EvaluateExpression() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("EvaluateExpression() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExpressionEvaluator_VariableReferences(t *testing.T) {
	eval := NewExpressionEvaluator()
	store := newTestStore()

	tests := []struct {
		name string
		expr string
		want ExprValue
	}{
		{"int var", "&a", intValue(10)},
		{"int var 2", "&b", intValue(20)},
		{"flt var", "&ratio", fltValue(2.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eval.EvaluateExpression(tt.expr, store)
			if err != nil {
				t.Fatalf("EvaluateExpression() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("EvaluateExpression() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExpressionEvaluator_ChrRejected(t *testing.T) {
	eval := NewExpressionEvaluator()
	store := newTestStore()

	_, err := eval.EvaluateExpression("&letter", store)
	if err == nil {
		t.Error("expected error referencing a chr variable in an expression")
	}
}

func TestExpressionEvaluator_Arithmetic(t *testing.T) {
	eval := NewExpressionEvaluator()
	store := newTestStore()

	tests := []struct {
		name string
		expr string
		want ExprValue
	}{
		{"Addition", "10 + 20", intValue(30)},
		{"Subtraction", "50 - 20", intValue(30)},
		{"Multiplication", "5 * 6", intValue(30)},
		{"Division", "60 / 2", intValue(30)},
		{"Variable arithmetic", "&a + &b", intValue(30)},
		{"Mixed flt promotes", "&ratio + 1", fltValue(3.5)},
		{"Precedence", "2 + 3 * 4", intValue(14)},
		{"Parens", "(2 + 3) * 4", intValue(20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eval.EvaluateExpression(tt.expr, store)
			if err != nil {
				t.Fatalf("EvaluateExpression() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("EvaluateExpression() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExpressionEvaluator_Comparison(t *testing.T) {
	eval := NewExpressionEvaluator()
	store := newTestStore()

	tests := []struct {
		name string
		expr string
		want bool
	}{
		{"Equal true", "&a == 10", true},
		{"Equal false", "&a == 11", false},
		{"Less than", "&a < &b", true},
		{"Greater than", "&b > &a", true},
		{"Not equal", "&a != &b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eval.Evaluate(tt.expr, store)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpressionEvaluator_ValueHistory(t *testing.T) {
	eval := NewExpressionEvaluator()
	store := newTestStore()

	val1, _ := eval.EvaluateExpression("42", store)
	val2, _ := eval.EvaluateExpression("100", store)

	if eval.GetValueNumber() != 2 {
		t.Errorf("ValueNumber = %d, want 2", eval.GetValueNumber())
	}

	got1, err := eval.GetValue(1)
	if err != nil {
		t.Fatalf("GetValue(1) error = %v", err)
	}
	if got1 != val1 {
		t.Errorf("GetValue(1) = %+v, want %+v", got1, val1)
	}

	got2, err := eval.GetValue(2)
	if err != nil {
		t.Fatalf("GetValue(2) error = %v", err)
	}
	if got2 != val2 {
		t.Errorf("GetValue(2) = %+v, want %+v", got2, val2)
	}

	_, err = eval.GetValue(999)
	if err == nil {
		t.Error("Expected error for invalid value number")
	}
}

func TestExpressionEvaluator_HistoryReference(t *testing.T) {
	eval := NewExpressionEvaluator()
	store := newTestStore()

	if _, err := eval.EvaluateExpression("&a", store); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := eval.EvaluateExpression("$1", store)
	if err != nil {
		t.Fatalf("unexpected error resolving $1: %v", err)
	}
	if got != intValue(10) {
		t.Errorf("$1 = %+v, want 10", got)
	}
}

func TestExpressionEvaluator_Errors(t *testing.T) {
	eval := NewExpressionEvaluator()
	store := newTestStore()

	tests := []struct {
		name string
		expr string
	}{
		{"Empty expression", ""},
		{"Unknown variable", "&nope"},
		{"Division by zero", "10 / 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eval.EvaluateExpression(tt.expr, store)
			if err == nil {
				t.Error("Expected error but got none")
			}
		})
	}
}

func TestExpressionEvaluator_Reset(t *testing.T) {
	eval := NewExpressionEvaluator()
	store := newTestStore()

	if _, err := eval.EvaluateExpression("42", store); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := eval.EvaluateExpression("100", store); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if eval.GetValueNumber() != 2 {
		t.Error("Value number should be 2 before reset")
	}

	eval.Reset()

	if eval.GetValueNumber() != 0 {
		t.Error("Value number should be 0 after reset")
	}

	if len(eval.valueHistory) != 0 {
		t.Error("Value history should be empty after reset")
	}
}
