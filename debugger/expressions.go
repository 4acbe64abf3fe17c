package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aunetx/libmoon/vm"
)

// ExpressionEvaluator evaluates watch/breakpoint condition expressions
// and print-command arguments against a variable store, remembering
// each result so that a later expression consisting of just $1, $2, ...
// returns it; $N inside a larger expression is not resolved.
type ExpressionEvaluator struct {
	valueHistory []ExprValue
}

// NewExpressionEvaluator creates a new expression evaluator.
func NewExpressionEvaluator() *ExpressionEvaluator {
	return &ExpressionEvaluator{}
}

// EvaluateExpression evaluates expr against store and records the
// result in the value history.
func (e *ExpressionEvaluator) EvaluateExpression(expr string, store *vm.Store) (ExprValue, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return ExprValue{}, fmt.Errorf("empty expression")
	}
	if v, ok := e.resolveHistoryRef(expr); ok {
		e.valueHistory = append(e.valueHistory, v)
		return v, nil
	}

	tokens := NewExprLexer(expr).TokenizeAll()
	result, err := NewExprParser(tokens, store).Parse()
	if err != nil {
		return ExprValue{}, err
	}

	e.valueHistory = append(e.valueHistory, result)
	return result, nil
}

// Evaluate evaluates expr and reports its truthiness, for use as a
// breakpoint or watchpoint condition.
func (e *ExpressionEvaluator) Evaluate(expr string, store *vm.Store) (bool, error) {
	result, err := e.EvaluateExpression(expr, store)
	if err != nil {
		return false, err
	}
	return result.Truthy(), nil
}

func (e *ExpressionEvaluator) resolveHistoryRef(expr string) (ExprValue, bool) {
	if !strings.HasPrefix(expr, "$") {
		return ExprValue{}, false
	}
	num, err := strconv.Atoi(expr[1:])
	if err != nil {
		return ExprValue{}, false
	}
	v, err := e.GetValue(num)
	if err != nil {
		return ExprValue{}, false
	}
	return v, true
}

// GetValueNumber returns how many values have been recorded so far.
func (e *ExpressionEvaluator) GetValueNumber() int {
	return len(e.valueHistory)
}

// GetValue returns a value from history by its 1-based number.
func (e *ExpressionEvaluator) GetValue(number int) (ExprValue, error) {
	if number < 1 || number > len(e.valueHistory) {
		return ExprValue{}, fmt.Errorf("value $%d not in history", number)
	}
	return e.valueHistory[number-1], nil
}

// Reset clears the value history.
func (e *ExpressionEvaluator) Reset() {
	e.valueHistory = e.valueHistory[:0]
}
