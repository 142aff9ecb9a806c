package strategy

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang-backtest/internal/dto"
	"golang-backtest/internal/model"
)

// EqualityTolerance is the absolute difference below which two operands compare equal.
const EqualityTolerance = 1e-6

// Frame is the state of one bar as seen by the evaluator.
type Frame struct {
	Bar        model.Bar
	Indicators map[string]float64
}

// Evaluator resolves operands and folds logical expressions. It holds no per-run
// state, so one instance can serve concurrent backtests.
type Evaluator struct{}

func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate folds expr left to right over cur. prev is the previous evaluable bar and
// is nil at the first one, in which case crossovers never fire.
func (e *Evaluator) Evaluate(expr dto.LogicalExpression, cur Frame, prev *Frame) (bool, error) {
	if len(expr.Conditions) == 0 {
		return false, nil
	}
	if len(expr.Operators) != len(expr.Conditions)-1 {
		return false, fmt.Errorf("number of operators must be one less than number of conditions: got %d operators for %d conditions",
			len(expr.Operators), len(expr.Conditions))
	}

	result, err := e.EvaluateCondition(expr.Conditions[0], cur, prev)
	if err != nil {
		return false, err
	}
	for i, op := range expr.Operators {
		next, err := e.EvaluateCondition(expr.Conditions[i+1], cur, prev)
		if err != nil {
			return false, err
		}
		switch dto.LogicalOperator(strings.ToUpper(string(op))) {
		case dto.LogicalAnd:
			result = result && next
		case dto.LogicalOr:
			result = result || next
		case dto.LogicalNot:
			result = result && !next
		default:
			return false, fmt.Errorf("unsupported logical operator: %s", op)
		}
	}
	return result, nil
}

func (e *Evaluator) EvaluateCondition(cond dto.LogicalCondition, cur Frame, prev *Frame) (bool, error) {
	if cond.Operator == dto.OpCrossesAbove || cond.Operator == dto.OpCrossesBelow {
		return e.crossover(cond, cur, prev)
	}

	left, err := Resolve(cond.Left, cur)
	if err != nil {
		return false, err
	}
	right, err := Resolve(cond.Right, cur)
	if err != nil {
		return false, err
	}

	switch cond.Operator {
	case dto.OpGreater:
		return left > right, nil
	case dto.OpLess:
		return left < right, nil
	case dto.OpGreaterOrEqual:
		return left >= right, nil
	case dto.OpLessOrEqual:
		return left <= right, nil
	case dto.OpEqual, dto.OpAssign:
		return math.Abs(left-right) < EqualityTolerance, nil
	case dto.OpNotEqual:
		return math.Abs(left-right) >= EqualityTolerance, nil
	}
	return false, fmt.Errorf("unsupported operator: %s", cond.Operator)
}

func (e *Evaluator) crossover(cond dto.LogicalCondition, cur Frame, prev *Frame) (bool, error) {
	if prev == nil {
		return false, nil
	}
	leftCur, err := Resolve(cond.Left, cur)
	if err != nil {
		return false, err
	}
	rightCur, err := Resolve(cond.Right, cur)
	if err != nil {
		return false, err
	}
	leftPrev, err := Resolve(cond.Left, *prev)
	if err != nil {
		return false, err
	}
	rightPrev, err := Resolve(cond.Right, *prev)
	if err != nil {
		return false, err
	}

	if cond.Operator == dto.OpCrossesAbove {
		return leftPrev <= rightPrev && leftCur > rightCur, nil
	}
	return leftPrev >= rightPrev && leftCur < rightCur, nil
}

// Resolve returns the numeric value of an operand. Names are tried as an indicator
// (case-insensitive), a bar field, a derived price and finally a numeric string.
// Missing indicator values (NaN) resolve to 0.
func Resolve(op dto.Operand, f Frame) (float64, error) {
	if op.Number != nil {
		return *op.Number, nil
	}
	name := strings.ToLower(strings.TrimSpace(op.Name))

	if v, ok := lookupIndicator(f.Indicators, name); ok {
		if math.IsNaN(v) {
			return 0, nil
		}
		return v, nil
	}

	switch name {
	case "open":
		return f.Bar.Open, nil
	case "high":
		return f.Bar.High, nil
	case "low":
		return f.Bar.Low, nil
	case "close":
		return f.Bar.Close, nil
	case "volume":
		return f.Bar.Volume, nil
	case "hl2":
		return f.Bar.HL2(), nil
	case "hlc3":
		return f.Bar.HLC3(), nil
	case "ohlc4":
		return f.Bar.OHLC4(), nil
	}

	if v, err := strconv.ParseFloat(name, 64); err == nil {
		return v, nil
	}
	return 0, fmt.Errorf("%w: %q", model.ErrUnresolvedOperand, op.Name)
}

func lookupIndicator(indicators map[string]float64, name string) (float64, bool) {
	if v, ok := indicators[name]; ok {
		return v, true
	}
	for k, v := range indicators {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return 0, false
}
