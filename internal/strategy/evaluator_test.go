package strategy

import (
	"math"
	"testing"

	"golang-backtest/internal/dto"
	"golang-backtest/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cond(left dto.Operand, op dto.ComparisonOperator, right dto.Operand) dto.LogicalCondition {
	return dto.LogicalCondition{Left: left, Operator: op, Right: right}
}

func boolCond(v bool) dto.LogicalCondition {
	if v {
		return cond(dto.NumberOperand(1), dto.OpGreater, dto.NumberOperand(0))
	}
	return cond(dto.NumberOperand(0), dto.OpGreater, dto.NumberOperand(1))
}

func TestResolve(t *testing.T) {
	frame := Frame{
		Bar:        model.Bar{Open: 10, High: 14, Low: 8, Close: 12, Volume: 500},
		Indicators: map[string]float64{"sma_20": 11.5, "RSI_14": 70, "close": 99},
	}
	nanFrame := Frame{Indicators: map[string]float64{"ema_5": math.NaN()}}

	tests := []struct {
		name    string
		operand dto.Operand
		frame   Frame
		want    float64
		wantErr error
	}{
		{name: "numeric literal", operand: dto.NumberOperand(42), frame: frame, want: 42},
		{name: "indicator", operand: dto.NameOperand("sma_20"), frame: frame, want: 11.5},
		{name: "indicator case-insensitive", operand: dto.NameOperand("rsi_14"), frame: frame, want: 70},
		{name: "indicator shadows bar field", operand: dto.NameOperand("Close"), frame: frame, want: 99},
		{name: "bar field", operand: dto.NameOperand("volume"), frame: frame, want: 500},
		{name: "hl2", operand: dto.NameOperand("hl2"), frame: frame, want: 11},
		{name: "hlc3", operand: dto.NameOperand("HLC3"), frame: frame, want: (14.0 + 8 + 12) / 3},
		{name: "ohlc4", operand: dto.NameOperand("ohlc4"), frame: frame, want: 11},
		{name: "numeric string", operand: dto.NameOperand("30.5"), frame: frame, want: 30.5},
		{name: "nan indicator resolves to zero", operand: dto.NameOperand("ema_5"), frame: nanFrame, want: 0},
		{name: "unknown", operand: dto.NameOperand("ema_200"), frame: frame, wantErr: model.ErrUnresolvedOperand},
		{name: "empty", operand: dto.Operand{}, frame: frame, wantErr: model.ErrUnresolvedOperand},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.operand, tt.frame)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestEvaluator_EvaluateCondition(t *testing.T) {
	e := NewEvaluator()
	frame := Frame{Indicators: map[string]float64{"a": 1.0000001, "b": 1}}

	tests := []struct {
		name string
		op   dto.ComparisonOperator
		want bool
	}{
		{name: "greater", op: dto.OpGreater, want: true},
		{name: "less", op: dto.OpLess, want: false},
		{name: "greater or equal", op: dto.OpGreaterOrEqual, want: true},
		{name: "less or equal", op: dto.OpLessOrEqual, want: false},
		{name: "equal within tolerance", op: dto.OpEqual, want: true},
		{name: "single equals sign", op: dto.OpAssign, want: true},
		{name: "not equal within tolerance", op: dto.OpNotEqual, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.EvaluateCondition(cond(dto.NameOperand("a"), tt.op, dto.NameOperand("b")), frame, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := e.EvaluateCondition(cond(dto.NameOperand("a"), "<>", dto.NameOperand("b")), frame, nil)
	assert.Error(t, err)
}

func TestEvaluator_Crossover(t *testing.T) {
	e := NewEvaluator()
	frame := func(fast, slow float64) Frame {
		return Frame{Indicators: map[string]float64{"fast": fast, "slow": slow}}
	}
	above := cond(dto.NameOperand("fast"), dto.OpCrossesAbove, dto.NameOperand("slow"))
	below := cond(dto.NameOperand("fast"), dto.OpCrossesBelow, dto.NameOperand("slow"))

	tests := []struct {
		name string
		cond dto.LogicalCondition
		prev *Frame
		cur  Frame
		want bool
	}{
		{name: "no previous state", cond: above, prev: nil, cur: frame(2, 1), want: false},
		{name: "crosses above", cond: above, prev: &Frame{Indicators: map[string]float64{"fast": 1, "slow": 2}}, cur: frame(3, 2), want: true},
		{name: "touching then above", cond: above, prev: &Frame{Indicators: map[string]float64{"fast": 2, "slow": 2}}, cur: frame(3, 2), want: true},
		{name: "already above", cond: above, prev: &Frame{Indicators: map[string]float64{"fast": 3, "slow": 2}}, cur: frame(4, 2), want: false},
		{name: "crosses below", cond: below, prev: &Frame{Indicators: map[string]float64{"fast": 3, "slow": 2}}, cur: frame(1, 2), want: true},
		{name: "stays below", cond: below, prev: &Frame{Indicators: map[string]float64{"fast": 1, "slow": 2}}, cur: frame(1, 2), want: false},
		{name: "literal threshold", cond: cond(dto.NameOperand("fast"), dto.OpCrossesAbove, dto.NumberOperand(30)),
			prev: &Frame{Indicators: map[string]float64{"fast": 29}}, cur: frame(31, 0), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.EvaluateCondition(tt.cond, tt.cur, tt.prev)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluator_Evaluate(t *testing.T) {
	e := NewEvaluator()

	tests := []struct {
		name    string
		expr    dto.LogicalExpression
		want    bool
		wantErr bool
	}{
		{name: "empty expression", expr: dto.LogicalExpression{}, want: false},
		{name: "single condition", expr: dto.LogicalExpression{Conditions: []dto.LogicalCondition{boolCond(true)}}, want: true},
		{
			name: "left to right fold without precedence",
			expr: dto.LogicalExpression{
				Conditions: []dto.LogicalCondition{boolCond(true), boolCond(true), boolCond(false)},
				Operators:  []dto.LogicalOperator{dto.LogicalOr, dto.LogicalAnd},
			},
			want: false,
		},
		{
			name: "not means and-not",
			expr: dto.LogicalExpression{
				Conditions: []dto.LogicalCondition{boolCond(true), boolCond(false)},
				Operators:  []dto.LogicalOperator{dto.LogicalNot},
			},
			want: true,
		},
		{
			name: "lower case operators",
			expr: dto.LogicalExpression{
				Conditions: []dto.LogicalCondition{boolCond(false), boolCond(true)},
				Operators:  []dto.LogicalOperator{"or"},
			},
			want: true,
		},
		{
			name: "operator count mismatch",
			expr: dto.LogicalExpression{
				Conditions: []dto.LogicalCondition{boolCond(true), boolCond(true)},
			},
			wantErr: true,
		},
		{
			name: "single condition with a stray operator",
			expr: dto.LogicalExpression{
				Conditions: []dto.LogicalCondition{boolCond(true)},
				Operators:  []dto.LogicalOperator{dto.LogicalAnd},
			},
			wantErr: true,
		},
		{
			name: "unknown logical operator",
			expr: dto.LogicalExpression{
				Conditions: []dto.LogicalCondition{boolCond(true), boolCond(true)},
				Operators:  []dto.LogicalOperator{"XOR"},
			},
			wantErr: true,
		},
		{
			name: "unresolved operand",
			expr: dto.LogicalExpression{
				Conditions: []dto.LogicalCondition{cond(dto.NameOperand("missing"), dto.OpGreater, dto.NumberOperand(1))},
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Evaluate(tt.expr, Frame{}, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
