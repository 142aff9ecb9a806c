package strategy

import (
	"testing"

	"golang-backtest/internal/dto"
	"golang-backtest/internal/model"

	"github.com/stretchr/testify/assert"
)

func validConfig() dto.StrategyConfig {
	return dto.StrategyConfig{
		Name:           "ema cross",
		AssetSelection: dto.AssetSelection{Symbol: "BTCUSDT", Exchange: "binance", MarketType: dto.MarketSpot},
		SignalGeneration: dto.SignalGeneration{
			Indicators: []dto.IndicatorConfig{
				{Type: "ema", Period: 20, Source: "close"},
				{Type: "ema", Period: 50, Source: "close"},
				{Type: "rsi", Period: 14},
			},
			EntryConditions: dto.LogicalExpression{
				Conditions: []dto.LogicalCondition{
					{Left: dto.NameOperand("ema_20"), Operator: dto.OpCrossesAbove, Right: dto.NameOperand("ema_50")},
					{Left: dto.NameOperand("rsi_14"), Operator: dto.OpLess, Right: dto.NumberOperand(70)},
				},
				Operators: []dto.LogicalOperator{dto.LogicalAnd},
			},
			ExitConditions: dto.LogicalExpression{
				Conditions: []dto.LogicalCondition{
					{Left: dto.NameOperand("ema_20"), Operator: dto.OpCrossesBelow, Right: dto.NameOperand("ema_50")},
				},
			},
		},
		ExecutionParameters: dto.ExecutionParameters{QuantityType: dto.QuantityPercentage, QuantityValue: 10, FeesBps: 10, SlippageBps: 5},
		RiskManagement:      dto.RiskManagement{StopLossPct: 5, TakeProfitPct: 10},
	}
}

func TestValidator_Validate(t *testing.T) {
	v := NewValidator(nil)

	tests := []struct {
		name         string
		mutate       func(cfg *dto.StrategyConfig)
		wantValid    bool
		wantErrors   []string
		wantWarnings []string
		wantChecks   func(t *testing.T, c Checks)
	}{
		{
			name:      "valid",
			mutate:    func(cfg *dto.StrategyConfig) {},
			wantValid: true,
		},
		{
			name: "non-positive period",
			mutate: func(cfg *dto.StrategyConfig) {
				cfg.SignalGeneration.Indicators[2].Period = 0
			},
			wantErrors: []string{"indicator rsi has invalid period: 0"},
			wantChecks: func(t *testing.T, c Checks) { assert.False(t, c.IndicatorsValid) },
		},
		{
			name: "macd fast not below slow",
			mutate: func(cfg *dto.StrategyConfig) {
				cfg.SignalGeneration.Indicators = append(cfg.SignalGeneration.Indicators,
					dto.IndicatorConfig{Type: "macd", FastPeriod: 30})
			},
			wantErrors: []string{"MACD fast period must be less than slow period"},
		},
		{
			name: "empty entry conditions",
			mutate: func(cfg *dto.StrategyConfig) {
				cfg.SignalGeneration.EntryConditions = dto.LogicalExpression{}
			},
			wantErrors: []string{"no entry conditions defined"},
			wantChecks: func(t *testing.T, c Checks) { assert.False(t, c.ConditionsValid) },
		},
		{
			name: "non-positive quantity",
			mutate: func(cfg *dto.StrategyConfig) {
				cfg.ExecutionParameters.QuantityValue = 0
			},
			wantErrors: []string{"quantity value must be positive"},
			wantChecks: func(t *testing.T, c Checks) { assert.False(t, c.ExecutionParametersValid) },
		},
		{
			name: "risk based sizing without stop loss",
			mutate: func(cfg *dto.StrategyConfig) {
				cfg.ExecutionParameters.QuantityType = dto.QuantityRiskBased
				cfg.RiskManagement.StopLossPct = 0
			},
			wantErrors: []string{"risk_based sizing requires a positive stop loss"},
		},
		{
			name: "warnings are not fatal",
			mutate: func(cfg *dto.StrategyConfig) {
				cfg.RiskManagement.StopLossPct = 60
				cfg.ExecutionParameters.FeesBps = 1500
				cfg.SignalGeneration.ExitConditions = dto.LogicalExpression{}
			},
			wantValid: true,
			wantWarnings: []string{
				"no exit conditions defined - using stop loss/take profit only",
				"fees > 10% seem very high",
				"stop loss > 50% may be too high",
			},
		},
		{
			name: "unknown operand is a warning",
			mutate: func(cfg *dto.StrategyConfig) {
				cfg.SignalGeneration.ExitConditions.Conditions[0].Right = dto.NameOperand("sma_200")
			},
			wantValid:    true,
			wantWarnings: []string{`operand "sma_200" does not match any configured indicator or price field`},
		},
		{
			name: "single exit condition with a stray operator",
			mutate: func(cfg *dto.StrategyConfig) {
				cfg.SignalGeneration.ExitConditions.Conditions = cfg.SignalGeneration.ExitConditions.Conditions[:1]
				cfg.SignalGeneration.ExitConditions.Operators = []dto.LogicalOperator{dto.LogicalOr}
			},
			wantErrors: []string{"exit conditions: number of operators must be one less than number of conditions"},
			wantChecks: func(t *testing.T, c Checks) { assert.False(t, c.ConditionsValid) },
		},
		{
			name: "unknown exchange is a warning",
			mutate: func(cfg *dto.StrategyConfig) {
				cfg.AssetSelection.Exchange = "kraken"
			},
			wantValid:    true,
			wantWarnings: []string{`exchange "kraken" is not a known exchange`},
		},
		{
			name: "struct tags",
			mutate: func(cfg *dto.StrategyConfig) {
				cfg.AssetSelection.Symbol = "X"
				cfg.SignalGeneration.EntryConditions.Conditions[1].Operator = "=>"
			},
			wantErrors: []string{
				"StrategyConfig.AssetSelection.Symbol failed on 'min' (3)",
				"StrategyConfig.SignalGeneration.EntryConditions.Conditions[1].Operator failed on 'oneof' (> < >= <= = == != crosses_above crosses_below)",
			},
			wantChecks: func(t *testing.T, c Checks) { assert.False(t, c.ConditionsValid) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			got := v.Validate(cfg)

			assert.Equal(t, tt.wantValid, got.Valid)
			for _, e := range tt.wantErrors {
				assert.Contains(t, got.Errors, e)
			}
			for _, w := range tt.wantWarnings {
				assert.Contains(t, got.Warnings, w)
			}
			if tt.wantValid {
				assert.Empty(t, got.Errors)
				assert.NoError(t, got.Err())
			} else {
				assert.ErrorIs(t, got.Err(), model.ErrConfigValidation)
			}
			if tt.wantChecks != nil {
				tt.wantChecks(t, got.Checks)
			}
		})
	}
}
