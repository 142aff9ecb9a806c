package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"golang-backtest/internal/dto"
	"golang-backtest/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const strategyYAML = `
name: ema cross
asset_selection:
  symbol: BTCUSDT
  exchange: binance
  market_type: spot
signal_generation:
  indicators:
    - type: ema
      period: 20
    - type: ema
      period: 50
  entry_conditions:
    conditions:
      - left_operand: ema_20
        operator: crosses_above
        right_operand: ema_50
      - left_operand: close
        operator: ">"
        right_operand: 100
    operators: [AND]
  exit_conditions:
    conditions:
      - left_operand: ema_20
        operator: crosses_below
        right_operand: ema_50
execution_parameters:
  quantity_type: percentage
  quantity_value: 10
  fees_bps: 10
risk_management:
  stop_loss_pct: 5
  take_profit_pct: 10
`

func TestStrategyRepository_Load(t *testing.T) {
	repo := NewStrategyRepository()

	cfg, err := repo.Load(context.Background(), writeFile(t, "strategy.yaml", strategyYAML))
	require.NoError(t, err)

	assert.Equal(t, "ema cross", cfg.Name)
	assert.Equal(t, "BTCUSDT", cfg.AssetSelection.Symbol)
	require.Len(t, cfg.SignalGeneration.Indicators, 2)
	assert.Equal(t, 50, cfg.SignalGeneration.Indicators[1].Period)

	entry := cfg.SignalGeneration.EntryConditions
	require.Len(t, entry.Conditions, 2)
	assert.Equal(t, dto.NameOperand("ema_20"), entry.Conditions[0].Left)
	assert.Equal(t, dto.OpCrossesAbove, entry.Conditions[0].Operator)
	require.NotNil(t, entry.Conditions[1].Right.Number)
	assert.Equal(t, 100.0, *entry.Conditions[1].Right.Number)
	assert.Equal(t, []dto.LogicalOperator{dto.LogicalAnd}, entry.Operators)

	assert.Equal(t, dto.QuantityPercentage, cfg.ExecutionParameters.QuantityType)
	assert.Equal(t, 5.0, cfg.RiskManagement.StopLossPct)
}

func TestStrategyRepository_SaveAndLoad(t *testing.T) {
	repo := NewStrategyRepository()
	original, err := repo.Load(context.Background(), writeFile(t, "strategy.yaml", strategyYAML))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "copy.yaml")
	require.NoError(t, repo.Save(context.Background(), path, original))

	loaded, err := repo.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestStrategyRepository_Load_Errors(t *testing.T) {
	repo := NewStrategyRepository()

	_, err := repo.Load(context.Background(), writeFile(t, "bad.yaml", "name: [unclosed"))
	assert.True(t, errors.Is(err, model.ErrConfigValidation))

	_, err = repo.Load(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.Is(err, model.ErrConfigValidation))
}
