package backtest

import (
	"testing"

	"golang-backtest/internal/dto"
	"golang-backtest/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestPositionSize(t *testing.T) {
	tests := []struct {
		name  string
		exec  dto.ExecutionParameters
		risk  dto.RiskManagement
		price float64
		cash  float64
		want  float64
	}{
		{
			name:  "percentage of cash",
			exec:  dto.ExecutionParameters{QuantityType: dto.QuantityPercentage, QuantityValue: 10},
			price: 100,
			cash:  10000,
			want:  10,
		},
		{
			name:  "percentage leaves room for fees",
			exec:  dto.ExecutionParameters{QuantityType: dto.QuantityPercentage, QuantityValue: 100, FeesBps: 10},
			price: 100,
			cash:  1000,
			want:  9.99000999,
		},
		{
			name:  "fixed quantity",
			exec:  dto.ExecutionParameters{QuantityType: dto.QuantityFixed, QuantityValue: 3},
			price: 100,
			cash:  10000,
			want:  3,
		},
		{
			name:  "fixed quantity capped by cash",
			exec:  dto.ExecutionParameters{QuantityType: dto.QuantityFixed, QuantityValue: 5},
			price: 100,
			cash:  100,
			want:  1,
		},
		{
			name:  "capped by max position size",
			exec:  dto.ExecutionParameters{QuantityType: dto.QuantityPercentage, QuantityValue: 50},
			risk:  dto.RiskManagement{MaxPositionSizePct: 20},
			price: 10,
			cash:  1000,
			want:  20,
		},
		{
			name:  "risk based",
			exec:  dto.ExecutionParameters{QuantityType: dto.QuantityRiskBased, QuantityValue: 1},
			risk:  dto.RiskManagement{StopLossPct: 2},
			price: 100,
			cash:  10000,
			want:  50,
		},
		{
			name:  "risk based without stop loss",
			exec:  dto.ExecutionParameters{QuantityType: dto.QuantityRiskBased, QuantityValue: 1},
			price: 100,
			cash:  10000,
			want:  0,
		},
		{
			name:  "no cash",
			exec:  dto.ExecutionParameters{QuantityType: dto.QuantityPercentage, QuantityValue: 10},
			price: 100,
			cash:  0,
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := positionSize(tt.exec, tt.risk, tt.price, tt.cash)
			assert.InDelta(t, tt.want, got, 1e-8)
		})
	}
}

func TestRiskExit(t *testing.T) {
	lot := model.Trade{EntryPrice: 100, Quantity: 1}

	tests := []struct {
		name       string
		risk       dto.RiskManagement
		price      float64
		peak       float64
		wantReason model.ExitReason
		wantHit    bool
	}{
		{name: "no rules", price: 50, peak: 100},
		{name: "stop loss", risk: dto.RiskManagement{StopLossPct: 5}, price: 95, peak: 100, wantReason: model.ExitStopLoss, wantHit: true},
		{name: "above stop loss", risk: dto.RiskManagement{StopLossPct: 5}, price: 96, peak: 100},
		{name: "take profit", risk: dto.RiskManagement{TakeProfitPct: 10}, price: 110, peak: 110, wantReason: model.ExitTakeProfit, wantHit: true},
		{name: "trailing stop", risk: dto.RiskManagement{TrailingStopPct: 10}, price: 108, peak: 120, wantReason: model.ExitTrailingStop, wantHit: true},
		{name: "trailing stop not reached", risk: dto.RiskManagement{TrailingStopPct: 10}, price: 109, peak: 120},
		{
			name:       "stop loss wins over trailing stop",
			risk:       dto.RiskManagement{StopLossPct: 5, TrailingStopPct: 1},
			price:      90,
			peak:       100,
			wantReason: model.ExitStopLoss,
			wantHit:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, hit := riskExit(tt.risk, lot, tt.price, tt.peak)
			assert.Equal(t, tt.wantHit, hit)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

func TestFeeAmount(t *testing.T) {
	assert.InDelta(t, 1.0, feeAmount(10, 100, 10), 1e-12)
	assert.Zero(t, feeAmount(10, 100, 0))
}
