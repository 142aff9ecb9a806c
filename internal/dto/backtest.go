package dto

import "golang-backtest/internal/model"

// BacktestRequest mendefinisikan parameter untuk menjalankan sebuah backtest.
// Bars must already be validated and ordered by the caller.
type BacktestRequest struct {
	Strategy       StrategyConfig `json:"strategy" validate:"required"`
	Bars           []model.Bar    `json:"bars" validate:"required,min=1"`
	InitialCapital float64        `json:"initial_capital" validate:"omitempty,gt=0"`
}

type BatchBacktestRequest struct {
	Requests []BacktestRequest `json:"requests" validate:"required,min=1,dive"`
}

type AnalyticsRequest struct {
	BenchmarkSymbol string      `json:"benchmark_symbol,omitempty"`
	BenchmarkBars   []model.Bar `json:"benchmark_bars,omitempty"`
	IncludeRolling  bool        `json:"include_rolling"`
}

type BenchmarkRequest struct {
	BenchmarkSymbol string      `json:"benchmark_symbol,omitempty"`
	BenchmarkBars   []model.Bar `json:"benchmark_bars" validate:"required,min=2"`
}

type CompareRequest struct {
	BacktestIDs []string `json:"backtest_ids" validate:"required,min=2"`
}

// BacktestSummary is the compact view returned for batch runs.
type BacktestSummary struct {
	ID             string               `json:"id"`
	StrategyName   string               `json:"strategy_name"`
	Status         model.BacktestStatus `json:"status"`
	ErrorMessage   string               `json:"error_message,omitempty"`
	TotalReturnPct float64              `json:"total_return_pct"`
	SharpeRatio    float64              `json:"sharpe_ratio"`
	MaxDrawdownPct float64              `json:"max_drawdown_pct"`
	TotalTrades    int                  `json:"total_trades"`
}

func NewBacktestSummary(r *model.BacktestResult) BacktestSummary {
	return BacktestSummary{
		ID:             r.ID,
		StrategyName:   r.StrategyName,
		Status:         r.Status,
		ErrorMessage:   r.ErrorMessage,
		TotalReturnPct: r.Performance.TotalReturnPct,
		SharpeRatio:    r.Performance.SharpeRatio,
		MaxDrawdownPct: r.Drawdown.MaxDrawdownPct,
		TotalTrades:    r.Trading.TotalTrades,
	}
}
