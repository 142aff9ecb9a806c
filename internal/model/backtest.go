package model

import "time"

type BacktestStatus string

const (
	StatusCompleted BacktestStatus = "completed"
	StatusFailed    BacktestStatus = "failed"
	StatusCancelled BacktestStatus = "cancelled"
)

type PerformanceMetrics struct {
	InitialCapital    float64 `json:"initial_capital"`
	EndingCapital     float64 `json:"ending_capital"`
	TotalReturnPct    float64 `json:"total_return_pct"`
	AnnualReturnPct   float64 `json:"annual_return_pct"`
	CAGRPct           float64 `json:"cagr_pct"`
	MonthlyReturnPct  float64 `json:"monthly_return_pct"`
	DailyReturnPct    float64 `json:"daily_return_pct"`
	VolatilityAnnual  float64 `json:"volatility_annual"`
	DownsideDeviation float64 `json:"downside_deviation"`
	SharpeRatio       float64 `json:"sharpe_ratio"`
	SortinoRatio      float64 `json:"sortino_ratio"`
	CalmarRatio       float64 `json:"calmar_ratio"`
}

// DrawdownMetrics are expressed in percent; MaxDrawdownPct is the minimum of the
// drawdown series and therefore zero or negative.
type DrawdownMetrics struct {
	MaxDrawdownPct      float64 `json:"max_drawdown_pct"`
	MaxDrawdownDuration int     `json:"max_drawdown_duration"`
	AvgDrawdownPct      float64 `json:"avg_drawdown_pct"`
	AvgDrawdownDuration float64 `json:"avg_drawdown_duration"`
	DrawdownFrequency   float64 `json:"drawdown_frequency"`
	RecoveryFactor      float64 `json:"recovery_factor"`
	UlcerIndex          float64 `json:"ulcer_index"`
}

type TradingMetrics struct {
	TotalTrades          int     `json:"total_trades"`
	WinningTrades        int     `json:"winning_trades"`
	LosingTrades         int     `json:"losing_trades"`
	WinRatePct           float64 `json:"win_rate_pct"`
	TotalPnL             float64 `json:"total_pnl"`
	ProfitFactor         float64 `json:"profit_factor"`
	AvgWin               float64 `json:"avg_win"`
	AvgLoss              float64 `json:"avg_loss"`
	LargestWin           float64 `json:"largest_win"`
	LargestLoss          float64 `json:"largest_loss"`
	BestTradeReturnPct   float64 `json:"best_trade_return_pct"`
	WorstTradeReturnPct  float64 `json:"worst_trade_return_pct"`
	AvgWinReturnPct      float64 `json:"avg_win_return_pct"`
	AvgLossReturnPct     float64 `json:"avg_loss_return_pct"`
	MaxConsecutiveWins   int     `json:"max_consecutive_wins"`
	MaxConsecutiveLosses int     `json:"max_consecutive_losses"`
	AvgTradeDuration     float64 `json:"avg_trade_duration_hours"`
	AvgWinningDuration   float64 `json:"avg_winning_duration_hours"`
	AvgLosingDuration    float64 `json:"avg_losing_duration_hours"`
}

// BacktestResult is the terminal aggregate of a run. Failed and cancelled runs carry
// an error message, zero metrics and no trades or snapshots.
type BacktestResult struct {
	ID             string              `json:"id"`
	StrategyName   string              `json:"strategy_name"`
	Symbol         string              `json:"symbol"`
	Status         BacktestStatus      `json:"status"`
	ErrorMessage   string              `json:"error_message,omitempty"`
	StartDate      time.Time           `json:"start_date"`
	EndDate        time.Time           `json:"end_date"`
	InitialCapital float64             `json:"initial_capital"`
	Performance    PerformanceMetrics  `json:"performance"`
	Drawdown       DrawdownMetrics     `json:"drawdown"`
	Trading        TradingMetrics      `json:"trading"`
	Trades         []Trade             `json:"trades"`
	Snapshots      []PortfolioSnapshot `json:"snapshots"`
	Warnings       []string            `json:"warnings,omitempty"`
	ExecutionTime  time.Duration       `json:"execution_time"`
	CreatedAt      time.Time           `json:"created_at"`
}

func (r *BacktestResult) Succeeded() bool {
	return r != nil && r.Status == StatusCompleted
}

// EquityValues returns the total value of every snapshot in order.
func (r *BacktestResult) EquityValues() []float64 {
	values := make([]float64, len(r.Snapshots))
	for i, s := range r.Snapshots {
		values[i] = s.TotalValue
	}
	return values
}
