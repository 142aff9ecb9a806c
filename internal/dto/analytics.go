package dto

import "time"

type CoreMetrics struct {
	PnLPercent         float64 `json:"pnl_percent"`
	PnLDollars         float64 `json:"pnl_dollars"`
	CAGRPercent        float64 `json:"cagr_percent"`
	AnnualReturn       float64 `json:"annual_return_percent"`
	SharpeRatio        float64 `json:"sharpe_ratio"`
	SortinoRatio       float64 `json:"sortino_ratio"`
	CalmarRatio        float64 `json:"calmar_ratio"`
	MaxDrawdownPercent float64 `json:"max_drawdown_percent"`
	MaxDrawdownDollars float64 `json:"max_drawdown_dollars"`
	VolatilityPercent  float64 `json:"volatility_percent"`
}

type TradingAnalytics struct {
	TotalTrades          int     `json:"total_trades"`
	WinRatePercent       float64 `json:"win_rate_percent"`
	ProfitFactor         float64 `json:"profit_factor"`
	AvgWinPercent        float64 `json:"avg_win_percent"`
	AvgLossPercent       float64 `json:"avg_loss_percent"`
	LargestWinPercent    float64 `json:"largest_win_percent"`
	LargestLossPercent   float64 `json:"largest_loss_percent"`
	AvgTradeDuration     float64 `json:"avg_trade_duration_hours"`
	Expectancy           float64 `json:"expectancy"`
	UlcerIndex           float64 `json:"ulcer_index"`
	RecoveryFactor       float64 `json:"recovery_factor"`
	MaxConsecutiveWins   int     `json:"max_consecutive_wins"`
	MaxConsecutiveLosses int     `json:"max_consecutive_losses"`
}

// RiskMetrics values derived from returns are in percent.
type RiskMetrics struct {
	ValueAtRisk95        float64 `json:"value_at_risk_95"`
	ValueAtRisk99        float64 `json:"value_at_risk_99"`
	ConditionalVaR95     float64 `json:"conditional_var_95"`
	ConditionalVaR99     float64 `json:"conditional_var_99"`
	OmegaRatio           float64 `json:"omega_ratio"`
	Kappa3               float64 `json:"kappa_3"`
	GainPainRatio        float64 `json:"gain_pain_ratio"`
	SterlingRatio        float64 `json:"sterling_ratio"`
	DownsideDeviation    float64 `json:"downside_deviation"`
	MaxConsecutiveLosses int     `json:"max_consecutive_losses"`
}

type DrawdownPeriod struct {
	StartDate    time.Time  `json:"start_date"`
	EndDate      time.Time  `json:"end_date"`
	StartIndex   int        `json:"start_index"`
	EndIndex     int        `json:"end_index"`
	Bars         int        `json:"bars"`
	PeakValue    float64    `json:"peak_value"`
	TroughValue  float64    `json:"trough_value"`
	TroughDate   time.Time  `json:"trough_date"`
	DrawdownPct  float64    `json:"drawdown_percent"`
	DurationDays float64    `json:"duration_days"`
	RecoveryDays *float64   `json:"recovery_days,omitempty"`
	RecoveryDate *time.Time `json:"recovery_date,omitempty"`
}

type MonthlyReturn struct {
	Year              int     `json:"year"`
	Month             int     `json:"month"`
	ReturnPercent     float64 `json:"return_percent"`
	TradesCount       int     `json:"trades_count"`
	DrawdownPercent   float64 `json:"drawdown_percent"`
	VolatilityPercent float64 `json:"volatility_percent"`
}

type EquityPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
	ReturnPct float64   `json:"return_pct"`
}

type DrawdownPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Drawdown  float64   `json:"drawdown"`
}

type HistogramBin struct {
	Start     float64 `json:"bin_start"`
	End       float64 `json:"bin_end"`
	Count     int     `json:"count"`
	Frequency float64 `json:"frequency"`
}

type RelativePerformancePoint struct {
	Timestamp       time.Time `json:"timestamp"`
	StrategyReturn  float64   `json:"strategy_return"`
	BenchmarkReturn float64   `json:"benchmark_return"`
	RelativeReturn  float64   `json:"relative_return"`
}

type BenchmarkComparison struct {
	BenchmarkSymbol      string                     `json:"benchmark_symbol"`
	StrategyReturn       float64                    `json:"strategy_return"`
	BenchmarkReturn      float64                    `json:"benchmark_return"`
	ExcessReturn         float64                    `json:"excess_return"`
	Alpha                float64                    `json:"alpha"`
	Beta                 float64                    `json:"beta"`
	Correlation          float64                    `json:"correlation"`
	TrackingError        float64                    `json:"tracking_error"`
	InformationRatio     float64                    `json:"information_ratio"`
	StrategyMaxDrawdown  float64                    `json:"strategy_max_drawdown"`
	BenchmarkMaxDrawdown float64                    `json:"benchmark_max_drawdown"`
	AlignedSamples       int                        `json:"aligned_samples"`
	BenchmarkEquityCurve []EquityPoint              `json:"benchmark_equity_curve"`
	RelativePerformance  []RelativePerformancePoint `json:"relative_performance"`
}

// Analytics is the complete post-run package for a single backtest.
type Analytics struct {
	BacktestID          string               `json:"backtest_id"`
	GeneratedAt         time.Time            `json:"generated_at"`
	Core                CoreMetrics          `json:"core_metrics"`
	Trading             TradingAnalytics     `json:"trading_metrics"`
	Risk                RiskMetrics          `json:"risk_metrics"`
	MonthlyReturns      []MonthlyReturn      `json:"monthly_returns"`
	DrawdownPeriods     []DrawdownPeriod     `json:"drawdown_periods"`
	DailyReturns        []float64            `json:"daily_returns"`
	TradeReturns        []float64            `json:"trade_returns"`
	RollingSharpe       []float64            `json:"rolling_sharpe,omitempty"`
	RollingVolatility   []float64            `json:"rolling_volatility,omitempty"`
	RollingReturns      []float64            `json:"rolling_returns,omitempty"`
	EquityCurve         []EquityPoint        `json:"equity_curve"`
	DrawdownSeries      []DrawdownPoint      `json:"drawdown_chart"`
	ReturnsDistribution []HistogramBin       `json:"returns_distribution"`
	Benchmark           *BenchmarkComparison `json:"benchmark_comparison,omitempty"`
}

type StrategyComparison struct {
	BacktestID   string  `json:"backtest_id"`
	StrategyName string  `json:"strategy_name"`
	TotalReturn  float64 `json:"total_return"`
	CAGR         float64 `json:"cagr"`
	SharpeRatio  float64 `json:"sharpe_ratio"`
	SortinoRatio float64 `json:"sortino_ratio"`
	CalmarRatio  float64 `json:"calmar_ratio"`
	MaxDrawdown  float64 `json:"max_drawdown"`
	Volatility   float64 `json:"volatility"`
	TotalTrades  int     `json:"total_trades"`
	WinRate      float64 `json:"win_rate"`
	RankReturn   int     `json:"rank_return"`
	RankSharpe   int     `json:"rank_sharpe"`
	RankDrawdown int     `json:"rank_drawdown"`
}

type FrontierPoint struct {
	BacktestID   string  `json:"backtest_id"`
	StrategyName string  `json:"strategy_name"`
	Risk         float64 `json:"risk"`
	Return       float64 `json:"return"`
	Sharpe       float64 `json:"sharpe"`
}

// MultiStrategyAnalysis correlation matrix is keyed by backtest ID on both axes.
type MultiStrategyAnalysis struct {
	ComparisonID           string                        `json:"comparison_id"`
	GeneratedAt            time.Time                     `json:"generated_at"`
	Strategies             []StrategyComparison          `json:"strategies"`
	BestReturnStrategy     string                        `json:"best_return_strategy"`
	BestSharpeStrategy     string                        `json:"best_sharpe_strategy"`
	LowestDrawdownStrategy string                        `json:"lowest_drawdown_strategy"`
	CorrelationMatrix      map[string]map[string]float64 `json:"correlation_matrix"`
	EfficientFrontier      []FrontierPoint               `json:"efficient_frontier"`
}
