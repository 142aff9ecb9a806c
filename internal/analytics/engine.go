package analytics

import (
	"fmt"
	"time"

	"golang-backtest/internal/dto"
	"golang-backtest/internal/metrics"
	"golang-backtest/internal/model"
	"golang-backtest/pkg/logger"
)

const (
	DefaultRiskFreeRate       = 0.02
	DefaultRollingWindow      = 30
	DefaultHistogramBins      = 50
	DefaultTradingDaysPerYear = 252
)

type Options struct {
	RiskFreeRate       float64
	RollingWindow      int
	HistogramBins      int
	TradingDaysPerYear int
}

func (o Options) withDefaults() Options {
	if o.RollingWindow <= 0 {
		o.RollingWindow = DefaultRollingWindow
	}
	if o.HistogramBins <= 0 {
		o.HistogramBins = DefaultHistogramBins
	}
	if o.TradingDaysPerYear <= 0 {
		o.TradingDaysPerYear = DefaultTradingDaysPerYear
	}
	return o
}

func DefaultOptions() Options {
	return Options{
		RiskFreeRate:       DefaultRiskFreeRate,
		RollingWindow:      DefaultRollingWindow,
		HistogramBins:      DefaultHistogramBins,
		TradingDaysPerYear: DefaultTradingDaysPerYear,
	}
}

// Benchmark is the reference series a result is compared against.
type Benchmark struct {
	Symbol string
	Bars   []model.Bar
}

// Engine turns completed backtest results into analytics. It holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	log  *logger.Logger
	opts Options
	now  func() time.Time
}

func NewEngine(log *logger.Logger, opts Options) *Engine {
	if log == nil {
		log = logger.NewNop()
	}
	return &Engine{log: log, opts: opts.withDefaults(), now: time.Now}
}

func (e *Engine) Options() Options {
	return e.opts
}

// ComputeAnalytics builds the full analytics package for result. The benchmark
// comparison is included only when benchmark is non-nil; rolling metrics only when
// includeRolling is set and enough daily returns exist.
func (e *Engine) ComputeAnalytics(result *model.BacktestResult, benchmark *Benchmark, includeRolling bool) (*dto.Analytics, error) {
	if err := requireCompleted(result); err != nil {
		return nil, err
	}

	equity := result.EquityValues()
	returns := metrics.Returns(equity)

	out := &dto.Analytics{
		BacktestID:          result.ID,
		GeneratedAt:         e.now(),
		Core:                coreMetrics(result, equity),
		Trading:             tradingAnalytics(result, equity),
		Risk:                e.riskMetrics(result, returns),
		MonthlyReturns:      e.monthlyReturns(result),
		DrawdownPeriods:     drawdownPeriods(result.Snapshots),
		DailyReturns:        returns,
		TradeReturns:        tradeReturns(result.Trades),
		EquityCurve:         equityCurve(result.Snapshots),
		DrawdownSeries:      drawdownSeries(result.Snapshots, equity),
		ReturnsDistribution: returnsDistribution(returns, e.opts.HistogramBins),
	}
	if includeRolling {
		out.RollingSharpe, out.RollingVolatility, out.RollingReturns = e.rollingMetrics(returns)
	}
	if benchmark != nil {
		cmp, err := e.CompareBenchmark(result, *benchmark)
		if err != nil {
			return nil, err
		}
		out.Benchmark = cmp
	}

	e.log.Debug("Analytics computed",
		logger.StringField("backtest_id", result.ID),
		logger.IntField("daily_returns", len(returns)),
		logger.IntField("drawdown_periods", len(out.DrawdownPeriods)))
	return out, nil
}

func requireCompleted(result *model.BacktestResult) error {
	if result == nil {
		return fmt.Errorf("%w: backtest result is nil", model.ErrData)
	}
	if !result.Succeeded() {
		return fmt.Errorf("%w: backtest %s has status %s", model.ErrData, result.ID, result.Status)
	}
	return nil
}

func tradeReturns(trades []model.Trade) []float64 {
	out := make([]float64, 0, len(trades))
	for _, t := range trades {
		if t.ReturnPct != nil {
			out = append(out, *t.ReturnPct)
		}
	}
	return out
}
