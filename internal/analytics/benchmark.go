package analytics

import (
	"fmt"
	"math"

	"golang-backtest/internal/dto"
	"golang-backtest/internal/metrics"
	"golang-backtest/internal/model"

	"gonum.org/v1/gonum/stat"
)

// CompareBenchmark measures result against a benchmark close series. Daily returns
// are aligned by position and truncated to the shorter series.
func (e *Engine) CompareBenchmark(result *model.BacktestResult, benchmark Benchmark) (*dto.BenchmarkComparison, error) {
	if err := requireCompleted(result); err != nil {
		return nil, err
	}
	if len(benchmark.Bars) < 2 {
		return nil, fmt.Errorf("%w: no benchmark data available for %q", model.ErrComparison, benchmark.Symbol)
	}

	closes := make([]float64, len(benchmark.Bars))
	for i, b := range benchmark.Bars {
		closes[i] = b.Close
	}
	if closes[0] <= 0 {
		return nil, fmt.Errorf("%w: benchmark %q starts at a non-positive price", model.ErrComparison, benchmark.Symbol)
	}

	strategyReturns := metrics.Returns(result.EquityValues())
	benchmarkReturns := metrics.Returns(closes)
	n := min(len(strategyReturns), len(benchmarkReturns))
	if n == 0 {
		return nil, fmt.Errorf("%w: no overlapping returns between backtest %s and %q", model.ErrComparison, result.ID, benchmark.Symbol)
	}
	s, b := strategyReturns[:n], benchmarkReturns[:n]

	periods := float64(e.opts.TradingDaysPerYear)
	benchmarkTotal := (closes[len(closes)-1]/closes[0] - 1) * 100
	cmp := &dto.BenchmarkComparison{
		BenchmarkSymbol:      benchmark.Symbol,
		StrategyReturn:       result.Performance.TotalReturnPct,
		BenchmarkReturn:      benchmarkTotal,
		ExcessReturn:         result.Performance.TotalReturnPct - benchmarkTotal,
		Correlation:          metrics.Correlation(s, b),
		StrategyMaxDrawdown:  result.Drawdown.MaxDrawdownPct,
		BenchmarkMaxDrawdown: metrics.MaxDrawdown(closes),
		AlignedSamples:       n,
		BenchmarkEquityCurve: benchmarkEquityCurve(benchmark.Bars, closes),
		RelativePerformance:  relativePerformance(result.Snapshots, closes),
	}

	excess := make([]float64, n)
	for i := range excess {
		excess[i] = s[i] - b[i]
	}
	cmp.TrackingError = metrics.StdDev(excess) * math.Sqrt(periods)
	if cmp.TrackingError > 0 {
		cmp.InformationRatio = metrics.Mean(excess) * periods / cmp.TrackingError
	}

	cmp.Beta, cmp.Alpha = 1, 0
	if n > 1 {
		if variance := stat.Variance(b, nil); variance > 0 {
			rf := e.opts.RiskFreeRate / periods
			cmp.Beta = stat.Covariance(s, b, nil) / variance
			cmp.Alpha = ((metrics.Mean(s) - rf) - cmp.Beta*(metrics.Mean(b)-rf)) * periods
		}
	}
	return cmp, nil
}

// benchmarkEquityCurve rebases the closes to 100.
func benchmarkEquityCurve(bars []model.Bar, closes []float64) []dto.EquityPoint {
	out := make([]dto.EquityPoint, len(bars))
	for i, bar := range bars {
		v := closes[i] / closes[0] * 100
		out[i] = dto.EquityPoint{Timestamp: bar.Timestamp, Value: v, ReturnPct: v - 100}
	}
	return out
}

// relativePerformance pairs the cumulative strategy and benchmark returns index by index.
func relativePerformance(snaps []model.PortfolioSnapshot, closes []float64) []dto.RelativePerformancePoint {
	n := min(len(snaps), len(closes))
	out := make([]dto.RelativePerformancePoint, n)
	for i := 0; i < n; i++ {
		bench := (closes[i]/closes[0] - 1) * 100
		out[i] = dto.RelativePerformancePoint{
			Timestamp:       snaps[i].Timestamp,
			StrategyReturn:  snaps[i].ReturnPct,
			BenchmarkReturn: bench,
			RelativeReturn:  snaps[i].ReturnPct - bench,
		}
	}
	return out
}
