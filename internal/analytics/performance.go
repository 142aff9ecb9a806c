package analytics

import (
	"math"

	"golang-backtest/internal/dto"
	"golang-backtest/internal/metrics"
	"golang-backtest/internal/model"
)

func coreMetrics(result *model.BacktestResult, equity []float64) dto.CoreMetrics {
	perf := result.Performance
	return dto.CoreMetrics{
		PnLPercent:         perf.TotalReturnPct,
		PnLDollars:         perf.EndingCapital - perf.InitialCapital,
		CAGRPercent:        perf.CAGRPct,
		AnnualReturn:       perf.AnnualReturnPct,
		SharpeRatio:        perf.SharpeRatio,
		SortinoRatio:       perf.SortinoRatio,
		CalmarRatio:        perf.CalmarRatio,
		MaxDrawdownPercent: result.Drawdown.MaxDrawdownPct,
		MaxDrawdownDollars: metrics.MaxDrawdownAmount(equity),
		VolatilityPercent:  perf.VolatilityAnnual,
	}
}

func tradingAnalytics(result *model.BacktestResult, equity []float64) dto.TradingAnalytics {
	tm := result.Trading
	out := dto.TradingAnalytics{
		TotalTrades:        tm.TotalTrades,
		WinRatePercent:     tm.WinRatePct,
		ProfitFactor:       tm.ProfitFactor,
		AvgWinPercent:      tm.AvgWinReturnPct,
		AvgLossPercent:     tm.AvgLossReturnPct,
		LargestWinPercent:  tm.BestTradeReturnPct,
		LargestLossPercent: tm.WorstTradeReturnPct,
		AvgTradeDuration:   tm.AvgTradeDuration,
	}
	closed := tradeReturns(model.ClosedTrades(result.Trades))
	if len(closed) == 0 {
		return out
	}
	out.Expectancy = metrics.Mean(closed)
	out.UlcerIndex = metrics.UlcerIndex(equity)
	out.RecoveryFactor = result.Drawdown.RecoveryFactor
	out.MaxConsecutiveWins = tm.MaxConsecutiveWins
	out.MaxConsecutiveLosses = tm.MaxConsecutiveLosses
	return out
}

// riskMetrics needs at least two daily returns; otherwise only the trade streak is set.
func (e *Engine) riskMetrics(result *model.BacktestResult, returns []float64) dto.RiskMetrics {
	out := dto.RiskMetrics{MaxConsecutiveLosses: result.Trading.MaxConsecutiveLosses}
	if len(returns) < 2 {
		return out
	}

	out.ValueAtRisk95, out.ConditionalVaR95 = valueAtRisk(returns, 5)
	out.ValueAtRisk99, out.ConditionalVaR99 = valueAtRisk(returns, 1)

	var gains, losses, negatives []float64
	for _, r := range returns {
		if r > 0 {
			gains = append(gains, r)
		} else {
			losses = append(losses, r)
		}
		if r < 0 {
			negatives = append(negatives, r)
		}
	}

	if len(gains) > 0 && len(losses) > 0 {
		if avgLoss := math.Abs(metrics.Mean(losses)); avgLoss > 0 {
			out.OmegaRatio = metrics.Mean(gains) / avgLoss
		}
	}
	out.Kappa3 = metrics.Skewness(returns)

	pain := 1.0
	if len(losses) > 0 {
		pain = math.Abs(metrics.Sum(losses))
	}
	if pain > 0 {
		out.GainPainRatio = metrics.Sum(gains) / pain
	}

	if dd := result.Drawdown.MaxDrawdownPct; dd != 0 {
		out.SterlingRatio = result.Performance.CAGRPct / math.Abs(dd)
	}
	out.DownsideDeviation = metrics.PopStdDev(negatives) * math.Sqrt(float64(e.opts.TradingDaysPerYear)) * 100
	return out
}

// valueAtRisk returns the p-th percentile of returns and the mean of the tail at or
// below it, both in percent.
func valueAtRisk(returns []float64, p float64) (float64, float64) {
	cutoff := metrics.Percentile(returns, p)
	var tail []float64
	for _, r := range returns {
		if r <= cutoff {
			tail = append(tail, r)
		}
	}
	return cutoff * 100, metrics.Mean(tail) * 100
}
