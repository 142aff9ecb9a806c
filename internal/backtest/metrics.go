package backtest

import (
	"math"

	"golang-backtest/internal/metrics"
	"golang-backtest/internal/model"
)

const daysPerYear = 365.25

func computeMetrics(snapshots []model.PortfolioSnapshot, trades []model.Trade, initialCapital float64, opts Options) (model.PerformanceMetrics, model.DrawdownMetrics, model.TradingMetrics) {
	equity := make([]float64, len(snapshots))
	for i, s := range snapshots {
		equity[i] = s.TotalValue
	}
	perf := performanceMetrics(snapshots, equity, initialCapital, opts)
	dd := drawdownMetrics(equity, perf.TotalReturnPct)
	if dd.MaxDrawdownPct != 0 {
		perf.CalmarRatio = perf.AnnualReturnPct / math.Abs(dd.MaxDrawdownPct)
	}
	return perf, dd, tradingMetrics(model.ClosedTrades(trades))
}

func performanceMetrics(snapshots []model.PortfolioSnapshot, equity []float64, initialCapital float64, opts Options) model.PerformanceMetrics {
	perf := model.PerformanceMetrics{
		InitialCapital: initialCapital,
		EndingCapital:  initialCapital,
	}
	if len(equity) == 0 || initialCapital <= 0 {
		return perf
	}
	ending := equity[len(equity)-1]
	perf.EndingCapital = ending
	perf.TotalReturnPct = (ending - initialCapital) / initialCapital * 100

	periods := float64(opts.TradingDaysPerYear)
	returns := metrics.Returns(equity)
	mean := metrics.Mean(returns)
	perf.DailyReturnPct = mean * 100
	perf.MonthlyReturnPct = mean * periods / 12 * 100
	perf.AnnualReturnPct = mean * periods * 100
	perf.VolatilityAnnual = metrics.StdDev(returns) * math.Sqrt(periods) * 100
	perf.DownsideDeviation = metrics.DownsideDeviation(returns, opts.RiskFreeRate, opts.TradingDaysPerYear) * 100
	perf.SharpeRatio = metrics.Sharpe(returns, opts.RiskFreeRate, opts.TradingDaysPerYear)
	perf.SortinoRatio = metrics.Sortino(returns, opts.RiskFreeRate, opts.TradingDaysPerYear)

	years := snapshots[len(snapshots)-1].Timestamp.Sub(snapshots[0].Timestamp).Hours() / 24 / daysPerYear
	if years > 0 && ending > 0 {
		perf.CAGRPct = (math.Pow(ending/initialCapital, 1/years) - 1) * 100
	}
	return perf
}

func drawdownMetrics(equity []float64, totalReturnPct float64) model.DrawdownMetrics {
	dd := model.DrawdownMetrics{
		MaxDrawdownPct: metrics.MaxDrawdown(equity),
		UlcerIndex:     metrics.UlcerIndex(equity),
	}
	segments := metrics.Segments(equity)
	if len(segments) > 0 {
		depth, bars := 0.0, 0
		for _, s := range segments {
			dd.MaxDrawdownDuration = max(dd.MaxDrawdownDuration, s.Bars())
			depth += s.DepthPct()
			bars += s.Bars()
		}
		n := float64(len(segments))
		dd.AvgDrawdownPct = -depth / n
		dd.AvgDrawdownDuration = float64(bars) / n
		dd.DrawdownFrequency = n / float64(len(equity)) * 100
	}
	if dd.MaxDrawdownPct != 0 {
		dd.RecoveryFactor = math.Abs(totalReturnPct / dd.MaxDrawdownPct)
	}
	return dd
}

func tradingMetrics(closed []model.Trade) model.TradingMetrics {
	tm := model.TradingMetrics{TotalTrades: len(closed)}
	if len(closed) == 0 {
		return tm
	}

	var (
		winPnL, lossPnL               float64
		winReturn, lossReturn         float64
		allHours, winHours, lossHours float64
		consecWins, consecLosses      int
	)
	tm.BestTradeReturnPct = math.Inf(-1)
	tm.WorstTradeReturnPct = math.Inf(1)

	for _, t := range closed {
		net := t.Net()
		hours := t.Duration.Hours()
		tm.TotalPnL += net
		allHours += hours
		tm.BestTradeReturnPct = math.Max(tm.BestTradeReturnPct, t.Return())
		tm.WorstTradeReturnPct = math.Min(tm.WorstTradeReturnPct, t.Return())

		if net > 0 {
			tm.WinningTrades++
			winPnL += net
			winReturn += t.Return()
			winHours += hours
			tm.LargestWin = math.Max(tm.LargestWin, net)
			consecWins++
			consecLosses = 0
		} else {
			tm.LosingTrades++
			lossPnL += net
			lossReturn += t.Return()
			lossHours += hours
			tm.LargestLoss = math.Min(tm.LargestLoss, net)
			consecLosses++
			consecWins = 0
		}
		tm.MaxConsecutiveWins = max(tm.MaxConsecutiveWins, consecWins)
		tm.MaxConsecutiveLosses = max(tm.MaxConsecutiveLosses, consecLosses)
	}

	tm.WinRatePct = float64(tm.WinningTrades) / float64(tm.TotalTrades) * 100
	tm.AvgTradeDuration = allHours / float64(tm.TotalTrades)
	if tm.WinningTrades > 0 {
		w := float64(tm.WinningTrades)
		tm.AvgWin = winPnL / w
		tm.AvgWinReturnPct = winReturn / w
		tm.AvgWinningDuration = winHours / w
	}
	if tm.LosingTrades > 0 {
		l := float64(tm.LosingTrades)
		tm.AvgLoss = lossPnL / l
		tm.AvgLossReturnPct = lossReturn / l
		tm.AvgLosingDuration = lossHours / l
	}
	if lossPnL < 0 {
		tm.ProfitFactor = winPnL / math.Abs(lossPnL)
	}
	return tm
}
