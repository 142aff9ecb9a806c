package analytics

import (
	"golang-backtest/internal/dto"
	"golang-backtest/internal/metrics"
	"golang-backtest/internal/model"
)

func equityCurve(snaps []model.PortfolioSnapshot) []dto.EquityPoint {
	out := make([]dto.EquityPoint, len(snaps))
	for i, s := range snaps {
		out[i] = dto.EquityPoint{Timestamp: s.Timestamp, Value: s.TotalValue, ReturnPct: s.ReturnPct}
	}
	return out
}

func drawdownSeries(snaps []model.PortfolioSnapshot, equity []float64) []dto.DrawdownPoint {
	dd := metrics.Drawdowns(equity)
	out := make([]dto.DrawdownPoint, len(snaps))
	for i, s := range snaps {
		out[i] = dto.DrawdownPoint{Timestamp: s.Timestamp, Drawdown: dd[i]}
	}
	return out
}

func returnsDistribution(returns []float64, bins int) []dto.HistogramBin {
	edges, counts := metrics.Histogram(returns, bins)
	out := make([]dto.HistogramBin, len(counts))
	for i, c := range counts {
		out[i] = dto.HistogramBin{
			Start:     edges[i],
			End:       edges[i+1],
			Count:     int(c),
			Frequency: c / float64(len(returns)),
		}
	}
	return out
}
