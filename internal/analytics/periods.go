package analytics

import (
	"math"
	"time"

	"golang-backtest/internal/dto"
	"golang-backtest/internal/metrics"
	"golang-backtest/internal/model"
	"golang-backtest/pkg/utils"
)

type monthKey struct {
	year  int
	month time.Month
}

func keyOf(t time.Time) monthKey {
	t = t.UTC()
	return monthKey{year: t.Year(), month: t.Month()}
}

// monthlyReturns groups snapshots by calendar month (UTC). Each month is measured
// from the last value of the previous month; the first month from the first snapshot.
func (e *Engine) monthlyReturns(result *model.BacktestResult) []dto.MonthlyReturn {
	snaps := result.Snapshots
	if len(snaps) == 0 {
		return []dto.MonthlyReturn{}
	}

	trades := make(map[monthKey]int)
	for _, t := range result.Trades {
		trades[keyOf(t.EntryTime)]++
	}

	var out []dto.MonthlyReturn
	base := snaps[0].TotalValue
	var values []float64
	cur := keyOf(snaps[0].Timestamp)

	flush := func() {
		last := values[len(values)-1]
		m := dto.MonthlyReturn{
			Year:            cur.year,
			Month:           int(cur.month),
			TradesCount:     trades[cur],
			DrawdownPercent: metrics.MaxDrawdown(values),
		}
		if base > 0 {
			m.ReturnPercent = (last - base) / base * 100
		}
		m.VolatilityPercent = metrics.StdDev(metrics.Returns(values)) * math.Sqrt(float64(e.opts.TradingDaysPerYear)) * 100
		out = append(out, m)
		base = last
		values = []float64{last}
	}

	for _, s := range snaps {
		if k := keyOf(s.Timestamp); k != cur {
			flush()
			cur = k
		}
		values = append(values, s.TotalValue)
	}
	flush()
	return out
}

// drawdownPeriods describes every underwater run of the equity curve. Durations
// are calendar days; recovery is measured from the end of the run to the first
// snapshot above the prior peak.
func drawdownPeriods(snaps []model.PortfolioSnapshot) []dto.DrawdownPeriod {
	equity := make([]float64, len(snaps))
	for i, s := range snaps {
		equity[i] = s.TotalValue
	}

	segments := metrics.Segments(equity)
	out := make([]dto.DrawdownPeriod, 0, len(segments))
	for _, seg := range segments {
		start, end := snaps[seg.Start].Timestamp, snaps[seg.End].Timestamp
		p := dto.DrawdownPeriod{
			StartDate:    start,
			EndDate:      end,
			StartIndex:   seg.Start,
			EndIndex:     seg.End,
			Bars:         seg.Bars(),
			PeakValue:    seg.PeakValue,
			TroughValue:  seg.TroughValue,
			TroughDate:   snaps[seg.TroughIndex].Timestamp,
			DrawdownPct:  seg.DepthPct(),
			DurationDays: days(end.Sub(start)),
		}
		if seg.Recovered() {
			recovered := snaps[seg.RecoveryIndex].Timestamp
			p.RecoveryDate = utils.ToPointer(recovered)
			p.RecoveryDays = utils.ToPointer(days(recovered.Sub(end)))
		}
		out = append(out, p)
	}
	return out
}

func days(d time.Duration) float64 {
	return d.Hours() / 24
}

// rollingMetrics slides a window over the daily returns. The i-th value covers
// the window ending at return window-1+i. Nothing is produced for short series.
func (e *Engine) rollingMetrics(returns []float64) (sharpe, volatility, annualReturn []float64) {
	w := e.opts.RollingWindow
	if len(returns) < w {
		return nil, nil, nil
	}
	periods := float64(e.opts.TradingDaysPerYear)
	n := len(returns) - w + 1
	sharpe = make([]float64, n)
	volatility = make([]float64, n)
	annualReturn = make([]float64, n)

	for i := 0; i < n; i++ {
		window := returns[i : i+w]
		ret := metrics.Mean(window) * periods
		vol := metrics.StdDev(window) * math.Sqrt(periods)
		annualReturn[i] = ret
		volatility[i] = vol
		if vol > 0 {
			sharpe[i] = (ret - e.opts.RiskFreeRate) / vol
		}
	}
	return sharpe, volatility, annualReturn
}
