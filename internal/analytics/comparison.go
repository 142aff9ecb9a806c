package analytics

import (
	"fmt"
	"math"
	"sort"

	"golang-backtest/internal/dto"
	"golang-backtest/internal/metrics"
	"golang-backtest/internal/model"
	"golang-backtest/pkg/logger"

	"github.com/google/uuid"
)

// CompareStrategies ranks two or more completed results against each other.
// Best performers and the correlation matrix are keyed by backtest ID.
func (e *Engine) CompareStrategies(results []*model.BacktestResult) (*dto.MultiStrategyAnalysis, error) {
	if len(results) < 2 {
		return nil, fmt.Errorf("%w: at least 2 strategies required for comparison, got %d", model.ErrComparison, len(results))
	}
	seen := make(map[string]struct{}, len(results))
	for _, r := range results {
		if err := requireCompleted(r); err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrComparison, err)
		}
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("%w: backtest %s listed more than once", model.ErrComparison, r.ID)
		}
		seen[r.ID] = struct{}{}
	}

	strategies := make([]dto.StrategyComparison, len(results))
	for i, r := range results {
		strategies[i] = dto.StrategyComparison{
			BacktestID:   r.ID,
			StrategyName: r.StrategyName,
			TotalReturn:  r.Performance.TotalReturnPct,
			CAGR:         r.Performance.CAGRPct,
			SharpeRatio:  r.Performance.SharpeRatio,
			SortinoRatio: r.Performance.SortinoRatio,
			CalmarRatio:  r.Performance.CalmarRatio,
			MaxDrawdown:  r.Drawdown.MaxDrawdownPct,
			Volatility:   r.Performance.VolatilityAnnual,
			TotalTrades:  r.Trading.TotalTrades,
			WinRate:      r.Trading.WinRatePct,
		}
	}

	byReturn := rank(strategies, func(a, b dto.StrategyComparison) bool { return a.TotalReturn > b.TotalReturn })
	bySharpe := rank(strategies, func(a, b dto.StrategyComparison) bool { return a.SharpeRatio > b.SharpeRatio })
	byDrawdown := rank(strategies, func(a, b dto.StrategyComparison) bool {
		return math.Abs(a.MaxDrawdown) < math.Abs(b.MaxDrawdown)
	})
	for i := range strategies {
		strategies[i].RankReturn = byReturn[i]
		strategies[i].RankSharpe = bySharpe[i]
		strategies[i].RankDrawdown = byDrawdown[i]
	}

	out := &dto.MultiStrategyAnalysis{
		ComparisonID:      uuid.NewString(),
		GeneratedAt:       e.now(),
		Strategies:        strategies,
		CorrelationMatrix: correlationMatrix(results),
		EfficientFrontier: efficientFrontier(strategies),
	}
	for _, s := range strategies {
		if s.RankReturn == 1 {
			out.BestReturnStrategy = s.BacktestID
		}
		if s.RankSharpe == 1 {
			out.BestSharpeStrategy = s.BacktestID
		}
		if s.RankDrawdown == 1 {
			out.LowestDrawdownStrategy = s.BacktestID
		}
	}

	e.log.Debug("Strategies compared",
		logger.StringField("comparison_id", out.ComparisonID),
		logger.IntField("strategies", len(strategies)))
	return out, nil
}

// rank returns the 1-indexed position of every element under less. Ties keep the
// input order.
func rank(strategies []dto.StrategyComparison, less func(a, b dto.StrategyComparison) bool) []int {
	order := make([]int, len(strategies))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return less(strategies[order[i]], strategies[order[j]])
	})
	ranks := make([]int, len(strategies))
	for pos, idx := range order {
		ranks[idx] = pos + 1
	}
	return ranks
}

// correlationMatrix is symmetric with a unit diagonal. Pairs involving an empty
// return series are 0.
func correlationMatrix(results []*model.BacktestResult) map[string]map[string]float64 {
	returns := make([][]float64, len(results))
	for i, r := range results {
		returns[i] = metrics.Returns(r.EquityValues())
	}

	matrix := make(map[string]map[string]float64, len(results))
	for i, a := range results {
		row := make(map[string]float64, len(results))
		for j, b := range results {
			if i == j {
				row[b.ID] = 1
				continue
			}
			row[b.ID] = metrics.Correlation(returns[i], returns[j])
		}
		matrix[a.ID] = row
	}
	return matrix
}

func efficientFrontier(strategies []dto.StrategyComparison) []dto.FrontierPoint {
	points := make([]dto.FrontierPoint, len(strategies))
	for i, s := range strategies {
		points[i] = dto.FrontierPoint{
			BacktestID:   s.BacktestID,
			StrategyName: s.StrategyName,
			Risk:         s.Volatility,
			Return:       s.TotalReturn,
			Sharpe:       s.SharpeRatio,
		}
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Risk < points[j].Risk })
	return points
}
