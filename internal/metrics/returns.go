// Package metrics holds the return-series statistics shared by the backtest engine
// and the analytics engine.
package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Returns is the simple percent change between consecutive values, as fractions.
// Steps starting from a non-positive value are skipped.
func Returns(values []float64) []float64 {
	if len(values) < 2 {
		return []float64{}
	}
	out := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] <= 0 {
			continue
		}
		out = append(out, (values[i]-values[i-1])/values[i-1])
	}
	return out
}

func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return stat.Mean(x, nil)
}

// StdDev is the sample standard deviation; fewer than two samples yield 0.
func StdDev(x []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	return stat.StdDev(x, nil)
}

// PopStdDev is the population standard deviation; an empty sample yields 0.
func PopStdDev(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return stat.PopStdDev(x, nil)
}

func Sum(x []float64) float64 {
	return floats.Sum(x)
}

// Percentile uses linear interpolation between closest ranks, p in [0, 100].
func Percentile(x []float64, p float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sorted := make([]float64, len(x))
	copy(sorted, x)
	sort.Float64s(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo < 0 {
		lo = 0
	}
	if hi >= len(sorted) {
		hi = len(sorted) - 1
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Skewness is the biased (population) third standardized moment.
func Skewness(x []float64) float64 {
	if len(x) < 3 {
		return 0
	}
	m2 := stat.Moment(2, x, nil)
	if m2 == 0 {
		return 0
	}
	return stat.Moment(3, x, nil) / math.Pow(m2, 1.5)
}

// Correlation is the Pearson correlation of the first min(len(a), len(b)) samples.
// Undefined correlations (too few samples, zero variance) are 0.
func Correlation(a, b []float64) float64 {
	n := min(len(a), len(b))
	if n < 2 {
		return 0
	}
	c := stat.Correlation(a[:n], b[:n], nil)
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return 0
	}
	return c
}

// Sharpe annualizes the mean and sample deviation of periodic returns and compares
// the annual return against the annual risk-free rate.
func Sharpe(returns []float64, riskFree float64, periodsPerYear int) float64 {
	std := StdDev(returns)
	if std == 0 {
		return 0
	}
	annual := Mean(returns) * float64(periodsPerYear)
	return (annual - riskFree) / (std * math.Sqrt(float64(periodsPerYear)))
}

// DownsideDeviation is the annualized sample deviation of the returns whose excess
// over the per-period risk-free rate is negative.
func DownsideDeviation(returns []float64, riskFree float64, periodsPerYear int) float64 {
	perPeriod := riskFree / float64(periodsPerYear)
	var downside []float64
	for _, r := range returns {
		if excess := r - perPeriod; excess < 0 {
			downside = append(downside, excess)
		}
	}
	return StdDev(downside) * math.Sqrt(float64(periodsPerYear))
}

func Sortino(returns []float64, riskFree float64, periodsPerYear int) float64 {
	dd := DownsideDeviation(returns, riskFree, periodsPerYear)
	if dd == 0 {
		return 0
	}
	return (Mean(returns)*float64(periodsPerYear) - riskFree) / dd
}

// Histogram splits [min(x), max(x)] into bins equal-width bins. The last bin is
// closed so the maximum is counted. A constant sample is centered in a unit range.
func Histogram(x []float64, bins int) (edges, counts []float64) {
	if len(x) == 0 || bins < 1 {
		return nil, nil
	}
	sorted := make([]float64, len(x))
	copy(sorted, x)
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	edges = floats.Span(make([]float64, bins+1), lo, hi)
	dividers := make([]float64, len(edges))
	copy(dividers, edges)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	counts = stat.Histogram(nil, dividers, sorted, nil)
	return edges, counts
}
