package indicator

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// rollingMean averages the trailing window ending at each index. Windows shorter than
// period at the start of the series use whatever samples are available. Each window
// is summed on its own so a large value never leaks into later windows.
func rollingMean(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		start := max(0, i-period+1)
		out[i] = floats.Sum(values[start:i+1]) / float64(i-start+1)
	}
	return out
}

// rollingStd is the sample standard deviation over the trailing partial window.
// A single-sample window yields 0.
func rollingStd(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		start := max(0, i-period+1)
		n := i - start + 1
		if n < 2 {
			continue
		}
		mean := 0.0
		for _, v := range values[start : i+1] {
			mean += v
		}
		mean /= float64(n)
		ss := 0.0
		for _, v := range values[start : i+1] {
			ss += (v - mean) * (v - mean)
		}
		out[i] = math.Sqrt(ss / float64(n-1))
	}
	return out
}

func rollingMin(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		m := values[i]
		for _, v := range values[max(0, i-period+1):i] {
			m = math.Min(m, v)
		}
		out[i] = m
	}
	return out
}

func rollingMax(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		m := values[i]
		for _, v := range values[max(0, i-period+1):i] {
			m = math.Max(m, v)
		}
		out[i] = m
	}
	return out
}

// ema uses the bias-adjusted weighting: each value is the weighted mean of the
// samples so far with weights (1-alpha)^age, alpha = 2/(period+1). The first value
// equals the first sample and a very large period tends to the plain mean.
func ema(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	decay := 1 - 2.0/float64(period+1)
	num, den := 0.0, 0.0
	for i, v := range values {
		num = v + decay*num
		den = 1 + decay*den
		out[i] = num / den
	}
	return out
}
