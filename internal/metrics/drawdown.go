package metrics

import "math"

// Drawdowns returns the percent decline of each value from its running peak.
// Every element is zero or negative.
func Drawdowns(values []float64) []float64 {
	out := make([]float64, len(values))
	peak := math.Inf(-1)
	for i, v := range values {
		peak = math.Max(peak, v)
		if peak > 0 {
			out[i] = (v - peak) / peak * 100
		}
	}
	return out
}

// MaxDrawdown is the minimum of the drawdown series.
func MaxDrawdown(values []float64) float64 {
	worst := 0.0
	for _, d := range Drawdowns(values) {
		worst = math.Min(worst, d)
	}
	return worst
}

// MaxDrawdownAmount is the largest absolute decline from a running peak, as a
// non-positive amount.
func MaxDrawdownAmount(values []float64) float64 {
	worst := 0.0
	peak := math.Inf(-1)
	for _, v := range values {
		peak = math.Max(peak, v)
		worst = math.Min(worst, v-peak)
	}
	return worst
}

// UlcerIndex is the root mean square of the percent drawdowns.
func UlcerIndex(values []float64) float64 {
	dd := Drawdowns(values)
	if len(dd) == 0 {
		return 0
	}
	ss := 0.0
	for _, d := range dd {
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(dd)))
}

// Segment is a maximal run of consecutive underwater values (value below the
// running peak). Start and End are inclusive indexes.
type Segment struct {
	Start       int
	End         int
	PeakValue   float64
	TroughIndex int
	TroughValue float64
	// RecoveryIndex is the first index after End whose value exceeds PeakValue,
	// or -1 when the series never recovers.
	RecoveryIndex int
}

func (s Segment) Bars() int {
	return s.End - s.Start + 1
}

// DepthPct is the trough decline from the peak as a positive percentage.
func (s Segment) DepthPct() float64 {
	if s.PeakValue <= 0 {
		return 0
	}
	return (s.PeakValue - s.TroughValue) / s.PeakValue * 100
}

func (s Segment) Recovered() bool {
	return s.RecoveryIndex >= 0
}

// Segments scans values for underwater runs.
func Segments(values []float64) []Segment {
	var segments []Segment
	peak := math.Inf(-1)
	var cur *Segment
	for i, v := range values {
		if v < peak {
			if cur == nil {
				cur = &Segment{Start: i, PeakValue: peak, TroughIndex: i, TroughValue: v, RecoveryIndex: -1}
			}
			cur.End = i
			if v < cur.TroughValue {
				cur.TroughIndex = i
				cur.TroughValue = v
			}
			continue
		}
		peak = v
		if cur != nil {
			segments = append(segments, *cur)
			cur = nil
		}
	}
	if cur != nil {
		segments = append(segments, *cur)
	}

	for i := range segments {
		for j := segments[i].End + 1; j < len(values); j++ {
			if values[j] > segments[i].PeakValue {
				segments[i].RecoveryIndex = j
				break
			}
		}
	}
	return segments
}
