package indicator

import (
	"fmt"
	"math"
	"strings"

	"golang-backtest/internal/model"
)

type Kind string

const (
	KindSMA        Kind = "sma"
	KindEMA        Kind = "ema"
	KindRSI        Kind = "rsi"
	KindMACD       Kind = "macd"
	KindBollinger  Kind = "bb"
	KindATR        Kind = "atr"
	KindStochastic Kind = "stoch"
	KindOBV        Kind = "obv"
	KindVWAP       Kind = "vwap"
)

type Source string

const (
	SourceOpen   Source = "open"
	SourceHigh   Source = "high"
	SourceLow    Source = "low"
	SourceClose  Source = "close"
	SourceVolume Source = "volume"
	SourceHL2    Source = "hl2"
	SourceHLC3   Source = "hlc3"
	SourceOHLC4  Source = "ohlc4"
)

const (
	DefaultPeriod       = 14
	DefaultFastPeriod   = 12
	DefaultSlowPeriod   = 26
	DefaultSignalPeriod = 9
	DefaultStdDev       = 2.0
	DefaultKPeriod      = 14
	DefaultDPeriod      = 3

	neutral = 50.0
)

// Params carries the type-specific settings. Zero values fall back to the defaults.
type Params struct {
	FastPeriod   int
	SlowPeriod   int
	SignalPeriod int
	StdDev       float64
	KPeriod      int
	DPeriod      int
}

func (p Params) withDefaults() Params {
	if p.FastPeriod <= 0 {
		p.FastPeriod = DefaultFastPeriod
	}
	if p.SlowPeriod <= 0 {
		p.SlowPeriod = DefaultSlowPeriod
	}
	if p.SignalPeriod <= 0 {
		p.SignalPeriod = DefaultSignalPeriod
	}
	if p.StdDev <= 0 {
		p.StdDev = DefaultStdDev
	}
	if p.KPeriod <= 0 {
		p.KPeriod = DefaultKPeriod
	}
	if p.DPeriod <= 0 {
		p.DPeriod = DefaultDPeriod
	}
	return p
}

type Output struct {
	Suffix string
	Values []float64
}

// Result is the ordered set of series produced by one indicator, each aligned with
// the input bars. Single-output indicators have one output with an empty suffix.
type Result struct {
	Kind    Kind
	Outputs []Output
}

func single(kind Kind, values []float64) Result {
	return Result{Kind: kind, Outputs: []Output{{Values: values}}}
}

// UsesPeriod reports whether the kind reads the generic period parameter.
func UsesPeriod(kind Kind) bool {
	switch kind {
	case KindSMA, KindEMA, KindRSI, KindBollinger, KindATR:
		return true
	}
	return false
}

// SourceValues resolves a raw or derived price column.
func SourceValues(bars []model.Bar, source Source) ([]float64, error) {
	if source == "" {
		source = SourceClose
	}
	pick, err := sourceFunc(source)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = pick(b)
	}
	return out, nil
}

func sourceFunc(source Source) (func(model.Bar) float64, error) {
	switch Source(strings.ToLower(string(source))) {
	case SourceOpen:
		return func(b model.Bar) float64 { return b.Open }, nil
	case SourceHigh:
		return func(b model.Bar) float64 { return b.High }, nil
	case SourceLow:
		return func(b model.Bar) float64 { return b.Low }, nil
	case SourceClose:
		return func(b model.Bar) float64 { return b.Close }, nil
	case SourceVolume:
		return func(b model.Bar) float64 { return b.Volume }, nil
	case SourceHL2:
		return model.Bar.HL2, nil
	case SourceHLC3:
		return model.Bar.HLC3, nil
	case SourceOHLC4:
		return model.Bar.OHLC4, nil
	}
	return nil, fmt.Errorf("unknown source: %s", source)
}

// Compute calculates one indicator over bars.
func Compute(kind Kind, bars []model.Bar, source Source, period int, params Params) (Result, error) {
	if len(bars) == 0 {
		return Result{}, fmt.Errorf("%w: input bars cannot be empty", model.ErrData)
	}
	kind = Kind(strings.ToLower(string(kind)))
	if UsesPeriod(kind) && period <= 0 {
		return Result{}, fmt.Errorf("%s period must be positive, got %d", kind, period)
	}
	values, err := SourceValues(bars, source)
	if err != nil {
		return Result{}, err
	}
	p := params.withDefaults()

	switch kind {
	case KindSMA:
		return single(kind, SMA(values, period)), nil
	case KindEMA:
		return single(kind, EMA(values, period)), nil
	case KindRSI:
		return single(kind, RSI(values, period)), nil
	case KindMACD:
		if p.FastPeriod >= p.SlowPeriod {
			return Result{}, fmt.Errorf("macd fast period %d must be less than slow period %d", p.FastPeriod, p.SlowPeriod)
		}
		line, signal, hist := MACD(values, p.FastPeriod, p.SlowPeriod, p.SignalPeriod)
		return Result{Kind: kind, Outputs: []Output{
			{Suffix: "line", Values: line},
			{Suffix: "signal", Values: signal},
			{Suffix: "histogram", Values: hist},
		}}, nil
	case KindBollinger:
		upper, middle, lower := Bollinger(values, period, p.StdDev)
		return Result{Kind: kind, Outputs: []Output{
			{Suffix: "upper", Values: upper},
			{Suffix: "middle", Values: middle},
			{Suffix: "lower", Values: lower},
		}}, nil
	case KindATR:
		return single(kind, ATR(bars, period)), nil
	case KindStochastic:
		k, d := Stochastic(bars, p.KPeriod, p.DPeriod)
		return Result{Kind: kind, Outputs: []Output{
			{Suffix: "k", Values: k},
			{Suffix: "d", Values: d},
		}}, nil
	case KindOBV:
		return single(kind, OBV(bars)), nil
	case KindVWAP:
		return single(kind, VWAP(bars)), nil
	}
	return Result{}, fmt.Errorf("unsupported indicator type: %s", kind)
}

func SMA(values []float64, period int) []float64 {
	return rollingMean(values, period)
}

func EMA(values []float64, period int) []float64 {
	return ema(values, period)
}

// RSI uses rolling means of gains and losses. A flat window is neutral (50) and a
// window without losses is 100.
func RSI(values []float64, period int) []float64 {
	gains := make([]float64, len(values))
	losses := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		delta := values[i] - values[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}
	avgGain := rollingMean(gains, period)
	avgLoss := rollingMean(losses, period)

	out := make([]float64, len(values))
	for i := range out {
		switch {
		case avgLoss[i] == 0 && avgGain[i] == 0:
			out[i] = neutral
		case avgLoss[i] == 0:
			out[i] = 100
		default:
			rs := avgGain[i] / avgLoss[i]
			out[i] = 100 - 100/(1+rs)
		}
	}
	return out
}

// MACD returns line, signal and histogram. histogram[i] is computed as line[i]-signal[i].
func MACD(values []float64, fast, slow, signal int) ([]float64, []float64, []float64) {
	fastEMA := ema(values, fast)
	slowEMA := ema(values, slow)
	line := make([]float64, len(values))
	for i := range values {
		line[i] = fastEMA[i] - slowEMA[i]
	}
	sig := ema(line, signal)
	hist := make([]float64, len(values))
	for i := range values {
		hist[i] = line[i] - sig[i]
	}
	return line, sig, hist
}

// Bollinger returns the upper, middle and lower bands.
func Bollinger(values []float64, period int, k float64) ([]float64, []float64, []float64) {
	middle := rollingMean(values, period)
	std := rollingStd(values, period)
	upper := make([]float64, len(values))
	lower := make([]float64, len(values))
	for i := range values {
		upper[i] = middle[i] + k*std[i]
		lower[i] = middle[i] - k*std[i]
	}
	return upper, middle, lower
}

func ATR(bars []model.Bar, period int) []float64 {
	tr := make([]float64, len(bars))
	for i, b := range bars {
		tr[i] = b.High - b.Low
		if i > 0 {
			prev := bars[i-1].Close
			tr[i] = math.Max(tr[i], math.Max(math.Abs(b.High-prev), math.Abs(b.Low-prev)))
		}
	}
	return rollingMean(tr, period)
}

// Stochastic returns %K and %D. A zero high-low range yields the neutral 50.
func Stochastic(bars []model.Bar, kPeriod, dPeriod int) ([]float64, []float64) {
	highs := make([]float64, len(bars))
	lows := make([]float64, len(bars))
	for i, b := range bars {
		highs[i] = b.High
		lows[i] = b.Low
	}
	lowest := rollingMin(lows, kPeriod)
	highest := rollingMax(highs, kPeriod)

	k := make([]float64, len(bars))
	for i, b := range bars {
		rng := highest[i] - lowest[i]
		if rng == 0 {
			k[i] = neutral
			continue
		}
		k[i] = 100 * (b.Close - lowest[i]) / rng
	}
	return k, rollingMean(k, dPeriod)
}

func OBV(bars []model.Bar) []float64 {
	out := make([]float64, len(bars))
	if len(bars) == 0 {
		return out
	}
	out[0] = bars[0].Volume
	for i := 1; i < len(bars); i++ {
		switch {
		case bars[i].Close > bars[i-1].Close:
			out[i] = out[i-1] + bars[i].Volume
		case bars[i].Close < bars[i-1].Close:
			out[i] = out[i-1] - bars[i].Volume
		default:
			out[i] = out[i-1]
		}
	}
	return out
}

// VWAP is cumulative from the first bar. Until any volume trades it equals the typical price.
func VWAP(bars []model.Bar) []float64 {
	out := make([]float64, len(bars))
	cumPV, cumVol := 0.0, 0.0
	for i, b := range bars {
		tp := b.TypicalPrice()
		cumPV += tp * b.Volume
		cumVol += b.Volume
		if cumVol == 0 {
			out[i] = tp
			continue
		}
		out[i] = cumPV / cumVol
	}
	return out
}
