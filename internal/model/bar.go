package model

import (
	"fmt"
	"time"
)

// Bar is one OHLCV observation.
type Bar struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp" validate:"required"`
	Open      float64   `json:"open" yaml:"open" validate:"gt=0"`
	High      float64   `json:"high" yaml:"high" validate:"gt=0"`
	Low       float64   `json:"low" yaml:"low" validate:"gt=0"`
	Close     float64   `json:"close" yaml:"close" validate:"gt=0"`
	Volume    float64   `json:"volume" yaml:"volume" validate:"gte=0"`
}

func (b Bar) HL2() float64 {
	return (b.High + b.Low) / 2
}

func (b Bar) HLC3() float64 {
	return (b.High + b.Low + b.Close) / 3
}

func (b Bar) OHLC4() float64 {
	return (b.Open + b.High + b.Low + b.Close) / 4
}

// TypicalPrice is the hlc3 price used by VWAP.
func (b Bar) TypicalPrice() float64 {
	return b.HLC3()
}

// ValidateBars checks the sequence invariants: non-empty, strictly increasing timestamps,
// positive prices, high/low enclosing open/close and non-negative volume.
func ValidateBars(bars []Bar, minBars int) error {
	if len(bars) == 0 {
		return fmt.Errorf("%w: bar sequence is empty", ErrData)
	}
	if len(bars) < minBars {
		return fmt.Errorf("%w: need at least %d bars, got %d", ErrData, minBars, len(bars))
	}
	for i, b := range bars {
		if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
			return fmt.Errorf("%w: bar %d has non-positive price", ErrData, i)
		}
		if b.Volume < 0 {
			return fmt.Errorf("%w: bar %d has negative volume", ErrData, i)
		}
		if b.High < max(b.Open, b.Close) || b.Low > min(b.Open, b.Close) {
			return fmt.Errorf("%w: bar %d high/low do not enclose open/close", ErrData, i)
		}
		if i > 0 && !b.Timestamp.After(bars[i-1].Timestamp) {
			return fmt.Errorf("%w: bar %d timestamp %s is not after %s", ErrData, i,
				b.Timestamp.Format(time.RFC3339), bars[i-1].Timestamp.Format(time.RFC3339))
		}
	}
	return nil
}
