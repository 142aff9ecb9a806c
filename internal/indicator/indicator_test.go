package indicator

import (
	"math"
	"testing"
	"time"

	"golang-backtest/internal/dto"
	"golang-backtest/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func barsFromCloses(closes []float64) []model.Bar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, len(closes))
	for i, c := range closes {
		bars[i] = model.Bar{
			Timestamp: start.AddDate(0, 0, i),
			Open:      c,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
			Volume:    1000,
		}
	}
	return bars
}

func TestSMA(t *testing.T) {
	type args struct {
		values []float64
		period int
	}
	tests := []struct {
		name string
		args args
		want []float64
	}{
		{
			name: "period one returns the source",
			args: args{values: []float64{3, 1, 4, 1, 5}, period: 1},
			want: []float64{3, 1, 4, 1, 5},
		},
		{
			name: "partial windows at the start",
			args: args{values: []float64{2, 4, 6, 8}, period: 3},
			want: []float64{2, 3, 4, 6},
		},
		{
			name: "period longer than series",
			args: args{values: []float64{1, 2, 3}, period: 10},
			want: []float64{1, 1.5, 2},
		},
		{
			name: "period one is exact around a very large value",
			args: args{values: []float64{0.1, 0.2, 0.3, 0.7, 1e16, 1, 2}, period: 1},
			want: []float64{0.1, 0.2, 0.3, 0.7, 1e16, 1, 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SMA(tt.args.values, tt.args.period))
		})
	}
}

func TestSMA_VolumeSpikeLeavesLaterWindows(t *testing.T) {
	volumes := []float64{1, 1e16, 3, 5, 7}
	bars := barsFromCloses([]float64{10, 11, 12, 13, 14})
	for i := range bars {
		bars[i].Volume = volumes[i]
	}

	res, err := Compute(KindSMA, bars, SourceVolume, 2, Params{})
	require.NoError(t, err)
	got := res.Outputs[0].Values

	assert.Equal(t, 1.0, got[0])
	assert.Equal(t, 4.0, got[3])
	assert.Equal(t, 6.0, got[4])
}

func TestEMA(t *testing.T) {
	values := []float64{10, 12, 9, 15, 11, 13}

	t.Run("first value is the first sample", func(t *testing.T) {
		got := EMA(values, 3)
		assert.Equal(t, 10.0, got[0])
		// weights 1 and 0.5 for alpha = 0.5
		assert.InDelta(t, (12+0.5*10)/1.5, got[1], 1e-12)
	})

	t.Run("period one returns the source", func(t *testing.T) {
		assert.Equal(t, values, EMA(values, 1))
	})

	t.Run("very large period converges to the series mean", func(t *testing.T) {
		got := EMA([]float64{10, 20, 30, 40, 50}, 1_000_000)
		assert.InDelta(t, 30.0, got[len(got)-1], 1e-3)
	})

	t.Run("very large period ignores a first value away from the mean", func(t *testing.T) {
		series := make([]float64, 5000)
		for i := range series {
			series[i] = 100 + 5*math.Cos(float64(i))
		}
		require.Equal(t, 105.0, series[0])
		got := EMA(series, 1_000_000)
		assert.InDelta(t, 100.0, got[len(got)-1], 0.01)
	})
}

func TestRSI(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		check  func(t *testing.T, got []float64)
	}{
		{
			name:   "flat series is neutral",
			values: []float64{5, 5, 5, 5, 5},
			check: func(t *testing.T, got []float64) {
				for _, v := range got {
					assert.Equal(t, 50.0, v)
				}
			},
		},
		{
			name:   "strictly increasing series drives RSI to 100",
			values: []float64{1, 2, 3, 4, 5, 6, 7, 8},
			check: func(t *testing.T, got []float64) {
				assert.Equal(t, 50.0, got[0])
				assert.Equal(t, 100.0, got[len(got)-1])
			},
		},
		{
			name:   "strictly decreasing series drives RSI to 0",
			values: []float64{8, 7, 6, 5, 4, 3},
			check: func(t *testing.T, got []float64) {
				assert.Equal(t, 0.0, got[len(got)-1])
			},
		},
		{
			name:   "always within bounds",
			values: []float64{10, 11, 9, 14, 8, 8, 12, 20, 3, 7, 7, 15},
			check: func(t *testing.T, got []float64) {
				for _, v := range got {
					assert.GreaterOrEqual(t, v, 0.0)
					assert.LessOrEqual(t, v, 100.0)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, RSI(tt.values, 3))
		})
	}
}

func TestMACD_HistogramIdentity(t *testing.T) {
	values := []float64{10, 10.5, 11.2, 10.8, 12.4, 13.1, 12.9, 14.2, 13.8, 15.5, 16.1, 15.2}
	line, signal, hist := MACD(values, 3, 6, 4)
	require.Len(t, hist, len(values))
	for i := range values {
		assert.Equal(t, line[i]-signal[i], hist[i])
	}
}

func TestBollinger(t *testing.T) {
	upper, middle, lower := Bollinger([]float64{2, 4, 6}, 3, 2)

	assert.Equal(t, []float64{2, 3, 4}, middle)
	assert.Equal(t, 2.0, upper[0], "single-sample window has zero width")
	assert.Equal(t, 2.0, lower[0])
	assert.InDelta(t, 4+2*2, upper[2], 1e-12)
	assert.InDelta(t, 4-2*2, lower[2], 1e-12)
}

func TestATR(t *testing.T) {
	bars := []model.Bar{
		{High: 11, Low: 9, Close: 10},
		{High: 15, Low: 12, Close: 14},
		{High: 14.5, Low: 13.5, Close: 14},
	}
	got := ATR(bars, 2)
	assert.InDelta(t, 2.0, got[0], 1e-12)
	assert.InDelta(t, (2.0+5.0)/2, got[1], 1e-12)
	assert.InDelta(t, (5.0+1.0)/2, got[2], 1e-12)
}

func TestStochastic(t *testing.T) {
	t.Run("zero range is neutral", func(t *testing.T) {
		bars := []model.Bar{{High: 5, Low: 5, Close: 5}, {High: 5, Low: 5, Close: 5}}
		k, d := Stochastic(bars, 14, 3)
		assert.Equal(t, []float64{50, 50}, k)
		assert.Equal(t, []float64{50, 50}, d)
	})

	t.Run("close at the high is 100", func(t *testing.T) {
		bars := []model.Bar{{High: 10, Low: 8, Close: 9}, {High: 12, Low: 9, Close: 12}}
		k, _ := Stochastic(bars, 2, 1)
		assert.InDelta(t, 50.0, k[0], 1e-12)
		assert.InDelta(t, 100.0, k[1], 1e-12)
	})
}

func TestOBV(t *testing.T) {
	bars := []model.Bar{
		{Close: 10, Volume: 100},
		{Close: 11, Volume: 50},
		{Close: 10, Volume: 30},
		{Close: 10, Volume: 70},
	}
	assert.Equal(t, []float64{100, 150, 120, 120}, OBV(bars))
}

func TestVWAP(t *testing.T) {
	bars := []model.Bar{
		{High: 12, Low: 9, Close: 9, Volume: 0},
		{High: 12, Low: 9, Close: 12, Volume: 10},
		{High: 15, Low: 12, Close: 12, Volume: 10},
	}
	got := VWAP(bars)
	assert.InDelta(t, 10.0, got[0], 1e-12, "no volume yet falls back to typical price")
	assert.InDelta(t, 11.0, got[1], 1e-12)
	assert.InDelta(t, 12.0, got[2], 1e-12)
}

func TestCompute(t *testing.T) {
	bars := barsFromCloses([]float64{10, 11, 12, 13, 14})

	tests := []struct {
		name        string
		kind        Kind
		source      Source
		period      int
		params      Params
		wantOutputs []string
		wantErr     bool
	}{
		{name: "sma", kind: KindSMA, source: SourceClose, period: 2, wantOutputs: []string{""}},
		{name: "upper case kind", kind: "EMA", source: SourceHL2, period: 2, wantOutputs: []string{""}},
		{name: "macd defaults", kind: KindMACD, wantOutputs: []string{"line", "signal", "histogram"}},
		{name: "bollinger", kind: KindBollinger, period: 3, wantOutputs: []string{"upper", "middle", "lower"}},
		{name: "stochastic", kind: KindStochastic, wantOutputs: []string{"k", "d"}},
		{name: "obv ignores period", kind: KindOBV, wantOutputs: []string{""}},
		{name: "unknown source", kind: KindSMA, source: "median", period: 2, wantErr: true},
		{name: "unknown kind", kind: "ichimoku", period: 2, wantErr: true},
		{name: "non-positive period", kind: KindRSI, period: 0, wantErr: true},
		{name: "macd fast not below slow", kind: KindMACD, params: Params{FastPeriod: 26, SlowPeriod: 12}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compute(tt.kind, bars, tt.source, tt.period, tt.params)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, got.Outputs, len(tt.wantOutputs))
			for i, out := range got.Outputs {
				assert.Equal(t, tt.wantOutputs[i], out.Suffix)
				assert.Len(t, out.Values, len(bars))
			}
		})
	}

	t.Run("empty bars", func(t *testing.T) {
		_, err := Compute(KindSMA, nil, SourceClose, 3, Params{})
		assert.ErrorIs(t, err, model.ErrData)
	})
}

func TestComputeAll(t *testing.T) {
	bars := barsFromCloses([]float64{10, 11, 12, 13, 14, 15})
	configs := []dto.IndicatorConfig{
		{Type: "sma", Period: 3, Source: "close"},
		{Type: "ema", Period: 2, Name: "Fast"},
		{Type: "macd"},
		{Type: "bb", Period: 20},
		{Type: "stoch", KPeriod: 5, DPeriod: 2},
		{Type: "obv"},
		{Type: "vwap"},
	}

	values, err := ComputeAll(bars, configs)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"bb_20_lower", "bb_20_middle", "bb_20_upper",
		"fast",
		"macd_12_26_9_histogram", "macd_12_26_9_line", "macd_12_26_9_signal",
		"obv",
		"sma_3",
		"stoch_5_2_d", "stoch_5_2_k",
		"vwap",
	}, values.Names())

	at := values.At(2)
	assert.InDelta(t, 11.0, at["sma_3"], 1e-12)
	assert.Len(t, values.At(-1), 0)

	_, err = ComputeAll(bars, []dto.IndicatorConfig{{Type: "sma", Period: -1}})
	assert.Error(t, err)
}

func TestCatalog(t *testing.T) {
	got := Catalog()
	require.Len(t, got, 9)
	got[0].Name = "mutated"
	assert.Equal(t, "Simple Moving Average", Catalog()[0].Name)
}

func TestOutputNames(t *testing.T) {
	tests := []struct {
		name string
		cfg  dto.IndicatorConfig
		want []string
	}{
		{name: "single output", cfg: dto.IndicatorConfig{Type: "rsi", Period: 14}, want: []string{"rsi_14"}},
		{name: "custom name", cfg: dto.IndicatorConfig{Type: "bb", Period: 20, Name: "Band"}, want: []string{"band_upper", "band_middle", "band_lower"}},
		{name: "macd custom periods", cfg: dto.IndicatorConfig{Type: "MACD", FastPeriod: 5, SlowPeriod: 35, SignalPeriod: 5}, want: []string{"macd_5_35_5_line", "macd_5_35_5_signal", "macd_5_35_5_histogram"}},
		{name: "stochastic defaults", cfg: dto.IndicatorConfig{Type: "stoch"}, want: []string{"stoch_14_3_k", "stoch_14_3_d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputNames(tt.cfg))
		})
	}
}
