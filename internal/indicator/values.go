package indicator

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang-backtest/internal/dto"
	"golang-backtest/internal/model"
)

// Values maps lower-cased series names to series aligned with the bars.
type Values map[string][]float64

// At returns the value of every series at bar i.
func (v Values) At(i int) map[string]float64 {
	out := make(map[string]float64, len(v))
	for name, series := range v {
		if i >= 0 && i < len(series) {
			out[name] = series[i]
		}
	}
	return out
}

func (v Values) Names() []string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SeriesName is the prefix a config publishes its outputs under, e.g. sma_20,
// macd_12_26_9 or stoch_14_3. A configured name overrides it.
func SeriesName(cfg dto.IndicatorConfig) string {
	if cfg.Name != "" {
		return strings.ToLower(cfg.Name)
	}
	kind := Kind(strings.ToLower(cfg.Type))
	p := paramsFromConfig(cfg).withDefaults()
	switch kind {
	case KindMACD:
		return fmt.Sprintf("%s_%d_%d_%d", kind, p.FastPeriod, p.SlowPeriod, p.SignalPeriod)
	case KindStochastic:
		return fmt.Sprintf("%s_%d_%d", kind, p.KPeriod, p.DPeriod)
	case KindOBV, KindVWAP:
		return string(kind)
	}
	return string(kind) + "_" + strconv.Itoa(cfg.Period)
}

// OutputNames lists the series names ComputeAll publishes for cfg.
func OutputNames(cfg dto.IndicatorConfig) []string {
	prefix := SeriesName(cfg)
	switch Kind(strings.ToLower(cfg.Type)) {
	case KindMACD:
		return []string{prefix + "_line", prefix + "_signal", prefix + "_histogram"}
	case KindBollinger:
		return []string{prefix + "_upper", prefix + "_middle", prefix + "_lower"}
	case KindStochastic:
		return []string{prefix + "_k", prefix + "_d"}
	}
	return []string{prefix}
}

func paramsFromConfig(cfg dto.IndicatorConfig) Params {
	return Params{
		FastPeriod:   cfg.FastPeriod,
		SlowPeriod:   cfg.SlowPeriod,
		SignalPeriod: cfg.SignalPeriod,
		StdDev:       cfg.StdDev,
		KPeriod:      cfg.KPeriod,
		DPeriod:      cfg.DPeriod,
	}
}

// ComputeAll evaluates every config once over the whole bar sequence.
func ComputeAll(bars []model.Bar, configs []dto.IndicatorConfig) (Values, error) {
	values := make(Values)
	for _, cfg := range configs {
		res, err := Compute(Kind(cfg.Type), bars, Source(cfg.Source), cfg.Period, paramsFromConfig(cfg))
		if err != nil {
			return nil, fmt.Errorf("indicator %s: %w", SeriesName(cfg), err)
		}
		prefix := SeriesName(cfg)
		for _, out := range res.Outputs {
			name := prefix
			if out.Suffix != "" {
				name = prefix + "_" + out.Suffix
			}
			values[name] = out.Values
		}
	}
	return values, nil
}
