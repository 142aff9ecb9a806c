package indicator

type Category string

const (
	CategoryTrend      Category = "trend"
	CategoryMomentum   Category = "momentum"
	CategoryVolatility Category = "volatility"
	CategoryVolume     Category = "volume"
)

type Parameter struct {
	Name    string  `json:"name"`
	Default float64 `json:"default,omitempty"`
}

type Info struct {
	Kind        Kind        `json:"type"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Category    Category    `json:"category"`
	Parameters  []Parameter `json:"parameters"`
	Outputs     []string    `json:"outputs"`
	Range       []float64   `json:"range,omitempty"`
}

var catalog = []Info{
	{
		Kind: KindSMA, Name: "Simple Moving Average", Category: CategoryTrend,
		Description: "Average price over a specified period",
		Parameters:  []Parameter{{Name: "period", Default: DefaultPeriod}, {Name: "source"}},
		Outputs:     []string{"value"},
	},
	{
		Kind: KindEMA, Name: "Exponential Moving Average", Category: CategoryTrend,
		Description: "Weighted moving average giving more weight to recent prices",
		Parameters:  []Parameter{{Name: "period", Default: DefaultPeriod}, {Name: "source"}},
		Outputs:     []string{"value"},
	},
	{
		Kind: KindRSI, Name: "Relative Strength Index", Category: CategoryMomentum,
		Description: "Momentum oscillator measuring speed and magnitude of price changes",
		Parameters:  []Parameter{{Name: "period", Default: DefaultPeriod}, {Name: "source"}},
		Outputs:     []string{"value"},
		Range:       []float64{0, 100},
	},
	{
		Kind: KindMACD, Name: "MACD", Category: CategoryMomentum,
		Description: "Moving Average Convergence Divergence indicator",
		Parameters: []Parameter{
			{Name: "fast_period", Default: DefaultFastPeriod},
			{Name: "slow_period", Default: DefaultSlowPeriod},
			{Name: "signal_period", Default: DefaultSignalPeriod},
			{Name: "source"},
		},
		Outputs: []string{"line", "signal", "histogram"},
	},
	{
		Kind: KindBollinger, Name: "Bollinger Bands", Category: CategoryVolatility,
		Description: "Volatility bands around a moving average",
		Parameters: []Parameter{
			{Name: "period", Default: DefaultPeriod},
			{Name: "std_dev", Default: DefaultStdDev},
			{Name: "source"},
		},
		Outputs: []string{"upper", "middle", "lower"},
	},
	{
		Kind: KindATR, Name: "Average True Range", Category: CategoryVolatility,
		Description: "Volatility indicator measuring true range over a period",
		Parameters:  []Parameter{{Name: "period", Default: DefaultPeriod}},
		Outputs:     []string{"value"},
	},
	{
		Kind: KindStochastic, Name: "Stochastic Oscillator", Category: CategoryMomentum,
		Description: "Momentum indicator comparing closing price to price range",
		Parameters:  []Parameter{{Name: "k_period", Default: DefaultKPeriod}, {Name: "d_period", Default: DefaultDPeriod}},
		Outputs:     []string{"k", "d"},
		Range:       []float64{0, 100},
	},
	{
		Kind: KindOBV, Name: "On-Balance Volume", Category: CategoryVolume,
		Description: "Volume indicator relating volume to price change",
		Parameters:  []Parameter{},
		Outputs:     []string{"value"},
	},
	{
		Kind: KindVWAP, Name: "Volume Weighted Average Price", Category: CategoryVolume,
		Description: "Average price weighted by volume",
		Parameters:  []Parameter{},
		Outputs:     []string{"value"},
	},
}

// Catalog lists every supported indicator.
func Catalog() []Info {
	out := make([]Info, len(catalog))
	copy(out, catalog)
	return out
}
