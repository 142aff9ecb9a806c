package dto

type MarketType string

const (
	MarketSpot    MarketType = "spot"
	MarketPerp    MarketType = "perp"
	MarketFutures MarketType = "futures"
	MarketOptions MarketType = "options"
)

type QuantityType string

const (
	QuantityFixed      QuantityType = "fixed"
	QuantityPercentage QuantityType = "percentage"
	QuantityRiskBased  QuantityType = "risk_based"
)

type ComparisonOperator string

const (
	OpGreater        ComparisonOperator = ">"
	OpLess           ComparisonOperator = "<"
	OpGreaterOrEqual ComparisonOperator = ">="
	OpLessOrEqual    ComparisonOperator = "<="
	OpEqual          ComparisonOperator = "=="
	OpAssign         ComparisonOperator = "="
	OpNotEqual       ComparisonOperator = "!="
	OpCrossesAbove   ComparisonOperator = "crosses_above"
	OpCrossesBelow   ComparisonOperator = "crosses_below"
)

type LogicalOperator string

const (
	LogicalAnd LogicalOperator = "AND"
	LogicalOr  LogicalOperator = "OR"
	LogicalNot LogicalOperator = "NOT"
)

// StrategyConfig is the declarative strategy definition a backtest runs against.
type StrategyConfig struct {
	Name                string              `json:"name" yaml:"name" validate:"required,max=100"`
	Description         string              `json:"description,omitempty" yaml:"description,omitempty"`
	AssetSelection      AssetSelection      `json:"asset_selection" yaml:"asset_selection"`
	SignalGeneration    SignalGeneration    `json:"signal_generation" yaml:"signal_generation"`
	ExecutionParameters ExecutionParameters `json:"execution_parameters" yaml:"execution_parameters"`
	RiskManagement      RiskManagement      `json:"risk_management" yaml:"risk_management"`
}

type AssetSelection struct {
	Symbol     string     `json:"symbol" yaml:"symbol" validate:"required,min=3"`
	Exchange   string     `json:"exchange" yaml:"exchange" validate:"required"`
	MarketType MarketType `json:"market_type" yaml:"market_type" validate:"omitempty,oneof=spot perp futures options"`
}

// IndicatorConfig describes one indicator. Type-specific parameters fall back to the
// library defaults when zero.
type IndicatorConfig struct {
	Type         string  `json:"type" yaml:"type" validate:"required,oneof=sma ema rsi macd bb atr stoch obv vwap"`
	Name         string  `json:"name,omitempty" yaml:"name,omitempty"`
	Period       int     `json:"period" yaml:"period" validate:"gte=0,lte=500"`
	Source       string  `json:"source,omitempty" yaml:"source,omitempty" validate:"omitempty,oneof=open high low close volume hl2 hlc3 ohlc4"`
	FastPeriod   int     `json:"fast_period,omitempty" yaml:"fast_period,omitempty"`
	SlowPeriod   int     `json:"slow_period,omitempty" yaml:"slow_period,omitempty"`
	SignalPeriod int     `json:"signal_period,omitempty" yaml:"signal_period,omitempty"`
	StdDev       float64 `json:"std_dev,omitempty" yaml:"std_dev,omitempty"`
	KPeriod      int     `json:"k_period,omitempty" yaml:"k_period,omitempty"`
	DPeriod      int     `json:"d_period,omitempty" yaml:"d_period,omitempty"`
}

// Operand is either a numeric literal or a name (indicator, price field, derived price
// or a numeric string). Number takes precedence when set.
type Operand struct {
	Number *float64 `json:"number,omitempty" yaml:"number,omitempty"`
	Name   string   `json:"name,omitempty" yaml:"name,omitempty"`
}

type LogicalCondition struct {
	Left     Operand            `json:"left_operand" yaml:"left_operand"`
	Operator ComparisonOperator `json:"operator" yaml:"operator" validate:"required,oneof=> < >= <= = == != crosses_above crosses_below"`
	Right    Operand            `json:"right_operand" yaml:"right_operand"`
}

type LogicalExpression struct {
	Conditions []LogicalCondition `json:"conditions" yaml:"conditions" validate:"dive"`
	Operators  []LogicalOperator  `json:"operators,omitempty" yaml:"operators,omitempty" validate:"dive,oneof=AND OR NOT and or not"`
}

type SignalGeneration struct {
	Indicators           []IndicatorConfig `json:"indicators" yaml:"indicators" validate:"dive"`
	EntryConditions      LogicalExpression `json:"entry_conditions" yaml:"entry_conditions"`
	ExitConditions       LogicalExpression `json:"exit_conditions" yaml:"exit_conditions"`
	AllowMultipleEntries bool              `json:"allow_multiple_entries" yaml:"allow_multiple_entries"`
}

type ExecutionParameters struct {
	QuantityType  QuantityType `json:"quantity_type" yaml:"quantity_type" validate:"omitempty,oneof=fixed percentage risk_based"`
	QuantityValue float64      `json:"quantity_value" yaml:"quantity_value"`
	FeesBps       float64      `json:"fees_bps" yaml:"fees_bps" validate:"gte=0"`
	SlippageBps   float64      `json:"slippage_bps" yaml:"slippage_bps" validate:"gte=0"`
}

// RiskManagement percentages are expressed in percent; zero disables a rule.
type RiskManagement struct {
	StopLossPct        float64 `json:"stop_loss_pct" yaml:"stop_loss_pct" validate:"gte=0,lte=100"`
	TakeProfitPct      float64 `json:"take_profit_pct" yaml:"take_profit_pct" validate:"gte=0"`
	TrailingStopPct    float64 `json:"trailing_stop_pct" yaml:"trailing_stop_pct" validate:"gte=0,lte=100"`
	MaxPositionSizePct float64 `json:"max_position_size_pct" yaml:"max_position_size_pct" validate:"gte=0,lte=100"`
}
