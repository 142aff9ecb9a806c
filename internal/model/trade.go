package model

import "time"

type TradeAction string

const (
	ActionBuy  TradeAction = "buy"
	ActionSell TradeAction = "sell"
)

type ExitReason string

const (
	ExitSignal       ExitReason = "signal"
	ExitStopLoss     ExitReason = "stop_loss"
	ExitTakeProfit   ExitReason = "take_profit"
	ExitTrailingStop ExitReason = "trailing_stop"
)

// Trade is one round-trip lot. It is open while ExitTime is nil.
type Trade struct {
	ID         string        `json:"id"`
	Symbol     string        `json:"symbol"`
	Action     TradeAction   `json:"action"`
	EntryTime  time.Time     `json:"entry_time"`
	EntryPrice float64       `json:"entry_price"`
	Quantity   float64       `json:"quantity"`
	EntryFees  float64       `json:"entry_fees"`
	ExitTime   *time.Time    `json:"exit_time,omitempty"`
	ExitPrice  *float64      `json:"exit_price,omitempty"`
	ExitReason ExitReason    `json:"exit_reason,omitempty"`
	Fees       float64       `json:"fees"`
	GrossPnL   *float64      `json:"gross_pnl,omitempty"`
	NetPnL     *float64      `json:"net_pnl,omitempty"`
	ReturnPct  *float64      `json:"return_pct,omitempty"`
	Duration   time.Duration `json:"duration"`
}

func (t Trade) IsOpen() bool {
	return t.ExitTime == nil
}

// Net returns the realized net PnL, zero for open lots.
func (t Trade) Net() float64 {
	if t.NetPnL == nil {
		return 0
	}
	return *t.NetPnL
}

func (t Trade) Gross() float64 {
	if t.GrossPnL == nil {
		return 0
	}
	return *t.GrossPnL
}

func (t Trade) Return() float64 {
	if t.ReturnPct == nil {
		return 0
	}
	return *t.ReturnPct
}

// ClosedTrades filters out lots that are still open.
func ClosedTrades(trades []Trade) []Trade {
	closed := make([]Trade, 0, len(trades))
	for _, t := range trades {
		if !t.IsOpen() {
			closed = append(closed, t)
		}
	}
	return closed
}

// PortfolioSnapshot is the valuation recorded once per processed bar.
type PortfolioSnapshot struct {
	Timestamp     time.Time `json:"timestamp"`
	Cash          float64   `json:"cash"`
	PositionValue float64   `json:"position_value"`
	TotalValue    float64   `json:"total_value"`
	ReturnPct     float64   `json:"return_pct"`
}
