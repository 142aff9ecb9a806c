package portfolio

import (
	"fmt"
	"time"

	"golang-backtest/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	bpsDivisor = decimal.NewFromInt(10000)
	hundred    = decimal.NewFromInt(100)
)

// Order is a single-symbol market order filled at the bar's quoted price adjusted
// for slippage. Fees are an absolute amount in account currency.
type Order struct {
	Symbol      string
	Action      model.TradeAction
	Quantity    float64
	Price       float64
	Timestamp   time.Time
	Fees        float64
	SlippageBps float64
	Reason      model.ExitReason
	// LotID selects the open lot a sell closes. Empty means the most recent one.
	LotID string
}

// Simulator owns the cash balance, positions and trade ledger of one backtest run.
// It is not safe for concurrent use; every run owns its own instance.
type Simulator struct {
	initialCapital decimal.Decimal
	cash           decimal.Decimal
	positions      map[string]decimal.Decimal
	trades         []model.Trade
	openLots       map[string][]int
	lastMarks      map[string]float64
	snapshots      []model.PortfolioSnapshot
}

func NewSimulator(initialCapital float64) *Simulator {
	capital := decimal.NewFromFloat(initialCapital)
	return &Simulator{
		initialCapital: capital,
		cash:           capital,
		positions:      make(map[string]decimal.Decimal),
		openLots:       make(map[string][]int),
		lastMarks:      make(map[string]float64),
	}
}

// Execute fills an order without an exit reason. See Submit.
func (s *Simulator) Execute(symbol string, action model.TradeAction, qty, price float64, ts time.Time, fees, slippageBps float64) (*model.Trade, error) {
	return s.Submit(Order{
		Symbol:      symbol,
		Action:      action,
		Quantity:    qty,
		Price:       price,
		Timestamp:   ts,
		Fees:        fees,
		SlippageBps: slippageBps,
	})
}

// Submit fills an order. A buy opens a new lot; a sell closes the most recent open
// lot for the symbol. Orders failing their cash or position precondition return
// ErrOrderRejected and leave the state untouched.
func (s *Simulator) Submit(o Order) (*model.Trade, error) {
	if o.Quantity <= 0 || o.Price <= 0 {
		return nil, fmt.Errorf("%w: quantity and price must be positive", model.ErrOrderRejected)
	}
	if o.Fees < 0 || o.SlippageBps < 0 {
		return nil, fmt.Errorf("%w: fees and slippage must not be negative", model.ErrOrderRejected)
	}

	switch o.Action {
	case model.ActionBuy:
		return s.buy(o)
	case model.ActionSell:
		return s.sell(o)
	}
	return nil, fmt.Errorf("%w: unknown action %q", model.ErrOrderRejected, o.Action)
}

func slippageFactor(bps float64) decimal.Decimal {
	return decimal.NewFromInt(1).Add(decimal.NewFromFloat(bps).Div(bpsDivisor))
}

func (s *Simulator) buy(o Order) (*model.Trade, error) {
	qty := decimal.NewFromFloat(o.Quantity)
	fees := decimal.NewFromFloat(o.Fees)
	execPrice := decimal.NewFromFloat(o.Price).Mul(slippageFactor(o.SlippageBps))
	cost := qty.Mul(execPrice).Add(fees)
	if s.cash.LessThan(cost) {
		return nil, fmt.Errorf("%w: insufficient cash: need %s, have %s",
			model.ErrOrderRejected, cost.StringFixed(2), s.cash.StringFixed(2))
	}

	s.cash = s.cash.Sub(cost)
	s.positions[o.Symbol] = s.positions[o.Symbol].Add(qty)
	s.lastMarks[o.Symbol] = o.Price

	trade := model.Trade{
		ID:         uuid.NewString(),
		Symbol:     o.Symbol,
		Action:     model.ActionBuy,
		EntryTime:  o.Timestamp,
		EntryPrice: execPrice.InexactFloat64(),
		Quantity:   o.Quantity,
		EntryFees:  o.Fees,
		Fees:       o.Fees,
	}
	s.trades = append(s.trades, trade)
	s.openLots[o.Symbol] = append(s.openLots[o.Symbol], len(s.trades)-1)
	return &trade, nil
}

func (s *Simulator) sell(o Order) (*model.Trade, error) {
	qty := decimal.NewFromFloat(o.Quantity)
	lots := s.openLots[o.Symbol]
	if s.positions[o.Symbol].LessThan(qty) || len(lots) == 0 {
		return nil, fmt.Errorf("%w: insufficient position in %s: need %s, have %s",
			model.ErrOrderRejected, o.Symbol, qty.String(), s.positions[o.Symbol].String())
	}
	idx := lots[len(lots)-1]
	if o.LotID != "" {
		idx = -1
		for _, l := range lots {
			if s.trades[l].ID == o.LotID {
				idx = l
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("%w: no open lot %s for %s", model.ErrOrderRejected, o.LotID, o.Symbol)
		}
	}
	lot := s.trades[idx]
	lotQty := decimal.NewFromFloat(lot.Quantity)
	if qty.GreaterThan(lotQty) {
		return nil, fmt.Errorf("%w: sell quantity %s exceeds open lot %s",
			model.ErrOrderRejected, qty.String(), lotQty.String())
	}

	fees := decimal.NewFromFloat(o.Fees)
	execPrice := decimal.NewFromFloat(o.Price).Div(slippageFactor(o.SlippageBps))
	cashAfter := s.cash.Add(qty.Mul(execPrice)).Sub(fees)
	if cashAfter.IsNegative() {
		return nil, fmt.Errorf("%w: fees %s exceed cash plus proceeds",
			model.ErrOrderRejected, fees.StringFixed(2))
	}
	s.cash = cashAfter
	s.positions[o.Symbol] = s.positions[o.Symbol].Sub(qty)
	s.lastMarks[o.Symbol] = o.Price

	entryFees := decimal.NewFromFloat(lot.EntryFees)
	if qty.LessThan(lotQty) {
		// Split the lot: the remainder stays open with its share of the entry fees.
		closedShare := qty.Div(lotQty)
		remaining := lot
		remaining.ID = uuid.NewString()
		remaining.Quantity = lotQty.Sub(qty).InexactFloat64()
		remaining.EntryFees = entryFees.Mul(decimal.NewFromInt(1).Sub(closedShare)).InexactFloat64()
		remaining.Fees = remaining.EntryFees
		entryFees = entryFees.Mul(closedShare)
		s.trades = append(s.trades, remaining)
		lots = append(lots, len(s.trades)-1)
	}

	entryPrice := decimal.NewFromFloat(lot.EntryPrice)
	gross := execPrice.Sub(entryPrice).Mul(qty)
	net := gross.Sub(fees).Sub(entryFees)
	returnPct := decimal.Zero
	if basis := entryPrice.Mul(qty); !basis.IsZero() {
		returnPct = gross.Div(basis).Mul(hundred)
	}

	exitTime := o.Timestamp
	exitPrice := execPrice.InexactFloat64()
	grossF, netF, retF := gross.InexactFloat64(), net.InexactFloat64(), returnPct.InexactFloat64()

	lot.Quantity = o.Quantity
	lot.EntryFees = entryFees.InexactFloat64()
	lot.ExitTime = &exitTime
	lot.ExitPrice = &exitPrice
	lot.ExitReason = o.Reason
	lot.Fees = entryFees.Add(fees).InexactFloat64()
	lot.GrossPnL = &grossF
	lot.NetPnL = &netF
	lot.ReturnPct = &retF
	lot.Duration = exitTime.Sub(lot.EntryTime)
	s.trades[idx] = lot

	s.openLots[o.Symbol] = removeLot(lots, idx)
	return &lot, nil
}

func removeLot(lots []int, idx int) []int {
	out := lots[:0]
	for _, l := range lots {
		if l != idx {
			out = append(out, l)
		}
	}
	return out
}

// RecordSnapshot revalues open positions at marks and appends a snapshot. Symbols
// missing from marks keep their last traded price.
func (s *Simulator) RecordSnapshot(ts time.Time, marks map[string]float64) model.PortfolioSnapshot {
	for sym, price := range marks {
		s.lastMarks[sym] = price
	}
	positionValue := s.positionValue()
	total := s.cash.Add(positionValue)
	returnPct := decimal.Zero
	if !s.initialCapital.IsZero() {
		returnPct = total.Sub(s.initialCapital).Div(s.initialCapital).Mul(hundred)
	}

	snap := model.PortfolioSnapshot{
		Timestamp:     ts,
		Cash:          s.cash.InexactFloat64(),
		PositionValue: positionValue.InexactFloat64(),
		TotalValue:    total.InexactFloat64(),
		ReturnPct:     returnPct.InexactFloat64(),
	}
	s.snapshots = append(s.snapshots, snap)
	return snap
}

func (s *Simulator) positionValue() decimal.Decimal {
	value := decimal.Zero
	for sym, qty := range s.positions {
		if qty.IsZero() {
			continue
		}
		value = value.Add(qty.Mul(decimal.NewFromFloat(s.lastMarks[sym])))
	}
	return value
}

// TotalValue is cash plus positions valued at marks, without recording anything.
func (s *Simulator) TotalValue(marks map[string]float64) float64 {
	value := s.cash
	for sym, qty := range s.positions {
		if qty.IsZero() {
			continue
		}
		price, ok := marks[sym]
		if !ok {
			price = s.lastMarks[sym]
		}
		value = value.Add(qty.Mul(decimal.NewFromFloat(price)))
	}
	return value.InexactFloat64()
}

func (s *Simulator) InitialCapital() float64 {
	return s.initialCapital.InexactFloat64()
}

func (s *Simulator) Cash() float64 {
	return s.cash.InexactFloat64()
}

func (s *Simulator) Position(symbol string) float64 {
	return s.positions[symbol].InexactFloat64()
}

// OpenLots returns the open lots for symbol, most recent last.
func (s *Simulator) OpenLots(symbol string) []model.Trade {
	lots := s.openLots[symbol]
	out := make([]model.Trade, len(lots))
	for i, idx := range lots {
		out[i] = s.trades[idx]
	}
	return out
}

func (s *Simulator) Trades() []model.Trade {
	out := make([]model.Trade, len(s.trades))
	copy(out, s.trades)
	return out
}

func (s *Simulator) Snapshots() []model.PortfolioSnapshot {
	out := make([]model.PortfolioSnapshot, len(s.snapshots))
	copy(out, s.snapshots)
	return out
}
