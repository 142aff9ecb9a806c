package portfolio

import (
	"testing"
	"time"

	"golang-backtest/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func day(i int) time.Time {
	return t0.AddDate(0, 0, i)
}

func TestSimulator_RoundTrip(t *testing.T) {
	s := NewSimulator(1000)

	buy, err := s.Execute("AAPL", model.ActionBuy, 1, 100, day(10), 0, 0)
	require.NoError(t, err)
	assert.True(t, buy.IsOpen())
	assert.Equal(t, 900.0, s.Cash())
	assert.Equal(t, 1.0, s.Position("AAPL"))
	require.Len(t, s.OpenLots("AAPL"), 1)

	sell, err := s.Execute("AAPL", model.ActionSell, 1, 110, day(20), 0, 0)
	require.NoError(t, err)
	assert.False(t, sell.IsOpen())
	assert.Equal(t, buy.ID, sell.ID)
	assert.InDelta(t, 10.0, sell.Net(), 1e-9)
	assert.InDelta(t, 10.0, sell.Gross(), 1e-9)
	assert.InDelta(t, 10.0, sell.Return(), 1e-9)
	assert.Equal(t, day(20).Sub(day(10)), sell.Duration)
	assert.Equal(t, 1010.0, s.Cash())
	assert.Empty(t, s.OpenLots("AAPL"))

	trades := s.Trades()
	require.Len(t, trades, 1)
	assert.Equal(t, model.ActionBuy, trades[0].Action)
}

func TestSimulator_FeesAndSlippage(t *testing.T) {
	s := NewSimulator(10000)

	buy, err := s.Submit(Order{Symbol: "BTC", Action: model.ActionBuy, Quantity: 2, Price: 100, Timestamp: day(0), Fees: 1, SlippageBps: 100})
	require.NoError(t, err)
	assert.InDelta(t, 101.0, buy.EntryPrice, 1e-9)
	assert.InDelta(t, 10000-202-1, s.Cash(), 1e-9)

	sell, err := s.Submit(Order{Symbol: "BTC", Action: model.ActionSell, Quantity: 2, Price: 202, Timestamp: day(1), Fees: 2, SlippageBps: 100, Reason: model.ExitTakeProfit})
	require.NoError(t, err)
	assert.InDelta(t, 200.0, *sell.ExitPrice, 1e-9)
	assert.InDelta(t, (200.0-101)*2, sell.Gross(), 1e-9)
	assert.InDelta(t, 198.0-2-1, sell.Net(), 1e-9)
	assert.InDelta(t, 3.0, sell.Fees, 1e-9)
	assert.InDelta(t, 198.0/202*100, sell.Return(), 1e-9)
	assert.Equal(t, model.ExitTakeProfit, sell.ExitReason)
	assert.InDelta(t, 10000+195.0, s.Cash(), 1e-9)
}

func TestSimulator_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *Simulator)
		order Order
	}{
		{
			name:  "insufficient cash",
			order: Order{Symbol: "X", Action: model.ActionBuy, Quantity: 11, Price: 10},
		},
		{
			name:  "fees push cost over cash",
			order: Order{Symbol: "X", Action: model.ActionBuy, Quantity: 10, Price: 10, Fees: 0.01},
		},
		{
			name:  "sell without position",
			order: Order{Symbol: "X", Action: model.ActionSell, Quantity: 1, Price: 10},
		},
		{
			name: "sell more than held",
			setup: func(s *Simulator) {
				_, _ = s.Execute("X", model.ActionBuy, 1, 10, day(0), 0, 0)
			},
			order: Order{Symbol: "X", Action: model.ActionSell, Quantity: 2, Price: 10},
		},
		{
			name: "sell fees larger than cash plus proceeds",
			setup: func(s *Simulator) {
				_, _ = s.Execute("X", model.ActionBuy, 5, 10, day(0), 50, 0)
			},
			order: Order{Symbol: "X", Action: model.ActionSell, Quantity: 5, Price: 10, Fees: 60},
		},
		{
			name:  "zero quantity",
			order: Order{Symbol: "X", Action: model.ActionBuy, Quantity: 0, Price: 10},
		},
		{
			name:  "unknown action",
			order: Order{Symbol: "X", Action: "short", Quantity: 1, Price: 10},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSimulator(100)
			if tt.setup != nil {
				tt.setup(s)
			}
			before := s.Trades()
			cash := s.Cash()

			_, err := s.Submit(tt.order)

			assert.ErrorIs(t, err, model.ErrOrderRejected)
			assert.Equal(t, before, s.Trades())
			assert.Equal(t, cash, s.Cash())
			assert.GreaterOrEqual(t, s.Cash(), 0.0)
		})
	}
}

func TestSimulator_MultipleLotsCloseMostRecentFirst(t *testing.T) {
	s := NewSimulator(1000)
	first, err := s.Execute("X", model.ActionBuy, 1, 100, day(0), 0, 0)
	require.NoError(t, err)
	second, err := s.Execute("X", model.ActionBuy, 1, 120, day(1), 0, 0)
	require.NoError(t, err)

	closed, err := s.Execute("X", model.ActionSell, 1, 110, day(2), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, second.ID, closed.ID)
	assert.InDelta(t, -10.0, closed.Net(), 1e-9)

	lots := s.OpenLots("X")
	require.Len(t, lots, 1)
	assert.Equal(t, first.ID, lots[0].ID)
}

func TestSimulator_PartialSellSplitsLot(t *testing.T) {
	s := NewSimulator(1000)
	_, err := s.Execute("X", model.ActionBuy, 4, 100, day(0), 4, 0)
	require.NoError(t, err)

	closed, err := s.Execute("X", model.ActionSell, 1, 110, day(1), 0.5, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, closed.Quantity)
	assert.InDelta(t, 1.0, closed.EntryFees, 1e-9)
	assert.InDelta(t, 10-0.5-1, closed.Net(), 1e-9)

	lots := s.OpenLots("X")
	require.Len(t, lots, 1)
	assert.Equal(t, 3.0, lots[0].Quantity)
	assert.InDelta(t, 3.0, lots[0].EntryFees, 1e-9)
	assert.Equal(t, 3.0, s.Position("X"))
}

func TestSimulator_RecordSnapshot(t *testing.T) {
	s := NewSimulator(1000)
	_, err := s.Execute("X", model.ActionBuy, 5, 100, day(0), 0, 0)
	require.NoError(t, err)

	snap := s.RecordSnapshot(day(0), map[string]float64{"X": 110})
	assert.Equal(t, 500.0, snap.Cash)
	assert.Equal(t, 550.0, snap.PositionValue)
	assert.Equal(t, 1050.0, snap.TotalValue)
	assert.InDelta(t, 5.0, snap.ReturnPct, 1e-9)

	snap = s.RecordSnapshot(day(1), nil)
	assert.Equal(t, 1050.0, snap.TotalValue, "missing mark keeps the last price")
	assert.Len(t, s.Snapshots(), 2)
	assert.Equal(t, 1100.0, s.TotalValue(map[string]float64{"X": 120}))
	assert.Len(t, s.Snapshots(), 2)
}

func TestSimulator_CloseSpecificLot(t *testing.T) {
	s := NewSimulator(1000)
	first, err := s.Execute("X", model.ActionBuy, 1, 100, day(0), 0, 0)
	require.NoError(t, err)
	_, err = s.Execute("X", model.ActionBuy, 1, 120, day(1), 0, 0)
	require.NoError(t, err)

	closed, err := s.Submit(Order{Symbol: "X", Action: model.ActionSell, Quantity: 1, Price: 90, Timestamp: day(2), LotID: first.ID, Reason: model.ExitStopLoss})
	require.NoError(t, err)
	assert.Equal(t, first.ID, closed.ID)
	assert.InDelta(t, -10.0, closed.Net(), 1e-9)

	_, err = s.Submit(Order{Symbol: "X", Action: model.ActionSell, Quantity: 1, Price: 90, Timestamp: day(2), LotID: first.ID})
	assert.ErrorIs(t, err, model.ErrOrderRejected)
}
