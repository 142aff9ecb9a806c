package backtest

import (
	"golang-backtest/internal/dto"
	"golang-backtest/internal/model"

	"github.com/shopspring/decimal"
)

const quantityPrecision = 8

// feeAmount charges bps on the quoted notional.
func feeAmount(qty, price, bps float64) float64 {
	return qty * price * bps / 10000
}

// positionSize returns the quantity to buy at price given the available cash. The
// result always leaves room for slippage and fees, is capped by the maximum
// position size and is truncated to quantityPrecision decimals.
func positionSize(exec dto.ExecutionParameters, risk dto.RiskManagement, price, cash float64) float64 {
	if price <= 0 || cash <= 0 {
		return 0
	}
	unitCost := price * (1 + exec.SlippageBps/10000 + exec.FeesBps/10000)

	maxPct := risk.MaxPositionSizePct
	if maxPct <= 0 {
		maxPct = 100
	}
	maxQty := cash * maxPct / 100 / unitCost

	var qty float64
	switch exec.QuantityType {
	case dto.QuantityFixed:
		qty = exec.QuantityValue
	case dto.QuantityRiskBased:
		stopDistance := price * risk.StopLossPct / 100
		if stopDistance <= 0 {
			return 0
		}
		qty = cash * exec.QuantityValue / 100 / stopDistance
	default:
		qty = cash * exec.QuantityValue / 100 / unitCost
	}
	qty = min(qty, maxQty)
	if qty <= 0 {
		return 0
	}
	return decimal.NewFromFloat(qty).Truncate(quantityPrecision).InexactFloat64()
}

// riskExit checks the stop-loss, take-profit and trailing-stop rules of an open
// lot against the current close. peak is the highest close seen since entry.
func riskExit(risk dto.RiskManagement, lot model.Trade, price, peak float64) (model.ExitReason, bool) {
	if lot.EntryPrice <= 0 {
		return "", false
	}
	changePct := (price - lot.EntryPrice) / lot.EntryPrice * 100

	if risk.StopLossPct > 0 && changePct <= -risk.StopLossPct {
		return model.ExitStopLoss, true
	}
	if risk.TakeProfitPct > 0 && changePct >= risk.TakeProfitPct {
		return model.ExitTakeProfit, true
	}
	if risk.TrailingStopPct > 0 && peak > 0 && price <= peak*(1-risk.TrailingStopPct/100) {
		return model.ExitTrailingStop, true
	}
	return "", false
}
