package common

const (
	KEY_BACKTEST_RESULT        = "backtest:%s"
	KEY_BACKTEST_RESULT_PREFIX = "backtest:"
)

const (
	EXCHANGE_BINANCE = "BINANCE"
	EXCHANGE_BYBIT   = "BYBIT"
	EXCHANGE_IDX     = "IDX"
	EXCHANGE_NASDAQ  = "NASDAQ"
)

// GetExchangeList returns the exchanges a strategy asset selection is checked against.
func GetExchangeList() []string {
	return []string{
		EXCHANGE_BINANCE,
		EXCHANGE_BYBIT,
		EXCHANGE_IDX,
		EXCHANGE_NASDAQ,
	}
}
