package model

import "github.com/shopspring/decimal"

// Quote is a normalized real-time quote for a single symbol.
type Quote struct {
	Symbol           string          `json:"symbol"`
	Price            decimal.Decimal `json:"price"`
	Change           decimal.Decimal `json:"change"`
	ChangePercent    decimal.Decimal `json:"change_percent"`
	PreviousClose    decimal.Decimal `json:"previous_close"`
	Open             decimal.Decimal `json:"open"`
	High             decimal.Decimal `json:"high"`
	Low              decimal.Decimal `json:"low"`
	Volume           int64           `json:"volume"`
	LatestTradingDay string          `json:"latest_trading_day,omitempty"`
}
