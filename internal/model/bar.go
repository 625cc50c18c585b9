package model

import "github.com/shopspring/decimal"

// Bar represents a single candlestick for one period (day/week/month).
type Bar struct {
	Date      string          `json:"date"` // YYYY-MM-DD
	Timestamp int64           `json:"timestamp"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	Volume    int64           `json:"volume"`
}

// BarSeries holds bars for one symbol in ascending date order.
type BarSeries struct {
	Symbol string `json:"symbol"`
	Bars   []Bar  `json:"bars"`
}

// Adjust scales open/high/low by adjustedClose/close and replaces close with
// the adjusted close, so all four price fields stay consistent across splits
// and dividends. A zero raw close leaves the bar untouched.
func (b Bar) Adjust(adjustedClose decimal.Decimal) Bar {
	if b.Close.IsZero() {
		return b
	}
	ratio := adjustedClose.Div(b.Close)
	b.Open = b.Open.Mul(ratio)
	b.High = b.High.Mul(ratio)
	b.Low = b.Low.Mul(ratio)
	b.Close = adjustedClose
	return b
}
