package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"TickerBoard/internal/calendar"
)

// 2024-03-06 is a Wednesday; all instants below are America/New_York wall
// clock expressed in UTC (EST, UTC-5).
var (
	midSession = time.Date(2024, time.March, 6, 17, 0, 0, 0, time.UTC)  // 12:00 ET
	afterHours = time.Date(2024, time.March, 6, 23, 0, 0, 0, time.UTC)  // 18:00 ET
	saturday   = time.Date(2024, time.March, 9, 17, 0, 0, 0, time.UTC)  // 12:00 ET Sat
	nearOpen   = time.Date(2024, time.March, 6, 14, 29, 30, 0, time.UTC) // 09:29:30 ET
)

func TestValidity_QuoteDuringSession(t *testing.T) {
	assert.Equal(t, 2*time.Minute, Validity(CategoryQuote, midSession))
}

func TestValidity_QuoteAfterHours(t *testing.T) {
	// Holds until the next open, so trading never resumes on a stale quote.
	want := calendar.NextOpen(afterHours).Sub(afterHours)
	assert.Equal(t, want, Validity(CategoryQuote, afterHours))
	assert.Greater(t, want, time.Minute)
}

func TestValidity_QuoteWeekend(t *testing.T) {
	want := calendar.NextOpen(saturday).Sub(saturday)
	assert.Equal(t, want, Validity(CategoryQuote, saturday))
}

func TestValidity_QuoteClampedNearOpen(t *testing.T) {
	// 30s before the bell the gap to next open is under the floor.
	assert.Equal(t, time.Minute, Validity(CategoryQuote, nearOpen))
}

func TestValidity_DailySeries(t *testing.T) {
	want := calendar.NextClose(midSession).Sub(midSession)
	assert.Equal(t, want, Validity(CategoryDailySeries, midSession))
}

func TestValidity_FixedWindows(t *testing.T) {
	assert.Equal(t, 7*24*time.Hour, Validity(CategoryWeeklySeries, midSession))
	assert.Equal(t, 7*24*time.Hour, Validity(CategoryWeeklySeries, saturday))
	assert.Equal(t, 7*24*time.Hour, Validity(CategoryMonthlySeries, midSession))
	assert.Equal(t, 30*24*time.Hour, Validity(CategoryListings, midSession))
	assert.Equal(t, 7*24*time.Hour, Validity(Category(99), midSession))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "tickerboard_quote_AAPL", Key(CategoryQuote, "AAPL"))
	assert.Equal(t, "tickerboard_daily_BRK.B", Key(CategoryDailySeries, "BRK.B"))
	assert.Equal(t, "tickerboard_listings", Key(CategoryListings, ""))
}
