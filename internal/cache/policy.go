package cache

import (
	"time"

	"TickerBoard/internal/calendar"
)

// Category tags what kind of payload a cache entry holds. The validity
// window of an entry depends on its category, not on the stored bytes.
type Category int

const (
	CategoryQuote Category = iota
	CategoryDailySeries
	CategoryWeeklySeries
	CategoryMonthlySeries
	CategoryListings
)

func (c Category) String() string {
	switch c {
	case CategoryQuote:
		return "quote"
	case CategoryDailySeries:
		return "daily"
	case CategoryWeeklySeries:
		return "weekly"
	case CategoryMonthlySeries:
		return "monthly"
	case CategoryListings:
		return "listings"
	default:
		return "unknown"
	}
}

const (
	minValidity      = time.Minute
	quoteOpenWindow  = 2 * time.Minute
	weeklyValidity   = 7 * 24 * time.Hour
	listingsValidity = 30 * 24 * time.Hour
	defaultValidity  = 7 * 24 * time.Hour
)

// Validity returns how long an entry captured at capturedAt stays servable.
//
// Quotes refresh every two minutes while the session is open; a quote taken
// after hours holds until the next open, so a pre-close price is never shown
// as fresh once trading resumes. Daily bars are provisional until that
// trading day closes. Weekly/monthly bars and the listing feed move slowly
// enough for fixed windows. Every computed window is floored at one minute
// to absorb clock skew.
func Validity(cat Category, capturedAt time.Time) time.Duration {
	switch cat {
	case CategoryQuote:
		if calendar.IsOpen(capturedAt) {
			return quoteOpenWindow
		}
		return clamp(calendar.NextOpen(capturedAt).Sub(capturedAt))
	case CategoryDailySeries:
		return clamp(calendar.NextClose(capturedAt).Sub(capturedAt))
	case CategoryWeeklySeries, CategoryMonthlySeries:
		return weeklyValidity
	case CategoryListings:
		return listingsValidity
	default:
		// Fail safe: favor staleness over request amplification.
		return defaultValidity
	}
}

func clamp(d time.Duration) time.Duration {
	if d < minValidity {
		return minValidity
	}
	return d
}
