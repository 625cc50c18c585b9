package collector

import (
	"context"

	"TickerBoard/internal/model"
)

// Fetcher defines the raw market-data provider boundary. Implementations
// issue one provider request per call, normalize the payload, and classify
// provider-signaled failures into *Error values. They never consult the
// cache or the rate limiter; that is the Collector's job.
type Fetcher interface {
	FetchQuote(ctx context.Context, symbol string) (*model.Quote, error)
	FetchDailySeries(ctx context.Context, symbol string) (*model.BarSeries, error)
	FetchWeeklySeries(ctx context.Context, symbol string) (*model.BarSeries, error)
	FetchMonthlySeries(ctx context.Context, symbol string) (*model.BarSeries, error)
	FetchListings(ctx context.Context) ([]model.Listing, error)

	// Ready reports whether the provider is usable at all (credentials
	// present and not a placeholder). Checked before any network or
	// rate-limiter action.
	Ready() error
	Name() string
}
