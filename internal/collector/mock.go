package collector

import (
	"context"

	"TickerBoard/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Quotes   map[string]*model.Quote
	Daily    map[string]*model.BarSeries
	Weekly   map[string]*model.BarSeries
	Monthly  map[string]*model.BarSeries
	Listings []model.Listing
	Errs     map[string]error // per-symbol forced failure
	ReadyErr error

	Calls int // total provider calls issued
}

func (m *MockFetcher) Name() string { return "mock" }
func (m *MockFetcher) Ready() error { return m.ReadyErr }

func (m *MockFetcher) FetchQuote(_ context.Context, symbol string) (*model.Quote, error) {
	m.Calls++
	if err := m.Errs[symbol]; err != nil {
		return nil, err
	}
	if q, ok := m.Quotes[symbol]; ok {
		return q, nil
	}
	return nil, &Error{Kind: KindNoData, Symbol: symbol, Message: "no quote data for symbol"}
}

func (m *MockFetcher) FetchDailySeries(_ context.Context, symbol string) (*model.BarSeries, error) {
	return m.series(m.Daily, symbol)
}

func (m *MockFetcher) FetchWeeklySeries(_ context.Context, symbol string) (*model.BarSeries, error) {
	return m.series(m.Weekly, symbol)
}

func (m *MockFetcher) FetchMonthlySeries(_ context.Context, symbol string) (*model.BarSeries, error) {
	return m.series(m.Monthly, symbol)
}

func (m *MockFetcher) series(src map[string]*model.BarSeries, symbol string) (*model.BarSeries, error) {
	m.Calls++
	if err := m.Errs[symbol]; err != nil {
		return nil, err
	}
	if s, ok := src[symbol]; ok {
		return s, nil
	}
	return nil, &Error{Kind: KindNoData, Symbol: symbol, Message: "no bars for symbol"}
}

func (m *MockFetcher) FetchListings(_ context.Context) ([]model.Listing, error) {
	m.Calls++
	if m.Listings == nil {
		return nil, &Error{Kind: KindNoData, Message: "empty listing feed"}
	}
	return m.Listings, nil
}
