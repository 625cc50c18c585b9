// Package collector orchestrates quote and series fetching: it serves from
// the persistent cache while entries are fresh, throttles everything else
// through the rate limiter, and writes successful responses back through.
package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"TickerBoard/internal/cache"
	"TickerBoard/internal/model"
	"TickerBoard/internal/ratelimit"
)

// Collector sits between callers and the provider. All state it touches
// (store, limiter) is injected so tests can build isolated instances.
type Collector struct {
	fetcher Fetcher
	store   *cache.Store
	limiter *ratelimit.Limiter
}

func New(fetcher Fetcher, store *cache.Store, limiter *ratelimit.Limiter) *Collector {
	return &Collector{fetcher: fetcher, store: store, limiter: limiter}
}

// Quote returns the quote for symbol, serving the cached copy while it is
// inside its validity window. A forced refresh (useCache=false) still writes
// the fresh quote through so later cached reads see it. The cache is never
// touched on a failure path.
func (c *Collector) Quote(ctx context.Context, symbol string, useCache bool) (*model.Quote, error) {
	key := cache.Key(cache.CategoryQuote, symbol)
	if useCache {
		if raw, ok := c.store.Get(key, cache.CategoryQuote); ok {
			var q model.Quote
			if err := json.Unmarshal(raw, &q); err == nil {
				return &q, nil
			}
			log.Printf("[WARN] corrupt cache entry %s, refetching", key)
		}
	}
	if err := c.fetcher.Ready(); err != nil {
		return nil, err
	}
	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	q, err := c.fetcher.FetchQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}
	c.writeThrough(key, q)
	return q, nil
}

// DailySeries returns daily bars for symbol, cached until the trading day
// closes.
func (c *Collector) DailySeries(ctx context.Context, symbol string, useCache bool) (*model.BarSeries, error) {
	return c.series(ctx, symbol, cache.CategoryDailySeries, c.fetcher.FetchDailySeries, useCache)
}

// WeeklySeries returns split/dividend-adjusted weekly bars, cached 7 days.
func (c *Collector) WeeklySeries(ctx context.Context, symbol string, useCache bool) (*model.BarSeries, error) {
	return c.series(ctx, symbol, cache.CategoryWeeklySeries, c.fetcher.FetchWeeklySeries, useCache)
}

// MonthlySeries returns split/dividend-adjusted monthly bars, cached 7 days.
func (c *Collector) MonthlySeries(ctx context.Context, symbol string, useCache bool) (*model.BarSeries, error) {
	return c.series(ctx, symbol, cache.CategoryMonthlySeries, c.fetcher.FetchMonthlySeries, useCache)
}

func (c *Collector) series(ctx context.Context, symbol string, cat cache.Category, fetch func(context.Context, string) (*model.BarSeries, error), useCache bool) (*model.BarSeries, error) {
	key := cache.Key(cat, symbol)
	if useCache {
		if raw, ok := c.store.Get(key, cat); ok {
			var s model.BarSeries
			if err := json.Unmarshal(raw, &s); err == nil {
				return &s, nil
			}
			log.Printf("[WARN] corrupt cache entry %s, refetching", key)
		}
	}
	if err := c.fetcher.Ready(); err != nil {
		return nil, err
	}
	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	s, err := fetch(ctx, symbol)
	if err != nil {
		return nil, err
	}
	c.writeThrough(key, s)
	return s, nil
}

// Listings returns the filtered bulk listing feed, cached 30 days.
func (c *Collector) Listings(ctx context.Context, useCache bool) ([]model.Listing, error) {
	key := cache.Key(cache.CategoryListings, "")
	if useCache {
		if raw, ok := c.store.Get(key, cache.CategoryListings); ok {
			var ls []model.Listing
			if err := json.Unmarshal(raw, &ls); err == nil {
				return ls, nil
			}
			log.Printf("[WARN] corrupt cache entry %s, refetching", key)
		}
	}
	if err := c.fetcher.Ready(); err != nil {
		return nil, err
	}
	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	ls, err := c.fetcher.FetchListings(ctx)
	if err != nil {
		return nil, err
	}
	c.writeThrough(key, ls)
	return ls, nil
}

func (c *Collector) writeThrough(key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		log.Printf("[WARN] marshal cache entry %s: %v", key, err)
		return
	}
	c.store.Set(key, raw)
}

// ClearCache drops every persisted entry. Wired to the dashboard's
// cache-clear action.
func (c *Collector) ClearCache() { c.store.Clear() }

// Progress is one step of a batch fetch, reported before each symbol.
type Progress struct {
	Status string `json:"status"` // "loading"
	Symbol string `json:"symbol,omitempty"`
	Loaded int    `json:"loaded"`
	Total  int    `json:"total"`
}

// ProgressFunc observes batch progress. Called synchronously, in order.
type ProgressFunc func(Progress)

// Quotes fetches symbols in input order, tolerating per-symbol failures.
// The input order is significant: it drives both the progress callbacks and
// the row order of the result. A dashboard with 9 of 10 rows is more useful
// than an all-or-nothing failure, so an error is returned only when every
// symbol failed, wrapping the first recorded failure.
func (c *Collector) Quotes(ctx context.Context, symbols []string, onProgress ProgressFunc, useCache bool) ([]model.Quote, error) {
	quotes := make([]model.Quote, 0, len(symbols))
	var failed []string
	var firstErr error

	for i, symbol := range symbols {
		if onProgress != nil {
			onProgress(Progress{Status: "loading", Symbol: symbol, Loaded: i, Total: len(symbols)})
		}
		q, err := c.Quote(ctx, symbol, useCache)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			failed = append(failed, symbol)
			log.Printf("[WARN] fetch quote %s: %v", symbol, err)
			continue
		}
		quotes = append(quotes, *q)
	}

	if len(quotes) == 0 && firstErr != nil {
		return nil, fmt.Errorf("all %d symbols failed: %w", len(symbols), firstErr)
	}
	if len(failed) > 0 {
		log.Printf("[WARN] %d of %d symbols failed: %v", len(failed), len(symbols), failed)
	}
	return quotes, nil
}
