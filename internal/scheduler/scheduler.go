// Package scheduler runs the background refresh jobs that keep the cache
// warm: watchlist quotes on weekdays and the bulk listing feed weekly.
// Off-hours runs are nearly free because the cache policy keeps after-hours
// entries valid until the next open.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"TickerBoard/internal/collector"
	"TickerBoard/internal/watchlist"

	"github.com/robfig/cron/v3"
)

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Watchlist *watchlist.Manager
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler. ctx is the process context; it
// bounds the rate-limiter waits inside refresh runs.
func NewScheduler(ctx context.Context, col *collector.Collector, wl *watchlist.Manager) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Watchlist: wl,
		Ctx:       ctx,
	}
}

// RegisterAll registers the quote and listing refresh tasks.
func (s *Scheduler) RegisterAll(quotesCron, listingsCron string) error {
	if _, err := s.Cron.AddFunc(quotesCron, s.refreshQuotes); err != nil {
		return fmt.Errorf("register quotes refresh: %w", err)
	}
	if _, err := s.Cron.AddFunc(listingsCron, s.refreshListings); err != nil {
		return fmt.Errorf("register listings refresh: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunQuotesNow executes the quote refresh immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunQuotesNow() {
	s.refreshQuotes()
}

func (s *Scheduler) refreshQuotes() {
	symbols := s.Watchlist.Symbols()
	if len(symbols) == 0 {
		return
	}
	log.Printf("[INFO] refreshing %d watchlist quotes", len(symbols))
	quotes, err := s.Collector.Quotes(s.Ctx, symbols, func(p collector.Progress) {
		log.Printf("[INFO] refresh %d/%d: %s", p.Loaded+1, p.Total, p.Symbol)
	}, true)
	if err != nil {
		log.Printf("[ERROR] quote refresh: %v", err)
		return
	}
	log.Printf("[INFO] quote refresh done: %d/%d loaded", len(quotes), len(symbols))
}

func (s *Scheduler) refreshListings() {
	log.Println("[INFO] refreshing listing feed")
	listings, err := s.Collector.Listings(s.Ctx, true)
	if err != nil {
		log.Printf("[ERROR] listing refresh: %v", err)
		return
	}
	log.Printf("[INFO] listing refresh done: %d instruments", len(listings))
}
