package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"TickerBoard/internal/api"
	"TickerBoard/internal/cache"
	"TickerBoard/internal/collector"
	"TickerBoard/internal/config"
	"TickerBoard/internal/ratelimit"
	"TickerBoard/internal/scheduler"
	"TickerBoard/internal/watchlist"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] TickerBoard starting...")

	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] loaded .env")
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init persistent cache store
	store, err := cache.Open(cfg.Cache.SQLitePath)
	if err != nil {
		log.Fatalf("[FATAL] open cache store: %v", err)
	}
	defer store.Close()
	log.Printf("[INFO] cache store opened: %s", cfg.Cache.SQLitePath)

	// Init rate limiter
	minInterval := time.Duration(cfg.RateLimit.MinIntervalMs) * time.Millisecond
	var limiter *ratelimit.Limiter
	if cfg.RateLimit.PerMinute > 0 {
		limiter = ratelimit.NewStrict(minInterval, cfg.RateLimit.PerMinute)
	} else {
		limiter = ratelimit.New(minInterval)
	}
	limiter.OnWait = func(wait time.Duration) {
		log.Printf("[INFO] rate limiter waiting %s", wait)
	}

	// Init provider and collector
	fetcher := collector.NewAlphaVantageFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	log.Printf("[INFO] data source: %s", fetcher.Name())
	if err := fetcher.Ready(); err != nil {
		// Not fatal: cached data stays servable without a key.
		log.Printf("[WARN] %v", err)
	}
	col := collector.New(fetcher, store, limiter)

	// Init watchlist manager
	wl, err := watchlist.NewManager(cfg.Watchlist.StateFile, cfg.Watchlist.DefaultSymbols)
	if err != nil {
		log.Fatalf("[FATAL] init watchlist: %v", err)
	}
	log.Printf("[INFO] watching %d symbols", len(wl.Symbols()))

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, col, wl)
	if err := sched.RegisterAll(cfg.Schedule.QuotesCron, cfg.Schedule.ListingsCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Optional: warm the cache immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, refreshing quotes now")
		go sched.RunQuotesNow()
	}

	// HTTP API
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	h := server.Default(server.WithHostPorts(addr))
	h.OnShutdown = append(h.OnShutdown, func(context.Context) { cancel() })
	api.RegisterRoutes(h, ctx, col, wl)

	log.Printf("[INFO] TickerBoard serving on %s", addr)
	h.Spin()

	log.Println("[INFO] TickerBoard stopped")
}
