// Package api exposes the dashboard's JSON API. The browser UI is a pure
// consumer: every freshness and quota decision stays in the collector.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"TickerBoard/internal/collector"
	"TickerBoard/internal/watchlist"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
)

type addSymbolRequest struct {
	Symbol string `json:"symbol"`
}

// RegisterRoutes wires all dashboard endpoints. procCtx is the process
// context: collector calls run against it rather than the request context,
// so an abandoned browser tab cannot cancel a rate-limiter wait that the
// quota bookkeeping depends on.
func RegisterRoutes(h *server.Hertz, procCtx context.Context, col *collector.Collector, wl *watchlist.Manager) {
	h.GET("/healthz", func(_ context.Context, c *app.RequestContext) {
		c.JSON(http.StatusOK, map[string]bool{"ok": true})
	})

	h.GET("/api/v1/quotes", func(_ context.Context, c *app.RequestContext) {
		symbols := wl.Symbols()
		if raw := c.Query("symbols"); raw != "" {
			symbols = splitSymbols(raw)
		}
		if len(symbols) == 0 {
			c.JSON(http.StatusOK, map[string]any{"ok": true, "quotes": []any{}, "failed": []string{}})
			return
		}

		quotes, err := col.Quotes(procCtx, symbols, nil, !forceRefresh(c))
		if err != nil {
			writeError(c, err)
			return
		}
		loaded := make(map[string]bool, len(quotes))
		for _, q := range quotes {
			loaded[q.Symbol] = true
		}
		failed := make([]string, 0)
		for _, s := range symbols {
			if !loaded[s] {
				failed = append(failed, s)
			}
		}
		c.JSON(http.StatusOK, map[string]any{"ok": true, "quotes": quotes, "failed": failed})
	})

	h.GET("/api/v1/quote", func(_ context.Context, c *app.RequestContext) {
		symbol := strings.ToUpper(c.Query("symbol"))
		if !watchlist.ValidSymbol(symbol) {
			c.JSON(http.StatusBadRequest, map[string]any{"ok": false, "error": "invalid symbol"})
			return
		}
		q, err := col.Quote(procCtx, symbol, !forceRefresh(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, map[string]any{"ok": true, "quote": q})
	})

	h.GET("/api/v1/series", func(_ context.Context, c *app.RequestContext) {
		symbol := strings.ToUpper(c.Query("symbol"))
		if !watchlist.ValidSymbol(symbol) {
			c.JSON(http.StatusBadRequest, map[string]any{"ok": false, "error": "invalid symbol"})
			return
		}
		useCache := !forceRefresh(c)

		var fetch func(context.Context, string, bool) (any, error)
		switch c.Query("interval") {
		case "", "daily":
			fetch = func(ctx context.Context, s string, uc bool) (any, error) { return col.DailySeries(ctx, s, uc) }
		case "weekly":
			fetch = func(ctx context.Context, s string, uc bool) (any, error) { return col.WeeklySeries(ctx, s, uc) }
		case "monthly":
			fetch = func(ctx context.Context, s string, uc bool) (any, error) { return col.MonthlySeries(ctx, s, uc) }
		default:
			c.JSON(http.StatusBadRequest, map[string]any{"ok": false, "error": "interval must be daily, weekly or monthly"})
			return
		}

		series, err := fetch(procCtx, symbol, useCache)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, map[string]any{"ok": true, "series": series})
	})

	h.GET("/api/v1/listings", func(_ context.Context, c *app.RequestContext) {
		listings, err := col.Listings(procCtx, !forceRefresh(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, map[string]any{"ok": true, "listings": listings})
	})

	h.GET("/api/v1/watchlist", func(_ context.Context, c *app.RequestContext) {
		c.JSON(http.StatusOK, map[string]any{"ok": true, "symbols": wl.Symbols()})
	})

	h.POST("/api/v1/watchlist", func(_ context.Context, c *app.RequestContext) {
		var req addSymbolRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, map[string]any{"ok": false, "error": "invalid json body"})
			return
		}
		if err := wl.Add(req.Symbol); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, watchlist.ErrInvalidSymbol) {
				status = http.StatusBadRequest
			}
			c.JSON(status, map[string]any{"ok": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, map[string]any{"ok": true, "symbols": wl.Symbols()})
	})

	h.DELETE("/api/v1/watchlist/:symbol", func(_ context.Context, c *app.RequestContext) {
		if err := wl.Remove(c.Param("symbol")); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, watchlist.ErrNotWatched) {
				status = http.StatusNotFound
			}
			c.JSON(status, map[string]any{"ok": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, map[string]any{"ok": true, "symbols": wl.Symbols()})
	})

	h.POST("/api/v1/cache/clear", func(_ context.Context, c *app.RequestContext) {
		col.ClearCache()
		c.JSON(http.StatusOK, map[string]bool{"ok": true})
	})
}

func forceRefresh(c *app.RequestContext) bool {
	return c.Query("refresh") == "true"
}

func splitSymbols(raw string) []string {
	parts := strings.Split(raw, ",")
	symbols := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if watchlist.ValidSymbol(p) {
			symbols = append(symbols, p)
		}
	}
	return symbols
}

// writeError maps a collector error kind to an HTTP status and a hint the
// UI can show. Quota exhaustion gets guidance distinct from the per-minute
// throttle: cached reads cost nothing, so stale rows remain servable even
// when the daily budget is spent.
func writeError(c *app.RequestContext, err error) {
	status := http.StatusBadGateway
	hint := ""
	if kind, ok := collector.KindOf(err); ok {
		switch kind {
		case collector.KindConfiguration:
			status = http.StatusInternalServerError
			hint = "set data_source.api_key or ALPHAVANTAGE_API_KEY"
		case collector.KindQuotaExhausted:
			status = http.StatusTooManyRequests
			hint = "daily call budget is spent; cached data is still served, try again tomorrow"
		case collector.KindThrottled:
			status = http.StatusTooManyRequests
			hint = "provider throttled the request; wait 60 seconds and retry"
		case collector.KindInvalidSymbol, collector.KindNoData:
			status = http.StatusNotFound
		case collector.KindTransport, collector.KindMalformed:
			status = http.StatusBadGateway
		}
	}
	body := map[string]any{"ok": false, "error": err.Error()}
	if hint != "" {
		body["hint"] = hint
	}
	c.JSON(status, body)
}
