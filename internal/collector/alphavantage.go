package collector

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"TickerBoard/internal/model"
)

// AlphaVantageFetcher implements Fetcher against the Alpha Vantage REST API.
type AlphaVantageFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

const DefaultBaseURL = "https://www.alphavantage.co"

// placeholder values shipped in sample configs; treated the same as a
// missing key.
var placeholderKeys = map[string]struct{}{
	"":             {},
	"demo":         {},
	"YOUR_API_KEY": {},
	"changeme":     {},
}

// NewAlphaVantageFetcher creates a fetcher with optional proxy support.
func NewAlphaVantageFetcher(baseURL, apiKey, proxyURL string) *AlphaVantageFetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &AlphaVantageFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *AlphaVantageFetcher) Name() string { return "alphavantage" }

func (f *AlphaVantageFetcher) Ready() error {
	if _, bad := placeholderKeys[f.APIKey]; bad {
		return &Error{Kind: KindConfiguration, Message: "API key is missing or a placeholder; set data_source.api_key"}
	}
	return nil
}

func (f *AlphaVantageFetcher) get(ctx context.Context, params url.Values) ([]byte, error) {
	params.Set("apikey", f.APIKey)
	endpoint := f.BaseURL + "/query?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "build request", Err: err}
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: redact(err.Error(), f.APIKey)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "read body", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Kind: KindTransport, Message: fmt.Sprintf("status %d: %s", resp.StatusCode, redact(string(body), f.APIKey))}
	}
	return body, nil
}

// classify inspects a 200 body for the provider's three error envelopes:
// "Note" (per-minute throttle), "Information" (daily quota spent) and
// "Error Message" (bad symbol / bad call). The Note/Information split is
// corrected by the message text when the provider mixes them up.
func (f *AlphaVantageFetcher) classify(symbol string, body []byte) error {
	var env struct {
		Note         string `json:"Note"`
		Information  string `json:"Information"`
		ErrorMessage string `json:"Error Message"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil // not a JSON envelope; let the caller parse it
	}
	if env.ErrorMessage != "" {
		return &Error{Kind: KindInvalidSymbol, Symbol: symbol, Message: redact(env.ErrorMessage, f.APIKey)}
	}
	if env.Note != "" {
		kind := KindThrottled
		if mentionsDailyLimit(env.Note) {
			kind = KindQuotaExhausted
		}
		return &Error{Kind: kind, Symbol: symbol, Message: redact(env.Note, f.APIKey)}
	}
	if env.Information != "" {
		kind := KindQuotaExhausted
		if mentionsMinuteLimit(env.Information) && !mentionsDailyLimit(env.Information) {
			kind = KindThrottled
		}
		return &Error{Kind: kind, Symbol: symbol, Message: redact(env.Information, f.APIKey)}
	}
	return nil
}

func mentionsDailyLimit(msg string) bool {
	m := strings.ToLower(msg)
	return strings.Contains(m, "per day") || strings.Contains(m, "daily")
}

func mentionsMinuteLimit(msg string) bool {
	m := strings.ToLower(msg)
	return strings.Contains(m, "per minute") || strings.Contains(m, "per min")
}

// FetchQuote retrieves and normalizes a GLOBAL_QUOTE payload.
func (f *AlphaVantageFetcher) FetchQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	params := url.Values{}
	params.Set("function", "GLOBAL_QUOTE")
	params.Set("symbol", symbol)
	body, err := f.get(ctx, params)
	if err != nil {
		return nil, err
	}
	if err := f.classify(symbol, body); err != nil {
		return nil, err
	}

	var payload struct {
		GlobalQuote map[string]string `json:"Global Quote"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.GlobalQuote == nil {
		return nil, &Error{Kind: KindMalformed, Symbol: symbol, Message: "unrecognized quote payload", Err: err}
	}
	fields := payload.GlobalQuote
	if len(fields) == 0 || fields["05. price"] == "" {
		// The provider answers unknown symbols with an empty object.
		return nil, &Error{Kind: KindNoData, Symbol: symbol, Message: "no quote data for symbol"}
	}

	q := &model.Quote{
		Symbol:           symbol,
		LatestTradingDay: fields["07. latest trading day"],
	}
	var perr error
	q.Price, perr = parsePrice(fields, "05. price", perr)
	q.Open, perr = parsePrice(fields, "02. open", perr)
	q.High, perr = parsePrice(fields, "03. high", perr)
	q.Low, perr = parsePrice(fields, "04. low", perr)
	q.PreviousClose, perr = parsePrice(fields, "08. previous close", perr)
	q.Change, perr = parsePrice(fields, "09. change", perr)
	if perr != nil {
		return nil, &Error{Kind: KindMalformed, Symbol: symbol, Message: "non-numeric quote field", Err: perr}
	}

	pct := strings.TrimSuffix(fields["10. change percent"], "%")
	d, err := decimal.NewFromString(pct)
	if err != nil {
		return nil, &Error{Kind: KindMalformed, Symbol: symbol, Message: "non-numeric quote field", Err: fmt.Errorf("field %q: %w", "10. change percent", err)}
	}
	q.ChangePercent = d
	if v := fields["06. volume"]; v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			q.Volume = n
		}
	}
	return q, nil
}

func parsePrice(fields map[string]string, key string, prev error) (decimal.Decimal, error) {
	if prev != nil {
		return decimal.Zero, prev
	}
	raw, ok := fields[key]
	if !ok || raw == "" {
		return decimal.Zero, fmt.Errorf("missing field %q", key)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("field %q: %w", key, err)
	}
	return d, nil
}

func (f *AlphaVantageFetcher) FetchDailySeries(ctx context.Context, symbol string) (*model.BarSeries, error) {
	return f.fetchSeries(ctx, symbol, "TIME_SERIES_DAILY", "Time Series (Daily)", false)
}

func (f *AlphaVantageFetcher) FetchWeeklySeries(ctx context.Context, symbol string) (*model.BarSeries, error) {
	return f.fetchSeries(ctx, symbol, "TIME_SERIES_WEEKLY_ADJUSTED", "Weekly Adjusted Time Series", true)
}

func (f *AlphaVantageFetcher) FetchMonthlySeries(ctx context.Context, symbol string) (*model.BarSeries, error) {
	return f.fetchSeries(ctx, symbol, "TIME_SERIES_MONTHLY_ADJUSTED", "Monthly Adjusted Time Series", true)
}

func (f *AlphaVantageFetcher) fetchSeries(ctx context.Context, symbol, function, seriesKey string, adjusted bool) (*model.BarSeries, error) {
	params := url.Values{}
	params.Set("function", function)
	params.Set("symbol", symbol)
	if function == "TIME_SERIES_DAILY" {
		params.Set("outputsize", "compact")
	}
	body, err := f.get(ctx, params)
	if err != nil {
		return nil, err
	}
	if err := f.classify(symbol, body); err != nil {
		return nil, err
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &Error{Kind: KindMalformed, Symbol: symbol, Message: "unrecognized series payload", Err: err}
	}
	rawSeries, ok := payload[seriesKey]
	if !ok {
		return nil, &Error{Kind: KindMalformed, Symbol: symbol, Message: fmt.Sprintf("response has no %q section", seriesKey)}
	}
	var entries map[string]map[string]string
	if err := json.Unmarshal(rawSeries, &entries); err != nil {
		return nil, &Error{Kind: KindMalformed, Symbol: symbol, Message: "unrecognized series payload", Err: err}
	}
	if len(entries) == 0 {
		return nil, &Error{Kind: KindNoData, Symbol: symbol, Message: "no bars for symbol"}
	}

	dates := make([]string, 0, len(entries))
	for d := range entries {
		dates = append(dates, d)
	}
	sort.Strings(dates) // YYYY-MM-DD sorts chronologically

	series := &model.BarSeries{Symbol: symbol, Bars: make([]model.Bar, 0, len(dates))}
	for _, date := range dates {
		fields := entries[date]
		bar, err := parseBar(date, fields)
		if err != nil {
			return nil, &Error{Kind: KindMalformed, Symbol: symbol, Message: "bad bar at " + date, Err: err}
		}
		if adjusted {
			adjClose, err := decimal.NewFromString(fields["5. adjusted close"])
			if err != nil {
				return nil, &Error{Kind: KindMalformed, Symbol: symbol, Message: "bad adjusted close at " + date, Err: err}
			}
			// Adjusted feeds keep the volume in slot 6.
			v, err := strconv.ParseInt(fields["6. volume"], 10, 64)
			if err != nil || v < 0 {
				return nil, &Error{Kind: KindMalformed, Symbol: symbol, Message: "bad volume at " + date, Err: err}
			}
			bar.Volume = v
			bar = bar.Adjust(adjClose)
		}
		series.Bars = append(series.Bars, bar)
	}
	return series, nil
}

func parseBar(date string, fields map[string]string) (model.Bar, error) {
	var bar model.Bar
	var perr error
	bar.Open, perr = parsePrice(fields, "1. open", perr)
	bar.High, perr = parsePrice(fields, "2. high", perr)
	bar.Low, perr = parsePrice(fields, "3. low", perr)
	bar.Close, perr = parsePrice(fields, "4. close", perr)
	if perr != nil {
		return bar, perr
	}
	if v := fields["5. volume"]; v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			return bar, fmt.Errorf("bad volume %q", v)
		}
		bar.Volume = n
	}
	ts, err := time.Parse("2006-01-02", date)
	if err != nil {
		return bar, fmt.Errorf("bad date %q: %w", date, err)
	}
	bar.Date = date
	bar.Timestamp = ts.Unix()
	return bar, nil
}

var (
	listingAssetTypes = map[string]struct{}{"Stock": {}, "ETF": {}}
	listingExchanges  = map[string]struct{}{"NASDAQ": {}, "NYSE": {}, "AMEX": {}}
)

// FetchListings retrieves the bulk LISTING_STATUS CSV feed filtered to
// stocks and ETFs on the three major US exchanges.
func (f *AlphaVantageFetcher) FetchListings(ctx context.Context) ([]model.Listing, error) {
	params := url.Values{}
	params.Set("function", "LISTING_STATUS")
	body, err := f.get(ctx, params)
	if err != nil {
		return nil, err
	}
	// Quota and key errors come back as a JSON envelope even on the CSV
	// endpoint.
	if strings.HasPrefix(strings.TrimSpace(string(body)), "{") {
		if err := f.classify("", body); err != nil {
			return nil, err
		}
		return nil, &Error{Kind: KindMalformed, Message: "expected CSV, got JSON"}
	}

	r := csv.NewReader(strings.NewReader(string(body)))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, &Error{Kind: KindMalformed, Message: "bad listing CSV", Err: err}
	}
	if len(records) < 2 {
		return nil, &Error{Kind: KindNoData, Message: "empty listing feed"}
	}

	// Header: symbol,name,exchange,assetType,ipoDate,delistingDate,status
	col := map[string]int{}
	for i, name := range records[0] {
		col[strings.TrimSpace(name)] = i
	}
	maxCol := 0
	for _, required := range []string{"symbol", "name", "exchange", "assetType"} {
		i, ok := col[required]
		if !ok {
			return nil, &Error{Kind: KindMalformed, Message: fmt.Sprintf("listing CSV missing %q column", required)}
		}
		if i > maxCol {
			maxCol = i
		}
	}

	listings := make([]model.Listing, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) <= maxCol {
			continue
		}
		if _, ok := listingAssetTypes[rec[col["assetType"]]]; !ok {
			continue
		}
		if _, ok := listingExchanges[rec[col["exchange"]]]; !ok {
			continue
		}
		listings = append(listings, model.Listing{
			Symbol: rec[col["symbol"]],
			Name:   rec[col["name"]],
		})
	}
	return listings, nil
}
