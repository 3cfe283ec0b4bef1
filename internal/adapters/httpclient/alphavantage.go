package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"fxscan/internal/domain"
)

const DefaultBaseURL = "https://www.alphavantage.co/query"

type AlphaVantageClient struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

// exchangeRatePayload mirrors the Alpha Vantage CURRENCY_EXCHANGE_RATE
// response. Throttling is reported through "Note" (and "Information" on
// newer plans) with a 200 status, so both have to be checked explicitly.
type exchangeRatePayload struct {
	Note         string            `json:"Note"`
	Information  string            `json:"Information"`
	ErrorMessage string            `json:"Error Message"`
	RealtimeRate *realtimeRateData `json:"Realtime Currency Exchange Rate"`
}

type realtimeRateData struct {
	ExchangeRate  string `json:"5. Exchange Rate"`
	LastRefreshed string `json:"6. Last Refreshed"`
	BidPrice      string `json:"8. Bid Price"`
	AskPrice      string `json:"9. Ask Price"`
}

// FetchQuote performs one CURRENCY_EXCHANGE_RATE request for the pair.
// Failures are classified via the domain sentinel errors so callers can tell
// rate limiting apart from auth and payload problems.
func (c *AlphaVantageClient) FetchQuote(ctx context.Context, pair domain.Pair) (domain.Quote, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("failed to parse base URL: %w", err)
	}

	query := u.Query()
	query.Set("function", "CURRENCY_EXCHANGE_RATE")
	query.Set("from_currency", pair.Base)
	query.Set("to_currency", pair.Quote)
	query.Set("apikey", c.apiKey)
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("failed to create request for pair %q: %w", pair, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("failed to execute request for pair %q: %w", pair, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return domain.Quote{}, fmt.Errorf("%w: status %d for pair %q", domain.ErrRateLimited, resp.StatusCode, pair)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return domain.Quote{}, fmt.Errorf("%w: status %d for pair %q", domain.ErrUnauthorized, resp.StatusCode, pair)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return domain.Quote{}, fmt.Errorf("%w: unexpected status %d for pair %q", domain.ErrUpstream, resp.StatusCode, pair)
	}

	var body exchangeRatePayload
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Quote{}, fmt.Errorf("%w: failed to decode response for pair %q: %v", domain.ErrMalformedResponse, pair, err)
	}

	if body.Note != "" {
		return domain.Quote{}, fmt.Errorf("%w: %s", domain.ErrRateLimited, body.Note)
	}
	if body.Information != "" {
		return domain.Quote{}, fmt.Errorf("%w: %s", domain.ErrRateLimited, body.Information)
	}
	if body.ErrorMessage != "" {
		return domain.Quote{}, fmt.Errorf("%w: %s", domain.ErrUpstream, body.ErrorMessage)
	}
	if body.RealtimeRate == nil || body.RealtimeRate.ExchangeRate == "" {
		return domain.Quote{}, fmt.Errorf("%w: missing exchange rate for pair %q", domain.ErrMalformedResponse, pair)
	}

	return c.buildQuote(pair, body.RealtimeRate)
}

func (c *AlphaVantageClient) buildQuote(pair domain.Pair, data *realtimeRateData) (domain.Quote, error) {
	rate, err := strconv.ParseFloat(data.ExchangeRate, 64)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("%w: invalid exchange rate %q for pair %q", domain.ErrMalformedResponse, data.ExchangeRate, pair)
	}

	quote := domain.Quote{
		Pair:          pair,
		Rate:          rate,
		LastRefreshed: data.LastRefreshed,
		FetchedAt:     time.Now(),
	}
	if quote.LastRefreshed == "" {
		quote.LastRefreshed = quote.FetchedAt.UTC().Format("2006-01-02 15:04:05")
	}

	// Bid and ask are optional; a value that is present but unparsable still
	// means the payload is broken.
	if data.BidPrice != "" {
		bid, parseErr := strconv.ParseFloat(data.BidPrice, 64)
		if parseErr != nil {
			return domain.Quote{}, fmt.Errorf("%w: invalid bid price %q for pair %q", domain.ErrMalformedResponse, data.BidPrice, pair)
		}
		quote.Bid = &bid
	}
	if data.AskPrice != "" {
		ask, parseErr := strconv.ParseFloat(data.AskPrice, 64)
		if parseErr != nil {
			return domain.Quote{}, fmt.Errorf("%w: invalid ask price %q for pair %q", domain.ErrMalformedResponse, data.AskPrice, pair)
		}
		quote.Ask = &ask
	}
	return quote, nil
}

func NewAlphaVantageClient(httpClient *http.Client, baseURL string, apiKey string) *AlphaVantageClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &AlphaVantageClient{http: httpClient, baseURL: baseURL, apiKey: apiKey}
}
