// Package yahoo implements the market-data provider against the public Yahoo
// Finance chart API.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"trademo/internal/application/port"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

type Client struct {
	baseURL      string
	httpClient   *http.Client
	maxRetries   int
	retryBackoff time.Duration
}

func NewClient(baseURL string, timeout time.Duration, maxRetries int) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{Timeout: timeout},
		maxRetries:   maxRetries,
		retryBackoff: time.Second,
	}
}

// APIError is a non-2xx response from the chart API.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("yahoo api error %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// IsRetryable reports whether the request may be retried as-is.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// Quote implements port.PriceProvider. Change fields stay zero when the API
// reports no previous close.
func (c *Client) Quote(ctx context.Context, symbol string) (port.Quote, error) {
	res, err := c.fetchChart(ctx, symbol, "1d", "1d")
	if err != nil {
		return port.Quote{}, err
	}

	price, err := priceFrom(res)
	if err != nil {
		return port.Quote{}, fmt.Errorf("%s: %w", symbol, err)
	}

	name := res.Meta.ShortName
	if name == "" {
		name = symbol
	}

	q := port.Quote{Symbol: strings.ToUpper(symbol), Name: name, Price: price}

	prev := res.Meta.ChartPreviousClose
	if prev == 0 {
		prev = res.Meta.PreviousClose
	}
	if prev > 0 {
		prevDec := decimal.NewFromFloat(prev)
		q.Change = price.Sub(prevDec)
		q.ChangePercent = q.Change.Div(prevDec).Mul(decimal.NewFromInt(100))
	}
	return q, nil
}

// CurrentPrice implements port.PriceProvider. It prefers the regular market
// price from the chart metadata and falls back to the last close of the day.
func (c *Client) CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	res, err := c.fetchChart(ctx, symbol, "1d", "1d")
	if err != nil {
		return decimal.Decimal{}, err
	}
	price, err := priceFrom(res)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s: %w", symbol, err)
	}
	return price, nil
}

// History implements port.PriceProvider, returning bars oldest first.
func (c *Client) History(ctx context.Context, symbol, period, interval string) ([]port.Bar, error) {
	res, err := c.fetchChart(ctx, symbol, period, interval)
	if err != nil {
		return nil, err
	}
	bars := res.bars()
	if len(bars) == 0 {
		return nil, fmt.Errorf("no data for %s: %w", symbol, port.ErrSymbolNotFound)
	}
	return bars, nil
}

func priceFrom(res *chartResult) (decimal.Decimal, error) {
	if res.Meta.RegularMarketPrice > 0 {
		return decimal.NewFromFloat(res.Meta.RegularMarketPrice), nil
	}
	bars := res.bars()
	if n := len(bars); n > 0 && bars[n-1].Close > 0 {
		return decimal.NewFromFloat(bars[n-1].Close), nil
	}
	return decimal.Decimal{}, port.ErrPriceUnavailable
}

func (c *Client) fetchChart(ctx context.Context, symbol, period, interval string) (*chartResult, error) {
	query := url.Values{}
	query.Set("range", period)
	query.Set("interval", interval)
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(symbol), query.Encode())

	body, err := c.getWithRetry(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var payload chartResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode chart response: %w", err)
	}
	if payload.Chart.Error != nil {
		if payload.Chart.Error.Code == "Not Found" {
			return nil, fmt.Errorf("%s: %w", symbol, port.ErrSymbolNotFound)
		}
		return nil, fmt.Errorf("chart api: %s: %w", payload.Chart.Error.Description, port.ErrPriceUnavailable)
	}
	if len(payload.Chart.Result) == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, port.ErrSymbolNotFound)
	}
	return &payload.Chart.Result[0], nil
}

func (c *Client) getWithRetry(ctx context.Context, endpoint string) ([]byte, error) {
	var lastErr error
	backoff := c.retryBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		body, err := c.get(ctx, endpoint)
		if err == nil {
			return body, nil
		}
		lastErr = err

		apiErr, ok := err.(*APIError)
		if !ok || !apiErr.IsRetryable() {
			return nil, err
		}
	}
	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	// The chart API rejects requests without a browser-like agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; trademo/1.0)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, port.ErrSymbolNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: body}
	}
	return body, nil
}

var _ port.PriceProvider = (*Client)(nil)
