package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"

	"stockfolio/internal/application/port"
	"stockfolio/internal/domain"
)

const (
	DefaultBaseURL = "https://www.alphavantage.co/query"
	pricePath      = `$["Global Quote"]["05. price"]`
)

// Client is a GLOBAL_QUOTE REST client.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Name() string { return "alphavantage" }

// Quote returns the latest trade price of symbol. Throttling maps to
// domain.ErrRateLimited, everything else that yields no positive price to
// domain.ErrQuoteUnavailable.
func (c *Client) Quote(ctx context.Context, symbol string) (decimal.Decimal, error) {
	params := url.Values{}
	params.Set("function", "GLOBAL_QUOTE")
	params.Set("symbol", symbol)
	params.Set("apikey", c.apiKey)
	endpoint := strings.TrimRight(c.baseURL, "?") + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %w", domain.ErrQuoteUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %w", domain.ErrQuoteUnavailable, err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return decimal.Zero, fmt.Errorf("%w: http %d", domain.ErrRateLimited, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("%w: http %d: %s", domain.ErrQuoteUnavailable, resp.StatusCode, string(body))
	}

	return parseQuote(body)
}

func parseQuote(body []byte) (decimal.Decimal, error) {
	var jobj map[string]any
	if err := json.Unmarshal(body, &jobj); err != nil {
		return decimal.Zero, fmt.Errorf("%w: decode: %w", domain.ErrQuoteUnavailable, err)
	}
	if isThrottled(jobj) {
		return decimal.Zero, domain.ErrRateLimited
	}

	jval, err := jsonpath.Get(pricePath, jobj)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q: %w", domain.ErrQuoteUnavailable, pricePath, err)
	}
	// jsonpath may hand back a one element list
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}

	var price decimal.Decimal
	switch v := jval.(type) {
	case string:
		price, err = decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: bad price %q", domain.ErrQuoteUnavailable, v)
		}
	case float64:
		price = decimal.NewFromFloat(v)
	default:
		return decimal.Zero, fmt.Errorf("%w: unexpected price %v", domain.ErrQuoteUnavailable, jval)
	}
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: non-positive price %s", domain.ErrQuoteUnavailable, price)
	}
	return price, nil
}

// isThrottled recognises the 200 OK bodies the API sends instead of a quote
// once the call allowance is used up.
func isThrottled(jobj map[string]any) bool {
	if _, ok := jobj["Note"]; ok {
		return true
	}
	info, ok := jobj["Information"].(string)
	if !ok {
		return false
	}
	info = strings.ToLower(info)
	return strings.Contains(info, "rate limit") || strings.Contains(info, "call frequency") || strings.Contains(info, "requests per")
}

var _ port.QuoteSource = (*Client)(nil)
