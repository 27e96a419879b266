package pricefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the public CoinGecko v3 API
const DefaultBaseURL = "https://api.coingecko.com/api/v3"

// Price is a USD quote with its 24h change in percent
type Price struct {
	USD       decimal.Decimal
	Change24h decimal.Decimal
}

// CoinGeckoClient reads spot prices from the simple/price endpoint
type CoinGeckoClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewCoinGeckoClient(baseURL, apiKey string) *CoinGeckoClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &CoinGeckoClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// SetHTTPClient replaces the HTTP client (used by tests)
func (c *CoinGeckoClient) SetHTTPClient(h *http.Client) {
	c.http = h
}

// Prices returns USD prices keyed by CoinGecko id. Ids the API does not
// know are absent from the result.
func (c *CoinGeckoClient) Prices(ctx context.Context, ids []string) (map[string]Price, error) {
	if len(ids) == 0 {
		return map[string]Price{}, nil
	}

	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	q := url.Values{}
	q.Set("ids", strings.Join(sorted, ","))
	q.Set("vs_currencies", "usd")
	q.Set("include_24hr_change", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/simple/price?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("price request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("price request status %d", resp.StatusCode)
	}

	var body map[string]struct {
		USD       *decimal.Decimal `json:"usd"`
		USD24hChg *decimal.Decimal `json:"usd_24h_change"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode prices: %w", err)
	}

	out := make(map[string]Price, len(body))
	for id, entry := range body {
		if entry.USD == nil {
			continue
		}
		p := Price{USD: *entry.USD}
		if entry.USD24hChg != nil {
			p.Change24h = *entry.USD24hChg
		}
		out[id] = p
	}
	return out, nil
}
