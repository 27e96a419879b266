package dex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bimakw/aptos-dex-aggregator/internal/domain/entities"
)

// PanoraBaseURL is the public Panora aggregator API
const PanoraBaseURL = "https://api.panora.exchange"

// PanoraClient quotes through the Panora REST API and falls back to the
// static rate table when the API does not answer with a positive amount.
type PanoraClient struct {
	baseURL  string
	apiKey   string
	paths    []string
	http     *http.Client
	registry *entities.TokenRegistry
	fallback FallbackPricer
}

type panoraQuoteResponse struct {
	Quotes []struct {
		ToTokenAmount string `json:"toTokenAmount"`
		PriceImpact   string `json:"priceImpact"`
	} `json:"quotes"`
}

func NewPanoraClient(baseURL, apiKey string, timeout time.Duration, registry *entities.TokenRegistry, rates RateTable) *PanoraClient {
	if baseURL == "" {
		baseURL = PanoraBaseURL
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &PanoraClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		paths:    []string{"/swap", "/v1/swap/quote"},
		http:     &http.Client{Timeout: timeout},
		registry: registry,
		fallback: NewFallbackPricer(rates, PanoraFallbackMultiplier, registry),
	}
}

// SetHTTPClient replaces the HTTP client (used by tests)
func (c *PanoraClient) SetHTTPClient(h *http.Client) {
	c.http = h
}

// Name returns the DEX type
func (c *PanoraClient) Name() entities.DEXType {
	return entities.DEXPanora
}

// Quote never fails for a well-formed request
func (c *PanoraClient) Quote(ctx context.Context, req entities.QuoteRequest) (*entities.Quote, error) {
	quote, err := c.quoteAPI(ctx, req)
	if err == nil {
		return quote, nil
	}
	return c.fallback.Quote(entities.DEXPanora, req)
}

func (c *PanoraClient) quoteAPI(ctx context.Context, req entities.QuoteRequest) (*entities.Quote, error) {
	raw, ok := entities.ParseAmount(req.InputAmount)
	if !ok || !raw.IsPositive() {
		return nil, entities.ErrInvalidAmount
	}
	amountIn := entities.FromSmallestUnit(raw, c.registry.DecimalsFor(req.InputToken))

	q := url.Values{}
	q.Set("fromTokenAddress", c.registry.TypeTagFor(req.InputToken))
	q.Set("toTokenAddress", c.registry.TypeTagFor(req.OutputToken))
	q.Set("fromTokenAmount", amountIn.String())

	var lastErr error = errors.New("no panora endpoints configured")
	for _, path := range c.paths {
		resp, err := c.get(ctx, c.baseURL+path+"?"+q.Encode())
		if err != nil {
			lastErr = err
			continue
		}
		if len(resp.Quotes) == 0 {
			lastErr = fmt.Errorf("panora %s returned no quotes", path)
			continue
		}

		best := resp.Quotes[0]
		out, ok := entities.ParseAmount(best.ToTokenAmount)
		if !ok || !out.IsPositive() {
			lastErr = fmt.Errorf("panora %s returned amount %q", path, best.ToTokenAmount)
			continue
		}

		impact := best.PriceImpact
		if impact == "" {
			impact = "0"
		}
		return &entities.Quote{
			DEX:          entities.DEXPanora,
			OutputAmount: out.String(),
			Fee:          "18",
			PriceImpact:  impact,
			Route:        []string{c.registry.SymbolFor(req.InputToken), c.registry.SymbolFor(req.OutputToken)},
		}, nil
	}
	return nil, lastErr
}

func (c *PanoraClient) get(ctx context.Context, u string) (*panoraQuoteResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("panora quote status %d", resp.StatusCode)
	}

	var out panoraQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
