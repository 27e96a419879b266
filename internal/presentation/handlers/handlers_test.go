package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/bimakw/aptos-dex-aggregator/internal/domain/entities"
	"github.com/bimakw/aptos-dex-aggregator/internal/domain/services"
	"github.com/bimakw/aptos-dex-aggregator/internal/infrastructure/dex"
)

// MockQuoteSource returns a fixed quote or error
type MockQuoteSource struct {
	name  entities.DEXType
	quote *entities.Quote
	err   error
}

func NewMockQuoteSource(name entities.DEXType, output string) *MockQuoteSource {
	return &MockQuoteSource{
		name: name,
		quote: &entities.Quote{
			DEX:          name,
			OutputAmount: output,
			Fee:          "30",
			PriceImpact:  "0",
			Route:        []string{"APT", "USDC"},
		},
	}
}

func (m *MockQuoteSource) Name() entities.DEXType {
	return m.name
}

func (m *MockQuoteSource) Quote(ctx context.Context, req entities.QuoteRequest) (*entities.Quote, error) {
	if m.err != nil {
		return nil, m.err
	}
	q := *m.quote
	return &q, nil
}

func newAggregator(sources ...dex.QuoteSource) *services.AggregatorService {
	return services.NewAggregatorService(sources, nil, zerolog.Nop())
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}
