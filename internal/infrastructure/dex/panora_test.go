package dex

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bimakw/aptos-dex-aggregator/internal/domain/entities"
)

func TestPanoraQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/swap", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, entities.APT.TypeTag, r.URL.Query().Get("fromTokenAddress"))
		assert.Equal(t, entities.USDC.TypeTag, r.URL.Query().Get("toTokenAddress"))
		assert.Equal(t, "1", r.URL.Query().Get("fromTokenAmount"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"quotes":[{"toTokenAmount":"5.1712","priceImpact":"0.02"}]}`))
	}))
	defer server.Close()

	client := NewPanoraClient(server.URL, "test-key", time.Second, entities.DefaultRegistry(), NewRateTable(DefaultRates))

	quote, err := client.Quote(context.Background(), aptToUSDC)
	require.NoError(t, err)

	assert.Equal(t, entities.DEXPanora, quote.DEX)
	assert.Equal(t, "5.1712", quote.OutputAmount)
	assert.Equal(t, "0.02", quote.PriceImpact)
	assert.Equal(t, "18", quote.Fee)
	assert.False(t, quote.Simulated)
	assert.Equal(t, []string{"APT", "USDC"}, quote.Route)
}

func TestPanoraTriesSecondPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/swap" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"quotes":[{"toTokenAmount":"5.15"}]}`))
	}))
	defer server.Close()

	client := NewPanoraClient(server.URL, "", time.Second, entities.DefaultRegistry(), NewRateTable(DefaultRates))

	quote, err := client.Quote(context.Background(), aptToUSDC)
	require.NoError(t, err)
	assert.Equal(t, "5.15", quote.OutputAmount)
	assert.Equal(t, "0", quote.PriceImpact)
	assert.False(t, quote.Simulated)
}

func TestPanoraFallback(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"empty quotes", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"quotes":[]}`))
		}},
		{"zero amount", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"quotes":[{"toTokenAmount":"0"}]}`))
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&hits, 1)
				tt.handler(w, r)
			}))
			defer server.Close()

			client := NewPanoraClient(server.URL, "", time.Second, entities.DefaultRegistry(), NewRateTable(DefaultRates))

			quote, err := client.Quote(context.Background(), aptToUSDC)
			require.NoError(t, err)
			assert.True(t, quote.Simulated)
			// 1 APT * 5.17 * 0.9982
			assert.Equal(t, "5.160694", quote.OutputAmount)
			assert.Equal(t, "18", quote.Fee)
			assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
		})
	}
}

func TestPanoraRejectsInvalidAmount(t *testing.T) {
	client := NewPanoraClient("http://127.0.0.1:0", "", time.Second, entities.DefaultRegistry(), NewRateTable(DefaultRates))

	_, err := client.Quote(context.Background(), entities.QuoteRequest{
		InputToken:  "APT",
		OutputToken: "USDC",
		InputAmount: "abc",
	})
	assert.ErrorIs(t, err, entities.ErrInvalidAmount)
}
