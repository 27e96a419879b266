package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedNetwork string

func (n fixedNetwork) Network() string { return string(n) }

func TestHealth(t *testing.T) {
	tests := []struct {
		name        string
		chain       ChainInfo
		wantNetwork string
	}{
		{name: "with node", chain: fixedNetwork("mainnet"), wantNetwork: "mainnet"},
		{name: "without node", chain: nil, wantNetwork: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler("1.0.0", tt.chain)

			rec := httptest.NewRecorder()
			h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			require.Equal(t, http.StatusOK, rec.Code)

			var resp HealthResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, "ok", resp.Status)
			assert.Equal(t, "1.0.0", resp.Version)
			assert.Equal(t, tt.wantNetwork, resp.Network)
		})
	}
}
