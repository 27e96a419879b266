package handlers

import (
	"net/http"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Network string `json:"network,omitempty"`
}

// ChainInfo reports which Aptos network the node serves
type ChainInfo interface {
	Network() string
}

// HealthHandler handles health check requests
type HealthHandler struct {
	version string
	chain   ChainInfo
}

// NewHealthHandler creates a new health handler; chain may be nil
func NewHealthHandler(version string, chain ChainInfo) *HealthHandler {
	return &HealthHandler{version: version, chain: chain}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Version: h.version,
	}
	if h.chain != nil {
		resp.Network = h.chain.Network()
	}
	writeJSON(w, http.StatusOK, resp)
}
