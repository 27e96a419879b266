package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bimakw/aptos-dex-aggregator/internal/domain/entities"
	"github.com/bimakw/aptos-dex-aggregator/internal/domain/services"
)

type MarketHandler struct {
	market   *services.MarketService
	registry *entities.TokenRegistry
}

func NewMarketHandler(market *services.MarketService, registry *entities.TokenRegistry) *MarketHandler {
	return &MarketHandler{market: market, registry: registry}
}

type MarketResponse struct {
	Prices []entities.MarketPrice `json:"prices"`
}

type TokensResponse struct {
	Tokens []entities.Token `json:"tokens"`
}

// Overview handles GET /api/v1/market
func (h *MarketHandler) Overview(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, MarketResponse{Prices: h.market.Snapshot()})
}

// Price handles GET /api/v1/market/{symbol}
func (h *MarketHandler) Price(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "missing_symbol", "symbol is required")
		return
	}

	price, ok := h.market.Price(r.Context(), symbol)
	if !ok {
		writeError(w, http.StatusNotFound, "price_not_found", "no price for "+symbol)
		return
	}
	writeJSON(w, http.StatusOK, price)
}

// Tokens handles GET /api/v1/tokens
func (h *MarketHandler) Tokens(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, TokensResponse{Tokens: h.registry.GetAll()})
}
