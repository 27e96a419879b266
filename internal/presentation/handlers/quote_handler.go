package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/bimakw/aptos-dex-aggregator/internal/domain/entities"
	"github.com/bimakw/aptos-dex-aggregator/internal/domain/services"
)

// QuoteHandler handles quote requests
type QuoteHandler struct {
	aggregator *services.AggregatorService
}

// NewQuoteHandler creates a new quote handler
func NewQuoteHandler(aggregator *services.AggregatorService) *QuoteHandler {
	return &QuoteHandler{aggregator: aggregator}
}

// QuotesResponse lists every quote in source order
type QuotesResponse struct {
	Quotes []entities.Quote `json:"quotes"`
}

// BestQuoteResponse adds the selected quote; Best is null when empty
type BestQuoteResponse struct {
	Best   *entities.Quote  `json:"best"`
	Quotes []entities.Quote `json:"quotes"`
}

// Quotes handles POST /api/v1/quotes
func (h *QuoteHandler) Quotes(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	quotes, err := h.aggregator.GetQuotes(r.Context(), req)
	if err != nil {
		h.writeAggregationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, QuotesResponse{Quotes: quotes})
}

// BestQuote handles POST /api/v1/quotes/best
func (h *QuoteHandler) BestQuote(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	best, quotes, err := h.aggregator.GetBestQuote(r.Context(), req)
	if err != nil {
		h.writeAggregationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, BestQuoteResponse{Best: best, Quotes: quotes})
}

func (h *QuoteHandler) decodeRequest(w http.ResponseWriter, r *http.Request) (entities.QuoteRequest, bool) {
	var req entities.QuoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "request body must be a JSON object")
		return req, false
	}
	return req, true
}

func (h *QuoteHandler) writeAggregationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entities.ErrMissingParams):
		writeError(w, http.StatusBadRequest, "missing_params", err.Error())
	case errors.Is(err, entities.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, "invalid_amount", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "timeout", "quote aggregation did not finish in time")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
