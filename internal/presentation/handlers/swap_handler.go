package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bimakw/aptos-dex-aggregator/internal/domain/entities"
	"github.com/bimakw/aptos-dex-aggregator/internal/domain/services"
)

// BalanceReader returns an account's raw coin balance
type BalanceReader interface {
	CoinBalance(ctx context.Context, address, coinType string) (decimal.Decimal, error)
}

// SwapHandler builds entry function payloads for browser wallets
type SwapHandler struct {
	execution  *services.ExecutionService
	aggregator *services.AggregatorService
	registry   *entities.TokenRegistry
	balances   BalanceReader
}

func NewSwapHandler(execution *services.ExecutionService, aggregator *services.AggregatorService, registry *entities.TokenRegistry, balances BalanceReader) *SwapHandler {
	return &SwapHandler{
		execution:  execution,
		aggregator: aggregator,
		registry:   registry,
		balances:   balances,
	}
}

// SwapPayloadRequest describes the swap to build. InputAmount is in display
// units. When Quote is omitted the best current quote is used; a supplied
// Quote is checked against a fresh aggregation of its DEX.
type SwapPayloadRequest struct {
	Sender      string          `json:"sender"`
	FromToken   string          `json:"fromToken"`
	ToToken     string          `json:"toToken"`
	InputAmount string          `json:"inputAmount"`
	Quote       *entities.Quote `json:"quote,omitempty"`
	Receiver    string          `json:"receiver,omitempty"`
}

type SwapPayloadResponse struct {
	Payload *entities.EntryFunctionPayload `json:"payload"`
	Quote   *entities.Quote                `json:"quote"`
	Mode    string                         `json:"mode"`
	Balance string                         `json:"balance"`
}

// BuildPayload handles POST /api/v1/swap/payload
func (h *SwapHandler) BuildPayload(w http.ResponseWriter, r *http.Request) {
	var req SwapPayloadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "request body must be a JSON object")
		return
	}

	if req.Sender == "" || req.FromToken == "" || req.ToToken == "" || req.InputAmount == "" {
		writeError(w, http.StatusBadRequest, "missing_params", "sender, fromToken, toToken, and inputAmount are required")
		return
	}

	from, ok := h.registry.Resolve(req.FromToken)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown_token", "unknown fromToken "+req.FromToken)
		return
	}
	to, ok := h.registry.Resolve(req.ToToken)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown_token", "unknown toToken "+req.ToToken)
		return
	}

	intent := entities.SwapIntent{
		FromToken:   from,
		ToToken:     to,
		InputAmount: req.InputAmount,
		Quote:       req.Quote,
		Receiver:    strings.TrimSpace(req.Receiver),
	}

	quote, err := h.resolveQuote(r.Context(), intent)
	if err != nil {
		writeSwapError(w, err)
		return
	}
	intent.Quote = quote

	raw, err := h.balances.CoinBalance(r.Context(), req.Sender, from.TypeTag)
	if err != nil {
		writeError(w, http.StatusBadGateway, "balance_unavailable", err.Error())
		return
	}
	balance := entities.FromSmallestUnit(raw, from.Decimals)

	attempt := h.execution.Prepare(intent, balance)
	if attempt.State == entities.SwapRejected {
		writeSwapError(w, attempt.Err)
		return
	}

	writeJSON(w, http.StatusOK, SwapPayloadResponse{
		Payload: attempt.Payload,
		Quote:   intent.Quote,
		Mode:    intent.Mode().String(),
		Balance: balance.String(),
	})
}

// resolveQuote aggregates for intent. Without a client quote the best
// fresh quote is used. A client quote keeps its output, but whether it is
// simulated comes from the fresh quote of the same DEX; a DEX that no
// longer answers yields ErrNoQuote.
func (h *SwapHandler) resolveQuote(ctx context.Context, intent entities.SwapIntent) (*entities.Quote, error) {
	input, ok := entities.ParseAmount(intent.InputAmount)
	if !ok || !input.IsPositive() {
		return nil, services.ErrInvalidAmount
	}

	best, quotes, err := h.aggregator.GetBestQuote(ctx, entities.QuoteRequest{
		InputToken:  intent.FromToken.TypeTag,
		OutputToken: intent.ToToken.TypeTag,
		InputAmount: entities.ToSmallestUnit(input, intent.FromToken.Decimals).String(),
	})
	if err != nil {
		return nil, err
	}

	if intent.Quote == nil {
		if best == nil {
			return nil, services.ErrNoQuote
		}
		return best, nil
	}

	for _, fresh := range quotes {
		if fresh.DEX == intent.Quote.DEX {
			q := *intent.Quote
			q.Simulated = fresh.Simulated
			return &q, nil
		}
	}
	return nil, services.ErrNoQuote
}

func writeSwapError(w http.ResponseWriter, err error) {
	status := http.StatusUnprocessableEntity
	code := "swap_rejected"

	switch {
	case errors.Is(err, services.ErrNoQuote):
		code = "no_quote"
	case errors.Is(err, services.ErrNonPositiveOutput):
		code = "non_positive_output"
	case errors.Is(err, services.ErrSimulatedQuote):
		code = "simulated_quote"
	case errors.Is(err, services.ErrInsufficientBalance):
		code = "insufficient_balance"
	case errors.Is(err, services.ErrInvalidAmount), errors.Is(err, entities.ErrInvalidAmount):
		status, code = http.StatusBadRequest, "invalid_amount"
	case errors.Is(err, services.ErrInvalidTypeArguments):
		code = "invalid_type_arguments"
	case errors.Is(err, services.ErrInvalidArguments):
		code = "invalid_arguments"
	case errors.Is(err, services.ErrMissingReceiver):
		status, code = http.StatusBadRequest, "missing_receiver"
	case errors.Is(err, services.ErrAggregatorNotConfigured):
		status, code = http.StatusServiceUnavailable, "aggregator_not_configured"
	}

	writeError(w, status, code, err.Error())
}
