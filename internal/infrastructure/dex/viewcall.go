package dex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bimakw/aptos-dex-aggregator/internal/domain/entities"
	"github.com/bimakw/aptos-dex-aggregator/internal/infrastructure/aptos"
)

var errNoCandidates = errors.New("no view function candidates configured")

// viewCandidate is one {module}::{function} combination to try. Extra type
// arguments are appended after the input and output token types.
type viewCandidate struct {
	Module        string
	Function      string
	ExtraTypeArgs []string
}

// viewSource quotes a swap through on-chain view functions, trying each
// candidate in order until one returns a positive amount.
type viewSource struct {
	name       entities.DEXType
	caller     ViewCaller
	registry   *entities.TokenRegistry
	address    string
	candidates []viewCandidate
	feeBps     string
}

func (s *viewSource) Name() entities.DEXType {
	return s.name
}

func (s *viewSource) quoteOnChain(ctx context.Context, req entities.QuoteRequest) (*entities.Quote, error) {
	amountIn, ok := entities.ParseAmount(req.InputAmount)
	if !ok || !amountIn.IsPositive() {
		return nil, entities.ErrInvalidAmount
	}

	typeIn := s.registry.TypeTagFor(req.InputToken)
	typeOut := s.registry.TypeTagFor(req.OutputToken)

	rawOut, cand, err := s.amountOut(ctx, typeIn, typeOut, amountIn, s.candidates)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.name, err)
	}

	// The probe reuses the candidate that just answered.
	impact := priceImpact(amountIn, rawOut, func(probe decimal.Decimal) (decimal.Decimal, error) {
		out, _, err := s.amountOut(ctx, typeIn, typeOut, probe, []viewCandidate{cand})
		return out, err
	})

	outDecimals := s.registry.DecimalsFor(req.OutputToken)
	return &entities.Quote{
		DEX:          s.name,
		OutputAmount: entities.FromSmallestUnit(rawOut, outDecimals).String(),
		Fee:          s.feeBps,
		PriceImpact:  impact,
		Route:        []string{s.registry.SymbolFor(req.InputToken), s.registry.SymbolFor(req.OutputToken)},
	}, nil
}

func (s *viewSource) amountOut(ctx context.Context, typeIn, typeOut string, amountIn decimal.Decimal, candidates []viewCandidate) (decimal.Decimal, viewCandidate, error) {
	lastErr := errNoCandidates
	for _, cand := range candidates {
		typeArgs := append([]string{typeIn, typeOut}, cand.ExtraTypeArgs...)
		result, err := s.caller.View(ctx, aptos.ViewRequest{
			Function:      fmt.Sprintf("%s::%s::%s", s.address, cand.Module, cand.Function),
			TypeArguments: typeArgs,
			Arguments:     []string{amountIn.String()},
		})
		if err != nil {
			lastErr = err
			continue
		}

		out, err := firstAmount(result)
		if err != nil {
			lastErr = err
			continue
		}
		if !out.IsPositive() {
			lastErr = fmt.Errorf("%s::%s returned non-positive amount %s", cand.Module, cand.Function, out)
			continue
		}
		return out, cand, nil
	}
	return decimal.Zero, viewCandidate{}, lastErr
}

// firstAmount parses the first element of a view result. A vector result
// such as get_amounts_out yields its last entry.
func firstAmount(result []json.RawMessage) (decimal.Decimal, error) {
	if len(result) == 0 {
		return decimal.Zero, errors.New("empty view result")
	}
	raw := result[0]

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return decimal.NewFromString(s)
	}

	var vec []json.RawMessage
	if err := json.Unmarshal(raw, &vec); err == nil {
		if len(vec) == 0 {
			return decimal.Zero, errors.New("empty vector in view result")
		}
		return firstAmount(vec[len(vec)-1:])
	}

	return decimal.NewFromString(strings.TrimSpace(string(raw)))
}

// priceImpact estimates impact in percent by quoting a 1/1000 probe and
// scaling it up to the full size as the spot output.
func priceImpact(amountIn, amountOut decimal.Decimal, quote func(decimal.Decimal) (decimal.Decimal, error)) string {
	probe := amountIn.Div(decimal.NewFromInt(1000)).Floor()
	if !probe.IsPositive() || !amountOut.IsPositive() {
		return "0"
	}

	probeOut, err := quote(probe)
	if err != nil || !probeOut.IsPositive() {
		return "0"
	}

	spot := probeOut.Mul(amountIn).Div(probe)
	if !spot.GreaterThan(amountOut) {
		return "0"
	}

	return spot.Sub(amountOut).Div(spot).Mul(decimal.NewFromInt(100)).StringFixed(2)
}
