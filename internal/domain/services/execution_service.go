package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/bimakw/aptos-dex-aggregator/internal/domain/entities"
	"github.com/bimakw/aptos-dex-aggregator/internal/infrastructure/metrics"
)

// Validation failures; an attempt that hits one ends Rejected
var (
	ErrNoQuote                 = errors.New("no quote available")
	ErrNonPositiveOutput       = errors.New("quote output must be greater than zero")
	ErrSimulatedQuote          = errors.New("quote is priced from static fallback rates and cannot be executed")
	ErrInvalidAmount           = errors.New("input amount must be a positive number")
	ErrInsufficientBalance     = errors.New("insufficient balance")
	ErrInvalidTypeArguments    = errors.New("payload needs exactly two non-empty type arguments")
	ErrInvalidArguments        = errors.New("payload needs at least three arguments")
	ErrAggregatorNotConfigured = errors.New("aggregator contract address is not configured")
	ErrMissingReceiver         = errors.New("cross-address swap needs a receiver")
)

const (
	EntryFunctionPayloadType = "entry_function_payload"
	SwapFunction             = "swap_exact_input"
	SwapToFunction           = "swap_exact_input_to"
)

// ExecutionConfig locates the aggregator contract and sets swap tolerances
type ExecutionConfig struct {
	AggregatorAddress string
	Module            string
	Slippage          decimal.Decimal
	DeadlineWindow    time.Duration
	AllowSimulated    bool
}

// DefaultExecutionConfig uses 5% slippage and a 20 minute deadline
func DefaultExecutionConfig(aggregatorAddress string) ExecutionConfig {
	return ExecutionConfig{
		AggregatorAddress: aggregatorAddress,
		Module:            "router",
		Slippage:          decimal.RequireFromString("0.05"),
		DeadlineWindow:    1200 * time.Second,
	}
}

// Submitter signs and broadcasts a payload; wallet adapters implement it
type Submitter interface {
	SignAndSubmitTransaction(ctx context.Context, payload entities.EntryFunctionPayload) (string, error)
}

// ExecutionService turns a swap intent into an aggregator entry function call
type ExecutionService struct {
	cfg ExecutionConfig
	log zerolog.Logger
	now func() time.Time
}

func NewExecutionService(cfg ExecutionConfig, log zerolog.Logger) *ExecutionService {
	if cfg.Module == "" {
		cfg.Module = "router"
	}
	return &ExecutionService{
		cfg: cfg,
		log: log.With().Str("component", "execution").Logger(),
		now: time.Now,
	}
}

// SetClock replaces the time source used for deadlines
func (s *ExecutionService) SetClock(now func() time.Time) {
	s.now = now
}

// BuildPayload computes amountIn, minOut and deadline for intent.
//
//	amountIn = floor(input * 10^inDecimals)
//	minOut   = floor(output * 10^outDecimals * (1 - slippage))
//	deadline = now + window
func (s *ExecutionService) BuildPayload(intent entities.SwapIntent) (*entities.EntryFunctionPayload, error) {
	if s.cfg.AggregatorAddress == "" {
		return nil, ErrAggregatorNotConfigured
	}
	if intent.Quote == nil {
		return nil, ErrNoQuote
	}

	input, ok := entities.ParseAmount(intent.InputAmount)
	if !ok || !input.IsPositive() {
		return nil, ErrInvalidAmount
	}

	amountIn := entities.ToSmallestUnit(input, intent.FromToken.Decimals)
	minOut := intent.Quote.Output().
		Shift(int32(intent.ToToken.Decimals)).
		Mul(decimal.NewFromInt(1).Sub(s.cfg.Slippage)).
		Floor()
	deadline := s.now().Add(s.cfg.DeadlineWindow).Unix()

	args := []string{amountIn.String(), minOut.String(), fmt.Sprintf("%d", deadline)}
	function := SwapFunction
	if intent.Mode() == entities.SwapModeCrossAddress {
		args = append([]string{intent.Receiver}, args...)
		function = SwapToFunction
	}

	return &entities.EntryFunctionPayload{
		Type:          EntryFunctionPayloadType,
		Function:      fmt.Sprintf("%s::%s::%s", s.cfg.AggregatorAddress, s.cfg.Module, function),
		TypeArguments: []string{intent.FromToken.TypeTag, intent.ToToken.TypeTag},
		Arguments:     args,
	}, nil
}

// ValidatePayload checks the payload shape the aggregator contract expects
func ValidatePayload(p *entities.EntryFunctionPayload) error {
	if p == nil {
		return ErrInvalidArguments
	}
	if len(p.TypeArguments) != 2 || strings.TrimSpace(p.TypeArguments[0]) == "" || strings.TrimSpace(p.TypeArguments[1]) == "" {
		return ErrInvalidTypeArguments
	}
	if len(p.Arguments) < 3 {
		return ErrInvalidArguments
	}
	return nil
}

// checkIntent runs every check that does not need the payload. balance is
// in display units of the input token.
func (s *ExecutionService) checkIntent(intent entities.SwapIntent, balance decimal.Decimal) error {
	if intent.Quote == nil {
		return ErrNoQuote
	}
	if !intent.Quote.Output().IsPositive() {
		return ErrNonPositiveOutput
	}
	if intent.Quote.Simulated && !s.cfg.AllowSimulated {
		return ErrSimulatedQuote
	}
	if intent.Mode() == entities.SwapModeCrossAddress && strings.TrimSpace(intent.Receiver) == "" {
		return ErrMissingReceiver
	}

	input, ok := entities.ParseAmount(intent.InputAmount)
	if !ok || !input.IsPositive() {
		return ErrInvalidAmount
	}
	if balance.LessThan(input) {
		return fmt.Errorf("%w: have %s %s, need %s", ErrInsufficientBalance, balance, intent.FromToken.Symbol, input)
	}
	return nil
}

// Prepare validates intent and builds its payload. The returned attempt is
// either Rejected (Err set) or Validating with Payload ready for dispatch.
func (s *ExecutionService) Prepare(intent entities.SwapIntent, balance decimal.Decimal) *entities.SwapAttempt {
	attempt := entities.NewSwapAttempt(intent, s.now())
	_ = attempt.Transition(entities.SwapValidating)

	if err := s.checkIntent(intent, balance); err != nil {
		s.reject(attempt, err)
		return attempt
	}

	payload, err := s.BuildPayload(intent)
	if err == nil {
		err = ValidatePayload(payload)
	}
	if err != nil {
		s.reject(attempt, err)
		return attempt
	}

	attempt.Payload = payload
	return attempt
}

// Execute prepares intent and hands the payload to wallet. The wallet's
// error is kept verbatim on a Failed attempt.
func (s *ExecutionService) Execute(ctx context.Context, wallet Submitter, intent entities.SwapIntent, balance decimal.Decimal) *entities.SwapAttempt {
	attempt := s.Prepare(intent, balance)
	if attempt.State == entities.SwapRejected {
		return attempt
	}

	_ = attempt.Transition(entities.SwapDispatched)
	s.log.Info().
		Str("function", attempt.Payload.Function).
		Strs("args", attempt.Payload.Arguments).
		Str("dex", string(intent.Quote.DEX)).
		Msg("dispatching swap")

	hash, err := wallet.SignAndSubmitTransaction(ctx, *attempt.Payload)
	if err != nil {
		_ = attempt.Transition(entities.SwapFailed)
		attempt.Err = err
		s.log.Error().Err(err).Msg("swap failed")
	} else {
		_ = attempt.Transition(entities.SwapConfirmed)
		attempt.TxHash = hash
		s.log.Info().Str("tx", hash).Msg("swap submitted")
	}

	metrics.SwapAttemptsTotal.WithLabelValues(attempt.State.String()).Inc()
	return attempt
}

func (s *ExecutionService) reject(attempt *entities.SwapAttempt, err error) {
	attempt.Reject(err)
	metrics.SwapAttemptsTotal.WithLabelValues(attempt.State.String()).Inc()
	s.log.Warn().Err(err).Msg("swap rejected")
}
