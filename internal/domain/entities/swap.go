package entities

import (
	"fmt"
	"time"
)

// SwapMode selects the aggregator entry function
type SwapMode int

const (
	// SwapModeSameAddress delivers the output to the sender
	SwapModeSameAddress SwapMode = iota
	// SwapModeCrossAddress delivers the output to an explicit receiver
	SwapModeCrossAddress
)

func (m SwapMode) String() string {
	switch m {
	case SwapModeSameAddress:
		return "same_address"
	case SwapModeCrossAddress:
		return "cross_address"
	default:
		return "unknown"
	}
}

// SwapIntent is everything needed to build one swap transaction.
// InputAmount is in display units of FromToken.
type SwapIntent struct {
	FromToken   Token  `json:"fromToken"`
	ToToken     Token  `json:"toToken"`
	InputAmount string `json:"inputAmount"`
	Quote       *Quote `json:"quote"`
	Receiver    string `json:"receiver,omitempty"`
}

// Mode returns cross-address when a receiver is set
func (i SwapIntent) Mode() SwapMode {
	if i.Receiver != "" {
		return SwapModeCrossAddress
	}
	return SwapModeSameAddress
}

// EntryFunctionPayload is the JSON form of an Aptos entry function call
type EntryFunctionPayload struct {
	Type          string   `json:"type"`
	Function      string   `json:"function"`
	TypeArguments []string `json:"type_arguments"`
	Arguments     []string `json:"arguments"`
}

// SwapState is a step of a single swap attempt
type SwapState int

const (
	SwapIdle SwapState = iota
	SwapValidating
	SwapRejected
	SwapDispatched
	SwapConfirmed
	SwapFailed
)

func (s SwapState) String() string {
	switch s {
	case SwapIdle:
		return "idle"
	case SwapValidating:
		return "validating"
	case SwapRejected:
		return "rejected"
	case SwapDispatched:
		return "dispatched"
	case SwapConfirmed:
		return "confirmed"
	case SwapFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible
func (s SwapState) Terminal() bool {
	return s == SwapRejected || s == SwapConfirmed || s == SwapFailed
}

var swapTransitions = map[SwapState][]SwapState{
	SwapIdle:       {SwapValidating},
	SwapValidating: {SwapRejected, SwapDispatched},
	SwapDispatched: {SwapConfirmed, SwapFailed},
}

// SwapAttempt tracks one pass through Idle -> Validating -> (Rejected |
// Dispatched) -> (Confirmed | Failed).
type SwapAttempt struct {
	Intent    SwapIntent            `json:"intent"`
	Payload   *EntryFunctionPayload `json:"payload,omitempty"`
	State     SwapState             `json:"-"`
	History   []SwapState           `json:"-"`
	TxHash    string                `json:"txHash,omitempty"`
	Err       error                 `json:"-"`
	StartedAt time.Time             `json:"startedAt"`
}

// NewSwapAttempt starts an attempt in the Idle state
func NewSwapAttempt(intent SwapIntent, now time.Time) *SwapAttempt {
	return &SwapAttempt{
		Intent:    intent,
		State:     SwapIdle,
		History:   []SwapState{SwapIdle},
		StartedAt: now,
	}
}

// Transition moves the attempt to the next state
func (a *SwapAttempt) Transition(to SwapState) error {
	for _, allowed := range swapTransitions[a.State] {
		if allowed == to {
			a.State = to
			a.History = append(a.History, to)
			return nil
		}
	}
	return fmt.Errorf("invalid swap transition %s -> %s", a.State, to)
}

// Reject ends the attempt before anything was submitted
func (a *SwapAttempt) Reject(err error) {
	if a.State == SwapIdle {
		_ = a.Transition(SwapValidating)
	}
	if a.Transition(SwapRejected) == nil {
		a.Err = err
	}
}
