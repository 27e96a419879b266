package entities

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwapAttemptHappyPath(t *testing.T) {
	a := NewSwapAttempt(SwapIntent{}, time.Unix(0, 0))
	require.Equal(t, SwapIdle, a.State)

	require.NoError(t, a.Transition(SwapValidating))
	require.NoError(t, a.Transition(SwapDispatched))
	require.NoError(t, a.Transition(SwapConfirmed))

	assert.True(t, a.State.Terminal())
	assert.Equal(t, []SwapState{SwapIdle, SwapValidating, SwapDispatched, SwapConfirmed}, a.History)
}

func TestSwapAttemptInvalidTransitions(t *testing.T) {
	a := NewSwapAttempt(SwapIntent{}, time.Now())

	assert.Error(t, a.Transition(SwapDispatched), "idle cannot dispatch without validating")
	require.NoError(t, a.Transition(SwapValidating))
	assert.Error(t, a.Transition(SwapConfirmed), "validating cannot confirm")
	require.NoError(t, a.Transition(SwapRejected))
	assert.Error(t, a.Transition(SwapDispatched), "rejected is terminal")
}

func TestSwapAttemptReject(t *testing.T) {
	a := NewSwapAttempt(SwapIntent{}, time.Now())
	cause := errors.New("insufficient balance")

	a.Reject(cause)

	assert.Equal(t, SwapRejected, a.State)
	assert.Equal(t, cause, a.Err)
	assert.Equal(t, []SwapState{SwapIdle, SwapValidating, SwapRejected}, a.History)
}

func TestSwapIntentMode(t *testing.T) {
	assert.Equal(t, SwapModeSameAddress, SwapIntent{}.Mode())
	assert.Equal(t, SwapModeCrossAddress, SwapIntent{Receiver: "0x1"}.Mode())
	assert.Equal(t, "cross_address", SwapModeCrossAddress.String())
}

func TestWalletSessionActiveAccount(t *testing.T) {
	s := WalletSession{Connected: true, Accounts: []string{"0xa", "0xb"}, ActiveAccountIndex: 1}
	addr, ok := s.ActiveAccount()
	assert.True(t, ok)
	assert.Equal(t, "0xb", addr)

	s.Connected = false
	_, ok = s.ActiveAccount()
	assert.False(t, ok)
}
