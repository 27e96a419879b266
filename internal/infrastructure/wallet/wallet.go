// Package wallet provides local signing adapters that stand in for browser
// wallet extensions.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bimakw/aptos-dex-aggregator/internal/domain/entities"
)

var (
	ErrNotConnected   = errors.New("wallet not connected")
	ErrNoAccounts     = errors.New("wallet has no accounts")
	ErrAccountIndex   = errors.New("account index out of range")
	ErrUnknownAdapter = errors.New("unknown wallet adapter")
)

// Adapter names
const (
	Petra  = "petra"
	Pontem = "pontem"
)

// Wallet is the capability set every adapter offers
type Wallet interface {
	Name() string
	Connect(ctx context.Context) (entities.WalletSession, error)
	Disconnect() error
	Session() entities.WalletSession
	Accounts() []string
	SignAndSubmitTransaction(ctx context.Context, payload entities.EntryFunctionPayload) (string, error)
}

// AccountSwitcher is implemented by adapters holding several accounts
type AccountSwitcher interface {
	SwitchAccount(index int) error
}

// Options tune adapter construction
type Options struct {
	// PollInterval enables network polling on adapters that support it
	PollInterval time.Duration
	Logger       zerolog.Logger
	Now          func() time.Time
}

// New constructs the adapter called name
func New(name string, node NodeClient, accounts []*Account, opts Options) (Wallet, error) {
	if len(accounts) == 0 {
		return nil, ErrNoAccounts
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	switch strings.ToLower(name) {
	case Petra:
		return NewPetraAdapter(node, accounts[0], opts), nil
	case Pontem:
		return NewPontemAdapter(node, accounts, opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAdapter, name)
	}
}
