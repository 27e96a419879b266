package wallet

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bimakw/aptos-dex-aggregator/internal/domain/entities"
	"github.com/bimakw/aptos-dex-aggregator/internal/infrastructure/aptos"
)

// PontemAdapter holds several keys, supports account switching and can
// follow network changes by polling the node's chain id.
type PontemAdapter struct {
	node         NodeClient
	accounts     []*Account
	pollInterval time.Duration
	log          zerolog.Logger
	now          func() time.Time

	mu      sync.RWMutex
	session entities.WalletSession
	stop    context.CancelFunc
	done    chan struct{}
}

func NewPontemAdapter(node NodeClient, accounts []*Account, opts Options) *PontemAdapter {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &PontemAdapter{
		node:         node,
		accounts:     accounts,
		pollInterval: opts.PollInterval,
		log:          opts.Logger.With().Str("wallet", Pontem).Logger(),
		now:          opts.Now,
		session:      entities.WalletSession{Accounts: []string{}},
	}
}

func (w *PontemAdapter) Name() string {
	return Pontem
}

func (w *PontemAdapter) Connect(ctx context.Context) (entities.WalletSession, error) {
	info, err := w.node.LedgerInfo(ctx)
	if err != nil {
		return entities.WalletSession{}, err
	}

	addrs := make([]string, len(w.accounts))
	for i, a := range w.accounts {
		addrs[i] = a.Address
	}

	w.mu.Lock()
	w.stopPollingLocked()
	w.session = entities.WalletSession{
		Connected: true,
		Address:   addrs[0],
		Network:   aptos.NetworkName(info.ChainID),
		Accounts:  addrs,
	}
	session := copySession(w.session)
	if w.pollInterval > 0 {
		pollCtx, cancel := context.WithCancel(context.Background())
		w.stop = cancel
		w.done = make(chan struct{})
		go w.pollNetwork(pollCtx, w.done)
	}
	w.mu.Unlock()

	w.log.Info().Str("address", session.Address).Int("accounts", len(addrs)).Str("network", session.Network).Msg("wallet connected")
	return session, nil
}

func (w *PontemAdapter) Disconnect() error {
	w.mu.Lock()
	done := w.done
	w.stopPollingLocked()
	w.session = entities.WalletSession{Accounts: []string{}}
	w.mu.Unlock()

	if done != nil {
		<-done
	}
	return nil
}

// stopPollingLocked cancels the poller; w.mu must be held
func (w *PontemAdapter) stopPollingLocked() {
	if w.stop != nil {
		w.stop()
		w.stop = nil
		w.done = nil
	}
}

func (w *PontemAdapter) Session() entities.WalletSession {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return copySession(w.session)
}

func (w *PontemAdapter) Accounts() []string {
	return w.Session().Accounts
}

// SwitchAccount selects the signing account
func (w *PontemAdapter) SwitchAccount(index int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.session.Connected {
		return ErrNotConnected
	}
	if index < 0 || index >= len(w.accounts) {
		return ErrAccountIndex
	}
	w.session.ActiveAccountIndex = index
	w.session.Address = w.accounts[index].Address
	return nil
}

func (w *PontemAdapter) SignAndSubmitTransaction(ctx context.Context, payload entities.EntryFunctionPayload) (string, error) {
	w.mu.RLock()
	connected := w.session.Connected
	acct := w.accounts[w.session.ActiveAccountIndex]
	w.mu.RUnlock()

	if !connected {
		return "", ErrNotConnected
	}
	return signAndSubmit(ctx, w.node, acct, payload, w.now())
}

func (w *PontemAdapter) pollNetwork(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			info, err := w.node.LedgerInfo(ctx)
			if err != nil {
				if ctx.Err() == nil {
					w.log.Warn().Err(err).Msg("network poll failed")
				}
				continue
			}

			network := aptos.NetworkName(info.ChainID)
			w.mu.Lock()
			changed := ctx.Err() == nil && w.session.Connected && w.session.Network != network
			if changed {
				w.session.Network = network
			}
			w.mu.Unlock()

			if changed {
				w.log.Info().Str("network", network).Msg("network changed")
			}
		}
	}
}
