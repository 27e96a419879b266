package wallet

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bimakw/aptos-dex-aggregator/internal/domain/entities"
	"github.com/bimakw/aptos-dex-aggregator/internal/infrastructure/aptos"
)

// PetraAdapter signs with a single key
type PetraAdapter struct {
	node    NodeClient
	account *Account
	log     zerolog.Logger
	now     func() time.Time

	mu      sync.RWMutex
	session entities.WalletSession
}

func NewPetraAdapter(node NodeClient, account *Account, opts Options) *PetraAdapter {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &PetraAdapter{
		node:    node,
		account: account,
		log:     opts.Logger.With().Str("wallet", Petra).Logger(),
		now:     opts.Now,
		session: entities.WalletSession{Accounts: []string{}},
	}
}

func (w *PetraAdapter) Name() string {
	return Petra
}

func (w *PetraAdapter) Connect(ctx context.Context) (entities.WalletSession, error) {
	info, err := w.node.LedgerInfo(ctx)
	if err != nil {
		return entities.WalletSession{}, err
	}

	w.mu.Lock()
	w.session = entities.WalletSession{
		Connected: true,
		Address:   w.account.Address,
		Network:   aptos.NetworkName(info.ChainID),
		Accounts:  []string{w.account.Address},
	}
	session := w.session
	w.mu.Unlock()

	w.log.Info().Str("address", session.Address).Str("network", session.Network).Msg("wallet connected")
	return session, nil
}

func (w *PetraAdapter) Disconnect() error {
	w.mu.Lock()
	w.session = entities.WalletSession{Accounts: []string{}}
	w.mu.Unlock()
	return nil
}

func (w *PetraAdapter) Session() entities.WalletSession {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return copySession(w.session)
}

func (w *PetraAdapter) Accounts() []string {
	return w.Session().Accounts
}

func (w *PetraAdapter) SignAndSubmitTransaction(ctx context.Context, payload entities.EntryFunctionPayload) (string, error) {
	if !w.Session().Connected {
		return "", ErrNotConnected
	}
	return signAndSubmit(ctx, w.node, w.account, payload, w.now())
}

func copySession(s entities.WalletSession) entities.WalletSession {
	s.Accounts = append([]string{}, s.Accounts...)
	return s
}
