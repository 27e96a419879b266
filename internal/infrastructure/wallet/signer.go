package wallet

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/bimakw/aptos-dex-aggregator/internal/domain/entities"
	"github.com/bimakw/aptos-dex-aggregator/internal/infrastructure/aptos"
)

const (
	defaultMaxGasAmount = 200000
	defaultGasUnitPrice = 100
	expirationWindow    = 10 * time.Minute
)

// NodeClient is the part of the Aptos node API the adapters need
type NodeClient interface {
	LedgerInfo(ctx context.Context) (*aptos.LedgerInfo, error)
	Account(ctx context.Context, address string) (*aptos.AccountInfo, error)
	EstimateGasPrice(ctx context.Context) (uint64, error)
	EncodeSubmission(ctx context.Context, tx *aptos.UserTransaction) ([]byte, error)
	SubmitTransaction(ctx context.Context, tx *aptos.SignedTransaction) (*aptos.PendingTransaction, error)
}

// signAndSubmit builds, signs and submits payload from acct and returns the
// pending transaction hash.
func signAndSubmit(ctx context.Context, node NodeClient, acct *Account, payload entities.EntryFunctionPayload, now time.Time) (string, error) {
	info, err := node.Account(ctx, acct.Address)
	if err != nil {
		return "", err
	}

	gasPrice, err := node.EstimateGasPrice(ctx)
	if err != nil || gasPrice == 0 {
		gasPrice = defaultGasUnitPrice
	}

	tx := &aptos.UserTransaction{
		Sender:                  acct.Address,
		SequenceNumber:          info.SequenceNumber,
		MaxGasAmount:            strconv.Itoa(defaultMaxGasAmount),
		GasUnitPrice:            strconv.FormatUint(gasPrice, 10),
		ExpirationTimestampSecs: strconv.FormatInt(now.Add(expirationWindow).Unix(), 10),
		Payload:                 payload,
	}

	msg, err := node.EncodeSubmission(ctx, tx)
	if err != nil {
		return "", err
	}

	pending, err := node.SubmitTransaction(ctx, &aptos.SignedTransaction{
		UserTransaction: *tx,
		Signature: aptos.Signature{
			Type:      "ed25519_signature",
			PublicKey: hexutil.Encode(acct.PublicKey()),
			Signature: hexutil.Encode(acct.Sign(msg)),
		},
	})
	if err != nil {
		return "", err
	}
	if pending.Hash == "" {
		return "", fmt.Errorf("node accepted transaction without a hash")
	}
	return pending.Hash, nil
}
