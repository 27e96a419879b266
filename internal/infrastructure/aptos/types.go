package aptos

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bimakw/aptos-dex-aggregator/internal/domain/entities"
)

// LedgerInfo is the node's response to GET /v1
type LedgerInfo struct {
	ChainID         uint8  `json:"chain_id"`
	Epoch           string `json:"epoch"`
	LedgerVersion   string `json:"ledger_version"`
	LedgerTimestamp string `json:"ledger_timestamp"`
	BlockHeight     string `json:"block_height"`
}

// ViewRequest identifies a view function as {address}::{module}::{function}
type ViewRequest struct {
	Function      string   `json:"function"`
	TypeArguments []string `json:"type_arguments"`
	Arguments     []string `json:"arguments"`
}

// AccountInfo is the response of GET /v1/accounts/{address}
type AccountInfo struct {
	SequenceNumber    string `json:"sequence_number"`
	AuthenticationKey string `json:"authentication_key"`
}

// UserTransaction is an unsigned transaction in JSON submission form
type UserTransaction struct {
	Sender                  string                         `json:"sender"`
	SequenceNumber          string                         `json:"sequence_number"`
	MaxGasAmount            string                         `json:"max_gas_amount"`
	GasUnitPrice            string                         `json:"gas_unit_price"`
	ExpirationTimestampSecs string                         `json:"expiration_timestamp_secs"`
	Payload                 entities.EntryFunctionPayload `json:"payload"`
}

// Signature is an ed25519 transaction authenticator
type Signature struct {
	Type      string `json:"type"`
	PublicKey string `json:"public_key"`
	Signature string `json:"signature"`
}

// SignedTransaction is a UserTransaction plus its authenticator
type SignedTransaction struct {
	UserTransaction
	Signature Signature `json:"signature"`
}

// PendingTransaction is returned by a successful submission
type PendingTransaction struct {
	Hash string `json:"hash"`
}

// Transaction is a committed or pending transaction
type Transaction struct {
	Type     string `json:"type"`
	Hash     string `json:"hash"`
	Success  bool   `json:"success"`
	VMStatus string `json:"vm_status"`
	Version  string `json:"version"`
}

// APIError is the node's error body
type APIError struct {
	StatusCode  int    `json:"-"`
	Message     string `json:"message"`
	ErrorCode   string `json:"error_code"`
	VMErrorCode int    `json:"vm_error_code,omitempty"`
}

func (e *APIError) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("aptos api %d %s: %s", e.StatusCode, e.ErrorCode, e.Message)
	}
	return fmt.Sprintf("aptos api %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the node
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
