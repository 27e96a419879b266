package aptos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
)

// Client wraps the Aptos full node REST API
type Client struct {
	baseURL string
	http    *http.Client
	chainID uint8
	mu      sync.RWMutex
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// NewClient creates a client for nodeURL (for example
// https://fullnode.mainnet.aptoslabs.com/v1) and reads the chain id.
func NewClient(nodeURL string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL: strings.TrimRight(nodeURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := c.LedgerInfo(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// ChainID returns the chain id seen on the last ledger info call
func (c *Client) ChainID() uint8 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.chainID
}

// Network returns the network name for the current chain id
func (c *Client) Network() string {
	return NetworkName(c.ChainID())
}

// NetworkName maps well-known chain ids to names
func NetworkName(chainID uint8) string {
	switch chainID {
	case 1:
		return "mainnet"
	case 2:
		return "testnet"
	case 4:
		return "local"
	default:
		return "chain-" + strconv.Itoa(int(chainID))
	}
}

// LedgerInfo fetches the node's ledger info and refreshes the cached chain id
func (c *Client) LedgerInfo(ctx context.Context) (*LedgerInfo, error) {
	var info LedgerInfo
	if err := c.do(ctx, http.MethodGet, "", nil, &info); err != nil {
		return nil, fmt.Errorf("failed to get ledger info: %w", err)
	}

	c.mu.Lock()
	c.chainID = info.ChainID
	c.mu.Unlock()

	return &info, nil
}

// View executes a read-only Move view function
func (c *Client) View(ctx context.Context, req ViewRequest) ([]json.RawMessage, error) {
	if req.TypeArguments == nil {
		req.TypeArguments = []string{}
	}
	if req.Arguments == nil {
		req.Arguments = []string{}
	}

	var result []json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/view", req, &result); err != nil {
		return nil, fmt.Errorf("view %s failed: %w", req.Function, err)
	}
	return result, nil
}

// CoinBalance returns the raw CoinStore balance of coinType held by address.
// A missing CoinStore resource counts as zero.
func (c *Client) CoinBalance(ctx context.Context, address, coinType string) (decimal.Decimal, error) {
	resource := fmt.Sprintf("0x1::coin::CoinStore<%s>", coinType)
	path := fmt.Sprintf("/accounts/%s/resource/%s", address, url.PathEscape(resource))

	var out struct {
		Data struct {
			Coin struct {
				Value string `json:"value"`
			} `json:"coin"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		if IsNotFound(err) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to get balance: %w", err)
	}

	value, err := decimal.NewFromString(out.Data.Coin.Value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid balance value %q: %w", out.Data.Coin.Value, err)
	}
	return value, nil
}

// Account returns the sequence number and authentication key of an account
func (c *Client) Account(ctx context.Context, address string) (*AccountInfo, error) {
	var info AccountInfo
	if err := c.do(ctx, http.MethodGet, "/accounts/"+address, nil, &info); err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", address, err)
	}
	return &info, nil
}

// EstimateGasPrice suggests a gas unit price
func (c *Client) EstimateGasPrice(ctx context.Context) (uint64, error) {
	var out struct {
		GasEstimate uint64 `json:"gas_estimate"`
	}
	if err := c.do(ctx, http.MethodGet, "/estimate_gas_price", nil, &out); err != nil {
		return 0, fmt.Errorf("failed to estimate gas price: %w", err)
	}
	return out.GasEstimate, nil
}

// EncodeSubmission asks the node for the BCS signing message of a transaction
func (c *Client) EncodeSubmission(ctx context.Context, tx *UserTransaction) ([]byte, error) {
	var encoded string
	if err := c.do(ctx, http.MethodPost, "/transactions/encode_submission", tx, &encoded); err != nil {
		return nil, fmt.Errorf("failed to encode submission: %w", err)
	}

	msg, err := hexutil.Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid signing message: %w", err)
	}
	return msg, nil
}

// SubmitTransaction broadcasts a signed transaction
func (c *Client) SubmitTransaction(ctx context.Context, tx *SignedTransaction) (*PendingTransaction, error) {
	var pending PendingTransaction
	if err := c.do(ctx, http.MethodPost, "/transactions", tx, &pending); err != nil {
		return nil, fmt.Errorf("failed to submit transaction: %w", err)
	}
	return &pending, nil
}

// TransactionByHash looks up a transaction
func (c *Client) TransactionByHash(ctx context.Context, hash string) (*Transaction, error) {
	var tx Transaction
	if err := c.do(ctx, http.MethodGet, "/transactions/by_hash/"+hash, nil, &tx); err != nil {
		return nil, fmt.Errorf("failed to get transaction %s: %w", hash, err)
	}
	return &tx, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(data, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
