package wallet

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/sha3"
)

// Aptos single-key ed25519 authentication scheme byte
const ed25519Scheme = 0x00

// Account is a local ed25519 key and its derived Aptos address
type Account struct {
	key     ed25519.PrivateKey
	Address string
}

// AccountFromHex parses a 32-byte seed or a 64-byte private key, with or
// without the 0x prefix.
func AccountFromHex(s string) (*Account, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") {
		s = "0x" + s
	}
	raw, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("invalid private key hex: %w", err)
	}

	var key ed25519.PrivateKey
	switch len(raw) {
	case ed25519.SeedSize:
		key = ed25519.NewKeyFromSeed(raw)
	case ed25519.PrivateKeySize:
		key = ed25519.PrivateKey(raw)
	default:
		return nil, fmt.Errorf("private key must be %d or %d bytes, got %d", ed25519.SeedSize, ed25519.PrivateKeySize, len(raw))
	}

	pub := key.Public().(ed25519.PublicKey)
	return &Account{key: key, Address: DeriveAddress(pub)}, nil
}

// AccountsFromEnv reads a comma separated list of hex keys from envVar.
// A .env file in the working directory is loaded first when present.
func AccountsFromEnv(envVar string) ([]*Account, error) {
	_ = godotenv.Load() // best-effort
	value := os.Getenv(envVar)
	if value == "" {
		return nil, fmt.Errorf("%s not set", envVar)
	}

	var accounts []*Account
	for _, part := range strings.Split(value, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		acct, err := AccountFromHex(part)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acct)
	}
	if len(accounts) == 0 {
		return nil, errors.New("no keys found in " + envVar)
	}
	return accounts, nil
}

// DeriveAddress computes sha3-256(pubkey || scheme)
func DeriveAddress(pub ed25519.PublicKey) string {
	h := sha3.New256()
	h.Write(pub)
	h.Write([]byte{ed25519Scheme})
	return hexutil.Encode(h.Sum(nil))
}

func (a *Account) PublicKey() ed25519.PublicKey {
	return a.key.Public().(ed25519.PublicKey)
}

func (a *Account) Sign(msg []byte) []byte {
	return ed25519.Sign(a.key, msg)
}
