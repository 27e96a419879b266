package entities

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.yaml")
	content := `tokens:
  - symbol: APT
    type_tag: "0x1::aptos_coin::AptosCoin"
    name: Aptos Coin
    decimals: 8
    coingecko_id: aptos
  - symbol: THL
    type_tag: "0x7fd500c11216f0fe3095d0c4b8aa4d64a4e2e04f83758462f2b127255643615::thl_coin::THL"
    name: Thala Token
    decimals: 8
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	r := NewTokenRegistry()
	require.NoError(t, r.LoadFromFile(path))
	assert.Equal(t, 2, r.Count())

	apt, ok := r.GetBySymbol("apt")
	require.True(t, ok)
	assert.Equal(t, uint8(8), apt.Decimals)
	assert.Equal(t, "aptos", apt.CoingeckoID)
}

func TestLoadFromFileRejectsIncompleteToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tokens:\n  - symbol: X\n"), 0o644))

	err := NewTokenRegistry().LoadFromFile(path)
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	r := DefaultRegistry()

	tok, ok := r.Resolve(USDC.TypeTag)
	require.True(t, ok)
	assert.Equal(t, "USDC", tok.Symbol)

	tok, ok = r.Resolve("usdt")
	require.True(t, ok)
	assert.Equal(t, "USDT", tok.Symbol)

	tok, ok = r.Resolve("0xabc::wrapped::CAKE")
	require.True(t, ok)
	assert.Equal(t, "CAKE", tok.Symbol)

	_, ok = r.Resolve("0xdead::doge::DOGE")
	assert.False(t, ok)
}

func TestDecimalsFor(t *testing.T) {
	r := DefaultRegistry()

	assert.Equal(t, uint8(8), r.DecimalsFor("0x1::aptos_coin::AptosCoin"))
	assert.Equal(t, uint8(6), r.DecimalsFor("0xf22::asset::USDC"))
	assert.Equal(t, DefaultDecimals, r.DecimalsFor("0xdead::doge::DOGE"))
	assert.Equal(t, "DOGE", r.SymbolFor("doge"))
	assert.Equal(t, "0xdead::doge::DOGE", r.TypeTagFor("0xdead::doge::DOGE"))
}

func TestGetAllReturnsCopy(t *testing.T) {
	r := DefaultRegistry()
	all := r.GetAll()
	all[0].Symbol = "MUTATED"

	tok, ok := r.GetBySymbol("APT")
	require.True(t, ok)
	assert.Equal(t, "APT", tok.Symbol)
	assert.Equal(t, "APT", r.GetAll()[0].Symbol)
}
