package entities

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultDecimals is assumed for identifiers that match no registered token.
const DefaultDecimals uint8 = 8

// TokensConfig represents the tokens.yaml structure
type TokensConfig struct {
	Tokens []Token `yaml:"tokens"`
}

// TokenRegistry holds loaded tokens indexed by type tag and symbol.
// It is filled once at startup and only read afterwards.
type TokenRegistry struct {
	byTypeTag map[string]Token
	bySymbol  map[string]Token
	all       []Token
}

// NewTokenRegistry creates a new token registry
func NewTokenRegistry() *TokenRegistry {
	return &TokenRegistry{
		byTypeTag: make(map[string]Token),
		bySymbol:  make(map[string]Token),
		all:       make([]Token, 0),
	}
}

// LoadFromFile loads tokens from a YAML config file
func (r *TokenRegistry) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read token config: %w", err)
	}

	var config TokensConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("failed to parse token config: %w", err)
	}

	for i, token := range config.Tokens {
		if token.Symbol == "" || token.TypeTag == "" {
			return fmt.Errorf("token %d: symbol and type_tag are required", i)
		}
		r.Register(token)
	}

	return nil
}

// Register adds a token to the registry
func (r *TokenRegistry) Register(token Token) {
	r.byTypeTag[strings.ToLower(token.TypeTag)] = token
	r.bySymbol[strings.ToUpper(token.Symbol)] = token
	r.all = append(r.all, token)
}

// GetByTypeTag returns a token by its Move type identifier
func (r *TokenRegistry) GetByTypeTag(typeTag string) (Token, bool) {
	token, ok := r.byTypeTag[strings.ToLower(typeTag)]
	return token, ok
}

// GetBySymbol returns a token by its symbol
func (r *TokenRegistry) GetBySymbol(symbol string) (Token, bool) {
	token, ok := r.bySymbol[strings.ToUpper(symbol)]
	return token, ok
}

// Resolve maps an opaque token identifier to a registered token. Exact type
// tag and symbol matches win; otherwise the first registered symbol contained
// in the identifier is used.
func (r *TokenRegistry) Resolve(identifier string) (Token, bool) {
	if token, ok := r.GetByTypeTag(identifier); ok {
		return token, true
	}
	if token, ok := r.GetBySymbol(identifier); ok {
		return token, true
	}

	upper := strings.ToUpper(identifier)
	for _, token := range r.all {
		if strings.Contains(upper, strings.ToUpper(token.Symbol)) {
			return token, true
		}
	}
	return Token{}, false
}

// DecimalsFor infers the decimal precision of an identifier
func (r *TokenRegistry) DecimalsFor(identifier string) uint8 {
	if token, ok := r.Resolve(identifier); ok {
		return token.Decimals
	}
	return DefaultDecimals
}

// SymbolFor returns the registered symbol for an identifier, or the
// identifier itself upper-cased when nothing matches.
func (r *TokenRegistry) SymbolFor(identifier string) string {
	if token, ok := r.Resolve(identifier); ok {
		return token.Symbol
	}
	return strings.ToUpper(identifier)
}

// TypeTagFor returns the type tag to use on chain for an identifier
func (r *TokenRegistry) TypeTagFor(identifier string) string {
	if token, ok := r.Resolve(identifier); ok {
		return token.TypeTag
	}
	return identifier
}

// GetAll returns all registered tokens
func (r *TokenRegistry) GetAll() []Token {
	out := make([]Token, len(r.all))
	copy(out, r.all)
	return out
}

// Count returns the number of registered tokens
func (r *TokenRegistry) Count() int {
	return len(r.all)
}

// DefaultRegistry returns a registry with hardcoded default tokens
// Use this as fallback if config file is not available
func DefaultRegistry() *TokenRegistry {
	r := NewTokenRegistry()
	r.Register(APT)
	r.Register(USDC)
	r.Register(USDT)
	r.Register(WETH)
	r.Register(CAKE)
	return r
}
