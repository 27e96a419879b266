package cache

import (
	"context"
	"sync"
	"time"

	"github.com/bimakw/aptos-dex-aggregator/internal/domain/entities"
)

// InMemoryCache implements Cache using in-memory storage (for testing/development)
type InMemoryCache struct {
	mu     sync.Mutex
	quotes map[string]*cachedQuotes
	prices map[string]*cachedPrice
	now    func() time.Time
}

type cachedQuotes struct {
	quotes    []entities.Quote
	expiresAt time.Time
}

type cachedPrice struct {
	price     string
	expiresAt time.Time
}

// NewInMemoryCache creates a new in-memory cache
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		quotes: make(map[string]*cachedQuotes),
		prices: make(map[string]*cachedPrice),
		now:    time.Now,
	}
}

func (c *InMemoryCache) GetQuotes(ctx context.Context, key string) ([]entities.Quote, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cached, ok := c.quotes[key]; ok {
		if c.now().Before(cached.expiresAt) {
			return append([]entities.Quote(nil), cached.quotes...), nil
		}
		delete(c.quotes, key)
	}
	return nil, nil
}

func (c *InMemoryCache) SetQuotes(ctx context.Context, key string, quotes []entities.Quote, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.quotes[key] = &cachedQuotes{
		quotes:    append([]entities.Quote(nil), quotes...),
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

func (c *InMemoryCache) GetPrice(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cached, ok := c.prices[key]; ok {
		if c.now().Before(cached.expiresAt) {
			return cached.price, nil
		}
		delete(c.prices, key)
	}
	return "", nil
}

func (c *InMemoryCache) SetPrice(ctx context.Context, key string, price string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prices[key] = &cachedPrice{
		price:     price,
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

func (c *InMemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.quotes, key)
	delete(c.prices, key)
	return nil
}
