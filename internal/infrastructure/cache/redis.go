package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bimakw/aptos-dex-aggregator/internal/domain/entities"
)

// Cache defines the interface for caching operations
type Cache interface {
	GetQuotes(ctx context.Context, key string) ([]entities.Quote, error)
	SetQuotes(ctx context.Context, key string, quotes []entities.Quote, ttl time.Duration) error
	GetPrice(ctx context.Context, key string) (string, error)
	SetPrice(ctx context.Context, key string, price string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RedisCache implements Cache using Redis
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache client
func NewRedisCache(addr, password string, db int) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// Client exposes the underlying connection so other stores can share it
func (c *RedisCache) Client() *redis.Client {
	return c.client
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetQuotes retrieves a cached quote list
func (c *RedisCache) GetQuotes(ctx context.Context, key string) ([]entities.Quote, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var quotes []entities.Quote
	if err := json.Unmarshal(data, &quotes); err != nil {
		return nil, err
	}

	return quotes, nil
}

// SetQuotes caches a quote list with TTL
func (c *RedisCache) SetQuotes(ctx context.Context, key string, quotes []entities.Quote, ttl time.Duration) error {
	data, err := json.Marshal(quotes)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

// GetPrice retrieves a cached price
func (c *RedisCache) GetPrice(ctx context.Context, key string) (string, error) {
	price, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil // Cache miss
		}
		return "", err
	}
	return price, nil
}

// SetPrice caches a price with TTL
func (c *RedisCache) SetPrice(ctx context.Context, key string, price string, ttl time.Duration) error {
	return c.client.Set(ctx, key, price, ttl).Err()
}

// Delete removes a key from cache
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// QuoteCacheKey generates a cache key for an aggregated quote request.
// Token identifiers are case-insensitive type tags or symbols.
func QuoteCacheKey(req entities.QuoteRequest) string {
	return fmt.Sprintf("quotes:%s:%s:%s", strings.ToLower(req.InputToken), strings.ToLower(req.OutputToken), req.InputAmount)
}

// PriceCacheKey generates a cache key for a price
func PriceCacheKey(token string) string {
	return fmt.Sprintf("price:%s", strings.ToUpper(token))
}
