package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bimakw/aptos-dex-aggregator/internal/domain/entities"
)

// SessionStore persists signed-in user profiles by session id
type SessionStore interface {
	Save(ctx context.Context, id string, profile entities.UserProfile, ttl time.Duration) error
	Load(ctx context.Context, id string) (*entities.UserProfile, error)
	Delete(ctx context.Context, id string) error
}

func sessionKey(id string) string {
	return "session:" + id
}

// RedisSessionStore keeps sessions in Redis
type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (s *RedisSessionStore) Save(ctx context.Context, id string, profile entities.UserProfile, ttl time.Duration) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(id), data, ttl).Err()
}

// Load returns nil without error when the session does not exist
func (s *RedisSessionStore) Load(ctx context.Context, id string) (*entities.UserProfile, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var profile entities.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionKey(id)).Err()
}

// InMemorySessionStore keeps sessions in process memory
type InMemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]cachedSession
	now      func() time.Time
}

type cachedSession struct {
	profile   entities.UserProfile
	expiresAt time.Time
}

func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		sessions: make(map[string]cachedSession),
		now:      time.Now,
	}
}

func (s *InMemorySessionStore) Save(ctx context.Context, id string, profile entities.UserProfile, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[id] = cachedSession{profile: profile, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *InMemorySessionStore) Load(ctx context.Context, id string) (*entities.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cached, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	if !s.now().Before(cached.expiresAt) {
		delete(s.sessions, id)
		return nil, nil
	}
	profile := cached.profile
	return &profile, nil
}

func (s *InMemorySessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}
