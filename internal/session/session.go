// Package session keeps signed-in user profiles server side and exposes
// the current one to handlers through the request context.
package session

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bimakw/aptos-dex-aggregator/internal/domain/entities"
	"github.com/bimakw/aptos-dex-aggregator/internal/infrastructure/cache"
)

const (
	HeaderName = "X-Session-ID"
	CookieName = "session_id"
)

var (
	ErrNoSession      = errors.New("no active session")
	ErrInvalidProfile = errors.New("profile needs a name or email")
)

// Session is a signed-in user
type Session struct {
	ID      string               `json:"id"`
	Profile entities.UserProfile `json:"profile"`
}

// Manager owns the session lifecycle: Login populates, Logout clears
type Manager struct {
	store cache.SessionStore
	ttl   time.Duration
	log   zerolog.Logger
}

func NewManager(store cache.SessionStore, ttl time.Duration, log zerolog.Logger) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{
		store: store,
		ttl:   ttl,
		log:   log.With().Str("component", "session").Logger(),
	}
}

// TTL is how long a session lives without being renewed
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Login stores profile under a new session id. A profile without an id
// gets one.
func (m *Manager) Login(ctx context.Context, profile entities.UserProfile) (*Session, error) {
	profile.Name = strings.TrimSpace(profile.Name)
	profile.Email = strings.TrimSpace(profile.Email)
	if profile.Name == "" && profile.Email == "" {
		return nil, ErrInvalidProfile
	}
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}

	s := &Session{ID: uuid.NewString(), Profile: profile}
	if err := m.store.Save(ctx, s.ID, profile, m.ttl); err != nil {
		return nil, err
	}

	m.log.Info().Str("user", profile.ID).Msg("login")
	return s, nil
}

// Logout clears the session; unknown ids are not an error
func (m *Manager) Logout(ctx context.Context, id string) error {
	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}
	m.log.Info().Str("session", id).Msg("logout")
	return nil
}

// Get loads a session by id
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrNoSession
	}
	profile, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNoSession
	}
	return &Session{ID: id, Profile: *profile}, nil
}

// Middleware attaches the caller's session, if any, to the request context
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := IDFromRequest(r)
		if id != "" {
			s, err := m.Get(r.Context(), id)
			switch {
			case err == nil:
				r = r.WithContext(WithSession(r.Context(), s))
			case !errors.Is(err, ErrNoSession):
				m.log.Warn().Err(err).Msg("session lookup failed")
			}
		}
		next.ServeHTTP(w, r)
	})
}

// IDFromRequest reads the session id from the header, then the cookie
func IDFromRequest(r *http.Request) string {
	if id := r.Header.Get(HeaderName); id != "" {
		return id
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

type contextKey struct{}

// WithSession returns a context carrying s
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session attached by Middleware
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok && s != nil
}
