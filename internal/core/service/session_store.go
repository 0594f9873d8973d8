package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/99minutos/ims-console/internal/core/domain"
	"github.com/99minutos/ims-console/internal/core/ports"
	"github.com/99minutos/ims-console/internal/metrics"
)

// Durable keys holding the session. Both are always written and removed together.
const (
	TokenKey   = "userToken"
	ProfileKey = "userData"
)

// SessionStore owns the single client session and mirrors it to durable storage.
type SessionStore struct {
	store ports.DurableStore
	log   zerolog.Logger
	now   func() time.Time

	mu      sync.RWMutex
	current *domain.Session
}

// NewSessionStore returns an empty (unauthenticated) store. Call Load to rehydrate.
func NewSessionStore(store ports.DurableStore, log zerolog.Logger) *SessionStore {
	return &SessionStore{store: store, log: log, now: time.Now}
}

// Load rehydrates the session from durable storage. A corrupt or partial
// blob, or an expired token, clears both keys and leaves the store
// unauthenticated without returning an error.
func (s *SessionStore) Load(ctx context.Context) error {
	token, hasToken, err := s.store.Get(ctx, TokenKey)
	if err != nil {
		s.drop()
		return fmt.Errorf("load session token: %w", err)
	}
	blob, hasProfile, err := s.store.Get(ctx, ProfileKey)
	if err != nil {
		s.drop()
		return fmt.Errorf("load session profile: %w", err)
	}

	if !hasToken && !hasProfile {
		s.drop()
		return nil
	}
	if !hasToken || !hasProfile {
		s.discard(ctx, "corrupt_storage", "partial session in storage")
		return nil
	}

	var sess domain.Session
	if err := json.Unmarshal([]byte(blob), &sess); err != nil {
		s.discard(ctx, "corrupt_storage", "unparseable session profile")
		return nil
	}
	sess.Token = token
	if !sess.Valid() {
		s.discard(ctx, "corrupt_storage", "incomplete session profile")
		return nil
	}
	if tokenExpired(token, s.now()) {
		s.discard(ctx, "expired", "stored token expired")
		return nil
	}

	s.mu.Lock()
	s.current = &sess
	s.mu.Unlock()

	s.log.Debug().Str("username", sess.Username).Msg("session restored")
	return nil
}

// Set replaces the session in memory and storage. Storage is written first;
// on failure the in-memory session is left untouched.
func (s *SessionStore) Set(ctx context.Context, sess domain.Session) error {
	if !sess.Valid() {
		return domain.ErrInvalidSession
	}
	blob, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.store.SetAll(ctx, map[string]string{
		TokenKey:   sess.Token,
		ProfileKey: string(blob),
	}); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	wasAnon := s.current == nil
	s.current = &sess
	s.mu.Unlock()

	if wasAnon {
		metrics.SessionTransitionsTotal.WithLabelValues(domain.Authenticated.String(), "login").Inc()
		s.log.Info().Str("username", sess.Username).Msg("session started")
	}
	return nil
}

// Clear removes the session from memory and storage. Memory is always
// cleared, even when storage fails.
func (s *SessionStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	wasAuth := s.current != nil
	s.current = nil
	s.mu.Unlock()

	if wasAuth {
		metrics.SessionTransitionsTotal.WithLabelValues(domain.Unauthenticated.String(), "logout").Inc()
	}
	if err := s.store.Delete(ctx, TokenKey, ProfileKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Current returns a copy of the session, if any.
func (s *SessionStore) Current() (domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return domain.Session{}, false
	}
	return *s.current, true
}

// State reports whether a session is held.
func (s *SessionStore) State() domain.AuthState {
	if _, ok := s.Current(); ok {
		return domain.Authenticated
	}
	return domain.Unauthenticated
}

// Token returns the bearer token for an authenticated call. An expired JWT
// ends the session.
func (s *SessionStore) Token(ctx context.Context) (string, error) {
	sess, ok := s.Current()
	if !ok {
		return "", domain.ErrUnauthenticated
	}
	if tokenExpired(sess.Token, s.now()) {
		s.discard(ctx, "expired", "token expired")
		return "", domain.ErrSessionExpired
	}
	return sess.Token, nil
}

func (s *SessionStore) drop() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

func (s *SessionStore) discard(ctx context.Context, reason, msg string) {
	s.drop()
	metrics.SessionTransitionsTotal.WithLabelValues(domain.Unauthenticated.String(), reason).Inc()
	s.log.Warn().Str("reason", reason).Msg(msg + ", clearing session")
	if err := s.store.Delete(ctx, TokenKey, ProfileKey); err != nil {
		s.log.Error().Err(err).Msg("failed to clear stored session")
	}
}

// tokenExpired inspects the exp claim without verifying the signature;
// tokens that are not JWTs are left to the backend to judge.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(now)
}
