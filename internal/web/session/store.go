// Package session keeps per-browser state for the web UI. Each session owns
// the map viewport shown next to the member detail.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	"github.com/good-yellow-bee/modites/internal/metrics"
	"github.com/good-yellow-bee/modites/internal/models"
)

// CookieName is the session cookie.
const CookieName = "modites_session"

type Session struct {
	ID        string
	CreatedAt time.Time
	ExpiresAt time.Time

	mu       sync.RWMutex
	viewport models.Viewport
}

// Viewport returns the session's map viewport.
func (s *Session) Viewport() models.Viewport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewport
}

// SetViewport replaces the session's map viewport.
func (s *Session) SetViewport(vp models.Viewport) {
	s.mu.Lock()
	s.viewport = vp
	s.mu.Unlock()
}

type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	done     chan struct{}
	once     sync.Once
}

func NewStore(ttl time.Duration) *Store {
	s := &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		done:     make(chan struct{}),
	}
	go s.cleanup()
	return s
}

// TTL returns the session lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

func (s *Store) Create() (*Session, error) {
	id, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &Session{
		ID:        id,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
		viewport:  models.DefaultViewport(),
	}

	s.mu.Lock()
	s.sessions[id] = session
	n := len(s.sessions)
	s.mu.Unlock()
	metrics.SessionsActive.Set(float64(n))

	return session, nil
}

func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok || time.Now().After(session.ExpiresAt) {
		return nil, false
	}
	return session, true
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	n := len(s.sessions)
	s.mu.Unlock()
	metrics.SessionsActive.Set(float64(n))
}

// Len returns the number of stored sessions, expired ones included until
// the next cleanup.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops the cleanup loop.
func (s *Store) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *Store) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.purgeExpired(time.Now())
		}
	}
}

func (s *Store) purgeExpired(now time.Time) {
	s.mu.Lock()
	for id, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, id)
		}
	}
	n := len(s.sessions)
	s.mu.Unlock()
	metrics.SessionsActive.Set(float64(n))
}

func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored in ctx, or nil.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(contextKey{}).(*Session); ok {
		return s
	}
	return nil
}
