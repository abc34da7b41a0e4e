// Package session implements the session gateway: sign-in against configured
// credentials, bearer-token lookup, sign-out, and state-change notification.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"kassa/internal/cache"
)

// maxSessions caps live tokens; the oldest session is evicted beyond it.
const maxSessions = 1024

var ErrInvalidCredentials = errors.New("invalid credentials")

// Unsubscribe releases a state-change subscription. Safe to call twice.
type Unsubscribe func()

// Session is an authenticated identity with a bearer token.
type Session struct {
	Token     string
	Email     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Manager validates credentials and tracks live sessions. Change callbacks
// receive the session on sign-in and nil on sign-out or expiry.
type Manager struct {
	mu       sync.Mutex
	creds    map[string]string
	ttl      time.Duration
	sessions *cache.LRUCache[Session]
	next     int
	subs     map[int]func(*Session)
	now      func() time.Time
}

func NewManager(creds map[string]string, ttl time.Duration) *Manager {
	m := &Manager{
		creds:    creds,
		ttl:      ttl,
		sessions: cache.NewLRUCache[Session](maxSessions, ttl),
		subs:     make(map[int]func(*Session)),
		now:      time.Now,
	}
	m.sessions.SetClock(func() time.Time { return m.now() })
	return m
}

// ExpirySweeper exposes the token store for periodic expiry sweeps.
func (m *Manager) ExpirySweeper() cache.Cleaner {
	return m.sessions
}

// SignIn validates the credential pair and issues a session token.
// Failures are terminal for the attempt; nothing is retried.
func (m *Manager) SignIn(_ context.Context, email, password string) (Session, error) {
	m.mu.Lock()
	want, ok := m.creds[email]
	if !ok || want != password {
		m.mu.Unlock()
		return Session{}, ErrInvalidCredentials
	}

	now := m.now()
	s := Session{
		Token:     newToken(),
		Email:     email,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	m.sessions.Set(s.Token, s)
	fns := m.callbacks()
	m.mu.Unlock()

	for _, fn := range fns {
		fn(&s)
	}
	return s, nil
}

// SignOut ends the session for token. Unknown tokens are a no-op.
func (m *Manager) SignOut(_ context.Context, token string) error {
	m.mu.Lock()
	_, existed := m.sessions.Get(token)
	m.sessions.Delete(token)
	var fns []func(*Session)
	if existed {
		fns = m.callbacks()
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(nil)
	}
	return nil
}

// Lookup resolves a bearer token to its session. Expired sessions are
// dropped by the token store and reported as absent.
func (m *Manager) Lookup(token string) (Session, bool) {
	return m.sessions.Get(token)
}

// OnChange registers fn for sign-in/sign-out notifications.
func (m *Manager) OnChange(fn func(*Session)) Unsubscribe {
	m.mu.Lock()
	id := m.next
	m.next++
	m.subs[id] = fn
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.mu.Unlock()
		})
	}
}

// callers must hold m.mu
func (m *Manager) callbacks() []func(*Session) {
	fns := make([]func(*Session), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	return fns
}

func newToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("session: crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(b)
}
