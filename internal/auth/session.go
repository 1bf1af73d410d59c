package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// SessionStore keeps login sessions in memory. Tokens are random and opaque;
// restarting the process logs everyone out, which is acceptable for a
// single-instance deployment.
type SessionStore struct {
	mu           sync.Mutex
	sessions     map[string]session
	ttl          time.Duration
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type session struct {
	userID    int64
	expiresAt time.Time
}

const defaultSessionTTL = 7 * 24 * time.Hour

// NewSessionStore creates a session store with the given time-to-live and
// starts the background cleanup of expired sessions.
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	s := &SessionStore{
		sessions:    make(map[string]session),
		ttl:         ttl,
		stopCleanup: make(chan struct{}),
	}
	go s.startCleanup()
	return s
}

// Create opens a session for the user and returns its token.
func (s *SessionStore) Create(userID int64) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	token := hex.EncodeToString(buf)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = session{
		userID:    userID,
		expiresAt: time.Now().Add(s.ttl),
	}
	return token, nil
}

// Get resolves a token to its user. Expired sessions are treated as absent
// and removed on the spot.
func (s *SessionStore) Get(token string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return 0, false
	}
	if time.Now().After(sess.expiresAt) {
		delete(s.sessions, token)
		return 0, false
	}
	return sess.userID, true
}

// Delete ends a session. Deleting an unknown token is a no-op.
func (s *SessionStore) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

func (s *SessionStore) startCleanup() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.removeExpired()
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *SessionStore) removeExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for token, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, token)
		}
	}
}

// Shutdown stops the cleanup goroutine. Safe to call more than once.
func (s *SessionStore) Shutdown() {
	s.shutdownOnce.Do(func() {
		close(s.stopCleanup)
	})
}
