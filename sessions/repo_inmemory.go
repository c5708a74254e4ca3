package sessions

import (
	"fmt"
	"sync"
	"time"

	"github.com/jrsteele09/go-oidc-gateway/internal/errors"
)

// InMemorySessionRepo is an in-memory implementation of Repo. Entries are
// independent per session ID, so concurrent browsers never contend beyond the
// repo's own lock. A single-process map will not survive a multi-instance
// deployment; anything external stays behind the Repo interface.
type InMemorySessionRepo struct {
	mu       sync.RWMutex
	sessions map[string]Session
	now      func() time.Time
}

// NewInMemorySessionRepo creates a new in-memory session repository
func NewInMemorySessionRepo() *InMemorySessionRepo {
	return &InMemorySessionRepo{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// Upsert creates or updates a session (last writer wins)
func (r *InMemorySessionRepo) Upsert(sessionID string, session Session) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[sessionID] = session
	return nil
}

// Get retrieves a session by ID. Expired entries read as absent and are
// removed lazily.
func (r *InMemorySessionRepo) Get(sessionID string) (Session, error) {
	if sessionID == "" {
		return Session{}, fmt.Errorf("sessionID is required")
	}

	r.mu.RLock()
	session, ok := r.sessions[sessionID]
	r.mu.RUnlock()

	if !ok {
		return Session{}, errors.ErrSessionNotFound
	}

	if !session.ExpiresAt.IsZero() && session.ExpiresAt.Before(r.now()) {
		r.mu.Lock()
		delete(r.sessions, sessionID)
		r.mu.Unlock()
		return Session{}, errors.ErrSessionExpired
	}

	return session, nil
}

// Delete removes a session. Deleting an absent session is not an error.
func (r *InMemorySessionRepo) Delete(sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, sessionID)
	return nil
}

// Len reports the number of stored sessions, expired or not
func (r *InMemorySessionRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

var _ Repo = (*InMemorySessionRepo)(nil)
