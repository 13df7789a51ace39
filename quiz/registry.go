package quiz

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry holds server-side sessions for clients that drive the attempt over
// the hosted session API instead of running the state machine themselves.
// Sessions are transient: they are removed on completion and swept by the
// cleanup job once their lifetime is over.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*registryEntry
	ttl      time.Duration
}

type registryEntry struct {
	session   *Session
	createdAt time.Time
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*registryEntry),
		ttl:      ttl,
	}
}

// Put stores a session and returns its opaque token.
func (r *Registry) Put(s *Session) string {
	token := uuid.NewString()
	r.mu.Lock()
	r.sessions[token] = &registryEntry{session: s, createdAt: time.Now()}
	r.mu.Unlock()
	return token
}

func (r *Registry) Get(token string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.sessions[token]
	if !ok {
		return nil, false
	}
	return entry.session, true
}

func (r *Registry) Remove(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.sessions[token]; ok {
		entry.session.Abandon()
		delete(r.sessions, token)
	}
}

// PurgeExpired drops completed sessions and any session older than the
// registry's lifetime, abandoning ones still in flight. Returns the number of
// sessions removed.
func (r *Registry) PurgeExpired() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	now := time.Now()
	for token, entry := range r.sessions {
		if entry.session.State() == StateCompleted || now.Sub(entry.createdAt) > r.ttl {
			entry.session.Abandon()
			delete(r.sessions, token)
			removed++
		}
	}
	return removed
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
