package notify

import (
	"sync"

	"github.com/google/uuid"
)

// Session is one live client connection able to receive server events.
type Session interface {
	Send(event string) error
}

// Registry maps customer ids to the sessions that announced them. It belongs to
// the transport layer; the waitlist only reaches it through Notifier.
type Registry struct {
	mu       sync.RWMutex
	sessions map[int64]map[string]Session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[int64]map[string]Session),
	}
}

// Register binds s to customerID and returns the session id used to unregister it.
func (r *Registry) Register(customerID int64, s Session) string {
	id := uuid.New().String()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sessions[customerID] == nil {
		r.sessions[customerID] = make(map[string]Session)
	}
	r.sessions[customerID][id] = s

	return id
}

func (r *Registry) Unregister(customerID int64, sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions[customerID], sessionID)
	if len(r.sessions[customerID]) == 0 {
		delete(r.sessions, customerID)
	}
}

func (r *Registry) SessionsFor(customerID int64) []Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Session, 0, len(r.sessions[customerID]))
	for _, s := range r.sessions[customerID] {
		out = append(out, s)
	}
	return out
}

// Forget drops every session bound to customerID.
func (r *Registry) Forget(customerID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, customerID)
}
