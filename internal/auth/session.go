// Package auth manages accounts and sessions: sign-up, sign-in, sign-out,
// profile updates, password resets, guest identities and a typed
// subscription for session changes.
package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/almajid/internal/models"
)

// Session is an authenticated caller. It lives from sign-in until sign-out
// or token expiry and is replaced wholesale on every auth event.
type Session struct {
	Token     string      `json:"access_token,omitempty"`
	TokenID   string      `json:"-"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      models.User `json:"user"`
	IsAdmin   bool        `json:"is_admin"`
}

// Identifier is the user identifier recorded on favorites and reviews.
func (s *Session) Identifier() string {
	return s.User.Email
}

// EventKind names a session change.
type EventKind string

const (
	EventSignedIn         EventKind = "SIGNED_IN"
	EventSignedOut        EventKind = "SIGNED_OUT"
	EventUserUpdated      EventKind = "USER_UPDATED"
	EventPasswordRecovery EventKind = "PASSWORD_RECOVERY"
)

// Event is delivered to listeners. Session is nil for EventSignedOut and
// EventPasswordRecovery.
type Event struct {
	Kind    EventKind
	Email   string
	Session *Session
}

// Listener receives session changes.
type Listener interface {
	OnAuthEvent(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

func (f ListenerFunc) OnAuthEvent(e Event) { f(e) }

// Hub fans session events out to subscribers.
type Hub struct {
	mu        sync.RWMutex
	listeners map[uuid.UUID]Listener
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{listeners: make(map[uuid.UUID]Listener)}
}

// Subscribe registers l and returns a function that removes it.
func (h *Hub) Subscribe(l Listener) (unsubscribe func()) {
	id := uuid.New()
	h.mu.Lock()
	h.listeners[id] = l
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.listeners, id)
			h.mu.Unlock()
		})
	}
}

// Publish delivers e to every subscriber synchronously.
func (h *Hub) Publish(e Event) {
	h.mu.RLock()
	targets := make([]Listener, 0, len(h.listeners))
	for _, l := range h.listeners {
		targets = append(targets, l)
	}
	h.mu.RUnlock()

	for _, l := range targets {
		l.OnAuthEvent(e)
	}
}
