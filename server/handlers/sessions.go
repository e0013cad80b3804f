package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionCookie carries the visitor's session id.
const SessionCookie = "activityboard_session"

// DefaultSessionTimeout is how long an unused session is kept.
const DefaultSessionTimeout = 30 * time.Minute

// Sessions gives each browser its own Visitor, keyed by a session cookie.
type Sessions struct {
	newVisitor func() Visitor
	timeout    time.Duration
	now        func() time.Time

	mu        sync.Mutex
	sessions  map[string]*session
	lastSweep time.Time
}

type session struct {
	visitor  Visitor
	lastSeen time.Time
}

// SessionOption configures Sessions.
type SessionOption func(*Sessions)

// WithSessionTimeout sets how long an unused session is kept. Non-positive values
// keep the default.
func WithSessionTimeout(d time.Duration) SessionOption {
	return func(s *Sessions) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewSessions creates a session store that calls newVisitor for every new session.
func NewSessions(newVisitor func() Visitor, opts ...SessionOption) *Sessions {
	s := &Sessions{
		newVisitor: newVisitor,
		timeout:    DefaultSessionTimeout,
		now:        time.Now,
		sessions:   make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Visitor returns the visitor of r's session. A request without a live session
// starts a new one and the session cookie is set on w, so call it before writing
// the response.
func (s *Sessions) Visitor(w http.ResponseWriter, r *http.Request) Visitor {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep(now)

	if c, err := r.Cookie(SessionCookie); err == nil {
		if sess, ok := s.sessions[c.Value]; ok && now.Sub(sess.lastSeen) <= s.timeout {
			sess.lastSeen = now
			return sess.visitor
		}
	}

	id := uuid.NewString()
	sess := &session{visitor: s.newVisitor(), lastSeen: now}
	s.sessions[id] = sess

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return sess.visitor
}

// Len returns the number of sessions held.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// sweep drops expired sessions, at most once per timeout. Caller holds s.mu.
func (s *Sessions) sweep(now time.Time) {
	if now.Sub(s.lastSweep) < s.timeout {
		return
	}
	s.lastSweep = now
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.timeout {
			delete(s.sessions, id)
		}
	}
}
