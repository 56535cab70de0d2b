// Package session provides the in-memory visitor session store the
// capture pipeline writes its buckets into. Sessions are keyed by a
// cookie, expire on inactivity, and hold arbitrary values grouped
// under bucket keys.
package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Bucket keys used by the capture pipeline.
const (
	BucketUTM     = "mm_utm_values"
	BucketSource  = "mm_source_values"
	BucketCookies = "mm_cookie_values"
)

// DefaultCookieName is the session cookie written when none is
// configured.
const DefaultCookieName = "clicktrail_session"

// Session is one visitor's mutable value bag. Safe for concurrent use.
type Session struct {
	ID string

	mu     sync.RWMutex
	values map[string]any
}

// Get returns the value stored under key.
func (s *Session) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// GetMap returns the value under key as a map, or an empty map when
// absent or of another shape.
func (s *Session) GetMap(key string) map[string]any {
	v, ok := s.Get(key)
	if !ok {
		return map[string]any{}
	}
	m, ok := v.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return m
}

// Put stores value under key.
func (s *Session) Put(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Has reports whether key is present.
func (s *Session) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Pull returns the value under key and removes it.
func (s *Session) Pull(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if ok {
		delete(s.values, key)
	}
	return v, ok
}

// Forget removes key.
func (s *Session) Forget(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// Flush drops every value but keeps the session alive.
func (s *Session) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = map[string]any{}
}

type entry struct {
	sess    *Session
	expires time.Time
}

// Store holds live sessions. Expired sessions are reaped lazily on
// lookup.
type Store struct {
	cookieName string
	ttl        time.Duration

	mu       sync.Mutex
	sessions map[string]*entry
	now      func() time.Time
}

// NewStore builds a store. An empty cookieName falls back to
// DefaultCookieName; a non-positive ttl falls back to 30 minutes.
func NewStore(cookieName string, ttl time.Duration) *Store {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Store{
		cookieName: cookieName,
		ttl:        ttl,
		sessions:   map[string]*entry{},
		now:        time.Now,
	}
}

// Load returns the session for id, creating it when missing or
// expired. Access extends the expiry.
func (s *Store) Load(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if e, ok := s.sessions[id]; ok && now.Before(e.expires) {
		e.expires = now.Add(s.ttl)
		return e.sess
	}
	sess := &Session{ID: id, values: map[string]any{}}
	s.sessions[id] = &entry{sess: sess, expires: now.Add(s.ttl)}
	return sess
}

// Peek returns the live session for id without creating one.
func (s *Store) Peek(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok || !s.now().Before(e.expires) {
		return nil, false
	}
	return e.sess, true
}

// Destroy drops the session for id.
func (s *Store) Destroy(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Sweep removes every expired session and reports how many were
// dropped.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for id, e := range s.sessions {
		if !now.Before(e.expires) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Start resolves the request's session from its cookie, minting a new
// id and setting the cookie when absent.
func (s *Store) Start(w http.ResponseWriter, r *http.Request) *Session {
	if c, err := r.Cookie(s.cookieName); err == nil && c.Value != "" {
		// Load rather than Peek so an active visitor keeps
		// extending the expiry.
		if _, ok := s.Peek(c.Value); ok {
			return s.Load(c.Value)
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(s.ttl / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s.Load(id)
}

// End destroys the request's session and clears the cookie.
func (s *Store) End(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(s.cookieName); err == nil && c.Value != "" {
		s.Destroy(c.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// CookieName returns the configured session cookie name.
func (s *Store) CookieName() string { return s.cookieName }
