package session

import "sync"

// Store is an in-memory session registry keyed by user id. Sessions
// are created lazily on first access.
type Store struct {
	mu          sync.RWMutex
	sessions    map[int64]*Session
	defaultLang string
}

// NewStore creates a Store. defaultLang is assigned to new sessions
// until the user's profile language is resolved.
func NewStore(defaultLang string) *Store {
	return &Store{
		sessions:    make(map[int64]*Session),
		defaultLang: defaultLang,
	}
}

// Snapshot returns a copy of the user's session. Mutating the copy
// does not affect the store except for the shared Cart map, so callers
// must go through Update for writes.
func (s *Store) Snapshot(userID int64) Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[userID]; ok {
		return *sess
	}
	return Session{UserID: userID, Lang: s.defaultLang, Draft: Draft{Stage: StageIdle}}
}

// Update applies fn to the user's session under the store lock,
// creating the session first if needed.
func (s *Store) Update(userID int64, fn func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.locked(userID)
	fn(sess)
}

// Lang returns the user's resolved language.
func (s *Store) Lang(userID int64) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[userID]; ok {
		return sess.Lang
	}
	return s.defaultLang
}

// SetLang stores the user's resolved language.
func (s *Store) SetLang(userID int64, lang string) {
	s.Update(userID, func(sess *Session) {
		sess.Lang = lang
	})
}

// Stage returns the user's current checkout stage.
func (s *Store) Stage(userID int64) Stage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[userID]; ok {
		return sess.Draft.Stage
	}
	return StageIdle
}

// Cart returns a copy of the user's cart.
func (s *Store) Cart(userID int64) map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]int)
	if sess, ok := s.sessions[userID]; ok {
		for id, qty := range sess.Cart {
			out[id] = qty
		}
	}
	return out
}

// locked returns the session for userID, creating it if absent.
// Callers must hold the write lock.
func (s *Store) locked(userID int64) *Session {
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &Session{
			UserID: userID,
			Lang:   s.defaultLang,
			Cart:   make(map[string]int),
			Draft:  Draft{Stage: StageIdle},
		}
		s.sessions[userID] = sess
	}
	if sess.Cart == nil {
		sess.Cart = make(map[string]int)
	}
	return sess
}
