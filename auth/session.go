package auth

import (
	"sync"
	"time"

	"github.com/itbasis/go-clock"
)

// State описывает админ-доступ в рамках одной сессии.
type State int

const (
	LoggedOut State = iota
	LoggedIn
)

func (s State) String() string {
	if s == LoggedIn {
		return "logged_in"
	}
	return "logged_out"
}

type pendingCode struct {
	address  string
	code     string
	issuedAt time.Time
}

// Session is the per-client authorization context handed to every
// mutating operation. It is safe for concurrent use.
type Session struct {
	mu            sync.Mutex
	id            string
	authenticated bool
	pending       *pendingCode
	lastSeen      time.Time
}

// NewSession returns a LoggedOut session.
func NewSession(id string) *Session {
	return &Session{id: id}
}

// ID меняется при входе, поэтому читается под мьютексом.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.authenticated {
		return LoggedIn
	}
	return LoggedOut
}

func (s *Session) setAuthenticated(v bool) {
	s.mu.Lock()
	s.authenticated = v
	s.mu.Unlock()
}

// SessionStore keeps sessions in memory. Sessions idle for longer than the
// configured TTL are dropped on the next lookup.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	idleTTL  time.Duration
	clock    clock.Clock
}

func NewSessionStore(idleTTL time.Duration, clk clock.Clock) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		idleTTL:  idleTTL,
		clock:    clk,
	}
}

// Lookup returns the live session with the given id, or nil.
func (st *SessionStore) Lookup(id string) *Session {
	if id == "" {
		return nil
	}
	now := st.clock.Now()

	st.mu.Lock()
	defer st.mu.Unlock()
	st.evictLocked(now)

	sess, ok := st.sessions[id]
	if !ok {
		return nil
	}
	sess.mu.Lock()
	sess.lastSeen = now
	sess.mu.Unlock()
	return sess
}

func (st *SessionStore) Save(sess *Session) {
	now := st.clock.Now()
	sess.mu.Lock()
	sess.lastSeen = now
	id := sess.id
	sess.mu.Unlock()

	st.mu.Lock()
	st.sessions[id] = sess
	st.mu.Unlock()
}

// Rotate moves sess to newID. The old id no longer resolves.
func (st *SessionStore) Rotate(sess *Session, newID string) {
	now := st.clock.Now()

	st.mu.Lock()
	defer st.mu.Unlock()

	sess.mu.Lock()
	oldID := sess.id
	sess.id = newID
	sess.lastSeen = now
	sess.mu.Unlock()

	if cur, ok := st.sessions[oldID]; ok && cur == sess {
		delete(st.sessions, oldID)
	}
	st.sessions[newID] = sess
}

func (st *SessionStore) Remove(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

func (st *SessionStore) evictLocked(now time.Time) {
	if st.idleTTL <= 0 {
		return
	}
	for id, sess := range st.sessions {
		sess.mu.Lock()
		idle := now.Sub(sess.lastSeen)
		sess.mu.Unlock()
		if idle > st.idleTTL {
			delete(st.sessions, id)
		}
	}
}
