package session

import (
	"sync"
	"sync/atomic"
)

// State enumerates the session lifecycle. A session starts Bootstrapping and always
// settles in exactly one of Authenticated or Anonymous.
type State int

const (
	Bootstrapping State = iota
	Authenticated
	Anonymous
)

func (s State) String() string {
	switch s {
	case Bootstrapping:
		return "bootstrapping"
	case Authenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// Session is the single owner of "who is logged in". All reads go through its
// accessors; nothing else mutates the underlying token/user pair.
type Session struct {
	mu      sync.RWMutex
	state   State
	token   string
	user    *User
	expired uint32 // guards Expire side effects; at most one per session value
}

func New() *Session {
	return &Session{state: Bootstrapping}
}

// Bootstrap settles the session from a persisted token/user pair.
//
// When a non-validated token is present, validate is called exactly once; any error
// (network included) is swallowed and the session ends Anonymous. The returned bool
// reports whether the persisted pair is still good — false means the caller must
// clear its copy.
func (s *Session) Bootstrap(token string, usr *User, validated bool, validate func(token string) error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token == "" || usr == nil {
		s.state = Anonymous
		return token == "" && usr == nil
	}
	if !validated {
		if err := validate(token); err != nil {
			s.state = Anonymous
			return false
		}
	}
	s.state = Authenticated
	s.token = token
	s.user = usr
	return true
}

// Login transitions to Authenticated. The caller is responsible for having already
// obtained the token from the backend; no network call happens here.
func (s *Session) Login(usr User, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Authenticated
	s.token = token
	s.user = &usr
}

// Logout transitions to Anonymous and nulls the token/user pair. Calling the backend
// logout endpoint is the caller's business, best-effort.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Anonymous
	s.token = ""
	s.user = nil
}

// UpdateUser replaces the user record in place without touching the token.
func (s *Session) UpdateUser(usr User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Authenticated {
		s.user = &usr
	}
}

// Expire tears the session down and runs fn at most once, however many concurrent
// callers observe an authentication failure.
func (s *Session) Expire(fn func()) {
	if !atomic.CompareAndSwapUint32(&s.expired, 0, 1) {
		return
	}
	s.Logout()
	if fn != nil {
		fn()
	}
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Loading is true only while the session is still bootstrapping; role-gated content
// must not render yet.
func (s *Session) Loading() bool {
	return s.State() == Bootstrapping
}

func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == Authenticated && s.token != "" && s.user != nil
}

// Token returns the bearer token, or "" when anonymous.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != Authenticated {
		return ""
	}
	return s.token
}

// User returns a copy of the current user record, or nil when anonymous.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != Authenticated || s.user == nil {
		return nil
	}
	usr := *s.user
	return &usr
}

func (s *Session) HasRole(role string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != Authenticated {
		return false
	}
	return s.user.HasRole(role)
}

func (s *Session) IsAdmin() bool      { return s.HasRole(RoleAdmin) }
func (s *Session) IsInstructor() bool { return s.HasRole(RoleInstructor) }
func (s *Session) IsStudent() bool    { return s.HasRole(RoleStudent) }
