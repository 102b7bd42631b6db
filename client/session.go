package client

import (
	"encoding/json"
	"strings"
	"sync"

	"devsocial/internal/models"

	"github.com/rs/zerolog/log"
)

// State is the session lifecycle state visible to consumers
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateAuthenticated
	StateAnonymous
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "uninitialized"
	}
}

const (
	tokenKey = "token"
	userKey  = "user.json"

	// placeholderPrefix marks tokens left behind by earlier mocked builds;
	// they are purged on load.
	placeholderPrefix = "mock_token"
)

// Session is the single source of truth for "is anyone logged in, and as
// whom". It owns the durable persistence of the token and a profile
// snapshot; storage failures never block a state transition.
type Session struct {
	mu    sync.Mutex
	state State
	token string
	user  *models.User
	store Storage
}

// NewSession creates a session in the Uninitialized state
func NewSession(store Storage) *Session {
	return &Session{state: StateUninitialized, store: store}
}

// Load reads the persisted token and transitions to Authenticated or
// Anonymous. This is the only point where placeholder or unreadable
// tokens are proactively purged from storage.
func (s *Session) Load() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateLoading

	data, err := s.store.Read(tokenKey)
	token := strings.TrimSpace(string(data))
	if err != nil || token == "" || strings.HasPrefix(token, placeholderPrefix) {
		if err == nil && token != "" {
			log.Debug().Msg("Purging placeholder token from storage")
		}
		s.clearStored()
		s.state = StateAnonymous
		s.token = ""
		s.user = nil
		return s.state
	}

	s.token = token
	if userData, err := s.store.Read(userKey); err == nil {
		var user models.User
		if json.Unmarshal(userData, &user) == nil {
			s.user = &user
		}
	}
	s.state = StateAuthenticated
	return s.state
}

// SignIn persists the token and profile snapshot and transitions to
// Authenticated. Persistence failures are logged; the in-memory state
// transitions regardless, so memory and storage can diverge until the
// next successful sign-in.
func (s *Session) SignIn(token string, user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Write(tokenKey, []byte(token)); err != nil {
		log.Error().Err(err).Msg("Failed to persist session token")
	}
	if user != nil {
		if data, err := json.Marshal(user); err == nil {
			if err := s.store.Write(userKey, data); err != nil {
				log.Warn().Err(err).Msg("Failed to persist profile snapshot")
			}
		}
	}

	s.token = token
	s.user = user
	s.state = StateAuthenticated
}

// SignOut clears the persisted artifacts best-effort and unconditionally
// transitions to Anonymous; logout is never blocked by storage errors.
func (s *Session) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearStored()
	s.token = ""
	s.user = nil
	s.state = StateAnonymous
}

func (s *Session) clearStored() {
	if err := s.store.Delete(tokenKey); err != nil {
		log.Warn().Err(err).Msg("Failed to clear stored token")
	}
	if err := s.store.Delete(userKey); err != nil {
		log.Warn().Err(err).Msg("Failed to clear stored profile")
	}
}

// State returns the current lifecycle state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Token returns the current session token, empty when anonymous
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns the cached profile snapshot, nil when unknown
func (s *Session) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}
