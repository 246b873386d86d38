package client

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/chgu-campus/dorm-api/internal/models"
)

// Route targets reported by the session for navigation decisions.
const (
	PathLogin   = "/login"
	PathAdmin   = "/admin"
	PathStudent = "/student"
)

// TokenStore persists the credential token across process restarts.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// FileTokenStore keeps the token in a single file, the durable-storage
// analogue of the browser's token slot.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore builds a store rooted at the given file path.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// Load reads the persisted token; a missing file means no token.
func (s *FileTokenStore) Load() (string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

// Save writes the token, creating parent directories as needed.
func (s *FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(token), 0o600)
}

// Clear removes the persisted token.
func (s *FileTokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// State tracks the session lifecycle. Guards must not decide while the
// session is still restoring.
type State int

const (
	StateRestoring State = iota
	StateAnonymous
	StateAuthenticated
)

// GuardDecision is a route guard's verdict.
type GuardDecision int

const (
	// GuardWait means restore has not settled; render a neutral
	// loading state instead of redirecting.
	GuardWait GuardDecision = iota
	GuardAllow
	GuardRedirect
)

// Session owns the single current-session value: the credential and
// the resolved user. It is created in the restoring state and handed
// explicitly to consumers instead of living in a package-level global.
type Session struct {
	api    *Client
	store  TokenStore
	logger *zap.Logger
	latest Latest

	mu    sync.RWMutex
	state State
	user  *models.User
}

// NewSession constructs a Session bound to a client and token store.
func NewSession(api *Client, store TokenStore, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{api: api, store: store, logger: logger, state: StateRestoring}
}

// Restore resolves a persisted token to a user profile. Any failure,
// from a missing token to a rejected session check, degrades to an
// anonymous session; restore never propagates an error because the
// application must start either way. A restore that was superseded by
// a newer restore or login leaves state untouched.
func (s *Session) Restore(ctx context.Context) {
	gen := s.latest.Begin()

	token, err := s.store.Load()
	if err != nil || token == "" {
		if err != nil {
			s.logger.Warn("token load failed", zap.Error(err))
		}
		s.settle(gen, StateAnonymous, nil)
		return
	}

	s.api.SetToken(token)

	var user models.User
	if err := s.api.Get(ctx, "/auth/me", &user); err != nil {
		s.logger.Warn("session check failed", zap.Error(err))
		s.api.SetToken("")
		if clearErr := s.store.Clear(); clearErr != nil {
			s.logger.Warn("token clear failed", zap.Error(clearErr))
		}
		s.settle(gen, StateAnonymous, nil)
		return
	}

	s.settle(gen, StateAuthenticated, &user)
}

// Login authenticates and activates a session. A failed login leaves
// any prior session untouched.
func (s *Session) Login(ctx context.Context, email, password string) (*models.User, error) {
	gen := s.latest.Begin()

	var res models.LoginResponse
	err := s.api.Post(ctx, "/auth/login", map[string]string{"email": email, "password": password}, &res)
	if err != nil {
		return nil, err
	}

	if err := s.store.Save(res.Token); err != nil {
		s.logger.Warn("token persist failed", zap.Error(err))
	}
	s.api.SetToken(res.Token)
	s.settle(gen, StateAuthenticated, res.User)
	return res.User, nil
}

// Register creates an account without establishing a session.
func (s *Session) Register(ctx context.Context, data models.RegisterRequest) error {
	return s.api.Post(ctx, "/auth/register", data, nil)
}

// Logout tears the session down. It is synchronous and cannot fail:
// storage errors are logged and the in-memory session is cleared
// regardless.
func (s *Session) Logout() {
	if err := s.store.Clear(); err != nil {
		s.logger.Warn("token clear failed", zap.Error(err))
	}
	s.api.SetToken("")

	s.mu.Lock()
	s.state = StateAnonymous
	s.user = nil
	s.mu.Unlock()
}

// CurrentUser returns the resolved user, nil when anonymous or still
// restoring.
func (s *Session) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// IsAdmin reports whether the session belongs to an administrator.
func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.Role == models.RoleAdmin
}

// Settled reports whether restore has completed.
func (s *Session) Settled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state != StateRestoring
}

// HomePath returns the landing route for the current session.
func (s *Session) HomePath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return PathLogin
	}
	if s.user.Role == models.RoleAdmin {
		return PathAdmin
	}
	return PathStudent
}

// GuardProtected decides access to routes requiring any authenticated
// user. It never redirects before restore settles.
func (s *Session) GuardProtected() (GuardDecision, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.state == StateRestoring:
		return GuardWait, ""
	case s.user == nil:
		return GuardRedirect, PathLogin
	default:
		return GuardAllow, ""
	}
}

// GuardAdmin decides access to administrator-only routes. A logged-in
// student is redirected the same way an anonymous visitor is.
func (s *Session) GuardAdmin() (GuardDecision, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.state == StateRestoring:
		return GuardWait, ""
	case s.user == nil || s.user.Role != models.RoleAdmin:
		return GuardRedirect, PathLogin
	default:
		return GuardAllow, ""
	}
}

// settle applies a completed restore or login unless superseded.
func (s *Session) settle(gen uint64, state State, user *models.User) {
	if !s.latest.Current(gen) {
		// A newer restore or login started while this one was in
		// flight; its completion owns the session state.
		return
	}
	s.mu.Lock()
	s.state = state
	s.user = user
	s.mu.Unlock()
}
