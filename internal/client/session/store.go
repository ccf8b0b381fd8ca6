package session

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/zaidS12/NovaChat-sub000/internal/client/api"
	"github.com/zaidS12/NovaChat-sub000/internal/core/domain"
)

// State is the store's knowledge of whether a session exists. Unknown means
// rehydration has not happened yet and callers must not redirect or deny.
type State int

const (
	StateUnknown State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// ErrSessionExpired indicates the server rejected the stored token mid-use;
// the store has already dropped the session by the time this is returned.
var ErrSessionExpired = errors.New("session expired")

// Store holds the one canonical session for this client process and mediates
// every transition between signed-in and signed-out.
type Store struct {
	api      *api.Client
	storage  Storage
	logger   *zap.Logger
	onLogout func()

	mu      sync.RWMutex
	state   State
	session domain.Session
}

// StoreOption configures the Store.
type StoreOption func(*Store)

// WithOnLogout registers a hook invoked after every logout, local or forced.
func WithOnLogout(fn func()) StoreOption {
	return func(s *Store) { s.onLogout = fn }
}

// WithStoreLogger attaches a logger.
func WithStoreLogger(log *zap.Logger) StoreOption {
	return func(s *Store) {
		if log != nil {
			s.logger = log
		}
	}
}

// NewStore builds a Store over the API client and persistence layer.
func NewStore(apiClient *api.Client, storage Storage, opts ...StoreOption) (*Store, error) {
	if apiClient == nil {
		return nil, errors.New("session: api client is required")
	}
	if storage == nil {
		return nil, errors.New("session: storage is required")
	}

	s := &Store{
		api:     apiClient,
		storage: storage,
		logger:  zap.NewNop(),
		state:   StateUnknown,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Rehydrate restores a persisted session, preferring the user scope and
// falling back to the admin scope. It always leaves the store in a settled
// state: corrupt or absent storage yields Unauthenticated, never Unknown.
func (s *Store) Rehydrate() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, scope := range []domain.Scope{domain.ScopeUser, domain.ScopeAdmin} {
		persisted, err := s.storage.Load(scope)
		if err != nil {
			if !errors.Is(err, ErrNoSession) {
				s.logger.Warn("session load failed", zap.String("scope", string(scope)), zap.Error(err))
			}
			continue
		}
		s.session = domain.Session{Token: persisted.Token, User: persisted.User, Scope: scope}
		s.state = StateAuthenticated
		return s.state
	}

	s.session = domain.Session{}
	s.state = StateUnauthenticated
	return s.state
}

// Login exchanges credentials for a session. Success replaces any prior
// session and clears the persisted admin scope so a stale elevated credential
// cannot outlive the account that held it. Failure leaves state untouched.
func (s *Store) Login(ctx context.Context, email, password string) (domain.Session, error) {
	result, err := s.api.Login(ctx, email, password)
	if err != nil {
		return domain.Session{}, err
	}

	user := result.User
	sess := domain.Session{Token: result.Token, User: &user, Scope: domain.ScopeUser}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Save(domain.ScopeUser, PersistedSession{Token: sess.Token, User: sess.User}); err != nil {
		s.logger.Warn("session persist failed", zap.Error(err))
	}
	if err := s.storage.Clear(domain.ScopeAdmin); err != nil {
		s.logger.Warn("admin scope clear failed", zap.Error(err))
	}

	s.session = sess
	s.state = StateAuthenticated
	return sess, nil
}

// Logout drops the session everywhere: server-side token cache (best effort),
// both persisted scopes, and in-memory state.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	token := s.session.Token
	s.dropLocked()
	s.mu.Unlock()

	if token != "" {
		if err := s.api.Logout(ctx, token); err != nil {
			s.logger.Debug("server logout failed", zap.Error(err))
		}
	}

	if s.onLogout != nil {
		s.onLogout()
	}
}

// ForceLogout drops the session without notifying the server. Used when the
// server has already ruled the token invalid.
func (s *Store) ForceLogout() {
	s.mu.Lock()
	s.dropLocked()
	s.mu.Unlock()

	if s.onLogout != nil {
		s.onLogout()
	}
}

// Do sends the request with the session's bearer token attached. A 401
// response forces a logout and surfaces ErrSessionExpired so the caller can
// route back to login.
func (s *Store) Do(req *http.Request) (*http.Response, error) {
	s.mu.RLock()
	token := s.session.Token
	s.mu.RUnlock()

	resp, err := s.api.Do(req, token)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		s.ForceLogout()
		return nil, ErrSessionExpired
	}
	return resp, nil
}

// State reports the current lifecycle state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Session returns a copy of the current session. The user pointer is shared;
// callers must not mutate it.
func (s *Store) Session() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Token returns the current bearer token, empty when signed out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}

// IsAuthenticated reports whether a usable session is held.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateAuthenticated && s.session.Present()
}

// IsAdmin reports whether the signed-in user carries the admin bypass.
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.User.IsSuperuser()
}

func (s *Store) dropLocked() {
	for _, scope := range []domain.Scope{domain.ScopeUser, domain.ScopeAdmin} {
		if err := s.storage.Clear(scope); err != nil {
			s.logger.Warn("session clear failed", zap.String("scope", string(scope)), zap.Error(err))
		}
	}
	s.session = domain.Session{}
	s.state = StateUnauthenticated
}
