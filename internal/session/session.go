// ABOUTME: Signed-in user session: login, sign up, profile name and logout
// ABOUTME: A rejected saved-list load forces sign-out through an injected terminator

package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/harper/newsdesk/internal/explorer"
	"github.com/harper/newsdesk/internal/models"
	"github.com/harper/newsdesk/internal/observable"
	"github.com/harper/newsdesk/internal/remote"
	"github.com/harper/newsdesk/internal/repository"
)

// ErrTokenExpired is returned when restoring a session whose token has expired.
var ErrTokenExpired = errors.New("session token expired")

// Account is the remote user API.
type Account interface {
	SignIn(ctx context.Context, email, password string) (string, error)
	SignUp(ctx context.Context, name, email, password string) error
	Profile(ctx context.Context) (*explorer.Profile, error)
	SetToken(token string)
}

// Terminator ends the session outside the process, e.g. by forgetting a stored token.
type Terminator interface {
	Terminate() error
}

// TerminatorFunc adapts a function to Terminator.
type TerminatorFunc func() error

// Terminate calls f.
func (f TerminatorFunc) Terminate() error { return f() }

// Manager tracks whether a user is signed in.
type Manager struct {
	account   Account
	terminate Terminator
	logger    *zap.Logger
	now       func() time.Time

	mu       sync.Mutex
	loggedIn bool
	name     string
	token    string

	LoginCompleted observable.Event[*remote.Result[string]]
	NameLoaded     observable.Event[*remote.Result[string]]
	LoggedOut      observable.Event[struct{}]
}

// Option configures a Manager.
type Option func(*Manager)

// WithTerminator sets what Logout does beyond clearing local state.
func WithTerminator(t Terminator) Option {
	return func(m *Manager) { m.terminate = t }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithClock overrides the clock used for token expiry.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// New creates a signed-out session manager.
func New(account Account, opts ...Option) *Manager {
	m := &Manager{
		account:   account,
		terminate: TerminatorFunc(func() error { return nil }),
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TokenExpiry reads the exp claim of a session token without verifying its signature.
// The server verifies tokens; the client only avoids sending expired ones.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Restore resumes a session from a stored token. Tokens that are not JWTs are
// accepted as-is; a JWT past its expiry is rejected.
func (m *Manager) Restore(token string) error {
	if token == "" {
		return nil
	}
	if exp, ok := TokenExpiry(token); ok && !m.now().Before(exp) {
		m.logger.Debug("stored session token expired", zap.Time("expires_at", exp))
		return ErrTokenExpired
	}

	m.account.SetToken(token)
	m.mu.Lock()
	m.token = token
	m.loggedIn = true
	m.mu.Unlock()
	return nil
}

// Login signs in and returns the session token.
func (m *Manager) Login(ctx context.Context, email, password string) *remote.Result[string] {
	token, err := m.account.SignIn(ctx, email, password)

	m.mu.Lock()
	if err != nil {
		m.loggedIn = false
	} else {
		m.loggedIn = true
		m.token = token
	}
	m.mu.Unlock()

	var res *remote.Result[string]
	if err != nil {
		m.logger.Warn("login failed", zap.Error(err))
		res = remote.Fail[string](err)
	} else {
		res = remote.OK(token)
	}
	m.LoginCompleted.Emit(res)
	return res
}

// SignUp registers a new user. It does not sign in.
func (m *Manager) SignUp(ctx context.Context, name, email, password string) error {
	return m.account.SignUp(ctx, name, email, password)
}

// LoadName fetches the profile name. A 401 while signed in marks the session signed out.
func (m *Manager) LoadName(ctx context.Context) *remote.Result[string] {
	profile, err := m.account.Profile(ctx)

	var res *remote.Result[string]
	m.mu.Lock()
	if err != nil {
		if remote.IsUnauthorized(err) && m.loggedIn {
			m.loggedIn = false
		}
		res = remote.Fail[string](err)
	} else {
		m.name = profile.Name
		res = remote.OK(profile.Name)
	}
	m.mu.Unlock()

	m.NameLoaded.Emit(res)
	return res
}

// Logout clears the session locally and runs the terminator.
func (m *Manager) Logout() error {
	m.mu.Lock()
	m.loggedIn = false
	m.name = ""
	m.token = ""
	m.mu.Unlock()

	m.account.SetToken("")
	err := m.terminate.Terminate()
	if err != nil {
		m.logger.Warn("session termination failed", zap.Error(err))
	}
	m.LoggedOut.Emit(struct{}{})
	return err
}

// Guard signs out when a saved-list load is rejected with 401.
// Search failures never sign out.
func (m *Manager) Guard(repo *repository.Repository) (unsubscribe func()) {
	return repo.LoadCompleted.Subscribe(func(res *remote.Result[[]*models.Article]) {
		if res.OK() || !remote.IsUnauthorized(res.Err()) {
			return
		}
		m.logger.Info("saved articles rejected as unauthorized, signing out")
		_ = m.Logout()
	})
}

// IsLoggedIn reports whether a user is signed in.
func (m *Manager) IsLoggedIn() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loggedIn
}

// Name returns the loaded profile name.
func (m *Manager) Name() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.name
}

// Token returns the session token.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}
