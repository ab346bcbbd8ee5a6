// Package sessions owns the signed-in user of one client tab: it bootstraps from stored tokens,
// runs the authentication flows against the backend and decides where a fresh login lands.
package sessions

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/jrsteele09/go-course-client/apiclient"
	apperrors "github.com/jrsteele09/go-course-client/internal/errors"
	"github.com/jrsteele09/go-course-client/internal/result"
	"github.com/jrsteele09/go-course-client/internal/validation"
	"github.com/jrsteele09/go-course-client/navigation"
	"github.com/jrsteele09/go-course-client/tokens"
	"github.com/jrsteele09/go-course-client/users"
)

const (
	msgSignupSuccess        = "Registration successful! Check your email to verify your account."
	msgVerificationResent   = "Verification email resent. Check your inbox."
	msgResetLinkSent        = "Password reset link sent. Check your email."
	msgPasswordResetSuccess = "Password reset successful! You may now log in."
)

// Status is the authentication status of the tab.
type Status string

const (
	StatusAnonymous      Status = "anonymous"
	StatusAuthenticating Status = "authenticating"
	StatusAuthenticated  Status = "authenticated"
)

// State is a snapshot of the session observed by the UI.
type State struct {
	Status      Status
	User        *users.User
	TabID       string
	Loading     bool
	Error       string
	ErrorKind   apperrors.Kind
	InfoMessage string
}

// Registration is the data sent to create an account.
type Registration struct {
	Username  string `json:"username" validate:"notblank"`
	Email     string `json:"email" validate:"required,email"`
	Password1 string `json:"password1" validate:"required"`
	Password2 string `json:"password2" validate:"eqfield=Password1"`
}

type tokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Manager tracks the current user of one tab. All methods are safe for concurrent use.
type Manager struct {
	api      *apiclient.Client
	nav      navigation.Navigator
	log      zerolog.Logger
	verifier IDTokenVerifier
	nowFunc  func() time.Time

	state       State
	logoutHooks map[int]func()
	nextHook    int
	unregister  func()
	initialized bool
	closed      bool
	lock        sync.RWMutex
}

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

func WithLogger(l zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.log = l
	}
}

// WithGoogleVerifier checks Google ID tokens locally before they are exchanged with the backend.
func WithGoogleVerifier(v IDTokenVerifier) ManagerOption {
	return func(m *Manager) {
		m.verifier = v
	}
}

// WithNowFunc sets the clock used to judge stored token expiry (primarily for testing).
func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

func New(api *apiclient.Client, nav navigation.Navigator, options ...ManagerOption) (*Manager, error) {
	if api == nil {
		return nil, errors.New("[sessions.New] api client is required")
	}
	if nav == nil {
		return nil, errors.New("[sessions.New] navigator is required")
	}

	m := &Manager{
		api:         api,
		nav:         nav,
		log:         log.Logger,
		nowFunc:     time.Now,
		logoutHooks: make(map[int]func()),
		state: State{
			Status:  StatusAnonymous,
			TabID:   api.Tokens().TabID(),
			Loading: true,
		},
	}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

// Init loads the tab's stored tokens and fetches the current user when they are usable.
// A stored access token that is expired with no refresh token to renew it is discarded.
func (m *Manager) Init(ctx context.Context) error {
	m.lock.Lock()
	if m.closed {
		m.lock.Unlock()
		return apperrors.New(apperrors.KindInternal, "", apperrors.ErrManagerClosed)
	}
	if m.initialized {
		m.lock.Unlock()
		return nil
	}
	m.initialized = true
	m.unregister = m.api.OnSessionExpired(m.sessionExpired)
	m.lock.Unlock()

	store := m.api.Tokens()
	tok, err := store.Load(ctx)
	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		m.finishLoading()
		return nil
	case err != nil:
		m.log.Error().Err(err).Msg("failed to load stored tokens")
		m.finishLoading()
		return apperrors.New(apperrors.KindInternal, "Could not read stored session", err)
	}

	if !tokens.Usable(tok, m.nowFunc()) {
		m.log.Debug().Str("tab", store.TabID()).Msg("discarding expired access token")
		if err := store.Clear(ctx); err != nil {
			m.log.Error().Err(err).Msg("failed to clear expired tokens")
		}
		m.finishLoading()
		return nil
	}

	if res := m.fetchUser(ctx); !res.Success() {
		return res.Err
	}
	return nil
}

// Close stops reacting to session expiry. Later operations fail with ErrManagerClosed.
func (m *Manager) Close() {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.unregister != nil {
		m.unregister()
		m.unregister = nil
	}
	m.closed = true
}

// State returns a snapshot of the session.
func (m *Manager) State() State {
	m.lock.RLock()
	defer m.lock.RUnlock()

	s := m.state
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// CurrentUser returns the signed in user or nil.
func (m *Manager) CurrentUser() *users.User {
	return m.State().User
}

// OnLogout registers fn to run when the session ends, e.g. to drop cached data. The returned
// function unregisters it.
func (m *Manager) OnLogout(fn func()) (unregister func()) {
	m.lock.Lock()
	defer m.lock.Unlock()

	id := m.nextHook
	m.nextHook++
	m.logoutHooks[id] = fn
	return func() {
		m.lock.Lock()
		defer m.lock.Unlock()
		delete(m.logoutHooks, id)
	}
}

func (m *Manager) Login(ctx context.Context, username, password string) error {
	return m.run(ctx, operation{name: "login", fallback: "Login failed", authenticating: true}, func() error {
		body := map[string]string{"username": username, "password": password}
		return m.exchange(ctx, apiclient.RouteAuthLogin, body)
	})
}

// Signup registers an account. The account must be verified by email before it can log in, so
// the user is sent to the login page instead of being signed in.
func (m *Manager) Signup(ctx context.Context, reg Registration) error {
	op := operation{name: "signup", fallback: "Registration failed", info: msgSignupSuccess, redirect: navigation.RouteLogin}
	return m.run(ctx, op, func() error {
		if err := validation.Struct(reg); err != nil {
			if len(validation.Failed(err, "password2")) > 0 {
				return apperrors.Validation("Passwords do not match", apperrors.ErrPasswordsMismatch)
			}
			return err
		}
		res := m.api.Request(ctx, http.MethodPost, apiclient.RouteAuthRegister, reg, apiclient.WithoutAuth())
		if !res.Success() {
			return res.Err
		}
		return nil
	})
}

// LoginWithGoogle exchanges a Google ID token for backend tokens.
func (m *Manager) LoginWithGoogle(ctx context.Context, idToken string) error {
	return m.run(ctx, operation{name: "google login", fallback: "Google login failed", authenticating: true}, func() error {
		if m.verifier != nil {
			if err := m.verifier.Verify(ctx, idToken); err != nil {
				return apperrors.Auth("Google login failed", err)
			}
		}
		return m.exchange(ctx, apiclient.RouteAuthGoogle, map[string]string{"access_token": idToken})
	})
}

func (m *Manager) ResendVerification(ctx context.Context, email string) error {
	op := operation{name: "resend verification", fallback: "Could not resend verification email", info: msgVerificationResent}
	return m.run(ctx, op, func() error {
		return m.post(ctx, apiclient.RouteAuthResendVerification, map[string]string{"email": email})
	})
}

func (m *Manager) RequestPasswordReset(ctx context.Context, email string) error {
	op := operation{name: "password reset", fallback: "Could not send reset link", info: msgResetLinkSent}
	return m.run(ctx, op, func() error {
		return m.post(ctx, apiclient.RouteAuthPasswordReset, map[string]string{"email": email})
	})
}

func (m *Manager) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	op := operation{name: "password reset confirm", fallback: "Password reset failed", info: msgPasswordResetSuccess, redirect: navigation.RouteLogin}
	return m.run(ctx, op, func() error {
		return m.post(ctx, apiclient.RouteAuthPasswordResetConfirm, map[string]string{"token": token, "new_password": newPassword})
	})
}

// Logout drops the tab's tokens and user, runs the logout hooks and navigates home.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.api.Tokens().Clear(ctx); err != nil {
		m.log.Error().Err(err).Msg("failed to clear tokens on logout")
	}
	m.endSession()
	m.nav.Navigate(navigation.RouteRoot)
}

// sessionExpired runs when the api client gave up refreshing; it has already cleared the tokens
// and moved to the login page.
func (m *Manager) sessionExpired() {
	m.log.Info().Str("tab", m.api.Tokens().TabID()).Msg("session expired")
	m.endSession()
}

func (m *Manager) endSession() {
	m.lock.Lock()
	m.state.User = nil
	m.state.Status = StatusAnonymous
	m.state.Loading = false
	hooks := make([]func(), 0, len(m.logoutHooks))
	for _, fn := range m.logoutHooks {
		hooks = append(hooks, fn)
	}
	m.lock.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

// exchange posts credentials to an endpoint returning a token pair, stores it and loads the user.
func (m *Manager) exchange(ctx context.Context, path string, body interface{}) error {
	res := apiclient.Do[tokenPair](ctx, m.api, http.MethodPost, path, body, apiclient.WithoutAuth())
	if !res.Success() {
		return res.Err
	}
	tok := &oauth2.Token{AccessToken: res.Data.Access, RefreshToken: res.Data.Refresh, TokenType: "Bearer"}
	if err := m.api.Tokens().Save(ctx, tok); err != nil {
		return apperrors.New(apperrors.KindInternal, "Could not store session", err)
	}
	if user := m.fetchUser(ctx); !user.Success() {
		return user.Err
	}
	return nil
}

func (m *Manager) post(ctx context.Context, path string, body interface{}) error {
	res := m.api.Request(ctx, http.MethodPost, path, body, apiclient.WithoutAuth())
	if !res.Success() {
		return res.Err
	}
	return nil
}

// fetchUser loads the current user. Loading ends either way and a failure leaves no user.
func (m *Manager) fetchUser(ctx context.Context) result.Result[users.User] {
	if m.api.Tokens().AccessToken(ctx) == "" {
		m.finishLoading()
		return result.Fail[users.User](apperrors.Auth("Not signed in", apperrors.ErrNoAccessToken))
	}

	res := apiclient.Do[users.User](ctx, m.api, http.MethodGet, apiclient.RouteCurrentUser, nil)

	m.lock.Lock()
	if m.closed {
		m.lock.Unlock()
		return res
	}
	prev := m.state.User
	m.state.Loading = false
	if res.Success() {
		u := res.Data
		m.state.User = &u
		m.state.Status = StatusAuthenticated
	} else {
		m.log.Warn().Str("error", res.Error()).Msg("failed to fetch current user")
		m.state.User = nil
		m.state.Status = StatusAnonymous
	}
	target, redirect := DecideRedirect(prev, m.state.User, m.state.Loading, m.nav.CurrentPath())
	m.lock.Unlock()

	if redirect {
		m.nav.Replace(target)
	}
	return res
}

func (m *Manager) finishLoading() {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.state.Loading = false
}

type operation struct {
	name           string
	fallback       string // shown when the failure carries no backend message
	info           string // shown on success
	redirect       string // navigated to on success
	authenticating bool
}

// run clears the previous messages, calls fn and records its outcome in the state. The error is
// returned as well, always as an *errors.Error.
func (m *Manager) run(ctx context.Context, op operation, fn func() error) error {
	m.lock.Lock()
	if m.closed {
		m.lock.Unlock()
		return apperrors.New(apperrors.KindInternal, "", apperrors.ErrManagerClosed)
	}
	m.state.Error = ""
	m.state.ErrorKind = apperrors.KindInternal
	m.state.InfoMessage = ""
	if op.authenticating {
		m.state.Status = StatusAuthenticating
	}
	m.lock.Unlock()

	res := result.Run(func() (struct{}, error) {
		if err := ctx.Err(); err != nil {
			return struct{}{}, apperrors.Network(err)
		}
		return struct{}{}, fn()
	})

	m.lock.Lock()
	if !res.Success() {
		m.state.Error = userMessage(op, res.Err)
		m.state.ErrorKind = res.Kind()
		if op.authenticating && m.state.User == nil {
			m.state.Status = StatusAnonymous
		}
		m.lock.Unlock()
		m.log.Debug().Str("operation", op.name).Str("kind", res.Kind().String()).Str("error", res.Error()).Msg("session operation failed")
		return res.Err
	}
	m.state.InfoMessage = op.info
	m.lock.Unlock()

	if op.redirect != "" {
		m.nav.Navigate(op.redirect)
	}
	return nil
}

// userMessage prefers the backend's message; transport and internal failures get the operation's
// generic text.
func userMessage(op operation, err *apperrors.Error) string {
	switch err.Kind {
	case apperrors.KindNetwork, apperrors.KindInternal:
		return op.fallback + ". Please try again."
	}
	if err.Detail == "" {
		return op.fallback
	}
	return err.Detail
}
