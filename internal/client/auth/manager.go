package auth

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/authkeeper/internal/client/api"
	"github.com/dmitrijs2005/authkeeper/internal/client/credentials"
	"github.com/dmitrijs2005/authkeeper/internal/client/models"
	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
)

// Phase is the state of a Manager.
type Phase int

const (
	PhaseBootstrapping Phase = iota
	PhaseAnonymous
	PhaseAuthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseBootstrapping:
		return "bootstrapping"
	case PhaseAnonymous:
		return "anonymous"
	case PhaseAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Session is a snapshot of the in-memory auth state. User and Token are
// either both set or both empty.
type Session struct {
	User      *models.User
	Token     string
	IsLoading bool
}

// Manager is the session state machine.
type Manager struct {
	api   AuthAPI
	store SessionStore
	creds CredentialStore
	nav   Navigator
	log   logging.Logger

	initOnce sync.Once

	mu       sync.Mutex
	phase    Phase
	user     *models.User
	token    string
	navigate func()
}

// NewManager returns a Manager in the Bootstrapping phase. Call Init to leave it.
func NewManager(authAPI AuthAPI, store SessionStore, creds CredentialStore, nav Navigator, log logging.Logger) *Manager {
	return &Manager{
		api:   authAPI,
		store: store,
		creds: creds,
		nav:   nav,
		log:   log.With("component", "auth"),
		phase: PhaseBootstrapping,
	}
}

// Init loads the durable session without validating it. Only the first call
// has an effect.
func (m *Manager) Init(ctx context.Context) {
	m.initOnce.Do(func() {
		token, hasToken := m.store.GetToken(ctx)
		user := m.store.GetUser(ctx)

		m.mu.Lock()
		defer m.mu.Unlock()
		if m.phase != PhaseBootstrapping {
			return
		}
		if hasToken && user != nil {
			m.user, m.token, m.phase = user, token, PhaseAuthenticated
		} else {
			m.phase = PhaseAnonymous
		}
		m.log.Debug(ctx, "session bootstrapped", "phase", m.phase.String())
	})
}

// State returns a snapshot of the session.
func (m *Manager) State() Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Session{Token: m.token, IsLoading: m.phase == PhaseBootstrapping}
	if m.user != nil {
		u := *m.user
		s.User = &u
	}
	return s
}

func (m *Manager) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

func (m *Manager) setSession(user *models.User, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user, m.token, m.phase = user, token, PhaseAuthenticated
}

// SetNavigationCallback registers fn as the way to reach the login screen
// after the token expires. Nil restores the Navigator.Redirect fallback.
func (m *Manager) SetNavigationCallback(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.navigate = fn
}

// LoginOption tunes Login.
type LoginOption func(*loginOptions)

type loginOptions struct {
	rememberMe bool
}

// WithRememberMe controls whether the credential pair is remembered.
// Login remembers by default.
func WithRememberMe(remember bool) LoginOption {
	return func(o *loginOptions) { o.rememberMe = remember }
}

// Login authenticates and, on success, stores the session durably and
// remembers the credentials on a best-effort basis. Failures are *Failure.
func (m *Manager) Login(ctx context.Context, email, password string, opts ...LoginOption) error {
	o := loginOptions{rememberMe: true}
	for _, opt := range opts {
		opt(&o)
	}

	resp, err := m.api.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		m.log.Error(ctx, "login request failed", "error", err)
		return networkFailure()
	}
	if !resp.Success || resp.Token == "" || resp.User == nil {
		m.log.Info(ctx, "login rejected", "reason", resp.Error)
		return rejected(resp.Error, "Login failed")
	}

	m.setSession(resp.User, resp.Token)

	if err := m.store.SaveToken(ctx, resp.Token); err != nil {
		m.log.Error(ctx, "failed to persist token", "error", err)
	}
	if err := m.store.SaveUser(ctx, resp.User); err != nil {
		m.log.Error(ctx, "failed to persist user", "error", err)
	}

	m.rememberCredentials(ctx, email, password, o.rememberMe)

	m.log.Info(ctx, "login successful", "user_id", resp.User.ID)
	return nil
}

// rememberCredentials must never affect the login outcome.
func (m *Manager) rememberCredentials(ctx context.Context, email, password string, remember bool) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error(ctx, "failed to save credentials", "panic", r)
		}
	}()
	m.creds.SetCredentials(ctx, email, password, remember)
}

// LoginWithRemembered logs in with the remembered credential pair. It fails
// with ErrRejected when no password is remembered.
func (m *Manager) LoginWithRemembered(ctx context.Context) error {
	c := m.creds.GetCredentials(ctx)
	if c.Email == nil || c.Password == nil {
		return rejected("", "No remembered credentials")
	}
	return m.Login(ctx, *c.Email, *c.Password)
}

// Register creates an account. Success only means the confirmation email is
// on its way; the session is not touched.
func (m *Manager) Register(ctx context.Context, email, password, firstName, lastName string) error {
	resp, err := m.api.Register(ctx, api.RegisterRequest{
		Email:     email,
		Password:  password,
		FirstName: firstName,
		LastName:  lastName,
	})
	if err != nil {
		m.log.Error(ctx, "register request failed", "error", err)
		return networkFailure()
	}
	if !resp.Success {
		return rejected(resp.Error, "Registration failed")
	}
	return nil
}

// Confirm completes email confirmation and returns the server's message.
func (m *Manager) Confirm(ctx context.Context, accessToken, kind string) (string, error) {
	resp, err := m.api.Confirm(ctx, api.ConfirmRequest{AccessToken: accessToken, Type: kind})
	if err != nil {
		m.log.Error(ctx, "confirm request failed", "error", err)
		return "", networkFailure()
	}
	if !resp.Success {
		return "", rejected(resp.Error, "Confirmation failed")
	}
	return resp.Message, nil
}

// Logout drops the session from memory and durable storage. It never fails
// and may be called any number of times.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.user, m.token, m.phase = nil, "", PhaseAnonymous
	m.mu.Unlock()

	if err := m.store.ClearAuth(ctx); err != nil {
		m.log.Error(ctx, "failed to clear stored session", "error", err)
	}
}

// HandleTokenExpiration logs out and moves the user to the login screen
// unless they are already there.
func (m *Manager) HandleTokenExpiration(ctx context.Context) {
	m.log.Info(ctx, "token expired, logging out")
	m.Logout(ctx)

	if m.nav.CurrentPath() == common.LoginPath {
		return
	}

	m.mu.Lock()
	navigate := m.navigate
	m.mu.Unlock()

	m.log.Info(ctx, "redirecting to login after token expiration")
	if navigate != nil {
		navigate()
		return
	}
	m.nav.Redirect(common.LoginPath)
}

func (m *Manager) expirationHandler(ctx context.Context) func() {
	return func() { m.HandleTokenExpiration(ctx) }
}

// RefreshUser reloads the profile with the stored token. It returns nil when
// there is no token or the call fails for any reason.
func (m *Manager) RefreshUser(ctx context.Context) *models.User {
	token, ok := m.store.GetToken(ctx)
	if !ok {
		return nil
	}

	resp, err := m.api.GetMe(ctx, token, m.expirationHandler(ctx))
	if err != nil {
		m.log.Error(ctx, "refresh user failed", "error", err)
		return nil
	}
	if !resp.Success || resp.User == nil {
		m.log.Info(ctx, "refresh user rejected", "reason", resp.Error)
		return nil
	}

	m.setSession(resp.User, token)
	if err := m.store.SaveUser(ctx, resp.User); err != nil {
		m.log.Error(ctx, "failed to persist user", "error", err)
	}
	return resp.User
}

// UpdateProfile changes the user's name and keeps both copies of the profile
// in sync on success.
func (m *Manager) UpdateProfile(ctx context.Context, firstName, lastName string) (*models.User, error) {
	token, ok := m.store.GetToken(ctx)
	if !ok {
		return nil, rejected("", "Not authenticated")
	}

	resp, err := m.api.UpdateProfile(ctx, token, api.ProfileUpdate{FirstName: firstName, LastName: lastName}, m.expirationHandler(ctx))
	if err != nil {
		m.log.Error(ctx, "update profile failed", "error", err)
		return nil, networkFailure()
	}
	if !resp.Success || resp.User == nil {
		return nil, rejected(resp.Error, "Failed to update profile")
	}

	m.setSession(resp.User, token)
	if err := m.store.SaveUser(ctx, resp.User); err != nil {
		m.log.Error(ctx, "failed to persist user", "error", err)
	}
	return resp.User, nil
}

// IsAuthenticated reports whether durable storage holds a session.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	return m.store.IsAuthenticated(ctx)
}

// RememberedCredentials returns what the credential store remembers, for
// pre-filling the login form.
func (m *Manager) RememberedCredentials(ctx context.Context) credentials.Credentials {
	return m.creds.GetCredentials(ctx)
}

// RememberedEmail is the pre-fill value for the login form, or "".
func (m *Manager) RememberedEmail(ctx context.Context) string {
	if c := m.creds.GetCredentials(ctx); c.Email != nil {
		return *c.Email
	}
	return ""
}

// ClearRememberedCredentials clears any remembered login.
func (m *Manager) ClearRememberedCredentials(ctx context.Context) {
	m.creds.ClearCredentials(ctx)
}
