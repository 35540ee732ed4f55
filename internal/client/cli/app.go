package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/dmitrijs2005/authkeeper/internal/client/api"
	"github.com/dmitrijs2005/authkeeper/internal/client/auth"
	"github.com/dmitrijs2005/authkeeper/internal/client/config"
	"github.com/dmitrijs2005/authkeeper/internal/client/credentials"
	"github.com/dmitrijs2005/authkeeper/internal/client/models"
	"github.com/dmitrijs2005/authkeeper/internal/client/session"
	"github.com/dmitrijs2005/authkeeper/internal/client/storage"
	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/cryptox"
	"github.com/dmitrijs2005/authkeeper/internal/filex"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
)

// sessionManager is the part of *auth.Manager the CLI drives.
type sessionManager interface {
	Init(ctx context.Context)
	State() auth.Session
	Login(ctx context.Context, email, password string, opts ...auth.LoginOption) error
	LoginWithRemembered(ctx context.Context) error
	Register(ctx context.Context, email, password, firstName, lastName string) error
	Confirm(ctx context.Context, accessToken, kind string) (string, error)
	Logout(ctx context.Context)
	RefreshUser(ctx context.Context) *models.User
	UpdateProfile(ctx context.Context, firstName, lastName string) (*models.User, error)
	IsAuthenticated(ctx context.Context) bool
	RememberedCredentials(ctx context.Context) credentials.Credentials
	ClearRememberedCredentials(ctx context.Context)
	SetNavigationCallback(fn func())
}

// App is the interactive client. It plays the hosting application for the
// session manager: it knows which screen the user is on and how to move them
// to the login screen.
type App struct {
	auth     sessionManager
	platform credentials.Platform
	log      logging.Logger
	reader   *bufio.Reader
	out      io.Writer
	db       *sql.DB

	mu   sync.Mutex
	path string
}

// NewApp opens local storage and wires the session manager for cfg.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	platform, err := credentials.ParsePlatform(cfg.Platform)
	if err != nil {
		return nil, err
	}

	if _, err := filex.EnsureParentDir(cfg.DatabasePath); err != nil {
		return nil, err
	}
	db, err := storage.OpenDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	backends, err := platformBackends(ctx, platform, cfg, db, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	creds, err := credentials.New(platform, backends, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	sessions := session.NewPersistence(storage.NewSQLiteBackend(db, storage.NamespaceLocal), log)
	fetcher := api.NewFetcher(cfg.ServerURL, &http.Client{Timeout: cfg.RequestTimeout}, log)

	a := &App{
		platform: platform,
		log:      log,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		db:       db,
		path:     common.LoginPath,
	}
	a.auth = auth.NewManager(api.NewClient(fetcher), sessions, creds, a, log)
	return a, nil
}

func platformBackends(ctx context.Context, platform credentials.Platform, cfg *config.Config, db *sql.DB, log logging.Logger) (credentials.Backends, error) {
	if platform == credentials.PlatformNative {
		return credentials.Backends{
			Secure:      storage.NewKeyringBackend(cfg.KeyringService),
			Preferences: storage.NewSQLiteBackend(db, storage.NamespacePreferences),
		}, nil
	}

	secret, err := cryptox.CreateDeviceSecret(cfg.DeviceKeyFile)
	if err != nil {
		log.Warn(ctx, "credential vault disabled", "error", err)
		secret = nil
	}
	defer cryptox.Wipe(secret)

	vault, err := storage.NewCredentialVault(db, secret)
	if err != nil {
		return credentials.Backends{}, err
	}
	return credentials.Backends{Vault: vault, Session: storage.NewMemoryBackend()}, nil
}

// Run restores the previous session and serves commands until the user
// exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	a.start(ctx)
	fmt.Fprintln(a.out, "Welcome to authkeeper (type 'help' for commands)")
	runREPL(ctx, a, a.prompt, a.reader, a.out)
}

func (a *App) start(ctx context.Context) {
	a.auth.SetNavigationCallback(func() {
		a.setPath(common.LoginPath)
		fmt.Fprintln(a.out, "Your session has expired. Please log in again.")
	})
	a.auth.Init(ctx)

	if a.isLoggedIn() {
		a.setPath(common.DashboardPath)
	}
}

func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

// CurrentPath reports the screen the user is on.
func (a *App) CurrentPath() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.path
}

// Redirect is the hard navigation used when no callback is registered.
func (a *App) Redirect(path string) {
	a.setPath(path)
	fmt.Fprintln(a.out, "Redirected to", path)
}

func (a *App) setPath(path string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.path != path {
		a.log.Debug(context.Background(), "navigate", "from", a.path, "to", path)
		a.path = path
	}
}

func (a *App) isLoggedIn() bool {
	return a.auth.State().Token != ""
}

func (a *App) prompt() string {
	s := a.CurrentPath()
	if u := a.auth.State().User; u != nil {
		s += " " + u.Email
	}
	return s
}
