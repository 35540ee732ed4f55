package credentials

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/dmitrijs2005/authkeeper/internal/client/storage"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
)

// ---- fakes ----

// flakyBackend is a MemoryBackend whose operations can be made to fail.
type flakyBackend struct {
	*storage.MemoryBackend
	SetErr    error
	GetErr    error
	RemoveErr error
}

func newFlaky() *flakyBackend {
	return &flakyBackend{MemoryBackend: storage.NewMemoryBackend()}
}

func (f *flakyBackend) Set(ctx context.Context, key, value string) error {
	if f.SetErr != nil {
		return f.SetErr
	}
	return f.MemoryBackend.Set(ctx, key, value)
}

func (f *flakyBackend) Get(ctx context.Context, key string) (string, bool, error) {
	if f.GetErr != nil {
		return "", false, f.GetErr
	}
	return f.MemoryBackend.Get(ctx, key)
}

func (f *flakyBackend) Remove(ctx context.Context, key string) error {
	if f.RemoveErr != nil {
		return f.RemoveErr
	}
	return f.MemoryBackend.Remove(ctx, key)
}

// fakeVault is an in-memory CredentialManager.
type fakeVault struct {
	Unavailable bool
	StoreErr    error
	GetErr      error
	RemoveErr   error

	cred *storage.PasswordCredential
}

func (v *fakeVault) Available() bool { return !v.Unavailable }

func (v *fakeVault) Store(_ context.Context, cred storage.PasswordCredential) error {
	if v.StoreErr != nil {
		return v.StoreErr
	}
	v.cred = &cred
	return nil
}

func (v *fakeVault) Get(_ context.Context, req storage.CredentialRequest) (*storage.PasswordCredential, error) {
	if v.GetErr != nil {
		return nil, v.GetErr
	}
	if !req.Password || v.cred == nil {
		return nil, nil
	}
	c := *v.cred
	return &c, nil
}

func (v *fakeVault) Remove(context.Context) error {
	if v.RemoveErr != nil {
		return v.RemoveErr
	}
	v.cred = nil
	return nil
}

var errRefused = errors.New("user declined")

type fixture struct {
	store   *Store
	primary interface{ fail(error) }
	second  *flakyBackend
}

type flakyPrimary struct{ b *flakyBackend }

func (p flakyPrimary) fail(err error) { p.b.SetErr = err }

type vaultPrimary struct{ v *fakeVault }

func (p vaultPrimary) fail(err error) { p.v.StoreErr = err }

func newNative(t *testing.T) (*Store, *flakyBackend, *flakyBackend) {
	t.Helper()
	secure, prefs := newFlaky(), newFlaky()
	s, err := New(PlatformNative, Backends{Secure: secure, Preferences: prefs}, logging.Nop())
	require.NoError(t, err)
	return s, secure, prefs
}

func newWeb(t *testing.T) (*Store, *fakeVault, *flakyBackend) {
	t.Helper()
	vault, session := &fakeVault{}, newFlaky()
	s, err := New(PlatformWeb, Backends{Vault: vault, Session: session}, logging.Nop())
	require.NoError(t, err)
	return s, vault, session
}

func fixtures(t *testing.T) map[string]fixture {
	ns, secure, prefs := newNative(t)
	ws, vault, session := newWeb(t)
	return map[string]fixture{
		"native": {store: ns, primary: flakyPrimary{secure}, second: prefs},
		"web":    {store: ws, primary: vaultPrimary{vault}, second: session},
	}
}

func requireEmpty(t *testing.T, c Credentials) {
	t.Helper()
	assert.Nil(t, c.Email)
	assert.Nil(t, c.Password)
	assert.False(t, c.RememberMe)
}

// ---- tests ----

func TestSetCredentials_NotRemembered_YieldsEmpty(t *testing.T) {
	for name, f := range fixtures(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			f.store.SetCredentials(ctx, "a@x.com", "p", false)
			requireEmpty(t, f.store.GetCredentials(ctx))
		})
	}
}

func TestSetCredentials_NotRemembered_ClearsPrevious(t *testing.T) {
	for name, f := range fixtures(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			f.store.SetCredentials(ctx, "a@x.com", "p", true)
			require.True(t, f.store.HasRememberedCredentials(ctx))

			f.store.SetCredentials(ctx, "a@x.com", "p", false)
			requireEmpty(t, f.store.GetCredentials(ctx))
			assert.False(t, f.store.HasRememberedCredentials(ctx))
		})
	}
}

func TestSetCredentials_PrimaryStoresFullCredential(t *testing.T) {
	for name, f := range fixtures(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			f.store.SetCredentials(ctx, "a@x.com", "p", true)

			c := f.store.GetCredentials(ctx)
			require.NotNil(t, c.Email)
			require.NotNil(t, c.Password)
			assert.Equal(t, "a@x.com", *c.Email)
			assert.Equal(t, "p", *c.Password)
			assert.True(t, c.RememberMe)
		})
	}
}

func TestSetCredentials_PrimaryFails_DegradesToEmailOnly(t *testing.T) {
	for name, f := range fixtures(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			f.primary.fail(errRefused)

			f.store.SetCredentials(ctx, "a@x.com", "p", true)

			c := f.store.GetCredentials(ctx)
			require.NotNil(t, c.Email)
			assert.Equal(t, "a@x.com", *c.Email)
			assert.Nil(t, c.Password)
			assert.False(t, c.RememberMe)

			_, ok, _ := f.second.MemoryBackend.Get(ctx, keyPassword)
			assert.False(t, ok, "fallback tier must never hold a password")
		})
	}
}

func TestSetCredentials_DegradeHidesOlderFullRecord(t *testing.T) {
	for name, f := range fixtures(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			f.store.SetCredentials(ctx, "old@x.com", "old", true)

			// Writes now fail; removing the old record still works.
			f.primary.fail(errRefused)
			f.store.SetCredentials(ctx, "new@x.com", "new", true)

			c := f.store.GetCredentials(ctx)
			require.NotNil(t, c.Email)
			assert.Equal(t, "new@x.com", *c.Email)
			assert.Nil(t, c.Password)
			assert.False(t, c.RememberMe)
		})
	}
}

func TestSetCredentials_DegradeWithStuckMarkerStillSavesEmail(t *testing.T) {
	s, secure, prefs := newNative(t)
	ctx := context.Background()

	secure.SetErr = errRefused
	secure.RemoveErr = errors.New("keychain locked")
	s.SetCredentials(ctx, "new@x.com", "new", true)

	email, ok, err := prefs.MemoryBackend.Get(ctx, keyEmail)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "new@x.com", email)
}

func TestSetCredentials_WebDegradeWithStuckVaultStillSavesEmail(t *testing.T) {
	s, vault, session := newWeb(t)
	ctx := context.Background()

	vault.StoreErr = errRefused
	vault.RemoveErr = errors.New("vault locked")
	s.SetCredentials(ctx, "new@x.com", "new", true)

	email, ok, err := session.MemoryBackend.Get(ctx, keyEmail)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "new@x.com", email)
}

func TestSetCredentials_PrimarySuccessClearsEmailOnlyRecord(t *testing.T) {
	s, secure, prefs := newNative(t)
	ctx := context.Background()

	secure.SetErr = errRefused
	s.SetCredentials(ctx, "a@x.com", "p", true)
	_, ok, _ := prefs.Get(ctx, keyEmail)
	require.True(t, ok)

	secure.SetErr = nil
	s.SetCredentials(ctx, "a@x.com", "p", true)
	_, ok, _ = prefs.Get(ctx, keyEmail)
	assert.False(t, ok)
}

func TestGetCredentials_PrimaryReadErrorFallsThrough(t *testing.T) {
	s, secure, prefs := newNative(t)
	ctx := context.Background()

	require.NoError(t, prefs.Set(ctx, keyEmail, "a@x.com"))
	require.NoError(t, prefs.Set(ctx, keyRemember, rememberEmailOnly))
	secure.GetErr = errors.New("locked")

	c := s.GetCredentials(ctx)
	require.NotNil(t, c.Email)
	assert.Equal(t, "a@x.com", *c.Email)
	assert.Nil(t, c.Password)
}

func TestGetCredentials_AllTiersBroken_YieldsEmpty(t *testing.T) {
	s, secure, prefs := newNative(t)
	secure.GetErr = errors.New("locked")
	prefs.GetErr = errors.New("corrupt")

	requireEmpty(t, s.GetCredentials(context.Background()))
}

func TestGetCredentials_IgnoresEmailWithoutMarker(t *testing.T) {
	s, _, prefs := newNative(t)
	ctx := context.Background()
	require.NoError(t, prefs.Set(ctx, keyEmail, "a@x.com"))

	requireEmpty(t, s.GetCredentials(ctx))
}

func TestClearCredentials_AlwaysYieldsEmpty(t *testing.T) {
	for name, f := range fixtures(t) {
		t.Run(name+"/primary", func(t *testing.T) {
			ctx := context.Background()
			f.store.SetCredentials(ctx, "a@x.com", "p", true)
			f.store.ClearCredentials(ctx)
			requireEmpty(t, f.store.GetCredentials(ctx))
		})
	}

	for name, f := range fixtures(t) {
		t.Run(name+"/secondary", func(t *testing.T) {
			ctx := context.Background()
			f.primary.fail(errRefused)
			f.store.SetCredentials(ctx, "a@x.com", "p", true)
			f.store.ClearCredentials(ctx)
			requireEmpty(t, f.store.GetCredentials(ctx))
		})
	}
}

func TestClearCredentials_OneTierFailingDoesNotStopTheOther(t *testing.T) {
	s, secure, prefs := newNative(t)
	ctx := context.Background()

	require.NoError(t, prefs.Set(ctx, keyEmail, "a@x.com"))
	require.NoError(t, prefs.Set(ctx, keyRemember, rememberEmailOnly))
	secure.RemoveErr = errors.New("locked")

	s.ClearCredentials(ctx)

	_, ok, _ := prefs.Get(ctx, keyEmail)
	assert.False(t, ok)
}

func TestClearCredentials_VaultRemoveFailureStillClearsSession(t *testing.T) {
	s, vault, session := newWeb(t)
	ctx := context.Background()

	vault.Unavailable = true
	s.SetCredentials(ctx, "a@x.com", "p", true)
	vault.Unavailable = false
	vault.RemoveErr = errors.New("locked")

	s.ClearCredentials(ctx)

	_, ok, _ := session.Get(ctx, keyEmail)
	assert.False(t, ok)
}

func TestWeb_VaultUnavailable_RemembersEmailOnly(t *testing.T) {
	s, vault, _ := newWeb(t)
	vault.Unavailable = true
	ctx := context.Background()

	s.SetCredentials(ctx, "a@x.com", "p", true)

	assert.Nil(t, vault.cred)
	c := s.GetCredentials(ctx)
	require.NotNil(t, c.Email)
	assert.Equal(t, "a@x.com", *c.Email)
	assert.Nil(t, c.Password)
}

func TestWeb_VaultGetErrorFallsThrough(t *testing.T) {
	s, vault, session := newWeb(t)
	ctx := context.Background()
	require.NoError(t, session.Set(ctx, keyEmail, "a@x.com"))
	require.NoError(t, session.Set(ctx, keyRemember, rememberEmailOnly))
	vault.GetErr = errors.New("not allowed")

	c := s.GetCredentials(ctx)
	require.NotNil(t, c.Email)
	assert.Nil(t, c.Password)
}

func TestNative_WithKeyringAndSQLite(t *testing.T) {
	ctx := context.Background()
	db, err := storage.OpenDatabase(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	keyring.MockInitWithError(errors.New("no secret service"))
	t.Cleanup(keyring.MockInit)

	s, err := New(PlatformNative, Backends{
		Secure:      storage.NewKeyringBackend("authkeeper-test"),
		Preferences: storage.NewSQLiteBackend(db, storage.NamespacePreferences),
	}, logging.Nop())
	require.NoError(t, err)

	s.SetCredentials(ctx, "a@x.com", "p", true)
	c := s.GetCredentials(ctx)
	require.NotNil(t, c.Email)
	assert.Equal(t, "a@x.com", *c.Email)
	assert.Nil(t, c.Password)

	keyring.MockInit()
	s.SetCredentials(ctx, "a@x.com", "p", true)
	c = s.GetCredentials(ctx)
	require.NotNil(t, c.Password)
	assert.Equal(t, "p", *c.Password)
	assert.True(t, c.RememberMe)

	s.ClearCredentials(ctx)
	requireEmpty(t, s.GetCredentials(ctx))
}

func TestNew_Validation(t *testing.T) {
	_, err := New(PlatformNative, Backends{Secure: newFlaky()}, logging.Nop())
	require.Error(t, err)

	_, err = New(PlatformWeb, Backends{Session: newFlaky()}, logging.Nop())
	require.Error(t, err)

	_, err = New(Platform("desktop"), Backends{}, logging.Nop())
	require.Error(t, err)

	s, err := New(PlatformWeb, Backends{Vault: &fakeVault{}, Session: newFlaky()}, logging.Nop())
	require.NoError(t, err)
	assert.Equal(t, PlatformWeb, s.Platform())
}

func TestParsePlatform(t *testing.T) {
	p, err := ParsePlatform("native")
	require.NoError(t, err)
	assert.Equal(t, PlatformNative, p)

	p, err = ParsePlatform("web")
	require.NoError(t, err)
	assert.Equal(t, PlatformWeb, p)

	_, err = ParsePlatform("")
	require.Error(t, err)
}
