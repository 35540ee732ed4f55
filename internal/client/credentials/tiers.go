package credentials

import (
	"context"

	"github.com/dmitrijs2005/authkeeper/internal/client/storage"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
)

// chain is the fallback policy of one platform.
type chain interface {
	save(ctx context.Context, email, password string)
	load(ctx context.Context) Credentials
	clear(ctx context.Context)
}

// emailOnly is the secondary tier shared by both platforms.
type emailOnly struct {
	b   storage.Backend
	log logging.Logger
}

func (e emailOnly) save(ctx context.Context, email string) {
	if err := e.b.Set(ctx, keyEmail, email); err != nil {
		e.log.Error(ctx, "failed to remember email", "error", err)
		return
	}
	if err := e.b.Set(ctx, keyRemember, rememberEmailOnly); err != nil {
		e.log.Error(ctx, "failed to write remember marker", "error", err)
	}
}

func (e emailOnly) load(ctx context.Context) (Credentials, bool) {
	flag, ok, err := e.b.Get(ctx, keyRemember)
	if err != nil {
		e.log.Debug(ctx, "email-only tier unreadable", "error", err)
		return Credentials{}, false
	}
	if !ok || flag != rememberEmailOnly {
		return Credentials{}, false
	}

	email, ok, err := e.b.Get(ctx, keyEmail)
	if err != nil || !ok || email == "" {
		return Credentials{}, false
	}
	return Credentials{Email: ptr(email)}, true
}

func (e emailOnly) clear(ctx context.Context) {
	for _, key := range []string{keyEmail, keyRemember} {
		if err := e.b.Remove(ctx, key); err != nil {
			e.log.Debug(ctx, "failed to clear email-only tier", "key", key, "error", err)
		}
	}
}

// nativeChain: keyring first, preferences second.
type nativeChain struct {
	secure   storage.Backend
	fallback emailOnly
	log      logging.Logger
}

func (n *nativeChain) save(ctx context.Context, email, password string) {
	if err := n.writeSecure(ctx, email, password); err != nil {
		n.log.Warn(ctx, "secure storage refused credentials, remembering email only", "error", err)
		// A marker left by an older login would shadow the fallback.
		if rmErr := n.secure.Remove(ctx, keyRemember); rmErr != nil {
			n.log.Warn(ctx, "failed to drop stale secure marker", "error", rmErr)
		}
		n.fallback.save(ctx, email)
		return
	}
	n.fallback.clear(ctx)
	n.log.Debug(ctx, "credentials stored in secure storage")
}

// writeSecure writes the marker last so a half-written record never reads
// as complete.
func (n *nativeChain) writeSecure(ctx context.Context, email, password string) error {
	if err := n.secure.Set(ctx, keyEmail, email); err != nil {
		return err
	}
	if err := n.secure.Set(ctx, keyPassword, password); err != nil {
		return err
	}
	return n.secure.Set(ctx, keyRemember, rememberFull)
}

func (n *nativeChain) load(ctx context.Context) Credentials {
	if c, ok := n.readSecure(ctx); ok {
		return c
	}
	if c, ok := n.fallback.load(ctx); ok {
		return c
	}
	return Credentials{}
}

func (n *nativeChain) readSecure(ctx context.Context) (Credentials, bool) {
	flag, ok, err := n.secure.Get(ctx, keyRemember)
	if err != nil {
		n.log.Debug(ctx, "secure storage unreadable", "error", err)
		return Credentials{}, false
	}
	if !ok || flag != rememberFull {
		return Credentials{}, false
	}

	c := Credentials{RememberMe: true}
	email, ok, err := n.secure.Get(ctx, keyEmail)
	if err != nil {
		n.log.Debug(ctx, "secure storage unreadable", "error", err)
		return Credentials{}, false
	}
	if ok {
		c.Email = ptr(email)
	}

	password, ok, err := n.secure.Get(ctx, keyPassword)
	if err != nil {
		n.log.Debug(ctx, "secure storage unreadable", "error", err)
		return Credentials{}, false
	}
	if ok {
		c.Password = ptr(password)
	}
	return c, true
}

func (n *nativeChain) clear(ctx context.Context) {
	for _, key := range []string{keyEmail, keyPassword, keyRemember} {
		if err := n.secure.Remove(ctx, key); err != nil {
			n.log.Debug(ctx, "failed to clear secure storage", "key", key, "error", err)
		}
	}
	n.fallback.clear(ctx)
}

// webChain: credential vault first, session memory second.
type webChain struct {
	vault    CredentialManager
	fallback emailOnly
	log      logging.Logger
}

func (w *webChain) save(ctx context.Context, email, password string) {
	if !w.vault.Available() {
		w.log.Debug(ctx, "credential vault not available, remembering email only")
		w.fallback.save(ctx, email)
		return
	}

	err := w.vault.Store(ctx, storage.PasswordCredential{ID: email, Password: password, Name: email})
	if err != nil {
		w.log.Warn(ctx, "credential vault refused credentials, remembering email only", "error", err)
		// An older vault credential would shadow the fallback.
		if rmErr := w.vault.Remove(ctx); rmErr != nil {
			w.log.Warn(ctx, "failed to drop stale vault credential", "error", rmErr)
		}
		w.fallback.save(ctx, email)
		return
	}
	w.fallback.clear(ctx)
	w.log.Debug(ctx, "credentials stored in credential vault")
}

func (w *webChain) load(ctx context.Context) Credentials {
	if w.vault.Available() {
		cred, err := w.vault.Get(ctx, storage.CredentialRequest{Password: true, Mediation: storage.MediationSilent})
		switch {
		case err != nil:
			w.log.Debug(ctx, "no credential from vault", "error", err)
		case cred != nil:
			c := Credentials{Email: ptr(cred.ID), RememberMe: true}
			if cred.Password != "" {
				c.Password = ptr(cred.Password)
			}
			return c
		}
	}
	if c, ok := w.fallback.load(ctx); ok {
		return c
	}
	return Credentials{}
}

func (w *webChain) clear(ctx context.Context) {
	if w.vault.Available() {
		if err := w.vault.Remove(ctx); err != nil {
			w.log.Debug(ctx, "failed to clear credential vault", "error", err)
		}
	}
	w.fallback.clear(ctx)
}
