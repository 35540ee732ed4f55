package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/authkeeper/internal/cryptox"
	"github.com/dmitrijs2005/authkeeper/internal/dbx"
)

const vaultKeyPurpose = "authkeeper-credential-vault-v1"

// PasswordCredential is a login identity with its secret.
type PasswordCredential struct {
	ID       string
	Password string
	Name     string
}

// Mediation controls whether retrieving a credential may involve the user.
type Mediation string

const (
	// MediationSilent never prompts; it yields a credential only when the
	// choice is unambiguous.
	MediationSilent   Mediation = "silent"
	MediationOptional Mediation = "optional"
)

// CredentialRequest describes what Get should return.
type CredentialRequest struct {
	Password  bool
	Mediation Mediation
}

// CredentialVault is a password-credential manager whose secrets are sealed
// with a key derived from the device secret. A vault built without a device
// secret is unavailable and every call returns ErrVaultUnavailable.
type CredentialVault struct {
	db  *sql.DB
	key []byte
}

// NewCredentialVault binds a vault to db. deviceSecret may be nil, in which
// case the vault reports Available() == false.
func NewCredentialVault(db *sql.DB, deviceSecret []byte) (*CredentialVault, error) {
	v := &CredentialVault{db: db}
	if deviceSecret == nil {
		return v, nil
	}

	key, err := cryptox.DeriveKey(deviceSecret, vaultKeyPurpose)
	if err != nil {
		return nil, fmt.Errorf("credential vault key: %w", err)
	}
	v.key = key
	return v, nil
}

// Available reports whether the vault can store and return credentials.
func (v *CredentialVault) Available() bool {
	return v != nil && v.key != nil
}

// Store replaces the stored credential with cred.
func (v *CredentialVault) Store(ctx context.Context, cred PasswordCredential) error {
	if !v.Available() {
		return ErrVaultUnavailable
	}

	sealed, err := cryptox.Seal(v.key, []byte(cred.Password))
	if err != nil {
		return fmt.Errorf("%w: seal credential: %w", ErrUnavailable, err)
	}

	return dbx.InTx(ctx, v.db, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM credential_vault`); err != nil {
			return fmt.Errorf("%w: replace credential: %w", ErrUnavailable, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO credential_vault (id, name, secret) VALUES (?, ?, ?)`,
			cred.ID, cred.Name, sealed,
		); err != nil {
			return fmt.Errorf("%w: store credential: %w", ErrUnavailable, err)
		}
		return nil
	})
}

// Get returns the stored credential, or nil when there is none to hand out.
// Requests that do not ask for passwords always get nil.
func (v *CredentialVault) Get(ctx context.Context, req CredentialRequest) (*PasswordCredential, error) {
	if !v.Available() {
		return nil, ErrVaultUnavailable
	}
	if !req.Password {
		return nil, nil
	}

	rows, err := v.db.QueryContext(ctx, `SELECT id, name, secret FROM credential_vault`)
	if err != nil {
		return nil, fmt.Errorf("%w: query credentials: %w", ErrUnavailable, err)
	}
	defer rows.Close()

	type row struct {
		id, name string
		secret   []byte
	}
	var found []row
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.id, &r.name, &r.secret); err != nil {
			return nil, fmt.Errorf("%w: scan credential: %w", ErrUnavailable, err)
		}
		found = append(found, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate credentials: %w", ErrUnavailable, err)
	}

	if len(found) == 0 {
		return nil, nil
	}
	if len(found) > 1 && req.Mediation == MediationSilent {
		return nil, nil
	}

	plain, err := cryptox.Open(v.key, found[0].secret)
	if err != nil {
		return nil, fmt.Errorf("%w: open credential: %w", ErrUnavailable, err)
	}
	return &PasswordCredential{ID: found[0].id, Name: found[0].name, Password: string(plain)}, nil
}

// Remove forgets every stored credential.
func (v *CredentialVault) Remove(ctx context.Context) error {
	if !v.Available() {
		return ErrVaultUnavailable
	}
	if _, err := v.db.ExecContext(ctx, `DELETE FROM credential_vault`); err != nil {
		return fmt.Errorf("%w: remove credentials: %w", ErrUnavailable, err)
	}
	return nil
}
