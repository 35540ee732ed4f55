package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/authkeeper/internal/dbx"
)

// SQLiteBackend is a Backend over one namespace of the kv_store table.
type SQLiteBackend struct {
	db        dbx.DBTX
	namespace string
}

func NewSQLiteBackend(db dbx.DBTX, namespace string) *SQLiteBackend {
	return &SQLiteBackend{db: db, namespace: namespace}
}

func (b *SQLiteBackend) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := b.db.QueryRowContext(ctx,
		`SELECT value FROM kv_store WHERE namespace = ? AND key = ?`, b.namespace, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: get %s[%s]: %w", ErrUnavailable, b.namespace, key, err)
	}
	return value, true, nil
}

func (b *SQLiteBackend) Set(ctx context.Context, key, value string) error {
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO kv_store (namespace, key, value) VALUES (?, ?, ?)
		ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value
	`, b.namespace, key, value)
	if err != nil {
		return fmt.Errorf("%w: set %s[%s]: %w", ErrUnavailable, b.namespace, key, err)
	}
	return nil
}

func (b *SQLiteBackend) Remove(ctx context.Context, key string) error {
	_, err := b.db.ExecContext(ctx,
		`DELETE FROM kv_store WHERE namespace = ? AND key = ?`, b.namespace, key)
	if err != nil {
		return fmt.Errorf("%w: remove %s[%s]: %w", ErrUnavailable, b.namespace, key, err)
	}
	return nil
}
