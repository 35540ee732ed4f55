package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSQLiteBackend_Contract(t *testing.T) {
	backendContract(t, NewSQLiteBackend(openTestDB(t), NamespaceLocal))
}

func TestSQLiteBackend_NamespacesAreIsolated(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	prefs := NewSQLiteBackend(db, NamespacePreferences)
	local := NewSQLiteBackend(db, NamespaceLocal)

	require.NoError(t, prefs.Set(ctx, "user_email", "a@x.com"))

	_, ok, err := local.Get(ctx, "user_email")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, local.Remove(ctx, "user_email"))
	v, ok, err := prefs.Get(ctx, "user_email")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "a@x.com", v)
}

func TestSQLiteBackend_ClosedDBIsUnavailable(t *testing.T) {
	db := openTestDB(t)
	b := NewSQLiteBackend(db, NamespaceLocal)
	require.NoError(t, db.Close())

	err := b.Set(context.Background(), "k", "v")
	require.ErrorIs(t, err, ErrUnavailable)

	_, _, err = b.Get(context.Background(), "k")
	require.ErrorIs(t, err, ErrUnavailable)
}
