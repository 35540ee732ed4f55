package cryptox

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSecret() []byte {
	return bytes.Repeat([]byte{0x42}, KeySize)
}

func TestDeriveKey_DeterministicPerPurpose(t *testing.T) {
	k1, err := DeriveKey(testSecret(), "vault")
	require.NoError(t, err)
	k2, err := DeriveKey(testSecret(), "vault")
	require.NoError(t, err)
	k3, err := DeriveKey(testSecret(), "other")
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.Len(t, k1, KeySize)
}

func TestDeriveKey_RejectsShortSecret(t *testing.T) {
	_, err := DeriveKey([]byte("short"), "vault")
	require.ErrorIs(t, err, ErrInvalidKey)
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key, err := DeriveKey(testSecret(), "vault")
	require.NoError(t, err)

	sealed, err := Seal(key, []byte("p@ss"))
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "p@ss")

	plain, err := Open(key, sealed)
	require.NoError(t, err)
	assert.Equal(t, "p@ss", string(plain))
}

func TestSeal_FreshNonceEachTime(t *testing.T) {
	key := testSecret()
	a, err := Seal(key, []byte("same"))
	require.NoError(t, err)
	b, err := Seal(key, []byte("same"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestOpen_TamperedAndTruncated(t *testing.T) {
	key := testSecret()
	sealed, err := Seal(key, []byte("data"))
	require.NoError(t, err)

	sealed[len(sealed)-1] ^= 0xff
	_, err = Open(key, sealed)
	require.ErrorIs(t, err, ErrInvalidCiphertext)

	_, err = Open(key, []byte{1, 2, 3})
	require.ErrorIs(t, err, ErrInvalidCiphertext)
}

func TestOpen_WrongKeyLength(t *testing.T) {
	_, err := Open([]byte("k"), []byte("whatever"))
	require.ErrorIs(t, err, ErrInvalidKey)
}

func TestDeviceSecret_CreateThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "device.key")

	_, err := LoadDeviceSecret(path)
	require.ErrorIs(t, err, ErrNoDeviceSecret)

	created, err := CreateDeviceSecret(path)
	require.NoError(t, err)
	require.Len(t, created, KeySize)

	again, err := CreateDeviceSecret(path)
	require.NoError(t, err)
	assert.Equal(t, created, again, "existing secret must be reused")

	loaded, err := LoadDeviceSecret(path)
	require.NoError(t, err)
	assert.Equal(t, created, loaded)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadDeviceSecret_Garbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device.key")
	require.NoError(t, os.WriteFile(path, []byte("not-hex"), 0o600))

	_, err := LoadDeviceSecret(path)
	require.Error(t, err)
}

func TestWipe(t *testing.T) {
	buf := []byte{1, 2, 3}
	Wipe(buf)
	assert.Equal(t, []byte{0, 0, 0}, buf)
	Wipe(nil)
}
