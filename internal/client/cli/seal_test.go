package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	old := readPassword
	readPassword = func(int) ([]byte, error) {
		return []byte(pw), nil
	}
	t.Cleanup(func() { readPassword = old })
}

func TestSealOpenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, ".env")
	sealed := filepath.Join(dir, ".env.sealed")
	restored := filepath.Join(dir, ".env.restored")

	require.NoError(t, os.WriteFile(plain, []byte("API_KEY=sk-123\nDB_URL=postgres://db\n"), 0o600))

	stubPassword(t, "correct horse battery staple")

	require.NoError(t, runSeal(plain, sealed))

	sealedData, err := os.ReadFile(sealed)
	require.NoError(t, err)
	assert.NotContains(t, string(sealedData), "sk-123", "sealed file must not hold plaintext")
	assert.Contains(t, string(sealedData), "API_KEY=v1:")

	require.NoError(t, runOpen(sealed, restored))

	restoredData, err := os.ReadFile(restored)
	require.NoError(t, err)
	assert.Equal(t, "API_KEY=sk-123\nDB_URL=postgres://db\n", string(restoredData))
}

func TestSeal_EmptyPassphraseRejected(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(plain, []byte("A=1\n"), 0o600))

	stubPassword(t, "   ")

	err := runSeal(plain, filepath.Join(dir, "out"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "passphrase")
}

func TestOpen_WrongPassphrase(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, ".env")
	sealed := filepath.Join(dir, ".env.sealed")

	require.NoError(t, os.WriteFile(plain, []byte("A=1\n"), 0o600))

	stubPassword(t, "right passphrase")
	require.NoError(t, runSeal(plain, sealed))

	stubPassword(t, "wrong passphrase")
	err := runOpen(sealed, filepath.Join(dir, "out"))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "decrypted"))
}
