package cryptox

import (
	"path/filepath"
	"testing"

	"github.com/snipai/snipai/internal/common"
	"github.com/stretchr/testify/require"
)

func TestSealOpen_RoundTrip(t *testing.T) {
	key := common.GenerateRandByteArray(32)

	sealed, err := Seal([]byte("gsk_test_key"), key)
	require.NoError(t, err)
	require.NotEqual(t, []byte("gsk_test_key"), sealed)

	plain, err := Open(sealed, key)
	require.NoError(t, err)
	require.Equal(t, []byte("gsk_test_key"), plain)
}

func TestOpen_WrongKey(t *testing.T) {
	sealed, err := Seal([]byte("secret"), common.GenerateRandByteArray(32))
	require.NoError(t, err)

	_, err = Open(sealed, common.GenerateRandByteArray(32))
	require.Error(t, err)
}

func TestOpen_TooShort(t *testing.T) {
	_, err := Open([]byte{1, 2, 3}, common.GenerateRandByteArray(32))
	require.ErrorIs(t, err, ErrCiphertextTooShort)
}

func TestDeriveKey(t *testing.T) {
	secret := common.GenerateRandByteArray(32)

	a := DeriveKey(secret, "ai-key")
	require.Len(t, a, 32)
	require.Equal(t, a, DeriveKey(secret, "ai-key"), "derivation must be deterministic")
	require.NotEqual(t, a, DeriveKey(secret, "other"), "purpose must separate keys")
}

func TestLoadOrCreateSecret(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret.key")

	first, err := LoadOrCreateSecret(path)
	require.NoError(t, err)
	require.Len(t, first, 32)

	second, err := LoadOrCreateSecret(path)
	require.NoError(t, err)
	require.Equal(t, first, second, "secret must be stable across loads")
}
