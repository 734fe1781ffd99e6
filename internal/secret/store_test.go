package secret

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/AlexZinkM/wallet-core/internal/model"

	"github.com/stretchr/testify/require"
)

// Small parameters keep KDF time reasonable in tests; decryption must still
// honor whatever the blob says.
func testParams() Params {
	return Params{N: 1 << 12, R: 8, P: 1, KeyLen: 32}
}

func TestSealOpenRoundTrip(t *testing.T) {
	store := NewStore(testParams())

	plaintext := []byte("super secret seed material")
	blob, err := store.Seal(plaintext, []byte("pin1234"))
	require.NoError(t, err)
	require.Equal(t, model.SecretBlobVersion, blob.Version)
	require.NotEmpty(t, blob.Salt)
	require.NotEmpty(t, blob.Nonce)
	require.NotEmpty(t, blob.CipherText)

	got, err := store.Open(blob, []byte("pin1234"))
	require.NoError(t, err)
	require.Equal(t, plaintext, got)
}

func TestOpenWrongPassphrase(t *testing.T) {
	store := NewStore(testParams())

	blob, err := store.Seal([]byte("data"), []byte("correct"))
	require.NoError(t, err)

	_, err = store.Open(blob, []byte("wrong"))
	require.ErrorIs(t, err, model.ErrAuthFailure)
}

func TestOpenCorruptedCiphertext(t *testing.T) {
	store := NewStore(testParams())

	blob, err := store.Seal([]byte("data"), []byte("pw"))
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(blob.CipherText)
	require.NoError(t, err)
	raw[0] ^= 0xff
	blob.CipherText = base64.StdEncoding.EncodeToString(raw)

	_, err = store.Open(blob, []byte("pw"))
	require.ErrorIs(t, err, model.ErrAuthFailure)
}

func TestOpenUsesStoredParams(t *testing.T) {
	// Seal with one parameter set, open through a store configured with a
	// different one. The blob's own parameters must win.
	sealer := NewStore(Params{N: 1 << 10, R: 8, P: 1, KeyLen: 32})
	opener := NewStore(Params{N: 1 << 14, R: 4, P: 2, KeyLen: 32})

	blob, err := sealer.Seal([]byte("data"), []byte("pw"))
	require.NoError(t, err)
	require.Equal(t, 1<<10, blob.ScryptN)

	got, err := opener.Open(blob, []byte("pw"))
	require.NoError(t, err)
	require.Equal(t, []byte("data"), got)
}

func TestFreshSaltAndNoncePerSeal(t *testing.T) {
	store := NewStore(testParams())

	a, err := store.Seal([]byte("data"), []byte("pw"))
	require.NoError(t, err)
	b, err := store.Seal([]byte("data"), []byte("pw"))
	require.NoError(t, err)

	if a.Salt == b.Salt || a.Nonce == b.Nonce {
		t.Fatalf("expected fresh salt and nonce per seal")
	}
	require.NotEqual(t, a.CipherText, b.CipherText)
}

func TestAuthFailureIsDistinguishable(t *testing.T) {
	store := NewStore(testParams())
	blob, err := store.Seal([]byte("data"), []byte("pw"))
	require.NoError(t, err)

	_, err = store.Open(blob, []byte("nope"))
	if !errors.Is(err, model.ErrAuthFailure) {
		t.Fatalf("expected ErrAuthFailure, got %v", err)
	}
}
