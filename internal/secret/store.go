// Package secret encrypts and decrypts key material at rest. It owns no
// business logic: callers hand it a passphrase and plaintext and get back a
// self-describing blob, or the reverse.
package secret

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/AlexZinkM/wallet-core/internal/model"

	"golang.org/x/crypto/scrypt"
)

const (
	// scrypt parameters for wallet key material.
	// Security is prioritized over performance.
	//
	// N=2^18 (~256MB RAM, 0.5-2s) - optimal balance:
	//   - Maximum security while remaining compatible with mobile devices
	//   - Works on phones (4-16GB RAM) and desktops alike
	//   - Brute-force attacks remain extremely expensive
	//
	// These are the parameters for NEW blobs only. Decryption always uses the
	// parameters stored in the blob, so they can be raised later without
	// breaking existing files.
	DefaultScryptN = 1 << 18
	DefaultScryptR = 8
	DefaultScryptP = 1
	DefaultKeyLen  = 32

	saltLen  = 32
	nonceLen = 12
)

// Params are the KDF parameters used when sealing a new blob.
type Params struct {
	N      int
	R      int
	P      int
	KeyLen int
}

// DefaultParams returns the current production KDF parameters.
func DefaultParams() Params {
	return Params{N: DefaultScryptN, R: DefaultScryptR, P: DefaultScryptP, KeyLen: DefaultKeyLen}
}

// Store seals and opens secret blobs. Zero value is not usable; construct
// with NewStore.
type Store struct {
	params Params
}

// NewStore returns a Store sealing new blobs with the given parameters.
func NewStore(params Params) *Store {
	return &Store{params: params}
}

// Seal encrypts plaintext under a key derived from passphrase with a fresh
// random salt and nonce. passphrase and plaintext must be []byte so the
// caller can zero them after use.
func (s *Store) Seal(plaintext, passphrase []byte) (model.SecretBlob, error) {
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return model.SecretBlob{}, fmt.Errorf("failed to generate salt: %w", err)
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return model.SecretBlob{}, fmt.Errorf("failed to generate nonce: %w", err)
	}

	key, err := scrypt.Key(passphrase, salt, s.params.N, s.params.R, s.params.P, s.params.KeyLen)
	if err != nil {
		return model.SecretBlob{}, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clear(key)

	aesGCM, err := newGCM(key)
	if err != nil {
		return model.SecretBlob{}, err
	}

	ciphertext := aesGCM.Seal(nil, nonce, plaintext, nil)

	return model.SecretBlob{
		Version:    model.SecretBlobVersion,
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		ScryptN:    s.params.N,
		ScryptR:    s.params.R,
		ScryptP:    s.params.P,
		KeyLen:     s.params.KeyLen,
		CipherText: base64.StdEncoding.EncodeToString(ciphertext),
	}, nil
}

// Open decrypts a blob with the key derived from passphrase and the blob's
// stored parameters. A wrong passphrase or corrupted ciphertext fails GCM
// authentication and surfaces model.ErrAuthFailure; no partial plaintext is
// ever returned. Caller must zero the returned slice after use.
func (s *Store) Open(blob model.SecretBlob, passphrase []byte) ([]byte, error) {
	salt, err := base64.StdEncoding.DecodeString(blob.Salt)
	if err != nil {
		return nil, fmt.Errorf("failed to decode salt: %w", err)
	}

	nonce, err := base64.StdEncoding.DecodeString(blob.Nonce)
	if err != nil {
		return nil, fmt.Errorf("failed to decode nonce: %w", err)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(blob.CipherText)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	// Decrypt with the parameters recorded in the blob, not the store
	// defaults, so old files keep working after upgrades.
	key, err := scrypt.Key(passphrase, salt, blob.ScryptN, blob.ScryptR, blob.ScryptP, blob.KeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clear(key)

	aesGCM, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, model.ErrAuthFailure
	}

	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aesGCM, nil
}
