// Package store persists user records and wallet files under the data
// directory. All writes go through a temp-file-and-rename so readers never
// observe partial state, and a crash mid-write leaves the previous file
// intact.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/AlexZinkM/wallet-core/internal/model"
)

const (
	usersDir   = "users"
	walletsDir = "wallets"
)

// Usernames become file names, so they are restricted to a safe charset.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]{0,63}$`)

// UserStore is the durable directory of users and their wallet files.
type UserStore struct {
	dataDir string
}

// NewUserStore creates the data directory layout if needed.
func NewUserStore(dataDir string) (*UserStore, error) {
	for _, sub := range []string{usersDir, walletsDir} {
		if err := os.MkdirAll(filepath.Join(dataDir, sub), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	return &UserStore{dataDir: dataDir}, nil
}

// ValidateUsername reports whether the username is acceptable as a record key.
func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("invalid username %q", username)
	}
	return nil
}

func (s *UserStore) userPath(username string) string {
	return filepath.Join(s.dataDir, usersDir, username+".json")
}

// WalletPath returns the wallet file path for a user.
func (s *UserStore) WalletPath(username string) string {
	return filepath.Join(s.dataDir, walletsDir, username+".wlt")
}

// Create writes a new user record. Fails with model.ErrAlreadyExists if the
// username is taken. New users are never verified.
func (s *UserStore) Create(username string) (*model.User, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if _, err := os.Stat(s.userPath(username)); err == nil {
		return nil, fmt.Errorf("user %q: %w", username, model.ErrAlreadyExists)
	}

	user := &model.User{
		Version:   model.UserRecordVersion,
		Username:  username,
		Verified:  false,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.writeUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Load reads a user record. Fails with model.ErrNotFound if absent.
func (s *UserStore) Load(username string) (*model.User, error) {
	data, err := os.ReadFile(s.userPath(username))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("user %q: %w", username, model.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read user record: %w", err)
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user record: %w", err)
	}
	return &user, nil
}

// SetVerified updates the KYC flag.
func (s *UserStore) SetVerified(username string, verified bool) error {
	user, err := s.Load(username)
	if err != nil {
		return err
	}
	user.Verified = verified
	return s.writeUser(user)
}

// Delete removes the user record and cascades to the wallet file.
// Irreversible.
func (s *UserStore) Delete(username string) error {
	if err := s.DeleteWallet(username); err != nil {
		return err
	}
	if err := os.Remove(s.userPath(username)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("user %q: %w", username, model.ErrNotFound)
		}
		return fmt.Errorf("failed to delete user record: %w", err)
	}
	return nil
}

// LoadWallet reads a user's wallet file. Fails with model.ErrNotFound if the
// user has no wallet yet.
func (s *UserStore) LoadWallet(username string) (*model.WalletFile, error) {
	data, err := os.ReadFile(s.WalletPath(username))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("wallet for %q: %w", username, model.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read wallet file: %w", err)
	}

	var wallet model.WalletFile
	if err := json.Unmarshal(data, &wallet); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wallet file: %w", err)
	}
	return &wallet, nil
}

// SaveWallet writes the wallet file atomically. The previous ciphertext on
// disk stays intact until the rename commits.
func (s *UserStore) SaveWallet(wallet *model.WalletFile) error {
	if wallet == nil {
		return fmt.Errorf("wallet is nil")
	}
	data, err := json.MarshalIndent(wallet, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal wallet file: %w", err)
	}
	return writeAtomic(s.WalletPath(wallet.Username), data)
}

// DeleteWallet wipes the wallet file. Missing file is not an error: delete
// must cascade cleanly for users that never created a wallet.
func (s *UserStore) DeleteWallet(username string) error {
	if err := os.Remove(s.WalletPath(username)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete wallet file: %w", err)
	}
	return nil
}

func (s *UserStore) writeUser(user *model.User) error {
	data, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user record: %w", err)
	}
	return writeAtomic(s.userPath(user.Username), data)
}

// writeAtomic writes to a temp file in the same directory and renames it, so
// readers never observe partial writes.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".wallet-core-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to commit file: %w", err)
	}
	return nil
}
