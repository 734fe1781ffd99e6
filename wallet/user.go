package wallet

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/AlexZinkM/wallet-core/internal/model"
)

// CreateNewUser creates a durable user record. Fails with
// model.ErrAlreadyExists if the username is taken.
func (c *Core) CreateNewUser(username string) error {
	if _, err := c.users.Create(username); err != nil {
		return err
	}
	slog.Info("user created", "username", username)
	return nil
}

// InitializeUser loads the user's persisted state and makes the user active
// on this handle. Fails with model.ErrNotFound if the user was never
// created.
func (c *Core) InitializeUser(username string) error {
	if _, err := c.users.Load(username); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[username]
	if !ok {
		entry = &walletEntry{}
		file, err := c.users.LoadWallet(username)
		switch {
		case err == nil:
			entry.file = file
		case errors.Is(err, model.ErrNotFound):
			// User exists but has no wallet yet.
		default:
			return err
		}
		c.entries[username] = entry
	}

	c.active = username
	slog.Debug("user initialized", "username", username)
	return nil
}

// DeleteUser authenticates with the pin, then wipes the user's wallet
// ciphertext and record. Irreversible. Fails with model.ErrConflict if a
// concurrent operation holds the wallet lock.
func (c *Core) DeleteUser(pin string) error {
	entry, username, err := c.activeEntry()
	if err != nil {
		return err
	}

	if !entry.mu.TryLock() {
		return fmt.Errorf("wallet is busy: %w", model.ErrConflict)
	}
	defer entry.mu.Unlock()

	// Authenticate when there is anything to authenticate against. A user
	// that never set a password has no secret to protect.
	if entry.file != nil {
		password, err := c.secrets.Open(entry.file.PinBlob, []byte(pin))
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		clear(password)
	}

	if err := c.users.Delete(username); err != nil {
		return err
	}

	c.mu.Lock()
	delete(c.entries, username)
	if c.active == username {
		c.active = ""
	}
	c.mu.Unlock()

	entry.file = nil
	slog.Info("user deleted", "username", username)
	return nil
}

// IsKycVerified reports the user's KYC flag. Unknown or deleted users are
// reported as not verified rather than as an error; callers that need
// existence checks use the other operations, which return
// model.ErrNotFound.
func (c *Core) IsKycVerified(username string) bool {
	user, err := c.users.Load(username)
	if err != nil {
		return false
	}
	return user.Verified
}

// SetKycVerified updates the user's KYC flag.
func (c *Core) SetKycVerified(username string, verified bool) error {
	return c.users.SetVerified(username, verified)
}
