package wallet

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/AlexZinkM/wallet-core/internal/model"
)

// SetWalletPassword sets or changes the wallet password for the active user.
//
// First call: derives a pin-scoped encryption key with a fresh random salt
// and stores the password under it; the wallet moves to the password-set
// state.
//
// On a wallet that already holds a seed this is the password change flow:
// the current pin must decrypt the existing password and seed
// (model.ErrAuthFailure otherwise), then the seed is re-encrypted under the
// new password and the file is swapped atomically. A concurrent writer on
// the same wallet loses with model.ErrConflict.
func (c *Core) SetWalletPassword(pin, password string) error {
	entry, username, err := c.activeEntry()
	if err != nil {
		return err
	}

	if !entry.mu.TryLock() {
		return fmt.Errorf("wallet is busy: %w", model.ErrConflict)
	}
	defer entry.mu.Unlock()

	pinBytes := []byte(pin)
	passwordBytes := []byte(password)
	defer clear(pinBytes)
	defer clear(passwordBytes)

	if entry.file == nil {
		// Fresh wallet: only the pin blob exists until a wallet is created.
		pinBlob, err := c.secrets.Seal(passwordBytes, pinBytes)
		if err != nil {
			return fmt.Errorf("failed to protect password: %w", err)
		}
		entry.file = &model.WalletFile{
			Version:   model.WalletFileVersion,
			Username:  username,
			PinBlob:   pinBlob,
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		}
		if err := c.saveEntry(entry); err != nil {
			entry.file = nil
			return err
		}
		slog.Info("wallet password set", "username", username)
		return nil
	}

	// Existing wallet: authenticate with the current pin before anything
	// else.
	oldPassword, err := c.secrets.Open(entry.file.PinBlob, pinBytes)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	defer clear(oldPassword)

	next := *entry.file

	if entry.file.HasSeed {
		seed, err := c.secrets.Open(entry.file.SeedBlob, oldPassword)
		if err != nil {
			return fmt.Errorf("change password: %w", err)
		}
		defer clear(seed)

		seedBlob, err := c.secrets.Seal(seed, passwordBytes)
		if err != nil {
			return fmt.Errorf("failed to re-encrypt seed: %w", err)
		}
		next.SeedBlob = seedBlob
	}

	pinBlob, err := c.secrets.Seal(passwordBytes, pinBytes)
	if err != nil {
		return fmt.Errorf("failed to protect password: %w", err)
	}
	next.PinBlob = pinBlob

	// Write-new-then-swap: the old ciphertext is only replaced once the
	// save commits.
	if err := c.users.SaveWallet(&next); err != nil {
		return err
	}
	entry.file = &next

	slog.Info("wallet password changed", "username", username)
	return nil
}

// SetPassword is an alias of SetWalletPassword kept for binding parity.
func (c *Core) SetPassword(pin, password string) error {
	return c.SetWalletPassword(pin, password)
}

// VerifyPin checks that the pin decrypts the stored password without
// touching the seed.
func (c *Core) VerifyPin(pin string) error {
	entry, _, err := c.activeEntry()
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := entry.requireState(StatePasswordSet); err != nil {
		return err
	}

	password, err := c.secrets.Open(entry.file.PinBlob, []byte(pin))
	if err != nil {
		return fmt.Errorf("verify pin: %w", err)
	}
	clear(password)
	return nil
}
