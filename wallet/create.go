package wallet

import (
	"fmt"
	"log/slog"

	"github.com/AlexZinkM/wallet-core/internal/keys"
	"github.com/AlexZinkM/wallet-core/internal/model"
)

// CreateNewWallet generates a fresh random mnemonic, derives its seed and
// stores the seed encrypted under the wallet password. Requires the
// password-set state. Returns the mnemonic so the caller can present it for
// backup; the core never persists it.
func (c *Core) CreateNewWallet(pin string) (string, error) {
	mnemonic, err := keys.GenerateMnemonic()
	if err != nil {
		return "", err
	}
	if err := c.createFromMnemonic(pin, mnemonic); err != nil {
		return "", err
	}
	return mnemonic, nil
}

// CreateWalletFromMnemonic derives the seed from a user-supplied mnemonic
// and stores it encrypted under the wallet password. Requires the
// password-set state. Fails with model.ErrInvalidMnemonic if the mnemonic is
// malformed.
func (c *Core) CreateWalletFromMnemonic(pin, mnemonic string) error {
	return c.createFromMnemonic(pin, mnemonic)
}

func (c *Core) createFromMnemonic(pin, mnemonic string) error {
	entry, username, err := c.activeEntry()
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := entry.requireState(StatePasswordSet); err != nil {
		return err
	}
	if entry.file.HasSeed {
		// Exactly one seed ciphertext per wallet.
		return fmt.Errorf("wallet already created: %w", model.ErrAlreadyExists)
	}

	// Validate the mnemonic before touching any secret.
	seed, err := keys.MnemonicToSeed(mnemonic)
	if err != nil {
		return err
	}
	defer clear(seed)

	password, err := c.secrets.Open(entry.file.PinBlob, []byte(pin))
	if err != nil {
		return fmt.Errorf("create wallet: %w", err)
	}
	defer clear(password)

	seedBlob, err := c.secrets.Seal(seed, password)
	if err != nil {
		return fmt.Errorf("failed to encrypt seed: %w", err)
	}

	next := *entry.file
	next.SeedBlob = seedBlob
	next.HasSeed = true
	if err := c.users.SaveWallet(&next); err != nil {
		return err
	}
	entry.file = &next

	slog.Info("wallet created", "username", username)
	return nil
}

// openSeed authenticates the pin and returns the plaintext seed. Caller
// holds the entry lock, requires at least the wallet-created state, and must
// zero the returned slice on every exit path.
func (c *Core) openSeed(entry *walletEntry, pin string) ([]byte, error) {
	password, err := c.secrets.Open(entry.file.PinBlob, []byte(pin))
	if err != nil {
		return nil, err
	}
	defer clear(password)

	return c.secrets.Open(entry.file.SeedBlob, password)
}
