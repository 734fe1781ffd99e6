package wallet

import (
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/AlexZinkM/wallet-core/internal/keys"
	"github.com/AlexZinkM/wallet-core/internal/model"

	"github.com/skip2/go-qrcode"
)

// GenerateNewAddress derives the receive address at the next index for the
// active network, appends it to the wallet and returns it. Requires the
// active state. Index allocation is an atomic increment-and-reserve under
// the wallet lock: concurrent calls on the same wallet receive distinct
// sequential indices.
func (c *Core) GenerateNewAddress(pin string) (*model.Address, error) {
	entry, username, err := c.activeEntry()
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := entry.requireState(StateActive); err != nil {
		return nil, err
	}

	networkDef, err := c.activeNetwork(entry)
	if err != nil {
		return nil, err
	}

	seed, err := c.openSeed(entry, pin)
	if err != nil {
		return nil, fmt.Errorf("generate address: %w", err)
	}
	defer clear(seed)

	index := entry.file.AddressIndex
	keypair, err := keys.Derive(seed, networkDef, index)
	if err != nil {
		return nil, err
	}
	defer keypair.Wipe()

	address := model.Address{
		Index:     index,
		Value:     keypair.Address,
		NetworkID: networkDef.ID,
	}

	next := *entry.file
	next.AddressIndex = index + 1
	next.Addresses = append(append([]model.Address(nil), entry.file.Addresses...), address)
	if err := c.users.SaveWallet(&next); err != nil {
		// Save failed: the index stays unallocated.
		return nil, err
	}
	entry.file = &next

	slog.Debug("address generated", "username", username, "network", networkDef.ID, "index", index)
	return &address, nil
}

// Addresses returns the derived addresses in derivation order. Indices that
// were handed out are never re-derived; this list is the idempotent lookup.
func (c *Core) Addresses() ([]model.Address, error) {
	entry, _, err := c.activeEntry()
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := entry.requireState(StateWalletCreated); err != nil {
		return nil, err
	}
	return append([]model.Address(nil), entry.file.Addresses...), nil
}

// AddressQRCode renders an address as a base64-encoded PNG QR code.
func AddressQRCode(address string) (string, error) {
	qr, err := qrcode.New(address, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}

	png, err := qr.PNG(256)
	if err != nil {
		return "", fmt.Errorf("failed to generate PNG: %w", err)
	}

	return base64.StdEncoding.EncodeToString(png), nil
}
