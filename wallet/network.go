package wallet

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/AlexZinkM/wallet-core/internal/model"
)

// GetNetworks returns the supported networks as a versioned JSON document.
// The caller deserializes it independently; the schema is
// model.NetworkList.
func (c *Core) GetNetworks() (string, error) {
	list := model.NetworkList{
		Version:  model.NetworkListVersion,
		Networks: c.registry.List(),
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("failed to serialize networks: %w", err)
	}
	return string(data), nil
}

// SetNetwork selects the active network for the wallet. Requires the
// wallet-created state; fails with model.ErrUnknownNetwork for ids not in
// the registry.
func (c *Core) SetNetwork(networkID string) error {
	networkDef, err := c.registry.Resolve(networkID)
	if err != nil {
		return err
	}

	entry, username, err := c.activeEntry()
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := entry.requireState(StateWalletCreated); err != nil {
		return err
	}

	next := *entry.file
	next.NetworkID = networkDef.ID
	if err := c.users.SaveWallet(&next); err != nil {
		return err
	}
	entry.file = &next

	slog.Info("network set", "username", username, "network", networkDef.ID)
	return nil
}

// activeNetwork resolves the wallet's current network. Caller holds the
// entry lock and has checked the active state.
func (c *Core) activeNetwork(entry *walletEntry) (*model.Network, error) {
	return c.registry.Resolve(entry.file.NetworkID)
}

// ActiveNetwork returns the selected network of the initialized user.
func (c *Core) ActiveNetwork() (*model.Network, error) {
	entry, _, err := c.activeEntry()
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := entry.requireState(StateActive); err != nil {
		return nil, err
	}
	return c.activeNetwork(entry)
}
