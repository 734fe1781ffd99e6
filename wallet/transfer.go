package wallet

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AlexZinkM/wallet-core/internal/keys"
	"github.com/AlexZinkM/wallet-core/internal/model"
)

// GetWalletBalance sums the confirmed balances of all derived addresses on
// the active network. Requires the active state. The pin is validated but no
// seed material is needed for a balance lookup. Does not mutate wallet
// state; transport failures surface model.ErrNetworkUnavailable and may be
// retried with the same inputs.
func (c *Core) GetWalletBalance(ctx context.Context, pin string) (uint64, error) {
	entry, _, err := c.activeEntry()
	if err != nil {
		return 0, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := entry.requireState(StateActive); err != nil {
		return 0, err
	}

	password, err := c.secrets.Open(entry.file.PinBlob, []byte(pin))
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}
	clear(password)

	networkDef, err := c.activeNetwork(entry)
	if err != nil {
		return 0, err
	}
	ledger, err := c.ledgers(networkDef)
	if err != nil {
		return 0, err
	}

	addresses := make([]string, 0, len(entry.file.Addresses))
	for _, addr := range entry.file.Addresses {
		if addr.NetworkID == networkDef.ID {
			addresses = append(addresses, addr.Value)
		}
	}

	return ledger.QueryBalance(ctx, addresses)
}

// SendAmount signs and submits a transfer of amount (smallest unit) to
// toAddress on the active network, attaching the opaque metadata where the
// network supports it. Requires the active state.
//
// The amount is checked against the confirmed balance at submission time;
// exceeding it fails with model.ErrRejected and leaves wallet state
// unchanged. The cached balance is never updated optimistically - balances
// are always re-derived from the network.
func (c *Core) SendAmount(ctx context.Context, pin, toAddress string, amount uint64, metadata []byte) (string, error) {
	if amount == 0 {
		return "", fmt.Errorf("amount must be > 0: %w", model.ErrRejected)
	}

	entry, username, err := c.activeEntry()
	if err != nil {
		return "", err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := entry.requireState(StateActive); err != nil {
		return "", err
	}

	networkDef, err := c.activeNetwork(entry)
	if err != nil {
		return "", err
	}
	ledger, err := c.ledgers(networkDef)
	if err != nil {
		return "", err
	}
	if err := ledger.ValidateAddress(toAddress); err != nil {
		return "", fmt.Errorf("%v: %w", err, model.ErrRejected)
	}

	// The signer is a single derived key, so the transfer must be funded by
	// one address: pick the lowest index whose own balance covers the
	// amount.
	var fundingIndex int32 = -1
	var total uint64
	for _, addr := range entry.file.Addresses {
		if addr.NetworkID != networkDef.ID {
			continue
		}
		balance, err := ledger.QueryBalance(ctx, []string{addr.Value})
		if err != nil {
			return "", err
		}
		total += balance
		if fundingIndex < 0 && balance >= amount {
			fundingIndex = int32(addr.Index)
		}
	}
	if amount > total {
		return "", fmt.Errorf("insufficient confirmed balance: %w", model.ErrRejected)
	}
	if fundingIndex < 0 {
		return "", fmt.Errorf("no single address holds the amount: %w", model.ErrRejected)
	}

	seed, err := c.openSeed(entry, pin)
	if err != nil {
		return "", fmt.Errorf("send amount: %w", err)
	}
	defer clear(seed)

	keypair, err := keys.Derive(seed, networkDef, uint32(fundingIndex))
	if err != nil {
		return "", err
	}
	defer keypair.Wipe()

	reference, err := ledger.SubmitTransfer(ctx, keypair, toAddress, amount, metadata)
	if err != nil {
		return "", err
	}

	record := model.TxRecord{
		Reference: reference,
		NetworkID: networkDef.ID,
		From:      keypair.Address,
		To:        toAddress,
		Amount:    amount,
		Metadata:  append([]byte(nil), metadata...),
		Status:    model.TxStatusSubmitted,
		Timestamp: time.Now().UTC(),
	}

	next := *entry.file
	next.Transactions = append(append([]model.TxRecord(nil), entry.file.Transactions...), record)
	if err := c.users.SaveWallet(&next); err != nil {
		// The transfer is already on the network; losing the local record
		// must not fail the operation.
		slog.Warn("failed to persist transaction record", "username", username, "reference", reference, "error", err)
	} else {
		entry.file = &next
	}

	slog.Info("amount sent", "username", username, "network", networkDef.ID, "amount", amount, "reference", reference)
	return reference, nil
}

// GetWalletTxList returns the transactions previously sent from this
// wallet, in submission order, optionally narrowed by filter.
func (c *Core) GetWalletTxList(filter *model.TxListFilter) (*model.TxList, error) {
	entry, username, err := c.activeEntry()
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := entry.requireState(StateWalletCreated); err != nil {
		return nil, err
	}

	if filter != nil {
		if err := filter.Validate(); err != nil {
			return nil, err
		}
	}

	list := &model.TxList{Username: username}
	for _, tx := range entry.file.Transactions {
		if filter != nil {
			if filter.NetworkID != nil && *filter.NetworkID != tx.NetworkID {
				continue
			}
			if filter.From != nil && tx.Timestamp.Before(*filter.From) {
				continue
			}
			if filter.To != nil && tx.Timestamp.After(*filter.To) {
				continue
			}
		}
		list.Transactions = append(list.Transactions, tx)
	}
	return list, nil
}
