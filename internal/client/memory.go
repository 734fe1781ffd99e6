package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/AlexZinkM/wallet-core/internal/keys"
	"github.com/AlexZinkM/wallet-core/internal/model"

	"github.com/google/uuid"
)

// MemoryLedger is an in-process ledger backend. It backs "memory" kind
// networks and the test suite: balances live in a map and transfers settle
// immediately. Submissions are idempotent per call because every accepted
// transfer gets a fresh UUID reference.
type MemoryLedger struct {
	mu       sync.Mutex
	balances map[string]uint64
	// submitted keeps accepted transfers for inspection in tests.
	submitted []MemoryTransfer
}

// MemoryTransfer is one accepted transfer, retained for inspection.
type MemoryTransfer struct {
	Reference string
	From      string
	To        string
	Amount    uint64
	Metadata  []byte
}

// NewMemoryLedger returns an empty in-process ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{balances: map[string]uint64{}}
}

// Credit funds an address directly; the faucet for tests and local setups.
func (m *MemoryLedger) Credit(address string, amount uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[address] += amount
}

// Submitted returns a copy of all accepted transfers.
func (m *MemoryLedger) Submitted() []MemoryTransfer {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MemoryTransfer, len(m.submitted))
	copy(out, m.submitted)
	return out
}

// QueryBalance sums the balances of the given addresses.
func (m *MemoryLedger) QueryBalance(ctx context.Context, addresses []string) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", model.ErrNetworkUnavailable, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var total uint64
	for _, addr := range addresses {
		total += m.balances[addr]
	}
	return total, nil
}

// SubmitTransfer moves funds between addresses. Insufficient funds is a
// ledger-level refusal, not a transport failure.
func (m *MemoryLedger) SubmitTransfer(ctx context.Context, key *keys.Keypair, toAddress string, amount uint64, metadata []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrNetworkUnavailable, err)
	}
	if err := m.ValidateAddress(toAddress); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	from := key.Address
	if m.balances[from] < amount {
		return "", fmt.Errorf("insufficient funds: %w", model.ErrRejected)
	}

	m.balances[from] -= amount
	m.balances[toAddress] += amount

	transfer := MemoryTransfer{
		Reference: uuid.NewString(),
		From:      from,
		To:        toAddress,
		Amount:    amount,
		Metadata:  append([]byte(nil), metadata...),
	}
	m.submitted = append(m.submitted, transfer)
	return transfer.Reference, nil
}

// ValidateAddress accepts any non-empty address.
func (m *MemoryLedger) ValidateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("address must not be empty")
	}
	return nil
}
