// Package client implements transport to ledger networks. The core never
// branches on network type; it talks to every network through the Ledger
// interface and picks the implementation via the registry's network kind.
package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/AlexZinkM/wallet-core/internal/keys"
	"github.com/AlexZinkM/wallet-core/internal/model"
)

// Ledger is the capability set the core needs from a network backend.
//
// Transport failures (timeout, unreachable node, canceled context) wrap
// model.ErrNetworkUnavailable. Ledger-level refusals (e.g. insufficient
// funds reported by the node) wrap model.ErrRejected. Failures after signing
// that are neither wrap model.ErrSubmissionFailed.
type Ledger interface {
	// QueryBalance returns the summed confirmed balance of the addresses in
	// the network's smallest unit.
	QueryBalance(ctx context.Context, addresses []string) (uint64, error)

	// SubmitTransfer signs and broadcasts a transfer from the keypair's
	// address. Returns the network transaction reference on success.
	// Metadata handling is network specific; see each implementation for its
	// idempotency notes.
	SubmitTransfer(ctx context.Context, key *keys.Keypair, toAddress string, amount uint64, metadata []byte) (string, error)

	// ValidateAddress checks that the address parses for this network.
	ValidateAddress(address string) error
}

// Factory resolves a Ledger for a network. The core takes one of these so
// tests can substitute backends.
type Factory func(network *model.Network) (Ledger, error)

var (
	memMu      sync.Mutex
	memLedgers = map[string]*MemoryLedger{}
)

// New is the default factory.
func New(network *model.Network) (Ledger, error) {
	switch network.Kind {
	case model.NetworkKindEVM:
		return NewEVMLedger(network), nil
	case model.NetworkKindSolana:
		return NewSolanaLedger(network), nil
	case model.NetworkKindMemory:
		// Memory ledgers are shared per network id so balances persist for
		// the process lifetime.
		memMu.Lock()
		defer memMu.Unlock()
		ledger, ok := memLedgers[network.ID]
		if !ok {
			ledger = NewMemoryLedger()
			memLedgers[network.ID] = ledger
		}
		return ledger, nil
	default:
		return nil, fmt.Errorf("no ledger client for network kind %q", network.Kind)
	}
}
