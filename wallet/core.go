// Package wallet implements the wallet core engine: user and wallet
// lifecycle, secret handling, network-scoped state, and transaction flows.
// A Core is an explicit handle created by New; there is no package-level
// instance.
package wallet

import (
	"fmt"
	"sync"

	"github.com/AlexZinkM/wallet-core/internal/client"
	"github.com/AlexZinkM/wallet-core/internal/model"
	"github.com/AlexZinkM/wallet-core/internal/network"
	"github.com/AlexZinkM/wallet-core/internal/secret"
	"github.com/AlexZinkM/wallet-core/internal/store"
)

// State is the lifecycle state of one wallet.
type State int

const (
	StateUninitialized State = iota
	StatePasswordSet
	StateWalletCreated
	StateActive
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StatePasswordSet:
		return "password set"
	case StateWalletCreated:
		return "wallet created"
	case StateActive:
		return "active"
	default:
		return "unknown"
	}
}

// walletEntry is the in-memory view of one user's wallet. Its mutex
// serializes all operations on the same wallet; address-index allocation and
// seed re-encryption are not safely interleavable.
type walletEntry struct {
	mu   sync.Mutex
	file *model.WalletFile
}

// state derives the lifecycle state from the persisted record. Caller holds
// the entry lock.
func (e *walletEntry) state() State {
	switch {
	case e.file == nil:
		return StateUninitialized
	case e.file.NetworkID != "":
		return StateActive
	case e.file.HasSeed:
		return StateWalletCreated
	default:
		return StatePasswordSet
	}
}

// requireState fails unless the wallet has reached at least want.
func (e *walletEntry) requireState(want State) error {
	if got := e.state(); got < want {
		return fmt.Errorf("wallet is %s, requires %s: %w", got, want, model.ErrWalletNotInitialized)
	}
	return nil
}

// Options configure a Core handle.
type Options struct {
	// DataDir is the root of persisted user and wallet state.
	DataDir string
	// Registry is the network catalog, loaded once at process start.
	Registry *network.Registry
	// KDFParams override the secret store's scrypt parameters for new
	// blobs. Zero value means production defaults.
	KDFParams secret.Params
	// LedgerFactory resolves ledger clients per network; nil means the
	// default factory.
	LedgerFactory client.Factory
	// RateFiat is the fiat currency for exchange rate lookups; empty means
	// "usd".
	RateFiat string
	// Rates overrides the exchange rate client (used by tests).
	Rates *client.CoinGeckoClient
}

// Core orchestrates user and wallet lifecycle. Safe for concurrent callers
// across different users; operations on the same wallet serialize on the
// per-wallet lock.
type Core struct {
	users    *store.UserStore
	secrets  *secret.Store
	registry *network.Registry
	ledgers  client.Factory
	rates    *client.CoinGeckoClient
	rateFiat string

	mu      sync.Mutex
	entries map[string]*walletEntry
	active  string // username set by InitializeUser; empty until then
}

// New creates a Core handle over the given data directory and network
// catalog.
func New(opts Options) (*Core, error) {
	if opts.Registry == nil {
		return nil, fmt.Errorf("network registry is required")
	}

	users, err := store.NewUserStore(opts.DataDir)
	if err != nil {
		return nil, err
	}

	params := opts.KDFParams
	if params == (secret.Params{}) {
		params = secret.DefaultParams()
	}

	factory := opts.LedgerFactory
	if factory == nil {
		factory = client.New
	}

	rates := opts.Rates
	if rates == nil {
		rates = client.NewCoinGeckoClient()
	}

	fiat := opts.RateFiat
	if fiat == "" {
		fiat = "usd"
	}

	return &Core{
		users:    users,
		secrets:  secret.NewStore(params),
		registry: opts.Registry,
		ledgers:  factory,
		rates:    rates,
		rateFiat: fiat,
		entries:  map[string]*walletEntry{},
	}, nil
}

// activeEntry returns the wallet entry of the initialized user.
func (c *Core) activeEntry() (*walletEntry, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == "" {
		return nil, "", fmt.Errorf("no user initialized: %w", model.ErrWalletNotInitialized)
	}
	entry, ok := c.entries[c.active]
	if !ok {
		return nil, "", fmt.Errorf("no user initialized: %w", model.ErrWalletNotInitialized)
	}
	return entry, c.active, nil
}

// saveEntry persists the entry's wallet file atomically. Caller holds the
// entry lock. The write is temp-file+rename: the previous ciphertext stays
// on disk until the swap commits.
func (c *Core) saveEntry(entry *walletEntry) error {
	return c.users.SaveWallet(entry.file)
}
