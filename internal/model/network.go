package model

// NetworkKind selects the ledger client implementation for a network.
type NetworkKind string

const (
	NetworkKindEVM    NetworkKind = "evm"
	NetworkKindSolana NetworkKind = "solana"
	NetworkKindMemory NetworkKind = "memory"
)

// AddressFormat selects how derived public keys are rendered as addresses.
type AddressFormat string

const (
	// AddressFormatHex20 - 20-byte keccak address, 0x-prefixed hex (EVM).
	AddressFormatHex20 AddressFormat = "hex20"
	// AddressFormatBase58 - ed25519 public key in base58 (Solana style).
	AddressFormatBase58 AddressFormat = "base58"
)

// NetworkListVersion is the schema version of the serialized network list
// returned by GetNetworks.
const NetworkListVersion = 1

// Network describes one supported ledger network. Immutable once loaded from
// the registry; wallets reference it by ID only.
type Network struct {
	ID            string        `json:"id" yaml:"id"`
	DisplayName   string        `json:"displayName" yaml:"display_name"`
	Kind          NetworkKind   `json:"kind" yaml:"kind"`
	Endpoint      string        `json:"endpoint" yaml:"endpoint"`
	AddressFormat AddressFormat `json:"addressFormat" yaml:"address_format"`
	// CoinType is the BIP-44 coin type used in the derivation path.
	CoinType uint32 `json:"coinType" yaml:"coin_type"`
	// ChainID is required for EVM networks (transaction replay protection).
	ChainID int64 `json:"chainId,omitempty" yaml:"chain_id,omitempty"`
	// Decimals of the network-native unit, for display conversion.
	Decimals int `json:"decimals" yaml:"decimals"`
	// Symbol is the native currency ticker, e.g. "ETH", "SOL".
	Symbol string `json:"symbol" yaml:"symbol"`
}

// NetworkList is the versioned serialized form handed to bindings.
type NetworkList struct {
	Version  int       `json:"version"`
	Networks []Network `json:"networks"`
}
