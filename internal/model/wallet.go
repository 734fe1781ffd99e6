package model

// SecretBlobVersion is bumped when the blob layout or cipher suite changes.
const SecretBlobVersion = 1

// SecretBlob is one password-protected ciphertext at rest. Salt, nonce and
// KDF parameters are stored per blob (not hardcoded) so parameters can be
// upgraded later without breaking existing files.
type SecretBlob struct {
	Version    int    `json:"version"`
	Salt       string `json:"salt"`  // base64
	Nonce      string `json:"nonce"` // base64
	ScryptN    int    `json:"scryptN"`
	ScryptR    int    `json:"scryptR"`
	ScryptP    int    `json:"scryptP"`
	KeyLen     int    `json:"keyLen"`
	CipherText string `json:"cipherText"` // base64
}

// Address is one derived receive address. Never regenerated for an index
// that was already handed out.
type Address struct {
	Index     uint32 `json:"index"` // derivation index
	Value     string `json:"value"` // network-formatted string
	NetworkID string `json:"networkId"`
}

// WalletFileVersion is bumped when the wallet file layout changes.
const WalletFileVersion = 1

// WalletFile is the persisted state of one wallet, one file per user.
//
// Two-layer scheme: PinBlob holds the wallet password encrypted under a
// pin-derived key, SeedBlob holds the seed encrypted under the
// password-derived key. Operations that take only a pin decrypt the
// password first and then the seed; either decryption failing surfaces an
// authentication failure.
type WalletFile struct {
	Version      int        `json:"version"`
	Username     string     `json:"username"`
	NetworkID    string     `json:"networkId,omitempty"` // empty until SetNetwork
	PinBlob      SecretBlob `json:"pinBlob"`
	SeedBlob     SecretBlob `json:"seedBlob,omitempty"`
	HasSeed      bool       `json:"hasSeed"`
	AddressIndex uint32     `json:"addressIndex"` // next index to allocate, monotonic
	Addresses    []Address  `json:"addresses,omitempty"`
	Transactions []TxRecord `json:"transactions,omitempty"`
	CreatedAt    string     `json:"createdAt"`
}
