// Package keys implements deterministic key derivation: BIP-39 mnemonic to
// seed, and hierarchical per-network keypair derivation. Pure given its
// inputs; holds no state.
package keys

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"fmt"

	"github.com/AlexZinkM/wallet-core/internal/model"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/mr-tron/base58"
	"github.com/tyler-smith/go-bip39"
)

// MnemonicEntropyBits is the entropy size for 24-word mnemonics.
const MnemonicEntropyBits = 256

// GenerateMnemonic creates a new cryptographically random 24-word BIP-39
// mnemonic.
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(MnemonicEntropyBits)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// MnemonicToSeed validates the mnemonic (word count, wordlist, checksum) and
// returns the 64-byte BIP-39 seed. Caller must zero the seed after use.
func MnemonicToSeed(mnemonic string) ([]byte, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, model.ErrInvalidMnemonic
	}
	// Empty passphrase: recovery must need the mnemonic alone.
	return bip39.NewSeed(mnemonic, ""), nil
}

// Keypair is a derived signing key plus its network-formatted address.
// Exactly one of ECDSA/Ed25519 is set, depending on the network's address
// format. Plaintext key material: call Wipe on every exit path.
type Keypair struct {
	Index   uint32
	Address string
	ECDSA   *ecdsa.PrivateKey  // hex20 networks
	Ed25519 ed25519.PrivateKey // base58 networks
}

// Wipe zeroes the private key material in place.
func (k *Keypair) Wipe() {
	if k == nil {
		return
	}
	if k.ECDSA != nil && k.ECDSA.D != nil {
		k.ECDSA.D.SetInt64(0)
		k.ECDSA = nil
	}
	if k.Ed25519 != nil {
		clear(k.Ed25519)
		k.Ed25519 = nil
	}
}

// Derive derives the keypair for (seed, network, index) along the BIP-44
// path m/44'/coinType'/0'/0/index. The same inputs always yield the same
// address, which is what makes recovery from the mnemonic alone possible.
func Derive(seed []byte, network *model.Network, index uint32) (*Keypair, error) {
	master, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("derive master key: %w", err)
	}
	defer master.Zero()

	path := []uint32{
		hdkeychain.HardenedKeyStart + 44,
		hdkeychain.HardenedKeyStart + network.CoinType,
		hdkeychain.HardenedKeyStart, // account 0
		0,                           // external chain
		index,
	}

	key := master
	for depth, child := range path {
		next, err := key.Derive(child)
		if err != nil {
			return nil, fmt.Errorf("derive path element %d: %w", depth, err)
		}
		if key != master {
			key.Zero()
		}
		key = next
	}
	defer func() {
		if key != master {
			key.Zero()
		}
	}()

	privKey, err := key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("extract private key: %w", err)
	}

	switch network.AddressFormat {
	case model.AddressFormatHex20:
		ecdsaKey := privKey.ToECDSA()
		return &Keypair{
			Index:   index,
			Address: ethcrypto.PubkeyToAddress(ecdsaKey.PublicKey).Hex(),
			ECDSA:   ecdsaKey,
		}, nil
	case model.AddressFormatBase58:
		// The derived scalar seeds an ed25519 key; networks with base58
		// addresses (Solana style) sign with ed25519, not secp256k1.
		keySeed := privKey.Serialize()
		edKey := ed25519.NewKeyFromSeed(keySeed)
		clear(keySeed)
		pub := edKey.Public().(ed25519.PublicKey)
		return &Keypair{
			Index:   index,
			Address: base58.Encode(pub),
			Ed25519: edKey,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported address format %q", network.AddressFormat)
	}
}
