package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/AlexZinkM/wallet-core/internal/keys"
	"github.com/AlexZinkM/wallet-core/internal/model"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
)

// SolanaLedger talks to a Solana RPC node.
//
// Idempotency note: every SubmitTransfer fetches a fresh recent blockhash,
// so a retried transfer is a distinct transaction. Metadata is not attached
// to Solana transfers; the native transfer instruction carries no payload.
type SolanaLedger struct {
	rpcClient *rpc.Client
	endpoint  string
}

// NewSolanaLedger returns a ledger client for a Solana network.
func NewSolanaLedger(network *model.Network) *SolanaLedger {
	return &SolanaLedger{
		rpcClient: rpc.New(network.Endpoint),
		endpoint:  network.Endpoint,
	}
}

// QueryBalance sums confirmed SOL balances of the addresses, in lamports.
func (s *SolanaLedger) QueryBalance(ctx context.Context, addresses []string) (uint64, error) {
	var total uint64
	for _, addr := range addresses {
		pubkey, err := solana.PublicKeyFromBase58(addr)
		if err != nil {
			return 0, fmt.Errorf("invalid Solana address: %w", err)
		}

		balance, err := s.rpcClient.GetBalance(ctx, pubkey, rpc.CommitmentConfirmed)
		if err != nil {
			return 0, transportErr("failed to get balance", err)
		}
		total += balance.Value
	}
	return total, nil
}

// SubmitTransfer signs a SOL transfer with the derived ed25519 key and
// broadcasts it.
func (s *SolanaLedger) SubmitTransfer(ctx context.Context, key *keys.Keypair, toAddress string, amount uint64, metadata []byte) (string, error) {
	if key.Ed25519 == nil {
		return "", fmt.Errorf("solana transfer requires an ed25519 key")
	}

	toPubkey, err := solana.PublicKeyFromBase58(toAddress)
	if err != nil {
		return "", fmt.Errorf("invalid to address: %w", err)
	}

	wallet := solana.PrivateKey(key.Ed25519)
	fromPubkey := wallet.PublicKey()

	// Fresh blockhash per attempt; see the type comment for retry semantics.
	recent, err := s.rpcClient.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return "", transportErr("failed to get recent blockhash", err)
	}

	transferInstruction := system.NewTransferInstruction(
		amount,
		fromPubkey,
		toPubkey,
	).Build()

	tx, err := solana.NewTransaction(
		[]solana.Instruction{transferInstruction},
		recent.Value.Blockhash,
		solana.TransactionPayer(fromPubkey),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create transaction: %w", err)
	}

	_, err = tx.Sign(func(pub solana.PublicKey) *solana.PrivateKey {
		if fromPubkey.Equals(pub) {
			return &wallet
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	sig, err := s.rpcClient.SendTransactionWithOpts(
		ctx,
		tx,
		rpc.TransactionOpts{
			SkipPreflight:       false, // transaction validation before node
			PreflightCommitment: rpc.CommitmentFinalized,
		},
	)
	if err != nil {
		return "", solanaSubmitErr(err)
	}
	return sig.String(), nil
}

// ValidateAddress checks for a parseable base58 public key.
func (s *SolanaLedger) ValidateAddress(address string) error {
	if _, err := solana.PublicKeyFromBase58(address); err != nil {
		return fmt.Errorf("invalid Solana address %q: %w", address, err)
	}
	return nil
}

func solanaSubmitErr(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "insufficient") {
		return fmt.Errorf("%w: %v", model.ErrRejected, err)
	}
	if strings.Contains(msg, "context canceled") || strings.Contains(msg, "deadline exceeded") {
		return fmt.Errorf("%w: %v", model.ErrNetworkUnavailable, err)
	}
	return fmt.Errorf("%w: %v", model.ErrSubmissionFailed, err)
}
