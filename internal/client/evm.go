package client

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/AlexZinkM/wallet-core/internal/keys"
	"github.com/AlexZinkM/wallet-core/internal/model"

	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

const evmTransferGas = 21000

// EVMLedger talks to an EVM JSON-RPC node.
//
// Idempotency note: every SubmitTransfer fetches a fresh pending nonce, so a
// retry after a transport failure produces a distinct transaction rather
// than a duplicate of a possibly-landed one. Callers deciding to retry after
// ErrSubmissionFailed should first check whether the previous attempt
// landed.
type EVMLedger struct {
	endpoint string
	chainID  *big.Int
}

// NewEVMLedger returns a ledger client for an EVM network.
func NewEVMLedger(network *model.Network) *EVMLedger {
	return &EVMLedger{
		endpoint: network.Endpoint,
		chainID:  big.NewInt(network.ChainID),
	}
}

func (e *EVMLedger) dial(ctx context.Context) (*ethclient.Client, error) {
	rpcClient, err := ethclient.DialContext(ctx, e.endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", model.ErrNetworkUnavailable, e.endpoint, err)
	}
	return rpcClient, nil
}

// QueryBalance sums confirmed native-token balances of the addresses, in
// wei.
func (e *EVMLedger) QueryBalance(ctx context.Context, addresses []string) (uint64, error) {
	rpcClient, err := e.dial(ctx)
	if err != nil {
		return 0, err
	}
	defer rpcClient.Close()

	total := new(big.Int)
	for _, addr := range addresses {
		if err := e.ValidateAddress(addr); err != nil {
			return 0, err
		}
		balance, err := rpcClient.BalanceAt(ctx, ethcommon.HexToAddress(addr), nil)
		if err != nil {
			return 0, transportErr("failed to get balance", err)
		}
		total.Add(total, balance)
	}
	if !total.IsUint64() {
		return 0, fmt.Errorf("balance overflows uint64")
	}
	return total.Uint64(), nil
}

// SubmitTransfer signs a native transfer with the derived secp256k1 key and
// broadcasts it. Metadata rides in the transaction calldata.
func (e *EVMLedger) SubmitTransfer(ctx context.Context, key *keys.Keypair, toAddress string, amount uint64, metadata []byte) (string, error) {
	if key.ECDSA == nil {
		return "", fmt.Errorf("evm transfer requires a secp256k1 key")
	}
	if err := e.ValidateAddress(toAddress); err != nil {
		return "", err
	}

	rpcClient, err := e.dial(ctx)
	if err != nil {
		return "", err
	}
	defer rpcClient.Close()

	from := ethcommon.HexToAddress(key.Address)
	to := ethcommon.HexToAddress(toAddress)

	// Fresh nonce per attempt; see the type comment for retry semantics.
	nonce, err := rpcClient.PendingNonceAt(ctx, from)
	if err != nil {
		return "", transportErr("failed to get nonce", err)
	}
	gasPrice, err := rpcClient.SuggestGasPrice(ctx)
	if err != nil {
		return "", transportErr("failed to get gas price", err)
	}

	gasLimit := uint64(evmTransferGas)
	if len(metadata) > 0 {
		gasLimit, err = rpcClient.EstimateGas(ctx, ethereum.CallMsg{
			From:     from,
			To:       &to,
			Value:    new(big.Int).SetUint64(amount),
			GasPrice: gasPrice,
			Data:     metadata,
		})
		if err != nil {
			return "", transportErr("failed to estimate gas", err)
		}
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    new(big.Int).SetUint64(amount),
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     metadata,
	})

	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(e.chainID), key.ECDSA)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := rpcClient.SendTransaction(ctx, signedTx); err != nil {
		return "", submitErr(err)
	}
	return signedTx.Hash().Hex(), nil
}

// ValidateAddress checks for a well-formed 0x-prefixed 20-byte hex address.
func (e *EVMLedger) ValidateAddress(address string) error {
	if !ethcommon.IsHexAddress(address) {
		return fmt.Errorf("invalid EVM address %q", address)
	}
	return nil
}

func transportErr(msg string, err error) error {
	return fmt.Errorf("%w: %s: %v", model.ErrNetworkUnavailable, msg, err)
}

// submitErr maps a broadcast failure to the taxonomy: node-reported fund
// shortage is a ledger refusal, everything else after signing is a
// submission failure.
func submitErr(err error) error {
	if strings.Contains(strings.ToLower(err.Error()), "insufficient funds") {
		return fmt.Errorf("%w: %v", model.ErrRejected, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", model.ErrNetworkUnavailable, err)
	}
	return fmt.Errorf("%w: %v", model.ErrSubmissionFailed, err)
}
