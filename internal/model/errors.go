package model

import "errors"

// Sentinel errors for the core error taxonomy. Every operation failure wraps
// exactly one of these so callers can dispatch with errors.Is without parsing
// messages.
var (
	// ErrAlreadyExists - username is already taken.
	ErrAlreadyExists = errors.New("already exists")

	// ErrNotFound - user or wallet record is absent.
	ErrNotFound = errors.New("not found")

	// ErrAuthFailure - wrong pin/password, or the stored ciphertext failed
	// authentication. Never partially decrypts.
	ErrAuthFailure = errors.New("authentication failed")

	// ErrInvalidMnemonic - mnemonic failed wordlist or checksum validation.
	ErrInvalidMnemonic = errors.New("invalid mnemonic")

	// ErrUnknownNetwork - network id is not in the registry.
	ErrUnknownNetwork = errors.New("unknown network")

	// ErrNetworkUnavailable - transient transport failure (timeout,
	// unreachable node). Safe to retry with the same inputs for reads.
	ErrNetworkUnavailable = errors.New("network unavailable")

	// ErrRejected - the ledger refused the request (e.g. insufficient
	// funds). Retrying without changing the request will fail again.
	ErrRejected = errors.New("rejected by ledger")

	// ErrConflict - a concurrent mutation on the same wallet won the race.
	ErrConflict = errors.New("concurrent modification conflict")

	// ErrSubmissionFailed - transaction submission failed after signing.
	ErrSubmissionFailed = errors.New("submission failed")

	// ErrWalletNotInitialized - operation requires a state the wallet has
	// not reached (no password set, no wallet created, no network active).
	ErrWalletNotInitialized = errors.New("wallet not initialized")
)
