package wallet

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/AlexZinkM/wallet-core/internal/client"
	"github.com/AlexZinkM/wallet-core/internal/model"
	"github.com/AlexZinkM/wallet-core/internal/network"
	"github.com/AlexZinkM/wallet-core/internal/secret"

	"github.com/stretchr/testify/require"
)

// Standard 12-word BIP-39 test vector.
const (
	testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	testPin      = "1234"
	testPassword = "correct-horse"
)

func testNetworks() []model.Network {
	return []model.Network{
		{
			ID:            "testnet",
			DisplayName:   "Test Network",
			Kind:          model.NetworkKindMemory,
			AddressFormat: model.AddressFormatBase58,
			CoinType:      1,
			Decimals:      6,
			Symbol:        "TST",
		},
		{
			ID:            "testnet-evm",
			DisplayName:   "Test EVM Network",
			Kind:          model.NetworkKindMemory,
			AddressFormat: model.AddressFormatHex20,
			CoinType:      60,
			Decimals:      18,
			Symbol:        "TETH",
		},
	}
}

// newTestCore builds a Core over a temp dir with fast KDF parameters and a
// private in-process ledger.
func newTestCore(t *testing.T, dataDir string) (*Core, *client.MemoryLedger) {
	t.Helper()

	reg, err := network.New(testNetworks())
	require.NoError(t, err)

	ledger := client.NewMemoryLedger()
	core, err := New(Options{
		DataDir:   dataDir,
		Registry:  reg,
		KDFParams: secret.Params{N: 1 << 12, R: 8, P: 1, KeyLen: 32},
		LedgerFactory: func(*model.Network) (client.Ledger, error) {
			return ledger, nil
		},
	})
	require.NoError(t, err)
	return core, ledger
}

// setupActiveWallet walks one user to the active state.
func setupActiveWallet(t *testing.T, core *Core, username string) {
	t.Helper()
	require.NoError(t, core.CreateNewUser(username))
	require.NoError(t, core.InitializeUser(username))
	require.NoError(t, core.SetWalletPassword(testPin, testPassword))
	require.NoError(t, core.CreateWalletFromMnemonic(testPin, testMnemonic))
	require.NoError(t, core.SetNetwork("testnet"))
}

func TestScenarioSatoshi(t *testing.T) {
	core, _ := newTestCore(t, t.TempDir())

	require.NoError(t, core.CreateNewUser("satoshi"))
	require.NoError(t, core.InitializeUser("satoshi"))
	require.NoError(t, core.SetWalletPassword(testPin, "pw"))
	require.NoError(t, core.CreateWalletFromMnemonic(testPin, testMnemonic))
	require.NoError(t, core.SetNetwork("testnet"))

	a0, err := core.GenerateNewAddress(testPin)
	require.NoError(t, err)
	require.Equal(t, uint32(0), a0.Index)
	require.NotEmpty(t, a0.Value)
	require.Equal(t, "testnet", a0.NetworkID)

	a1, err := core.GenerateNewAddress(testPin)
	require.NoError(t, err)
	require.Equal(t, uint32(1), a1.Index)
	require.NotEqual(t, a0.Value, a1.Value)
}

func TestCreateUserDuplicate(t *testing.T) {
	core, _ := newTestCore(t, t.TempDir())

	require.NoError(t, core.CreateNewUser("satoshi"))
	require.ErrorIs(t, core.CreateNewUser("satoshi"), model.ErrAlreadyExists)
}

func TestInitializeUnknownUser(t *testing.T) {
	core, _ := newTestCore(t, t.TempDir())
	require.ErrorIs(t, core.InitializeUser("nobody"), model.ErrNotFound)
}

func TestStateMachineOrdering(t *testing.T) {
	core, _ := newTestCore(t, t.TempDir())

	require.NoError(t, core.CreateNewUser("satoshi"))
	require.NoError(t, core.InitializeUser("satoshi"))

	// Wallet creation requires a password.
	require.ErrorIs(t, core.CreateWalletFromMnemonic(testPin, testMnemonic), model.ErrWalletNotInitialized)
	// Network selection requires a wallet.
	require.NoError(t, core.SetWalletPassword(testPin, testPassword))
	require.ErrorIs(t, core.SetNetwork("testnet"), model.ErrWalletNotInitialized)
	// Address generation requires an active network.
	require.NoError(t, core.CreateWalletFromMnemonic(testPin, testMnemonic))
	_, err := core.GenerateNewAddress(testPin)
	require.ErrorIs(t, err, model.ErrWalletNotInitialized)
}

func TestOperationsWithoutInitializedUser(t *testing.T) {
	core, _ := newTestCore(t, t.TempDir())

	require.ErrorIs(t, core.SetWalletPassword(testPin, testPassword), model.ErrWalletNotInitialized)
	_, err := core.GenerateNewAddress(testPin)
	require.ErrorIs(t, err, model.ErrWalletNotInitialized)
}

func TestCreateWalletTwice(t *testing.T) {
	core, _ := newTestCore(t, t.TempDir())
	setupActiveWallet(t, core, "satoshi")

	require.ErrorIs(t, core.CreateWalletFromMnemonic(testPin, testMnemonic), model.ErrAlreadyExists)
	_, err := core.CreateNewWallet(testPin)
	require.ErrorIs(t, err, model.ErrAlreadyExists)
}

func TestCreateWalletInvalidMnemonic(t *testing.T) {
	core, _ := newTestCore(t, t.TempDir())

	require.NoError(t, core.CreateNewUser("satoshi"))
	require.NoError(t, core.InitializeUser("satoshi"))
	require.NoError(t, core.SetWalletPassword(testPin, testPassword))

	require.ErrorIs(t, core.CreateWalletFromMnemonic(testPin, "definitely not a mnemonic"), model.ErrInvalidMnemonic)
}

func TestCreateWalletWrongPin(t *testing.T) {
	core, _ := newTestCore(t, t.TempDir())

	require.NoError(t, core.CreateNewUser("satoshi"))
	require.NoError(t, core.InitializeUser("satoshi"))
	require.NoError(t, core.SetWalletPassword(testPin, testPassword))

	require.ErrorIs(t, core.CreateWalletFromMnemonic("0000", testMnemonic), model.ErrAuthFailure)
}

func TestCreateNewWalletReturnsMnemonic(t *testing.T) {
	core, _ := newTestCore(t, t.TempDir())

	require.NoError(t, core.CreateNewUser("satoshi"))
	require.NoError(t, core.InitializeUser("satoshi"))
	require.NoError(t, core.SetWalletPassword(testPin, testPassword))

	mnemonic, err := core.CreateNewWallet(testPin)
	require.NoError(t, err)
	require.NotEmpty(t, mnemonic)

	// The returned mnemonic recreates the same wallet elsewhere.
	other, _ := newTestCore(t, t.TempDir())
	require.NoError(t, other.CreateNewUser("copy"))
	require.NoError(t, other.InitializeUser("copy"))
	require.NoError(t, other.SetWalletPassword(testPin, testPassword))
	require.NoError(t, other.CreateWalletFromMnemonic(testPin, mnemonic))
	require.NoError(t, other.SetNetwork("testnet"))

	require.NoError(t, core.SetNetwork("testnet"))
	a, err := core.GenerateNewAddress(testPin)
	require.NoError(t, err)
	b, err := other.GenerateNewAddress(testPin)
	require.NoError(t, err)
	require.Equal(t, a.Value, b.Value)
}

func TestAddressDeterminismRoundTrip(t *testing.T) {
	const n = 5

	core, _ := newTestCore(t, t.TempDir())
	setupActiveWallet(t, core, "satoshi")

	first := make([]string, 0, n)
	for i := 0; i < n; i++ {
		addr, err := core.GenerateNewAddress(testPin)
		require.NoError(t, err)
		require.Equal(t, uint32(i), addr.Index)
		first = append(first, addr.Value)
	}

	// A fresh wallet recreated from the same mnemonic replays to identical
	// addresses.
	replay, _ := newTestCore(t, t.TempDir())
	setupActiveWallet(t, replay, "satoshi")

	for i := 0; i < n; i++ {
		addr, err := replay.GenerateNewAddress(testPin)
		require.NoError(t, err)
		require.Equal(t, first[i], addr.Value)
	}
}

func TestAddressesDifferAcrossNetworks(t *testing.T) {
	core, _ := newTestCore(t, t.TempDir())
	setupActiveWallet(t, core, "satoshi")

	a, err := core.GenerateNewAddress(testPin)
	require.NoError(t, err)

	require.NoError(t, core.SetNetwork("testnet-evm"))
	b, err := core.GenerateNewAddress(testPin)
	require.NoError(t, err)

	require.NotEqual(t, a.Value, b.Value)
	// The index counter is per wallet, not per network.
	require.Equal(t, uint32(1), b.Index)
}

func TestConcurrentAddressGeneration(t *testing.T) {
	const k = 8

	core, _ := newTestCore(t, t.TempDir())
	setupActiveWallet(t, core, "satoshi")

	var wg sync.WaitGroup
	results := make(chan *model.Address, k)
	for i := 0; i < k; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			addr, err := core.GenerateNewAddress(testPin)
			if err != nil {
				t.Error(err)
				return
			}
			results <- addr
		}()
	}
	wg.Wait()
	close(results)

	seenIndex := map[uint32]bool{}
	seenValue := map[string]bool{}
	for addr := range results {
		require.False(t, seenIndex[addr.Index], "duplicate index %d", addr.Index)
		require.False(t, seenValue[addr.Value], "duplicate address %s", addr.Value)
		seenIndex[addr.Index] = true
		seenValue[addr.Value] = true
	}
	require.Len(t, seenIndex, k)
	// Exactly k distinct sequential indices, no gaps.
	for i := uint32(0); i < k; i++ {
		require.True(t, seenIndex[i], "missing index %d", i)
	}
}

func TestChangePassword(t *testing.T) {
	core, _ := newTestCore(t, t.TempDir())
	setupActiveWallet(t, core, "satoshi")

	require.NoError(t, core.SetWalletPassword(testPin, "StrongP@ssw0rd"))

	// The seed now only decrypts under the new password.
	entry := core.entries["satoshi"]
	_, err := core.secrets.Open(entry.file.SeedBlob, []byte(testPassword))
	require.ErrorIs(t, err, model.ErrAuthFailure)

	seed, err := core.secrets.Open(entry.file.SeedBlob, []byte("StrongP@ssw0rd"))
	require.NoError(t, err)
	require.NotEmpty(t, seed)

	// And the wallet still works end to end.
	addr, err := core.GenerateNewAddress(testPin)
	require.NoError(t, err)
	require.Equal(t, uint32(0), addr.Index)
}

func TestChangePasswordWrongPin(t *testing.T) {
	core, _ := newTestCore(t, t.TempDir())
	setupActiveWallet(t, core, "satoshi")

	require.ErrorIs(t, core.SetWalletPassword("0000", "new-password"), model.ErrAuthFailure)

	// State unchanged: the old pin still authenticates.
	require.NoError(t, core.VerifyPin(testPin))
}

func TestChangePasswordPreservesAddresses(t *testing.T) {
	core, _ := newTestCore(t, t.TempDir())
	setupActiveWallet(t, core, "satoshi")

	before, err := core.GenerateNewAddress(testPin)
	require.NoError(t, err)

	require.NoError(t, core.SetWalletPassword(testPin, "changed"))

	addrs, err := core.Addresses()
	require.NoError(t, err)
	require.Len(t, addrs, 1)
	require.Equal(t, before.Value, addrs[0].Value)

	after, err := core.GenerateNewAddress(testPin)
	require.NoError(t, err)
	require.Equal(t, uint32(1), after.Index)
}

func TestSetPasswordConflictWhileLocked(t *testing.T) {
	core, _ := newTestCore(t, t.TempDir())
	setupActiveWallet(t, core, "satoshi")

	// Simulate an in-flight operation holding the wallet lock.
	entry := core.entries["satoshi"]
	entry.mu.Lock()
	defer entry.mu.Unlock()

	require.ErrorIs(t, core.SetWalletPassword(testPin, "other"), model.ErrConflict)
}

func TestConcurrentPasswordChange(t *testing.T) {
	core, _ := newTestCore(t, t.TempDir())
	setupActiveWallet(t, core, "satoshi")

	start := make(chan struct{})
	errs := make(chan error, 2)
	for _, pw := range []string{"first-winner", "second-winner"} {
		go func(pw string) {
			<-start
			errs <- core.SetWalletPassword(testPin, pw)
		}(pw)
	}
	close(start)

	var conflicts, successes int
	for i := 0; i < 2; i++ {
		err := <-errs
		if err == nil {
			successes++
			continue
		}
		require.ErrorIs(t, err, model.ErrConflict)
		conflicts++
	}
	// A losing concurrent writer fails with Conflict rather than silently
	// overwriting; if the calls did not overlap, both may succeed in turn.
	require.GreaterOrEqual(t, successes, 1)
	require.Equal(t, 2, successes+conflicts)

	// Whatever the interleaving, the wallet still authenticates and works.
	require.NoError(t, core.VerifyPin(testPin))
	_, err := core.GenerateNewAddress(testPin)
	require.NoError(t, err)
}

func TestGetNetworks(t *testing.T) {
	core, _ := newTestCore(t, t.TempDir())

	serialized, err := core.GetNetworks()
	require.NoError(t, err)

	var list model.NetworkList
	require.NoError(t, json.Unmarshal([]byte(serialized), &list))
	require.Equal(t, model.NetworkListVersion, list.Version)
	require.Len(t, list.Networks, 2)
	require.Equal(t, "testnet", list.Networks[0].ID)
	require.Equal(t, "testnet-evm", list.Networks[1].ID)
}

func TestSetNetworkUnknown(t *testing.T) {
	core, _ := newTestCore(t, t.TempDir())
	setupActiveWallet(t, core, "satoshi")

	require.ErrorIs(t, core.SetNetwork("mainnet"), model.ErrUnknownNetwork)
}

func TestGetWalletBalance(t *testing.T) {
	core, ledger := newTestCore(t, t.TempDir())
	setupActiveWallet(t, core, "satoshi")

	a0, err := core.GenerateNewAddress(testPin)
	require.NoError(t, err)
	a1, err := core.GenerateNewAddress(testPin)
	require.NoError(t, err)

	ledger.Credit(a0.Value, 100)
	ledger.Credit(a1.Value, 50)

	balance, err := core.GetWalletBalance(context.Background(), testPin)
	require.NoError(t, err)
	require.Equal(t, uint64(150), balance)
}

func TestGetWalletBalanceWrongPin(t *testing.T) {
	core, _ := newTestCore(t, t.TempDir())
	setupActiveWallet(t, core, "satoshi")

	_, err := core.GetWalletBalance(context.Background(), "0000")
	require.ErrorIs(t, err, model.ErrAuthFailure)
}

func TestSendAmount(t *testing.T) {
	core, ledger := newTestCore(t, t.TempDir())
	setupActiveWallet(t, core, "satoshi")

	a0, err := core.GenerateNewAddress(testPin)
	require.NoError(t, err)
	ledger.Credit(a0.Value, 200)

	ref, err := core.SendAmount(context.Background(), testPin, "receiver-address", 50, []byte("test payment"))
	require.NoError(t, err)
	require.NotEmpty(t, ref)

	balance, err := core.GetWalletBalance(context.Background(), testPin)
	require.NoError(t, err)
	require.Equal(t, uint64(150), balance)

	submitted := ledger.Submitted()
	require.Len(t, submitted, 1)
	require.Equal(t, a0.Value, submitted[0].From)
	require.Equal(t, "receiver-address", submitted[0].To)
	require.Equal(t, []byte("test payment"), submitted[0].Metadata)
}

func TestSendAmountExceedingBalance(t *testing.T) {
	core, ledger := newTestCore(t, t.TempDir())
	setupActiveWallet(t, core, "satoshi")

	a0, err := core.GenerateNewAddress(testPin)
	require.NoError(t, err)
	ledger.Credit(a0.Value, 10)

	indexBefore := core.entries["satoshi"].file.AddressIndex

	_, err = core.SendAmount(context.Background(), testPin, "receiver-address", 11, nil)
	require.ErrorIs(t, err, model.ErrRejected)

	// Wallet state unchanged after the refusal.
	require.Equal(t, indexBefore, core.entries["satoshi"].file.AddressIndex)
	list, err := core.GetWalletTxList(nil)
	require.NoError(t, err)
	require.Empty(t, list.Transactions)
}

func TestSendAmountZero(t *testing.T) {
	core, _ := newTestCore(t, t.TempDir())
	setupActiveWallet(t, core, "satoshi")

	_, err := core.SendAmount(context.Background(), testPin, "receiver-address", 0, nil)
	require.ErrorIs(t, err, model.ErrRejected)
}

func TestSendAmountWrongPin(t *testing.T) {
	core, ledger := newTestCore(t, t.TempDir())
	setupActiveWallet(t, core, "satoshi")

	a0, err := core.GenerateNewAddress(testPin)
	require.NoError(t, err)
	ledger.Credit(a0.Value, 100)

	_, err = core.SendAmount(context.Background(), "0000", "receiver-address", 10, nil)
	require.ErrorIs(t, err, model.ErrAuthFailure)

	// Nothing was broadcast.
	require.Empty(t, ledger.Submitted())
}

func TestSendAmountCanceledContext(t *testing.T) {
	core, ledger := newTestCore(t, t.TempDir())
	setupActiveWallet(t, core, "satoshi")

	a0, err := core.GenerateNewAddress(testPin)
	require.NoError(t, err)
	ledger.Credit(a0.Value, 100)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = core.SendAmount(ctx, testPin, "receiver-address", 10, nil)
	require.ErrorIs(t, err, model.ErrNetworkUnavailable)

	// Wallet state untouched by the transport failure.
	list, err := core.GetWalletTxList(nil)
	require.NoError(t, err)
	require.Empty(t, list.Transactions)
}

func TestGetWalletTxList(t *testing.T) {
	core, ledger := newTestCore(t, t.TempDir())
	setupActiveWallet(t, core, "satoshi")

	a0, err := core.GenerateNewAddress(testPin)
	require.NoError(t, err)
	ledger.Credit(a0.Value, 300)

	ref1, err := core.SendAmount(context.Background(), testPin, "r1", 100, nil)
	require.NoError(t, err)
	ref2, err := core.SendAmount(context.Background(), testPin, "r2", 50, nil)
	require.NoError(t, err)

	list, err := core.GetWalletTxList(nil)
	require.NoError(t, err)
	require.Len(t, list.Transactions, 2)
	require.Equal(t, ref1, list.Transactions[0].Reference)
	require.Equal(t, ref2, list.Transactions[1].Reference)

	networkID := "other-net"
	filtered, err := core.GetWalletTxList(&model.TxListFilter{NetworkID: &networkID})
	require.NoError(t, err)
	require.Empty(t, filtered.Transactions)
}

func TestDeleteUser(t *testing.T) {
	core, _ := newTestCore(t, t.TempDir())
	setupActiveWallet(t, core, "archiveme")

	require.NoError(t, core.SetKycVerified("archiveme", true))
	require.True(t, core.IsKycVerified("archiveme"))

	require.NoError(t, core.DeleteUser(testPin))

	// Documented fallback: deleted users read as unverified, not as errors.
	require.False(t, core.IsKycVerified("archiveme"))
	// Everything else referencing the username reports NotFound.
	require.ErrorIs(t, core.InitializeUser("archiveme"), model.ErrNotFound)
}

func TestDeleteUserWrongPin(t *testing.T) {
	core, _ := newTestCore(t, t.TempDir())
	setupActiveWallet(t, core, "satoshi")

	require.ErrorIs(t, core.DeleteUser("0000"), model.ErrAuthFailure)
	// Still alive.
	require.NoError(t, core.VerifyPin(testPin))
}

func TestDeleteUserConflictWhileLocked(t *testing.T) {
	core, _ := newTestCore(t, t.TempDir())
	setupActiveWallet(t, core, "satoshi")

	entry := core.entries["satoshi"]
	entry.mu.Lock()
	defer entry.mu.Unlock()

	require.ErrorIs(t, core.DeleteUser(testPin), model.ErrConflict)
}

func TestDeleteUserWithoutWallet(t *testing.T) {
	core, _ := newTestCore(t, t.TempDir())

	require.NoError(t, core.CreateNewUser("fresh"))
	require.NoError(t, core.InitializeUser("fresh"))
	// No password was ever set, so there is no secret to authenticate
	// against.
	require.NoError(t, core.DeleteUser(testPin))
	require.ErrorIs(t, core.InitializeUser("fresh"), model.ErrNotFound)
}

func TestIsKycVerifiedUnknownUser(t *testing.T) {
	core, _ := newTestCore(t, t.TempDir())
	require.False(t, core.IsKycVerified("nobody"))
}

func TestStateSurvivesRestart(t *testing.T) {
	dataDir := t.TempDir()

	core, _ := newTestCore(t, dataDir)
	setupActiveWallet(t, core, "satoshi")

	a0, err := core.GenerateNewAddress(testPin)
	require.NoError(t, err)

	// A new handle over the same data directory picks up where the first
	// left off.
	reloaded, _ := newTestCore(t, dataDir)
	require.NoError(t, reloaded.InitializeUser("satoshi"))

	addrs, err := reloaded.Addresses()
	require.NoError(t, err)
	require.Len(t, addrs, 1)
	require.Equal(t, a0.Value, addrs[0].Value)

	a1, err := reloaded.GenerateNewAddress(testPin)
	require.NoError(t, err)
	require.Equal(t, uint32(1), a1.Index)
	require.NotEqual(t, a0.Value, a1.Value)
}

func TestAddressQRCode(t *testing.T) {
	qr, err := AddressQRCode("some-address")
	require.NoError(t, err)
	require.NotEmpty(t, qr)
}
