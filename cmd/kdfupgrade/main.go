// One-off: re-encrypt a user's wallet secrets under the current scrypt
// parameters. Blobs keep working without this because stored parameters are
// honored on decrypt; run it to migrate old wallets to the stronger defaults.
// Usage: go run ./cmd/kdfupgrade -data <dir> -user <name>
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/AlexZinkM/wallet-core/internal/config"
	"github.com/AlexZinkM/wallet-core/internal/secret"
	"github.com/AlexZinkM/wallet-core/internal/store"
)

func main() {
	dataDir := flag.String("data", "", "wallet data directory")
	username := flag.String("user", "", "username whose wallet to upgrade")
	flag.Parse()

	if *dataDir == "" || *username == "" {
		fmt.Fprintln(os.Stderr, "usage: kdfupgrade -data <dir> -user <name>")
		os.Exit(2)
	}

	users, err := store.NewUserStore(*dataDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	file, err := users.LoadWallet(*username)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	pin, err := config.PromptForPin()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer clear(pin)

	secrets := secret.NewStore(secret.DefaultParams())

	password, err := secrets.Open(file.PinBlob, pin)
	if err != nil {
		fmt.Fprintln(os.Stderr, "pin rejected:", err)
		os.Exit(1)
	}
	defer clear(password)

	target := secret.DefaultParams()
	if file.PinBlob.ScryptN >= target.N && (!file.HasSeed || file.SeedBlob.ScryptN >= target.N) {
		fmt.Println("wallet already at current parameters, nothing to do")
		return
	}

	pinBlob, err := secrets.Seal(password, pin)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	file.PinBlob = pinBlob

	if file.HasSeed {
		seed, err := secrets.Open(file.SeedBlob, password)
		if err != nil {
			fmt.Fprintln(os.Stderr, "password blob rejected:", err)
			os.Exit(1)
		}
		seedBlob, err := secrets.Seal(seed, password)
		clear(seed)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		file.SeedBlob = seedBlob
	}

	if err := users.SaveWallet(file); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("wallet for %q re-encrypted with scrypt N=%d\n", *username, target.N)
}
