package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Config contains all configuration parameters for the application.
type Config struct {
	Port         string `envconfig:"PORT" default:"8080"`
	DataDir      string `envconfig:"WALLET_DATA_DIR" required:"true"`
	NetworksPath string `envconfig:"WALLET_NETWORKS_FILE" required:"true"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	// RateFiat is the fiat currency used by the exchange rate endpoint.
	RateFiat string `envconfig:"RATE_FIAT" default:"usd"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return cfg, nil
}

// PromptForPin prompts for the wallet PIN in the terminal. The PIN is read
// without echoing (hidden input). Caller must zero the returned slice after
// use.
func PromptForPin() ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("stdin is not a terminal: run the app interactively to enter the PIN")
	}
	fmt.Fprint(os.Stderr, "Enter wallet PIN: ")
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read PIN: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("PIN cannot be empty")
	}

	out := make([]byte, len(raw))
	copy(out, raw)
	clear(raw)
	return out, nil
}
