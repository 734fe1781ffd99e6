// Package network holds the catalog of supported ledger networks. The
// catalog is loaded once at process start and is immutable afterwards.
package network

import (
	"fmt"
	"os"
	"strings"

	"github.com/AlexZinkM/wallet-core/internal/model"

	"gopkg.in/yaml.v2"
)

// Registry resolves network ids to their immutable definitions. List order
// is the configuration order.
type Registry struct {
	networks []model.Network
	byID     map[string]*model.Network
}

type registryFile struct {
	Networks []model.Network `yaml:"networks"`
}

// Load reads the network catalog from a YAML file.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read networks file: %w", err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse networks file: %w", err)
	}

	return New(file.Networks)
}

// New builds a registry from in-memory definitions, validating each entry.
func New(networks []model.Network) (*Registry, error) {
	if len(networks) == 0 {
		return nil, fmt.Errorf("at least one network is required")
	}

	r := &Registry{
		networks: make([]model.Network, 0, len(networks)),
		byID:     make(map[string]*model.Network, len(networks)),
	}
	for i, n := range networks {
		n.ID = strings.ToLower(strings.TrimSpace(n.ID))
		if err := validate(&n); err != nil {
			return nil, fmt.Errorf("networks[%d]: %w", i, err)
		}
		if _, dup := r.byID[n.ID]; dup {
			return nil, fmt.Errorf("networks[%d]: duplicate id %q", i, n.ID)
		}
		r.networks = append(r.networks, n)
		r.byID[n.ID] = &r.networks[len(r.networks)-1]
	}
	return r, nil
}

func validate(n *model.Network) error {
	if n.ID == "" {
		return fmt.Errorf("id is required")
	}
	switch n.Kind {
	case model.NetworkKindEVM:
		if n.ChainID == 0 {
			return fmt.Errorf("chain_id is required for evm networks")
		}
		if n.Endpoint == "" {
			return fmt.Errorf("endpoint is required for evm networks")
		}
	case model.NetworkKindSolana:
		if n.Endpoint == "" {
			return fmt.Errorf("endpoint is required for solana networks")
		}
	case model.NetworkKindMemory:
		// In-process ledger, no endpoint.
	default:
		return fmt.Errorf("kind must be one of: evm, solana, memory")
	}
	switch n.AddressFormat {
	case model.AddressFormatHex20, model.AddressFormatBase58:
	default:
		return fmt.Errorf("address_format must be one of: hex20, base58")
	}
	if n.Decimals <= 0 {
		return fmt.Errorf("decimals must be > 0")
	}
	return nil
}

// Resolve returns the network for id, or model.ErrUnknownNetwork.
func (r *Registry) Resolve(id string) (*model.Network, error) {
	n, ok := r.byID[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return nil, fmt.Errorf("network %q: %w", id, model.ErrUnknownNetwork)
	}
	return n, nil
}

// List returns the networks in configuration order. The slice is a copy; the
// registry itself never changes after load.
func (r *Registry) List() []model.Network {
	out := make([]model.Network, len(r.networks))
	copy(out, r.networks)
	return out
}
