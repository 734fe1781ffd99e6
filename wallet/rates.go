package wallet

import (
	"github.com/AlexZinkM/wallet-core/internal/model"
)

// GetExchangeRate returns the fiat exchange rate for the active network's
// native currency. Requires the active state; the rate source is external,
// so failures are not part of the core taxonomy beyond being errors.
func (c *Core) GetExchangeRate() (*model.RateResponse, error) {
	entry, _, err := c.activeEntry()
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	if err := entry.requireState(StateActive); err != nil {
		entry.mu.Unlock()
		return nil, err
	}
	networkDef, err := c.activeNetwork(entry)
	entry.mu.Unlock()
	if err != nil {
		return nil, err
	}

	rate, err := c.rates.GetRate(networkDef.Symbol, c.rateFiat)
	if err != nil {
		return nil, err
	}

	return &model.RateResponse{
		Symbol: networkDef.Symbol,
		Fiat:   c.rateFiat,
		Rate:   rate,
	}, nil
}
