package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const coingeckoAPI = "https://api.coingecko.com/api/v3"

// coinIDs maps native currency tickers to CoinGecko coin ids. Unknown
// tickers fall through to the lowercase symbol, which works for many coins.
var coinIDs = map[string]string{
	"ETH": "ethereum",
	"SOL": "solana",
	"BTC": "bitcoin",
}

// CoinGeckoClient client for the CoinGecko API
type CoinGeckoClient struct {
	baseURL string
	client  *http.Client
}

// NewCoinGeckoClient creates a new CoinGecko client
func NewCoinGeckoClient() *CoinGeckoClient {
	return &CoinGeckoClient{
		baseURL: coingeckoAPI,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// NewCoinGeckoClientWithBaseURL creates a client against a different
// endpoint (used by tests).
func NewCoinGeckoClientWithBaseURL(baseURL string) *CoinGeckoClient {
	c := NewCoinGeckoClient()
	c.baseURL = baseURL
	return c
}

// GetRate gets the exchange rate of a native currency symbol in the given
// fiat currency, as a decimal string.
func (c *CoinGeckoClient) GetRate(symbol, fiat string) (string, error) {
	coinID, ok := coinIDs[strings.ToUpper(symbol)]
	if !ok {
		coinID = strings.ToLower(symbol)
	}
	fiat = strings.ToLower(fiat)

	url := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=%s", c.baseURL, coinID, fiat)

	resp, err := c.client.Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to get rate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to get rate: status %d", resp.StatusCode)
	}

	var priceResp map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&priceResp); err != nil {
		return "", fmt.Errorf("failed to decode rate: %w", err)
	}

	rate, ok := priceResp[coinID][fiat]
	if !ok {
		return "", fmt.Errorf("no rate for %s/%s", coinID, fiat)
	}

	return strconv.FormatFloat(rate, 'f', 2, 64), nil
}
