package model

// SendRequest represents request for POST /wallet/send
type SendRequest struct {
	Pin       string `json:"pin" binding:"required"`
	ToAddress string `json:"toAddress" binding:"required"`
	Amount    uint64 `json:"amount" binding:"required"`
	Metadata  []byte `json:"metadata,omitempty"`
}

// SendResponse represents response for POST /wallet/send
type SendResponse struct {
	Reference string `json:"reference"`
}

// BalanceResponse represents response for GET /wallet/balance
type BalanceResponse struct {
	NetworkID string `json:"networkId"`
	Amount    uint64 `json:"amount"`  // smallest unit
	Display   string `json:"display"` // decimal string per network decimals
}

// AddressResponse represents response for POST /wallet/address
type AddressResponse struct {
	Address string `json:"address"`
	Index   uint32 `json:"index"`
	QR      string `json:"qr,omitempty"` // base64 PNG
}

// RateResponse represents response for GET /wallet/rate
type RateResponse struct {
	Symbol string `json:"symbol"`
	Fiat   string `json:"fiat"`
	Rate   string `json:"rate"`
}
