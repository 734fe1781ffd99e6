package model

import (
	"fmt"
	"time"
)

// TxStatus is the submission outcome recorded for a wallet transaction.
type TxStatus string

const (
	TxStatusConfirmed TxStatus = "CONFIRMED"
	TxStatusSubmitted TxStatus = "SUBMITTED"
)

// TxRecord is one transaction sent from this wallet, appended on successful
// submission and persisted in the wallet file.
type TxRecord struct {
	Reference string    `json:"reference"` // network transaction id
	NetworkID string    `json:"networkId"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Amount    uint64    `json:"amount"` // network-native smallest unit
	Metadata  []byte    `json:"metadata,omitempty"`
	Status    TxStatus  `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// TxList is the response for wallet transaction listing.
type TxList struct {
	Username     string     `json:"username"`
	Transactions []TxRecord `json:"transactions"`
}

// TxListFilter narrows a wallet transaction listing.
type TxListFilter struct {
	NetworkID *string    `json:"networkId,omitempty"`
	From      *time.Time `json:"from,omitempty"`
	To        *time.Time `json:"to,omitempty"`
}

// Validate checks filter consistency.
func (f *TxListFilter) Validate() error {
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return fmt.Errorf("to date must be after or equal to from date")
	}
	return nil
}
