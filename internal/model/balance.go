package model

import "time"

// AssetBalance is the displayed balance of one asset.
// Loaded is false until a refresh has completed for the connected account,
// so an unfetched balance is never confused with a confirmed zero.
type AssetBalance struct {
	Symbol       string   `json:"symbol"`
	Amount       float64  `json:"amount"`
	Loaded       bool     `json:"loaded"`
	PendingDebit float64  `json:"pendingDebit,omitempty"`
	PriceUSDC    *float64 `json:"priceUsdc,omitempty"`
	ValueUSDC    *float64 `json:"valueUsdc,omitempty"`
}

// BalanceSnapshot is a point-in-time view of all balances of the connected account
type BalanceSnapshot struct {
	Address   string         `json:"address,omitempty"`
	Network   string         `json:"network"`
	Connected bool           `json:"connected"`
	Loading   bool           `json:"loading"`
	Error     string         `json:"error,omitempty"`
	UpdatedAt *time.Time     `json:"updatedAt,omitempty"`
	Balances  []AssetBalance `json:"balances"`
}

// BalanceResponse represents response for GET /wallet/balances
type BalanceResponse struct {
	BalanceSnapshot
	TotalUSDC *float64 `json:"totalUsdc,omitempty"`
}
