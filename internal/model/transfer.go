package model

import "time"

// TransferRequest is an intent to send Amount of Symbol from the connected wallet.
type TransferRequest struct {
	Symbol      string
	Destination string
	Amount      float64
}

// TransferStatus lifecycle: pending -> confirmed | failed
type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "pending"
	TransferStatusConfirmed TransferStatus = "confirmed"
	TransferStatusFailed    TransferStatus = "failed"
)

// TransferKind distinguishes plain transfers from swaps in the history
type TransferKind string

const (
	TransferKindTransfer TransferKind = "transfer"
	TransferKindSwap     TransferKind = "swap"
)

// TransferRecord is a history entry created when an operation is submitted
type TransferRecord struct {
	ID          string         `json:"id"`
	Kind        TransferKind   `json:"kind"`
	FromSymbol  string         `json:"fromSymbol"`
	ToSymbol    string         `json:"toSymbol"`
	FromAmount  float64        `json:"fromAmount"`
	ToAmount    float64        `json:"toAmount"`
	Destination string         `json:"destination,omitempty"`
	Status      TransferStatus `json:"status"`
	Timestamp   time.Time      `json:"timestamp"`
	Signature   string         `json:"signature,omitempty"`
	ErrorCode   string         `json:"errorCode,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// PayRequest represents request for POST /wallet/transfer
type PayRequest struct {
	Symbol    string `json:"symbol"`
	ToAddress string `json:"toAddress"`
	Amount    string `json:"amount"`
}

// PayResponse represents response for POST /wallet/transfer
type PayResponse struct {
	TxID   string         `json:"txId"`
	Record TransferRecord `json:"record"`
}
