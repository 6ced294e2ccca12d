package model

import (
	"fmt"
	"time"
)

// LogResponse represents response for GET /wallet/transactions
type LogResponse struct {
	Address      string           `json:"address,omitempty"`
	Total        int              `json:"total"`
	Transactions []TransferRecord `json:"transactions"`
}

// LogRequest represents filter parameters for GET /wallet/transactions
type LogRequest struct {
	Kind      *TransferKind
	Status    *TransferStatus
	Symbol    *string
	Signature *string
	From      *time.Time
	To        *time.Time
	MinAmount *float64
	MaxAmount *float64
	Limit     int
}

// Validate validates LogRequest filter parameters.
func (r *LogRequest) Validate() error {
	if r.Kind != nil && *r.Kind != TransferKindTransfer && *r.Kind != TransferKindSwap {
		return fmt.Errorf("kind must be transfer or swap")
	}
	if r.Status != nil {
		switch *r.Status {
		case TransferStatusPending, TransferStatusConfirmed, TransferStatusFailed:
		default:
			return fmt.Errorf("status must be pending, confirmed or failed")
		}
	}
	if r.From != nil && r.To != nil && r.To.Before(*r.From) {
		return fmt.Errorf("to date must be after or equal to from date")
	}
	if r.MinAmount != nil && r.MaxAmount != nil && *r.MinAmount > *r.MaxAmount {
		return fmt.Errorf("minAmount must be less than or equal to maxAmount")
	}
	if r.Limit < 0 {
		return fmt.Errorf("limit must not be negative")
	}
	return nil
}
