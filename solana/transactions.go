package solana

import (
	"strings"

	"github.com/AlexZinkM/goldium-wallet/internal/model"
)

// GetTransactions returns the transfer and swap history, newest first, filtered by req.
// Total counts all matches; Transactions is cut to req.Limit when it is set.
func (s *Service) GetTransactions(req *model.LogRequest) (*model.LogResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	resp := &model.LogResponse{Transactions: []model.TransferRecord{}}
	if addr, ok := s.session.Address(); ok {
		resp.Address = addr.String()
	}

	for _, rec := range s.history.List() {
		if !matches(rec, req) {
			continue
		}
		resp.Total++
		if req.Limit > 0 && len(resp.Transactions) >= req.Limit {
			continue
		}
		resp.Transactions = append(resp.Transactions, rec)
	}
	return resp, nil
}

func matches(rec model.TransferRecord, req *model.LogRequest) bool {
	if req.Kind != nil && rec.Kind != *req.Kind {
		return false
	}
	if req.Status != nil && rec.Status != *req.Status {
		return false
	}
	// a swap matches both of its assets
	if req.Symbol != nil && !strings.EqualFold(rec.FromSymbol, *req.Symbol) && !strings.EqualFold(rec.ToSymbol, *req.Symbol) {
		return false
	}
	if req.Signature != nil && rec.Signature != *req.Signature {
		return false
	}
	if req.From != nil && rec.Timestamp.Before(*req.From) {
		return false
	}
	if req.To != nil && rec.Timestamp.After(*req.To) {
		return false
	}
	if req.MinAmount != nil && rec.FromAmount < *req.MinAmount {
		return false
	}
	if req.MaxAmount != nil && rec.FromAmount > *req.MaxAmount {
		return false
	}
	return true
}
