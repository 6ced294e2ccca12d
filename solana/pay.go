package solana

import (
	"context"
	"strconv"
	"strings"

	"github.com/AlexZinkM/goldium-wallet/internal/logger"
	"github.com/AlexZinkM/goldium-wallet/internal/model"

	"go.uber.org/zap"
)

// Pay sends req.Amount of req.Symbol to req.ToAddress from the connected wallet.
// Only one transfer or swap may be in flight at a time.
func (s *Service) Pay(ctx context.Context, req model.PayRequest) (*model.PayResponse, error) {
	done, err := s.tryBegin("Transfer failed")
	if err != nil {
		return nil, err
	}
	defer done()

	rec, err := s.transfers.Transfer(ctx, model.TransferRequest{
		Symbol:      req.Symbol,
		Destination: req.ToAddress,
		Amount:      parseAmount(req.Amount),
	})
	if err != nil {
		logger.Warn("transfer failed",
			zap.String("symbol", req.Symbol),
			zap.String("to", req.ToAddress),
			zap.Error(err),
		)
		return nil, err
	}

	return &model.PayResponse{
		TxID:   rec.Signature,
		Record: *rec,
	}, nil
}

// parseAmount turns user input into a number. Unparseable input becomes 0,
// which the executor and swap client reject as an invalid amount.
func parseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
