package solana

import (
	"context"
	"time"

	"github.com/AlexZinkM/goldium-wallet/internal/logger"
	"github.com/AlexZinkM/goldium-wallet/internal/model"
	"github.com/AlexZinkM/goldium-wallet/internal/notify"
	"github.com/AlexZinkM/goldium-wallet/internal/swap"

	"go.uber.org/zap"
)

// Quote returns a swap quote without side effects on balances or history
func (s *Service) Quote(ctx context.Context, from, to, amount string, slippageBps uint16) (*model.QuoteResult, error) {
	return s.swaps.GetQuote(ctx, from, to, parseAmount(amount), slippageBps)
}

// Swap quotes and executes a swap in one call
func (s *Service) Swap(ctx context.Context, req model.SwapRequest) (*model.SwapResponse, error) {
	done, err := s.tryBegin("Swap Failed")
	if err != nil {
		return nil, err
	}
	defer done()

	var bps uint16
	if req.SlippageBps != nil {
		bps = *req.SlippageBps
	}

	quote, err := s.swaps.GetQuote(ctx, req.From, req.To, parseAmount(req.Amount), bps)
	if err != nil {
		s.notifier.Notify(notify.Failure("Swap Failed", err))
		return nil, err
	}

	// auto-slippage may have moved the setting while quoting; ExecuteSwap re-quotes then
	execBps := quote.SlippageBps
	if req.SlippageBps == nil {
		execBps = s.swaps.Settings().SlippageBps
	}

	rec, err := s.swaps.ExecuteSwap(ctx, quote, execBps)
	if err != nil {
		logger.Warn("swap failed",
			zap.String("from", req.From),
			zap.String("to", req.To),
			zap.Error(err),
		)
		return nil, err
	}

	return &model.SwapResponse{
		TxID:   rec.Signature,
		Quote:  quote,
		Record: *rec,
	}, nil
}

// SwapSettings returns the slippage settings
func (s *Service) SwapSettings() model.SwapSettings {
	return s.swaps.Settings()
}

// UpdateSwapSettings replaces the slippage settings
func (s *Service) UpdateSwapSettings(in model.SwapSettings) (model.SwapSettings, error) {
	if err := s.swaps.SetSlippage(in.SlippageBps); err != nil {
		return model.SwapSettings{}, err
	}
	s.swaps.SetAutoSlippage(in.AutoSlippage)
	return s.swaps.Settings(), nil
}

// UpdateDraft replaces the swap form input. The quote is fetched once the input
// has been stable for the debounce delay; read it with Draft.
func (s *Service) UpdateDraft(req model.QuoteDraftRequest) model.QuoteDraft {
	in := swap.QuoteInput{
		From:        req.From,
		To:          req.To,
		Amount:      parseAmount(req.Amount),
		SlippageBps: req.SlippageBps,
	}

	s.draftMu.Lock()
	s.draft = model.QuoteDraft{
		From:        in.From,
		To:          in.To,
		Amount:      in.Amount,
		SlippageBps: in.SlippageBps,
		Pending:     in.Amount > 0,
	}
	draft := s.draft
	s.draftMu.Unlock()

	// an empty amount clears the quote
	if in.Amount > 0 {
		s.debouncer.Update(in)
	} else {
		s.debouncer.Cancel()
	}
	return draft
}

// Draft returns the latest debounced quote
func (s *Service) Draft() model.QuoteDraft {
	s.draftMu.Lock()
	defer s.draftMu.Unlock()
	return s.draft
}

func (s *Service) fetchDraft(ctx context.Context, in swap.QuoteInput) (*model.QuoteResult, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	return s.swaps.GetQuote(ctx, in.From, in.To, in.Amount, in.SlippageBps)
}

func (s *Service) deliverDraft(in swap.QuoteInput, res *model.QuoteResult, err error) {
	s.draftMu.Lock()
	defer s.draftMu.Unlock()

	s.draft = model.QuoteDraft{
		From:        in.From,
		To:          in.To,
		Amount:      in.Amount,
		SlippageBps: in.SlippageBps,
		Result:      res,
	}
	if err != nil {
		s.draft.Error = model.UserMessage(err)
		s.draft.Code = string(model.KindOf(err))
	}
}
