package solana

import (
	"context"
	"math/big"

	"github.com/AlexZinkM/goldium-wallet/internal/assets"
	"github.com/AlexZinkM/goldium-wallet/internal/client"
	"github.com/AlexZinkM/goldium-wallet/internal/common"
	"github.com/AlexZinkM/goldium-wallet/internal/logger"
	"github.com/AlexZinkM/goldium-wallet/internal/model"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const priceSlippageBps = 50

// GetBalance returns the current balance snapshot of the connected wallet.
// With withPrices every asset is valued in USDC; assets that cannot be priced are left without a price.
func (s *Service) GetBalance(ctx context.Context, withPrices bool) (*model.BalanceResponse, error) {
	if _, ok := s.session.Address(); !ok {
		return nil, model.ErrWalletNotConnected
	}
	resp := &model.BalanceResponse{BalanceSnapshot: s.balances.Snapshot()}
	if withPrices {
		s.price(ctx, resp)
	}
	return resp, nil
}

// RefreshBalance fetches balances from the ledger now
func (s *Service) RefreshBalance(ctx context.Context) (*model.BalanceResponse, error) {
	if _, ok := s.session.Address(); !ok {
		return nil, model.ErrWalletNotConnected
	}
	return &model.BalanceResponse{BalanceSnapshot: s.balances.Refresh(ctx)}, nil
}

func (s *Service) price(ctx context.Context, resp *model.BalanceResponse) {
	usdc, ok := s.assets.Lookup(assets.SymbolUSDC)
	if !ok {
		logger.Debug("no USDC on this network, skipping valuation", zap.String("network", s.Network()))
		return
	}

	total := decimal.Zero
	priced := false
	for i := range resp.Balances {
		b := &resp.Balances[i]
		if !b.Loaded {
			continue
		}
		p, err := s.unitPrice(ctx, b.Symbol, usdc)
		if err != nil {
			logger.Warn("failed to price asset", zap.String("symbol", b.Symbol), zap.Error(err))
			continue
		}
		value, _ := decimal.NewFromFloat(b.Amount).Mul(p).Round(int32(usdc.Decimals)).Float64()
		price, _ := p.Float64()
		b.PriceUSDC = &price
		b.ValueUSDC = &value
		total = total.Add(decimal.NewFromFloat(value))
		priced = true
	}
	if priced {
		t, _ := total.Float64()
		resp.TotalUSDC = &t
	}
}

// unitPrice quotes one whole unit of symbol into USDC
func (s *Service) unitPrice(ctx context.Context, symbol string, usdc model.AssetDescriptor) (decimal.Decimal, error) {
	if symbol == usdc.Symbol {
		return decimal.NewFromInt(1), nil
	}
	asset, ok := s.assets.Lookup(symbol)
	if !ok {
		return decimal.Zero, model.ErrUnsupportedAsset
	}
	one, err := common.ToBaseUnits(1, asset.Decimals)
	if err != nil {
		return decimal.Zero, err
	}
	q, err := s.aggregator.Quote(ctx, client.QuoteParams{
		InputMint:   asset.Mint,
		OutputMint:  usdc.Mint,
		Amount:      one,
		SlippageBps: priceSlippageBps,
	})
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromBigInt(new(big.Int).SetUint64(q.OutAmount), -int32(usdc.Decimals)), nil
}
