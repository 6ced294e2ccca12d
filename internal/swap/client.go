package swap

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/AlexZinkM/goldium-wallet/internal/assets"
	"github.com/AlexZinkM/goldium-wallet/internal/client"
	"github.com/AlexZinkM/goldium-wallet/internal/common"
	"github.com/AlexZinkM/goldium-wallet/internal/history"
	"github.com/AlexZinkM/goldium-wallet/internal/logger"
	"github.com/AlexZinkM/goldium-wallet/internal/model"
	"github.com/AlexZinkM/goldium-wallet/internal/notify"
	"github.com/AlexZinkM/goldium-wallet/internal/transfer"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultSlippageBps    = 50
	defaultPriorityFee    = 50
	defaultConfirmTimeout = 60 * time.Second
	defaultSettleDelay    = 2 * time.Second
	maxSlippageBps        = 10000
)

// Options tune the swap client
type Options struct {
	ConfirmTimeout           time.Duration
	SettleDelay              time.Duration
	DefaultSlippageBps       uint16
	PriorityFeeMicroLamports uint64
}

// Client quotes and executes swaps through the aggregator.
type Client struct {
	aggregator client.Aggregator
	ledger     client.Ledger
	wallets    transfer.WalletSource
	balances   transfer.BalanceBook
	store      *history.Store
	notifier   notify.Notifier
	assets     *assets.Registry
	opts       Options

	mu       sync.RWMutex
	settings model.SwapSettings
}

// New creates a swap client
func New(
	aggregator client.Aggregator,
	ledger client.Ledger,
	wallets transfer.WalletSource,
	balances transfer.BalanceBook,
	store *history.Store,
	notifier notify.Notifier,
	registry *assets.Registry,
	opts Options,
) *Client {
	if opts.ConfirmTimeout <= 0 {
		opts.ConfirmTimeout = defaultConfirmTimeout
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = defaultSettleDelay
	}
	if opts.DefaultSlippageBps == 0 {
		opts.DefaultSlippageBps = defaultSlippageBps
	}
	if opts.PriorityFeeMicroLamports == 0 {
		opts.PriorityFeeMicroLamports = defaultPriorityFee
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Client{
		aggregator: aggregator,
		ledger:     ledger,
		wallets:    wallets,
		balances:   balances,
		store:      store,
		notifier:   notifier,
		assets:     registry,
		opts:       opts,
		settings:   model.SwapSettings{SlippageBps: opts.DefaultSlippageBps},
	}
}

// Settings returns the current slippage settings
func (c *Client) Settings() model.SwapSettings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings
}

// SetSlippage sets the manual slippage tolerance in basis points (1..10000)
func (c *Client) SetSlippage(bps uint16) error {
	if bps == 0 || bps > maxSlippageBps {
		return fmt.Errorf("slippage must be between 1 and %d bps", maxSlippageBps)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings.SlippageBps = bps
	return nil
}

// SetAutoSlippage toggles slippage derived from price impact
func (c *Client) SetAutoSlippage(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings.AutoSlippage = enabled
}

// GetQuote asks the aggregator for a route converting amount of inputSymbol
// into outputSymbol. slippageBps 0 uses the current setting. It has no side
// effects beyond updating the slippage setting when auto-slippage is on.
func (c *Client) GetQuote(ctx context.Context, inputSymbol, outputSymbol string, amount float64, slippageBps uint16) (*model.QuoteResult, error) {
	in, out, units, err := c.resolvePair(inputSymbol, outputSymbol, amount)
	if err != nil {
		return nil, err
	}
	if slippageBps == 0 {
		slippageBps = c.Settings().SlippageBps
	}

	q, err := c.aggregator.Quote(ctx, client.QuoteParams{
		InputMint:   in.Mint,
		OutputMint:  out.Mint,
		Amount:      units,
		SlippageBps: slippageBps,
	})
	if err != nil {
		logger.Warn("quote unavailable",
			zap.String("from", in.Symbol),
			zap.String("to", out.Symbol),
			zap.Uint64("amount", units),
			zap.Error(err),
		)
		return nil, model.NewWalletError(model.KindQuoteUnavailable, "", err)
	}

	impact := q.PriceImpactPct
	if !q.PriceImpactReported {
		impact = estimateImpact(slippageBps)
	}
	// only a reported impact drives the recommendation
	recommended := RecommendedSlippageBps(q.PriceImpactPct)

	c.mu.Lock()
	if c.settings.AutoSlippage && c.settings.SlippageBps != recommended {
		logger.Debug("auto slippage adjusted",
			zap.Uint16("from", c.settings.SlippageBps),
			zap.Uint16("to", recommended),
		)
		c.settings.SlippageBps = recommended
	}
	c.mu.Unlock()

	return &model.QuoteResult{
		Quote:                  q,
		InputSymbol:            in.Symbol,
		OutputSymbol:           out.Symbol,
		InputAmount:            common.FromBaseUnits(q.InAmount, in.Decimals),
		OutputAmount:           common.FromBaseUnits(q.OutAmount, out.Decimals),
		MinimumReceived:        common.FromBaseUnits(q.OtherAmountThreshold, out.Decimals),
		ImpactBucket:           PriceImpactBucket(impact),
		RecommendedSlippageBps: recommended,
		SlippageBps:            slippageBps,
		FetchedAt:              time.Now(),
	}, nil
}

func (c *Client) resolvePair(inputSymbol, outputSymbol string, amount float64) (model.AssetDescriptor, model.AssetDescriptor, uint64, error) {
	var none model.AssetDescriptor
	in, ok := c.assets.Lookup(inputSymbol)
	if !ok {
		return none, none, 0, model.NewWalletError(model.KindUnsupportedAsset, inputSymbol, nil)
	}
	out, ok := c.assets.Lookup(outputSymbol)
	if !ok {
		return none, none, 0, model.NewWalletError(model.KindUnsupportedAsset, outputSymbol, nil)
	}
	if in.Symbol == out.Symbol {
		return none, none, 0, model.NewWalletError(model.KindInvalidAmount, "input and output assets are the same", nil)
	}
	if math.IsNaN(amount) || amount <= 0 {
		return none, none, 0, model.ErrInvalidAmount
	}
	units, err := common.ToBaseUnits(amount, in.Decimals)
	if err != nil || units == 0 {
		return none, none, 0, model.NewWalletError(model.KindInvalidAmount, "", err)
	}
	return in, out, units, nil
}

// ExecuteSwap signs and submits the aggregator transaction for quote and
// waits for confirmation. A slippageBps different from the quote's own
// tolerance fetches a fresh quote first.
func (c *Client) ExecuteSwap(ctx context.Context, quote *model.QuoteResult, slippageBps uint16) (*model.TransferRecord, error) {
	rec, err := c.executeSwap(ctx, quote, slippageBps)
	if err != nil {
		c.notifier.Notify(notify.Failure("Swap Failed", err))
	}
	return rec, err
}

func (c *Client) executeSwap(ctx context.Context, quote *model.QuoteResult, slippageBps uint16) (*model.TransferRecord, error) {
	signer := c.wallets.Current()
	if signer == nil {
		return nil, model.ErrWalletNotConnected
	}
	if quote == nil || quote.Quote == nil || len(quote.Quote.Raw) == 0 {
		return nil, model.NewWalletError(model.KindQuoteUnavailable, "no quote to execute", nil)
	}

	if slippageBps != 0 && slippageBps != quote.Quote.SlippageBps {
		fresh, err := c.GetQuote(ctx, quote.InputSymbol, quote.OutputSymbol, quote.InputAmount, slippageBps)
		if err != nil {
			return nil, err
		}
		quote = fresh
	}

	if err := c.checkPair(quote); err != nil {
		return nil, err
	}

	if err := c.checkBalance(quote); err != nil {
		return nil, err
	}

	rec := model.TransferRecord{
		ID:         uuid.NewString(),
		Kind:       model.TransferKindSwap,
		FromSymbol: quote.InputSymbol,
		ToSymbol:   quote.OutputSymbol,
		FromAmount: quote.InputAmount,
		ToAmount:   quote.OutputAmount,
		Status:     model.TransferStatusPending,
		Timestamp:  time.Now(),
	}
	c.store.Add(rec)

	log := logger.With(
		zap.String("id", rec.ID),
		zap.String("from", rec.FromSymbol),
		zap.String("to", rec.ToSymbol),
		zap.Uint64("inAmount", quote.Quote.InAmount),
	)
	log.Info("swap submitted")

	sig, err := c.submit(ctx, signer, quote.Quote)
	if err != nil {
		log.Error("swap failed", zap.Error(err))
		failed, _ := c.store.Update(rec.ID, func(r *model.TransferRecord) {
			r.Status = model.TransferStatusFailed
			r.ErrorCode = string(model.KindOf(err))
			r.Error = model.UserMessage(err)
			if !sig.IsZero() {
				r.Signature = sig.String()
			}
		})
		return &failed, err
	}

	confirmed, _ := c.store.Update(rec.ID, func(r *model.TransferRecord) {
		r.Status = model.TransferStatusConfirmed
		r.Signature = sig.String()
	})
	log.Info("swap confirmed", zap.String("signature", sig.String()))

	c.balances.ScheduleRefresh(c.opts.SettleDelay)
	c.notifier.Notify(notify.Success("Swap Successful", fmt.Sprintf(
		"Swapped %s %s to %s %s. View on Solscan: %s",
		strconv.FormatFloat(quote.InputAmount, 'f', -1, 64), quote.InputSymbol,
		strconv.FormatFloat(quote.OutputAmount, 'f', 6, 64), quote.OutputSymbol,
		transfer.ExplorerURL(sig, c.assets.Network()),
	)))
	return &confirmed, nil
}

// checkPair makes sure the quote routes between the allow-listed assets it names
func (c *Client) checkPair(quote *model.QuoteResult) error {
	for _, side := range []struct{ mint, symbol string }{
		{quote.Quote.InputMint, quote.InputSymbol},
		{quote.Quote.OutputMint, quote.OutputSymbol},
	} {
		mint, err := solana.PublicKeyFromBase58(side.mint)
		if err != nil {
			return model.NewWalletError(model.KindUnsupportedAsset, side.mint, err)
		}
		asset, ok := c.assets.LookupMint(mint)
		if !ok || !strings.EqualFold(asset.Symbol, side.symbol) {
			return model.NewWalletError(model.KindUnsupportedAsset, side.mint, nil)
		}
	}
	return nil
}

// checkBalance compares in smallest units; a native input also keeps the fee buffer
func (c *Client) checkBalance(quote *model.QuoteResult) error {
	asset, ok := c.assets.Lookup(quote.InputSymbol)
	if !ok {
		return model.NewWalletError(model.KindUnsupportedAsset, quote.InputSymbol, nil)
	}
	bal := c.balances.Query(asset.Symbol)
	if !bal.Loaded {
		return model.NewWalletError(model.KindInsufficientBalance, "balance not loaded yet", nil)
	}
	available, err := common.ToBaseUnits(bal.Amount, asset.Decimals)
	if err != nil {
		return model.NewWalletError(model.KindInsufficientBalance, "", err)
	}

	need := quote.Quote.InAmount
	if asset.Native {
		need += transfer.FeeBufferLamports
	}
	if need > available {
		reason := fmt.Sprintf("you only have %s %s", common.FormatUnits(available, asset.Decimals), asset.Symbol)
		if asset.Native {
			reason += fmt.Sprintf(", %s SOL is kept for the fee", common.LamportsToSOL(transfer.FeeBufferLamports))
		}
		return model.NewWalletError(model.KindInsufficientBalance, reason, nil)
	}
	return nil
}

func (c *Client) submit(ctx context.Context, signer client.Signer, q *model.Quote) (solana.Signature, error) {
	swapTx, err := c.aggregator.SwapTransaction(ctx, client.SwapParams{
		Quote:                    q,
		UserPublicKey:            signer.PublicKey(),
		PriorityFeeMicroLamports: c.opts.PriorityFeeMicroLamports,
	})
	if err != nil {
		return solana.Signature{}, model.NewWalletError(model.KindSwapFailed, "", err)
	}

	tx, err := solana.TransactionFromBase64(swapTx.Transaction)
	if err != nil {
		return solana.Signature{}, model.NewWalletError(model.KindSwapFailed, "malformed swap transaction", err)
	}

	return transfer.Submit(ctx, c.ledger, signer, transfer.Submission{
		Tx:                   tx,
		LastValidBlockHeight: swapTx.LastValidBlockHeight,
		ConfirmTimeout:       c.opts.ConfirmTimeout,
	})
}
