package transfer

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/AlexZinkM/goldium-wallet/internal/assets"
	"github.com/AlexZinkM/goldium-wallet/internal/client"
	"github.com/AlexZinkM/goldium-wallet/internal/common"
	"github.com/AlexZinkM/goldium-wallet/internal/history"
	"github.com/AlexZinkM/goldium-wallet/internal/logger"
	"github.com/AlexZinkM/goldium-wallet/internal/model"
	"github.com/AlexZinkM/goldium-wallet/internal/notify"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// FeeBufferLamports is kept aside on native transfers (0.000005 SOL)
	FeeBufferLamports = 5000

	defaultConfirmTimeout = 60 * time.Second
	defaultSettleDelay    = 2 * time.Second
)

// WalletSource yields the connected signer, or nil when no wallet is connected
type WalletSource interface {
	Current() client.Signer
}

// BalanceBook is the part of the balance synchronizer the executor needs
type BalanceBook interface {
	Query(symbol string) model.AssetBalance
	ApplyOptimisticDebit(symbol string, amount float64)
	ScheduleRefresh(delay time.Duration)
}

// Options tune the executor
type Options struct {
	ConfirmTimeout    time.Duration
	SettleDelay       time.Duration
	FeeBufferLamports uint64
}

// Executor validates and submits transfers from the connected wallet.
type Executor struct {
	ledger   client.Ledger
	wallets  WalletSource
	balances BalanceBook
	store    *history.Store
	notifier notify.Notifier
	assets   *assets.Registry
	opts     Options
}

// New creates an executor
func New(ledger client.Ledger, wallets WalletSource, balances BalanceBook, store *history.Store, notifier notify.Notifier, registry *assets.Registry, opts Options) *Executor {
	if opts.ConfirmTimeout <= 0 {
		opts.ConfirmTimeout = defaultConfirmTimeout
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = defaultSettleDelay
	}
	if opts.FeeBufferLamports == 0 {
		opts.FeeBufferLamports = FeeBufferLamports
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Executor{
		ledger:   ledger,
		wallets:  wallets,
		balances: balances,
		store:    store,
		notifier: notifier,
		assets:   registry,
		opts:     opts,
	}
}

// validated is a request that passed every precondition
type validated struct {
	signer      client.Signer
	asset       model.AssetDescriptor
	destination solana.PublicKey
	units       uint64
}

// Transfer sends req.Amount of req.Symbol to req.Destination and waits for
// confirmation. Validation failures return before any ledger call and leave
// no record behind; later failures return the failed record with the error.
func (e *Executor) Transfer(ctx context.Context, req model.TransferRequest) (*model.TransferRecord, error) {
	v, err := e.validate(req)
	if err != nil {
		e.notifier.Notify(notify.Failure(failureTitle(err), err))
		return nil, err
	}

	rec := model.TransferRecord{
		ID:          uuid.NewString(),
		Kind:        model.TransferKindTransfer,
		FromSymbol:  v.asset.Symbol,
		ToSymbol:    v.asset.Symbol,
		FromAmount:  req.Amount,
		ToAmount:    req.Amount,
		Destination: v.destination.String(),
		Status:      model.TransferStatusPending,
		Timestamp:   time.Now(),
	}
	e.store.Add(rec)

	log := logger.With(
		zap.String("id", rec.ID),
		zap.String("symbol", v.asset.Symbol),
		zap.String("to", rec.Destination),
		zap.Float64("amount", req.Amount),
	)
	log.Info("transfer submitted")

	sig, err := e.execute(ctx, v)
	if err != nil {
		log.Error("transfer failed", zap.Error(err))
		failed := e.fail(rec.ID, sig, err)
		e.notifier.Notify(notify.Failure("Transfer failed", err))
		return &failed, err
	}

	confirmed, _ := e.store.Update(rec.ID, func(r *model.TransferRecord) {
		r.Status = model.TransferStatusConfirmed
		r.Signature = sig.String()
	})
	log.Info("transfer confirmed", zap.String("signature", sig.String()))

	e.balances.ApplyOptimisticDebit(v.asset.Symbol, req.Amount)
	e.balances.ScheduleRefresh(e.opts.SettleDelay)

	e.notifier.Notify(notify.Success("Transfer successful!", fmt.Sprintf(
		"Successfully transferred %s %s. View on Solscan: %s",
		strconv.FormatFloat(req.Amount, 'f', -1, 64), v.asset.Symbol, ExplorerURL(sig, e.assets.Network()),
	)))
	return &confirmed, nil
}

// validate checks, in order: wallet, destination, amount, asset, balance
func (e *Executor) validate(req model.TransferRequest) (*validated, error) {
	signer := e.wallets.Current()
	if signer == nil {
		return nil, model.ErrWalletNotConnected
	}

	destination, err := solana.PublicKeyFromBase58(strings.TrimSpace(req.Destination))
	if err != nil {
		return nil, model.NewWalletError(model.KindInvalidDestination, "", err)
	}

	if math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) || req.Amount <= 0 {
		return nil, model.ErrInvalidAmount
	}

	asset, ok := e.assets.Lookup(req.Symbol)
	if !ok {
		return nil, model.NewWalletError(model.KindUnsupportedAsset, req.Symbol, nil)
	}

	units, err := common.ToBaseUnits(req.Amount, asset.Decimals)
	if err != nil || units == 0 {
		return nil, model.NewWalletError(model.KindInvalidAmount, "", err)
	}

	bal := e.balances.Query(asset.Symbol)
	if !bal.Loaded {
		return nil, model.NewWalletError(model.KindInsufficientBalance, "balance not loaded yet", nil)
	}
	available, err := common.ToBaseUnits(bal.Amount, asset.Decimals)
	if err != nil {
		return nil, model.NewWalletError(model.KindInsufficientBalance, "", err)
	}

	need := units
	if asset.Native {
		need += e.opts.FeeBufferLamports
	}
	if need > available {
		reason := fmt.Sprintf("you only have %s %s", common.FormatUnits(available, asset.Decimals), asset.Symbol)
		if asset.Native {
			reason += fmt.Sprintf(", %s SOL is kept for the fee", common.LamportsToSOL(e.opts.FeeBufferLamports))
		}
		return nil, model.NewWalletError(model.KindInsufficientBalance, reason, nil)
	}

	return &validated{signer: signer, asset: asset, destination: destination, units: units}, nil
}

func (e *Executor) execute(ctx context.Context, v *validated) (solana.Signature, error) {
	owner := v.signer.PublicKey()

	var instructions []solana.Instruction
	if v.asset.Native {
		instructions = append(instructions, system.NewTransferInstruction(v.units, owner, v.destination).Build())
	} else {
		tokenInstructions, err := e.tokenInstructions(ctx, owner, v)
		if err != nil {
			return solana.Signature{}, err
		}
		instructions = append(instructions, tokenInstructions...)
	}

	blockhash, err := e.ledger.GetLatestBlockhash(ctx)
	if err != nil {
		return solana.Signature{}, LedgerError(err)
	}

	tx, err := solana.NewTransaction(instructions, blockhash.Hash, solana.TransactionPayer(owner))
	if err != nil {
		return solana.Signature{}, model.NewWalletError(model.KindLedgerRejected, "transaction could not be built", err)
	}

	return Submit(ctx, e.ledger, v.signer, Submission{
		Tx:                   tx,
		LastValidBlockHeight: blockhash.LastValidBlockHeight,
		ConfirmTimeout:       e.opts.ConfirmTimeout,
	})
}

// tokenInstructions builds a checked token transfer between the associated
// token accounts of owner and the destination. A missing recipient account is
// created in the same transaction, paid by owner.
func (e *Executor) tokenInstructions(ctx context.Context, owner solana.PublicKey, v *validated) ([]solana.Instruction, error) {
	source, _, err := solana.FindAssociatedTokenAddress(owner, v.asset.Mint)
	if err != nil {
		return nil, model.NewWalletError(model.KindSenderHasNoAssetAccount, "", err)
	}
	sourceInfo, err := e.ledger.GetAccountInfo(ctx, source)
	if err != nil {
		return nil, LedgerError(err)
	}
	if sourceInfo == nil {
		return nil, model.ErrSenderHasNoAssetAccount
	}

	destination, _, err := solana.FindAssociatedTokenAddress(v.destination, v.asset.Mint)
	if err != nil {
		return nil, model.NewWalletError(model.KindInvalidDestination, "", err)
	}
	destinationInfo, err := e.ledger.GetAccountInfo(ctx, destination)
	if err != nil {
		return nil, LedgerError(err)
	}

	var instructions []solana.Instruction
	if destinationInfo == nil {
		logger.Debug("recipient token account missing, creating it",
			zap.String("account", destination.String()),
			zap.String("mint", v.asset.Mint.String()),
		)
		instructions = append(instructions,
			associatedtokenaccount.NewCreateInstruction(owner, v.destination, v.asset.Mint).Build())
	}

	instructions = append(instructions, token.NewTransferCheckedInstruction(
		v.units,
		v.asset.Decimals,
		source,
		v.asset.Mint,
		destination,
		owner,
		[]solana.PublicKey{},
	).Build())
	return instructions, nil
}

// fail marks the record failed and returns the updated copy
func (e *Executor) fail(id string, sig solana.Signature, err error) model.TransferRecord {
	rec, _ := e.store.Update(id, func(r *model.TransferRecord) {
		r.Status = model.TransferStatusFailed
		r.ErrorCode = string(model.KindOf(err))
		r.Error = model.UserMessage(err)
		if !sig.IsZero() {
			r.Signature = sig.String()
		}
	})
	return rec
}

func failureTitle(err error) string {
	switch model.KindOf(err) {
	case model.KindWalletNotConnected:
		return "Wallet not connected"
	case model.KindInvalidDestination:
		return "Invalid recipient"
	case model.KindInvalidAmount:
		return "Invalid amount"
	case model.KindUnsupportedAsset:
		return "Unsupported token"
	case model.KindInsufficientBalance:
		return "Insufficient balance"
	default:
		return "Transfer failed"
	}
}
