package transfer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/AlexZinkM/goldium-wallet/internal/assets"
	"github.com/AlexZinkM/goldium-wallet/internal/client"
	"github.com/AlexZinkM/goldium-wallet/internal/client/mocks"
	"github.com/AlexZinkM/goldium-wallet/internal/crypto"
	"github.com/AlexZinkM/goldium-wallet/internal/history"
	"github.com/AlexZinkM/goldium-wallet/internal/logger"
	"github.com/AlexZinkM/goldium-wallet/internal/model"
	"github.com/AlexZinkM/goldium-wallet/internal/notify"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	logger.InitLogger("test", "debug")
}

type walletFunc func() client.Signer

func (f walletFunc) Current() client.Signer { return f() }

// fakeBook is an in-memory BalanceBook
type fakeBook struct {
	mu        sync.Mutex
	balances  map[string]model.AssetBalance
	debits    map[string]float64
	refreshes []time.Duration
}

func newFakeBook(amounts map[string]float64) *fakeBook {
	b := &fakeBook{balances: map[string]model.AssetBalance{}, debits: map[string]float64{}}
	for sym, amt := range amounts {
		b.balances[sym] = model.AssetBalance{Symbol: sym, Amount: amt, Loaded: true}
	}
	return b
}

func (b *fakeBook) Query(symbol string) model.AssetBalance {
	b.mu.Lock()
	defer b.mu.Unlock()
	bal, ok := b.balances[symbol]
	if !ok {
		return model.AssetBalance{Symbol: symbol}
	}
	bal.Amount -= b.debits[symbol]
	if bal.Amount < 0 {
		bal.Amount = 0
	}
	return bal
}

func (b *fakeBook) ApplyOptimisticDebit(symbol string, amount float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.debits[symbol] += amount
}

func (b *fakeBook) ScheduleRefresh(delay time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refreshes = append(b.refreshes, delay)
}

type fixture struct {
	ledger   *mocks.MockLedger
	signer   *crypto.LocalSigner
	book     *fakeBook
	store    *history.Store
	feed     *notify.Feed
	registry *assets.Registry
	exec     *Executor
}

func newFixture(t *testing.T, connected bool, amounts map[string]float64) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	registry, err := assets.Default("devnet")
	require.NoError(t, err)

	signer, err := crypto.NewLocalSigner(solana.NewWallet().PrivateKey)
	require.NoError(t, err)

	f := &fixture{
		ledger:   mocks.NewMockLedger(ctrl),
		signer:   signer,
		book:     newFakeBook(amounts),
		store:    history.NewStore(nil),
		feed:     notify.NewFeed(0),
		registry: registry,
	}
	wallets := walletFunc(func() client.Signer {
		if !connected {
			return nil
		}
		return f.signer
	})
	f.exec = New(f.ledger, wallets, f.book, f.store, f.feed, registry, Options{ConfirmTimeout: time.Second})
	return f
}

// expectSubmit accepts one signed transaction, hands it to inspect and confirms it with confirmErr
func (f *fixture) expectSubmit(t *testing.T, inspect func(tx *solana.Transaction), confirmErr error) {
	f.ledger.EXPECT().GetLatestBlockhash(gomock.Any()).Return(&client.Blockhash{
		Hash:                 solana.Hash{7},
		LastValidBlockHeight: 100,
	}, nil)
	var sig solana.Signature
	f.ledger.EXPECT().SendRawTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, raw []byte) (solana.Signature, error) {
			tx, err := solana.TransactionFromBytes(raw)
			require.NoError(t, err)
			require.NoError(t, tx.VerifySignatures())
			if inspect != nil {
				inspect(tx)
			}
			sig = tx.Signatures[0]
			return sig, nil
		})
	f.ledger.EXPECT().ConfirmTransaction(gomock.Any(), gomock.Any(), uint64(100)).DoAndReturn(
		func(_ context.Context, got solana.Signature, _ uint64) error {
			assert.Equal(t, sig, got)
			return confirmErr
		})
}

func TestTransfer_ValidationFailsFast(t *testing.T) {
	valid := solana.NewWallet().PublicKey().String()

	tests := []struct {
		name      string
		connected bool
		amounts   map[string]float64
		req       model.TransferRequest
		kind      model.ErrorKind
		title     string
	}{
		{
			name:    "wallet not connected",
			req:     model.TransferRequest{Symbol: "SOL", Destination: "garbage", Amount: -1},
			kind:    model.KindWalletNotConnected,
			title:   "Wallet not connected",
			amounts: map[string]float64{"SOL": 1},
		},
		{
			name:      "destination checked before amount and balance",
			connected: true,
			req:       model.TransferRequest{Symbol: "SOL", Destination: "not-a-key", Amount: 100},
			kind:      model.KindInvalidDestination,
			title:     "Invalid recipient",
			amounts:   map[string]float64{"SOL": 1},
		},
		{
			name:      "zero amount",
			connected: true,
			req:       model.TransferRequest{Symbol: "SOL", Destination: valid, Amount: 0},
			kind:      model.KindInvalidAmount,
			title:     "Invalid amount",
			amounts:   map[string]float64{"SOL": 1},
		},
		{
			name:      "negative amount",
			connected: true,
			req:       model.TransferRequest{Symbol: "GOLD", Destination: valid, Amount: -2},
			kind:      model.KindInvalidAmount,
			title:     "Invalid amount",
		},
		{
			name:      "below smallest unit",
			connected: true,
			req:       model.TransferRequest{Symbol: "GOLD", Destination: valid, Amount: 0.0000001},
			kind:      model.KindInvalidAmount,
			title:     "Invalid amount",
			amounts:   map[string]float64{"GOLD": 10},
		},
		{
			name:      "asset not on allow-list",
			connected: true,
			req:       model.TransferRequest{Symbol: "BONK", Destination: valid, Amount: 1},
			kind:      model.KindUnsupportedAsset,
			title:     "Unsupported token",
		},
		{
			name:      "insufficient token balance",
			connected: true,
			req:       model.TransferRequest{Symbol: "GOLD", Destination: valid, Amount: 11},
			kind:      model.KindInsufficientBalance,
			title:     "Insufficient balance",
			amounts:   map[string]float64{"GOLD": 10},
		},
		{
			name:      "native amount leaves no fee",
			connected: true,
			req:       model.TransferRequest{Symbol: "SOL", Destination: valid, Amount: 1},
			kind:      model.KindInsufficientBalance,
			title:     "Insufficient balance",
			amounts:   map[string]float64{"SOL": 1},
		},
		{
			name:      "balance not loaded",
			connected: true,
			req:       model.TransferRequest{Symbol: "SOL", Destination: valid, Amount: 0.1},
			kind:      model.KindInsufficientBalance,
			title:     "Insufficient balance",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// no ledger expectations: any call fails the test
			f := newFixture(t, tt.connected, tt.amounts)

			rec, err := f.exec.Transfer(context.Background(), tt.req)
			assert.Nil(t, rec)
			require.Error(t, err)
			assert.Equal(t, tt.kind, model.KindOf(err))
			assert.Empty(t, f.store.List())

			notes := f.feed.List()
			require.Len(t, notes, 1)
			assert.Equal(t, tt.title, notes[0].Title)
			assert.Equal(t, model.NotificationDestructive, notes[0].Variant)
		})
	}
}

func TestTransfer_NativeKeepsFeeBuffer(t *testing.T) {
	f := newFixture(t, true, map[string]float64{"SOL": 1})

	_, err := f.exec.Transfer(context.Background(), model.TransferRequest{
		Symbol:      "SOL",
		Destination: solana.NewWallet().PublicKey().String(),
		Amount:      1,
	})
	var we *model.WalletError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, model.KindInsufficientBalance, we.Kind)
	assert.Equal(t, "you only have 1.000000000 SOL, 0.000005000 SOL is kept for the fee", we.Reason)
}

func TestTransfer_NativeSuccess(t *testing.T) {
	f := newFixture(t, true, map[string]float64{"SOL": 2})
	dest := solana.NewWallet().PublicKey()

	f.expectSubmit(t, func(tx *solana.Transaction) {
		require.Len(t, tx.Message.Instructions, 1)
		ids, err := tx.GetProgramIDs()
		require.NoError(t, err)
		assert.Equal(t, solana.SystemProgramID, ids[0])
		assert.Equal(t, f.signer.PublicKey(), tx.Message.AccountKeys[0])
		assert.Equal(t, solana.Hash{7}, tx.Message.RecentBlockhash)
	}, nil)

	rec, err := f.exec.Transfer(context.Background(), model.TransferRequest{
		Symbol:      "sol",
		Destination: dest.String(),
		Amount:      1,
	})
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, model.TransferStatusConfirmed, rec.Status)
	assert.NotEmpty(t, rec.Signature)
	assert.Equal(t, "SOL", rec.FromSymbol)
	assert.Equal(t, dest.String(), rec.Destination)

	// optimistic debit then a delayed authoritative refresh
	assert.Equal(t, 1.0, f.book.Query("SOL").Amount)
	assert.Equal(t, []time.Duration{defaultSettleDelay}, f.book.refreshes)

	stored, ok := f.store.Get(rec.ID)
	require.True(t, ok)
	assert.Equal(t, *rec, stored)

	notes := f.feed.List()
	require.Len(t, notes, 1)
	assert.Equal(t, "Transfer successful!", notes[0].Title)
	assert.Contains(t, notes[0].Description, "?cluster=devnet")
}

func TestTransfer_TokenCreatesRecipientAccount(t *testing.T) {
	f := newFixture(t, true, map[string]float64{"GOLD": 10})
	gold, _ := f.registry.Lookup("GOLD")
	dest := solana.NewWallet().PublicKey()

	source, _, err := solana.FindAssociatedTokenAddress(f.signer.PublicKey(), gold.Mint)
	require.NoError(t, err)
	recipient, _, err := solana.FindAssociatedTokenAddress(dest, gold.Mint)
	require.NoError(t, err)

	f.ledger.EXPECT().GetAccountInfo(gomock.Any(), source).Return(&client.AccountInfo{Owner: solana.TokenProgramID}, nil)
	f.ledger.EXPECT().GetAccountInfo(gomock.Any(), recipient).Return(nil, nil)
	f.expectSubmit(t, func(tx *solana.Transaction) {
		require.Len(t, tx.Message.Instructions, 2)
		ids, err := tx.GetProgramIDs()
		require.NoError(t, err)
		assert.Equal(t, solana.SPLAssociatedTokenAccountProgramID, ids[0])
		assert.Equal(t, solana.TokenProgramID, ids[1])
		assert.Contains(t, tx.Message.AccountKeys, recipient)
	}, nil)

	rec, err := f.exec.Transfer(context.Background(), model.TransferRequest{Symbol: "GOLD", Destination: dest.String(), Amount: 2.5})
	require.NoError(t, err)
	assert.Equal(t, model.TransferStatusConfirmed, rec.Status)
	assert.Equal(t, 7.5, f.book.Query("GOLD").Amount)
}

func TestTransfer_TokenExistingRecipientAccount(t *testing.T) {
	f := newFixture(t, true, map[string]float64{"GOLD": 10})

	f.ledger.EXPECT().GetAccountInfo(gomock.Any(), gomock.Any()).Return(&client.AccountInfo{Owner: solana.TokenProgramID}, nil).Times(2)
	f.expectSubmit(t, func(tx *solana.Transaction) {
		require.Len(t, tx.Message.Instructions, 1)
	}, nil)

	_, err := f.exec.Transfer(context.Background(), model.TransferRequest{
		Symbol: "GOLD", Destination: solana.NewWallet().PublicKey().String(), Amount: 1,
	})
	require.NoError(t, err)
}

func TestTransfer_SenderHasNoAssetAccount(t *testing.T) {
	f := newFixture(t, true, map[string]float64{"GOLD": 10})
	f.ledger.EXPECT().GetAccountInfo(gomock.Any(), gomock.Any()).Return(nil, nil)

	rec, err := f.exec.Transfer(context.Background(), model.TransferRequest{
		Symbol: "GOLD", Destination: solana.NewWallet().PublicKey().String(), Amount: 1,
	})
	assert.ErrorIs(t, err, model.ErrSenderHasNoAssetAccount)
	require.NotNil(t, rec)
	assert.Equal(t, model.TransferStatusFailed, rec.Status)
	assert.Equal(t, string(model.KindSenderHasNoAssetAccount), rec.ErrorCode)
	assert.Len(t, f.feed.List(), 1)
	assert.Empty(t, f.book.refreshes)
}

func TestTransfer_RemoteFailures(t *testing.T) {
	tests := []struct {
		name       string
		confirmErr error
		kind       model.ErrorKind
		message    string
	}{
		{
			name:       "ledger rejection keeps reason",
			confirmErr: &client.RejectionError{Reason: "custom program error: 0x1"},
			kind:       model.KindLedgerRejected,
			message:    "custom program error: 0x1",
		},
		{
			name:       "confirmation timeout",
			confirmErr: client.ErrConfirmTimeout,
			kind:       model.KindNetworkError,
		},
		{
			name:       "connectivity",
			confirmErr: errors.New("connection reset by peer"),
			kind:       model.KindNetworkError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, true, map[string]float64{"SOL": 5})
			f.expectSubmit(t, nil, tt.confirmErr)

			rec, err := f.exec.Transfer(context.Background(), model.TransferRequest{
				Symbol: "SOL", Destination: solana.NewWallet().PublicKey().String(), Amount: 1,
			})
			require.Error(t, err)
			assert.Equal(t, tt.kind, model.KindOf(err))
			require.NotNil(t, rec)
			assert.Equal(t, model.TransferStatusFailed, rec.Status)
			assert.NotEmpty(t, rec.Signature)

			notes := f.feed.List()
			require.Len(t, notes, 1)
			assert.Equal(t, "Transfer failed", notes[0].Title)
			if tt.message != "" {
				assert.Equal(t, tt.message, notes[0].Description)
				assert.Equal(t, tt.message, rec.Error)
			}

			// nothing optimistic on failure
			assert.Equal(t, 5.0, f.book.Query("SOL").Amount)
		})
	}
}

func TestTransfer_SendRejected(t *testing.T) {
	f := newFixture(t, true, map[string]float64{"SOL": 5})
	f.ledger.EXPECT().GetLatestBlockhash(gomock.Any()).Return(&client.Blockhash{Hash: solana.Hash{1}, LastValidBlockHeight: 9}, nil)
	f.ledger.EXPECT().SendRawTransaction(gomock.Any(), gomock.Any()).
		Return(solana.Signature{}, &client.RejectionError{Reason: "Blockhash not found"})

	rec, err := f.exec.Transfer(context.Background(), model.TransferRequest{
		Symbol: "SOL", Destination: solana.NewWallet().PublicKey().String(), Amount: 1,
	})
	assert.ErrorIs(t, err, model.ErrLedgerRejected)
	assert.Empty(t, rec.Signature)
	assert.Equal(t, "Blockhash not found", rec.Error)
}

func TestLedgerError(t *testing.T) {
	we := LedgerError(&client.RejectionError{Reason: "x"})
	assert.Equal(t, model.KindLedgerRejected, we.Kind)
	assert.Equal(t, "x", we.Reason)

	assert.Equal(t, model.KindNetworkError, LedgerError(errors.New("eof")).Kind)

	same := model.ErrSwapFailed
	assert.Same(t, same, LedgerError(same))
}

func TestExplorerURL(t *testing.T) {
	sig := solana.Signature{1}
	assert.NotContains(t, ExplorerURL(sig, "mainnet-beta"), "cluster")
	assert.Contains(t, ExplorerURL(sig, "testnet"), "?cluster=testnet")
}
