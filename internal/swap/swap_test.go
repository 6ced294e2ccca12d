package swap

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
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
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	logger.InitLogger("test", "debug")
}

func TestPriceImpactBucket(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{0, "<0.01%"},
		{0.009, "<0.01%"},
		{0.01, "<0.1%"},
		{0.099, "<0.1%"},
		{0.1, "~0.10%"},
		{0.456, "~0.46%"},
		{1, "1.00%"},
		{12.345, "12.35%"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PriceImpactBucket(tt.pct), "pct=%v", tt.pct)
	}
}

func TestRecommendedSlippageBps(t *testing.T) {
	tests := []struct {
		pct  float64
		want uint16
	}{
		{0, 50},
		{1, 50},
		{1.01, 150},
		{3, 150},
		{3.5, 300},
		{5, 300},
		{5.01, 500},
		{40, 500},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RecommendedSlippageBps(tt.pct), "pct=%v", tt.pct)
	}
}

func TestEstimateImpact(t *testing.T) {
	assert.InDelta(t, 0.5025, estimateImpact(50), 0.0001)
	assert.Equal(t, 100.0, estimateImpact(10000))
}

type walletFunc func() client.Signer

func (f walletFunc) Current() client.Signer { return f() }

type fakeBook struct {
	mu        sync.Mutex
	amounts   map[string]float64
	refreshes int
}

func (b *fakeBook) Query(symbol string) model.AssetBalance {
	b.mu.Lock()
	defer b.mu.Unlock()
	amt, ok := b.amounts[symbol]
	return model.AssetBalance{Symbol: symbol, Amount: amt, Loaded: ok}
}

func (b *fakeBook) ApplyOptimisticDebit(string, float64) {}

func (b *fakeBook) ScheduleRefresh(time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refreshes++
}

type fixture struct {
	agg    *mocks.MockAggregator
	ledger *mocks.MockLedger
	signer *crypto.LocalSigner
	book   *fakeBook
	store  *history.Store
	feed   *notify.Feed
	client *Client
	usdc   model.AssetDescriptor
}

func newFixture(t *testing.T, connected bool) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	registry, err := assets.Default("mainnet-beta")
	require.NoError(t, err)
	signer, err := crypto.NewLocalSigner(solana.NewWallet().PrivateKey)
	require.NoError(t, err)

	f := &fixture{
		agg:    mocks.NewMockAggregator(ctrl),
		ledger: mocks.NewMockLedger(ctrl),
		signer: signer,
		book:   &fakeBook{amounts: map[string]float64{"SOL": 3, "USDC": 0}},
		store:  history.NewStore(nil),
		feed:   notify.NewFeed(0),
	}
	f.usdc, _ = registry.Lookup("USDC")
	wallets := walletFunc(func() client.Signer {
		if !connected {
			return nil
		}
		return f.signer
	})
	f.client = New(f.agg, f.ledger, wallets, f.book, f.store, f.feed, registry, Options{ConfirmTimeout: time.Second})
	return f
}

func sampleQuote(slippage uint16, impact float64, reported bool) *model.Quote {
	return &model.Quote{
		InputMint:            solana.SolMint.String(),
		OutputMint:           "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		InAmount:             1_500_000_000,
		OutAmount:            225_120_000,
		OtherAmountThreshold: 224_000_000,
		SlippageBps:          slippage,
		PriceImpactPct:       impact,
		PriceImpactReported:  reported,
		Raw:                  json.RawMessage(`{"inAmount":"1500000000"}`),
	}
}

func TestGetQuote_ConvertsUnits(t *testing.T) {
	f := newFixture(t, true)
	f.agg.EXPECT().Quote(gomock.Any(), client.QuoteParams{
		InputMint:   solana.SolMint,
		OutputMint:  f.usdc.Mint,
		Amount:      1_500_000_000,
		SlippageBps: 50,
	}).Return(sampleQuote(50, 0.2, true), nil)

	res, err := f.client.GetQuote(context.Background(), "sol", "usdc", 1.5, 0)
	require.NoError(t, err)
	assert.Equal(t, "SOL", res.InputSymbol)
	assert.Equal(t, "USDC", res.OutputSymbol)
	assert.Equal(t, 1.5, res.InputAmount)
	assert.Equal(t, 225.12, res.OutputAmount)
	assert.Equal(t, 224.0, res.MinimumReceived)
	assert.Equal(t, "~0.20%", res.ImpactBucket)
	assert.Equal(t, uint16(50), res.SlippageBps)
	assert.Equal(t, uint16(50), res.RecommendedSlippageBps)
}

func TestGetQuote_ImpactFallback(t *testing.T) {
	f := newFixture(t, true)
	f.agg.EXPECT().Quote(gomock.Any(), gomock.Any()).Return(sampleQuote(100, 0, false), nil)

	res, err := f.client.GetQuote(context.Background(), "SOL", "USDC", 1.5, 100)
	require.NoError(t, err)
	assert.Equal(t, "1.01%", res.ImpactBucket)
	assert.Equal(t, uint16(50), res.RecommendedSlippageBps)
}

func TestGetQuote_AutoSlippageOverwritesSetting(t *testing.T) {
	f := newFixture(t, true)
	require.NoError(t, f.client.SetSlippage(75))
	f.client.SetAutoSlippage(true)
	f.agg.EXPECT().Quote(gomock.Any(), gomock.Any()).Return(sampleQuote(75, 3.2, true), nil)

	res, err := f.client.GetQuote(context.Background(), "SOL", "USDC", 1.5, 0)
	require.NoError(t, err)
	assert.Equal(t, uint16(300), res.RecommendedSlippageBps)
	assert.Equal(t, model.SwapSettings{SlippageBps: 300, AutoSlippage: true}, f.client.Settings())
}

func TestGetQuote_ManualSlippageUntouched(t *testing.T) {
	f := newFixture(t, true)
	f.agg.EXPECT().Quote(gomock.Any(), gomock.Any()).Return(sampleQuote(50, 6, true), nil)

	_, err := f.client.GetQuote(context.Background(), "SOL", "USDC", 1.5, 0)
	require.NoError(t, err)
	assert.Equal(t, uint16(50), f.client.Settings().SlippageBps)
}

func TestGetQuote_Errors(t *testing.T) {
	tests := []struct {
		name   string
		from   string
		to     string
		amount float64
		kind   model.ErrorKind
	}{
		{"same asset", "SOL", "sol", 1, model.KindInvalidAmount},
		{"zero amount", "SOL", "USDC", 0, model.KindInvalidAmount},
		{"negative amount", "SOL", "USDC", -1, model.KindInvalidAmount},
		{"dust", "USDC", "SOL", 0.0000001, model.KindInvalidAmount},
		{"unknown input", "DOGE", "USDC", 1, model.KindUnsupportedAsset},
		{"unknown output", "SOL", "DOGE", 1, model.KindUnsupportedAsset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, true)
			_, err := f.client.GetQuote(context.Background(), tt.from, tt.to, tt.amount, 0)
			assert.Equal(t, tt.kind, model.KindOf(err))
		})
	}
}

func TestGetQuote_AggregatorFailure(t *testing.T) {
	f := newFixture(t, true)
	f.agg.EXPECT().Quote(gomock.Any(), gomock.Any()).Return(nil, &client.HTTPError{StatusCode: 503})

	_, err := f.client.GetQuote(context.Background(), "SOL", "USDC", 1, 0)
	assert.ErrorIs(t, err, model.ErrQuoteUnavailable)
}

func TestSetSlippage_Bounds(t *testing.T) {
	f := newFixture(t, true)
	assert.Error(t, f.client.SetSlippage(0))
	assert.Error(t, f.client.SetSlippage(10001))
	assert.NoError(t, f.client.SetSlippage(10000))
}

// unsignedSwapTx builds what the aggregator returns: an unsigned transaction paid by owner
func unsignedSwapTx(t *testing.T, owner solana.PublicKey) string {
	t.Helper()
	tx, err := solana.NewTransaction(
		[]solana.Instruction{system.NewTransferInstruction(1, owner, solana.NewWallet().PublicKey()).Build()},
		solana.Hash{3},
		solana.TransactionPayer(owner),
	)
	require.NoError(t, err)
	b64, err := tx.ToBase64()
	require.NoError(t, err)
	return b64
}

func quoteResult(q *model.Quote) *model.QuoteResult {
	return &model.QuoteResult{
		Quote:        q,
		InputSymbol:  "SOL",
		OutputSymbol: "USDC",
		InputAmount:  1.5,
		OutputAmount: 225.12,
		SlippageBps:  q.SlippageBps,
	}
}

func TestExecuteSwap_Success(t *testing.T) {
	f := newFixture(t, true)
	q := sampleQuote(50, 0.2, true)

	f.agg.EXPECT().SwapTransaction(gomock.Any(), client.SwapParams{
		Quote:                    q,
		UserPublicKey:            f.signer.PublicKey(),
		PriorityFeeMicroLamports: defaultPriorityFee,
	}).Return(&client.SwapTransaction{
		Transaction:          unsignedSwapTx(t, f.signer.PublicKey()),
		LastValidBlockHeight: 321,
	}, nil)
	f.ledger.EXPECT().SendRawTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, raw []byte) (solana.Signature, error) {
			tx, err := solana.TransactionFromBytes(raw)
			require.NoError(t, err)
			require.NoError(t, tx.VerifySignatures())
			return tx.Signatures[0], nil
		})
	f.ledger.EXPECT().ConfirmTransaction(gomock.Any(), gomock.Any(), uint64(321)).Return(nil)

	rec, err := f.client.ExecuteSwap(context.Background(), quoteResult(q), 0)
	require.NoError(t, err)
	assert.Equal(t, model.TransferKindSwap, rec.Kind)
	assert.Equal(t, model.TransferStatusConfirmed, rec.Status)
	assert.Equal(t, "SOL", rec.FromSymbol)
	assert.Equal(t, "USDC", rec.ToSymbol)
	assert.Equal(t, 1.5, rec.FromAmount)
	assert.Equal(t, 225.12, rec.ToAmount)
	assert.NotEmpty(t, rec.Signature)
	assert.Equal(t, 1, f.book.refreshes)

	notes := f.feed.List()
	require.Len(t, notes, 1)
	assert.Equal(t, "Swap Successful", notes[0].Title)
}

func TestExecuteSwap_Failures(t *testing.T) {
	tests := []struct {
		name       string
		connected  bool
		setupMocks func(f *fixture)
		kind       model.ErrorKind
		hasRecord  bool
	}{
		{
			name: "wallet not connected",
			kind: model.KindWalletNotConnected,
		},
		{
			name:      "aggregator refuses",
			connected: true,
			setupMocks: func(f *fixture) {
				f.agg.EXPECT().SwapTransaction(gomock.Any(), gomock.Any()).Return(nil, errors.New("500"))
			},
			kind:      model.KindSwapFailed,
			hasRecord: true,
		},
		{
			name:      "undecodable transaction",
			connected: true,
			setupMocks: func(f *fixture) {
				f.agg.EXPECT().SwapTransaction(gomock.Any(), gomock.Any()).Return(&client.SwapTransaction{Transaction: "!!not base64"}, nil)
			},
			kind:      model.KindSwapFailed,
			hasRecord: true,
		},
		{
			name:      "ledger rejects",
			connected: true,
			setupMocks: func(f *fixture) {
				f.agg.EXPECT().SwapTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, p client.SwapParams) (*client.SwapTransaction, error) {
						return &client.SwapTransaction{Transaction: unsignedSwapTx(t, p.UserPublicKey)}, nil
					})
				f.ledger.EXPECT().SendRawTransaction(gomock.Any(), gomock.Any()).
					Return(solana.Signature{}, &client.RejectionError{Reason: "slippage tolerance exceeded"})
			},
			kind:      model.KindLedgerRejected,
			hasRecord: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.connected)
			if tt.setupMocks != nil {
				tt.setupMocks(f)
			}

			rec, err := f.client.ExecuteSwap(context.Background(), quoteResult(sampleQuote(50, 0.2, true)), 0)
			assert.Equal(t, tt.kind, model.KindOf(err))
			if tt.hasRecord {
				require.NotNil(t, rec)
				assert.Equal(t, model.TransferStatusFailed, rec.Status)
				assert.Equal(t, string(tt.kind), rec.ErrorCode)
			} else {
				assert.Nil(t, rec)
			}
			assert.Equal(t, 1, f.feed.Len())
			assert.Equal(t, "Swap Failed", f.feed.List()[0].Title)
			assert.Zero(t, f.book.refreshes)
		})
	}
}

func TestExecuteSwap_InsufficientBalance(t *testing.T) {
	f := newFixture(t, true)
	q := quoteResult(sampleQuote(50, 0.2, true))
	q.Quote.InAmount = 4_000_000_000
	q.InputAmount = 4

	_, err := f.client.ExecuteSwap(context.Background(), q, 0)
	assert.ErrorIs(t, err, model.ErrInsufficientBalance)
	assert.Empty(t, f.store.List())
}

func TestExecuteSwap_NativeKeepsFeeBuffer(t *testing.T) {
	f := newFixture(t, true)
	f.book.amounts["SOL"] = 1.5

	_, err := f.client.ExecuteSwap(context.Background(), quoteResult(sampleQuote(50, 0.2, true)), 0)
	require.ErrorIs(t, err, model.ErrInsufficientBalance)
	var we *model.WalletError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, "you only have 1.500000000 SOL, 0.000005000 SOL is kept for the fee", we.Reason)
	assert.Empty(t, f.store.List())
}

func TestExecuteSwap_ComparesSmallestUnits(t *testing.T) {
	f := newFixture(t, true)
	f.book.amounts["USDC"] = 0.3

	q := &model.Quote{
		InputMint:   f.usdc.Mint.String(),
		OutputMint:  solana.SolMint.String(),
		InAmount:    300_000,
		OutAmount:   2_000_000,
		SlippageBps: 50,
		Raw:         json.RawMessage(`{}`),
	}
	// 0.1+0.2 is a hair above 0.3 as a float
	res := &model.QuoteResult{Quote: q, InputSymbol: "USDC", OutputSymbol: "SOL", InputAmount: 0.1 + 0.2, OutputAmount: 0.002, SlippageBps: 50}

	f.agg.EXPECT().SwapTransaction(gomock.Any(), gomock.Any()).Return(nil, errors.New("stop"))
	_, err := f.client.ExecuteSwap(context.Background(), res, 0)
	assert.ErrorIs(t, err, model.ErrSwapFailed)
}

func TestExecuteSwap_RejectsMismatchedQuote(t *testing.T) {
	f := newFixture(t, true)

	mislabelled := quoteResult(sampleQuote(50, 0.2, true))
	mislabelled.OutputSymbol = "BONK"
	_, err := f.client.ExecuteSwap(context.Background(), mislabelled, 0)
	assert.ErrorIs(t, err, model.ErrUnsupportedAsset)

	foreign := quoteResult(sampleQuote(50, 0.2, true))
	foreign.Quote.OutputMint = solana.NewWallet().PublicKey().String()
	_, err = f.client.ExecuteSwap(context.Background(), foreign, 0)
	assert.ErrorIs(t, err, model.ErrUnsupportedAsset)

	assert.Empty(t, f.store.List())
	assert.Equal(t, 2, f.feed.Len())
}

func TestExecuteSwap_RequotesOnSlippageChange(t *testing.T) {
	f := newFixture(t, true)
	f.agg.EXPECT().Quote(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, p client.QuoteParams) (*model.Quote, error) {
			assert.Equal(t, uint16(200), p.SlippageBps)
			return nil, errors.New("no route")
		})

	_, err := f.client.ExecuteSwap(context.Background(), quoteResult(sampleQuote(50, 0.2, true)), 200)
	assert.ErrorIs(t, err, model.ErrQuoteUnavailable)
	assert.Empty(t, f.store.List())
}

func TestDebouncer_CollapsesBursts(t *testing.T) {
	var fetches atomic.Int32
	delivered := make(chan QuoteInput, 4)

	d := NewDebouncer(50*time.Millisecond,
		func(_ context.Context, in QuoteInput) (*model.QuoteResult, error) {
			fetches.Add(1)
			return &model.QuoteResult{InputAmount: in.Amount}, nil
		},
		func(in QuoteInput, res *model.QuoteResult, err error) {
			assert.NoError(t, err)
			assert.Equal(t, in.Amount, res.InputAmount)
			delivered <- in
		},
	)
	defer d.Stop()

	for _, amt := range []float64{1, 1.5, 2} {
		d.Update(QuoteInput{From: "SOL", To: "USDC", Amount: amt})
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case in := <-delivered:
		assert.Equal(t, 2.0, in.Amount)
	case <-time.After(time.Second):
		t.Fatal("no quote delivered")
	}
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), fetches.Load())
	assert.Empty(t, delivered)
}

func TestDebouncer_CancelsInFlightFetch(t *testing.T) {
	started := make(chan struct{}, 1)
	cancelled := make(chan struct{})
	delivered := make(chan QuoteInput, 2)

	d := NewDebouncer(10*time.Millisecond,
		func(ctx context.Context, in QuoteInput) (*model.QuoteResult, error) {
			if in.Amount == 1 {
				started <- struct{}{}
				<-ctx.Done()
				close(cancelled)
				return nil, ctx.Err()
			}
			return &model.QuoteResult{}, nil
		},
		func(in QuoteInput, _ *model.QuoteResult, _ error) { delivered <- in },
	)
	defer d.Stop()

	d.Update(QuoteInput{Amount: 1})
	<-started
	d.Update(QuoteInput{Amount: 2})

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("in-flight fetch was not cancelled")
	}
	select {
	case in := <-delivered:
		assert.Equal(t, 2.0, in.Amount)
	case <-time.After(time.Second):
		t.Fatal("latest quote not delivered")
	}
}

func TestDebouncer_StopDropsPending(t *testing.T) {
	var fetches atomic.Int32
	d := NewDebouncer(20*time.Millisecond,
		func(context.Context, QuoteInput) (*model.QuoteResult, error) {
			fetches.Add(1)
			return nil, nil
		},
		func(QuoteInput, *model.QuoteResult, error) {},
	)
	d.Update(QuoteInput{Amount: 1})
	d.Stop()
	d.Update(QuoteInput{Amount: 2})

	time.Sleep(80 * time.Millisecond)
	assert.Zero(t, fetches.Load())
}

func TestDebouncer_CancelKeepsDebouncerUsable(t *testing.T) {
	delivered := make(chan QuoteInput, 2)
	d := NewDebouncer(20*time.Millisecond,
		func(_ context.Context, in QuoteInput) (*model.QuoteResult, error) {
			return &model.QuoteResult{InputAmount: in.Amount}, nil
		},
		func(in QuoteInput, _ *model.QuoteResult, _ error) { delivered <- in },
	)
	defer d.Stop()

	d.Update(QuoteInput{Amount: 1})
	d.Cancel()
	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, delivered)

	d.Update(QuoteInput{Amount: 3})
	select {
	case in := <-delivered:
		assert.Equal(t, 3.0, in.Amount)
	case <-time.After(time.Second):
		t.Fatal("quote after cancel not delivered")
	}
}
