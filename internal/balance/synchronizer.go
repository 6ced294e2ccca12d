package balance

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/AlexZinkM/goldium-wallet/internal/assets"
	"github.com/AlexZinkM/goldium-wallet/internal/client"
	"github.com/AlexZinkM/goldium-wallet/internal/common"
	"github.com/AlexZinkM/goldium-wallet/internal/logger"
	"github.com/AlexZinkM/goldium-wallet/internal/model"
	"github.com/AlexZinkM/goldium-wallet/internal/notify"
	"github.com/AlexZinkM/goldium-wallet/internal/scheduler"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

const (
	defaultPollInterval   = 10 * time.Second
	defaultRefreshTimeout = 15 * time.Second
)

// Options tune the synchronizer
type Options struct {
	PollInterval   time.Duration
	RefreshTimeout time.Duration
}

// Synchronizer keeps the balances of the connected account.
//
// Two tiers are kept per asset: the confirmed value of the last successful
// refresh and the sum of optimistic debits applied since. The displayed amount
// is max(0, confirmed - debits). A successful refresh drops the debit tier.
//
// Every connect and disconnect starts a new epoch. Results of a refresh, poll
// or delayed refresh started in an older epoch are discarded on arrival.
type Synchronizer struct {
	ledger   client.Ledger
	assets   *assets.Registry
	poller   *scheduler.Poller
	notifier notify.Notifier
	opts     Options

	mu        sync.Mutex
	owner     solana.PublicKey
	connected bool
	epoch     uint64
	confirmed map[string]float64
	debits    map[string]float64
	loaded    bool
	inflight  int
	lastErr   string
	updatedAt time.Time
	poll      *scheduler.Handle
	timers    map[*time.Timer]struct{}
	session   context.Context
	cancel    context.CancelFunc
}

// New creates a synchronizer. poller must be started by the caller.
func New(ledger client.Ledger, registry *assets.Registry, poller *scheduler.Poller, notifier notify.Notifier, opts Options) *Synchronizer {
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.RefreshTimeout <= 0 {
		opts.RefreshTimeout = defaultRefreshTimeout
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Synchronizer{
		ledger:    ledger,
		assets:    registry,
		poller:    poller,
		notifier:  notifier,
		opts:      opts,
		confirmed: make(map[string]float64),
		debits:    make(map[string]float64),
		timers:    make(map[*time.Timer]struct{}),
	}
}

// Connect makes owner the active account, starts polling and runs the first
// refresh before returning. Connecting the already active account is a no-op.
func (s *Synchronizer) Connect(ctx context.Context, owner solana.PublicKey) model.BalanceSnapshot {
	s.mu.Lock()
	if s.connected && s.owner.Equals(owner) {
		s.mu.Unlock()
		return s.Snapshot()
	}

	s.resetLocked()
	s.owner = owner
	s.connected = true
	s.session, s.cancel = context.WithCancel(context.Background())
	epoch := s.epoch
	s.poll = s.poller.Every(s.opts.PollInterval, func() {
		s.refreshInEpoch(epoch)
	})
	s.mu.Unlock()

	logger.Info("balance sync connected", zap.String("owner", owner.String()))
	return s.Refresh(ctx)
}

// Disconnect stops polling and delayed refreshes and clears all balances.
// Results still in flight are dropped. Safe to call more than once.
func (s *Synchronizer) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return
	}
	owner := s.owner
	s.resetLocked()
	logger.Info("balance sync disconnected", zap.String("owner", owner.String()))
}

// resetLocked clears the session and advances the epoch. s.mu must be held.
func (s *Synchronizer) resetLocked() {
	s.epoch++
	s.poll.Stop()
	s.poll = nil
	for t := range s.timers {
		t.Stop()
	}
	s.timers = make(map[*time.Timer]struct{})
	if s.cancel != nil {
		s.cancel()
	}
	s.session, s.cancel = nil, nil

	s.owner = solana.PublicKey{}
	s.connected = false
	s.confirmed = make(map[string]float64)
	s.debits = make(map[string]float64)
	s.loaded = false
	s.inflight = 0
	s.lastErr = ""
	s.updatedAt = time.Time{}
}

// Owner returns the active account and whether one is connected
func (s *Synchronizer) Owner() (solana.PublicKey, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.owner, s.connected
}

// Refresh fetches every allow-listed balance of the active account.
// It never returns an error: a failed refresh shows zero for every asset,
// records the error in the snapshot and sends one notification.
func (s *Synchronizer) Refresh(ctx context.Context) model.BalanceSnapshot {
	s.mu.Lock()
	if !s.connected {
		s.mu.Unlock()
		return s.Snapshot()
	}
	epoch := s.epoch
	owner := s.owner
	session := s.session
	s.inflight++
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.opts.RefreshTimeout)
	defer cancel()
	stop := context.AfterFunc(session, cancel)
	defer stop()

	amounts, err := s.fetch(ctx, owner)

	s.mu.Lock()
	if epoch != s.epoch {
		s.mu.Unlock()
		logger.Debug("discarding balance refresh from previous session", zap.String("owner", owner.String()))
		return s.Snapshot()
	}
	s.inflight--
	now := time.Now()
	s.updatedAt = now
	s.debits = make(map[string]float64)
	if err != nil {
		for _, a := range s.assets.All() {
			s.confirmed[a.Symbol] = 0
		}
		s.lastErr = err.Error()
	} else {
		s.confirmed = amounts
		s.loaded = true
		s.lastErr = ""
	}
	s.mu.Unlock()

	if err != nil {
		logger.Error("failed to refresh balances", zap.String("owner", owner.String()), zap.Error(err))
		s.notifier.Notify(notify.Failure("Error fetching balances", model.NewWalletError(model.KindNetworkError, "", err)))
	}
	return s.Snapshot()
}

// fetch reads the native balance first, then each token through its
// associated token account. A token account that does not exist is a zero.
func (s *Synchronizer) fetch(ctx context.Context, owner solana.PublicKey) (map[string]float64, error) {
	amounts := make(map[string]float64, len(s.assets.All()))

	native := s.assets.Native()
	lamports, err := s.ledger.GetBalance(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s balance: %w", native.Symbol, err)
	}
	amounts[native.Symbol] = common.FromBaseUnits(lamports, native.Decimals)

	for _, asset := range s.assets.Tokens() {
		ata, _, err := solana.FindAssociatedTokenAddress(owner, asset.Mint)
		if err != nil {
			return nil, fmt.Errorf("failed to derive %s token account: %w", asset.Symbol, err)
		}

		ta, err := s.ledger.GetTokenAccountBalance(ctx, ata)
		if errors.Is(err, client.ErrAccountNotFound) {
			amounts[asset.Symbol] = 0
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get %s balance: %w", asset.Symbol, err)
		}
		amounts[asset.Symbol] = common.FromBaseUnits(ta.Amount, ta.Decimals)
	}
	return amounts, nil
}

func (s *Synchronizer) refreshInEpoch(epoch uint64) {
	s.mu.Lock()
	current := s.epoch == epoch && s.connected
	s.mu.Unlock()
	if !current {
		return
	}
	s.Refresh(context.Background())
}

// ScheduleRefresh runs one refresh after delay unless the account disconnects first
func (s *Synchronizer) ScheduleRefresh(delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return
	}
	epoch := s.epoch
	var t *time.Timer
	t = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, t)
		s.mu.Unlock()
		s.refreshInEpoch(epoch)
	})
	s.timers[t] = struct{}{}
}

// Query returns the displayed balance of symbol. Loaded is false until a
// refresh has succeeded for the active account.
func (s *Synchronizer) Query(symbol string) model.AssetBalance {
	asset, ok := s.assets.Lookup(symbol)
	if !ok {
		return model.AssetBalance{Symbol: symbol}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balanceLocked(asset.Symbol)
}

func (s *Synchronizer) balanceLocked(symbol string) model.AssetBalance {
	if !s.connected || !s.loaded {
		return model.AssetBalance{Symbol: symbol}
	}
	debit := s.debits[symbol]
	return model.AssetBalance{
		Symbol:       symbol,
		Amount:       common.SubtractFloor(s.confirmed[symbol], debit),
		Loaded:       true,
		PendingDebit: debit,
	}
}

// ApplyOptimisticDebit lowers the displayed balance of symbol by amount until
// the next successful refresh. Ignored while balances are not loaded.
func (s *Synchronizer) ApplyOptimisticDebit(symbol string, amount float64) {
	asset, ok := s.assets.Lookup(symbol)
	if !ok || amount <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected || !s.loaded {
		return
	}
	s.debits[asset.Symbol] += amount
	logger.Debug("optimistic debit applied",
		zap.String("symbol", asset.Symbol),
		zap.Float64("amount", amount),
		zap.Float64("pending", s.debits[asset.Symbol]),
	)
}

// Snapshot returns all balances in allow-list order
func (s *Synchronizer) Snapshot() model.BalanceSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := model.BalanceSnapshot{
		Network:   s.assets.Network(),
		Connected: s.connected,
		Loading:   s.inflight > 0,
		Error:     s.lastErr,
		Balances:  []model.AssetBalance{},
	}
	if !s.connected {
		return snap
	}
	snap.Address = s.owner.String()
	if !s.updatedAt.IsZero() {
		t := s.updatedAt
		snap.UpdatedAt = &t
	}
	for _, a := range s.assets.All() {
		snap.Balances = append(snap.Balances, s.balanceLocked(a.Symbol))
	}
	return snap
}
