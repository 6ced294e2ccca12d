package solana

import (
	"errors"
	"sync"
	"time"

	"github.com/AlexZinkM/goldium-wallet/internal/assets"
	"github.com/AlexZinkM/goldium-wallet/internal/balance"
	"github.com/AlexZinkM/goldium-wallet/internal/client"
	"github.com/AlexZinkM/goldium-wallet/internal/history"
	"github.com/AlexZinkM/goldium-wallet/internal/model"
	"github.com/AlexZinkM/goldium-wallet/internal/notify"
	"github.com/AlexZinkM/goldium-wallet/internal/swap"
	"github.com/AlexZinkM/goldium-wallet/internal/transfer"
	"github.com/AlexZinkM/goldium-wallet/internal/wallet"
)

// ErrOperationPending is returned when a transfer or swap is already in flight
var ErrOperationPending = errors.New("another transaction is still pending")

// Deps are the components the service is assembled from
type Deps struct {
	KeystorePath string
	Assets       *assets.Registry
	Aggregator   client.Aggregator
	Session      *wallet.Session
	Balances     *balance.Synchronizer
	Transfers    *transfer.Executor
	Swaps        *swap.Client
	History      *history.Store
	Feed         *notify.Feed
	Notifier     notify.Notifier
}

// Service is the use-case layer behind the HTTP handlers.
type Service struct {
	keystorePath string
	assets       *assets.Registry
	aggregator   client.Aggregator
	session      *wallet.Session
	balances     *balance.Synchronizer
	transfers    *transfer.Executor
	swaps        *swap.Client
	history      *history.Store
	feed         *notify.Feed
	notifier     notify.Notifier

	// one transfer or swap at a time
	pending sync.Mutex

	draftMu   sync.Mutex
	draft     model.QuoteDraft
	debouncer *swap.Debouncer
}

// NewService assembles the service. quoteDebounce is the quiet period of the live quote.
func NewService(d Deps, quoteDebounce time.Duration) *Service {
	if d.Notifier == nil {
		d.Notifier = d.Feed
	}
	s := &Service{
		keystorePath: d.KeystorePath,
		assets:       d.Assets,
		aggregator:   d.Aggregator,
		session:      d.Session,
		balances:     d.Balances,
		transfers:    d.Transfers,
		swaps:        d.Swaps,
		history:      d.History,
		feed:         d.Feed,
		notifier:     d.Notifier,
	}
	s.debouncer = swap.NewDebouncer(quoteDebounce, s.fetchDraft, s.deliverDraft)
	return s
}

// Close stops background work and disconnects the wallet
func (s *Service) Close() {
	s.debouncer.Stop()
	s.session.Disconnect()
}

// Network returns the configured network name
func (s *Service) Network() string {
	return s.assets.Network()
}

// Notifications returns the recent notifications, newest first
func (s *Service) Notifications() []model.Notification {
	if s.feed == nil {
		return []model.Notification{}
	}
	return s.feed.List()
}

// tryBegin takes the pending-operation gate. A refusal is reported under title.
func (s *Service) tryBegin(title string) (func(), error) {
	if !s.pending.TryLock() {
		s.notifier.Notify(refusal(title, "Another transaction is still pending. Please wait for it to finish."))
		return nil, ErrOperationPending
	}
	return s.pending.Unlock, nil
}

// refusal is a failure notification for errors outside the wallet error kinds
func refusal(title, description string) model.Notification {
	n := notify.Failure(title, nil)
	n.Description = description
	return n
}
