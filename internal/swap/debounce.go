package swap

import (
	"context"
	"sync"
	"time"

	"github.com/AlexZinkM/goldium-wallet/internal/model"
)

// QuoteInput is the editable state of a swap form
type QuoteInput struct {
	From        string
	To          string
	Amount      float64
	SlippageBps uint16
}

// QuoteFetcher fetches a quote for an input
type QuoteFetcher func(ctx context.Context, in QuoteInput) (*model.QuoteResult, error)

// QuoteDelivery receives the outcome of the latest input only
type QuoteDelivery func(in QuoteInput, res *model.QuoteResult, err error)

// Debouncer fetches a quote once the input has been stable for delay.
// Every Update restarts the wait and cancels a fetch that is still running;
// results for superseded inputs are never delivered.
type Debouncer struct {
	delay   time.Duration
	fetch   QuoteFetcher
	deliver QuoteDelivery

	mu      sync.Mutex
	seq     uint64
	timer   *time.Timer
	cancel  context.CancelFunc
	stopped bool
}

// NewDebouncer creates a debouncer
func NewDebouncer(delay time.Duration, fetch QuoteFetcher, deliver QuoteDelivery) *Debouncer {
	return &Debouncer{delay: delay, fetch: fetch, deliver: deliver}
}

// Update replaces the pending input
func (d *Debouncer) Update(in QuoteInput) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.seq++
	seq := d.seq
	d.abortLocked()
	d.timer = time.AfterFunc(d.delay, func() { d.run(seq, in) })
}

func (d *Debouncer) run(seq uint64, in QuoteInput) {
	d.mu.Lock()
	if d.stopped || seq != d.seq {
		d.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.mu.Unlock()
	defer cancel()

	res, err := d.fetch(ctx, in)

	d.mu.Lock()
	current := !d.stopped && seq == d.seq
	d.mu.Unlock()
	if current {
		d.deliver(in, res, err)
	}
}

// Cancel drops the pending input and any running fetch. Later Updates work as usual.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	d.abortLocked()
}

// Stop cancels pending and running fetches. The debouncer cannot be reused.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.abortLocked()
}

func (d *Debouncer) abortLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
