package scheduler

import (
	"sync"
	"time"

	"github.com/AlexZinkM/goldium-wallet/internal/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Poller runs periodic jobs on a shared cron instance.
type Poller struct {
	cron *cron.Cron
}

// Handle cancels one registered job
type Handle struct {
	once   sync.Once
	poller *Poller
	id     cron.EntryID
}

// zapCronLogger adapts the zap logger to cron.Logger
type zapCronLogger struct {
	l *zap.SugaredLogger
}

func (z zapCronLogger) Info(msg string, keysAndValues ...interface{}) {
	z.l.Debugw(msg, keysAndValues...)
}

func (z zapCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	z.l.Errorw(msg, append(keysAndValues, "error", err)...)
}

// NewPoller creates a poller. Panics in jobs are recovered, and a job that is
// still running when its next tick fires is skipped.
func NewPoller() *Poller {
	l := zapCronLogger{l: logger.Log.Named("scheduler").Sugar()}
	return &Poller{
		cron: cron.New(
			cron.WithLogger(l),
			cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
		),
	}
}

// Start starts the poller in its own goroutine
func (p *Poller) Start() {
	p.cron.Start()
	logger.Info("scheduler started")
}

// Stop stops the poller and waits for running jobs to finish
func (p *Poller) Stop() {
	<-p.cron.Stop().Done()
	logger.Info("scheduler stopped")
}

// Every runs fn each interval until the returned handle is stopped.
// Intervals below one second are rounded up to one second.
func (p *Poller) Every(interval time.Duration, fn func()) *Handle {
	id := p.cron.Schedule(cron.Every(interval), cron.FuncJob(fn))
	return &Handle{poller: p, id: id}
}

// Stop removes the job. Safe to call more than once.
func (h *Handle) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() {
		h.poller.cron.Remove(h.id)
	})
}
