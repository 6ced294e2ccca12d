package notify

import (
	"sync"
	"time"

	"github.com/AlexZinkM/goldium-wallet/internal/logger"
	"github.com/AlexZinkM/goldium-wallet/internal/model"

	"go.uber.org/zap"
)

// Notifier receives user-visible outcome messages. Notify must not block.
type Notifier interface {
	Notify(n model.Notification)
}

// Func adapts a plain function to Notifier
type Func func(n model.Notification)

func (f Func) Notify(n model.Notification) { f(n) }

// Multi fans a notification out to every notifier
type Multi []Notifier

func (m Multi) Notify(n model.Notification) {
	for _, nt := range m {
		if nt != nil {
			nt.Notify(n)
		}
	}
}

// Nop drops everything
type Nop struct{}

func (Nop) Notify(model.Notification) {}

// LogNotifier writes notifications to the zap logger
type LogNotifier struct{}

func (LogNotifier) Notify(n model.Notification) {
	fields := []zap.Field{
		zap.String("title", n.Title),
		zap.String("description", n.Description),
	}
	if n.Variant == model.NotificationDestructive {
		logger.Warn("notification", fields...)
		return
	}
	logger.Info("notification", fields...)
}

const defaultFeedSize = 50

// Feed keeps the most recent notifications in memory for the HTTP API.
type Feed struct {
	mu    sync.Mutex
	items []model.Notification
	size  int
}

// NewFeed creates a feed holding at most size entries (50 when size <= 0)
func NewFeed(size int) *Feed {
	if size <= 0 {
		size = defaultFeedSize
	}
	return &Feed{size: size}
}

func (f *Feed) Notify(n model.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	f.items = append(f.items, n)
	if len(f.items) > f.size {
		f.items = f.items[len(f.items)-f.size:]
	}
}

// List returns the notifications newest first
func (f *Feed) List() []model.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Notification, len(f.items))
	for i, n := range f.items {
		out[len(f.items)-1-i] = n
	}
	return out
}

// Len returns the number of stored notifications
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

// Success builds a default-variant notification
func Success(title, description string) model.Notification {
	return model.Notification{
		Title:       title,
		Description: description,
		Variant:     model.NotificationDefault,
		CreatedAt:   time.Now(),
	}
}

// Failure builds a destructive notification whose description is the
// user-facing message for err.
func Failure(title string, err error) model.Notification {
	return model.Notification{
		Title:       title,
		Description: model.UserMessage(err),
		Variant:     model.NotificationDestructive,
		CreatedAt:   time.Now(),
	}
}
