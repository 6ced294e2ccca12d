package history

import "github.com/AlexZinkM/goldium-wallet/internal/model"

// Recorder persists transfer records
type Recorder interface {
	Save(rec *model.TransferRecord) error
	// Load returns up to limit records, newest first. limit <= 0 means all.
	Load(limit int) ([]model.TransferRecord, error)
	Close() error
}

// NoopRecorder is used when no database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) Save(_ *model.TransferRecord) error { return nil }
func (n *NoopRecorder) Load(_ int) ([]model.TransferRecord, error) { return nil, nil }
func (n *NoopRecorder) Close() error { return nil }
