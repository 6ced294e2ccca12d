package history

import (
	"errors"
	"sync"

	"github.com/AlexZinkM/goldium-wallet/internal/logger"
	"github.com/AlexZinkM/goldium-wallet/internal/model"

	"go.uber.org/zap"
)

// ErrRecordNotFound is returned by Update for an unknown id
var ErrRecordNotFound = errors.New("transfer record not found")

// Store owns the transfer history. Records are only mutated through it.
type Store struct {
	mu       sync.RWMutex
	records  []*model.TransferRecord
	byID     map[string]*model.TransferRecord
	recorder Recorder
}

// NewStore creates a store writing through to recorder (may be nil)
func NewStore(recorder Recorder) *Store {
	if recorder == nil {
		recorder = NewNoopRecorder()
	}
	return &Store{
		byID:     make(map[string]*model.TransferRecord),
		recorder: recorder,
	}
}

// Load restores up to limit persisted records into the store
func (s *Store) Load(limit int) error {
	recs, err := s.recorder.Load(limit)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// recorder returns newest first; the store keeps insertion order
	for i := len(recs) - 1; i >= 0; i-- {
		rec := recs[i]
		if _, ok := s.byID[rec.ID]; ok {
			continue
		}
		s.records = append(s.records, &rec)
		s.byID[rec.ID] = &rec
	}
	return nil
}

// Add stores a copy of rec
func (s *Store) Add(rec model.TransferRecord) {
	s.mu.Lock()
	r := &rec
	s.records = append(s.records, r)
	s.byID[r.ID] = r
	snapshot := *r
	s.mu.Unlock()

	s.persist(&snapshot)
}

// Update applies fn to the record with the given id and returns the updated copy
func (s *Store) Update(id string, fn func(rec *model.TransferRecord)) (model.TransferRecord, error) {
	s.mu.Lock()
	r, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return model.TransferRecord{}, ErrRecordNotFound
	}
	fn(r)
	snapshot := *r
	s.mu.Unlock()

	s.persist(&snapshot)
	return snapshot, nil
}

// Get returns a copy of the record with the given id
func (s *Store) Get(id string) (model.TransferRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byID[id]
	if !ok {
		return model.TransferRecord{}, false
	}
	return *r, true
}

// List returns copies of all records, newest first
func (s *Store) List() []model.TransferRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.TransferRecord, 0, len(s.records))
	for i := len(s.records) - 1; i >= 0; i-- {
		out = append(out, *s.records[i])
	}
	return out
}

// Close closes the underlying recorder
func (s *Store) Close() error {
	return s.recorder.Close()
}

// persistence failures never fail the operation that produced the record
func (s *Store) persist(rec *model.TransferRecord) {
	if err := s.recorder.Save(rec); err != nil {
		logger.Error("failed to persist transfer record", zap.String("id", rec.ID), zap.Error(err))
	}
}
