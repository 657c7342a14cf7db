package store

import (
	"encoding/json"
	"errors"
	"os"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/studyplan-api/internal/models"
	"github.com/noah-isme/studyplan-api/pkg/storage"
)

// FeedbackStore is the append-only log of block outcomes. Records are never
// edited; the only mutations are Append and the destructive ClearConsumed
// performed after a learner pass. Duplicates are recorded as-is, the caller
// is responsible for not double-reporting a block.
type FeedbackStore struct {
	mu       sync.Mutex
	storage  *storage.LocalStorage
	filename string
	log      *zap.Logger
	records  []models.BlockFeedback
}

// NewFeedbackStore loads any persisted records, starting empty when the file
// is missing or unreadable.
func NewFeedbackStore(st *storage.LocalStorage, filename string, log *zap.Logger) *FeedbackStore {
	if log == nil {
		log = zap.NewNop()
	}
	s := &FeedbackStore{
		storage:  st,
		filename: filename,
		log:      log,
	}

	data, err := st.Read(filename)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		log.Warn("failed to read feedback file, starting empty", zap.String("file", filename), zap.Error(err))
	default:
		var loaded []models.BlockFeedback
		if err := json.Unmarshal(data, &loaded); err != nil {
			log.Warn("corrupt feedback file, starting empty", zap.String("file", filename), zap.Error(err))
		} else {
			s.records = loaded
		}
	}
	return s
}

// Append records one outcome and persists the full snapshot. A missing id
// is filled in so records stay individually addressable in exports.
func (s *FeedbackStore) Append(record models.BlockFeedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	s.records = append(s.records, record)
	return s.persistLocked()
}

// Snapshot returns a copy of the current batch for the learner.
func (s *FeedbackStore) Snapshot() []models.BlockFeedback {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.BlockFeedback, len(s.records))
	copy(out, s.records)
	return out
}

// Len reports the number of unconsumed records.
func (s *FeedbackStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// ClearConsumed drops the first n records after a learner pass consumed
// them. Records appended after the consumed snapshot was taken stay queued
// for the next pass.
func (s *FeedbackStore) ClearConsumed(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n <= 0 {
		return nil
	}
	if n >= len(s.records) {
		s.records = nil
	} else {
		s.records = append([]models.BlockFeedback(nil), s.records[n:]...)
	}
	return s.persistLocked()
}

func (s *FeedbackStore) persistLocked() error {
	records := s.records
	if records == nil {
		records = []models.BlockFeedback{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		s.log.Error("failed to encode feedback", zap.Error(err))
		return err
	}
	if err := s.storage.Write(s.filename, data); err != nil {
		s.log.Error("failed to persist feedback, in-memory state remains authoritative",
			zap.String("file", s.filename), zap.Error(err))
		return err
	}
	return nil
}
