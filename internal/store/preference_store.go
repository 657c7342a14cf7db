package store

import (
	"encoding/json"
	"errors"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/studyplan-api/internal/models"
	"github.com/noah-isme/studyplan-api/pkg/storage"
)

// PreferenceStore owns the single durable SchedulerPreferences document.
// The in-memory copy is authoritative; disk is a best-effort snapshot that
// is retried in full on the next mutation after a failed write.
type PreferenceStore struct {
	mu       sync.RWMutex
	storage  *storage.LocalStorage
	filename string
	log      *zap.Logger
	prefs    models.SchedulerPreferences
}

// NewPreferenceStore loads the preferences document, falling back to
// defaults when the file is missing or unreadable.
func NewPreferenceStore(st *storage.LocalStorage, filename string, log *zap.Logger) *PreferenceStore {
	if log == nil {
		log = zap.NewNop()
	}
	s := &PreferenceStore{
		storage:  st,
		filename: filename,
		log:      log,
		prefs:    models.DefaultPreferences(),
	}

	data, err := st.Read(filename)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Info("no preferences file, starting from defaults", zap.String("file", filename))
	case err != nil:
		log.Warn("failed to read preferences file, starting from defaults", zap.String("file", filename), zap.Error(err))
	default:
		var loaded models.SchedulerPreferences
		if err := json.Unmarshal(data, &loaded); err != nil {
			log.Warn("corrupt preferences file, starting from defaults", zap.String("file", filename), zap.Error(err))
		} else {
			s.prefs = loaded
		}
	}
	return s
}

// Get returns a deep copy safe for concurrent allocator runs.
func (s *PreferenceStore) Get() models.SchedulerPreferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs.Clone()
}

// Put replaces the preferences wholesale and persists the new snapshot.
func (s *PreferenceStore) Put(prefs models.SchedulerPreferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs = prefs.Clone()
	return s.persistLocked()
}

// Update applies a mutation under the write lock and persists the result.
// The mutation is kept in memory even when the disk write fails.
func (s *PreferenceStore) Update(mutate func(*models.SchedulerPreferences)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	mutate(&s.prefs)
	return s.persistLocked()
}

func (s *PreferenceStore) persistLocked() error {
	data, err := json.MarshalIndent(s.prefs, "", "  ")
	if err != nil {
		s.log.Error("failed to encode preferences", zap.Error(err))
		return err
	}
	if err := s.storage.Write(s.filename, data); err != nil {
		s.log.Error("failed to persist preferences, in-memory state remains authoritative",
			zap.String("file", s.filename), zap.Error(err))
		return err
	}
	return nil
}
