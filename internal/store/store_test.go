package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studyplan-api/internal/models"
	"github.com/noah-isme/studyplan-api/pkg/storage"
)

func newLocalStorage(t *testing.T) *storage.LocalStorage {
	t.Helper()
	st, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return st
}

func TestPreferenceStoreDefaultsWhenFileMissing(t *testing.T) {
	st := newLocalStorage(t)

	s := NewPreferenceStore(st, "preferences.json", nil)

	prefs := s.Get()
	assert.Equal(t, models.DefaultPreferences().Weights, prefs.Weights)
	assert.Len(t, prefs.LearnedEnergyProfile, 24)
}

func TestPreferenceStoreRoundTrip(t *testing.T) {
	st := newLocalStorage(t)
	s := NewPreferenceStore(st, "preferences.json", nil)

	stamp := time.Date(2026, time.March, 9, 12, 0, 0, 0, time.UTC)
	prefs := models.DefaultPreferences()
	prefs.LearnedEnergyProfile[9] = 0.42
	prefs.PreferredBlockLengthByType[models.TaskTypeWriting] = 75
	prefs.CourseBias["course-math"] = 0.15
	prefs.LastAdaptationAt = &stamp
	require.NoError(t, s.Put(prefs))

	reloaded := NewPreferenceStore(st, "preferences.json", nil).Get()

	assert.InDelta(t, 0.42, reloaded.LearnedEnergyProfile[9], 1e-9)
	assert.Equal(t, 75, reloaded.PreferredBlockLengthByType[models.TaskTypeWriting])
	assert.InDelta(t, 0.15, reloaded.CourseBias["course-math"], 1e-9)
	require.NotNil(t, reloaded.LastAdaptationAt)
	assert.True(t, stamp.Equal(*reloaded.LastAdaptationAt))
}

func TestPreferenceStoreCorruptFileFallsBackToDefaults(t *testing.T) {
	st := newLocalStorage(t)
	require.NoError(t, st.Write("preferences.json", []byte("{not json")))

	s := NewPreferenceStore(st, "preferences.json", nil)

	assert.Equal(t, models.DefaultPreferences().Weights, s.Get().Weights)
}

func TestPreferenceStoreGetReturnsCopy(t *testing.T) {
	st := newLocalStorage(t)
	s := NewPreferenceStore(st, "preferences.json", nil)

	first := s.Get()
	first.LearnedEnergyProfile[9] = 0.0
	first.CourseBias["course-x"] = 99

	second := s.Get()
	assert.InDelta(t, 0.9, second.LearnedEnergyProfile[9], 1e-9)
	assert.Empty(t, second.CourseBias)
}

func TestPreferenceStoreUpdatePersists(t *testing.T) {
	st := newLocalStorage(t)
	s := NewPreferenceStore(st, "preferences.json", nil)

	require.NoError(t, s.Update(func(p *models.SchedulerPreferences) {
		p.Weights.Urgency = 0.7
	}))

	reloaded := NewPreferenceStore(st, "preferences.json", nil)
	assert.InDelta(t, 0.7, reloaded.Get().Weights.Urgency, 1e-9)
}

func TestFeedbackStoreAppendAndReload(t *testing.T) {
	st := newLocalStorage(t)
	s := NewFeedbackStore(st, "feedback.json", nil)

	start := time.Date(2026, time.March, 9, 9, 0, 0, 0, time.UTC)
	record := models.BlockFeedback{
		BlockID:    "blk-1",
		TaskID:     "task-1",
		Type:       models.TaskTypeReading,
		Start:      start,
		End:        start.Add(50 * time.Minute),
		Completion: 0.8,
		Action:     models.FeedbackKept,
		RecordedAt: start.Add(time.Hour),
	}
	require.NoError(t, s.Append(record))
	assert.Equal(t, 1, s.Len())

	reloaded := NewFeedbackStore(st, "feedback.json", nil)
	records := reloaded.Snapshot()
	require.Len(t, records, 1)
	assert.NotEmpty(t, records[0].ID)
	assert.Equal(t, "blk-1", records[0].BlockID)
	assert.Equal(t, models.FeedbackKept, records[0].Action)
	assert.True(t, start.Equal(records[0].Start))
}

func TestFeedbackStoreDuplicatesRecordedAsIs(t *testing.T) {
	st := newLocalStorage(t)
	s := NewFeedbackStore(st, "feedback.json", nil)

	record := models.BlockFeedback{BlockID: "blk-1", TaskID: "task-1", Action: models.FeedbackDeleted}
	require.NoError(t, s.Append(record))
	require.NoError(t, s.Append(record))

	assert.Equal(t, 2, s.Len())
}

func TestFeedbackStoreClearConsumed(t *testing.T) {
	st := newLocalStorage(t)
	s := NewFeedbackStore(st, "feedback.json", nil)
	require.NoError(t, s.Append(models.BlockFeedback{BlockID: "blk-1", Action: models.FeedbackKept}))

	require.NoError(t, s.ClearConsumed(1))

	assert.Equal(t, 0, s.Len())
	reloaded := NewFeedbackStore(st, "feedback.json", nil)
	assert.Equal(t, 0, reloaded.Len())
}

func TestFeedbackStoreClearConsumedKeepsLaterAppends(t *testing.T) {
	st := newLocalStorage(t)
	s := NewFeedbackStore(st, "feedback.json", nil)
	require.NoError(t, s.Append(models.BlockFeedback{BlockID: "blk-1", Action: models.FeedbackKept}))
	require.NoError(t, s.Append(models.BlockFeedback{BlockID: "blk-2", Action: models.FeedbackDeleted}))

	// one record consumed by a learner pass; blk-2 arrived after its snapshot
	require.NoError(t, s.ClearConsumed(1))

	require.Equal(t, 1, s.Len())
	assert.Equal(t, "blk-2", s.Snapshot()[0].BlockID)
	reloaded := NewFeedbackStore(st, "feedback.json", nil)
	require.Equal(t, 1, reloaded.Len())
	assert.Equal(t, "blk-2", reloaded.Snapshot()[0].BlockID)
}

func TestFeedbackStoreSnapshotIsCopy(t *testing.T) {
	st := newLocalStorage(t)
	s := NewFeedbackStore(st, "feedback.json", nil)
	require.NoError(t, s.Append(models.BlockFeedback{BlockID: "blk-1", Action: models.FeedbackKept}))

	snap := s.Snapshot()
	snap[0].BlockID = "mutated"

	assert.Equal(t, "blk-1", s.Snapshot()[0].BlockID)
}
