package learner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studyplan-api/internal/models"
)

func feedbackAt(hour, minutes int, completion float64, action models.FeedbackAction) models.BlockFeedback {
	start := time.Date(2026, time.March, 9, hour, 0, 0, 0, time.UTC)
	return models.BlockFeedback{
		ID:         "fb",
		BlockID:    "blk",
		TaskID:     "task",
		Type:       models.TaskTypeReading,
		Start:      start,
		End:        start.Add(time.Duration(minutes) * time.Minute),
		Completion: completion,
		Action:     action,
		RecordedAt: start,
	}
}

func TestUpdatePreferencesEmptyBatchIsNoOp(t *testing.T) {
	prefs := models.DefaultPreferences()
	before := prefs.Clone()

	New(nil).UpdatePreferences(nil, &prefs)

	assert.Equal(t, before, prefs)
}

func TestUpdatePreferencesSuccessRaisesEnergy(t *testing.T) {
	prefs := models.DefaultPreferences()
	require.InDelta(t, 0.9, prefs.LearnedEnergyProfile[9], 1e-9)

	batch := []models.BlockFeedback{feedbackAt(9, 50, 1.0, models.FeedbackKept)}
	New(nil).UpdatePreferences(batch, &prefs)

	// observed 1.0, EMA with alpha 0.2 from prior 0.9.
	assert.InDelta(t, 0.92, prefs.LearnedEnergyProfile[9], 1e-9)
}

func TestUpdatePreferencesFailureLowersEnergy(t *testing.T) {
	prefs := models.DefaultPreferences()

	batch := []models.BlockFeedback{feedbackAt(9, 50, 0.0, models.FeedbackDeleted)}
	New(nil).UpdatePreferences(batch, &prefs)

	assert.InDelta(t, 0.72, prefs.LearnedEnergyProfile[9], 1e-9)
}

func TestUpdatePreferencesEnergyWeightedByMinutes(t *testing.T) {
	prefs := models.DefaultPreferences()

	batch := []models.BlockFeedback{
		feedbackAt(9, 50, 1.0, models.FeedbackKept),
		feedbackAt(9, 50, 0.0, models.FeedbackDeleted),
	}
	New(nil).UpdatePreferences(batch, &prefs)

	// observed 50/(50+50) = 0.5 toward prior 0.9.
	assert.InDelta(t, 0.82, prefs.LearnedEnergyProfile[9], 1e-9)
	// untouched hours keep their prior weight
	assert.InDelta(t, 0.8, prefs.LearnedEnergyProfile[14], 1e-9)
}

func TestUpdatePreferencesBlockLengthMovesTowardSuccessAverage(t *testing.T) {
	prefs := models.DefaultPreferences()
	require.Equal(t, 50, prefs.PreferredBlockLengthByType[models.TaskTypeReading])

	batch := []models.BlockFeedback{feedbackAt(10, 60, 0.9, models.FeedbackKept)}
	New(nil).UpdatePreferences(batch, &prefs)

	// 0.2*60 + 0.8*50 = 52
	assert.Equal(t, 52, prefs.PreferredBlockLengthByType[models.TaskTypeReading])
}

func TestUpdatePreferencesBlockLengthClampedAtFloor(t *testing.T) {
	prefs := models.DefaultPreferences()
	prefs.PreferredBlockLengthByType[models.TaskTypeReading] = 15

	batch := []models.BlockFeedback{feedbackAt(10, 5, 0.9, models.FeedbackKept)}
	New(nil).UpdatePreferences(batch, &prefs)

	assert.Equal(t, 15, prefs.PreferredBlockLengthByType[models.TaskTypeReading])
}

func TestUpdatePreferencesFailedBlocksDoNotMoveLength(t *testing.T) {
	prefs := models.DefaultPreferences()

	batch := []models.BlockFeedback{feedbackAt(10, 120, 0.1, models.FeedbackDeleted)}
	New(nil).UpdatePreferences(batch, &prefs)

	assert.Equal(t, 50, prefs.PreferredBlockLengthByType[models.TaskTypeReading])
}

func TestUpdatePreferencesCourseBiasAccumulates(t *testing.T) {
	prefs := models.DefaultPreferences()
	mathID := "course-math"
	historyID := "course-history"

	fail1 := feedbackAt(9, 50, 0.0, models.FeedbackDeleted)
	fail1.CourseID = &mathID
	fail2 := feedbackAt(10, 50, 0.1, models.FeedbackDeleted)
	fail2.CourseID = &mathID
	success := feedbackAt(11, 50, 1.0, models.FeedbackKept)
	success.CourseID = &mathID
	balancedFail := feedbackAt(12, 50, 0.0, models.FeedbackDeleted)
	balancedFail.CourseID = &historyID
	balancedSuccess := feedbackAt(13, 50, 1.0, models.FeedbackKept)
	balancedSuccess.CourseID = &historyID

	learner := New(nil)
	learner.UpdatePreferences([]models.BlockFeedback{fail1, fail2, success, balancedFail, balancedSuccess}, &prefs)

	assert.InDelta(t, 0.05, prefs.CourseBias[mathID], 1e-9)
	_, ok := prefs.CourseBias[historyID]
	assert.False(t, ok)

	// no clamp: a second all-fail batch keeps pushing the bias up
	learner.UpdatePreferences([]models.BlockFeedback{fail1, fail2}, &prefs)
	assert.InDelta(t, 0.15, prefs.CourseBias[mathID], 1e-9)
}

func TestUpdatePreferencesNeutralFeedbackIgnored(t *testing.T) {
	prefs := models.DefaultPreferences()
	before := prefs.Clone()

	batch := []models.BlockFeedback{feedbackAt(9, 50, 0.5, models.FeedbackRescheduled)}
	New(nil).UpdatePreferences(batch, &prefs)

	assert.Equal(t, before, prefs)
}
