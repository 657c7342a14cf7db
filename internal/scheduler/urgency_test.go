package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/studyplan-api/internal/models"
)

func TestUrgencyScoreNoDueDate(t *testing.T) {
	now := day(9, 0)
	task := models.Task{Priority: 3, EstimatedMinutes: 120}

	// 3*10 + 5*2h remaining, no deadline term.
	assert.InDelta(t, 40.0, UrgencyScore(task, now), 1e-9)
}

func TestUrgencyScoreDueInTwoDays(t *testing.T) {
	now := day(9, 0)
	due := now.Add(48 * time.Hour)
	task := models.Task{Priority: 2, Due: &due, EstimatedMinutes: 60}

	// 20 + 20/2 + 5*1h.
	assert.InDelta(t, 35.0, UrgencyScore(task, now), 1e-9)
}

func TestUrgencyScoreDueTodayUsesFloor(t *testing.T) {
	now := day(9, 0)
	due := now.Add(6 * time.Hour)
	task := models.Task{Priority: 1, Due: &due, EstimatedMinutes: 30}

	// Whole days until due is zero, floored to 0.5: 10 + 40 + 2.5.
	assert.InDelta(t, 52.5, UrgencyScore(task, now), 1e-9)
}

func TestUrgencyScorePriorityClamped(t *testing.T) {
	now := day(9, 0)
	high := models.Task{Priority: 9, EstimatedMinutes: 60}
	low := models.Task{Priority: -3, EstimatedMinutes: 60}

	assert.InDelta(t, 55.0, UrgencyScore(high, now), 1e-9)
	assert.InDelta(t, 15.0, UrgencyScore(low, now), 1e-9)
}

func TestUrgencyScoreMoreRemainingWorkScoresHigher(t *testing.T) {
	now := day(9, 0)
	small := models.Task{Priority: 3, EstimatedMinutes: 60}
	large := models.Task{Priority: 3, EstimatedMinutes: 300}

	assert.Greater(t, UrgencyScore(large, now), UrgencyScore(small, now))
}

func TestUrgencyScoreLoggedMinutesReduceRemaining(t *testing.T) {
	now := day(9, 0)
	task := models.Task{Priority: 3, EstimatedMinutes: 120, LoggedMinutes: 60}

	assert.InDelta(t, 35.0, UrgencyScore(task, now), 1e-9)
}
