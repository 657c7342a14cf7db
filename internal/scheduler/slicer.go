package scheduler

import (
	"time"

	"github.com/noah-isme/studyplan-api/internal/models"
)

// SliceSlot carves a free slot into fixed-duration block intervals separated
// by breaks. Slots shorter than one block produce nothing.
func SliceSlot(slot models.FreeSlot, blockDuration, breakDuration time.Duration) []models.Interval {
	if blockDuration <= 0 {
		return nil
	}
	if breakDuration < 0 {
		breakDuration = 0
	}

	var blocks []models.Interval
	cursor := slot.Start
	for !cursor.Add(blockDuration).After(slot.End) {
		blocks = append(blocks, models.Interval{Start: cursor, End: cursor.Add(blockDuration)})
		cursor = cursor.Add(blockDuration + breakDuration)
	}
	return blocks
}
