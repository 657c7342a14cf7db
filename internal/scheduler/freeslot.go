package scheduler

import (
	"sort"

	"github.com/noah-isme/studyplan-api/internal/models"
)

// ComputeFreeSlots returns the open intervals of a single day after removing
// every busy interval. Busy intervals may arrive unsorted and may overlap;
// the forward-only cursor collapses overlaps without double-subtracting.
// Slot length filtering is the caller's concern so the calculation stays
// task-agnostic.
func ComputeFreeSlots(bounds models.Interval, busy []models.Interval) []models.FreeSlot {
	if !bounds.Start.Before(bounds.End) {
		return nil
	}

	sorted := make([]models.Interval, 0, len(busy))
	for _, interval := range busy {
		if !interval.Start.Before(interval.End) {
			continue
		}
		if !interval.Overlaps(bounds) {
			continue
		}
		sorted = append(sorted, interval)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start.Equal(sorted[j].Start) {
			return sorted[i].End.Before(sorted[j].End)
		}
		return sorted[i].Start.Before(sorted[j].Start)
	})

	slots := make([]models.FreeSlot, 0, len(sorted)+1)
	cursor := bounds.Start
	for _, interval := range sorted {
		if interval.Start.After(cursor) {
			end := interval.Start
			if end.After(bounds.End) {
				end = bounds.End
			}
			if cursor.Before(end) {
				slots = append(slots, models.FreeSlot{Start: cursor, End: end})
			}
		}
		if interval.End.After(cursor) {
			cursor = interval.End
		}
		if !cursor.Before(bounds.End) {
			return slots
		}
	}
	if cursor.Before(bounds.End) {
		slots = append(slots, models.FreeSlot{Start: cursor, End: bounds.End})
	}
	return slots
}
