package models

import "time"

// BlockKind distinguishes allocator-produced study blocks from pass-through
// fixed events in a schedule result.
type BlockKind string

const (
	BlockKindTask  BlockKind = "task"
	BlockKindFixed BlockKind = "fixed"
)

// FreeSlot is a contiguous open interval within a day. Derived state only;
// recomputed on every allocator run and never persisted.
type FreeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns the slot length.
func (s FreeSlot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// ScheduledBlock is one bounded study interval bound to at most one task.
type ScheduledBlock struct {
	ID     string    `json:"id"`
	TaskID string    `json:"task_id,omitempty"`
	Title  string    `json:"title"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Kind   BlockKind `json:"kind"`
	Locked bool      `json:"locked"`
}

// Interval views the block as a plain time span.
func (b ScheduledBlock) Interval() Interval {
	return Interval{Start: b.Start, End: b.End}
}

// TaskOverflow reports effort that could not be placed within the horizon.
type TaskOverflow struct {
	TaskID           string `json:"task_id"`
	Title            string `json:"title"`
	RemainingMinutes int    `json:"remaining_minutes"`
}

// ScheduleResult is the complete outcome of one allocator run.
type ScheduleResult struct {
	Blocks   []ScheduledBlock `json:"blocks"`
	Overflow []TaskOverflow   `json:"overflow,omitempty"`
	Log      []string         `json:"log,omitempty"`
}
