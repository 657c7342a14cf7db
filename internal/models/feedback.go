package models

import "time"

// FeedbackAction records what the user did with a scheduled block.
type FeedbackAction string

const (
	FeedbackKept        FeedbackAction = "kept"
	FeedbackRescheduled FeedbackAction = "rescheduled"
	FeedbackDeleted     FeedbackAction = "deleted"
	FeedbackShortened   FeedbackAction = "shortened"
	FeedbackExtended    FeedbackAction = "extended"
)

// ValidFeedbackAction reports whether the action is a known signal.
func ValidFeedbackAction(action FeedbackAction) bool {
	switch action {
	case FeedbackKept, FeedbackRescheduled, FeedbackDeleted, FeedbackShortened, FeedbackExtended:
		return true
	}
	return false
}

// BlockFeedback is one immutable outcome record for a scheduled block.
// The feedback store is append-only; records are consumed destructively by
// the learner so the same signal is never applied twice.
type BlockFeedback struct {
	ID         string         `json:"id"`
	BlockID    string         `json:"blockId"`
	TaskID     string         `json:"taskId"`
	CourseID   *string        `json:"courseId,omitempty"`
	Type       TaskType       `json:"type"`
	Start      time.Time      `json:"start"`
	End        time.Time      `json:"end"`
	Completion float64        `json:"completion"`
	Action     FeedbackAction `json:"action"`
	RecordedAt time.Time      `json:"recordedAt"`
}

// Minutes returns the block length covered by this feedback record.
func (f BlockFeedback) Minutes() int {
	return int(f.End.Sub(f.Start).Minutes())
}

// Succeeded classifies the record as a positive signal.
func (f BlockFeedback) Succeeded() bool {
	return f.Completion >= 0.7 && f.Action == FeedbackKept
}

// Failed classifies the record as a negative signal.
func (f BlockFeedback) Failed() bool {
	return f.Completion < 0.3 || f.Action == FeedbackDeleted
}
