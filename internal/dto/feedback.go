package dto

import "time"

// FeedbackRequest reports what the user did with one scheduled block.
type FeedbackRequest struct {
	BlockID    string    `json:"blockId" validate:"required"`
	TaskID     string    `json:"taskId" validate:"required"`
	CourseID   *string   `json:"courseId"`
	Type       string    `json:"type"`
	Start      time.Time `json:"start" validate:"required"`
	End        time.Time `json:"end" validate:"required"`
	Completion float64   `json:"completion" validate:"min=0,max=1"`
	Action     string    `json:"action" validate:"required,oneof=kept rescheduled deleted shortened extended"`
}

// FeedbackResponse acknowledges an appended record.
type FeedbackResponse struct {
	ID      string `json:"id"`
	Pending int    `json:"pending"`
}

// LearningRunQuery controls an explicit adaptation trigger.
type LearningRunQuery struct {
	Force bool `form:"force"`
}

// LearningRunResponse reports whether a learner pass actually ran.
type LearningRunResponse struct {
	Ran     bool   `json:"ran"`
	Records int    `json:"records"`
	Reason  string `json:"reason,omitempty"`
}
