package models

import "time"

// TaskType categorises pending work for block-length learning.
type TaskType string

const (
	TaskTypeReading        TaskType = "reading"
	TaskTypeProblemSolving TaskType = "problem_solving"
	TaskTypeWriting        TaskType = "writing"
	TaskTypeProject        TaskType = "project"
	TaskTypeExam           TaskType = "exam"
	TaskTypeReviewing      TaskType = "reviewing"
	TaskTypeOther          TaskType = "other"
)

// Task is a pending work item (assignment or exam prep) owned by the
// assignment repository. Read-only to the scheduler core.
type Task struct {
	ID               string     `db:"id" json:"id"`
	Title            string     `db:"title" json:"title"`
	CourseID         *string    `db:"course_id" json:"course_id,omitempty"`
	Due              *time.Time `db:"due_at" json:"due,omitempty"`
	Priority         int        `db:"priority" json:"priority"`
	EstimatedMinutes int        `db:"estimated_minutes" json:"estimated_minutes"`
	LoggedMinutes    int        `db:"logged_minutes" json:"logged_minutes"`
	MinBlockMinutes  int        `db:"min_block_minutes" json:"min_block_minutes"`
	MaxBlockMinutes  int        `db:"max_block_minutes" json:"max_block_minutes"`
	Difficulty       float64    `db:"difficulty" json:"difficulty"`
	Importance       float64    `db:"importance" json:"importance"`
	Type             TaskType   `db:"task_type" json:"type"`
	Locked           bool       `db:"locked" json:"locked"`
	LockedStart      *time.Time `db:"locked_start" json:"locked_start,omitempty"`
	IsCompleted      bool       `db:"is_completed" json:"is_completed"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// RemainingMinutes returns estimated effort not yet logged against the task.
func (t Task) RemainingMinutes() int {
	remaining := t.EstimatedMinutes - t.LoggedMinutes
	if remaining < 0 {
		return 0
	}
	return remaining
}

// HasValidBounds reports whether the block-length bounds are coherent.
func (t Task) HasValidBounds() bool {
	return t.MinBlockMinutes > 0 && t.MinBlockMinutes <= t.MaxBlockMinutes
}

// IsPastDue reports whether the due date has already elapsed at the given
// reference time. Tasks without a due date are never past due.
func (t Task) IsPastDue(now time.Time) bool {
	return t.Due != nil && t.Due.Before(now)
}

// Schedulable reports whether the allocator may bind new blocks to the task.
func (t Task) Schedulable(now time.Time) bool {
	return !t.IsCompleted && !t.IsPastDue(now) && t.HasValidBounds() && t.RemainingMinutes() > 0
}

// TaskFilter narrows down repository listings.
type TaskFilter struct {
	CourseID         *string
	DueBefore        *time.Time
	IncludeCompleted bool
}
