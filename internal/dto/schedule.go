package dto

import "time"

// ScheduleQuery carries the generation parameters for a schedule request.
type ScheduleQuery struct {
	Days      int    `form:"days" validate:"omitempty,min=1,max=14"`
	Calendars string `form:"calendars"`
}

// TimeBlock is one scheduled interval in the response, study block or
// pass-through fixed event.
type TimeBlock struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Kind         string    `json:"kind"`
	AssignmentID string    `json:"assignment_id,omitempty"`
	Locked       bool      `json:"locked"`
}

// FixedEventView is the slim event echo alongside the generated blocks.
type FixedEventView struct {
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// OverflowEntry reports effort that did not fit within the horizon.
type OverflowEntry struct {
	TaskID           string `json:"task_id"`
	Title            string `json:"title"`
	RemainingMinutes int    `json:"remaining_minutes"`
}

// ScheduleResponse is the schedule endpoint payload. The field set and key
// casing are a published contract consumed by the UI layer.
type ScheduleResponse struct {
	Success         bool             `json:"success"`
	Days            int              `json:"days"`
	CalendarsUsed   []string         `json:"calendars_used"`
	GeneratedBlocks int              `json:"generated_blocks"`
	TimeBlocks      []TimeBlock      `json:"time_blocks"`
	FixedEvents     []FixedEventView `json:"fixed_events"`
	Overflow        []OverflowEntry  `json:"overflow,omitempty"`
}

// CalendarView is one selectable calendar.
type CalendarView struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// CalendarsResponse lists the calendars available to the filter parameter.
type CalendarsResponse struct {
	Success   bool           `json:"success"`
	Calendars []CalendarView `json:"calendars"`
}

// ExportQuery selects horizon and output format for a plan download.
type ExportQuery struct {
	Days      int    `form:"days" validate:"omitempty,min=1,max=14"`
	Calendars string `form:"calendars"`
	Format    string `form:"format" validate:"omitempty,oneof=csv pdf"`
}
