package models

import "time"

// EventSource identifies where a fixed commitment originated.
type EventSource string

const (
	EventSourceCalendar EventSource = "calendar"
	EventSourceManual   EventSource = "manual"
)

// FixedEvent is an immovable commitment the allocator must schedule around.
// Fixed events are inputs only; the scheduler never moves or resizes them.
type FixedEvent struct {
	ID        string      `db:"id" json:"id"`
	Title     string      `db:"title" json:"title"`
	Start     time.Time   `db:"start_at" json:"start"`
	End       time.Time   `db:"end_at" json:"end"`
	Calendar  string      `db:"calendar" json:"calendar"`
	Source    EventSource `db:"source" json:"source"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
}

// Valid reports whether the event spans a positive interval.
func (e FixedEvent) Valid() bool {
	return e.Start.Before(e.End)
}

// Calendar describes a selectable calendar exposed to the UI layer.
type Calendar struct {
	Name string `db:"name" json:"name"`
	URL  string `db:"url" json:"url"`
}

// EventFilter narrows fixed-event listings to a window and calendar set.
type EventFilter struct {
	From      time.Time
	To        time.Time
	Calendars []string
}
