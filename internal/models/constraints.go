package models

import "time"

// Interval is a half-open [Start, End) time span.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns the interval length.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Overlaps reports whether two half-open intervals intersect.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Constraints bound a single allocator run. They are assembled per request
// from configuration defaults plus query parameters; the allocator itself
// never reads configuration.
type Constraints struct {
	HorizonStart time.Time `json:"horizon_start"`
	HorizonEnd   time.Time `json:"horizon_end"`

	DayStartHour int `json:"day_start_hour"`
	DayEndHour   int `json:"day_end_hour"`

	DefaultBlockMinutes        int `json:"default_block_minutes"`
	BreakMinutes               int `json:"break_minutes"`
	MaxStudyMinutesPerDay      int `json:"max_study_minutes_per_day"`
	MaxStudyMinutesPerBlock    int `json:"max_study_minutes_per_block"`
	MinGapBetweenBlocksMinutes int `json:"min_gap_between_blocks_minutes"`

	DoNotScheduleWindows []Interval `json:"do_not_schedule_windows,omitempty"`

	// EnergyProfile overrides the learned profile for this run only.
	// Hours absent from the map fall back to the learned value.
	EnergyProfile map[int]float64 `json:"energy_profile,omitempty"`
}

// DayBounds returns the working window for the given calendar day.
func (c Constraints) DayBounds(day time.Time) Interval {
	year, month, d := day.Date()
	loc := day.Location()
	return Interval{
		Start: time.Date(year, month, d, c.DayStartHour, 0, 0, 0, loc),
		End:   time.Date(year, month, d, c.DayEndHour, 0, 0, 0, loc),
	}
}

// HorizonDays returns each calendar day in [HorizonStart, HorizonEnd].
func (c Constraints) HorizonDays() []time.Time {
	var days []time.Time
	day := time.Date(c.HorizonStart.Year(), c.HorizonStart.Month(), c.HorizonStart.Day(), 0, 0, 0, 0, c.HorizonStart.Location())
	for !day.After(c.HorizonEnd) {
		days = append(days, day)
		day = day.AddDate(0, 0, 1)
	}
	return days
}
