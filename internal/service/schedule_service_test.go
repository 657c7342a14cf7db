package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studyplan-api/internal/dto"
	"github.com/noah-isme/studyplan-api/internal/models"
	"github.com/noah-isme/studyplan-api/pkg/config"
	appErrors "github.com/noah-isme/studyplan-api/pkg/errors"
)

type stubTasks struct {
	tasks []models.Task
	err   error
	calls int
}

func (s *stubTasks) List(_ context.Context, _ models.TaskFilter) ([]models.Task, error) {
	s.calls++
	return s.tasks, s.err
}

type stubEvents struct {
	events     []models.FixedEvent
	names      []string
	err        error
	lastFilter models.EventFilter
}

func (s *stubEvents) List(_ context.Context, filter models.EventFilter) ([]models.FixedEvent, error) {
	s.lastFilter = filter
	if s.err != nil {
		return nil, s.err
	}
	if len(filter.Calendars) == 0 {
		return s.events, nil
	}
	allowed := map[string]bool{}
	for _, name := range filter.Calendars {
		allowed[name] = true
	}
	var out []models.FixedEvent
	for _, event := range s.events {
		if allowed[event.Calendar] {
			out = append(out, event)
		}
	}
	return out, nil
}

func (s *stubEvents) Calendars(_ context.Context) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.names, nil
}

type stubPrefs struct {
	prefs models.SchedulerPreferences
}

func (s *stubPrefs) Get() models.SchedulerPreferences { return s.prefs.Clone() }

type stubCache struct {
	data map[string][]byte
	sets int
}

func newStubCache() *stubCache { return &stubCache{data: map[string][]byte{}} }

func (c *stubCache) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := c.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *stubCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	c.sets++
	return nil
}

func (c *stubCache) InvalidateSchedules(_ context.Context) error {
	c.data = map[string][]byte{}
	return nil
}

func schedulerTestConfig() config.SchedulerConfig {
	return config.SchedulerConfig{
		DefaultHorizonDays: 7,
		MaxHorizonDays:     14,
		DayStartHour:       9,
		DayEndHour:         17,
		BlockMinutes:       50,
		BreakMinutes:       10,
		MinGapMinutes:      10,
		MaxMinutesPerDay:   360,
		MaxMinutesPerBlock: 120,
		CacheTTL:           5 * time.Minute,
	}
}

func fixedNow() time.Time {
	return time.Date(2026, time.March, 9, 8, 0, 0, 0, time.UTC)
}

func eventAt(id, calendar string, hour int) models.FixedEvent {
	start := time.Date(2026, time.March, 9, hour, 0, 0, 0, time.UTC)
	return models.FixedEvent{ID: id, Title: id, Start: start, End: start.Add(time.Hour), Calendar: calendar, Source: models.EventSourceCalendar}
}

func pendingTask(id string, estimated int) models.Task {
	return models.Task{
		ID:               id,
		Title:            id,
		Priority:         3,
		EstimatedMinutes: estimated,
		MinBlockMinutes:  25,
		MaxBlockMinutes:  120,
		Type:             models.TaskTypeOther,
	}
}

func newScheduleFixture(tasks *stubTasks, events *stubEvents, cfg config.SchedulerConfig, cache *stubCache) *ScheduleService {
	var sc scheduleCache
	if cache != nil {
		sc = cache
	}
	svc := NewScheduleService(tasks, events, sc, &stubPrefs{prefs: models.DefaultPreferences()}, cfg, nil, nil)
	svc.now = fixedNow
	return svc
}

func TestScheduleServiceGenerateDefaults(t *testing.T) {
	tasks := &stubTasks{tasks: []models.Task{pendingTask("t1", 100)}}
	events := &stubEvents{}
	svc := newScheduleFixture(tasks, events, schedulerTestConfig(), nil)

	resp, err := svc.Generate(context.Background(), dto.ScheduleQuery{})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, 7, resp.Days)
	assert.Equal(t, 2, resp.GeneratedBlocks)
	require.Len(t, resp.TimeBlocks, 2)
	assert.Equal(t, "task", resp.TimeBlocks[0].Kind)
	assert.Equal(t, "t1", resp.TimeBlocks[0].AssignmentID)
	assert.Empty(t, resp.FixedEvents)
	assert.Empty(t, resp.Overflow)
	// horizon window handed to the event source covers all 7 days
	wantStart := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
	assert.True(t, wantStart.Equal(events.lastFilter.From))
	assert.True(t, wantStart.AddDate(0, 0, 7).Add(-time.Second).Equal(events.lastFilter.To))
}

func TestScheduleServiceRejectsOversizedHorizon(t *testing.T) {
	svc := newScheduleFixture(&stubTasks{}, &stubEvents{}, schedulerTestConfig(), nil)

	_, err := svc.Generate(context.Background(), dto.ScheduleQuery{Days: 30})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestScheduleServiceCalendarFilterRestrictsEventsNotTasks(t *testing.T) {
	tasks := &stubTasks{tasks: []models.Task{pendingTask("t1", 50)}}
	events := &stubEvents{events: []models.FixedEvent{
		eventAt("uni lecture", "uni", 10),
		eventAt("gym", "personal", 13),
	}}
	svc := newScheduleFixture(tasks, events, schedulerTestConfig(), nil)

	resp, err := svc.Generate(context.Background(), dto.ScheduleQuery{Days: 1, Calendars: "uni"})
	require.NoError(t, err)

	// only the named calendar feeds conflict avoidance
	require.Len(t, resp.FixedEvents, 1)
	assert.Equal(t, "uni lecture", resp.FixedEvents[0].Title)
	assert.Equal(t, []string{"uni"}, resp.CalendarsUsed)
	assert.Equal(t, []string{"uni"}, events.lastFilter.Calendars)

	// task selection is untouched by the filter
	assert.Equal(t, 1, tasks.calls)
	assert.Equal(t, 1, resp.GeneratedBlocks)
}

func TestScheduleServiceCalendarSourceFailureTolerated(t *testing.T) {
	tasks := &stubTasks{tasks: []models.Task{pendingTask("t1", 50)}}
	events := &stubEvents{err: assert.AnError}
	svc := newScheduleFixture(tasks, events, schedulerTestConfig(), nil)

	resp, err := svc.Generate(context.Background(), dto.ScheduleQuery{Days: 1})
	require.NoError(t, err)

	assert.Empty(t, resp.FixedEvents)
	assert.Equal(t, 1, resp.GeneratedBlocks)
}

func TestScheduleServiceTaskSourceFailureIsFatal(t *testing.T) {
	tasks := &stubTasks{err: assert.AnError}
	svc := newScheduleFixture(tasks, &stubEvents{}, schedulerTestConfig(), nil)

	_, err := svc.Generate(context.Background(), dto.ScheduleQuery{Days: 1})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestScheduleServiceCacheRoundTrip(t *testing.T) {
	tasks := &stubTasks{tasks: []models.Task{pendingTask("t1", 50)}}
	cache := newStubCache()
	cfg := schedulerTestConfig()
	cfg.CacheEnabled = true
	svc := newScheduleFixture(tasks, &stubEvents{}, cfg, cache)

	first, err := svc.Generate(context.Background(), dto.ScheduleQuery{Days: 3})
	require.NoError(t, err)
	require.Equal(t, 1, cache.sets)

	second, err := svc.Generate(context.Background(), dto.ScheduleQuery{Days: 3})
	require.NoError(t, err)

	assert.Equal(t, 1, tasks.calls, "second call must be served from cache")
	assert.Equal(t, first.GeneratedBlocks, second.GeneratedBlocks)
	assert.Equal(t, first.TimeBlocks, second.TimeBlocks)

	svc.InvalidateCache(context.Background())
	_, err = svc.Generate(context.Background(), dto.ScheduleQuery{Days: 3})
	require.NoError(t, err)
	assert.Equal(t, 2, tasks.calls)
}
