package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/studyplan-api/internal/dto"
	"github.com/noah-isme/studyplan-api/internal/models"
	"github.com/noah-isme/studyplan-api/internal/repository"
	"github.com/noah-isme/studyplan-api/internal/scheduler"
	"github.com/noah-isme/studyplan-api/pkg/config"
	appErrors "github.com/noah-isme/studyplan-api/pkg/errors"
)

type taskSource interface {
	List(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
}

type eventSource interface {
	List(ctx context.Context, filter models.EventFilter) ([]models.FixedEvent, error)
	Calendars(ctx context.Context) ([]string, error)
}

type scheduleCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	InvalidateSchedules(ctx context.Context) error
}

type preferenceSource interface {
	Get() models.SchedulerPreferences
}

// ScheduleService orchestrates one generation run: gather tasks and events,
// snapshot preferences, invoke the allocator, and shape the response.
type ScheduleService struct {
	tasks     taskSource
	events    eventSource
	cache     scheduleCache
	prefs     preferenceSource
	allocator *scheduler.Allocator
	cfg       config.SchedulerConfig
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewScheduleService constructs the service.
func NewScheduleService(
	tasks taskSource,
	events eventSource,
	cache scheduleCache,
	prefs preferenceSource,
	cfg config.SchedulerConfig,
	validate *validator.Validate,
	logger *zap.Logger,
) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		tasks:     tasks,
		events:    events,
		cache:     cache,
		prefs:     prefs,
		allocator: scheduler.NewAllocator(),
		cfg:       cfg,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// Generate builds the day-by-day plan for the requested horizon. The
// calendar filter narrows which fixed events the plan avoids; it never
// restricts which tasks are scheduled.
func (s *ScheduleService) Generate(ctx context.Context, query dto.ScheduleQuery) (*dto.ScheduleResponse, error) {
	if query.Days == 0 {
		query.Days = s.cfg.DefaultHorizonDays
	}
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "days must be between 1 and 14")
	}
	if s.cfg.MaxHorizonDays > 0 && query.Days > s.cfg.MaxHorizonDays {
		return nil, appErrors.Clone(appErrors.ErrValidation, "requested horizon exceeds the configured maximum")
	}
	calendars := splitCalendars(query.Calendars)

	cacheKey := repository.ScheduleKey(query.Days, calendars)
	if s.cfg.CacheEnabled && s.cache != nil {
		var cached dto.ScheduleResponse
		err := s.cache.Get(ctx, cacheKey, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("schedule cache lookup failed", zap.Error(err))
		}
	}

	now := s.now()
	horizonStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	horizonEnd := horizonStart.AddDate(0, 0, query.Days).Add(-time.Second)

	constraints := models.Constraints{
		HorizonStart:               horizonStart,
		HorizonEnd:                 horizonEnd,
		DayStartHour:               s.cfg.DayStartHour,
		DayEndHour:                 s.cfg.DayEndHour,
		DefaultBlockMinutes:        s.cfg.BlockMinutes,
		BreakMinutes:               s.cfg.BreakMinutes,
		MaxStudyMinutesPerDay:      s.cfg.MaxMinutesPerDay,
		MaxStudyMinutesPerBlock:    s.cfg.MaxMinutesPerBlock,
		MinGapBetweenBlocksMinutes: s.cfg.MinGapMinutes,
	}

	// A broken calendar source degrades to an event-free day, it never
	// fails the whole run.
	events, err := s.events.List(ctx, models.EventFilter{From: horizonStart, To: horizonEnd, Calendars: calendars})
	if err != nil {
		s.logger.Warn("calendar source unavailable, scheduling without fixed events", zap.Error(err))
		events = nil
	}

	tasks, err := s.tasks.List(ctx, models.TaskFilter{})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tasks")
	}

	result := s.allocator.Generate(tasks, events, constraints, s.prefs.Get(), now)
	s.logger.Info("schedule generated",
		zap.Int("days", query.Days),
		zap.Strings("calendars", calendars),
		zap.Int("blocks", len(result.Blocks)),
		zap.Int("overflow", len(result.Overflow)),
	)

	resp := buildScheduleResponse(query.Days, calendars, events, result)

	if s.cfg.CacheEnabled && s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, resp, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("schedule cache write failed", zap.Error(err))
		}
	}
	return resp, nil
}

// InvalidateCache drops cached plans after anything that changes scheduling
// inputs (feedback, preference overrides).
func (s *ScheduleService) InvalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateSchedules(ctx); err != nil {
		s.logger.Warn("schedule cache invalidation failed", zap.Error(err))
	}
}

func buildScheduleResponse(days int, calendars []string, events []models.FixedEvent, result models.ScheduleResult) *dto.ScheduleResponse {
	blocks := make([]dto.TimeBlock, 0, len(result.Blocks))
	generated := 0
	for _, block := range result.Blocks {
		view := dto.TimeBlock{
			ID:     block.ID,
			Title:  block.Title,
			Start:  block.Start,
			End:    block.End,
			Kind:   string(block.Kind),
			Locked: block.Locked,
		}
		if block.Kind == models.BlockKindTask {
			view.AssignmentID = block.TaskID
			generated++
		}
		blocks = append(blocks, view)
	}

	eventViews := make([]dto.FixedEventView, 0, len(events))
	for _, event := range events {
		if !event.Valid() {
			continue
		}
		eventViews = append(eventViews, dto.FixedEventView{Title: event.Title, Start: event.Start, End: event.End})
	}

	used := calendars
	if len(used) == 0 {
		seen := map[string]bool{}
		for _, event := range events {
			if event.Calendar != "" && !seen[event.Calendar] {
				seen[event.Calendar] = true
				used = append(used, event.Calendar)
			}
		}
		sort.Strings(used)
	}
	if used == nil {
		used = []string{}
	}

	overflow := make([]dto.OverflowEntry, 0, len(result.Overflow))
	for _, item := range result.Overflow {
		overflow = append(overflow, dto.OverflowEntry{TaskID: item.TaskID, Title: item.Title, RemainingMinutes: item.RemainingMinutes})
	}

	return &dto.ScheduleResponse{
		Success:         true,
		Days:            days,
		CalendarsUsed:   used,
		GeneratedBlocks: generated,
		TimeBlocks:      blocks,
		FixedEvents:     eventViews,
		Overflow:        overflow,
	}
}

func splitCalendars(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
