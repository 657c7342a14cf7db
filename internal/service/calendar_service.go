package service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/noah-isme/studyplan-api/internal/dto"
	appErrors "github.com/noah-isme/studyplan-api/pkg/errors"
)

// CalendarService lists the calendars selectable through the schedule
// filter parameter: the union of calendars seen in synced events and the
// configured subscriptions.
type CalendarService struct {
	events eventSource
	urls   map[string]string
	logger *zap.Logger
}

// NewCalendarService constructs the service.
func NewCalendarService(events eventSource, urls map[string]string, logger *zap.Logger) *CalendarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{events: events, urls: urls, logger: logger}
}

// List returns every known calendar with its subscription URL when one is
// configured.
func (s *CalendarService) List(ctx context.Context) (*dto.CalendarsResponse, error) {
	names, err := s.events.Calendars(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list calendars")
	}

	seen := map[string]bool{}
	for _, name := range names {
		seen[name] = true
	}
	for name := range s.urls {
		if !seen[name] {
			names = append(names, name)
			seen[name] = true
		}
	}
	sort.Strings(names)

	views := make([]dto.CalendarView, 0, len(names))
	for _, name := range names {
		views = append(views, dto.CalendarView{Name: name, URL: s.urls[name]})
	}
	return &dto.CalendarsResponse{Success: true, Calendars: views}, nil
}
