package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/studyplan-api/internal/models"
)

// EventRepository reads fixed calendar commitments. Rows are written by the
// calendar sync layer; this service only consumes them.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository constructs an event repository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// List returns events overlapping the filter window, optionally restricted
// to the named calendars.
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.FixedEvent, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if !filter.From.IsZero() {
		where = append(where, fmt.Sprintf("end_at > $%d", len(args)+1))
		args = append(args, filter.From)
	}
	if !filter.To.IsZero() {
		where = append(where, fmt.Sprintf("start_at < $%d", len(args)+1))
		args = append(args, filter.To)
	}
	if len(filter.Calendars) > 0 {
		where = append(where, fmt.Sprintf("calendar = ANY($%d)", len(args)+1))
		args = append(args, pq.Array(filter.Calendars))
	}

	query := fmt.Sprintf(`SELECT id, title, start_at, end_at, calendar, source, created_at
FROM calendar_events WHERE %s ORDER BY start_at ASC, id ASC`, strings.Join(where, " AND "))
	var events []models.FixedEvent
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, fmt.Errorf("list calendar events: %w", err)
	}
	return events, nil
}

// Calendars returns the distinct calendar names seen in stored events.
func (r *EventRepository) Calendars(ctx context.Context) ([]string, error) {
	var names []string
	if err := r.db.SelectContext(ctx, &names, `SELECT DISTINCT calendar FROM calendar_events WHERE calendar <> '' ORDER BY calendar ASC`); err != nil {
		return nil, fmt.Errorf("list calendars: %w", err)
	}
	return names, nil
}
