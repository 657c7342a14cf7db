package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/studyplan-api/internal/models"
)

const taskColumns = `id, title, course_id, due_at, priority, estimated_minutes, logged_minutes, min_block_minutes, max_block_minutes, difficulty, importance, task_type, locked, locked_start, is_completed, created_at, updated_at`

// TaskRepository reads pending work items. The tasks table is owned by the
// assignment tracker; this service never writes to it.
type TaskRepository struct {
	db *sqlx.DB
}

// NewTaskRepository constructs a task repository.
func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// List returns tasks matching the filter, soonest due first.
func (r *TaskRepository) List(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if !filter.IncludeCompleted {
		where = append(where, "is_completed = FALSE")
	}
	if filter.CourseID != nil {
		where = append(where, fmt.Sprintf("course_id = $%d", len(args)+1))
		args = append(args, *filter.CourseID)
	}
	if filter.DueBefore != nil {
		where = append(where, fmt.Sprintf("due_at <= $%d", len(args)+1))
		args = append(args, *filter.DueBefore)
	}

	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE %s ORDER BY due_at ASC NULLS LAST, id ASC`, taskColumns, strings.Join(where, " AND "))
	var tasks []models.Task
	if err := r.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

