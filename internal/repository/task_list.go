package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/flowdesk/flowdesk/internal/domain"
)

// TaskListFilters holds all supported filters for task listing.
type TaskListFilters struct {
	Statuses   []string // Optional: filter by status
	AssigneeID *string  // Optional: filter by assignee
	Unassigned bool     // Optional: show only unassigned
	ClientID   *string  // Optional: filter by client
	Department *string  // Optional: filter by department
	TaskType   *string  // Optional: filter by task type
	Limit      int      // Required: page size
	Offset     int      // Required: page offset
}

func (f TaskListFilters) apply(qb sq.SelectBuilder) sq.SelectBuilder {
	if len(f.Statuses) > 0 {
		qb = qb.Where(sq.Eq{"status": f.Statuses})
	}
	if f.Unassigned {
		qb = qb.Where(sq.Eq{"assigned_to": nil})
	} else if f.AssigneeID != nil {
		qb = qb.Where(sq.Eq{"assigned_to": *f.AssigneeID})
	}
	if f.ClientID != nil {
		qb = qb.Where(sq.Eq{"client_id": *f.ClientID})
	}
	if f.Department != nil {
		qb = qb.Where(sq.Eq{"department": *f.Department})
	}
	if f.TaskType != nil {
		qb = qb.Where(sq.Eq{"task_type": *f.TaskType})
	}
	return qb
}

// List retrieves tasks with filters and pagination, plus the unpaginated total.
func (r *TaskRepository) List(ctx context.Context, filters TaskListFilters) ([]*domain.Task, int, error) {
	qb := filters.apply(psql.Select(taskColumns...).From("tasks")).
		OrderBy("created_at DESC").
		Limit(uint64(filters.Limit)).
		Offset(uint64(filters.Offset))

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build List query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query tasks: %w", err)
	}

	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, 0, err
	}

	countQuery, countArgs, err := filters.apply(psql.Select("COUNT(*)").From("tasks")).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	return tasks, total, nil
}
