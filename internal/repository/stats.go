package repository

import (
	"context"
	"fmt"

	"github.com/flowdesk/flowdesk/internal/domain"
)

// DashboardStats holds the counts that drive the dashboard overview.
type DashboardStats struct {
	TasksByStatus     map[string]int
	TasksByDepartment map[string]int
	PendingReviews    int
}

// GetDashboardStats retrieves task counts by status and department plus the
// number of tasks waiting on client disposition.
func (r *TaskRepository) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{
		TasksByStatus:     make(map[string]int),
		TasksByDepartment: make(map[string]int),
	}

	rows, err := r.pool.Query(ctx, `
		SELECT status, COUNT(*)
		FROM tasks
		GROUP BY status
	`)
	if err != nil {
		return nil, fmt.Errorf("query tasks by status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		stats.TasksByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status rows: %w", err)
	}

	deptRows, err := r.pool.Query(ctx, `
		SELECT department, COUNT(*)
		FROM tasks
		GROUP BY department
	`)
	if err != nil {
		return nil, fmt.Errorf("query tasks by department: %w", err)
	}
	defer deptRows.Close()

	for deptRows.Next() {
		var department string
		var count int
		if err := deptRows.Scan(&department, &count); err != nil {
			return nil, fmt.Errorf("scan department count: %w", err)
		}
		stats.TasksByDepartment[department] = count
	}
	if err := deptRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate department rows: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM tasks
		WHERE workflow_stage = $1 AND status = $2
	`, domain.StageReview, domain.TaskStatusInReview).Scan(&stats.PendingReviews)
	if err != nil {
		return nil, fmt.Errorf("count pending reviews: %w", err)
	}

	return stats, nil
}
