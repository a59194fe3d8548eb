package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flowdesk/flowdesk/internal/domain"
)

// taskColumns is the shared list of columns for task queries.
var taskColumns = []string{
	"id", "title", "description", "department", "task_type", "status",
	"workflow_stage", "created_by", "assigned_to", "client_id", "project_id",
	"client_feedback", "deadline", "scheduled_date", "location", "company_name",
	"created_at", "updated_at",
}

// TaskRepository handles database operations for tasks.
type TaskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

// scanTask scans a single row into a Task struct.
func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Department,
		&task.Type,
		&task.Status,
		&task.WorkflowStage,
		&task.CreatedBy,
		&task.AssignedTo,
		&task.ClientID,
		&task.ProjectID,
		&task.ClientFeedback,
		&task.Deadline,
		&task.ScheduledDate,
		&task.Location,
		&task.CompanyName,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	return &task, nil
}

// scanTasks scans multiple rows into a slice of Task structs.
func scanTasks(rows pgx.Rows) ([]*domain.Task, error) {
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return tasks, nil
}

// GetByID retrieves a task by ID.
func (r *TaskRepository) GetByID(ctx context.Context, taskID string) (*domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": taskID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for task: %w", err)
	}

	return scanTask(r.pool.QueryRow(ctx, query, args...))
}

// GetByIDForUpdate retrieves a task by ID with FOR UPDATE lock (within transaction).
func (r *TaskRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, taskID string) (*domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": taskID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByIDForUpdate query for task %s: %w", taskID, err)
	}

	return scanTask(tx.QueryRow(ctx, query, args...))
}

// LifecycleUpdate carries the mutable lifecycle fields for a compare-and-swap
// write. Only WorkflowStage and Status are always written; AssignedTo and
// ClientFeedback are written when their Set flag / pointer says so.
type LifecycleUpdate struct {
	Stage          domain.Stage
	Status         domain.TaskStatus
	AssignedTo     *string
	SetAssignee    bool
	ClientFeedback *string
}

// UpdateLifecycle applies a lifecycle transition with optimistic locking on
// updated_at. The update matches zero rows when another writer got there
// first; the caller gets ErrConflict (or ErrTaskNotFound if the row is gone).
// Returns the new updated_at, which becomes the next expected value.
func (r *TaskRepository) UpdateLifecycle(
	ctx context.Context,
	tx pgx.Tx,
	taskID string,
	expectedUpdatedAt time.Time,
	upd LifecycleUpdate,
) (time.Time, error) {
	qb := psql.
		Update("tasks").
		Set("workflow_stage", upd.Stage).
		Set("status", upd.Status).
		Set("updated_at", sq.Expr("clock_timestamp()")).
		Where(sq.Eq{
			"id":         taskID,
			"updated_at": expectedUpdatedAt,
		}).
		Suffix("RETURNING updated_at")

	if upd.SetAssignee {
		qb = qb.Set("assigned_to", upd.AssignedTo)
	}
	if upd.ClientFeedback != nil {
		qb = qb.Set("client_feedback", *upd.ClientFeedback)
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return time.Time{}, fmt.Errorf("build UpdateLifecycle query for task %s: %w", taskID, err)
	}

	var updatedAt time.Time
	err = tx.QueryRow(ctx, query, args...).Scan(&updatedAt)
	if err == nil {
		return updatedAt, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, fmt.Errorf("update task lifecycle: %w", err)
	}

	// Zero rows: distinguish a lost race from a missing task.
	var exists bool
	checkErr := tx.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM tasks WHERE id = $1)", taskID).Scan(&exists)
	if checkErr != nil {
		return time.Time{}, fmt.Errorf("check task existence: %w", checkErr)
	}
	if !exists {
		return time.Time{}, domain.ErrTaskNotFound
	}
	return time.Time{}, domain.ErrConflict
}

// Create creates a new task within a transaction. The task always starts in
// status "new" at stage "new". Returns the task with ID and timestamps set.
func (r *TaskRepository) Create(ctx context.Context, tx pgx.Tx, task *domain.Task) (*domain.Task, error) {
	task.Status = domain.TaskStatusNew
	task.WorkflowStage = domain.StageNew

	query, args, err := psql.
		Insert("tasks").
		Columns(
			"title", "description", "department", "task_type", "status",
			"workflow_stage", "created_by", "assigned_to", "client_id", "project_id",
			"client_feedback", "deadline", "scheduled_date", "location", "company_name",
		).
		Values(
			task.Title,
			task.Description,
			task.Department,
			task.Type,
			task.Status,
			task.WorkflowStage,
			task.CreatedBy,
			task.AssignedTo,
			task.ClientID,
			task.ProjectID,
			task.ClientFeedback,
			task.Deadline,
			task.ScheduledDate,
			task.Location,
			task.CompanyName,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for task: %w", err)
	}

	err = tx.QueryRow(ctx, query, args...).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	return task, nil
}
