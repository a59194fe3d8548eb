package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flowdesk/flowdesk/internal/domain"
	"github.com/flowdesk/flowdesk/internal/repository"
)

// Engine is the stage transition engine. It moves tasks through their
// task-type's stage graph inside a single transaction: row lock, role gate,
// next-stage computation, compare-and-swap write, audit event, commit.
// Notifications go out after commit and are best-effort.
//
// The engine does not require a final attachment before a stage may be marked
// done; review is the checkpoint where a missing deliverable gets bounced
// back via rejection. Callers that want to warn early can consult
// AttachmentRepository.ListByTask with finalOnly.
type Engine struct {
	pool     *pgxpool.Pool
	tasks    *repository.TaskRepository
	events   *repository.TaskEventRepository
	users    *repository.UserRepository
	notifier *Notifier
}

// NewEngine creates a new Engine.
func NewEngine(
	pool *pgxpool.Pool,
	tasks *repository.TaskRepository,
	events *repository.TaskEventRepository,
	users *repository.UserRepository,
	notifier *Notifier,
) *Engine {
	return &Engine{
		pool:     pool,
		tasks:    tasks,
		events:   events,
		users:    users,
		notifier: notifier,
	}
}

// AdvanceParams carries the optional inputs of an Advance call.
type AdvanceParams struct {
	// AssigneeID is required for the assign action.
	AssigneeID *string

	// ExpectedUpdatedAt is the task's updated_at as last seen by the caller.
	// When set, the transition fails with ErrConflict if anyone wrote the
	// task since that read. When nil, the engine uses the value it reads
	// under the row lock, which still serializes racing writers.
	ExpectedUpdatedAt *time.Time
}

// CreateTaskParams holds parameters for task creation.
type CreateTaskParams struct {
	Title         string
	Description   string
	Department    domain.Department
	Type          domain.TaskType
	CreatedBy     string
	AssignedTo    *string
	ClientID      *string
	ProjectID     *string
	Deadline      *time.Time
	ScheduledDate *time.Time
	Location      string
	CompanyName   string
}

// CreateTask creates a task in stage "new" and records the creation event.
func (e *Engine) CreateTask(ctx context.Context, params CreateTaskParams) (*domain.Task, error) {
	if !params.Type.IsValid() {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownTaskType, params.Type)
	}
	if !params.Department.IsValid() {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownDepartment, params.Department)
	}

	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	task, err := e.tasks.Create(ctx, tx, &domain.Task{
		Title:         params.Title,
		Description:   params.Description,
		Department:    params.Department,
		Type:          params.Type,
		CreatedBy:     params.CreatedBy,
		AssignedTo:    params.AssignedTo,
		ClientID:      params.ClientID,
		ProjectID:     params.ProjectID,
		Deadline:      params.Deadline,
		ScheduledDate: params.ScheduledDate,
		Location:      params.Location,
		CompanyName:   params.CompanyName,
	})
	if err != nil {
		return nil, err
	}

	event := &domain.TaskEvent{
		TaskID:    task.ID,
		ActorID:   &params.CreatedBy,
		Action:    domain.ActionAssign,
		OldStage:  domain.StageNew,
		NewStage:  domain.StageNew,
		OldStatus: domain.TaskStatusNew,
		NewStatus: domain.TaskStatusNew,
		Note:      "task created",
	}
	if err := e.events.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("task created",
		"task_id", task.ID,
		"task_type", task.Type,
		"department", task.Department,
	)

	return task, nil
}

// Advance applies a forward lifecycle action (assign, start, mark_stage_done,
// submit_for_review) and returns the updated task. The persisted update
// either fully applies or fails entirely; a racing writer loses with
// ErrConflict and must re-fetch before retrying.
func (e *Engine) Advance(
	ctx context.Context,
	taskID string,
	actor *domain.User,
	action domain.Action,
	params AdvanceParams,
) (*domain.Task, error) {
	switch action {
	case domain.ActionAssign, domain.ActionStart,
		domain.ActionMarkStageDone, domain.ActionSubmitForReview:
	default:
		return nil, fmt.Errorf("%w: action %s is not a forward action", domain.ErrValidation, action)
	}

	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	task, err := e.tasks.GetByIDForUpdate(ctx, tx, taskID)
	if err != nil {
		return nil, err
	}

	if task.IsTerminal() {
		return nil, fmt.Errorf("%w: task %s is %s", domain.ErrAlreadyTerminal, task.ID, task.Status)
	}

	if params.ExpectedUpdatedAt != nil && !task.UpdatedAt.Equal(*params.ExpectedUpdatedAt) {
		return nil, fmt.Errorf("%w: task %s changed since it was read", domain.ErrConflict, task.ID)
	}

	if !CanPerform(actor, task, action) {
		return nil, fmt.Errorf("%w: role %s cannot %s task %s", domain.ErrUnauthorized, actor.Role, action, task.ID)
	}

	upd, err := e.computeForward(ctx, task, action, params)
	if err != nil {
		return nil, err
	}

	oldStage, oldStatus := task.WorkflowStage, task.Status

	updatedAt, err := e.tasks.UpdateLifecycle(ctx, tx, task.ID, task.UpdatedAt, upd)
	if err != nil {
		return nil, err
	}
	task.WorkflowStage = upd.Stage
	task.Status = upd.Status
	task.UpdatedAt = updatedAt
	if upd.SetAssignee {
		task.AssignedTo = upd.AssignedTo
	}

	event := &domain.TaskEvent{
		TaskID:    task.ID,
		ActorID:   &actor.ID,
		Action:    action,
		OldStage:  oldStage,
		NewStage:  task.WorkflowStage,
		OldStatus: oldStatus,
		NewStatus: task.Status,
	}
	if err := e.events.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("task advanced",
		"task_id", task.ID,
		"action", action,
		"actor_id", actor.ID,
		"old_stage", oldStage,
		"new_stage", task.WorkflowStage,
	)

	e.notifier.Notify(ctx, task, Transition{
		Action:    action,
		Actor:     actor,
		OldStage:  oldStage,
		NewStage:  task.WorkflowStage,
		NewStatus: task.Status,
	}, e.forwardRecipients(task, actor, action))

	return task, nil
}

// computeForward maps the requested action onto the task's stage graph and
// returns the lifecycle write to apply.
func (e *Engine) computeForward(
	ctx context.Context,
	task *domain.Task,
	action domain.Action,
	params AdvanceParams,
) (repository.LifecycleUpdate, error) {
	graph, ok := domain.GraphFor(task.Type)
	if !ok {
		return repository.LifecycleUpdate{}, fmt.Errorf("%w: %s", domain.ErrUnknownTaskType, task.Type)
	}
	if !graph.Contains(task.WorkflowStage) {
		return repository.LifecycleUpdate{}, fmt.Errorf("%w: stage %s is not in the %s graph",
			domain.ErrInvalidTransition, task.WorkflowStage, task.Type)
	}

	switch action {
	case domain.ActionAssign:
		if params.AssigneeID == nil || *params.AssigneeID == "" {
			return repository.LifecycleUpdate{}, fmt.Errorf("%w: assignee_id is required", domain.ErrValidation)
		}
		if _, err := e.users.GetByID(ctx, *params.AssigneeID); err != nil {
			return repository.LifecycleUpdate{}, err
		}
		return repository.LifecycleUpdate{
			Stage:       task.WorkflowStage,
			Status:      task.Status,
			AssignedTo:  params.AssigneeID,
			SetAssignee: true,
		}, nil

	case domain.ActionStart:
		if task.WorkflowStage != domain.StageNew {
			return repository.LifecycleUpdate{}, fmt.Errorf("%w: task %s already started (stage %s)",
				domain.ErrInvalidTransition, task.ID, task.WorkflowStage)
		}
		return forwardUpdate(graph.FirstProductionStage()), nil

	case domain.ActionMarkStageDone:
		next, ok := graph.Next(task.WorkflowStage)
		if !ok {
			return repository.LifecycleUpdate{}, fmt.Errorf("%w: no stage after %s for %s tasks",
				domain.ErrInvalidTransition, task.WorkflowStage, task.Type)
		}
		return forwardUpdate(next), nil

	case domain.ActionSubmitForReview:
		next, ok := graph.Next(task.WorkflowStage)
		if !ok || next != domain.StageReview {
			return repository.LifecycleUpdate{}, fmt.Errorf("%w: cannot submit for review from stage %s",
				domain.ErrInvalidTransition, task.WorkflowStage)
		}
		return forwardUpdate(domain.StageReview), nil

	default:
		return repository.LifecycleUpdate{}, fmt.Errorf("%w: action %s", domain.ErrValidation, action)
	}
}

// forwardUpdate derives the coarse status from the stage being entered.
func forwardUpdate(stage domain.Stage) repository.LifecycleUpdate {
	status := domain.TaskStatusInProgress
	if stage == domain.StageReview {
		status = domain.TaskStatusInReview
	}
	return repository.LifecycleUpdate{Stage: stage, Status: status}
}

// forwardRecipients picks who hears about an accepted forward transition:
// the assignee when they were just assigned, the client once the task reaches
// review, otherwise the task's creator (the responsible manager).
func (e *Engine) forwardRecipients(task *domain.Task, actor *domain.User, action domain.Action) []string {
	var recipients []string
	switch {
	case action == domain.ActionAssign:
		if task.AssignedTo != nil {
			recipients = append(recipients, *task.AssignedTo)
		}
	case task.WorkflowStage == domain.StageReview:
		if task.ClientID != nil {
			recipients = append(recipients, *task.ClientID)
		}
		recipients = append(recipients, task.CreatedBy)
	default:
		recipients = append(recipients, task.CreatedBy)
	}

	// Nobody needs a notification about their own action.
	out := recipients[:0]
	for _, id := range recipients {
		if id != actor.ID {
			out = append(out, id)
		}
	}
	return out
}

// rollback rolls back a transaction, logging unexpected failures. Rolling
// back an already-committed transaction is a no-op.
func rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
		slog.Error("failed to rollback transaction", "error", err)
	}
}
