package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flowdesk/flowdesk/internal/domain"
	"github.com/flowdesk/flowdesk/internal/repository"
)

// RevisionService handles client disposition of tasks in review: approval
// (terminal) and rejection, which sends the task back to its task-type's
// declared return stage with the client's feedback attached.
type RevisionService struct {
	pool     *pgxpool.Pool
	tasks    *repository.TaskRepository
	events   *repository.TaskEventRepository
	users    *repository.UserRepository
	notifier *Notifier
}

// NewRevisionService creates a new RevisionService.
func NewRevisionService(
	pool *pgxpool.Pool,
	tasks *repository.TaskRepository,
	events *repository.TaskEventRepository,
	users *repository.UserRepository,
	notifier *Notifier,
) *RevisionService {
	return &RevisionService{
		pool:     pool,
		tasks:    tasks,
		events:   events,
		users:    users,
		notifier: notifier,
	}
}

// Approve marks a task approved. The workflow stage stays at review as the
// terminal marker; optional feedback is stored as confirmation text. Any
// later transition attempt fails with ErrAlreadyTerminal.
func (s *RevisionService) Approve(ctx context.Context, taskID string, actor *domain.User, feedback string) (*domain.Task, error) {
	return s.dispose(ctx, taskID, actor, domain.ActionApprove, feedback)
}

// Reject sends a task in review back to its return stage with status
// "revision". Feedback is mandatory: a revision without the client's reason
// gives the specialist nothing to fix.
func (s *RevisionService) Reject(ctx context.Context, taskID string, actor *domain.User, feedback string) (*domain.Task, error) {
	if feedback == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, domain.ErrEmptyFeedback)
	}
	return s.dispose(ctx, taskID, actor, domain.ActionReject, feedback)
}

func (s *RevisionService) dispose(
	ctx context.Context,
	taskID string,
	actor *domain.User,
	action domain.Action,
	feedback string,
) (*domain.Task, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	task, err := s.tasks.GetByIDForUpdate(ctx, tx, taskID)
	if err != nil {
		return nil, err
	}

	if task.IsTerminal() {
		return nil, fmt.Errorf("%w: task %s is %s", domain.ErrAlreadyTerminal, task.ID, task.Status)
	}
	if task.WorkflowStage != domain.StageReview {
		return nil, fmt.Errorf("%w: task %s is in stage %s, not review",
			domain.ErrInvalidTransition, task.ID, task.WorkflowStage)
	}
	if !CanPerform(actor, task, action) {
		return nil, fmt.Errorf("%w: role %s cannot %s task %s", domain.ErrUnauthorized, actor.Role, action, task.ID)
	}

	var upd repository.LifecycleUpdate
	switch action {
	case domain.ActionApprove:
		upd = repository.LifecycleUpdate{
			Stage:          domain.StageReview,
			Status:         domain.TaskStatusApproved,
			ClientFeedback: &feedback,
		}
	case domain.ActionReject:
		graph, ok := domain.GraphFor(task.Type)
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownTaskType, task.Type)
		}
		upd = repository.LifecycleUpdate{
			Stage:          graph.ReturnStage,
			Status:         domain.TaskStatusRevision,
			ClientFeedback: &feedback,
		}
		// Responsibility moves to the return stage's owner role. A task pinned
		// to a specialist who cannot act on that stage is unpicked so the
		// owning role's queue sees it.
		if task.AssignedTo != nil {
			if owner, ok := domain.StageOwner(task.Type, graph.ReturnStage); ok {
				assignee, err := s.users.GetByID(ctx, *task.AssignedTo)
				if err != nil {
					return nil, err
				}
				if assignee.Role != owner {
					upd.SetAssignee = true
				}
			}
		}
	default:
		return nil, fmt.Errorf("%w: action %s", domain.ErrValidation, action)
	}

	oldStage, oldStatus := task.WorkflowStage, task.Status
	prevAssignee := task.AssignedTo

	updatedAt, err := s.tasks.UpdateLifecycle(ctx, tx, task.ID, task.UpdatedAt, upd)
	if err != nil {
		return nil, err
	}
	task.WorkflowStage = upd.Stage
	task.Status = upd.Status
	task.ClientFeedback = feedback
	task.UpdatedAt = updatedAt
	if upd.SetAssignee {
		task.AssignedTo = upd.AssignedTo
	}

	note := ""
	if action == domain.ActionReject {
		if owner, ok := domain.StageOwner(task.Type, upd.Stage); ok {
			note = fmt.Sprintf("returned to %s (%s)", upd.Stage, owner)
		} else {
			note = fmt.Sprintf("returned to %s", upd.Stage)
		}
	}

	event := &domain.TaskEvent{
		TaskID:    task.ID,
		ActorID:   &actor.ID,
		Action:    action,
		OldStage:  oldStage,
		NewStage:  task.WorkflowStage,
		OldStatus: oldStatus,
		NewStatus: task.Status,
		Note:      note,
	}
	if err := s.events.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("task disposition",
		"task_id", task.ID,
		"action", action,
		"actor_id", actor.ID,
		"new_stage", task.WorkflowStage,
		"new_status", task.Status,
	)

	s.notifier.Notify(ctx, task, Transition{
		Action:    action,
		Actor:     actor,
		OldStage:  oldStage,
		NewStage:  task.WorkflowStage,
		NewStatus: task.Status,
		Feedback:  feedback,
	}, s.dispositionRecipients(task, prevAssignee, actor))

	return task, nil
}

// dispositionRecipients notifies the responsible parties for the verdict: the
// specialist who held the task when it went to review and the creating
// manager. The pre-disposition assignee is passed in because rejection may
// have unpicked them.
func (s *RevisionService) dispositionRecipients(task *domain.Task, prevAssignee *string, actor *domain.User) []string {
	var recipients []string
	if prevAssignee != nil && *prevAssignee != actor.ID {
		recipients = append(recipients, *prevAssignee)
	}
	if task.CreatedBy != actor.ID {
		recipients = append(recipients, task.CreatedBy)
	}
	return recipients
}
