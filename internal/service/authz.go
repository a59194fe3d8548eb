package service

import "github.com/flowdesk/flowdesk/internal/domain"

// CanPerform decides whether an actor may perform a lifecycle action on a
// task. Pure function, no side effects, and evaluated on every request
// against a freshly loaded actor: role and department are mutable account
// attributes, so the verdict must never be cached.
//
// Rules:
//   - admins bypass all checks
//   - clients may only approve/reject, and only their own task while it sits
//     in review
//   - team leads and account managers may perform any non-review action
//     within their department
//   - specialists may only move work forward on tasks of their department
//     whose relevant stage belongs to their specialty
func CanPerform(actor *domain.User, task *domain.Task, action domain.Action) bool {
	if actor == nil || !actor.IsActive {
		return false
	}

	switch actor.Role {
	case domain.RoleAdmin:
		return true

	case domain.RoleClient:
		if action != domain.ActionApprove && action != domain.ActionReject {
			return false
		}
		return task.WorkflowStage == domain.StageReview && task.IsClientOf(actor.ID)

	case domain.RoleTeamLeader, domain.RoleAccountManager:
		// Client disposition stays with the client (or an admin on their behalf).
		if action == domain.ActionApprove || action == domain.ActionReject {
			return false
		}
		return task.Department == actor.Department

	case domain.RoleVideographer, domain.RolePhotographer, domain.RoleEditor,
		domain.RoleCreator, domain.RoleDesigner:
		if !action.IsForward() {
			return false
		}
		if task.Department != actor.Department {
			return false
		}
		return ownsWorkedStage(actor, task)

	default:
		return false
	}
}

// CanContribute decides whether an actor may add work product to a task:
// recording attachments and marking deliverables final follow the same
// stage-ownership rules as moving the stage forward, so clients and
// out-of-department specialists are shut out here too.
func CanContribute(actor *domain.User, task *domain.Task) bool {
	return CanPerform(actor, task, domain.ActionMarkStageDone)
}

// ownsWorkedStage checks that the actor's specialty covers the stage the
// forward action operates on. From "new" that is the first production stage
// the task will enter; otherwise it is the current stage.
func ownsWorkedStage(actor *domain.User, task *domain.Task) bool {
	graph, ok := domain.GraphFor(task.Type)
	if !ok {
		return false
	}

	stage := task.WorkflowStage
	if stage == domain.StageNew {
		stage = graph.FirstProductionStage()
	}

	owner, ok := domain.StageOwner(task.Type, stage)
	if !ok {
		// Stages without a dedicated specialty (general work) fall back to
		// the assignee.
		if stage == domain.StageWorking {
			return task.IsAssignedTo(actor.ID)
		}
		return false
	}
	return owner == actor.Role
}
