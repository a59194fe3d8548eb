package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/flowdesk/flowdesk/internal/domain"
	"github.com/flowdesk/flowdesk/internal/repository"
)

// Transition describes an accepted lifecycle change for notification purposes.
type Transition struct {
	Action    domain.Action
	Actor     *domain.User
	OldStage  domain.Stage
	NewStage  domain.Stage
	NewStatus domain.TaskStatus
	Feedback  string
}

// Notifier creates notifications for the parties affected by a transition.
// Delivery is best-effort: a task's lifecycle must never depend on
// notification writes succeeding, so failures are logged and swallowed.
type Notifier struct {
	notifications *repository.NotificationRepository
	links         *LinkResolver
}

// NewNotifier creates a new Notifier.
func NewNotifier(notifications *repository.NotificationRepository, links *LinkResolver) *Notifier {
	return &Notifier{
		notifications: notifications,
		links:         links,
	}
}

// Notify creates one notification per recipient. The stored link carries the
// acting user's role prefix; LinkResolver.ResolveForViewer remaps it at read
// time for whoever opens it.
func (n *Notifier) Notify(ctx context.Context, task *domain.Task, tr Transition, recipientIDs []string) {
	if len(recipientIDs) == 0 {
		return
	}

	title, message, link := n.compose(task, tr)

	for _, recipientID := range recipientIDs {
		notification := &domain.Notification{
			RecipientID: recipientID,
			Title:       title,
			Message:     message,
			Link:        link,
		}
		if err := n.notifications.Create(ctx, notification); err != nil {
			slog.Error("failed to create notification",
				"task_id", task.ID,
				"recipient_id", recipientID,
				"action", tr.Action,
				"error", err,
			)
		}
	}
}

func (n *Notifier) compose(task *domain.Task, tr Transition) (title, message, link string) {
	role := tr.Actor.Role

	switch tr.Action {
	case domain.ActionAssign:
		title = "Task assigned"
		message = fmt.Sprintf("%q was assigned to you by %s", task.Title, tr.Actor.Name)
		link = n.links.TaskLink(role, task.ID)
	case domain.ActionApprove:
		title = "Task approved"
		message = fmt.Sprintf("%q was approved by the client", task.Title)
		link = n.links.TaskLink(role, task.ID)
	case domain.ActionReject:
		title = "Revision requested"
		message = fmt.Sprintf("%q needs revision: %s", task.Title, tr.Feedback)
		link = n.links.RevisionsLink(role)
	default:
		if tr.NewStage == domain.StageReview {
			title = "Ready for review"
			message = fmt.Sprintf("%q is ready for your review", task.Title)
		} else {
			title = "Task updated"
			message = fmt.Sprintf("%q moved to %s", task.Title, tr.NewStage)
		}
		link = n.links.TaskLink(role, task.ID)
	}

	return title, message, link
}
