package domain

import "time"

// TaskStatus is the coarse lifecycle marker of a task.
type TaskStatus string

const (
	TaskStatusNew        TaskStatus = "new"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusInReview   TaskStatus = "in_review"
	TaskStatusRevision   TaskStatus = "revision"
	TaskStatusApproved   TaskStatus = "approved"
	TaskStatusRejected   TaskStatus = "rejected"
)

// IsTerminal returns true if the status is terminal (no transitions allowed).
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusApproved || s == TaskStatusRejected
}

// IsValid checks if the status is one of the allowed values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusNew, TaskStatusInProgress, TaskStatusInReview,
		TaskStatusRevision, TaskStatusApproved, TaskStatusRejected:
		return true
	default:
		return false
	}
}

// Department is the organizational grouping used for authorization scoping.
type Department string

const (
	DepartmentPhotography Department = "photography"
	DepartmentContent     Department = "content"
)

// IsValid checks if the department is one of the allowed values.
func (d Department) IsValid() bool {
	switch d {
	case DepartmentPhotography, DepartmentContent:
		return true
	default:
		return false
	}
}

// Task represents a unit of production work moving through department stages.
// Department and TaskType are fixed at creation; only WorkflowStage, Status,
// AssignedTo and ClientFeedback are mutated by the lifecycle engine.
type Task struct {
	ID             string
	Title          string
	Description    string
	Department     Department
	Type           TaskType
	Status         TaskStatus
	WorkflowStage  Stage
	CreatedBy      string
	AssignedTo     *string
	ClientID       *string
	ProjectID      *string
	ClientFeedback string
	Deadline       *time.Time
	ScheduledDate  *time.Time
	Location       string
	CompanyName    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsTerminal returns true if no further lifecycle transitions are allowed.
func (t *Task) IsTerminal() bool {
	return t.Status.IsTerminal()
}

// IsAssignedTo checks if the task is assigned to the given user.
func (t *Task) IsAssignedTo(userID string) bool {
	return t.AssignedTo != nil && *t.AssignedTo == userID
}

// IsClientOf checks if the given user is the task's client.
func (t *Task) IsClientOf(userID string) bool {
	return t.ClientID != nil && *t.ClientID == userID
}

// InReview returns true while the task awaits client disposition.
func (t *Task) InReview() bool {
	return t.WorkflowStage == StageReview && !t.Status.IsTerminal()
}
