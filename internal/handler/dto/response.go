package dto

import (
	"time"

	"github.com/flowdesk/flowdesk/internal/domain"
)

// TaskResponse represents a task in list and mutation responses.
type TaskResponse struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Department     string     `json:"department"`
	TaskType       string     `json:"task_type"`
	Status         string     `json:"status"`
	WorkflowStage  string     `json:"workflow_stage"`
	CreatedBy      string     `json:"created_by"`
	AssignedTo     *string    `json:"assigned_to"`
	ClientID       *string    `json:"client_id"`
	ProjectID      *string    `json:"project_id"`
	ClientFeedback string     `json:"client_feedback"`
	Deadline       *time.Time `json:"deadline"`
	ScheduledDate  *time.Time `json:"scheduled_date"`
	Location       string     `json:"location"`
	CompanyName    string     `json:"company_name"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TasksListResponse represents the response for GET /tasks.
type TasksListResponse struct {
	Tasks  []TaskResponse `json:"tasks"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// TaskDetailResponse represents full task details with attachments, comments
// and the transition audit trail.
type TaskDetailResponse struct {
	Task        TaskResponse         `json:"task"`
	Attachments []AttachmentResponse `json:"attachments"`
	Comments    []CommentResponse    `json:"comments"`
	Events      []TaskEventResponse  `json:"events"`
}

// AttachmentResponse represents an attachment ledger entry.
type AttachmentResponse struct {
	ID         string    `json:"id"`
	TaskID     string    `json:"task_id"`
	FileURL    string    `json:"file_url"`
	FileName   string    `json:"file_name"`
	UploadedBy string    `json:"uploaded_by"`
	IsFinal    bool      `json:"is_final"`
	CreatedAt  time.Time `json:"created_at"`
}

// CommentResponse represents a task comment.
type CommentResponse struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskEventResponse represents one audit trail entry.
type TaskEventResponse struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	ActorID   *string   `json:"actor_id"`
	Action    string    `json:"action"`
	OldStage  string    `json:"old_stage"`
	NewStage  string    `json:"new_stage"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationResponse represents a notification with its link already
// resolved for the viewing role.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Link      string    `json:"link"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationsListResponse represents the response for GET /notifications.
type NotificationsListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int                    `json:"unread_count"`
}

// StatsResponse represents dashboard statistics.
type StatsResponse struct {
	TasksByStatus     map[string]int `json:"tasks_by_status"`
	TasksByDepartment map[string]int `json:"tasks_by_department"`
	PendingReviews    int            `json:"pending_reviews"`
}

// ToTaskResponse converts domain.Task to TaskResponse.
func ToTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		Department:     string(task.Department),
		TaskType:       string(task.Type),
		Status:         string(task.Status),
		WorkflowStage:  string(task.WorkflowStage),
		CreatedBy:      task.CreatedBy,
		AssignedTo:     task.AssignedTo,
		ClientID:       task.ClientID,
		ProjectID:      task.ProjectID,
		ClientFeedback: task.ClientFeedback,
		Deadline:       task.Deadline,
		ScheduledDate:  task.ScheduledDate,
		Location:       task.Location,
		CompanyName:    task.CompanyName,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}
}

// ToAttachmentResponse converts domain.Attachment to AttachmentResponse.
func ToAttachmentResponse(att *domain.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:         att.ID,
		TaskID:     att.TaskID,
		FileURL:    att.FileURL,
		FileName:   att.FileName,
		UploadedBy: att.UploadedBy,
		IsFinal:    att.IsFinal,
		CreatedAt:  att.CreatedAt,
	}
}

// ToCommentResponse converts domain.Comment to CommentResponse.
func ToCommentResponse(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		TaskID:    c.TaskID,
		AuthorID:  c.AuthorID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}

// ToTaskEventResponse converts domain.TaskEvent to TaskEventResponse.
func ToTaskEventResponse(event *domain.TaskEvent) TaskEventResponse {
	return TaskEventResponse{
		ID:        event.ID,
		TaskID:    event.TaskID,
		ActorID:   event.ActorID,
		Action:    string(event.Action),
		OldStage:  string(event.OldStage),
		NewStage:  string(event.NewStage),
		OldStatus: string(event.OldStatus),
		NewStatus: string(event.NewStatus),
		Note:      event.Note,
		CreatedAt: event.CreatedAt,
	}
}

// ToNotificationResponse converts domain.Notification to NotificationResponse
// with the link already rewritten for the viewer.
func ToNotificationResponse(n *domain.Notification, resolvedLink string) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Link:      resolvedLink,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}
