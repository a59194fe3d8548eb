package dto

import "time"

// CreateTaskRequest represents the request body for POST /tasks.
type CreateTaskRequest struct {
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Department    string     `json:"department"`
	TaskType      string     `json:"task_type"`
	AssignedTo    *string    `json:"assigned_to,omitempty"`
	ClientID      *string    `json:"client_id,omitempty"`
	ProjectID     *string    `json:"project_id,omitempty"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
	Location      string     `json:"location,omitempty"`
	CompanyName   string     `json:"company_name,omitempty"`
}

// AssignTaskRequest represents the request body for POST /tasks/:id/assign.
type AssignTaskRequest struct {
	AssigneeID        string     `json:"assignee_id"`
	ExpectedUpdatedAt *time.Time `json:"expected_updated_at,omitempty"`
}

// AdvanceTaskRequest represents the request body for the start, advance and
// submit actions. ExpectedUpdatedAt is the updated_at the caller last saw;
// when set, a concurrent modification surfaces as 409 CONFLICT instead of a
// silent overwrite.
type AdvanceTaskRequest struct {
	ExpectedUpdatedAt *time.Time `json:"expected_updated_at,omitempty"`
}

// ApproveTaskRequest represents the request body for POST /tasks/:id/approve.
type ApproveTaskRequest struct {
	Feedback string `json:"feedback,omitempty"`
}

// RejectTaskRequest represents the request body for POST /tasks/:id/reject.
type RejectTaskRequest struct {
	Feedback string `json:"feedback"`
}

// CreateAttachmentRequest represents the request body for POST /tasks/:id/attachments.
// FileURL and FileName come from the external blob store's upload response.
type CreateAttachmentRequest struct {
	FileURL  string `json:"file_url"`
	FileName string `json:"file_name"`
	IsFinal  bool   `json:"is_final,omitempty"`
}

// CreateCommentRequest represents the request body for POST /tasks/:id/comments.
type CreateCommentRequest struct {
	Body string `json:"body"`
}
