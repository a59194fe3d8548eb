package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/flowdesk/flowdesk/internal/domain"
	"github.com/flowdesk/flowdesk/internal/handler/dto"
	"github.com/flowdesk/flowdesk/internal/middleware"
	"github.com/flowdesk/flowdesk/internal/repository"
	"github.com/flowdesk/flowdesk/internal/service"
)

// handleCreateTask creates a new task.
// @Summary Create a new task
// @Description Creates a task in stage "new". Restricted to team leads, account managers and admins.
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body dto.CreateTaskRequest true "Task creation request"
// @Success 201 {object} dto.TaskResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks [post]
func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	if actor.Role != domain.RoleAdmin && !actor.Role.IsManager() {
		respondError(w, http.StatusForbidden, "INSUFFICIENT_ACCESS", "only managers and admins create tasks")
		return
	}

	var req dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if req.Title == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "title is required")
		return
	}

	department := domain.Department(req.Department)
	if actor.Role.IsManager() {
		// Managers create inside their own department regardless of input.
		department = actor.Department
	}

	task, err := h.engine.CreateTask(ctx, service.CreateTaskParams{
		Title:         req.Title,
		Description:   req.Description,
		Department:    department,
		Type:          domain.TaskType(req.TaskType),
		CreatedBy:     actor.ID,
		AssignedTo:    req.AssignedTo,
		ClientID:      req.ClientID,
		ProjectID:     req.ProjectID,
		Deadline:      req.Deadline,
		ScheduledDate: req.ScheduledDate,
		Location:      req.Location,
		CompanyName:   req.CompanyName,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToTaskResponse(task))
}

// handleListTasks lists tasks with filters.
// @Summary List tasks
// @Description List tasks filtered by status, assignee, client, department and task type
// @Tags tasks
// @Produce json
// @Param status query string false "Comma-separated statuses"
// @Param assignee query string false "Assignee UUID or 'me'"
// @Param unassigned query bool false "Only tasks without an assignee"
// @Param client query string false "Client UUID"
// @Param department query string false "Department"
// @Param task_type query string false "Task type"
// @Param limit query int false "Page size (default 50, max 200)"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.TasksListResponse
// @Security BearerAuth
// @Router /tasks [get]
func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	query := r.URL.Query()
	filters := repository.TaskListFilters{
		Limit:  50,
		Offset: 0,
	}

	if statuses := query.Get("status"); statuses != "" {
		filters.Statuses = strings.Split(statuses, ",")
	}
	if query.Get("unassigned") == "true" {
		filters.Unassigned = true
	} else if assignee := query.Get("assignee"); assignee != "" {
		if assignee == "me" {
			assignee = actor.ID
		}
		filters.AssigneeID = &assignee
	}
	if client := query.Get("client"); client != "" {
		filters.ClientID = &client
	}
	if department := query.Get("department"); department != "" {
		filters.Department = &department
	}
	if taskType := query.Get("task_type"); taskType != "" {
		filters.TaskType = &taskType
	}
	if limit := query.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 || n > 200 {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be between 1 and 200")
			return
		}
		filters.Limit = n
	}
	if offset := query.Get("offset"); offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "offset must be non-negative")
			return
		}
		filters.Offset = n
	}

	// Clients only ever see their own tasks.
	if actor.Role == domain.RoleClient {
		filters.ClientID = &actor.ID
	}

	tasks, total, err := h.taskRepo.List(ctx, filters)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp := dto.TasksListResponse{
		Tasks:  make([]dto.TaskResponse, 0, len(tasks)),
		Total:  total,
		Limit:  filters.Limit,
		Offset: filters.Offset,
	}
	for _, task := range tasks {
		resp.Tasks = append(resp.Tasks, dto.ToTaskResponse(task))
	}

	respondJSON(w, http.StatusOK, resp)
}

// handleGetTask retrieves task details with attachments, comments and events.
// @Summary Get task details
// @Description Get full task details including the attachment ledger, comments and transition history
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} dto.TaskDetailResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id} [get]
func (h *Handler) handleGetTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	taskID, ok := extractID(w, r)
	if !ok {
		return
	}

	task, err := h.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	if actor.Role == domain.RoleClient && !task.IsClientOf(actor.ID) {
		respondError(w, http.StatusForbidden, "INSUFFICIENT_ACCESS", "Task not found")
		return
	}

	attachments, err := h.attachmentRepo.ListByTask(ctx, taskID, false)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch attachments")
		return
	}
	comments, err := h.commentRepo.ListByTask(ctx, taskID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch comments")
		return
	}
	events, err := h.eventRepo.GetByTaskID(ctx, taskID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch events")
		return
	}

	resp := dto.TaskDetailResponse{
		Task:        dto.ToTaskResponse(task),
		Attachments: make([]dto.AttachmentResponse, 0, len(attachments)),
		Comments:    make([]dto.CommentResponse, 0, len(comments)),
		Events:      make([]dto.TaskEventResponse, 0, len(events)),
	}
	for _, att := range attachments {
		resp.Attachments = append(resp.Attachments, dto.ToAttachmentResponse(att))
	}
	for _, c := range comments {
		resp.Comments = append(resp.Comments, dto.ToCommentResponse(c))
	}
	for _, event := range events {
		resp.Events = append(resp.Events, dto.ToTaskEventResponse(event))
	}

	respondJSON(w, http.StatusOK, resp)
}

// handleAssignTask assigns a task to a user.
// @Summary Assign a task
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body dto.AssignTaskRequest true "Assignment request"
// @Success 200 {object} dto.TaskResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/assign [post]
func (h *Handler) handleAssignTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	taskID, ok := extractID(w, r)
	if !ok {
		return
	}

	var req dto.AssignTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	task, err := h.engine.Advance(ctx, taskID, actor, domain.ActionAssign, service.AdvanceParams{
		AssigneeID:        &req.AssigneeID,
		ExpectedUpdatedAt: req.ExpectedUpdatedAt,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// handleStartTask moves a task from "new" into its first production stage.
// @Summary Start a task
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body dto.AdvanceTaskRequest false "Optimistic lock token"
// @Success 200 {object} dto.TaskResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/start [post]
func (h *Handler) handleStartTask(w http.ResponseWriter, r *http.Request) {
	h.advanceAction(w, r, domain.ActionStart)
}

// handleAdvanceTask marks the current stage done, moving to the next stage.
// @Summary Mark current stage done
// @Description Advances the task to the next stage in its task type's graph. Reaching review sets status in_review.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body dto.AdvanceTaskRequest false "Optimistic lock token"
// @Success 200 {object} dto.TaskResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/advance [post]
func (h *Handler) handleAdvanceTask(w http.ResponseWriter, r *http.Request) {
	h.advanceAction(w, r, domain.ActionMarkStageDone)
}

// handleSubmitTask submits the final production stage for client review.
// @Summary Submit for review
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body dto.AdvanceTaskRequest false "Optimistic lock token"
// @Success 200 {object} dto.TaskResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/submit [post]
func (h *Handler) handleSubmitTask(w http.ResponseWriter, r *http.Request) {
	h.advanceAction(w, r, domain.ActionSubmitForReview)
}

// advanceAction is the shared body of the start/advance/submit handlers.
func (h *Handler) advanceAction(w http.ResponseWriter, r *http.Request, action domain.Action) {
	ctx := r.Context()

	actor, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	taskID, ok := extractID(w, r)
	if !ok {
		return
	}

	var req dto.AdvanceTaskRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
			return
		}
	}

	task, err := h.engine.Advance(ctx, taskID, actor, action, service.AdvanceParams{
		ExpectedUpdatedAt: req.ExpectedUpdatedAt,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// handleApproveTask approves a task in review.
// @Summary Approve a task
// @Description Client (or admin) sign-off. Terminal: the task accepts no further transitions.
// @Tags review
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body dto.ApproveTaskRequest false "Optional confirmation feedback"
// @Success 200 {object} dto.TaskResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/approve [post]
func (h *Handler) handleApproveTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	taskID, ok := extractID(w, r)
	if !ok {
		return
	}

	var req dto.ApproveTaskRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
			return
		}
	}

	task, err := h.revisions.Approve(ctx, taskID, actor, req.Feedback)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// handleRejectTask rejects a task in review, sending it back for revision.
// @Summary Reject a task with feedback
// @Description Sends the task back to its return stage with status "revision". Feedback is required.
// @Tags review
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body dto.RejectTaskRequest true "Rejection feedback"
// @Success 200 {object} dto.TaskResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/reject [post]
func (h *Handler) handleRejectTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	taskID, ok := extractID(w, r)
	if !ok {
		return
	}

	var req dto.RejectTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	task, err := h.revisions.Reject(ctx, taskID, actor, req.Feedback)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}
