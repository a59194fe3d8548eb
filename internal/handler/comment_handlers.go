package handler

import (
	"encoding/json"
	"net/http"

	"github.com/flowdesk/flowdesk/internal/domain"
	"github.com/flowdesk/flowdesk/internal/handler/dto"
	"github.com/flowdesk/flowdesk/internal/middleware"
)

// handleCreateComment adds a comment to a task.
// @Summary Comment on a task
// @Tags comments
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body dto.CreateCommentRequest true "Comment request"
// @Success 201 {object} dto.CommentResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/comments [post]
func (h *Handler) handleCreateComment(w http.ResponseWriter, r *http.Request) {
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

	var req dto.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if req.Body == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "body is required")
		return
	}

	if _, err := h.taskRepo.GetByID(ctx, taskID); err != nil {
		respondDomainError(w, err)
		return
	}

	comment, err := h.commentRepo.Create(ctx, &domain.Comment{
		TaskID:   taskID,
		AuthorID: actor.ID,
		Body:     req.Body,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToCommentResponse(comment))
}

// handleListComments lists a task's comments.
// @Summary List comments
// @Tags comments
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {array} dto.CommentResponse
// @Security BearerAuth
// @Router /tasks/{id}/comments [get]
func (h *Handler) handleListComments(w http.ResponseWriter, r *http.Request) {
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

	comments, err := h.commentRepo.ListByTask(ctx, taskID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp := make([]dto.CommentResponse, 0, len(comments))
	for _, c := range comments {
		resp = append(resp, dto.ToCommentResponse(c))
	}

	respondJSON(w, http.StatusOK, resp)
}
