package handler

import (
	"encoding/json"
	"net/http"

	"github.com/flowdesk/flowdesk/internal/domain"
	"github.com/flowdesk/flowdesk/internal/handler/dto"
	"github.com/flowdesk/flowdesk/internal/middleware"
	"github.com/flowdesk/flowdesk/internal/service"
)

// handleCreateAttachment records an uploaded deliverable in the ledger.
// @Summary Record an attachment
// @Description Appends an attachment to a task's ledger. file_url and file_name come from the blob store's upload response.
// @Tags attachments
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body dto.CreateAttachmentRequest true "Attachment request"
// @Success 201 {object} dto.AttachmentResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/attachments [post]
func (h *Handler) handleCreateAttachment(w http.ResponseWriter, r *http.Request) {
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

	var req dto.CreateAttachmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if req.FileURL == "" || req.FileName == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "file_url and file_name are required")
		return
	}

	task, err := h.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if task.IsTerminal() {
		respondError(w, http.StatusConflict, "ALREADY_TERMINAL", "task no longer accepts uploads")
		return
	}
	if !service.CanContribute(actor, task) {
		respondError(w, http.StatusForbidden, "INSUFFICIENT_ACCESS", "role cannot upload to this task")
		return
	}

	att, err := h.attachmentRepo.Create(ctx, &domain.Attachment{
		TaskID:     taskID,
		FileURL:    req.FileURL,
		FileName:   req.FileName,
		UploadedBy: actor.ID,
		IsFinal:    req.IsFinal,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToAttachmentResponse(att))
}

// handleListAttachments lists a task's attachments.
// @Summary List attachments
// @Tags attachments
// @Produce json
// @Param id path string true "Task ID"
// @Param final query bool false "Only deliverable candidates (is_final)"
// @Success 200 {array} dto.AttachmentResponse
// @Security BearerAuth
// @Router /tasks/{id}/attachments [get]
func (h *Handler) handleListAttachments(w http.ResponseWriter, r *http.Request) {
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

	finalOnly := r.URL.Query().Get("final") == "true"

	attachments, err := h.attachmentRepo.ListByTask(ctx, taskID, finalOnly)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp := make([]dto.AttachmentResponse, 0, len(attachments))
	for _, att := range attachments {
		resp = append(resp, dto.ToAttachmentResponse(att))
	}

	respondJSON(w, http.StatusOK, resp)
}

// handleMarkAttachmentFinal marks an attachment as a deliverable candidate.
// @Summary Mark attachment final
// @Description Sets is_final. The flag can be set exactly once and is never cleared.
// @Tags attachments
// @Produce json
// @Param id path string true "Attachment ID"
// @Success 204 "No Content"
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /attachments/{id}/final [post]
func (h *Handler) handleMarkAttachmentFinal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	attachmentID, ok := extractID(w, r)
	if !ok {
		return
	}

	att, err := h.attachmentRepo.GetByID(ctx, attachmentID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	task, err := h.taskRepo.GetByID(ctx, att.TaskID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if !service.CanContribute(actor, task) {
		respondError(w, http.StatusForbidden, "INSUFFICIENT_ACCESS", "role cannot mark deliverables on this task")
		return
	}

	if err := h.attachmentRepo.MarkFinal(ctx, attachmentID); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
