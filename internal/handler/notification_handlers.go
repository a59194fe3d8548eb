package handler

import (
	"net/http"

	"github.com/flowdesk/flowdesk/internal/handler/dto"
	"github.com/flowdesk/flowdesk/internal/middleware"
)

// handleListNotifications lists the actor's notifications. Stored links carry
// the sending role's path prefix; each is resolved for the viewer here, at
// read time.
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Param unread query bool false "Only unread notifications"
// @Success 200 {object} dto.NotificationsListResponse
// @Security BearerAuth
// @Router /notifications [get]
func (h *Handler) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"

	notifications, err := h.notifRepo.ListByRecipient(ctx, actor.ID, unreadOnly)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	unread, err := h.notifRepo.CountUnread(ctx, actor.ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp := dto.NotificationsListResponse{
		Notifications: make([]dto.NotificationResponse, 0, len(notifications)),
		UnreadCount:   unread,
	}
	for _, n := range notifications {
		resolved := h.links.ResolveForViewer(n.Link, actor.Role)
		resp.Notifications = append(resp.Notifications, dto.ToNotificationResponse(n, resolved))
	}

	respondJSON(w, http.StatusOK, resp)
}

// handleMarkNotificationRead marks one of the actor's notifications as read.
// @Summary Mark notification read
// @Tags notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /notifications/{id}/read [post]
func (h *Handler) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	notificationID, ok := extractID(w, r)
	if !ok {
		return
	}

	if err := h.notifRepo.MarkRead(ctx, notificationID, actor.ID); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
