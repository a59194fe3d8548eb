package handler

import (
	"net/http"

	"github.com/flowdesk/flowdesk/internal/handler/dto"
	"github.com/flowdesk/flowdesk/internal/middleware"
)

// handleGetStats returns dashboard statistics.
// @Summary Get dashboard statistics
// @Description Task counts by status and department plus the pending review queue size
// @Tags stats
// @Produce json
// @Success 200 {object} dto.StatsResponse
// @Security BearerAuth
// @Router /stats [get]
func (h *Handler) handleGetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := middleware.GetUserFromContext(ctx); err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	stats, err := h.taskRepo.GetDashboardStats(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch stats")
		return
	}

	respondJSON(w, http.StatusOK, dto.StatsResponse{
		TasksByStatus:     stats.TasksByStatus,
		TasksByDepartment: stats.TasksByDepartment,
		PendingReviews:    stats.PendingReviews,
	})
}
