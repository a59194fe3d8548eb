package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/flowdesk/flowdesk/docs" // Import generated docs
	"github.com/flowdesk/flowdesk/internal/handler/dto"
	"github.com/flowdesk/flowdesk/internal/middleware"
	"github.com/flowdesk/flowdesk/internal/realtime"
	"github.com/flowdesk/flowdesk/internal/repository"
	"github.com/flowdesk/flowdesk/internal/service"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	pool           *pgxpool.Pool
	engine         *service.Engine
	revisions      *service.RevisionService
	links          *service.LinkResolver
	taskRepo       *repository.TaskRepository
	attachmentRepo *repository.AttachmentRepository
	commentRepo    *repository.CommentRepository
	notifRepo      *repository.NotificationRepository
	eventRepo      *repository.TaskEventRepository
	userRepo       *repository.UserRepository
	hub            *realtime.Hub
	authMiddleware *middleware.AuthMiddleware
}

// New creates a new Handler instance with all dependencies.
func New(pool *pgxpool.Pool, hub *realtime.Hub) (*Handler, error) {
	taskRepo := repository.NewTaskRepository(pool)
	attachmentRepo := repository.NewAttachmentRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	notifRepo := repository.NewNotificationRepository(pool)
	eventRepo := repository.NewTaskEventRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	links, err := service.NewLinkResolver()
	if err != nil {
		return nil, err
	}
	notifier := service.NewNotifier(notifRepo, links)
	engine := service.NewEngine(pool, taskRepo, eventRepo, userRepo, notifier)
	revisions := service.NewRevisionService(pool, taskRepo, eventRepo, userRepo, notifier)

	return &Handler{
		pool:           pool,
		engine:         engine,
		revisions:      revisions,
		links:          links,
		taskRepo:       taskRepo,
		attachmentRepo: attachmentRepo,
		commentRepo:    commentRepo,
		notifRepo:      notifRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		hub:            hub,
		authMiddleware: middleware.NewAuthMiddleware(userRepo),
	}, nil
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	// Swagger UI
	mux.HandleFunc("GET /swagger/", httpSwagger.Handler())

	auth := h.authMiddleware.Authenticate

	// Tasks
	mux.Handle("GET /api/v1/tasks", auth(http.HandlerFunc(h.handleListTasks)))
	mux.Handle("POST /api/v1/tasks", auth(http.HandlerFunc(h.handleCreateTask)))
	mux.Handle("GET /api/v1/tasks/{id}", auth(http.HandlerFunc(h.handleGetTask)))
	mux.Handle("POST /api/v1/tasks/{id}/assign", auth(http.HandlerFunc(h.handleAssignTask)))
	mux.Handle("POST /api/v1/tasks/{id}/start", auth(http.HandlerFunc(h.handleStartTask)))
	mux.Handle("POST /api/v1/tasks/{id}/advance", auth(http.HandlerFunc(h.handleAdvanceTask)))
	mux.Handle("POST /api/v1/tasks/{id}/submit", auth(http.HandlerFunc(h.handleSubmitTask)))
	mux.Handle("POST /api/v1/tasks/{id}/approve", auth(http.HandlerFunc(h.handleApproveTask)))
	mux.Handle("POST /api/v1/tasks/{id}/reject", auth(http.HandlerFunc(h.handleRejectTask)))

	// Attachments
	mux.Handle("GET /api/v1/tasks/{id}/attachments", auth(http.HandlerFunc(h.handleListAttachments)))
	mux.Handle("POST /api/v1/tasks/{id}/attachments", auth(http.HandlerFunc(h.handleCreateAttachment)))
	mux.Handle("POST /api/v1/attachments/{id}/final", auth(http.HandlerFunc(h.handleMarkAttachmentFinal)))

	// Comments
	mux.Handle("GET /api/v1/tasks/{id}/comments", auth(http.HandlerFunc(h.handleListComments)))
	mux.Handle("POST /api/v1/tasks/{id}/comments", auth(http.HandlerFunc(h.handleCreateComment)))

	// Notifications
	mux.Handle("GET /api/v1/notifications", auth(http.HandlerFunc(h.handleListNotifications)))
	mux.Handle("POST /api/v1/notifications/{id}/read", auth(http.HandlerFunc(h.handleMarkNotificationRead)))

	// Stats and realtime
	mux.Handle("GET /api/v1/stats", auth(http.HandlerFunc(h.handleGetStats)))
	mux.Handle("GET /api/v1/events", auth(http.HandlerFunc(h.handleEvents)))
}

// handleHealthz returns 200 OK if the database is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.pool.Ping(ctx); err != nil {
		slog.Error("database health check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Ping checks if the database is reachable (used for testing).
func (h *Handler) Ping(ctx context.Context) error {
	return h.pool.Ping(ctx)
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.NewErrorResponse(code, message))
}

// respondDomainError maps a domain error and writes it.
func respondDomainError(w http.ResponseWriter, err error) {
	status, code, message := dto.MapDomainError(err)
	respondError(w, status, code, message)
}

// extractID extracts and validates a UUID path parameter.
// Returns (id, true) if valid, ("", false) if invalid (error already sent to client).
func extractID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "id is required")
		return "", false
	}

	if _, err := uuid.Parse(id); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "id must be a valid UUID")
		return "", false
	}

	return id, true
}
