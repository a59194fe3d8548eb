package dto

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/flowdesk/flowdesk/internal/domain"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorResponse creates a new error response.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// MapDomainError maps domain errors to HTTP status codes and error codes.
// Conflict is the one status callers are expected to retry, after re-fetching
// current task state.
func MapDomainError(err error) (status int, code string, message string) {
	message = err.Error()

	switch {
	// Lifecycle errors
	case errors.Is(err, domain.ErrTaskNotFound):
		return http.StatusNotFound, "TASK_NOT_FOUND", message
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, "INVALID_TRANSITION", message
	case errors.Is(err, domain.ErrAlreadyTerminal):
		return http.StatusConflict, "ALREADY_TERMINAL", message
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "CONFLICT", message

	// Authorization errors
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden, "INSUFFICIENT_ACCESS", message
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, "INVALID_TOKEN", message

	// Actor errors
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusUnprocessableEntity, "USER_NOT_FOUND", message
	case errors.Is(err, domain.ErrUserInactive):
		return http.StatusUnauthorized, "USER_INACTIVE", message

	// Attachment errors
	case errors.Is(err, domain.ErrAttachmentNotFound):
		return http.StatusNotFound, "ATTACHMENT_NOT_FOUND", message
	case errors.Is(err, domain.ErrAlreadyFinal):
		return http.StatusConflict, "ALREADY_FINAL", message

	// Notification errors
	case errors.Is(err, domain.ErrNotificationNotFound):
		return http.StatusNotFound, "NOTIFICATION_NOT_FOUND", message

	// Validation errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrEmptyFeedback),
		errors.Is(err, domain.ErrUnknownTaskType),
		errors.Is(err, domain.ErrUnknownDepartment):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message

	default:
		slog.Error("unmapped domain error returned to client",
			"error", err,
			"error_type", fmt.Sprintf("%T", err),
		)
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"
	}
}
