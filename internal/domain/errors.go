package domain

import "errors"

// Domain-specific errors for lifecycle and authorization failures.
var (
	// Lifecycle errors
	ErrTaskNotFound      = errors.New("task not found")
	ErrInvalidTransition = errors.New("invalid stage transition")
	ErrAlreadyTerminal   = errors.New("task is already approved or rejected")
	ErrConflict          = errors.New("task was modified concurrently")

	// Authorization errors
	ErrUnauthorized = errors.New("role is not allowed to perform this action")
	ErrInvalidToken = errors.New("invalid authentication token")

	// Actor errors
	ErrUserNotFound = errors.New("user not found")
	ErrUserInactive = errors.New("user is inactive")

	// Attachment errors
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrAlreadyFinal       = errors.New("attachment is already marked final")

	// Notification errors
	ErrNotificationNotFound = errors.New("notification not found")

	// Validation errors
	ErrValidation        = errors.New("validation failed")
	ErrEmptyFeedback     = errors.New("rejection feedback is required")
	ErrUnknownTaskType   = errors.New("unknown task type")
	ErrUnknownDepartment = errors.New("unknown department")
)
