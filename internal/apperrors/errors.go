package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates a missing, invalid, expired or revoked session.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller is authenticated but may not act on the resource.
var ErrForbidden = errors.New("forbidden")

// Domain taxonomy. Each wraps one of the generic sentinels above so callers
// that only care about the HTTP class can keep using errors.Is(err, ErrNotFound) etc.
var (
	// ErrDuplicateIdentity is returned when registering an identifier that already exists.
	ErrDuplicateIdentity = fmt.Errorf("identity already registered: %w", ErrDuplicate)
	// ErrInvalidCredential covers both unknown identifiers and wrong passwords.
	ErrInvalidCredential = fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	// ErrGroupNotFound is returned when a group name does not resolve.
	ErrGroupNotFound = fmt.Errorf("group not found: %w", ErrNotFound)
	// ErrInvalidInput is the ledger-facing name for validation failures.
	ErrInvalidInput = ErrValidation
	// ErrConcurrentAwardRace is returned when a per-period award was claimed by a concurrent writer.
	ErrConcurrentAwardRace = fmt.Errorf("award already claimed for this period by a concurrent request: %w", ErrDuplicate)
	// ErrCollaboratorUnavailable wraps OCR, LLM and identity provider failures.
	ErrCollaboratorUnavailable = errors.New("external collaborator unavailable")
)

// AppError carries an HTTP status alongside a client-safe message.
type AppError struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap allows errors.Is / errors.As to see the wrapped cause.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewBadRequestError creates a 400 error wrapping ErrValidation.
func NewBadRequestError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrValidation)
}

// NewValidationFailedError creates a 400 error wrapping ErrValidation.
func NewValidationFailedError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrValidation)
}

// NewUnauthorizedError creates a 401 error wrapping ErrUnauthorized.
func NewUnauthorizedError(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, message, ErrUnauthorized)
}

// NewConflictError creates a 409 error wrapping ErrDuplicate.
func NewConflictError(message string) *AppError {
	return NewAppError(http.StatusConflict, message, ErrDuplicate)
}

// NewInternalServerError creates a 500 error.
func NewInternalServerError(message string) *AppError {
	return NewAppError(http.StatusInternalServerError, message, nil)
}

// NewGatewayTimeoutError creates a 504 error wrapping ErrCollaboratorUnavailable.
func NewGatewayTimeoutError(message string) *AppError {
	return NewAppError(http.StatusGatewayTimeout, message, ErrCollaboratorUnavailable)
}
