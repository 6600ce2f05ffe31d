// Package domain holds the quest game's entities, rules and error types.
// Domain errors describe business failures, not transport ones; adapters map
// them to HTTP statuses or CLI exit messages.
package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates the entity is in a state that forbids the action,
	// such as starting a quest that is already active.
	ErrConflict = errors.New("conflict")

	// ErrValidation indicates the request itself is malformed.
	ErrValidation = errors.New("validation failed")

	// ErrForbidden indicates the player may not perform the action.
	ErrForbidden = errors.New("forbidden")

	// ErrUnavailable indicates the quest backend could not be reached.
	ErrUnavailable = errors.New("unavailable")
)

// ErrorKind tags how a backend call failed.
type ErrorKind string

// Error kinds.
const (
	// KindServer means the backend answered with a non-2xx status.
	KindServer ErrorKind = "server"

	// KindNetwork means the request was sent but no response arrived.
	KindNetwork ErrorKind = "network"

	// KindSetup means the request was never dispatched.
	KindSetup ErrorKind = "setup"

	// KindGeneric covers failures that did not come from the HTTP client.
	KindGeneric ErrorKind = "generic"
)

// APIError is the single error shape every backend call surfaces. Detail is
// the human readable message; Status is 0 unless the backend responded.
type APIError struct {
	Kind   ErrorKind
	Detail string
	Status int
	Cause  error
}

// Error returns the human readable detail.
func (e *APIError) Error() string {
	return e.Detail
}

// Unwrap exposes the client error the detail was derived from.
func (e *APIError) Unwrap() error {
	return e.Cause
}

// Is maps the error onto the domain sentinels so callers can branch without
// looking at status codes.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrConflict:
		return e.Status == http.StatusConflict
	case ErrValidation:
		return e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity
	case ErrForbidden:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case ErrUnavailable:
		return e.Kind == KindNetwork ||
			e.Status == http.StatusTooManyRequests ||
			e.Status >= http.StatusInternalServerError
	default:
		return false
	}
}

// NewAPIError builds an APIError.
func NewAPIError(kind ErrorKind, detail string, status int, cause error) *APIError {
	return &APIError{Kind: kind, Detail: detail, Status: status, Cause: cause}
}

// NotFoundError names the missing entity.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
	}

	return e.Entity + " not found"
}

// Unwrap returns ErrNotFound.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError creates a not found error.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ConflictError explains why an entity's current state blocks an action.
// Reason is shown to players as is.
type ConflictError struct {
	Entity string
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

// Unwrap returns ErrConflict.
func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// NewConflictError creates a conflict error.
func NewConflictError(entity, reason string) error {
	return &ConflictError{Entity: entity, Reason: reason}
}

// ValidationError reports a malformed input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}

	return e.Message
}

// Unwrap returns ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a validation error.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ForbiddenError reports an action the player is not allowed to take.
type ForbiddenError struct {
	Operation string
	Reason    string
}

func (e *ForbiddenError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}

	return fmt.Sprintf("%s is not allowed", e.Operation)
}

// Unwrap returns ErrForbidden.
func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

// NewForbiddenError creates a forbidden error.
func NewForbiddenError(operation, reason string) error {
	return &ForbiddenError{Operation: operation, Reason: reason}
}

// IsNotFound reports whether err is, or wraps, a not found failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict reports whether err is, or wraps, a conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsValidation reports whether err is, or wraps, a validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsForbidden reports whether err is, or wraps, a forbidden action.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsUnavailable reports whether err is, or wraps, an unreachable backend.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// AsAPIError extracts the normalized backend error from err's chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}

	return nil, false
}
