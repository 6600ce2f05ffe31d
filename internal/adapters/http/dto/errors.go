// Package dto holds the gateway's request and response shapes and the
// mapping from domain errors to HTTP error envelopes.
package dto

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/questboard/internal/app"
	"github.com/jsamuelsen/questboard/internal/domain"
	"github.com/jsamuelsen/questboard/internal/platform/logging"
)

// ErrorResponse is the envelope of every gateway error.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"trace_id,omitempty"`
}

// ErrorDetail carries a machine-readable code and a message safe to show a
// player. Details holds per-field validation messages.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// Error codes.
const (
	ErrorCodeNotFound    = "NOT_FOUND"
	ErrorCodeConflict    = "CONFLICT"
	ErrorCodeValidation  = "VALIDATION_ERROR"
	ErrorCodeForbidden   = "FORBIDDEN"
	ErrorCodeUnavailable = "SERVICE_UNAVAILABLE"
	ErrorCodeBadGateway  = "BAD_GATEWAY"
	ErrorCodeInternal    = "INTERNAL_ERROR"
	ErrorCodeTimeout     = "TIMEOUT"
	ErrorCodeBadRequest  = "BAD_REQUEST"
)

const internalMessage = "an internal error occurred"

// NewErrorResponse creates an envelope.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// NewErrorResponseWithDetails creates an envelope with field details.
func NewErrorResponseWithDetails(code, message string, details map[string]string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorDetail{Code: code, Message: message, Details: details}}
}

// WithTraceID sets the trace ID.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}

// HTTPStatusFromCode maps an error code to its status.
func HTTPStatusFromCode(code string) int {
	switch code {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeConflict:
		return http.StatusConflict
	case ErrorCodeValidation, ErrorCodeBadRequest:
		return http.StatusBadRequest
	case ErrorCodeForbidden:
		return http.StatusForbidden
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeBadGateway:
		return http.StatusBadGateway
	case ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// TraceID returns the active span's trace ID, or "".
func TraceID(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		return sc.TraceID().String()
	}

	return ""
}

// MapError turns an error from the app layer into a status and envelope.
// Rule violations keep their player-facing reason; backend failures keep the
// normalized detail. Anything unrecognized becomes a generic 500.
func MapError(err error) (int, *ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	msg := publicMessage(err)

	switch {
	case domain.IsNotFound(err):
		return http.StatusNotFound, NewErrorResponse(ErrorCodeNotFound, msg)

	case domain.IsConflict(err):
		return http.StatusConflict, NewErrorResponse(ErrorCodeConflict, msg)

	case domain.IsValidation(err):
		resp := NewErrorResponse(ErrorCodeValidation, msg)

		var ve *domain.ValidationError
		if errors.As(err, &ve) && ve.Field != "" {
			resp.Error.Details = map[string]string{ve.Field: ve.Message}
		}

		return http.StatusBadRequest, resp

	case domain.IsForbidden(err):
		return http.StatusForbidden, NewErrorResponse(ErrorCodeForbidden, msg)

	case domain.IsUnavailable(err):
		return http.StatusServiceUnavailable, NewErrorResponse(ErrorCodeUnavailable, msg)
	}

	if apiErr, ok := domain.AsAPIError(err); ok {
		if apiErr.Kind == domain.KindSetup {
			return http.StatusBadRequest, NewErrorResponse(ErrorCodeBadRequest, apiErr.Detail)
		}

		return http.StatusBadGateway, NewErrorResponse(ErrorCodeBadGateway, apiErr.Detail)
	}

	if step, ok := app.FailedStep(err); ok && step == app.StepVerify {
		return http.StatusBadGateway, NewErrorResponse(ErrorCodeBadGateway, "the quest service returned an unexpected result")
	}

	return http.StatusInternalServerError, NewErrorResponse(ErrorCodeInternal, internalMessage)
}

// publicMessage digs out the innermost message meant for players, skipping
// the action and step prefixes the app layer adds.
func publicMessage(err error) string {
	var (
		conflict   *domain.ConflictError
		forbidden  *domain.ForbiddenError
		validation *domain.ValidationError
		notFound   *domain.NotFoundError
	)

	if apiErr, ok := domain.AsAPIError(err); ok {
		return apiErr.Detail
	}

	switch {
	case errors.As(err, &conflict):
		return conflict.Error()
	case errors.As(err, &forbidden):
		return forbidden.Error()
	case errors.As(err, &validation):
		return validation.Error()
	case errors.As(err, &notFound):
		return notFound.Error()
	default:
		return err.Error()
	}
}

// HandleError writes the envelope for err. 5xx errors are logged with the
// full chain.
func HandleError(c *gin.Context, err error) {
	status, resp := MapError(err)
	resp.TraceID = TraceID(c.Request.Context())

	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).Error("request failed",
			slog.Int("status", status),
			slog.Any("error", err),
			slog.String("trace_id", resp.TraceID),
		)
	}

	c.JSON(status, resp)
}

// RespondWithCode writes an envelope for an adapter-level failure.
func RespondWithCode(c *gin.Context, code, message string) {
	c.JSON(HTTPStatusFromCode(code),
		NewErrorResponse(code, message).WithTraceID(TraceID(c.Request.Context())))
}

// RespondWithValidationErrors writes a 400 with per-field messages.
func RespondWithValidationErrors(c *gin.Context, fieldErrors map[string]string) {
	c.JSON(http.StatusBadRequest,
		NewErrorResponseWithDetails(ErrorCodeValidation, "request validation failed", fieldErrors).
			WithTraceID(TraceID(c.Request.Context())))
}
