// Package clients provides the instrumented HTTP client used to reach the
// quest backend.
package clients

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Client errors describe transport failures. Callers translate them into
// domain errors with acl.Normalize.
var (
	// ErrCircuitOpen is returned while the circuit breaker blocks requests.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last failure once every retry is spent.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")

	// ErrMissingParam is returned when a path parameter is empty or absent.
	ErrMissingParam = errors.New("missing path parameter")

	// ErrUnknownEndpoint is returned for an endpoint name with no path.
	ErrUnknownEndpoint = errors.New("unknown endpoint")
)

// ResponseError means the backend answered with a non-2xx status. Body holds
// the (size limited) response payload.
type ResponseError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	Body       []byte
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("request failed with status code %d", e.StatusCode)
}

// NoResponseError means the request was dispatched but no response arrived:
// timeouts, refused or reset connections, or an open circuit.
type NoResponseError struct {
	Method string
	URL    string
	Err    error
}

func (e *NoResponseError) Error() string {
	switch {
	case errors.Is(e.Err, ErrCircuitOpen):
		return "service temporarily unavailable"
	case e.Timeout():
		return "request timed out"
	default:
		return fmt.Sprintf("network error: %v", e.Err)
	}
}

func (e *NoResponseError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request ran out of time.
func (e *NoResponseError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error

	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// SetupError means the request was never dispatched.
type SetupError struct {
	Op  string
	Err error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

// newResponseError consumes and closes resp.Body.
func newResponseError(req *http.Request, resp *http.Response) *ResponseError {
	body, _ := readLimited(resp)

	return &ResponseError{
		Method:     req.Method,
		URL:        req.URL.String(),
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       body,
	}
}
