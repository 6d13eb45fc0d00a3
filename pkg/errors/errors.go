// Package errors carries the unified application error shape used by
// handlers and middleware.
package errors

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/notefield/notebook-service/pkg/code"
)

// TraceIDKey is the gin context key the tracer middleware stores the
// request trace id under.
const TraceIDKey = "X-Trace-ID"

// AppError is the JSON error body returned outside of the normal response
// envelope, carrying the trace id for log correlation.
type AppError struct {
	Code      int       `json:"code"`
	Message   string    `json:"message"`
	Details   []string  `json:"details,omitempty"`
	TraceID   string    `json:"traceId,omitempty"`
	Cause     error     `json:"-"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates an AppError from a registered code.
func NewAppError(c *code.Code, cause error) *AppError {
	return &AppError{
		Code:      c.Code(),
		Message:   c.Msg(),
		Details:   c.Details(),
		Cause:     cause,
		Timestamp: time.Now(),
	}
}

// WithTraceID sets the trace id and returns the error for chaining.
func (e *AppError) WithTraceID(traceID string) *AppError {
	e.TraceID = traceID
	return e
}

// WithDetails sets the details and returns the error for chaining.
func (e *AppError) WithDetails(details ...string) *AppError {
	e.Details = details
	return e
}

// GetTraceID reads the trace id the tracer middleware stored on the request.
func GetTraceID(c *gin.Context) string {
	if v, ok := c.Get(TraceIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// ErrorResponse writes the unified error body for any error a handler got
// back from a service, carrying the request trace id.
func ErrorResponse(c *gin.Context, err error) {
	traceID := GetTraceID(c)

	var appErr *AppError
	if errors.As(err, &appErr) {
		appErr.TraceID = traceID
		c.JSON(http.StatusOK, appErr)
		return
	}

	if codeErr, ok := AsCode(err); ok {
		c.JSON(http.StatusOK, &AppError{
			Code:      codeErr.Code(),
			Message:   codeErr.Msg(),
			Details:   codeErr.Details(),
			TraceID:   traceID,
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(http.StatusOK, &AppError{
		Code:      code.ErrorServerInternal.Code(),
		Message:   code.ErrorServerInternal.Msg(),
		TraceID:   traceID,
		Timestamp: time.Now(),
	})
}

// AsCode extracts a registered *code.Code from an error chain.
func AsCode(err error) (*code.Code, bool) {
	var codeErr *code.Code
	if errors.As(err, &codeErr) {
		return codeErr, true
	}
	return nil, false
}
