package common

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"dentiq/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrIllegalTransition = errors.New("illegal state transition")
	ErrConflict          = errors.New("resource conflict")
	ErrPlanInactive      = errors.New("plan is not active")
	ErrValidation        = errors.New("validation failed")
	ErrInvalidCredential = errors.New("invalid credentials")
	ErrForbidden         = errors.New("forbidden")
)

// ValidationError carries per-field messages and matches ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// StatusFor maps an error to its HTTP status and response envelope.
func StatusFor(err error) (int, *ErrorResponse) {
	var validationErr *ValidationError
	var httpErr *echo.HTTPError

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, CreateErrorResponse("VALIDATION_ERROR", "Validation failed", validationErr.Fields)
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, CreateErrorResponse("NOT_FOUND", err.Error(), nil)
	case errors.Is(err, ErrIllegalTransition):
		return http.StatusConflict, CreateErrorResponse("ILLEGAL_TRANSITION", err.Error(), nil)
	case errors.Is(err, ErrConflict):
		return http.StatusConflict, CreateErrorResponse("CONFLICT", err.Error(), nil)
	case errors.Is(err, ErrPlanInactive):
		return http.StatusBadRequest, CreateErrorResponse("PLAN_INACTIVE", err.Error(), nil)
	case errors.Is(err, ErrInvalidCredential):
		return http.StatusUnauthorized, CreateErrorResponse("UNAUTHORIZED", err.Error(), nil)
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, CreateErrorResponse("FORBIDDEN", err.Error(), nil)
	case errors.As(err, &httpErr):
		message := http.StatusText(httpErr.Code)
		if m, ok := httpErr.Message.(string); ok {
			message = m
		}
		return httpErr.Code, CreateErrorResponse(codeForStatus(httpErr.Code), message, nil)
	default:
		return http.StatusInternalServerError, CreateErrorResponse("SERVER_ERROR", "Internal server error", nil)
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "CLIENT_ERROR"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	}
	if status >= http.StatusInternalServerError {
		return "SERVER_ERROR"
	}
	return "CLIENT_ERROR"
}

// HTTPErrorHandler renders every handler error in the ErrorResponse envelope.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := StatusFor(err)
	if status >= http.StatusInternalServerError {
		logger.FromEcho(c).Error("request failed",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, body)
	}
	if writeErr != nil {
		logger.FromEcho(c).Warn("failed to write error response", zap.Error(writeErr))
	}
}
