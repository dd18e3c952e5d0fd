package response

import (
	"errors"
	"net/http"
	"time"

	"github.com/fonsecars/fonsecars-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Response is the standardized API response envelope.
type Response struct {
	Data     interface{} `json:"data"`
	Error    *ErrorBody  `json:"error,omitempty"`
	Metadata Metadata    `json:"metadata"`
}

// ErrorBody represents a structured error response.
type ErrorBody struct {
	Code    ErrCode           `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Metadata includes request tracing and timing.
type Metadata struct {
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// ────────────────────────────────────────────────────────────────────────────
// Helper builders
// ────────────────────────────────────────────────────────────────────────────

// Success sends a successful JSON response with the given status code and data.
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Response{
		Data:     data,
		Metadata: buildMetadata(c),
	})
}

// Fail sends an error response with an error code and no field-level details.
func Fail(c *gin.Context, statusCode int, code ErrCode) {
	c.JSON(statusCode, Response{
		Error:    &ErrorBody{Code: code, Message: GetMessage(code)},
		Metadata: buildMetadata(c),
	})
}

// FailWithFields sends an error response with field-level validation details.
func FailWithFields(c *gin.Context, statusCode int, code ErrCode, fields map[string]string) {
	c.JSON(statusCode, Response{
		Error:    &ErrorBody{Code: code, Message: GetMessage(code), Fields: fields},
		Metadata: buildMetadata(c),
	})
}

// AbortFail aborts the middleware chain and sends an error response.
func AbortFail(c *gin.Context, statusCode int, code ErrCode) {
	c.AbortWithStatusJSON(statusCode, Response{
		Error:    &ErrorBody{Code: code, Message: GetMessage(code)},
		Metadata: buildMetadata(c),
	})
}

// FailFromError maps a service error onto the envelope. Unknown errors are
// attached to the gin context for the logger and reported as INTERNAL_ERROR.
func FailFromError(c *gin.Context, err error) {
	status, code := Classify(err)
	if code == ErrInternal {
		_ = c.Error(err)
	}
	Fail(c, status, code)
}

// Classify returns the HTTP status and error code for a service error.
// Unknown usernames and wrong passwords share INVALID_CREDENTIALS so the API
// never reveals which one was wrong.
func Classify(err error) (int, ErrCode) {
	switch {
	case errors.Is(err, service.ErrTooManyAttempts):
		return http.StatusTooManyRequests, ErrTooManyAttempts
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, ErrInvalidCredentials
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized, ErrUnauthenticated
	case errors.Is(err, service.ErrCurrentPasswordMismatch):
		return http.StatusForbidden, ErrWrongPassword
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, ErrForbidden
	case errors.Is(err, service.ErrProtectedAccount):
		return http.StatusConflict, ErrProtectedAccount
	case errors.Is(err, service.ErrDuplicateUsername):
		return http.StatusConflict, ErrUsernameTaken
	case errors.Is(err, service.ErrAdminNotFound), errors.Is(err, service.ErrVehicleNotFound):
		return http.StatusNotFound, ErrNotFound
	case errors.Is(err, service.ErrUnsupportedFileType):
		return http.StatusBadRequest, ErrUnsupportedFile
	case errors.Is(err, service.ErrFileTooLarge):
		return http.StatusBadRequest, ErrFileTooLarge
	default:
		return http.StatusInternalServerError, ErrInternal
	}
}

// ────────────────────────────────────────────────────────────────────────────
// Internal helpers
// ────────────────────────────────────────────────────────────────────────────

func buildMetadata(c *gin.Context) Metadata {
	reqID, _ := c.Get(ContextKeyRequestID)
	id, ok := reqID.(string)
	if !ok || id == "" {
		id = uuid.New().String() // Fallback if middleware not applied
	}
	return Metadata{
		RequestID: id,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
