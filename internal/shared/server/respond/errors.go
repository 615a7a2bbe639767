package respond

import (
	"github.com/gin-gonic/gin"

	"voc-backend/internal/shared/telemetry"
)

// Error codes shared by all handlers.
const (
	CodeValidation            = "validation_error"
	CodeNotFound              = "not_found"
	CodeServiceNotInitialized = "service_not_initialized"
	CodeServiceUnavailable    = "service_unavailable"
	CodeRateLimited           = "rate_limited"
	CodeConflict              = "conflict"
	CodeUnauthorized          = "unauthorized"
	CodeInternal              = "internal_error"
)

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	telemetry.Error("http.error", map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
		"client_ip":  c.ClientIP(),
	})

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}
