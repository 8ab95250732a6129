package utils

import (
	"errors"
	"net/http"

	"knowledge-chatbot-backend/internal/ai"
	"knowledge-chatbot-backend/services"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	ErrorCode string      `json:"error_code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}

// RespondWithError sends a standardized error response
func RespondWithError(c *gin.Context, statusCode int, errorCode, message string, details interface{}) {
	c.JSON(statusCode, ErrorResponse{
		ErrorCode: errorCode,
		Message:   message,
		Details:   details,
	})
}

// RespondWithBadRequest sends a 400 Bad Request error
func RespondWithBadRequest(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, http.StatusBadRequest, "bad_request", message, details)
}

// RespondWithUnauthorized sends a 401 Unauthorized error
func RespondWithUnauthorized(c *gin.Context, message string) {
	RespondWithError(c, http.StatusUnauthorized, "unauthorized", message, nil)
}

// RespondWithForbidden sends a 403 Forbidden error
func RespondWithForbidden(c *gin.Context, message string) {
	RespondWithError(c, http.StatusForbidden, "forbidden", message, nil)
}

// RespondWithNotFound sends a 404 Not Found error
func RespondWithNotFound(c *gin.Context, message string) {
	RespondWithError(c, http.StatusNotFound, "not_found", message, nil)
}

// RespondWithInternalError sends a 500 Internal Server Error
func RespondWithInternalError(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, http.StatusInternalServerError, "internal_error", message, details)
}

// RespondWithServiceError maps known service errors to HTTP responses so
// route handlers share one translation.
func RespondWithServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrDocumentNotFound):
		RespondWithNotFound(c, "Document not found")
	case errors.Is(err, services.ErrOwnershipViolation):
		RespondWithForbidden(c, "You do not have access to this document")
	case errors.Is(err, services.ErrEmptyInput):
		RespondWithBadRequest(c, "Input must not be empty", nil)
	case errors.Is(err, services.ErrNotIndexable):
		RespondWithBadRequest(c, "Document cannot be indexed", nil)
	case errors.Is(err, ai.ErrConfigurationMissing):
		RespondWithError(c, http.StatusConflict, "configuration_missing",
			"Provider API key is not configured. Set it in settings first.", nil)
	default:
		RespondWithInternalError(c, "Something went wrong", nil)
	}
}
