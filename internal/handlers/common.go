package handlers

import (
	"net/http"

	"github.com/cyphera/cyphera-metrics/internal/apperrors"
	"github.com/cyphera/cyphera-metrics/internal/logger"
	"github.com/cyphera/cyphera-metrics/internal/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error         string `json:"error"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// sendError is a helper function that combines logging and error response
// It logs the error with the given message and sends a JSON error response
func sendError(c *gin.Context, statusCode int, message string, err error) {
	correlationID := middleware.GetCorrelationID(c)
	logger.Error(message,
		zap.Error(err),
		zap.String("correlation_id", correlationID),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	)
	c.JSON(statusCode, ErrorResponse{Error: message, CorrelationID: correlationID})
}

// StatusFor maps a failure kind onto an HTTP status.
func StatusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindMalformedDocument, apperrors.KindMissingSlice:
		return http.StatusUnprocessableEntity
	case apperrors.KindChannel:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
