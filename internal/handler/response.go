package handler

import (
	"context"
	"errors"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"ridematch/internal/geocode"
	"ridematch/internal/middleware"
	"ridematch/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	if code >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// respondOutcome flags degraded results on the request before writing data.
func respondOutcome(c *gin.Context, degraded bool, reason error, data any) {
	if degraded {
		middleware.MarkDegraded(c, reason)
	}
	respondJSON(c, http.StatusOK, data)
}

// mapErrorToHTTPStatus maps service errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrInvalidRadius),
		errors.Is(err, service.ErrInvalidDistance),
		errors.Is(err, service.ErrInvalidTimeOfDay),
		errors.Is(err, service.ErrInvalidDayType),
		errors.Is(err, geocode.ErrEmptyQuery),
		errors.Is(err, geocode.ErrInvalidLocation):
		return http.StatusBadRequest

	// Third-party provider failures
	case errors.Is(err, geocode.ErrProvider):
		return http.StatusBadGateway

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}

// round rounds v to the given number of decimal places for presentation.
func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
