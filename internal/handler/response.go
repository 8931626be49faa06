package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ridebooking/internal/repository"
	"ridebooking/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrTripNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrPassengerNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidTripID),
		errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidDriverID),
		errors.Is(err, service.ErrInvalidTripType),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidTransactionType),
		errors.Is(err, service.ErrInvalidDiscountValue),
		errors.Is(err, service.ErrInvalidUserDetails):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrTripNotAvailable),
		errors.Is(err, service.ErrDriverHasActiveTrip),
		errors.Is(err, service.ErrDriverNotAvailable),
		errors.Is(err, service.ErrTripAlreadyCompleted),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrDiscountLimitReached),
		errors.Is(err, service.ErrPhoneAlreadyRegistered):
		return http.StatusConflict

	// Forbidden/Business rule errors
	case errors.Is(err, service.ErrNotAssignedDriver):
		return http.StatusForbidden

	// Payment errors
	case errors.Is(err, service.ErrInsufficientFunds):
		return http.StatusPaymentRequired

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
