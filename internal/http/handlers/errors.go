package handlers

import (
	"errors"
	"net/http"

	"busoffice/internal/domain"
	"busoffice/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.JSON(status, gin.H{
		"error":      message,
		"code":       code,
		"details":    details,
		"request_id": middleware.GetRequestID(c),
	})
}

// RespondDomainError maps typed domain errors to HTTP responses. Conflict
// errors carry the offending seat numbers so the caller can re-query and
// retry with fresh data.
func RespondDomainError(c *gin.Context, err error) {
	var (
		conflict     domain.SeatConflictError
		notInBooking domain.SeatNotInBookingError
	)
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsDuplicateSeat(err):
		respondError(c, http.StatusConflict, "duplicate_seat", err.Error(), nil)
	case domain.IsSeatNotEligible(err):
		respondError(c, http.StatusConflict, "seat_not_eligible", err.Error(), nil)
	case domain.IsSeatUnavailable(err):
		respondError(c, http.StatusConflict, "seat_unavailable", err.Error(), nil)
	case errors.As(err, &conflict):
		respondError(c, http.StatusConflict, "seat_conflict", err.Error(), gin.H{"seat_numbers": conflict.SeatNumbers})
	case domain.IsInvalidTransition(err):
		respondError(c, http.StatusConflict, "invalid_transition", err.Error(), nil)
	case errors.As(err, &notInBooking):
		respondError(c, http.StatusUnprocessableEntity, "seat_not_in_booking", err.Error(), gin.H{"seat_numbers": notInBooking.SeatNumbers})
	case domain.IsAlreadyCancelled(err):
		respondError(c, http.StatusConflict, "already_cancelled", err.Error(), nil)
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "something went wrong", nil)
	}
}
