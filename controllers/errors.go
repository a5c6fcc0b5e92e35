package controllers

import (
	"errors"
	"net/http"
	"strings"

	"yardly-backend/services"
)

// statusForError maps the flat service error taxonomy onto HTTP codes.
// Anything unrecognized is an upstream failure.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrListingNotFound),
		errors.Is(err, services.ErrBookingNotFound),
		errors.Is(err, services.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrInvalidDuration),
		errors.Is(err, services.ErrPaymentIncomplete),
		strings.HasPrefix(err.Error(), "validation:"):
		return http.StatusBadRequest
	case services.IsDuplicateEntry(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
