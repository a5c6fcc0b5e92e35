package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"yardly-backend/services"

	mysql "github.com/go-sql-driver/mysql"
)

func TestStatusForError(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"listing not found", services.ErrListingNotFound, http.StatusNotFound},
		{"booking not found", fmt.Errorf("confirm: %w", services.ErrBookingNotFound), http.StatusNotFound},
		{"invalid credentials", services.ErrInvalidCredentials, http.StatusUnauthorized},
		{"invalid duration", services.ErrInvalidDuration, http.StatusBadRequest},
		{"payment incomplete", services.ErrPaymentIncomplete, http.StatusBadRequest},
		{"validation prefix", errors.New("validation: guest name is required"), http.StatusBadRequest},
		{"duplicate entry", dup, http.StatusConflict},
		{"wrapped duplicate entry", fmt.Errorf("failed to create user: %w", dup), http.StatusConflict},
		{"anything else", errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := statusForError(tc.err); got != tc.want {
			t.Errorf("%s: status = %d, want %d", tc.name, got, tc.want)
		}
	}
}
