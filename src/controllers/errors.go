package controllers

import (
	"errors"
	"foodievent/src/lifecycle"
	"foodievent/src/repository"
	"foodievent/src/validation"
	"net/http"
)

// statusFor maps domain errors to their HTTP status.
func statusFor(err error) int {
	var fe validation.FieldErrors
	switch {
	case errors.As(err, &fe), errors.Is(err, lifecycle.ErrInvalidQuantity):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrInsufficientTickets),
		errors.Is(err, repository.ErrDuplicate),
		errors.Is(err, lifecycle.ErrEventCancelled),
		errors.Is(err, lifecycle.ErrEventClosed):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
