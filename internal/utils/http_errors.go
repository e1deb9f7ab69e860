package utils

import (
	"errors"
	"net/http"

	"github.com/aristath/retail-insights/internal/domain"
)

// StatusForError maps the domain error taxonomy onto HTTP status codes
func StatusForError(err error) int {
	var (
		missing   *domain.MissingFieldError
		unknown   *domain.UnknownFieldError
		empty     *domain.EmptyCategoryError
		divZero   *domain.DivisionByZeroError
		inference *domain.ModelInferenceError
	)
	switch {
	case errors.As(err, &missing), errors.As(err, &unknown):
		return http.StatusBadRequest
	case errors.As(err, &empty):
		return http.StatusNotFound
	case errors.As(err, &divZero):
		return http.StatusUnprocessableEntity
	case errors.As(err, &inference):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
