package common

import (
	"errors"
	"net/http"
)

var (
	ErrMissingFields      = errors.New("username and password required")
	ErrInvalidUsername    = errors.New("invalid username")
	ErrDuplicateUser      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("user not authenticated")
	ErrBookNotFound       = errors.New("book not found")
	ErrReviewNotFound     = errors.New("review not found")
	ErrValidation         = errors.New("validation failed")
)

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrMissingFields),
		errors.Is(err, ErrInvalidUsername),
		errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrDuplicateUser):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrBookNotFound),
		errors.Is(err, ErrReviewNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the text that is safe to show to API clients.
// Known domain errors render as their sentinel text; anything else is hidden.
func PublicMessage(err error) string {
	for _, known := range []error{
		ErrMissingFields,
		ErrInvalidUsername,
		ErrDuplicateUser,
		ErrInvalidCredentials,
		ErrUnauthorized,
		ErrBookNotFound,
		ErrReviewNotFound,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	if errors.Is(err, ErrValidation) {
		return err.Error()
	}
	return "internal server error"
}
