package api

import (
	"errors"
	"net/http"

	"github.com/rowanvale/lexdrill/internal/domain"
	"github.com/rowanvale/lexdrill/internal/service/session"
	"github.com/rowanvale/lexdrill/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, store.ErrWordNotFound),
		errors.Is(err, store.ErrCardNotFound),
		errors.Is(err, store.ErrNotFound),
		errors.Is(err, session.ErrNoActiveSession):
		return http.StatusNotFound

	case errors.Is(err, session.ErrSessionCompleted):
		return http.StatusConflict

	case errors.Is(err, store.ErrWordExists),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrInvalidRating),
		errors.Is(err, domain.ErrEmptySettingsListID),
		errors.Is(err, domain.ErrNegativeLimit),
		errors.Is(err, domain.ErrInvalidStudyMode),
		errors.Is(err, domain.ErrInvalidStudyOrder):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for the error. Raw
// error strings stay in the logs.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return "An unexpected error occurred"

	case errors.Is(err, store.ErrWordNotFound):
		return "Word not found"

	case errors.Is(err, store.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, session.ErrNoActiveSession):
		return "No active study session"

	case errors.Is(err, session.ErrSessionCompleted):
		return "Session is already completed"

	case errors.Is(err, store.ErrWordExists),
		errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	case errors.Is(err, domain.ErrInvalidRating):
		return "Invalid rating"

	case errors.Is(err, domain.ErrEmptySettingsListID),
		errors.Is(err, domain.ErrNegativeLimit),
		errors.Is(err, domain.ErrInvalidStudyMode),
		errors.Is(err, domain.ErrInvalidStudyOrder),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}
