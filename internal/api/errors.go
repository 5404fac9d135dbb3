package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/codele-api/internal/api/shared"
	"github.com/phrazzld/codele-api/internal/domain"
	"github.com/phrazzld/codele-api/internal/service/auth"
	"github.com/phrazzld/codele-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	var validationErr *domain.ValidationError

	switch {
	case err == nil:
		return http.StatusOK

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Guess rejected by the rules
	case errors.Is(err, domain.ErrInvalidLength),
		errors.Is(err, domain.ErrInvalidWord):
		return http.StatusUnprocessableEntity

	case errors.Is(err, domain.ErrSessionClosed),
		errors.Is(err, domain.ErrConcurrentModification),
		errors.Is(err, domain.ErrSessionNotFinished):
		return http.StatusConflict

	case errors.Is(err, domain.ErrSessionNotOwned):
		return http.StatusForbidden

	case errors.Is(err, domain.ErrPuzzleNotAvailable),
		errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.As(err, &validationErr),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidDate):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for err that never
// includes internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErr *domain.ValidationError

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, domain.ErrUnauthorized):
		return "Invalid token"

	case errors.Is(err, domain.ErrInvalidLength):
		return "Guess has the wrong number of letters"
	case errors.Is(err, domain.ErrInvalidWord):
		return "Not in word list"
	case errors.Is(err, domain.ErrSessionClosed):
		return "Session is already finished"
	case errors.Is(err, domain.ErrConcurrentModification):
		return "Session was updated by another request, reload and retry"
	case errors.Is(err, domain.ErrSessionNotFinished):
		return "Session is not finished yet"
	case errors.Is(err, domain.ErrSessionNotOwned):
		return "You do not own this session"
	case errors.Is(err, domain.ErrSessionNotFound):
		return "Session not found"
	case errors.Is(err, domain.ErrPuzzleNotAvailable):
		return "Puzzle not available"
	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	case errors.As(err, &validationErr):
		if validationErr.Field == "" {
			return "Invalid request: " + validationErr.Message
		}
		return fmt.Sprintf("Invalid %s: %s", validationErr.Field, validationErr.Message)
	case errors.Is(err, domain.ErrInvalidDate):
		return "Invalid date"
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"
	case errors.Is(err, domain.ErrValidation):
		return "Validation error"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the error response for err. defaultMsg replaces the
// generic message for 500 responses.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && defaultMsg != "" {
		message = defaultMsg
	}

	var opts []shared.ResponseOption
	if domain.IsRetryable(err) {
		opts = append(opts, shared.WithRetryable())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

// SanitizeValidationError turns validator output into a short message that
// names the first failing field.
func SanitizeValidationError(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "gte", "lte", "gt", "lt":
		return "out of range"
	case "oneof":
		return "invalid value"
	case "alpha":
		return "letters only"
	default:
		return "validation failed"
	}
}
