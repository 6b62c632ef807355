package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/taskwatch/internal/api/shared"
	"github.com/phrazzld/taskwatch/internal/domain"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes so that
// internal error types never leak to clients.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrDuplicateTask):
		return http.StatusConflict

	case errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidID),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest

	case errors.Is(err, domain.ErrRemote):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "Task not found"
	case errors.Is(err, domain.ErrDuplicateTask):
		return "Task is already tracked"
	case errors.Is(err, domain.ErrInvalidStatus):
		return "Invalid task status"
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid task ID"
	case errors.As(err, &validationErrs):
		return SanitizeValidationError(validationErrs)
	case errors.Is(err, domain.ErrRemote):
		return "Task server request failed"
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator errors into a short message
// naming the first offending field.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "Validation error"
	}

	fe := validationErrs[0]
	return fmt.Sprintf("Invalid %s: %s", strings.ToLower(fe.Field()), getValidationTagMessage(fe.Tag()))
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "oneof":
		return "must be one of " + statusList()
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the error response for err. A non-empty
// userMessage replaces the default safe message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, userMessage string) {
	if userMessage == "" {
		userMessage = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), userMessage, err)
}

func statusList() string {
	names := make([]string, len(domain.AllStatuses))
	for i, s := range domain.AllStatuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
