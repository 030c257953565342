package visitorerrors

import (
	"go-visitor/internal/shared/apperror"
	"net/http"
)

var (
	ErrMissingRequiredFields = apperror.New(
		apperror.CodeInvalidInput,
		"Missing required fields",
		http.StatusBadRequest,
	)
	ErrOutTimeRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Out time is required",
		http.StatusBadRequest,
	)
	ErrKeyRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Visitor key is required",
		http.StatusBadRequest,
	)
	ErrNoUpdateFields = apperror.New(
		apperror.CodeInvalidInput,
		"No update fields provided",
		http.StatusBadRequest,
	)
	ErrNoRecognizedFields = apperror.New(
		apperror.CodeInvalidInput,
		"No recognized fields to update",
		http.StatusBadRequest,
	)
	ErrInvalidFieldValue = apperror.New(
		apperror.CodeInvalidInput,
		"Field values must be text, numbers or booleans",
		http.StatusBadRequest,
	)
	ErrCannotReopenVisit = apperror.New(
		apperror.CodeInvalidInput,
		"Out time cannot be cleared once a visitor has checked out",
		http.StatusBadRequest,
	)
	ErrInvalidDays = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid number of days",
		http.StatusBadRequest,
	)
	ErrActiveVisitorNotFound = apperror.New(
		apperror.CodeNotFound,
		"Active visitor not found with this key",
		http.StatusNotFound,
	)
	ErrVisitorNotFound = apperror.New(
		apperror.CodeNotFound,
		"Visitor not found with this key",
		http.StatusNotFound,
	)
	ErrRowChanged = apperror.New(
		apperror.CodeConflict,
		"Visitor entry was changed by another request, reload and retry",
		http.StatusConflict,
	)
	ErrSchemaMismatch = apperror.New(
		apperror.CodeStoreError,
		"Sheet header does not match the visitor schema",
		http.StatusInternalServerError,
	)
)

// StoreFailure wraps a row store error; the cause is reported as details.
func StoreFailure(message string, err error) *apperror.AppError {
	return apperror.Wrap(err, apperror.CodeStoreError, message, http.StatusInternalServerError)
}
