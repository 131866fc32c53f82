// Package apperror defines the error taxonomy shared by the client and the
// reference API.
//
// CLASSIFICATION:
// Every error that crosses a package boundary is (or wraps) an *AppError whose
// Err field is one of the sentinels below. Callers classify with errors.Is and
// read the human-readable text with errors.As:
//
//	var appErr *apperror.AppError
//	if errors.As(err, &appErr) && errors.Is(err, apperror.ErrNotFound) {
//	    show(appErr.Message)
//	}
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNetwork      = errors.New("network error")
	ErrHTTP         = errors.New("http error")
)

type AppError struct {
	Err     error  // sentinel kind
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
	Status  int    // Optional: HTTP status that produced the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(resource, id string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s conflict with id %s", resource, id),
	}
}

// Unauthorized returns an AppError for a missing or rejected credential.
// HTTP handlers map this to 401.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// Network reports a request that never produced an HTTP response.
// The cause is kept in the message only; transport errors are not part of
// the taxonomy.
func Network(message string, cause error) *AppError {
	if cause != nil {
		message = fmt.Sprintf("%s: %v", message, cause)
	}
	return &AppError{
		Err:     ErrNetwork,
		Message: message,
	}
}

// HTTPStatus classifies a non-2xx response. Statuses with a dedicated kind
// (404, 400/422, 401/403, 409) map to it; everything else is ErrHTTP.
func HTTPStatus(status int, message string) *AppError {
	kind := ErrHTTP
	switch status {
	case http.StatusNotFound:
		kind = ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		kind = ErrValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = ErrUnauthorized
	case http.StatusConflict:
		kind = ErrConflict
	}
	return &AppError{
		Err:     kind,
		Message: message,
		Status:  status,
	}
}

// Message extracts the user-displayable text from any error. Errors outside
// the taxonomy fall back to def.
func Message(err error, def string) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return def
}
