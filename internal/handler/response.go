package handler

// RESPONSE HELPERS:
// Every handler answers through these two functions so the wire format stays
// the same across endpoints:
//
//	success: {"data": <project or list>}
//	failure: {"error": "not_found", "message": "project not found with id abc123"}
//
// The client gateway reads "message" first and falls back to "error", so
// the human text must always go in "message".

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/studio-site/internal/apperror"
)

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`   // Machine-readable kind (e.g., "not_found")
	Message string `json:"message"` // Human-readable description
}

// dataResponse wraps successful payloads.
type dataResponse struct {
	Data any `json:"data"`
}

// writeJSON sends a JSON response with the given status code.
//
// HEADER ORDER MATTERS:
// Headers and status must be set before the body; once Encode writes, any
// later header change is silently dropped.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeData sends data inside the {"data": ...} envelope.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, dataResponse{Data: data})
}

// writeError maps a domain error to an HTTP status and sends it.
//
// ERROR MAPPING:
// Services return apperror sentinels and never see status codes. This is the
// one place that turns ErrValidation into 400, ErrNotFound into 404, etc.
// errors.Is walks the whole wrap chain, so
//
//	fmt.Errorf("creating project: %w", apperror.ValidationFailed(...))
//
// still maps to 400.
func writeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{
			Error:   "too_large",
			Message: "Upload is too large",
		})
		return
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest // 400
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized // 401
			errorType = "unauthorized"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound // 404
			errorType = "not_found"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict // 409
			errorType = "conflict"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
		})
		return
	}

	// NEVER expose internal error text: it can carry SQL or file paths.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
