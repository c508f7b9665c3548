package handler

// RESPONSE HELPERS:
// Every endpoint answers with the same envelope:
//
//	{"success": bool, "token"?: string, "user"?: {...}, "message"?: string}
//
// Success responses carry token/user as the flow dictates; failures carry
// success=false plus a human-readable message and nothing else. A single
// envelope shape means the storefront frontend always knows what fields to
// expect, regardless of status code.
//
// writeError is where apperror taxonomy meets HTTP. The service layer
// returns sentinel-wrapped errors; this function maps them to status codes.
// The service never imports net/http, and the raw cause of an unexpected
// error is never exposed to the client — only logged server-side.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Vanshsharma2405/Major-Project-Backend/internal/apperror"
	"github.com/Vanshsharma2405/Major-Project-Backend/internal/model"
)

// Response is the standard envelope returned by all auth endpoints.
type Response struct {
	Success bool               `json:"success"`
	Token   string             `json:"token,omitempty"`
	User    *model.UserSummary `json:"user,omitempty"`
	Message string             `json:"message,omitempty"`
}

// writeJSON sends a JSON response with the given status code.
//
// Headers and status must be written BEFORE the body: once Encode calls
// w.Write the headers are flushed and any later change is silently ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to the appropriate HTTP status code and
// sends the failure envelope.
//
// errors.Is walks the whole wrap chain, so a service error like
//
//	fmt.Errorf("service/auth: creating user: %w", apperror.DuplicateEmail())
//
// still lands in the conflict arm.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrDuplicateEmail):
			status = http.StatusConflict
		case errors.Is(err, apperror.ErrAuthentication),
			errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrConfiguration):
			status = http.StatusInternalServerError
		}

		writeJSON(w, status, Response{Success: false, Message: appErr.Message})
		return
	}

	// Unknown failure — generic 500. The raw error may contain SQL, file
	// paths or other internals; it is logged by the caller, never sent.
	writeJSON(w, http.StatusInternalServerError, Response{
		Success: false,
		Message: "Server error",
	})
}
