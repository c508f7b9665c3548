// Package handler contains the HTTP handlers for the identity endpoints.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Vanshsharma2405/Major-Project-Backend/internal/auth"
	"github.com/Vanshsharma2405/Major-Project-Backend/internal/service"
)

// AuthHandler exposes the registration, login, admin, Google sign-in and
// forgot-password flows over HTTP.
//
// HANDLER RESPONSIBILITIES:
//   - Decode the JSON body, nothing more — every rule lives in the service
//   - Translate flow errors to the response envelope via writeError
//   - Log failures with enough context to debug, without ever logging a
//     password or a token
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler. All dependencies are injected;
// the handler has no knowledge of how they're constructed.
func NewAuthHandler(authService *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: authService, logger: logger}
}

// credentialsRequest is the body shape shared by the register, login and
// admin endpoints (register additionally requires name).
type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a new account and signs the user in.
//
// HTTP: POST /api/user/register
// Body: {"name": "...", "email": "...", "password": "..."}
// 201 → {"success":true, "token":"...", "user":{...}}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Please provide all required fields"})
		return
	}

	result, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.logger.Info("registration failed",
			slog.String("email", req.Email),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	user := result.User.Summary()
	writeJSON(w, http.StatusCreated, Response{Success: true, Token: result.Token, User: &user})
}

// HandleLogin authenticates an email/password pair.
//
// HTTP: POST /api/user/login
// 200 → {"success":true, "token":"...", "user":{...}}
// 401 → {"success":false, "message":"Invalid email or password"} (or the
// user-doesn't-exist variant; the two are intentionally distinct).
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Please provide email and password"})
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	user := result.User.Summary()
	writeJSON(w, http.StatusOK, Response{Success: true, Token: result.Token, User: &user})
}

// HandleAdminLogin authenticates the administrative principal and issues
// the admin proof token. No user object is ever returned — the admin
// carries no profile.
//
// HTTP: POST /api/user/admin
func (h *AuthHandler) HandleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Please provide email and password"})
		return
	}

	token, err := h.auth.AdminLogin(req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Token: token})
}

// googleLoginRequest carries the ID token obtained from Google's sign-in
// widget on the frontend.
type googleLoginRequest struct {
	Token string `json:"token"`
}

// HandleGoogleLogin verifies a Google ID token and signs the asserted
// identity in, creating the local account on first sight.
//
// HTTP: POST /api/user/google-login
func (h *AuthHandler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req googleLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Google token is required"})
		return
	}

	result, err := h.auth.GoogleLogin(r.Context(), req.Token)
	if err != nil {
		h.logger.Info("google login failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	user := result.User.Summary()
	writeJSON(w, http.StatusOK, Response{Success: true, Token: result.Token, User: &user})
}

// forgotPasswordRequest carries the account email to acknowledge.
type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// HandleForgotPassword acknowledges a password-reset request for an
// existing account. No email is actually dispatched.
//
// HTTP: POST /api/user/forgot-password
func (h *AuthHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Please provide a valid email address"})
		return
	}

	message, err := h.auth.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Message: message})
}

// HandleMe returns the currently authenticated user's profile.
//
// HTTP: GET /api/user/me
// Auth: user gate (RequireUser puts the user in the context)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireUser, but be safe.
		writeJSON(w, http.StatusUnauthorized, Response{Success: false, Message: "Not Authorized. Please login again."})
		return
	}

	summary := user.Summary()
	writeJSON(w, http.StatusOK, Response{Success: true, User: &summary})
}

// HandleAdminSession confirms a presented admin proof is still valid. The
// admin frontend calls this on load to decide whether to show the panel.
//
// HTTP: GET /api/admin/session
// Auth: admin gate
func (h *AuthHandler) HandleAdminSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Response{Success: true})
}
