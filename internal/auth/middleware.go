package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Vanshsharma2405/Major-Project-Backend/internal/apperror"
	"github.com/Vanshsharma2405/Major-Project-Backend/internal/model"
	"github.com/Vanshsharma2405/Major-Project-Backend/internal/repository"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. With a plain string key, ANY
// package that knows the string could read or shadow the value. A
// package-private type means only this package can put a user into the
// context or take one out.
type contextKey string

const userKey contextKey = "user"

// TokenHeader is the request header clients present their bearer token in.
// The storefront and admin frontends both send the raw token under this
// name, not an Authorization: Bearer header.
const TokenHeader = "token"

// gateError is the minimal JSON envelope the gates write on rejection.
// It matches the response shape of the handler package without importing it
// (handler imports auth for the context accessors, so the arrow can only
// point this way).
type gateError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RequireUser is the user gate: it enforces authentication on protected
// shopper routes.
//
// Per request it reads the "token" header, validates the JWT via the token
// service, loads the subject from the user store, and attaches the user to
// the request context for the downstream handler. Each failure rejects with
// a distinct message:
//
//	missing header       → 401 "Not Authorized. Please login again."
//	expired token        → 401 "Token expired. Please login again."
//	malformed/forged     → 401 "Invalid token. Please login again."
//	unknown subject      → 401 "User not found. Please login again."
//	missing JWT secret   → 500 "Server configuration error"
func RequireUser(tokens *TokenService, users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := r.Header.Get(TokenHeader)
			if tokenStr == "" {
				writeGateError(w, http.StatusUnauthorized, "Not Authorized. Please login again.")
				return
			}

			userID, err := tokens.ValidateUser(tokenStr)
			if err != nil {
				switch {
				case errors.Is(err, apperror.ErrConfiguration):
					writeGateError(w, http.StatusInternalServerError, "Server configuration error")
				case errors.Is(err, ErrTokenExpired):
					writeGateError(w, http.StatusUnauthorized, "Token expired. Please login again.")
				default:
					writeGateError(w, http.StatusUnauthorized, "Invalid token. Please login again.")
				}
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				// A valid token for a vanished user: the record was removed
				// after issuance. Treat it the same as any other stale
				// session.
				writeGateError(w, http.StatusUnauthorized, "User not found. Please login again.")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin is the admin gate.
//
// It verifies the admin proof from the "token" header and either lets the
// request through or rejects with 401. On success NOTHING is attached to
// the context — the admin principal has no user record and no profile, only
// possession of the shared secret.
func RequireAdmin(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := r.Header.Get(TokenHeader)
			if tokenStr == "" {
				writeGateError(w, http.StatusUnauthorized, "Not Authorized. Admin login required.")
				return
			}

			if err := tokens.VerifyAdminProof(tokenStr); err != nil {
				writeGateError(w, http.StatusUnauthorized, "Not Authorized. Admin access required.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// UserFromContext retrieves the authenticated user attached by RequireUser.
//
// Returns (nil, false) on routes that did not pass through the user gate.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok && user != nil
}

func writeGateError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The envelope is tiny and fixed; once headers are out an encode error
	// can only be logged, and the gates carry no logger.
	_ = json.NewEncoder(w).Encode(gateError{Success: false, Message: message})
}
