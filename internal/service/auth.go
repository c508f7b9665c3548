// Package service — authentication business logic.
//
// AuthService is the business logic layer for authentication. It sits
// between the HTTP handlers and the repository/auth utilities:
//
//	AuthHandler (HTTP) → AuthService (flows) → UserRepository (store)
//	                   ↘ TokenService (JWT / admin proof)
//	                   ↘ PasswordService (bcrypt)
//	                   ↘ TokenVerifier (Google ID tokens)
//
// KEY RESPONSIBILITIES:
//   - Orchestrate registration, login, admin login, Google sign-in and the
//     forgot-password acknowledgement
//   - Translate every lower-level failure into the apperror taxonomy at
//     this boundary — handlers never see raw store or jwt errors
//   - Be easily testable with fake dependencies
//
// KNOWN DEVIATIONS FROM BEST PRACTICE, PRESERVED ON PURPOSE:
//   - Login distinguishes "user doesn't exist" from "invalid password" in
//     its client-facing messages, which lets an attacker enumerate
//     registered emails. Kept as-is to preserve observable behavior.
//   - A Google-created account and a password account with the same email
//     collapse into one user record; password login for such a record will
//     always fail the bcrypt check since the stored hash is empty.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/Vanshsharma2405/Major-Project-Backend/internal/apperror"
	"github.com/Vanshsharma2405/Major-Project-Backend/internal/auth"
	"github.com/Vanshsharma2405/Major-Project-Backend/internal/model"
	"github.com/Vanshsharma2405/Major-Project-Backend/internal/repository"
)

// minPasswordLength is the floor enforced at registration. Exactly 8
// characters is accepted.
const minPasswordLength = 8

// AuthService handles the authentication business logic.
//
// google may be nil: the federation adapter only exists when a Google
// client ID was configured at startup. Every federation entry point checks
// for its presence and fails with a configuration error rather than crash.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	google    auth.TokenVerifier
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
// Call this in server.go when wiring the dependency graph.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	google auth.TokenVerifier,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		google:    google,
		logger:    logger,
	}
}

// AuthResult is returned by the flows that establish an identity. It
// bundles the user record and the issued token so the handler can build
// the response envelope in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a new password-backed account and signs the user in.
//
// Validation order matters and is part of the contract: missing fields,
// then duplicate email (advisory pre-check), then email syntax, then
// password length. The pre-check gives the common case a friendly error
// without a wasted bcrypt hash; the store's unique index remains the
// authoritative guard, so a lost race on the final Create also surfaces as
// a duplicate-email failure.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	if name == "" || email == "" || password == "" {
		return nil, apperror.ValidationFailed("", "Please provide all required fields")
	}

	email = normalizeEmail(email)

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperror.DuplicateEmail()
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperror.ValidationFailed("email", "Please enter a valid email")
	}

	if len(password) < minPasswordLength {
		return nil, apperror.ValidationFailed("password", "Password must be at least 8 characters")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// ErrDuplicateEmail passes through untouched — it IS the taxonomy.
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	token, err := s.tokens.GenerateUser(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies an email/password pair and issues a bearer token.
//
// LastLoginAt is deliberately NOT updated here. The field exists on the
// record but no flow maintains it; see the model package.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, apperror.ValidationFailed("", "Please provide email and password")
	}

	email = normalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// Only an absent user is an authentication failure. A store
		// outage must stay a server-side error, never a 401.
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.AuthenticationFailed("User doesn't exist. Please check your email or sign up.")
		}
		return nil, fmt.Errorf("service/auth: looking up user: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		s.logger.Info("login rejected", slog.String("email", email))
		return nil, apperror.AuthenticationFailed("Invalid email or password")
	}

	token, err := s.tokens.GenerateUser(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return &AuthResult{User: user, Token: token}, nil
}

// AdminLogin authenticates the single administrative principal.
//
// Both values must exactly equal the configured admin credential pair.
// There is no admin user record and no hashing on this path; success
// issues the admin proof and failure carries no further detail.
func (s *AuthService) AdminLogin(email, password string) (string, error) {
	if !s.tokens.AdminCredentialsMatch(email, password) {
		s.logger.Warn("admin login rejected")
		return "", apperror.AuthenticationFailed("Invalid credentials")
	}

	token, err := s.tokens.GenerateAdminProof()
	if err != nil {
		return "", fmt.Errorf("service/auth: generating admin proof: %w", err)
	}

	s.logger.Info("admin logged in")

	return token, nil
}

// GoogleLogin verifies a Google-issued ID token and finds or creates the
// local account for the asserted email.
//
// Calling this twice with assertions for the same external email yields
// tokens for the same user — the find-or-create is idempotent per
// normalized email, with the store's unique index breaking any creation
// race the same way it does for Register.
func (s *AuthService) GoogleLogin(ctx context.Context, rawIDToken string) (*AuthResult, error) {
	if s.google == nil {
		return nil, apperror.Configuration("Google OAuth is not configured properly")
	}
	if rawIDToken == "" {
		return nil, apperror.ValidationFailed("token", "Google token is required")
	}

	identity, err := s.google.Verify(ctx, rawIDToken)
	if err != nil {
		s.logger.Warn("google login rejected", slog.String("error", err.Error()))
		return nil, apperror.AuthenticationFailed("Google authentication failed")
	}

	email := normalizeEmail(identity.Email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// Creating on anything but "absent" would turn a transient store
		// failure into a spurious duplicate on the unique index.
		if !errors.Is(err, apperror.ErrNotFound) {
			return nil, fmt.Errorf("service/auth: looking up user: %w", err)
		}
		user = &model.User{
			Name:           identity.Name,
			Email:          email,
			PasswordHash:   "", // federated accounts carry no local credential
			IsGoogleUser:   true,
			ProfilePicture: identity.Picture,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("service/auth: creating google user: %w", err)
		}
		s.logger.Info("user registered via Google",
			slog.String("userID", user.ID),
			slog.String("email", user.Email),
		)
	}

	token, err := s.tokens.GenerateUser(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// ForgotPassword validates the email and confirms an account exists.
//
// No reset email is actually sent — the flow ends at the acknowledgement,
// matching the deployed behavior. The returned message is what the handler
// shows the user.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", apperror.ValidationFailed("email", "Please provide a valid email address")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", apperror.ValidationFailed("email", "Please provide a valid email address")
	}

	if _, err := s.users.GetByEmail(ctx, normalizeEmail(email)); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return "", apperror.NotFound("No account found with this email address")
		}
		return "", fmt.Errorf("service/auth: looking up user: %w", err)
	}

	return "Password reset instructions have been sent to your email", nil
}

// GetUserByID returns the user for the given internal ID. Used by the /me
// handler after the user gate has already validated the token.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, fmt.Errorf("service/auth: user ID must not be empty")
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", id, err)
	}
	return user, nil
}

// ValidateToken validates a user token and returns the user ID it encodes.
// Thin delegation so callers only need the service, not the auth package.
func (s *AuthService) ValidateToken(tokenStr string) (string, error) {
	userID, err := s.tokens.ValidateUser(tokenStr)
	if err != nil {
		return "", fmt.Errorf("service/auth: %w", err)
	}
	return userID, nil
}

// normalizeEmail lowercases an email for storage and lookup. Uniqueness is
// case-insensitive across all users, so every path that touches the store
// must come through here. Lowercasing is the only normalization: leading or
// trailing whitespace is NOT stripped, so " ann@x.com" names a different
// account than "ann@x.com".
func normalizeEmail(email string) string {
	return strings.ToLower(email)
}
