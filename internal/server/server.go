// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the composition root: it builds the store (per the
// configured driver), the token/password services, the optional Google
// verifier, the service layer and the handlers, and wires them to routes.
// Each layer only receives what it needs — the service gets the repository
// interface, the handler gets the service, and nothing below the handler
// ever touches HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Vanshsharma2405/Major-Project-Backend/internal/auth"
	"github.com/Vanshsharma2405/Major-Project-Backend/internal/config"
	"github.com/Vanshsharma2405/Major-Project-Backend/internal/handler"
	"github.com/Vanshsharma2405/Major-Project-Backend/internal/middleware"
	"github.com/Vanshsharma2405/Major-Project-Backend/internal/repository"
	"github.com/Vanshsharma2405/Major-Project-Backend/internal/repository/mongodb"
	sqliteRepo "github.com/Vanshsharma2405/Major-Project-Backend/internal/repository/sqlite"
	"github.com/Vanshsharma2405/Major-Project-Backend/internal/service"
)

// userStore is what the server owns: a repository it can also close on
// shutdown. Both drivers satisfy it.
type userStore interface {
	repository.UserRepository
	Close() error
}

// Server represents the HTTP server and all its dependencies.
//
// The server owns the store connection; Start closes it during graceful
// shutdown so the WAL is flushed (sqlite) or the client disconnected
// (mongodb) even when the process is signalled.
type Server struct {
	router *chi.Mux
	cfg    config.Config
	logger *slog.Logger
	store  userStore
}

// New creates a Server. The entire dependency chain is assembled here:
// store → services → handlers → routes.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	store, err := newStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening user store: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		store:  store,
	}

	s.setupRoutes()

	return s, nil
}

// newStore selects the repository driver from config.
func newStore(cfg config.Config) (userStore, error) {
	switch cfg.StoreDriver {
	case config.DriverMongoDB:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return mongodb.New(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return sqliteRepo.New(cfg.SQLitePath)
	}
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET  /                          → liveness text
//	POST /api/user/register         → create account, issue token
//	POST /api/user/login            → verify password, issue token
//	POST /api/user/admin            → verify admin secret, issue proof
//	POST /api/user/google-login     → verify Google ID token, issue token
//	POST /api/user/forgot-password  → acknowledge reset request
//	GET  /api/user/me               → current profile        [user gate]
//	GET  /api/admin/session         → admin proof check      [admin gate]
//
// MIDDLEWARE ORDER MATTERS: RequestID and RealIP enrich the request, the
// Recoverer turns panics into 500s, and our slog logger times every
// request. The gates apply per route group, not globally.
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens := auth.NewTokenService(s.cfg.JWTSecret, s.cfg.TokenLifetime, s.cfg.AdminEmail, s.cfg.AdminPassword)
	passwords := auth.NewPasswordService()

	// The Google verifier is optional by design: without a client ID the
	// adapter stays nil and the google-login flow reports a configuration
	// error instead of the server refusing to boot. Discovery needs the
	// network, so a reachability failure also degrades to nil.
	var google auth.TokenVerifier
	if s.cfg.GoogleClientID != "" {
		// The context outlives construction: go-oidc keeps it for later
		// signing-key refreshes, so it must not be a cancelled timeout.
		verifier, err := auth.NewGoogleVerifier(context.Background(), s.cfg.GoogleClientID)
		if err != nil {
			s.logger.Warn("Google sign-in unavailable", slog.String("error", err.Error()))
		} else {
			google = verifier
		}
	} else {
		s.logger.Warn("GOOGLE_CLIENT_ID not set — Google sign-in is disabled")
	}

	authService := service.NewAuthService(s.store, tokens, passwords, google, s.logger)
	authHandler := handler.NewAuthHandler(authService, s.logger)

	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("API Working Fine"))
	})

	s.router.Route("/api/user", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/admin", authHandler.HandleAdminLogin)
		r.Post("/google-login", authHandler.HandleGoogleLogin)
		r.Post("/forgot-password", authHandler.HandleForgotPassword)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser(tokens, s.store))
			r.Get("/me", authHandler.HandleMe)
		})
	})

	s.router.Route("/api/admin", func(r chi.Router) {
		r.Use(auth.RequireAdmin(tokens))
		r.Get("/session", authHandler.HandleAdminSession)
	})
}

// Start starts the HTTP server and handles graceful shutdown.
//
// Shutdown order: stop accepting connections, wait up to 30s for in-flight
// requests, then close the store. The deferred Close runs even if
// something panics on the way down.
func (s *Server) Start() error {
	defer s.store.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.cfg.Port),
			slog.String("store", s.cfg.StoreDriver),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
