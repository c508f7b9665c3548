// Package main is the entry point for the shop backend server.
//
// main stays minimal: read configuration, build the logger, hand both to
// the server package. All actual logic lives in internal/.
package main

import (
	"log/slog"
	"os"

	"github.com/Vanshsharma2405/Major-Project-Backend/internal/config"
	"github.com/Vanshsharma2405/Major-Project-Backend/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// A missing JWT secret is intentionally NOT fatal here: the server
	// starts and token-dependent routes fail with a configuration error at
	// first use. Warn loudly so the misconfiguration is visible in logs.
	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set — token issuance and verification will fail")
	}
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		logger.Warn("admin credentials not set — admin login is disabled")
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until the server is shut down (Ctrl+C or SIGTERM).
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
