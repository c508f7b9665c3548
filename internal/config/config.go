// Package config loads the process-wide configuration from the environment.
//
// Everything the auth subsystem needs — the JWT signing secret, the admin
// credential pair, the Google client ID, store settings — is read ONCE here
// and injected into each component as an immutable value. No package reads
// os.Getenv at request time; that keeps every flow testable without a real
// process environment.
//
// DELIBERATE ASYMMETRY IN MISSING-VALUE HANDLING:
//   - A missing JWT secret does NOT stop the server. Token issuance and
//     verification fail with a configuration error at first use instead.
//   - A missing Google client ID leaves the federation adapter
//     unconstructed; the google-login endpoint reports a configuration
//     error while everything else keeps working.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// DefaultTokenLifetime is how long a user bearer token stays valid unless
// JWT_EXPIRE overrides it. Seven days matches the lifetime shoppers expect
// from a storefront session.
const DefaultTokenLifetime = 7 * 24 * time.Hour

// Driver names accepted in STORE_DRIVER.
const (
	DriverSQLite  = "sqlite"
	DriverMongoDB = "mongodb"
)

// Config holds runtime settings for the backend.
//
// Fields:
//   - Port: HTTP listen port.
//   - StoreDriver: "sqlite" (default) or "mongodb".
//   - SQLitePath: database file for the sqlite driver (":memory:" works).
//   - MongoURI / MongoDatabase: connection settings for the mongodb driver.
//   - JWTSecret: HMAC secret for signing tokens (HS256). May be empty —
//     see the package comment.
//   - TokenLifetime: user token validity window.
//   - AdminEmail / AdminPassword: the shared-secret admin credential pair.
//   - GoogleClientID: audience for verifying Google ID tokens.
type Config struct {
	Port           int
	StoreDriver    string
	SQLitePath     string
	MongoURI       string
	MongoDatabase  string
	JWTSecret      string
	TokenLifetime  time.Duration
	AdminEmail     string
	AdminPassword  string
	GoogleClientID string
}

// Load builds a Config from environment variables, applying defaults for
// everything that is safe to default. It only errors on values that are
// present but unparseable — absence is handled per the package comment.
func Load() (Config, error) {
	cfg := Config{
		Port:          8080,
		StoreDriver:   DriverSQLite,
		SQLitePath:    "data/store.db",
		MongoURI:      "mongodb://localhost:27017",
		MongoDatabase: "ecommerce",
		TokenLifetime: DefaultTokenLifetime,
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}

	if v := os.Getenv("STORE_DRIVER"); v != "" {
		if v != DriverSQLite && v != DriverMongoDB {
			return Config{}, fmt.Errorf("config: unknown STORE_DRIVER %q", v)
		}
		cfg.StoreDriver = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.SQLitePath = v
	}
	if v := os.Getenv("MONGODB_URI"); v != "" {
		cfg.MongoURI = v
	}
	if v := os.Getenv("MONGODB_DATABASE"); v != "" {
		cfg.MongoDatabase = v
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")

	// JWT_EXPIRE takes a Go duration string, e.g. "168h" or "1s" in tests.
	if v := os.Getenv("JWT_EXPIRE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid JWT_EXPIRE %q: %w", v, err)
		}
		cfg.TokenLifetime = d
	}

	cfg.AdminEmail = os.Getenv("ADMIN_EMAIL")
	cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	cfg.GoogleClientID = os.Getenv("GOOGLE_CLIENT_ID")

	return cfg, nil
}
