// ABOUTME: Server configuration loaded from STORYBOARD_* environment variables.
// ABOUTME: Enforces security constraint: remote access requires auth token.
package server

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
)

// ConfigError represents configuration validation errors.
var (
	ErrRemoteWithoutToken = errors.New(
		"STORYBOARD_ALLOW_REMOTE is true but STORYBOARD_AUTH_TOKEN is not set; refusing to start without authentication",
	)
	ErrNonLoopbackBind = errors.New(
		"STORYBOARD_BIND is a non-loopback address but STORYBOARD_ALLOW_REMOTE is not true; set STORYBOARD_ALLOW_REMOTE=true and STORYBOARD_AUTH_TOKEN to allow remote access",
	)
)

// Config holds server configuration loaded from environment variables.
type Config struct {
	Home        string // Data directory (STORYBOARD_HOME, default: ~/.storyboard)
	Bind        string // Socket address (STORYBOARD_BIND, default: 127.0.0.1:7870)
	AllowRemote bool   // Allow non-loopback connections (STORYBOARD_ALLOW_REMOTE, default: false)
	AuthToken   string // Bearer token for API auth (STORYBOARD_AUTH_TOKEN, optional)
	Model       string // LLM model name override (STORYBOARD_MODEL, optional)
}

// ConfigFromEnv loads configuration from STORYBOARD_* environment variables
// with sensible defaults.
func ConfigFromEnv() (*Config, error) {
	home := os.Getenv("STORYBOARD_HOME")
	if home == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = "/tmp"
		}
		home = filepath.Join(homeDir, ".storyboard")
	}

	bind := envOrDefault("STORYBOARD_BIND", "127.0.0.1:7870")

	allowRemote := false
	if v := os.Getenv("STORYBOARD_ALLOW_REMOTE"); v == "true" || v == "1" || v == "yes" {
		allowRemote = true
	}

	authToken := os.Getenv("STORYBOARD_AUTH_TOKEN")
	model := os.Getenv("STORYBOARD_MODEL")

	// Security: remote access requires auth token
	if allowRemote && authToken == "" {
		return nil, ErrRemoteWithoutToken
	}

	// Security: refuse non-loopback binds unless explicitly opting into remote
	// access. Checks both IP literals and hostnames; only 127.0.0.0/8, ::1,
	// and "localhost" are considered safe.
	if !allowRemote {
		if host, _, err := net.SplitHostPort(bind); err == nil && host != "" {
			ip := net.ParseIP(host)
			switch {
			case ip != nil && ip.IsLoopback():
				// Safe: 127.x.x.x or ::1
			case ip != nil:
				return nil, fmt.Errorf("%w: STORYBOARD_BIND=%s", ErrNonLoopbackBind, bind)
			case host == "localhost":
				// Safe: conventional loopback hostname
			default:
				return nil, fmt.Errorf("%w: STORYBOARD_BIND=%s", ErrNonLoopbackBind, bind)
			}
		}
	}

	return &Config{
		Home:        home,
		Bind:        bind,
		AllowRemote: allowRemote,
		AuthToken:   authToken,
		Model:       model,
	}, nil
}

// DBPath returns the path of the sqlite database inside the data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.Home, "storyboard.db")
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
