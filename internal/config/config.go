// Package config provides configuration management for the shotplan
// server. Configuration is loaded from environment variables with
// sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

const (
	// Default values
	DefaultPort     = 8686
	DefaultLogLevel = "info"
	DefaultDataDir  = ".shotplan"

	// Environment variable names
	EnvPort     = "SHOTPLAN_PORT"
	EnvLogLevel = "SHOTPLAN_LOG_LEVEL"
	EnvDataDir  = "SHOTPLAN_DATA_DIR"
	EnvWatchDir = "SHOTPLAN_WATCH_DIR"
	EnvHeadless = "SHOTPLAN_HEADLESS"

	// Database filename
	DBFilename = "shotplan.db"
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	DataDir() string
	DBPath() string
	ImagesDir() string
	ThumbsDir() string
	AudioDir() string
	WatchDir() string
	Headless() bool
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	port     int
	logLevel string
	dataDir  string
	watchDir string
	headless bool
}

// New creates a new EnvConfig with defaults and environment variable overrides
func New() (*EnvConfig, error) {
	cfg := &EnvConfig{
		port:     DefaultPort,
		logLevel: DefaultLogLevel,
		dataDir:  defaultDataDir(),
	}

	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
		}
		cfg.port = port
	}

	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}

	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	cfg.watchDir = os.Getenv(EnvWatchDir)

	if h := os.Getenv(EnvHeadless); h != "" {
		headless, err := strconv.ParseBool(h)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvHeadless, err)
		}
		cfg.headless = headless
	}

	return cfg, nil
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

// ImagesDir returns the directory holding uploaded reference images
func (c *EnvConfig) ImagesDir() string {
	return filepath.Join(c.dataDir, "images")
}

// ThumbsDir returns the directory holding generated image thumbnails
func (c *EnvConfig) ThumbsDir() string {
	return filepath.Join(c.dataDir, "thumbnails")
}

// AudioDir returns the directory holding uploaded audio files
func (c *EnvConfig) AudioDir() string {
	return filepath.Join(c.dataDir, "audio")
}

// WatchDir returns the directory watched for incoming generated videos,
// or empty when watching is disabled
func (c *EnvConfig) WatchDir() string {
	return c.watchDir
}

// Headless reports whether the system tray should be skipped
func (c *EnvConfig) Headless() bool {
	return c.headless
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
