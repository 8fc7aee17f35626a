// Package bluegreen holds the shared runtime configuration for the toolkit
// and the logger every component writes through.
package bluegreen

import (
	"fmt"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
)

// Config holds the settings shared across the toolkit's commands.
type Config struct {
	// Application metadata
	AppName string

	// Kubernetes configuration
	Namespace  string
	Kubeconfig string

	// Storage configuration
	DataPath string

	// Dashboard configuration
	DashboardPort string

	// Journal configuration
	JournalRetentionDays   int
	JournalCleanupInterval time.Duration
}

// DefaultConfig returns a Config with default values, overridable from the
// environment.
func DefaultConfig() Config {
	return Config{
		AppName:                getEnvOrDefault("BLUEGREEN_APP", "demo-app"),
		Namespace:              getEnvOrDefault("BLUEGREEN_NAMESPACE", "default"),
		Kubeconfig:             os.Getenv("KUBECONFIG"),
		DataPath:               getEnvOrDefault("BLUEGREEN_DATA_PATH", defaultDataPath()),
		DashboardPort:          getEnvOrDefault("BLUEGREEN_DASHBOARD_PORT", "9090"),
		JournalRetentionDays:   parseIntOrDefault("BLUEGREEN_JOURNAL_RETENTION_DAYS", 7),
		JournalCleanupInterval: parseDurationOrDefault("BLUEGREEN_JOURNAL_CLEANUP_INTERVAL", 1*time.Hour),
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.AppName == "" {
		return fmt.Errorf("AppName cannot be empty")
	}
	if c.Namespace == "" {
		return fmt.Errorf("Namespace cannot be empty")
	}
	if c.DataPath == "" {
		return fmt.Errorf("DataPath cannot be empty")
	}
	if c.DashboardPort == "" {
		return fmt.Errorf("DashboardPort cannot be empty")
	}
	if c.JournalRetentionDays < 0 {
		return fmt.Errorf("JournalRetentionDays cannot be negative")
	}
	if c.JournalCleanupInterval <= 0 {
		return fmt.Errorf("JournalCleanupInterval must be positive")
	}
	return nil
}

// NewLogger builds the zap-backed logr.Logger the toolkit uses everywhere.
func NewLogger(debug bool) (logr.Logger, error) {
	var zapLog *zap.Logger
	var err error
	if debug {
		zapLog, err = zap.NewDevelopment()
	} else {
		zapLog, err = zap.NewProduction()
	}
	if err != nil {
		return logr.Logger{}, fmt.Errorf("failed to create logger: %w", err)
	}
	return zapr.NewLogger(zapLog), nil
}

func defaultDataPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bluegreen"
	}
	return home + "/.bluegreen"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}
