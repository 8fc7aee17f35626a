package bluegreen

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if cfg.AppName != "demo-app" {
		t.Errorf("expected demo-app, got %s", cfg.AppName)
	}
	if cfg.Namespace != "default" {
		t.Errorf("expected default namespace, got %s", cfg.Namespace)
	}
}

func TestDefaultConfigEnvOverrides(t *testing.T) {
	t.Setenv("BLUEGREEN_APP", "payments")
	t.Setenv("BLUEGREEN_NAMESPACE", "prod")
	t.Setenv("BLUEGREEN_JOURNAL_RETENTION_DAYS", "30")
	t.Setenv("BLUEGREEN_JOURNAL_CLEANUP_INTERVAL", "15m")

	cfg := DefaultConfig()

	if cfg.AppName != "payments" {
		t.Errorf("expected payments, got %s", cfg.AppName)
	}
	if cfg.Namespace != "prod" {
		t.Errorf("expected prod, got %s", cfg.Namespace)
	}
	if cfg.JournalRetentionDays != 30 {
		t.Errorf("expected 30, got %d", cfg.JournalRetentionDays)
	}
	if cfg.JournalCleanupInterval != 15*time.Minute {
		t.Errorf("expected 15m, got %s", cfg.JournalCleanupInterval)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"empty app name", func(c *Config) { c.AppName = "" }, true},
		{"empty namespace", func(c *Config) { c.Namespace = "" }, true},
		{"empty data path", func(c *Config) { c.DataPath = "" }, true},
		{"empty dashboard port", func(c *Config) { c.DashboardPort = "" }, true},
		{"negative retention", func(c *Config) { c.JournalRetentionDays = -1 }, true},
		{"zero cleanup interval", func(c *Config) { c.JournalCleanupInterval = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
