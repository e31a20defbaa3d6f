package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/freight")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Upload.MaxConcurrent != 4 {
		t.Errorf("Upload.MaxConcurrent = %d, want 4", cfg.Upload.MaxConcurrent)
	}
	if cfg.Upload.Workers != 4 {
		t.Errorf("Upload.Workers = %d, want 4", cfg.Upload.Workers)
	}
	if cfg.Upload.Timeout != 2*time.Minute {
		t.Errorf("Upload.Timeout = %v, want 2m", cfg.Upload.Timeout)
	}
	if !cfg.Database.MigrateOnStart {
		t.Error("Database.MigrateOnStart = false, want true")
	}
	if cfg.Mail.Enabled() {
		t.Error("Mail.Enabled() = true without SMTP_HOST")
	}
	if len(cfg.Security.CORSAllowedOrigins) != 1 || cfg.Security.CORSAllowedOrigins[0] != "*" {
		t.Errorf("CORSAllowedOrigins = %v, want [*]", cfg.Security.CORSAllowedOrigins)
	}
	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("Metrics.Path = %q, want /metrics", cfg.Metrics.Path)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/freight")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("UPLOAD_WORKERS", "8")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("API_KEYS", " key-a , ,key-b ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr() != "0.0.0.0:9090" {
		t.Errorf("Server.Addr() = %q", cfg.Server.Addr())
	}
	if cfg.Upload.Workers != 8 {
		t.Errorf("Upload.Workers = %d, want 8", cfg.Upload.Workers)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if !cfg.Mail.Enabled() || cfg.Mail.Addr() != "smtp.example.com:2525" {
		t.Errorf("Mail = %+v", cfg.Mail)
	}
	if got := strings.Join(cfg.Security.APIKeys, "|"); got != "key-a|key-b" {
		t.Errorf("APIKeys = %q, want key-a|key-b", got)
	}
}

func TestLoad_AltEnvVar(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_URL", "postgres://localhost/alt")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.URL != "postgres://localhost/alt" {
		t.Errorf("Database.URL = %q", cfg.Database.URL)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() expected error for missing DATABASE_URL")
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/freight")
	t.Setenv("UPLOAD_TIMEOUT", "soon")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error for bad duration")
	}
	if !strings.Contains(err.Error(), "UPLOAD_TIMEOUT") {
		t.Errorf("error %q does not name the variable", err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 8000, ShutdownTimeout: time.Second, RequestTimeout: time.Second},
			Database: DatabaseConfig{URL: "postgres://x", MaxConns: 4, MinConns: 1},
			Upload:   UploadConfig{MaxFileSize: 1, MaxConcurrent: 1, MaxWaitTime: time.Second, Timeout: time.Second, Workers: 1},
			Logging:  LoggingConfig{Level: "info", Format: "json"},
			Metrics:  MetricsConfig{Enabled: true, Path: "/metrics"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"pool bounds", func(c *Config) { c.Database.MinConns = 10 }, "DB_MAX_CONNS"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "SERVER_PORT"},
		{"zero workers", func(c *Config) { c.Upload.Workers = 0 }, "UPLOAD_WORKERS"},
		{"api key required", func(c *Config) { c.Security.RequireAPIKey = true }, "API_KEYS"},
		{"mail without from", func(c *Config) { c.Mail.Host = "smtp"; c.Mail.Port = 25 }, "MAIL_FROM"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
		{"bad metrics path", func(c *Config) { c.Metrics.Path = "metrics" }, "METRICS_PATH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want error mentioning %s", err, tt.wantErr)
			}
		})
	}
}

func TestString_MasksSecrets(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{URL: "postgres://user:hunter2@db/freight"},
		Mail:     MailConfig{Host: "smtp", Password: "mailpass"},
	}
	s := cfg.String()
	for _, secret := range []string{"hunter2", "mailpass"} {
		if strings.Contains(s, secret) {
			t.Errorf("String() leaks %q: %s", secret, s)
		}
	}
}
