package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadUsesDefaultsAndYAMLOverrides(t *testing.T) {
	clearConfigEnv(t)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	yaml := `
http:
  addr: ":9090"
auth:
  admin_email: agency@example.com
  jwt_access_ttl: 30m
notifier:
  url: http://notifier.internal:8081
media:
  max_upload_bytes: 1048576
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.HTTP.Addr != ":9090" {
		t.Fatalf("unexpected http addr: %s", cfg.HTTP.Addr)
	}
	if cfg.Auth.AdminEmail != "agency@example.com" {
		t.Fatalf("unexpected admin email: %s", cfg.Auth.AdminEmail)
	}
	if cfg.Auth.JWTAccessTTL != 30*time.Minute {
		t.Fatalf("unexpected access ttl: %s", cfg.Auth.JWTAccessTTL)
	}
	if cfg.Notifier.URL != "http://notifier.internal:8081" {
		t.Fatalf("unexpected notifier url: %s", cfg.Notifier.URL)
	}
	if cfg.Media.MaxUploadBytes != 1048576 {
		t.Fatalf("unexpected media ceiling: %d", cfg.Media.MaxUploadBytes)
	}

	// Untouched sections keep their defaults.
	if cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("redis addr default should stay: %s", cfg.Redis.Addr)
	}
	if cfg.S3.Bucket != "approvals-media" {
		t.Fatalf("s3 bucket default should stay: %s", cfg.S3.Bucket)
	}
	if cfg.Cleanup.Interval != 6*time.Hour {
		t.Fatalf("cleanup interval default should stay: %s", cfg.Cleanup.Interval)
	}
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load config with missing file: %v", err)
	}

	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("unexpected default http addr: %s", cfg.HTTP.Addr)
	}
	if cfg.Auth.AdminEmail != "geral@stagelink.pt" {
		t.Fatalf("unexpected default admin email: %s", cfg.Auth.AdminEmail)
	}
	if cfg.Media.MaxUploadBytes != 100<<20 {
		t.Fatalf("unexpected default media ceiling: %d", cfg.Media.MaxUploadBytes)
	}
	if cfg.SMTP.Port != 587 {
		t.Fatalf("unexpected default smtp port: %d", cfg.SMTP.Port)
	}
}

func TestEnvOverridesBeatYAML(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("ADMIN_EMAIL", "ops@example.com")
	t.Setenv("MEDIA_MAX_UPLOAD_BYTES", "2097152")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Auth.AdminEmail != "ops@example.com" {
		t.Fatalf("env admin email not applied: %s", cfg.Auth.AdminEmail)
	}
	if cfg.Media.MaxUploadBytes != 2097152 {
		t.Fatalf("env media ceiling not applied: %d", cfg.Media.MaxUploadBytes)
	}
}

func TestLoadRejectsDefaultJWTSecretInProduction(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("APP_ENV", "prod")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatalf("expected error when jwt secret is left at default in production")
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV",
		"HTTP_ADDR",
		"HTTP_READ_TIMEOUT",
		"HTTP_WRITE_TIMEOUT",
		"HTTP_IDLE_TIMEOUT",
		"LOG_LEVEL",
		"POSTGRES_DSN",
		"REDIS_ADDR",
		"REDIS_PASSWORD",
		"REDIS_DB",
		"S3_ENDPOINT",
		"S3_ACCESS_KEY",
		"S3_SECRET_KEY",
		"S3_BUCKET",
		"S3_PUBLIC_URL",
		"S3_USE_SSL",
		"JWT_SECRET",
		"JWT_ACCESS_TTL",
		"REFRESH_TTL",
		"ADMIN_EMAIL",
		"NOTIFIER_ADDR",
		"NOTIFIER_URL",
		"NOTIFIER_TIMEOUT",
		"APP_URL",
		"SMTP_HOSTNAME",
		"SMTP_PORT",
		"SMTP_USERNAME",
		"SMTP_PASSWORD",
		"SMTP_FROM",
		"MEDIA_MAX_UPLOAD_BYTES",
		"CLEANUP_INTERVAL",
		"CLEANUP_RETENTION",
	} {
		t.Setenv(key, "")
	}
}
