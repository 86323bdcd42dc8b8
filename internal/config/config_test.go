package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Error("expected a default database url")
	}
	if cfg.RedisURL == "" {
		t.Error("expected a default redis url")
	}
	if cfg.S3Bucket == "" {
		t.Error("expected a default bucket")
	}
	if cfg.TemplateKey == "" {
		t.Error("expected a default template key")
	}
	if cfg.S3UseSSL {
		t.Error("SSL should default to off for local development")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://app@db:5432/visa_prod")
	t.Setenv("REDIS_URL", "redis://cache:6379/2")
	t.Setenv("INTERNAL_API_KEY", "prod-secret")
	t.Setenv("S3_USE_SSL", "true")
	t.Setenv("TEMPLATE_KEY", "templates/prod.xlsm")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DatabaseURL != "postgres://app@db:5432/visa_prod" {
		t.Errorf("database url = %q", cfg.DatabaseURL)
	}
	if cfg.RedisURL != "redis://cache:6379/2" {
		t.Errorf("redis url = %q", cfg.RedisURL)
	}
	if cfg.InternalAPIKey != "prod-secret" {
		t.Errorf("internal api key = %q", cfg.InternalAPIKey)
	}
	if !cfg.S3UseSSL {
		t.Error("S3_USE_SSL=true not honored")
	}
	if cfg.TemplateKey != "templates/prod.xlsm" {
		t.Errorf("template key = %q", cfg.TemplateKey)
	}
}

func TestLoadRejectsBadBool(t *testing.T) {
	t.Setenv("S3_USE_SSL", "maybe")

	if _, err := Load(); err == nil {
		t.Error("expected error for invalid S3_USE_SSL")
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		DatabaseURL:    "postgres://localhost/visa",
		RedisURL:       "redis://localhost:6379/0",
		InternalAPIKey: "k",
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed on complete config: %v", err)
	}

	missing := *cfg
	missing.InternalAPIKey = ""
	if err := missing.Validate(); err == nil {
		t.Error("expected error for missing internal api key")
	}
}
