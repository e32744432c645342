package config

import (
	"context"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env development, got %q", cfg.Env)
	}
	if cfg.Auth.AccessTTL != 15*time.Minute {
		t.Fatalf("expected 15m access ttl, got %v", cfg.Auth.AccessTTL)
	}
	if cfg.Auth.RefreshTTL != 168*time.Hour {
		t.Fatalf("expected 168h refresh ttl, got %v", cfg.Auth.RefreshTTL)
	}
	if cfg.Auth.MaxLoginFailures != 5 {
		t.Fatalf("expected 5 max login failures, got %d", cfg.Auth.MaxLoginFailures)
	}
	if cfg.Mongo.Database != "obligations" {
		t.Fatalf("expected default database, got %q", cfg.Mongo.Database)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("expected default redis addr, got %q", cfg.Redis.Addr)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "supersecret")
	t.Setenv("ACCESS_TOKEN_TTL", "5m")
	t.Setenv("MAX_LOGIN_FAILURES", "10")
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("REDIS_DB", "2")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "9000" || cfg.Env != "production" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if cfg.Auth.JWTSecret != "supersecret" {
		t.Fatalf("jwt secret not loaded: %q", cfg.Auth.JWTSecret)
	}
	if cfg.Auth.AccessTTL != 5*time.Minute {
		t.Fatalf("access ttl override not applied: %v", cfg.Auth.AccessTTL)
	}
	if cfg.Auth.MaxLoginFailures != 10 {
		t.Fatalf("max login failures override not applied: %d", cfg.Auth.MaxLoginFailures)
	}
	if cfg.Mongo.URI != "mongodb://db:27017" {
		t.Fatalf("mongo uri override not applied: %q", cfg.Mongo.URI)
	}
	if cfg.Redis.DB != 2 {
		t.Fatalf("redis db override not applied: %d", cfg.Redis.DB)
	}
}
