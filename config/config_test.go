package config

import (
	"testing"

	"github.com/google/uuid"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.Env != "development" {
		t.Errorf("Expected default env development, got %s", cfg.Server.Env)
	}
	if cfg.Dev.UserID != nil {
		t.Error("Expected no dev fallback identity by default")
	}
}

func TestLoad_DevUserID(t *testing.T) {
	id := uuid.New()
	t.Setenv("ENV", "development")
	t.Setenv("DEV_USER_ID", id.String())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Dev.UserID == nil || *cfg.Dev.UserID != id {
		t.Error("Expected dev fallback identity to be set")
	}
}

// The fallback identity is a development-only convenience; refusing it in
// any other environment keeps it out of production by construction.
func TestLoad_DevUserID_RefusedOutsideDevelopment(t *testing.T) {
	t.Setenv("ENV", "staging")
	t.Setenv("DEV_USER_ID", uuid.New().String())

	if _, err := Load(); err == nil {
		t.Fatal("Expected error when DEV_USER_ID is set outside development")
	}
}

func TestLoad_DevUserID_Invalid(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("DEV_USER_ID", "not-a-uuid")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error for malformed DEV_USER_ID")
	}
}

func TestLoad_RefusesDefaultSecretInProduction(t *testing.T) {
	t.Setenv("ENV", "production")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error for default JWT secret in production")
	}
}
