package config

import (
	"strings"
	"testing"
	"time"

	"familyledger/internal/advisory"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8081" {
		t.Fatalf("unexpected default port %q", cfg.Port)
	}
	if cfg.GeminiModel != advisory.DefaultModel {
		t.Fatalf("unexpected default model %q", cfg.GeminiModel)
	}
	if cfg.AdvisoryConfigured() {
		t.Fatalf("advisory should be unconfigured by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("GEMINI_MODEL", "gemini-test")
	t.Setenv("WRITE_TIMEOUT", "30s")

	cfg := Load()
	if cfg.Port != "9000" || cfg.GeminiAPIKey != "secret" || cfg.GeminiModel != "gemini-test" {
		t.Fatalf("env values not picked up: %+v", cfg)
	}
	if cfg.WriteTimeout != 30*time.Second {
		t.Fatalf("duration not parsed: %v", cfg.WriteTimeout)
	}
	if !cfg.AdvisoryConfigured() {
		t.Fatalf("expected configured advisory")
	}
}

func TestPlaceholderKeyCountsAsUnconfigured(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", advisory.PlaceholderAPIKey)
	if Load().AdvisoryConfigured() {
		t.Fatalf("placeholder credential must count as unconfigured")
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := Load()
	cfg.Port = "not-a-port"
	cfg.GeminiModel = " "
	cfg.ReadTimeout = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation failure")
	}
	msg := err.Error()
	for _, want := range []string{"invalid port", "model name", "read timeout"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("missing %q in %q", want, msg)
		}
	}
}

func TestValidatePortRange(t *testing.T) {
	cfg := Load()
	cfg.Port = "70000"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected out-of-range port to fail")
	}
}

func TestMissingCredentialIsNotAValidationFailure(t *testing.T) {
	cfg := Load()
	cfg.GeminiAPIKey = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("missing credential must not fail validation: %v", err)
	}
}
