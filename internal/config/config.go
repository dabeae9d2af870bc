package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"familyledger/internal/advisory"
)

type Config struct {
	// HTTP Server
	Port string

	// Seed data
	DataDir string

	// Advisory (Gemini)
	GeminiAPIKey string
	GeminiModel  string

	// Server timeouts
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

func Load() *Config {
	return &Config{
		Port:    getEnv("PORT", "8081"),
		DataDir: getEnv("DATA_DIR", "./data"),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", advisory.DefaultModel),

		ReadTimeout:  getEnvDuration("READ_TIMEOUT", 10*time.Second),
		// The advisory call has no enforced deadline, so the write timeout
		// stays generous.
		WriteTimeout: getEnvDuration("WRITE_TIMEOUT", 120*time.Second),
		IdleTimeout:  getEnvDuration("IDLE_TIMEOUT", 60*time.Second),
	}
}

// AdvisoryConfigured distinguishes "no credential supplied" from
// "credential supplied but rejected by the provider". A placeholder value
// counts as unconfigured.
func (c *Config) AdvisoryConfigured() bool {
	return c.GeminiAPIKey != "" && c.GeminiAPIKey != advisory.PlaceholderAPIKey
}

// Validate checks the configuration, collecting every problem into one
// error. A missing advisory credential is deliberately not a validation
// failure: the rest of the application runs without it.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if strings.TrimSpace(c.GeminiModel) == "" {
		errs = append(errs, "Gemini model name cannot be empty")
	}

	if c.ReadTimeout < time.Second {
		errs = append(errs, fmt.Sprintf("invalid read timeout %v: must be at least 1 second", c.ReadTimeout))
	}
	if c.WriteTimeout < time.Second {
		errs = append(errs, fmt.Sprintf("invalid write timeout %v: must be at least 1 second", c.WriteTimeout))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
