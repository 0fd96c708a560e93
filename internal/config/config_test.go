package config

import (
	"os"
	"testing"
	"time"
)

// Test environment variable keys.
const (
	testEnvPostgresDSN = "POSTGRES_DSN"
	testEnvLLMAPIKey   = "LLM_API_KEY"
)

// Test values.
const (
	testPostgresDSN = "postgres://localhost/test"
	testLLMAPIKey   = "sk-test-key"
	testErrLoad     = "Load() error = %v"
)

func setRequiredEnvVars(t *testing.T) {
	t.Helper()

	t.Setenv(testEnvPostgresDSN, testPostgresDSN)
	t.Setenv(testEnvLLMAPIKey, testLLMAPIKey)
}

func TestLoad_MissingRequired(t *testing.T) {
	os.Unsetenv(testEnvPostgresDSN)
	os.Unsetenv(testEnvLLMAPIKey)

	_, err := Load()
	if err == nil {
		t.Error("expected error for missing required env vars")
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	setRequiredEnvVars(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf(testErrLoad, err)
	}

	if cfg.PostgresDSN != testPostgresDSN {
		t.Errorf("PostgresDSN = %q, want %q", cfg.PostgresDSN, testPostgresDSN)
	}

	if cfg.LLMAPIKey != testLLMAPIKey {
		t.Errorf("LLMAPIKey = %q, want %q", cfg.LLMAPIKey, testLLMAPIKey)
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnvVars(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf(testErrLoad, err)
	}

	if cfg.AppEnv != "local" {
		t.Errorf("AppEnv = %q, want %q", cfg.AppEnv, "local")
	}

	if cfg.LLMModel != "gpt-4o-mini" {
		t.Errorf("LLMModel = %q, want %q", cfg.LLMModel, "gpt-4o-mini")
	}

	if cfg.LLMTimeout != 30*time.Second {
		t.Errorf("LLMTimeout = %v, want %v", cfg.LLMTimeout, 30*time.Second)
	}

	if cfg.ReelMaxDuration != 90 {
		t.Errorf("ReelMaxDuration = %v, want 90", cfg.ReelMaxDuration)
	}

	if cfg.TagSummaryMaxLabels != 8 {
		t.Errorf("TagSummaryMaxLabels = %d, want 8", cfg.TagSummaryMaxLabels)
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("LLM_MODEL", "gpt-4o")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("WORKER_POLL_INTERVAL", "3s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf(testErrLoad, err)
	}

	if cfg.LLMModel != "gpt-4o" {
		t.Errorf("LLMModel = %q, want %q", cfg.LLMModel, "gpt-4o")
	}

	if cfg.RateLimitRPS != 2.5 {
		t.Errorf("RateLimitRPS = %v, want 2.5", cfg.RateLimitRPS)
	}

	if cfg.WorkerPollInterval != 3*time.Second {
		t.Errorf("WorkerPollInterval = %v, want 3s", cfg.WorkerPollInterval)
	}
}
