package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"ENV", "LLM_PROVIDER", "LLM_TIMEOUT", "SCORING_JITTER", "LOG_FORMAT", "RATE_LIMIT_CREATE_PER_MIN"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Env != "dev" {
		t.Fatalf("expected env dev, got %q", cfg.Env)
	}
	if cfg.LLMProvider != "none" {
		t.Fatalf("expected provider none, got %q", cfg.LLMProvider)
	}
	if cfg.LLMTimeout != 20*time.Second {
		t.Fatalf("expected 20s timeout, got %s", cfg.LLMTimeout)
	}
	if !cfg.ScoringJitter {
		t.Fatalf("expected jitter enabled by default")
	}
	if !cfg.LogJSON {
		t.Fatalf("expected json logs by default")
	}
	if cfg.CreatePerMinute != 6 {
		t.Fatalf("expected create rate 6, got %v", cfg.CreatePerMinute)
	}
	if !cfg.IsDevLike() {
		t.Fatalf("expected dev-like env")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENV", "prod")
	t.Setenv("LLM_PROVIDER", "Google")
	t.Setenv("LLM_TIMEOUT", "15")
	t.Setenv("SCORING_JITTER", "false")
	t.Setenv("LOG_FORMAT", "console")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, ,https://b.example")

	cfg := Load()
	if cfg.Env != "production" {
		t.Fatalf("expected production, got %q", cfg.Env)
	}
	if cfg.LLMProvider != "gemini" {
		t.Fatalf("expected gemini, got %q", cfg.LLMProvider)
	}
	if cfg.LLMTimeout != 15*time.Second {
		t.Fatalf("expected 15s, got %s", cfg.LLMTimeout)
	}
	if cfg.ScoringJitter {
		t.Fatalf("expected jitter disabled")
	}
	if cfg.LogJSON {
		t.Fatalf("expected console logs")
	}
	if len(cfg.CORSAllowOrigin) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.CORSAllowOrigin)
	}
	if cfg.IsDevLike() {
		t.Fatalf("production must not be dev-like")
	}
}

func TestLoadReadsDotEnvWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	content := "LLM_MODEL=gpt-4o-mini\nPORT=9999\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("PORT", "7070")
	t.Setenv("LLM_MODEL", "")
	os.Unsetenv("LLM_MODEL")

	cfg := Load()
	if cfg.LLMModel != "gpt-4o-mini" {
		t.Fatalf("expected model from .env, got %q", cfg.LLMModel)
	}
	if cfg.Port != "7070" {
		t.Fatalf("expected env PORT to win, got %q", cfg.Port)
	}
}
