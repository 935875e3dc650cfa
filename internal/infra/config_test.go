package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("PORT", "")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("DB_NAME", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.GeminiModel != "gemini-2.0-flash" {
		t.Fatalf("GeminiModel = %q, want gemini-2.0-flash", cfg.GeminiModel)
	}
	if cfg.DBName != "med_vision_db" {
		t.Fatalf("DBName = %q, want med_vision_db", cfg.DBName)
	}
	if cfg.DefaultLocale != "ar" {
		t.Fatalf("DefaultLocale = %q, want ar", cfg.DefaultLocale)
	}
	if cfg.HTTPWriteTimeout != 120*time.Second {
		t.Fatalf("HTTPWriteTimeout = %v, want 120s", cfg.HTTPWriteTimeout)
	}
}

func TestLoadConfigDoesNotRequireAPIKey(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.GoogleAPIKey != "" {
		t.Fatalf("GoogleAPIKey = %q, want empty", cfg.GoogleAPIKey)
	}
}

func TestLoadConfigHonorsExplicitValues(t *testing.T) {
	t.Setenv("PORT", "1919")
	t.Setenv("GEMINI_BASE_URL", "http://localhost:9000/v1beta")
	t.Setenv("HTTP_READ_TIMEOUT_SECONDS", "5")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "1919" {
		t.Fatalf("Port = %q, want 1919", cfg.Port)
	}
	if cfg.GeminiBaseURL != "http://localhost:9000/v1beta" {
		t.Fatalf("GeminiBaseURL = %q", cfg.GeminiBaseURL)
	}
	if cfg.HTTPReadTimeout != 5*time.Second {
		t.Fatalf("HTTPReadTimeout = %v, want 5s", cfg.HTTPReadTimeout)
	}
}
