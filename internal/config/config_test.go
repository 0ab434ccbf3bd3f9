package config

import (
	"testing"
	"time"
)

func TestLoadRequiresPostCode(t *testing.T) {
	t.Setenv("POST_CODE", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected an error without POST_CODE")
	}

	t.Setenv("POST_CODE", "not-a-number")
	if _, err := Load(); err == nil {
		t.Fatal("expected an error for a non-numeric POST_CODE")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("POST_CODE", "8001")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Language != "en" {
		t.Errorf("language = %q, want en", cfg.Language)
	}
	if cfg.FetchInterval != 10*time.Minute {
		t.Errorf("fetch interval = %v, want 10m", cfg.FetchInterval)
	}
	if cfg.PollenInterval != 60*time.Minute {
		t.Errorf("pollen interval = %v, want 60m", cfg.PollenInterval)
	}
	if cfg.Port != "8080" {
		t.Errorf("port = %q", cfg.Port)
	}
	if cfg.MQTTTopicPrefix != "swissweather" {
		t.Errorf("topic prefix = %q", cfg.MQTTTopicPrefix)
	}
}

func TestLoadRejectsUnknownLanguage(t *testing.T) {
	t.Setenv("POST_CODE", "8001")
	t.Setenv("LANGUAGE", "es")
	if _, err := Load(); err == nil {
		t.Fatal("expected an error for an unsupported language")
	}
}
