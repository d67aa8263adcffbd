package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Telegram:   TelegramConfig{Token: "123:abc"},
		Transcribe: TranscribeConfig{APIKey: "sk-test"},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run mode = %q, want %q", cfg.Telegram.RunMode, RunModeLongpoll)
	}
	if cfg.Transcribe.Model != "whisper-1" {
		t.Fatalf("model = %q, want whisper-1", cfg.Transcribe.Model)
	}
	if cfg.Transcribe.BaseURL != "https://api.openai.com/v1" {
		t.Fatalf("base url = %q", cfg.Transcribe.BaseURL)
	}
	if cfg.Storage.Dir != "temp" {
		t.Fatalf("storage dir = %q, want temp", cfg.Storage.Dir)
	}
}

func TestNormalizeRequiredSecrets(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.Token = ""
	if err := Normalize(cfg); err == nil || !strings.Contains(err.Error(), "token") {
		t.Fatalf("expected token error, got %v", err)
	}

	cfg = validConfig()
	cfg.Transcribe.APIKey = "  "
	if err := Normalize(cfg); err == nil || !strings.Contains(err.Error(), "api_key") {
		t.Fatalf("expected api_key error, got %v", err)
	}
}

func TestNormalizeWebhookMode(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "webhook"
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for webhook mode without url/listen/port")
	}

	cfg = validConfig()
	cfg.Telegram.RunMode = "webhook"
	cfg.Webhook = WebhookConfig{URL: "https://bot.example.com", Listen: "0.0.0.0", Port: 8443}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize webhook: %v", err)
	}
}

func TestNormalizeRunModeAlias(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "polling"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run mode = %q, want longpoll", cfg.Telegram.RunMode)
	}
}

func TestNormalizeTrimsBaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.Transcribe.BaseURL = "https://stt.example.com/v1/"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Transcribe.BaseURL != "https://stt.example.com/v1" {
		t.Fatalf("base url = %q, want trailing slash trimmed", cfg.Transcribe.BaseURL)
	}
}
