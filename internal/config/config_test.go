package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vm-affekt/fbdl/internal/rapidapi"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"RAPIDAPI_KEY",
		"FBDL_RAPIDAPI_KEY",
		"FBDL_MODE",
		"FBDL_HTTP_ADDR",
		"FBDL_UPSTREAM_TIMEOUT",
		"FBDL_TELEGRAM_API_KEY",
		"TELEGRAM_API_KEY",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_requiresAPIKey(t *testing.T) {
	clearEnv(t)
	_, err := Load(t.TempDir())
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("Load() error = %v, want %v", err, ErrMissingAPIKey)
	}
}

func TestLoad_defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("RAPIDAPI_KEY", "plain-key")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.RapidAPIKey != "plain-key" {
		t.Errorf("RapidAPIKey = %q", cfg.RapidAPIKey)
	}
	if cfg.Mode != ModeDebug || !cfg.DebugMode() {
		t.Errorf("Mode = %q, want %q", cfg.Mode, ModeDebug)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.RapidAPIHost != rapidapi.DefaultHost || cfg.RapidAPIURL != rapidapi.DefaultURL {
		t.Errorf("RapidAPI host/url = %q %q", cfg.RapidAPIHost, cfg.RapidAPIURL)
	}
	if cfg.UpstreamTimeout != rapidapi.DefaultTimeout {
		t.Errorf("UpstreamTimeout = %v", cfg.UpstreamTimeout)
	}
	if cfg.ConfigFileUsed != "" {
		t.Errorf("ConfigFileUsed = %q, want empty", cfg.ConfigFileUsed)
	}
}

func TestLoad_prefixedEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("FBDL_RAPIDAPI_KEY", "prefixed-key")
	t.Setenv("FBDL_MODE", "prod")
	t.Setenv("FBDL_UPSTREAM_TIMEOUT", "5s")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.RapidAPIKey != "prefixed-key" {
		t.Errorf("RapidAPIKey = %q", cfg.RapidAPIKey)
	}
	if cfg.Mode != ModeProduction || cfg.DebugMode() {
		t.Errorf("Mode = %q, want %q", cfg.Mode, ModeProduction)
	}
	if cfg.UpstreamTimeout != 5*time.Second {
		t.Errorf("UpstreamTimeout = %v", cfg.UpstreamTimeout)
	}
}

func TestLoad_plainTelegramKey(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "plain_name",
			env:  map[string]string{"TELEGRAM_API_KEY": "plain-tg"},
			want: "plain-tg",
		},
		{
			name: "prefixed_name_wins",
			env:  map[string]string{"TELEGRAM_API_KEY": "plain-tg", "FBDL_TELEGRAM_API_KEY": "prefixed-tg"},
			want: "prefixed-tg",
		},
		{
			name: "unset",
			env:  map[string]string{},
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("RAPIDAPI_KEY", "k")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Load(t.TempDir())
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.TelegramAPIKey != tt.want {
				t.Errorf("TelegramAPIKey = %q, want %q", cfg.TelegramAPIKey, tt.want)
			}
		})
	}
}

func TestLoad_configFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	content := "RAPIDAPI_KEY=file-key\nHTTP_ADDR=:9090\nUPSTREAM_TIMEOUT=12s\n"
	if err := os.WriteFile(filepath.Join(dir, "config.env"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FBDL_HTTP_ADDR", ":7070")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.RapidAPIKey != "file-key" {
		t.Errorf("RapidAPIKey = %q", cfg.RapidAPIKey)
	}
	if cfg.HTTPAddr != ":7070" {
		t.Errorf("HTTPAddr = %q, environment must win over the file", cfg.HTTPAddr)
	}
	if cfg.UpstreamTimeout != 12*time.Second {
		t.Errorf("UpstreamTimeout = %v", cfg.UpstreamTimeout)
	}
	if cfg.ConfigFileUsed == "" {
		t.Error("ConfigFileUsed is empty")
	}
}

func TestLoad_unknownMode(t *testing.T) {
	clearEnv(t)
	t.Setenv("RAPIDAPI_KEY", "k")
	t.Setenv("FBDL_MODE", "staging")

	_, err := Load(t.TempDir())
	if !errors.Is(err, ErrUnknownMode) {
		t.Errorf("Load() error = %v, want %v", err, ErrUnknownMode)
	}
}
