package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "http://localhost:8080" {
		t.Fatalf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.DBPath != filepath.Join(dir, "mih.db") {
		t.Fatalf("DBPath = %q", cfg.Server.DBPath)
	}
	if cfg.Server.TokenTTLDays != 30 {
		t.Fatalf("TokenTTLDays = %d", cfg.Server.TokenTTLDays)
	}
	if cfg.Server.Timezone != "America/Chicago" || cfg.Server.RolloverHour != 5 {
		t.Fatalf("day settings = %q/%d", cfg.Server.Timezone, cfg.Server.RolloverHour)
	}
	if cfg.Server.AI.MaxConcurrency != 4 {
		t.Fatalf("MaxConcurrency = %d", cfg.Server.AI.MaxConcurrency)
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	raw := []byte("base_url: https://mih.example.com\nserver:\n  addr: \":9000\"\n  rollover_hour: 3\n  ai:\n    model: gpt-4o\n")
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), raw, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "https://mih.example.com" {
		t.Fatalf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.RolloverHour != 3 {
		t.Fatalf("server = %q/%d", cfg.Server.Addr, cfg.Server.RolloverHour)
	}
	if cfg.Server.AI.Model != "gpt-4o" {
		t.Fatalf("Model = %q", cfg.Server.AI.Model)
	}
	// Untouched keys keep their defaults.
	if cfg.Server.Timezone != "America/Chicago" {
		t.Fatalf("Timezone = %q", cfg.Server.Timezone)
	}
}

func TestLoadEnvOverridesEverything(t *testing.T) {
	dir := t.TempDir()
	raw := []byte("base_url: https://from-yaml.example.com\n")
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), raw, 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("MIH_BASE_URL", "https://from-env.example.com")
	t.Setenv("DAY_ROLLOVER_HOUR", "2")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("AI_MAX_CONCURRENCY", "not-a-number")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "https://from-env.example.com" {
		t.Fatalf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Server.RolloverHour != 2 {
		t.Fatalf("RolloverHour = %d", cfg.Server.RolloverHour)
	}
	if cfg.Server.AI.APIKey != "sk-test" {
		t.Fatalf("APIKey = %q", cfg.Server.AI.APIKey)
	}
	// Unparseable ints are ignored.
	if cfg.Server.AI.MaxConcurrency != 4 {
		t.Fatalf("MaxConcurrency = %d", cfg.Server.AI.MaxConcurrency)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("base_url: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatal("malformed config did not error")
	}
}

func TestCredentialsPath(t *testing.T) {
	t.Parallel()

	cfg := Config{Dir: "/tmp/mih-test"}
	if got := cfg.CredentialsPath(); got != filepath.Join("/tmp/mih-test", "credentials") {
		t.Fatalf("CredentialsPath = %q", got)
	}
}
