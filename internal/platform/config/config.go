package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// AI configures the OpenAI-compatible chat completions endpoint used for
// plan and next-action generation. An empty APIKey disables generation and
// the services fall back to canned focus areas and action variants.
type AI struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	MaxConcurrency int    `yaml:"max_concurrency"`
}

type Server struct {
	Addr         string `yaml:"addr"`
	DBPath       string `yaml:"db_path"`
	JWTSecret    string `yaml:"jwt_secret"`
	TokenTTLDays int    `yaml:"token_ttl_days"`
	Timezone     string `yaml:"timezone"`
	RolloverHour int    `yaml:"rollover_hour"`
	AI           AI     `yaml:"ai"`
}

type Config struct {
	Dir     string `yaml:"-"`
	BaseURL string `yaml:"base_url"`
	Server  Server `yaml:"server"`
}

// Load reads dir/config.yaml when present, applies environment overrides,
// and fills defaults. dir defaults to ~/.mih.
func Load(dir string) (Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".mih")
	}

	cfg := Config{
		Dir:     dir,
		BaseURL: "http://localhost:8080",
		Server: Server{
			Addr:         ":8080",
			DBPath:       filepath.Join(dir, "mih.db"),
			JWTSecret:    "change-me-in-production",
			TokenTTLDays: 30,
			Timezone:     "America/Chicago",
			RolloverHour: 5,
			AI: AI{
				BaseURL:        "https://api.openai.com/v1",
				Model:          "gpt-4o-mini",
				MaxConcurrency: 4,
			},
		},
	}

	path := filepath.Join(dir, "config.yaml")
	if raw, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}
	cfg.Dir = dir

	applyEnv(&cfg)
	return cfg, nil
}

// CredentialsPath is the single-slot bearer token file. One account per
// config dir.
func (c Config) CredentialsPath() string {
	return filepath.Join(c.Dir, "credentials")
}

func applyEnv(cfg *Config) {
	setString(&cfg.BaseURL, "MIH_BASE_URL")
	setString(&cfg.Server.Addr, "MIH_ADDR")
	setString(&cfg.Server.DBPath, "MIH_DB_PATH")
	setString(&cfg.Server.JWTSecret, "MIH_JWT_SECRET")
	setString(&cfg.Server.Timezone, "LOCAL_TIMEZONE")
	setInt(&cfg.Server.RolloverHour, "DAY_ROLLOVER_HOUR")
	setString(&cfg.Server.AI.APIKey, "OPENAI_API_KEY")
	setString(&cfg.Server.AI.BaseURL, "AI_BASE_URL")
	setString(&cfg.Server.AI.Model, "AI_MODEL")
	setInt(&cfg.Server.AI.MaxConcurrency, "AI_MAX_CONCURRENCY")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
