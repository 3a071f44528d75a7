package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings for the API gateway. Values come from an
// optional YAML file (LIVECAPTION_CONFIG) with individual environment
// variables layered on top.
type Config struct {
	Port           string `yaml:"port"`
	FrontendURL    string `yaml:"frontend_url"`
	LogLevel       string `yaml:"log_level"`
	SupabaseURL    string `yaml:"supabase_url"`
	SupabaseKey    string `yaml:"supabase_key"`
	JWTSecret      string `yaml:"jwt_secret"`
	UploadsDir     string `yaml:"uploads_dir"`
	WriteQueueSize int    `yaml:"write_queue_size"`
	WriteRetries   int    `yaml:"write_retries"`
}

// Load builds the configuration from defaults, the optional config file and
// environment variables, in that order.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           "8080",
		FrontendURL:    "http://localhost:5173",
		LogLevel:       "info",
		JWTSecret:      "supersecretkey123",
		UploadsDir:     "uploads",
		WriteQueueSize: 64,
		WriteRetries:   3,
	}

	if path := os.Getenv("LIVECAPTION_CONFIG"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}

	overrideString("PORT", &cfg.Port)
	overrideString("FRONTEND_URL", &cfg.FrontendURL)
	overrideString("LOG_LEVEL", &cfg.LogLevel)
	overrideString("SUPABASE_URL", &cfg.SupabaseURL)
	overrideString("SUPABASE_SERVICE_KEY", &cfg.SupabaseKey)
	overrideString("JWT_SECRET", &cfg.JWTSecret)
	overrideString("UPLOADS_DIR", &cfg.UploadsDir)
	overrideInt("WRITE_QUEUE_SIZE", &cfg.WriteQueueSize)
	overrideInt("WRITE_RETRIES", &cfg.WriteRetries)

	if cfg.WriteQueueSize < 1 {
		return nil, fmt.Errorf("config: write_queue_size must be positive, got %d", cfg.WriteQueueSize)
	}
	if cfg.WriteRetries < 0 {
		return nil, fmt.Errorf("config: write_retries must not be negative, got %d", cfg.WriteRetries)
	}
	return cfg, nil
}

func overrideString(key string, target *string) {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		*target = strings.TrimSpace(value)
	}
}

func overrideInt(key string, target *int) {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			*target = parsed
		}
	}
}
