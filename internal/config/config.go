package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	DatabasePath     string `yaml:"database_path"`
	ServerPort       string `yaml:"server_port"`
	FrontendURL      string `yaml:"frontend_url"`
	AIProvider       string `yaml:"ai_provider"`
	AIModel          string `yaml:"ai_model"`
	AIBaseURL        string `yaml:"ai_base_url"`
	OpenAIKey        string `yaml:"-"`
	GeminiKey        string `yaml:"-"`
	DebugLogCapacity int    `yaml:"debug_log_capacity"`
	ServerDebugMode  bool   `yaml:"server_debug_mode"`
	OTELEnabled      bool    `yaml:"otel_enabled"`
	OTELEndpoint     string  `yaml:"otel_endpoint"`
	OTELInsecure     bool    `yaml:"otel_insecure"`
	OTELSampleRatio  float64 `yaml:"otel_sample_ratio"`
}

// Load loads configuration from environment variables. When CONFIG_FILE
// points at a YAML file, its values are applied first and the environment
// overrides them.
func Load() (*Config, error) {
	cfg := &Config{
		DatabasePath:     "notes.db",
		ServerPort:       "3000",
		FrontendURL:      "http://localhost:5173",
		AIProvider:       "openai",
		DebugLogCapacity: 500,
		OTELInsecure:     true,
		OTELSampleRatio:  1,
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	cfg.DatabasePath = getEnv("DATABASE_PATH", cfg.DatabasePath)
	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.FrontendURL = getEnv("FRONTEND_URL", cfg.FrontendURL)
	cfg.AIProvider = getEnv("AI_PROVIDER", cfg.AIProvider)
	cfg.AIModel = getEnv("AI_MODEL", cfg.AIModel)
	cfg.AIBaseURL = getEnv("AI_BASE_URL", cfg.AIBaseURL)
	cfg.OpenAIKey = getEnv("OPENAI_API_KEY", cfg.OpenAIKey)
	cfg.GeminiKey = getEnv("GEMINI_API_KEY", cfg.GeminiKey)
	cfg.DebugLogCapacity = getEnvInt("DEBUG_LOG_CAPACITY", cfg.DebugLogCapacity)
	cfg.ServerDebugMode = getEnvBool("SERVER_DEBUG_MODE", cfg.ServerDebugMode)
	cfg.OTELEnabled = getEnvBool("OTEL_ENABLED", cfg.OTELEnabled)
	cfg.OTELEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTELEndpoint)
	cfg.OTELInsecure = getEnvBool("OTEL_INSECURE", cfg.OTELInsecure)
	cfg.OTELSampleRatio = getEnvFloat("OTEL_SAMPLE_RATIO", cfg.OTELSampleRatio)

	if cfg.DatabasePath == "" {
		return nil, fmt.Errorf("DATABASE_PATH is required")
	}
	if cfg.AIProvider != "openai" && cfg.AIProvider != "gemini" && cfg.AIProvider != "" {
		return nil, fmt.Errorf("unknown AI_PROVIDER %q (expected openai or gemini)", cfg.AIProvider)
	}
	if cfg.DebugLogCapacity <= 0 {
		return nil, fmt.Errorf("DEBUG_LOG_CAPACITY must be positive")
	}

	return cfg, nil
}

// AIKey returns the API key for the configured provider.
func (c *Config) AIKey() string {
	if c.AIProvider == "gemini" {
		return c.GeminiKey
	}
	return c.OpenAIKey
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
