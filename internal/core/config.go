package core

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	LogLevel       string        `yaml:"log_level"`
	ListenAddr     string        `yaml:"listen_addr"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	ExportDir      string        `yaml:"export_dir"`
	Gateway        GatewayConfig `yaml:"gateway"`
}

// GatewayConfig configures the external LLM gateway connection.
type GatewayConfig struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxRetries     int    `yaml:"max_retries"`
}

// LoadConfig builds configuration from defaults, an optional YAML file
// named by RTMD_CONFIG, then environment variable overrides, in that order.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		LogLevel:   "info",
		ListenAddr: ":8080",
		AllowedOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		Gateway: GatewayConfig{
			BaseURL:        "https://openrouter.ai/api/v1",
			Model:          "anthropic/claude-3.5-sonnet",
			TimeoutSeconds: 30,
			MaxRetries:     3,
		},
	}

	if path := os.Getenv("RTMD_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	if os.Getenv("DEBUG") == "1" {
		cfg.LogLevel = "debug"
	}
	cfg.ListenAddr = getEnvOrDefault("LISTEN_ADDR", cfg.ListenAddr)
	cfg.ExportDir = getEnvOrDefault("EXPORT_DIR", cfg.ExportDir)
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = splitOrigins(origins)
	}
	cfg.Gateway.APIKey = getEnvOrDefault("GATEWAY_API_KEY", cfg.Gateway.APIKey)
	cfg.Gateway.BaseURL = getEnvOrDefault("GATEWAY_BASE_URL", cfg.Gateway.BaseURL)
	cfg.Gateway.Model = getEnvOrDefault("GATEWAY_MODEL", cfg.Gateway.Model)
	if v := os.Getenv("GATEWAY_TIMEOUT_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse GATEWAY_TIMEOUT_SECONDS: %w", err)
		}
		cfg.Gateway.TimeoutSeconds = n
	}

	return cfg, nil
}

// getEnvOrDefault returns the value of an environment variable or a default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitOrigins(s string) []string {
	parts := strings.Split(s, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
