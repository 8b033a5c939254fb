package config

import (
	"errors"
	"net"
	"os"

	"github.com/subosito/gotenv"
)

// ErrMissingAPIKey is returned by Load when GOOGLE_API_KEY is not set.
var ErrMissingAPIKey = errors.New("missing API key: add it to .env file as GOOGLE_API_KEY")

const (
	BackendGenai  = "genai"
	BackendLegacy = "legacy"
)

type Config struct {
	// Model provider
	APIKey  string
	Model   string
	Backend string

	// Relay server
	Host      string
	Port      string
	StaticDir string
	BodyLimit string

	// Logging
	LogPath string
	Debug   bool
}

// Load reads the local .env file, if any, and then the process environment.
// Variables already present in the environment win over the file.
func Load() (*Config, error) {
	_ = gotenv.Load()
	return fromEnv()
}

func fromEnv() (*Config, error) {
	cfg := &Config{
		APIKey:    os.Getenv("GOOGLE_API_KEY"),
		Model:     getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		Backend:   getEnvOrDefault("LLM_BACKEND", BackendGenai),
		Host:      getEnvOrDefault("HOST", "127.0.0.1"),
		Port:      getEnvOrDefault("PORT", "5000"),
		StaticDir: getEnvOrDefault("STATIC_DIR", "static"),
		BodyLimit: getEnvOrDefault("BODY_LIMIT", "10M"),
		LogPath:   os.Getenv("LOG_PATH"),
		Debug:     os.Getenv("DEBUG") == "true",
	}

	if cfg.APIKey == "" {
		return cfg, ErrMissingAPIKey
	}
	return cfg, nil
}

// Addr is the relay listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}
