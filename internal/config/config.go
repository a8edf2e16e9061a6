package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`

	// APIBaseURL is the root of the portfolio REST backend; "/api/..." is appended.
	APIBaseURL string        `env:"API_BASE_URL" envDefault:"http://localhost:5678"`
	APITimeout time.Duration `env:"API_TIMEOUT" envDefault:"0s"`

	SessionBackend string `env:"SESSION_BACKEND" envDefault:"sqlite"`
	DBPath         string `env:"DB_PATH" envDefault:"/data/folio.db"`
	Redis          RedisConfig
	CookieSecure   bool `env:"COOKIE_SECURE" envDefault:"false"`

	UploadPath     string `env:"UPLOAD_PATH" envDefault:"/data/uploads"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"4194304"`
	// Staged images untouched for UploadMaxAge are removed at startup and
	// every UploadSweepInterval after.
	UploadMaxAge        time.Duration `env:"UPLOAD_MAX_AGE" envDefault:"24h"`
	UploadSweepInterval time.Duration `env:"UPLOAD_SWEEP_INTERVAL" envDefault:"1h"`

	VisionBackend string `env:"VISION_BACKEND" envDefault:"none"`
	OllamaHost    string `env:"OLLAMA_HOST" envDefault:"http://localhost:11434"`
	OllamaModel   string `env:"OLLAMA_MODEL" envDefault:"moondream"`
	ClaudeAPIKey  string `env:"CLAUDE_API_KEY"`
	ClaudeModel   string `env:"CLAUDE_MODEL" envDefault:"claude-opus-4-6"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// Load reads an optional .env file from the working directory and then parses
// the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.SessionBackend {
	case "sqlite", "redis", "memory":
	default:
		return fmt.Errorf("invalid SESSION_BACKEND %q (valid options: sqlite, redis, memory)", c.SessionBackend)
	}
	switch c.VisionBackend {
	case "none", "ollama":
	case "claude":
		if c.ClaudeAPIKey == "" {
			return errors.New("CLAUDE_API_KEY is required when VISION_BACKEND=claude")
		}
	default:
		return fmt.Errorf("invalid VISION_BACKEND %q (valid options: none, claude, ollama)", c.VisionBackend)
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}
	if c.UploadMaxAge <= 0 || c.UploadSweepInterval <= 0 {
		return errors.New("UPLOAD_MAX_AGE and UPLOAD_SWEEP_INTERVAL must be positive")
	}
	return nil
}
