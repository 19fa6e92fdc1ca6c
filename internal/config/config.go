package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Spendwise"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}

	Store struct {
		Backend       string        `envconfig:"STORE_BACKEND" default:"memory"`
		AddLatency    time.Duration `envconfig:"STORE_ADD_LATENCY" default:"1s"`
		UpdateLatency time.Duration `envconfig:"STORE_UPDATE_LATENCY" default:"500ms"`
		DeleteLatency time.Duration `envconfig:"STORE_DELETE_LATENCY" default:"500ms"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"spendwise"`
	}

	Extraction Extraction

	Display struct {
		CurrencySymbol string `envconfig:"CURRENCY_SYMBOL" default:"₹"`
	}
}

type Extraction struct {
	Provider string        `envconfig:"EXTRACTION_PROVIDER" default:"gemini"`
	Timeout  time.Duration `envconfig:"EXTRACTION_TIMEOUT" default:"30s"`

	Gemini struct {
		APIKey  string `envconfig:"GEMINI_API_KEY"`
		Model   string `envconfig:"GEMINI_MODEL" default:"gemini-1.5-flash"`
		BaseURL string `envconfig:"GEMINI_BASE_URL"`
	}

	Azure struct {
		Endpoint   string `envconfig:"AZURE_OPENAI_ENDPOINT"`
		APIKey     string `envconfig:"AZURE_OPENAI_API_KEY"`
		Deployment string `envconfig:"AZURE_OPENAI_DEPLOYMENT_NAME"`
		APIVersion string `envconfig:"AZURE_OPENAI_API_VERSION" default:"2024-02-15-preview"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	cfg.Store.Backend = strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
	if cfg.Store.Backend != BackendMemory && cfg.Store.Backend != BackendPostgres {
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.Store.Backend)
	}

	cfg.Extraction.Provider = strings.ToLower(strings.TrimSpace(cfg.Extraction.Provider))

	return &cfg, nil
}
