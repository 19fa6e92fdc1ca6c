package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendwise/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, config.BackendMemory, cfg.Store.Backend)
	assert.Equal(t, time.Second, cfg.Store.AddLatency)
	assert.Equal(t, 500*time.Millisecond, cfg.Store.UpdateLatency)
	assert.Equal(t, 500*time.Millisecond, cfg.Store.DeleteLatency)
	assert.Equal(t, "gemini", cfg.Extraction.Provider)
	assert.Equal(t, "gemini-1.5-flash", cfg.Extraction.Gemini.Model)
	assert.Equal(t, "2024-02-15-preview", cfg.Extraction.Azure.APIVersion)
	assert.Equal(t, "₹", cfg.Display.CurrencySymbol)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", " Postgres ")
	t.Setenv("STORE_ADD_LATENCY", "0s")
	t.Setenv("EXTRACTION_PROVIDER", "AZURE")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,https://app.example.com")
	t.Setenv("DB_NAME", "ledger")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.BackendPostgres, cfg.Store.Backend)
	assert.Zero(t, cfg.Store.AddLatency)
	assert.Equal(t, "azure", cfg.Extraction.Provider)
	assert.Equal(t, []string{"http://localhost:5173", "https://app.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "postgres://postgres:@localhost:5432/ledger?sslmode=disable", cfg.ConnectionString())
}

func TestLoad_UnknownBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "redis")

	_, err := config.Load()
	assert.Error(t, err)
}
