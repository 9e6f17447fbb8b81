package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/gym?sslmode=disable")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 168*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "America/Sao_Paulo", cfg.LedgerTimezone)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db/gym")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("LEDGER_TIMEZONE", "UTC")
	t.Setenv("CORS_ORIGINS", "https://gym.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"https://gym.example.com"}, cfg.CORSOrigins)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "secret")

	_, err := Load()
	assert.Error(t, err)
}

func TestLocationInvalid(t *testing.T) {
	cfg := &Config{LedgerTimezone: "Mars/Olympus"}
	_, err := cfg.Location()
	assert.Error(t, err)
}
