package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	DatabaseURL string        `env:"DATABASE_URL,required,notEmpty"`
	JWTSecret   string        `env:"JWT_SECRET,required,notEmpty"`
	JWTTTL      time.Duration `env:"JWT_TTL" envDefault:"168h"`

	HTTPAddr    string   `env:"HTTP_ADDR" envDefault:":8080"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`

	// LedgerTimezone decides which calendar day a check-in belongs to.
	LedgerTimezone string `env:"LEDGER_TIMEZONE" envDefault:"America/Sao_Paulo"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	MetricsUser     string `env:"METRICS_USER" envDefault:"metrics"`
	MetricsPassword string `env:"METRICS_PASSWORD"`
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.LedgerTimezone)
	if err != nil {
		return nil, fmt.Errorf("load ledger timezone %q: %w", c.LedgerTimezone, err)
	}
	return loc, nil
}
