package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendRedis  Backend = "redis"
	BackendMemory Backend = "memory"
)

type Config struct {
	HTTPAddr   string     `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel   slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	Backend    Backend    `env:"STORE_BACKEND" envDefault:"sqlite"`
	DBPath     string     `env:"DB_PATH" envDefault:"data/csquest.db"`
	RedisURL   string     `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	CatalogDir string     `env:"CATALOG_DIR"`
	SPADir     string     `env:"SPA_DIR" envDefault:"../web/dist"`
	SeedDemo   bool       `env:"SEED_DEMO" envDefault:"false"`
	Battle     Battle     `envPrefix:"BATTLE_"`
}

// Battle holds encounter pacing and question difficulty. A difficulty of 0
// samples the whole question bank.
type Battle struct {
	CounterDelay time.Duration `env:"COUNTER_DELAY" envDefault:"2s"`
	MissDelay    time.Duration `env:"MISS_DELAY" envDefault:"1500ms"`
	OutcomeDelay time.Duration `env:"OUTCOME_DELAY" envDefault:"1500ms"`
	Difficulty   int           `env:"DIFFICULTY" envDefault:"0"`
}

// Load reads .env files (if present) into the process environment and
// parses the result. Variables already set take precedence over the files.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	switch cfg.Backend {
	case BackendSQLite, BackendRedis, BackendMemory:
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.Backend)
	}
	if cfg.Battle.Difficulty < 0 {
		return nil, fmt.Errorf("BATTLE_DIFFICULTY must not be negative")
	}
	return &cfg, nil
}
