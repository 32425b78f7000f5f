package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"butterfly-quiz-service/internal/domain"
	"butterfly-quiz-service/internal/game"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override, e.g. QUIZ_REDIS_ADDR.
const EnvPrefix = "QUIZ_"

type Config struct {
	Server struct {
		Port string `yaml:"port" env:"PORT"`
	} `yaml:"server" envPrefix:"SERVER_"`
	Redis struct {
		Addr     string `yaml:"addr" env:"ADDR"`
		Password string `yaml:"password" env:"PASSWORD"`
		DB       int    `yaml:"db" env:"DB"`
		TTL      string `yaml:"ttl" env:"TTL"`
	} `yaml:"redis" envPrefix:"REDIS_"`
	Postgres struct {
		URL string `yaml:"url" env:"URL"`
	} `yaml:"postgres" envPrefix:"POSTGRES_"`
	SQLite struct {
		Path string `yaml:"path" env:"PATH"`
	} `yaml:"sqlite" envPrefix:"SQLITE_"`
	Catalog struct {
		TTL  string `yaml:"ttl" env:"TTL"`
		Seed bool   `yaml:"seed" env:"SEED"`
	} `yaml:"catalog" envPrefix:"CATALOG_"`
	Game struct {
		Rounds  int    `yaml:"rounds" env:"ROUNDS"`
		Options int    `yaml:"options" env:"OPTIONS"`
		Preview string `yaml:"preview" env:"PREVIEW"`
		Answer  string `yaml:"answer" env:"ANSWER"`
		Tick    string `yaml:"tick" env:"TICK"`
	} `yaml:"game" envPrefix:"GAME_"`
	History struct {
		Limit int `yaml:"limit" env:"LIMIT"`
	} `yaml:"history" envPrefix:"HISTORY_"`
}

// Default returns the configuration used when no file or override sets a value.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Redis.TTL = "10m"
	cfg.Catalog.TTL = "10m"
	cfg.Game.Rounds = 10
	cfg.Game.Options = 4
	cfg.Game.Preview = "5s"
	cfg.Game.Answer = "10s"
	cfg.Game.Tick = "1s"
	cfg.History.Limit = 50
	return cfg
}

// Load reads YAML config from path on top of the defaults, then applies
// QUIZ_* environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, err
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("env overrides: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects game settings the engine cannot run with.
func (c Config) Validate() error {
	if c.Game.Rounds <= 0 {
		return fmt.Errorf("%w: game.rounds must be positive, got %d", domain.ErrInvalidConfiguration, c.Game.Rounds)
	}
	if c.Game.Options < 2 {
		return fmt.Errorf("%w: game.options must be at least 2, got %d", domain.ErrInvalidConfiguration, c.Game.Options)
	}
	durations := make(map[string]time.Duration, 3)
	for name, raw := range map[string]string{"preview": c.Game.Preview, "answer": c.Game.Answer, "tick": c.Game.Tick} {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: game.%s must be a positive duration, got %q", domain.ErrInvalidConfiguration, name, raw)
		}
		durations[name] = d
	}
	tick := durations["tick"]
	for _, name := range []string{"preview", "answer"} {
		if durations[name]%tick != 0 {
			return fmt.Errorf("%w: game.%s %s is not a multiple of game.tick %s", domain.ErrInvalidConfiguration, name, durations[name], tick)
		}
	}
	return nil
}

// GameSettings converts the game section into engine settings.
func (c Config) GameSettings() game.Settings {
	defaults := game.DefaultSettings()
	return game.Settings{
		OptionCount: c.Game.Options,
		Preview:     TTLDuration(c.Game.Preview, defaults.Preview),
		Answer:      TTLDuration(c.Game.Answer, defaults.Answer),
		Tick:        TTLDuration(c.Game.Tick, defaults.Tick),
	}
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
