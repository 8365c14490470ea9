package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Log       LogConfig
	RateLimit RateLimitConfig
	Optimizer OptimizerConfig
	Demand    DemandConfig
	Auth      AuthConfig
}

type ServerConfig struct {
	Port int
	// SeedLayout inserts the default 24-corral lot grid on startup.
	SeedLayout bool
}

type DatabaseConfig struct {
	URL             string
	Migrate         bool
	MigrationsDir   string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL string
}

type LogConfig struct {
	Level string
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type OptimizerConfig struct {
	TimeBudget time.Duration
	MaxStall   int
	Alpha      float64
}

type DemandConfig struct {
	ModelPath       string
	HistoryDays     int
	MinObservations int
}

// AuthConfig guards the admin endpoints. Mode is "off" or "hmac".
type AuthConfig struct {
	Mode       string
	HMACSecret string
}

// Load reads configuration from the environment, overlaid on envFile when it
// exists. An empty envFile skips the file.
func Load(envFile string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	v.SetDefault("PORT", 8080)
	v.SetDefault("SEED_LAYOUT", true)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_MIGRATE", true)
	v.SetDefault("DB_MIGRATIONS_DIR", "db/migrations")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 300)
	v.SetDefault("RATE_RPS", 20.0)
	v.SetDefault("RATE_BURST", 40)
	v.SetDefault("OPT_TIME_BUDGET_MS", 5000)
	v.SetDefault("OPT_MAX_STALL", 5000)
	v.SetDefault("OPT_ALPHA", 0.3)
	v.SetDefault("DEMAND_MODEL_PATH", "models/demand.yaml")
	v.SetDefault("DEMAND_HISTORY_DAYS", 90)
	v.SetDefault("DEMAND_MIN_OBSERVATIONS", 3)
	v.SetDefault("AUTH_MODE", "off")

	cfg := &Config{
		Server: ServerConfig{
			Port:       v.GetInt("PORT"),
			SeedLayout: v.GetBool("SEED_LAYOUT"),
		},
		Database: DatabaseConfig{
			URL:             v.GetString("DATABASE_URL"),
			Migrate:         v.GetBool("DB_MIGRATE"),
			MigrationsDir:   v.GetString("DB_MIGRATIONS_DIR"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
		},
		Redis: RedisConfig{URL: v.GetString("REDIS_URL")},
		Log:   LogConfig{Level: v.GetString("LOG_LEVEL")},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("RATE_RPS"),
			Burst: v.GetInt("RATE_BURST"),
		},
		Optimizer: OptimizerConfig{
			TimeBudget: time.Duration(v.GetInt("OPT_TIME_BUDGET_MS")) * time.Millisecond,
			MaxStall:   v.GetInt("OPT_MAX_STALL"),
			Alpha:      v.GetFloat64("OPT_ALPHA"),
		},
		Demand: DemandConfig{
			ModelPath:       v.GetString("DEMAND_MODEL_PATH"),
			HistoryDays:     v.GetInt("DEMAND_HISTORY_DAYS"),
			MinObservations: v.GetInt("DEMAND_MIN_OBSERVATIONS"),
		},
		Auth: AuthConfig{
			Mode:       strings.ToLower(strings.TrimSpace(v.GetString("AUTH_MODE"))),
			HMACSecret: v.GetString("AUTH_HMAC_SECRET"),
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Server.Port <= 0 || c.Server.Port > 65535:
		return fmt.Errorf("config: PORT %d out of range", c.Server.Port)
	case c.Optimizer.TimeBudget < 0:
		return fmt.Errorf("config: OPT_TIME_BUDGET_MS must not be negative")
	case c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0:
		return fmt.Errorf("config: rate limit must not be negative")
	case c.Demand.HistoryDays <= 0:
		return fmt.Errorf("config: DEMAND_HISTORY_DAYS must be positive")
	case c.Auth.Mode != "off" && c.Auth.Mode != "hmac":
		return fmt.Errorf("config: AUTH_MODE %q must be off or hmac", c.Auth.Mode)
	case c.Auth.Mode == "hmac" && c.Auth.HMACSecret == "":
		return fmt.Errorf("config: AUTH_HMAC_SECRET required when AUTH_MODE=hmac")
	}
	return nil
}

func (c *Config) Addr() string { return fmt.Sprintf(":%d", c.Server.Port) }
