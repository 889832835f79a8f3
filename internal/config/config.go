package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	AppEnv   string
	LogLevel string

	Backend string
	Owner   string

	PostgresDSN string
	RedisAddr   string
	RedisPrefix string
}

// Load reads the optional config file at path; EZCART_* environment
// variables override it, e.g. EZCART_POSTGRES_DSN for postgres.dsn.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("app.env", "dev")
	v.SetDefault("log.level", "info")
	v.SetDefault("backend", BackendMemory)
	v.SetDefault("owner", "local")
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.prefix", "ezcart:")

	v.SetEnvPrefix("EZCART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("v.ReadInConfig: %w", err)
		}
	}

	cfg := Config{
		AppEnv:      v.GetString("app.env"),
		LogLevel:    v.GetString("log.level"),
		Backend:     strings.ToLower(v.GetString("backend")),
		Owner:       v.GetString("owner"),
		PostgresDSN: v.GetString("postgres.dsn"),
		RedisAddr:   v.GetString("redis.addr"),
		RedisPrefix: v.GetString("redis.prefix"),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if !slices.Contains([]string{BackendMemory, BackendPostgres, BackendRedis}, c.Backend) {
		return fmt.Errorf("backend[%s] is not supported", c.Backend)
	}
	if c.Owner == "" {
		return fmt.Errorf("owner is empty")
	}
	if c.Backend == BackendPostgres && c.PostgresDSN == "" {
		return fmt.Errorf("postgres.dsn is empty")
	}
	if c.Backend == BackendRedis && c.RedisAddr == "" {
		return fmt.Errorf("redis.addr is empty")
	}

	return nil
}
