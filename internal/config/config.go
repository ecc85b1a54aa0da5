// Package config содержит логику чтения конфигурации сервиса аналитики продаж.
package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// localDSN — адрес локальной БД для разработки, используется при
// отсутствии DATABASE_URL.
const localDSN = "postgresql://emil.aliyev:@localhost:5432/sales_analytics"

// Config содержит параметры конфигурации сервиса аналитики продаж.
type Config struct {
	RunAddress    string        `env:"RUN_ADDRESS"`
	DatabaseURL   string        `env:"DATABASE_URL"`
	SessionSecret string        `env:"SESSION_SECRET"`
	CacheTTL      time.Duration `env:"REPORT_CACHE_TTL"`
	CacheSize     int           `env:"REPORT_CACHE_SIZE"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDatabaseURL := cfg.DatabaseURL
	envSessionSecret := cfg.SessionSecret

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURL, "d", "", "database URL")
	flag.StringVar(&cfg.SessionSecret, "s", "", "session signing secret")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDatabaseURL != "" {
		cfg.DatabaseURL = envDatabaseURL
	}
	if envSessionSecret != "" {
		cfg.SessionSecret = envSessionSecret
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = "sunco-analytics-secret"
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 256
	}

	return cfg, nil
}

// DatabaseDSN возвращает DSN для подключения к PostgreSQL.
// Если DATABASE_URL не задан, используется локальная БД разработки.
// Устаревший префикс схемы postgres:// переписывается на postgresql://.
func (c *Config) DatabaseDSN() string {
	if c.DatabaseURL == "" {
		return localDSN
	}
	if strings.HasPrefix(c.DatabaseURL, "postgres://") {
		return "postgresql://" + strings.TrimPrefix(c.DatabaseURL, "postgres://")
	}
	return c.DatabaseURL
}
