package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"exchange-rates/pkg/exchangerate"
)

type Config struct {
	BaseURL     string
	APIKey      string
	HTTPTimeout time.Duration

	LogLevel    string
	DatabaseURL string

	CronSpec string
	Location string

	HTTPPort string
}

func LoadConfig() (Config, error) {
	// a missing .env is fine, the environment alone is enough
	_ = godotenv.Overload()

	cfg := Config{
		BaseURL:     exchangerate.DefaultBaseURL,
		HTTPTimeout: 20 * time.Second,
		LogLevel:    "info",
		CronSpec:    "0 12 * * *",
		Location:    "UTC",
		HTTPPort:    "8080",
	}

	if v := env("EXCHANGE_RATES_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	cfg.APIKey = env("EXCHANGE_RATES_API_KEY")
	cfg.DatabaseURL = env("DATABASE_URL")

	if v := env("HTTP_TIMEOUT_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return Config{}, fmt.Errorf("HTTP_TIMEOUT_SECONDS must be a positive integer, got %q", v)
		}
		cfg.HTTPTimeout = time.Duration(secs) * time.Second
	}
	if v := env("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := env("CRON_SPEC"); v != "" {
		cfg.CronSpec = v
	}
	if v := env("LOCATION"); v != "" {
		cfg.Location = v
	}
	if v := env("PORT"); v != "" {
		cfg.HTTPPort = v
	}

	return cfg, nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
