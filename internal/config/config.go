package config

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	AppPort string `mapstructure:"app_port"`

	DBDriver   string `mapstructure:"db_driver"` // mysql or sqlite
	DBLogLevel string `mapstructure:"db_log_level"`
	MySQLHost  string `mapstructure:"mysql_host"`
	MySQLPort  string `mapstructure:"mysql_port"`
	MySQLDB    string `mapstructure:"mysql_db"`
	MySQLUser  string `mapstructure:"mysql_user"`
	MySQLPass  string `mapstructure:"mysql_pass"`
	SQLitePath string `mapstructure:"sqlite_path"`

	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	IdempTTLSecs  int    `mapstructure:"idempotency_ttl_seconds"`

	RateCacheBackend     string `mapstructure:"rate_cache_backend"` // memory or redis
	CurrencyAPIBaseURL   string `mapstructure:"currency_api_base_url"`
	RestCountriesURL     string `mapstructure:"restcountries_url"`
	CurrencyCacheTTLMins int    `mapstructure:"currency_cache_ttl_minutes"`
	UpstreamTimeoutSecs  int    `mapstructure:"upstream_timeout_seconds"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	LogOutput string `mapstructure:"log_output"`
}

var defaults = map[string]any{
	"app_port":                   "8080",
	"db_driver":                  "mysql",
	"db_log_level":               "warn",
	"mysql_host":                 "mysql",
	"mysql_port":                 "3306",
	"mysql_db":                   "expenses",
	"mysql_user":                 "expenses",
	"mysql_pass":                 "",
	"sqlite_path":                "data/expenses.db",
	"redis_addr":                 "redis:6379",
	"redis_password":             "",
	"redis_db":                   0,
	"idempotency_ttl_seconds":    300,
	"rate_cache_backend":         "memory",
	"currency_api_base_url":      "https://api.exchangerate-api.com/v4/latest",
	"restcountries_url":          "https://restcountries.com/v3.1/all?fields=name,currencies,cca2",
	"currency_cache_ttl_minutes": 720,
	"upstream_timeout_seconds":   10,
	"log_level":                  "info",
	"log_format":                 "json",
	"log_output":                 "stdout",
}

// Load reads defaults, then the optional file named by CONFIG_FILE, then the environment.
func Load() (*Config, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()

	_ = v.BindEnv("config_file", "CONFIG_FILE")
	if path := v.GetString("config_file"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.DBDriver {
	case "mysql":
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	if c.RateCacheBackend != "memory" && c.RateCacheBackend != "redis" {
		return fmt.Errorf("unknown RATE_CACHE_BACKEND %q", c.RateCacheBackend)
	}
	if c.CurrencyCacheTTLMins <= 0 {
		return errors.New("CURRENCY_CACHE_TTL_MINUTES must be positive")
	}
	if c.UpstreamTimeoutSecs <= 0 {
		return errors.New("UPSTREAM_TIMEOUT_SECONDS must be positive")
	}
	if c.IdempTTLSecs <= 0 {
		return errors.New("IDEMPOTENCY_TTL_SECONDS must be positive")
	}
	return nil
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "sqlite" {
		return c.SQLitePath
	}
	return c.MySQLDSN()
}

func (c *Config) MySQLDSN() string {
	// parseTime for DATETIME; clientFoundRows so a conditional UPDATE reports matched rows
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&clientFoundRows=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, net.JoinHostPort(c.MySQLHost, c.MySQLPort), c.MySQLDB)
}

func (c *Config) CurrencyCacheTTL() time.Duration {
	return time.Duration(c.CurrencyCacheTTLMins) * time.Minute
}

func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.UpstreamTimeoutSecs) * time.Second
}

func (c *Config) IdempotencyTTL() time.Duration {
	return time.Duration(c.IdempTTLSecs) * time.Second
}
