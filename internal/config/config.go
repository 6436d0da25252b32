package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every setting the credit store reads at startup.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Payment    PaymentConfig
	Catalog    CatalogConfig
	Storefront StorefrontConfig
	Log        LogConfig
	CORS       CORSConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN returns a lib/pq connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port for the redis client.
func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

type PaymentConfig struct {
	SuccessRate float64
	Method      string
}

type CatalogConfig struct {
	CacheTTL time.Duration
}

type StorefrontConfig struct {
	PublicURL     string
	RedirectDelay time.Duration
}

type LogConfig struct {
	Level       string
	Environment string
	ServiceName string
}

type CORSConfig struct {
	AllowedOrigins []string
}

var envBindings = map[string]string{
	"server.port":                "PORT",
	"server.read_timeout":        "SERVER_READ_TIMEOUT",
	"server.write_timeout":       "SERVER_WRITE_TIMEOUT",
	"server.idle_timeout":        "SERVER_IDLE_TIMEOUT",
	"server.request_timeout":     "SERVER_REQUEST_TIMEOUT",
	"server.shutdown_timeout":    "SERVER_SHUTDOWN_TIMEOUT",
	"database.host":              "DATABASE_HOST",
	"database.port":              "DATABASE_PORT",
	"database.user":              "DATABASE_USER",
	"database.password":          "DATABASE_PASSWORD",
	"database.name":              "DATABASE_NAME",
	"database.ssl_mode":          "DATABASE_SSL_MODE",
	"database.max_open_conns":    "DATABASE_MAX_OPEN_CONNS",
	"database.max_idle_conns":    "DATABASE_MAX_IDLE_CONNS",
	"database.conn_max_lifetime": "DATABASE_CONN_MAX_LIFETIME",
	"redis.enabled":              "REDIS_ENABLED",
	"redis.host":                 "REDIS_HOST",
	"redis.port":                 "REDIS_PORT",
	"redis.password":             "REDIS_PASSWORD",
	"redis.db":                   "REDIS_DB",
	"payment.success_rate":       "PAYMENT_SUCCESS_RATE",
	"payment.method":             "PAYMENT_METHOD",
	"catalog.cache_ttl":          "CATALOG_CACHE_TTL",
	"storefront.public_url":      "STOREFRONT_PUBLIC_URL",
	"storefront.redirect_delay":  "STOREFRONT_REDIRECT_DELAY",
	"log.level":                  "LOG_LEVEL",
	"log.environment":            "APP_ENV",
	"log.service_name":           "SERVICE_NAME",
	"cors.allowed_origins":       "CORS_ALLOWED_ORIGINS",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.request_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.name", "credit_store")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("payment.success_rate", 0.9)
	v.SetDefault("payment.method", "demo_payment")

	v.SetDefault("catalog.cache_ttl", 5*time.Minute)

	v.SetDefault("storefront.public_url", "http://localhost:8080")
	v.SetDefault("storefront.redirect_delay", 3*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.environment", "development")
	v.SetDefault("log.service_name", "credit-store")

	v.SetDefault("cors.allowed_origins", []string{"https://*", "http://*"})
}

// Load reads configuration from the optional env file at path, then from the
// process environment. A missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	}
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	if path != "" {
		if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		// dotenv keys arrive flat (DATABASE_HOST -> database_host); lift them
		// onto the nested keys below the process environment.
		for key, env := range envBindings {
			if val := v.Get(strings.ToLower(env)); val != nil {
				v.SetDefault(key, val)
			}
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:            v.GetString("server.port"),
			ReadTimeout:     v.GetDuration("server.read_timeout"),
			WriteTimeout:    v.GetDuration("server.write_timeout"),
			IdleTimeout:     v.GetDuration("server.idle_timeout"),
			RequestTimeout:  v.GetDuration("server.request_timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetString("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			Name:            v.GetString("database.name"),
			SSLMode:         v.GetString("database.ssl_mode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetString("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Payment: PaymentConfig{
			SuccessRate: v.GetFloat64("payment.success_rate"),
			Method:      v.GetString("payment.method"),
		},
		Catalog: CatalogConfig{
			CacheTTL: v.GetDuration("catalog.cache_ttl"),
		},
		Storefront: StorefrontConfig{
			PublicURL:     strings.TrimRight(v.GetString("storefront.public_url"), "/"),
			RedirectDelay: v.GetDuration("storefront.redirect_delay"),
		},
		Log: LogConfig{
			Level:       v.GetString("log.level"),
			Environment: v.GetString("log.environment"),
			ServiceName: v.GetString("log.service_name"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetStringSlice("cors.allowed_origins")),
		},
	}
}

// splitList accepts both a real list and a single comma separated env value.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate checks settings that would otherwise fail at request time.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server port must not be empty")
	}
	if c.Payment.SuccessRate < 0 || c.Payment.SuccessRate > 1 {
		return fmt.Errorf("payment success rate must be within [0, 1], got %v", c.Payment.SuccessRate)
	}
	if c.Payment.Method == "" {
		return errors.New("payment method must not be empty")
	}
	if c.Storefront.RedirectDelay < 0 {
		return errors.New("storefront redirect delay must not be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return errors.New("database max idle conns must not exceed max open conns")
	}
	return nil
}
