package config

import (
	"fmt"
	"strings"
	"time"

	"family-hub/internal/settings"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig
	RateLimit  RateLimitConfig

	// Storage
	Postgres PostgresConfig
	Redis    RedisConfig

	// Assistant
	Assistant      AssistantConfig
	GoogleCalendar GoogleCalendarConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// RateLimitConfig bounds how fast one session may send messages.
type RateLimitConfig struct {
	PerMinute  int
	Burst      int
	MaxClients int
}

// PostgresConfig selects the household store. An empty DSN keeps data in memory.
type PostgresConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
	ConnMaxLife  time.Duration
}

// RedisConfig backs the turn ledger. An empty address keeps the ledger in memory.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AssistantConfig struct {
	Timezone            string
	ConfidenceThreshold float64
	ContextWindow       int
	SessionTTL          time.Duration
	MaxSessions         int
	LedgerTTL           time.Duration
	LedgerSize          int

	// GatewayTimeout caps one model call, retry included.
	GatewayTimeout time.Duration
	RetryDelay     time.Duration
}

type GoogleCalendarConfig struct {
	CredentialsPath string
	TokenPath       string
	CalendarID      string
}

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, . and /etc/family-hub/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/family-hub/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")
	cfg.RateLimit.PerMinute = viper.GetInt("rate_limit.per_minute")
	cfg.RateLimit.Burst = viper.GetInt("rate_limit.burst")
	cfg.RateLimit.MaxClients = viper.GetInt("rate_limit.max_clients")

	// Storage
	cfg.Postgres.DSN = settings.ExpandEnv(viper.GetViper(), viper.GetString("postgres.dsn"))
	if dsn := viper.GetString("database_url"); dsn != "" {
		cfg.Postgres.DSN = dsn
	}
	cfg.Postgres.MaxOpenConns = viper.GetInt("postgres.max_open_conns")
	cfg.Postgres.MaxIdleConns = viper.GetInt("postgres.max_idle_conns")
	cfg.Postgres.ConnMaxLife = viper.GetDuration("postgres.conn_max_lifetime")

	cfg.Redis.Addr = viper.GetString("redis.addr")
	cfg.Redis.Password = settings.ExpandEnv(viper.GetViper(), viper.GetString("redis.password"))
	cfg.Redis.DB = viper.GetInt("redis.db")
	if addr := viper.GetString("redis_addr"); addr != "" {
		cfg.Redis.Addr = addr
	}

	// Assistant
	cfg.Assistant.Timezone = viper.GetString("assistant.timezone")
	cfg.Assistant.ConfidenceThreshold = viper.GetFloat64("assistant.confidence_threshold")
	cfg.Assistant.ContextWindow = viper.GetInt("assistant.context_window")
	cfg.Assistant.SessionTTL = viper.GetDuration("assistant.session_ttl")
	cfg.Assistant.MaxSessions = viper.GetInt("assistant.max_sessions")
	cfg.Assistant.LedgerTTL = viper.GetDuration("assistant.ledger_ttl")
	cfg.Assistant.LedgerSize = viper.GetInt("assistant.ledger_size")
	cfg.Assistant.GatewayTimeout = viper.GetDuration("assistant.gateway_timeout")
	cfg.Assistant.RetryDelay = viper.GetDuration("assistant.retry_delay")

	cfg.GoogleCalendar.CredentialsPath = viper.GetString("google_calendar.credentials_path")
	cfg.GoogleCalendar.TokenPath = viper.GetString("google_calendar.token_path")
	cfg.GoogleCalendar.CalendarID = viper.GetString("google_calendar.calendar_id")
	if googleCreds := viper.GetString("google_calendar_credentials"); googleCreds != "" {
		cfg.GoogleCalendar.CredentialsPath = googleCreds
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	if t := cfg.Assistant.ConfidenceThreshold; t <= 0 || t > 1 {
		return fmt.Errorf("assistant.confidence_threshold must be in (0, 1], got %v", t)
	}
	if cfg.Assistant.ContextWindow <= 0 {
		return fmt.Errorf("assistant.context_window must be positive")
	}
	if _, err := time.LoadLocation(cfg.Assistant.Timezone); err != nil {
		return fmt.Errorf("assistant.timezone: %w", err)
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "development")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)
	viper.SetDefault("rate_limit.per_minute", 30)
	viper.SetDefault("rate_limit.burst", 5)
	viper.SetDefault("rate_limit.max_clients", 1000)

	viper.SetDefault("postgres.max_open_conns", 10)
	viper.SetDefault("postgres.max_idle_conns", 5)
	viper.SetDefault("postgres.conn_max_lifetime", "30m")

	// Assistant defaults
	viper.SetDefault("assistant.timezone", "UTC")
	viper.SetDefault("assistant.confidence_threshold", 0.55)
	viper.SetDefault("assistant.context_window", 6)
	viper.SetDefault("assistant.session_ttl", "30m")
	viper.SetDefault("assistant.max_sessions", 10000)
	viper.SetDefault("assistant.ledger_ttl", "24h")
	viper.SetDefault("assistant.ledger_size", 50000)
	viper.SetDefault("assistant.gateway_timeout", "8s")
	viper.SetDefault("assistant.retry_delay", "300ms")
	viper.SetDefault("assistant.provider.name", "none")

	viper.SetDefault("google_calendar.token_path", "token.json")
	viper.SetDefault("google_calendar.calendar_id", "primary")
}
