package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Fetcher configuration
	Fetcher FetcherConfig `mapstructure:"fetcher"`

	// Audit configuration
	Audit AuditConfig `mapstructure:"audit"`

	// Rate limiting configuration
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	// TrustProxyHeaders lets X-Forwarded-For identify clients for rate
	// limiting. Only enable behind a reverse proxy that sets the header.
	TrustProxyHeaders bool `mapstructure:"trust_proxy_headers"`
}

// FetcherConfig holds outbound HTTP configuration
type FetcherConfig struct {
	Timeout           time.Duration `mapstructure:"timeout"`
	UserAgent         string        `mapstructure:"user_agent"`
	MaxAttempts       int           `mapstructure:"max_attempts"`
	RequestsPerSecond int           `mapstructure:"requests_per_second"`
	CheckRobotsTxt    bool          `mapstructure:"check_robots_txt"`
}

// AuditConfig holds audit engine configuration
type AuditConfig struct {
	ExtractArticle bool `mapstructure:"extract_article"`
}

// RateLimitConfig holds the per-client admission limit
type RateLimitConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	RequestsPerWindow int           `mapstructure:"requests_per_window"`
	Window            time.Duration `mapstructure:"window"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "text"
}

// Load loads configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.auditkit")
	}

	setDefaults(v)

	v.SetEnvPrefix("AUDITKIT")
	v.AutomaticEnv()

	// Config file not found is not an error, defaults and env apply
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.trust_proxy_headers", false)

	// Fetcher defaults
	v.SetDefault("fetcher.timeout", "20s")
	v.SetDefault("fetcher.user_agent", "AuditKitBot/1.0 (+https://github.com/auditkit/auditkit)")
	v.SetDefault("fetcher.max_attempts", 4)
	v.SetDefault("fetcher.requests_per_second", 10)
	v.SetDefault("fetcher.check_robots_txt", true)

	// Audit defaults
	v.SetDefault("audit.extract_article", true)

	// Rate limit defaults
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_window", 5)
	v.SetDefault("rate_limit.window", "1h")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535")
	}
	if c.Fetcher.Timeout <= 0 {
		return fmt.Errorf("fetcher.timeout must be positive")
	}
	if c.Fetcher.MaxAttempts <= 0 {
		return fmt.Errorf("fetcher.max_attempts must be positive")
	}
	if c.Fetcher.RequestsPerSecond <= 0 {
		return fmt.Errorf("fetcher.requests_per_second must be positive")
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.RequestsPerWindow <= 0 {
			return fmt.Errorf("rate_limit.requests_per_window must be positive")
		}
		if c.RateLimit.Window <= 0 {
			return fmt.Errorf("rate_limit.window must be positive")
		}
	}
	return nil
}
