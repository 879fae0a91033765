package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the immutable configuration for one process. It is built once in
// main and injected; components never read ambient environment state.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Congress CongressConfig `mapstructure:"congress"`
	Import   ImportConfig   `mapstructure:"import"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	URL             string        `mapstructure:"url"`
	Path            string        `mapstructure:"path"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN returns the connection string for the configured driver.
func (c *DatabaseConfig) DSN() string {
	if c.Driver == "postgres" {
		return c.URL
	}
	return c.Path
}

// CongressConfig holds settings for the upstream congress.gov API client.
type CongressConfig struct {
	BaseURL   string      `mapstructure:"base_url"`
	APIKey    string      `mapstructure:"api_key"`
	UserAgent string      `mapstructure:"user_agent"`
	PageLimit int         `mapstructure:"page_limit"`
	Retry     RetryConfig `mapstructure:"retry"`
}

// RetryConfig is the retry policy for a single logical upstream fetch.
type RetryConfig struct {
	MaxAttempts       int           `mapstructure:"max_attempts"`
	BaseDelay         time.Duration `mapstructure:"base_delay"`
	BackoffMultiplier float64       `mapstructure:"backoff_multiplier"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
}

// ImportConfig holds settings for the reconciliation pipeline.
type ImportConfig struct {
	BatchSize     int           `mapstructure:"batch_size"`
	BatchDelay    time.Duration `mapstructure:"batch_delay"`
	StartCongress int           `mapstructure:"start_congress"`
	EndCongress   int           `mapstructure:"end_congress"`
}

// Load reads configuration from file and environment.
// Parameters:
//   - configPath: explicit config file path; empty uses the default search paths.
//
// Returns:
//   - *Config: loaded and validated configuration.
//   - error: non-nil if reading, unmarshaling, or validation fails.
func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/legisync.db")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("congress.base_url", "https://api.congress.gov/v3")
	v.SetDefault("congress.user_agent", "legisync/1.0 (legislator import job)")
	v.SetDefault("congress.page_limit", 250)
	v.SetDefault("congress.retry.max_attempts", 3)
	v.SetDefault("congress.retry.base_delay", time.Second)
	v.SetDefault("congress.retry.backoff_multiplier", 2.0)
	v.SetDefault("congress.retry.request_timeout", 30*time.Second)
	v.SetDefault("import.batch_size", 10)
	v.SetDefault("import.batch_delay", 500*time.Millisecond)
	v.SetDefault("import.start_congress", 119)
	v.SetDefault("import.end_congress", 100)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("congress.api_key", "CONGRESS_API_KEY")
	v.BindEnv("database.url", "DATABASE_URL")
	v.BindEnv("database.driver", "DATABASE_DRIVER")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required credentials are present. A missing credential
// is fatal at process start, never a per-request error.
func (c *Config) Validate() error {
	if c.Congress.APIKey == "" {
		return fmt.Errorf("missing required configuration: CONGRESS_API_KEY")
	}
	if c.Database.Driver == "postgres" && c.Database.URL == "" {
		return fmt.Errorf("missing required configuration: DATABASE_URL")
	}
	return nil
}
