package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Neoksnaman/bizRegForm/internal/core/fees"
)

// =============================================================================
// Config Types
// =============================================================================

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Sheets   SheetsConfig   `mapstructure:"sheets"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Fees     FeesConfig     `mapstructure:"fees"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Address returns the server address in host:port format.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Sheet backends.
const (
	BackendSQLite = "sqlite"
	BackendGoogle = "google"
)

// SheetsConfig selects where submitted records are appended.
type SheetsConfig struct {
	// Backend is "sqlite" (rows kept in the local database) or "google".
	Backend         string `mapstructure:"backend"`
	SpreadsheetID   string `mapstructure:"spreadsheet_id"`
	SheetName       string `mapstructure:"sheet_name"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

// Purpose generator providers.
const (
	ProviderOpenAI = "openai"
	ProviderStatic = "static"
)

// LLMConfig configures the primary purpose generator.
type LLMConfig struct {
	// Provider is "openai" (any OpenAI-compatible endpoint) or "static".
	Provider    string        `mapstructure:"provider"`
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Temperature float32       `mapstructure:"temperature"`
	StaticText  string        `mapstructure:"static_text"`
}

// FeesConfig holds fee schedule configuration.
type FeesConfig struct {
	// ScheduleFile is an optional YAML file overriding default fee rates.
	ScheduleFile string `mapstructure:"schedule_file"`
}

// =============================================================================
// Config Loading
// =============================================================================

// LoadConfig loads configuration from file and environment.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("database.dsn", "./data/bizreg.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("sheets.backend", BackendSQLite)
	v.SetDefault("sheets.spreadsheet_id", "")
	v.SetDefault("sheets.sheet_name", "Sheet1")
	v.SetDefault("sheets.credentials_file", "")

	v.SetDefault("llm.provider", ProviderStatic)
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.timeout", "30s")
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("llm.static_text", "")

	v.SetDefault("fees.schedule_file", "")

	// Load from file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			// Only return error if file was explicitly specified and is invalid
			if _, ok := err.(viper.ConfigParseError); ok {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
			// File not found is OK, we'll use defaults
		}
	}

	// Enable environment variable overrides
	v.SetEnvPrefix("BIZREG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the backend and provider choices.
func (c *Config) Validate() error {
	switch c.Sheets.Backend {
	case BackendSQLite:
	case BackendGoogle:
		if c.Sheets.SpreadsheetID == "" {
			return errors.New("sheets.spreadsheet_id is required for the google backend")
		}
	default:
		return fmt.Errorf("unknown sheets.backend %q", c.Sheets.Backend)
	}

	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderStatic:
	default:
		return fmt.Errorf("unknown llm.provider %q", c.LLM.Provider)
	}
	return nil
}

// LoadSchedule returns the configured fee schedule, or the default schedule
// when no file is set.
func (c FeesConfig) LoadSchedule() (fees.Schedule, error) {
	if c.ScheduleFile == "" {
		return fees.DefaultSchedule(), nil
	}
	data, err := os.ReadFile(c.ScheduleFile)
	if err != nil {
		return fees.Schedule{}, fmt.Errorf("failed to read fee schedule: %w", err)
	}
	return fees.ParseSchedule(data)
}

// =============================================================================
// Logger Setup
// =============================================================================

// SetupLogger creates a logger with the configured level and format.
func SetupLogger(cfg *Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if strings.ToLower(cfg.Log.Format) == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
