package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrUnknownStorageDriver        = errors.New("unknown storage driver")
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string   `mapstructure:"env"`             // current application environment (local, dev, production etc)
	TelegramAPIToken string   `mapstructure:"-"`               // Telegram API token loaded from environment
	CurriculumPath   string   `mapstructure:"curriculum_path"` // yaml or xlsx course file, empty for the built-in course
	RandomSeed       int64    `mapstructure:"random_seed"`     // seed for question generation, 0 picks one at startup
	Storage          Storage  `mapstructure:"storage"`
	Telegram         Telegram `mapstructure:"telegram"`
	Speech           Speech   `mapstructure:"speech"`
	Reminder         Reminder `mapstructure:"reminder"`
	Metrics          Metrics  `mapstructure:"metrics"`
}

// Storage selects where the progress document lives.
type Storage struct {
	Driver      string `mapstructure:"driver"`       // memory, sqlite, postgres or redis
	DocumentKey string `mapstructure:"document_key"` // key of the progress document
	SQLitePath  string `mapstructure:"sqlite_path"`
	RedisURL    string `mapstructure:"-"` // loaded from environment
	DB          DB     `mapstructure:"database"`
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// Telegram contains chat settings.
type Telegram struct {
	OwnerID int64 `mapstructure:"owner_id"` // the only user the bot answers, 0 answers anyone
	Debug   bool  `mapstructure:"debug"`
}

// Speech configures pronunciation checks.
type Speech struct {
	Enabled       bool          `mapstructure:"enabled"`
	ListenTimeout time.Duration `mapstructure:"listen_timeout"`
}

// Reminder configures study reminders.
type Reminder struct {
	Cron string `mapstructure:"cron"` // cron expression in UTC, empty disables reminders
}

// Metrics configures the Prometheus endpoint.
type Metrics struct {
	Addr string `mapstructure:"addr"` // listen address, empty disables the endpoint
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	return LoadFrom("./config")
}

// LoadFrom reads config.yaml from dir, a local .env file and the environment.
func LoadFrom(dir string) (*Config, error) {
	// A missing .env is fine, the variables may come from the real environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("curriculum_path", "")
	v.SetDefault("random_seed", 0)
	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.document_key", "english_learning_progress")
	v.SetDefault("storage.sqlite_path", "data/progress.db")
	v.SetDefault("storage.database.max_connections", 5)
	v.SetDefault("storage.database.max_conn_lifetime", "30s")
	v.SetDefault("telegram.owner_id", 0)
	v.SetDefault("telegram.debug", false)
	v.SetDefault("speech.enabled", true)
	v.SetDefault("speech.listen_timeout", "15s")
	v.SetDefault("reminder.cron", "0 18 * * *")
	v.SetDefault("metrics.addr", ":9090")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("redis_url", "REDIS_URL")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, fmt.Errorf("%w: TELEGRAM_API_TOKEN", ErrMissingEnvironmentVariables)
	}

	cfg.Storage.DB.URL = v.GetString("database_url")
	cfg.Storage.RedisURL = v.GetString("redis_url")

	switch cfg.Storage.Driver {
	case DriverMemory, DriverSQLite:
	case DriverPostgres:
		if cfg.Storage.DB.URL == "" {
			return nil, fmt.Errorf("%w: DATABASE_URL", ErrMissingEnvironmentVariables)
		}
	case DriverRedis:
		if cfg.Storage.RedisURL == "" {
			return nil, fmt.Errorf("%w: REDIS_URL", ErrMissingEnvironmentVariables)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStorageDriver, cfg.Storage.Driver)
	}

	return &cfg, nil
}
