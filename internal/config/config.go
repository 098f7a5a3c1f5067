package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type StorageBackend string

const (
	StorageFile     StorageBackend = "file"
	StorageRedis    StorageBackend = "redis"
	StoragePostgres StorageBackend = "postgres"
)

type Config struct {
	IsTestMode bool   `env:"TEST_MODE" envDefault:"false"`
	Debug      bool   `env:"DEBUG" envDefault:"false"`
	Port       uint16 `env:"PORT" envDefault:"3000"`

	SlackBotToken       string        `env:"SLACK_BOT_TOKEN"`
	SlackSigningSecret  string        `env:"SLACK_SIGNING_SECRET"`
	SlackChannelID      string        `env:"SLACK_CHANNEL_ID"`
	SlackBaseURL        url.URL       `env:"SLACK_BASE_URL" envDefault:"https://slack.com/api/"`
	SlackRequestTimeout time.Duration `env:"SLACK_REQUEST_TIMEOUT" envDefault:"10s"`

	SchedulerPeriod time.Duration `env:"SCHEDULER_PERIOD" envDefault:"30s"`
	CommandTimeout  time.Duration `env:"COMMAND_TIMEOUT" envDefault:"30s"`

	StorageBackend StorageBackend `env:"STORAGE_BACKEND" envDefault:"file"`
	EventsFile     string         `env:"EVENTS_FILE" envDefault:"events.json"`
	RedisURL       string         `env:"REDIS_URL"`
	RedisEventsKey string         `env:"REDIS_EVENTS_KEY" envDefault:"eventreminder:events"`
	PostgresqlURL  string         `env:"POSTGRESQL_URL"`
	MigrationsPath string         `env:"MIGRATIONS_PATH" envDefault:"migrations"`

	CommandRateLimitPerMinute uint16   `env:"COMMAND_RATE_LIMIT_PER_MINUTE" envDefault:"30"`
	AllowedOrigins            []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	SentryDsn                 string   `env:"SENTRY_DSN"`

	// ConsoleUserID identifies the operator of the console binary.
	ConsoleUserID string `env:"CONSOLE_USER_ID" envDefault:"console"`
}

// Load reads the configuration from the process environment. Variables
// from a .env file in the working directory are applied first, without
// overriding ones that are already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not read .env file: %w", err)
	}
	return parse(env.Options{})
}

// LoadFrom reads the configuration from the given variables only.
func LoadFrom(environment map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environment})
}

func parse(opts env.Options) (*Config, error) {
	config := Config{}
	if err := env.Parse(&config, opts); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	switch c.StorageBackend {
	case StorageFile:
		if c.EventsFile == "" {
			return fmt.Errorf("EVENTS_FILE must be set for the file storage backend")
		}
	case StorageRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL must be set for the redis storage backend")
		}
		if c.RedisEventsKey == "" {
			return fmt.Errorf("REDIS_EVENTS_KEY must not be empty")
		}
	case StoragePostgres:
		if c.PostgresqlURL == "" {
			return fmt.Errorf("POSTGRESQL_URL must be set for the postgres storage backend")
		}
	default:
		return fmt.Errorf("invalid STORAGE_BACKEND value: %q", c.StorageBackend)
	}

	if c.SchedulerPeriod <= 0 || c.SchedulerPeriod >= time.Minute {
		return fmt.Errorf("SCHEDULER_PERIOD must be positive and shorter than a minute, got %s", c.SchedulerPeriod)
	}
	if c.SlackRequestTimeout <= 0 {
		return fmt.Errorf("SLACK_REQUEST_TIMEOUT must be positive")
	}
	if c.CommandTimeout <= 0 {
		return fmt.Errorf("COMMAND_TIMEOUT must be positive")
	}
	if c.SlackBaseURL.Scheme == "" || c.SlackBaseURL.Host == "" {
		return fmt.Errorf("SLACK_BASE_URL must be an absolute URL")
	}
	return nil
}

func (c *Config) IsRateLimitEnabled() bool {
	return c.RedisURL != "" && c.CommandRateLimitPerMinute > 0
}
