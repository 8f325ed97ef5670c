package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	Env      string `env:"ENV" envDefault:"production"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Port                string   `env:"PORT" envDefault:"8080"`
	ReadTimeoutSeconds  int      `env:"READ_TIMEOUT_SECONDS" envDefault:"180"`
	WriteTimeoutSeconds int      `env:"WRITE_TIMEOUT_SECONDS" envDefault:"180"`
	IdleTimeoutSeconds  int      `env:"IDLE_TIMEOUT_SECONDS" envDefault:"180"`
	AcceptedOrigins     []string `env:"ACCEPTED_ORIGINS" envSeparator:","`

	DatabaseURL     string        `env:"DATABASE_URL,required,notEmpty"`
	ReplicaURLs     []string      `env:"DB_REPLICA_URLS" envSeparator:","`
	DBMaxOpenConns  int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns  int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBSlowThreshold time.Duration `env:"DB_SLOW_THRESHOLD" envDefault:"2s"`
	AutoMigrate     bool          `env:"AUTO_MIGRATE" envDefault:"true"`
	ColumnReport    bool          `env:"GENERATE_COLUMN_REPORT"`

	JWTSecret string `env:"JWT_SECRET,required,notEmpty"`

	// WordPress outbound calls
	WordPressTimeoutSeconds int  `env:"WORDPRESS_TIMEOUT_SECONDS" envDefault:"30"`
	SanitizeContent         bool `env:"SANITIZE_CONTENT" envDefault:"false"`

	// Publish lock; Redis is used when configured, otherwise an in-process lock
	RedisURL              string `env:"REDIS_URL"`
	PublishLockTTLSeconds int    `env:"PUBLISH_LOCK_TTL_SECONDS" envDefault:"120"`

	// Reconciliation
	ReconcileSchedule    string  `env:"RECONCILE_SCHEDULE"` // cron expression, empty disables the periodic sweep
	ReconcileConcurrency int     `env:"RECONCILE_CONCURRENCY" envDefault:"4"`
	ReconcileRPS         float64 `env:"RECONCILE_RPS" envDefault:"5"`

	// Featured image archive
	S3ArchiveBucket string `env:"S3_ARCHIVE_BUCKET"`
	S3ArchivePrefix string `env:"S3_ARCHIVE_PREFIX" envDefault:"featured-images/"`

	ErrorWebhookURL string `env:"ERROR_WEBHOOK_URL"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Address returns the listen address for the HTTP server.
func (c Config) Address() string {
	return fmt.Sprintf("0.0.0.0:%s", c.Port)
}

func (c Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

func (c Config) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

func (c Config) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutSeconds) * time.Second
}

func (c Config) WordPressTimeout() time.Duration {
	return time.Duration(c.WordPressTimeoutSeconds) * time.Second
}

func (c Config) PublishLockTTL() time.Duration {
	return time.Duration(c.PublishLockTTLSeconds) * time.Second
}

// UseRedisLock returns true if publish locks should be held in Redis.
func (c Config) UseRedisLock() bool {
	return c.RedisURL != ""
}

// ArchiveEnabled returns true if featured images are copied to S3.
func (c Config) ArchiveEnabled() bool {
	return c.S3ArchiveBucket != ""
}

// Load overlays SSM parameters (when SSM_PARAMETER_PATH is set) onto the
// environment and parses it into a Config.
func Load(ctx context.Context) (*Config, error) {
	if err := loadSSMParameters(ctx); err != nil {
		return nil, fmt.Errorf("loading ssm parameters: %w", err)
	}
	return Parse()
}

// Parse reads the current environment into a Config.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.ReconcileConcurrency < 1 {
		return fmt.Errorf("RECONCILE_CONCURRENCY must be at least 1, got %d", c.ReconcileConcurrency)
	}
	if c.ReconcileRPS <= 0 {
		return fmt.Errorf("RECONCILE_RPS must be positive, got %v", c.ReconcileRPS)
	}
	if c.WordPressTimeoutSeconds <= 0 {
		return fmt.Errorf("WORDPRESS_TIMEOUT_SECONDS must be positive, got %d", c.WordPressTimeoutSeconds)
	}
	if len(c.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 bytes long")
	}
	return nil
}
