// Package config loads service configuration from the environment.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvProduction is the COACH_ENV value that enables strict checks.
const EnvProduction = "production"

// Config is the full service configuration.
type Config struct {
	Env      string `env:"COACH_ENV" envDefault:"development"`
	Addr     string `env:"COACH_ADDR" envDefault:":8080"`
	DBPath   string `env:"COACH_DB_PATH" envDefault:"coachsite.db"`
	LogLevel string `env:"COACH_LOG_LEVEL" envDefault:"info"`
	BaseURL  string `env:"COACH_BASE_URL" envDefault:"http://localhost:8080"`

	Admin     AdminConfig     `envPrefix:"COACH_ADMIN_"`
	Auth      AuthConfig      `envPrefix:"COACH_"`
	Email     EmailConfig     `envPrefix:"COACH_"`
	Remote    RemoteConfig    `envPrefix:"COACH_REMOTE_"`
	Objects   ObjectConfig    `envPrefix:"COACH_"`
	Broker    BrokerConfig    `envPrefix:"COACH_AMQP_"`
	Outbox    OutboxConfig    `envPrefix:"COACH_OUTBOX_"`
	Perf      PerfConfig      `envPrefix:"COACH_"`
	Tracing   TracingConfig   `envPrefix:"OTEL_"`
	RateLimit RateLimitConfig `envPrefix:"COACH_RATE_LIMIT_"`
}

// AdminConfig seeds the first admin account.
type AdminConfig struct {
	Email    string `env:"EMAIL" envDefault:"coach@example.com"`
	Password string `env:"PASSWORD"`
}

// AuthConfig holds session and CSRF secrets.
type AuthConfig struct {
	JWTSecret  string        `env:"JWT_SECRET"`
	CSRFKey    string        `env:"CSRF_KEY"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"12h"`
}

// EmailConfig configures the Resend sender. An empty key selects the noop sender.
type EmailConfig struct {
	ResendKey   string `env:"RESEND_KEY"`
	From        string `env:"RESEND_FROM" envDefault:"Coach <noreply@example.com>"`
	ReplyTo     string `env:"REPLY_TO"`
	NotifyEmail string `env:"NOTIFY_EMAIL"`
}

// RemoteConfig enables the hosted Postgres mirror when DatabaseURL is set.
type RemoteConfig struct {
	DatabaseURL  string        `env:"DATABASE_URL"`
	TablePrefix  string        `env:"TABLE_PREFIX" envDefault:"xiangyun"`
	MaxOpenConns int           `env:"MAX_OPEN_CONNS" envDefault:"5"`
	Timeout      time.Duration `env:"TIMEOUT" envDefault:"5s"`
}

// ObjectConfig selects MinIO when S3Endpoint is set, otherwise UploadDir.
type ObjectConfig struct {
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3Bucket    string `env:"S3_BUCKET" envDefault:"coachsite-media"`
	S3UseSSL    bool   `env:"S3_USE_SSL" envDefault:"true"`
	UploadDir   string `env:"UPLOAD_DIR" envDefault:"uploads"`
}

// BrokerConfig enables AMQP push dispatch when URL is set.
type BrokerConfig struct {
	URL        string `env:"URL"`
	Exchange   string `env:"EXCHANGE" envDefault:"push"`
	RoutingKey string `env:"ROUTING_KEY" envDefault:"push.send"`
}

// OutboxConfig tunes the retry worker.
type OutboxConfig struct {
	Interval  time.Duration `env:"INTERVAL" envDefault:"1m"`
	BaseDelay time.Duration `env:"BASE_DELAY" envDefault:"1m"`
	MaxDelay  time.Duration `env:"MAX_DELAY" envDefault:"1h"`
	BatchSize int           `env:"BATCH_SIZE" envDefault:"50"`
}

// PerfConfig sets slow thresholds for logging.
type PerfConfig struct {
	SlowQuery   time.Duration `env:"SLOW_QUERY" envDefault:"50ms"`
	SlowRequest time.Duration `env:"SLOW_REQUEST" envDefault:"500ms"`
	RingSize    int           `env:"PERF_RING_SIZE" envDefault:"1000"`
}

// TracingConfig mirrors the standard OTEL variables.
type TracingConfig struct {
	Endpoint    string `env:"EXPORTER_OTLP_ENDPOINT"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"coachsite"`
}

// RateLimitConfig caps requests per client IP on public form posts.
type RateLimitConfig struct {
	Requests int           `env:"REQUESTS" envDefault:"10"`
	Window   time.Duration `env:"WINDOW" envDefault:"1m"`
}

// Config errors.
var (
	ErrMissingJWTSecret = errors.New("COACH_JWT_SECRET is required in production")
	ErrMissingCSRFKey   = errors.New("COACH_CSRF_KEY is required in production")
	ErrShortCSRFKey     = errors.New("COACH_CSRF_KEY must be 32 bytes")
	ErrMissingPassword  = errors.New("COACH_ADMIN_PASSWORD is required in production")
)

// Load reads an optional .env file then parses the environment into a Config.
// Variables already set in the environment take precedence over .env.
// POST: development configs have generated secrets where none were supplied
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse parses the process environment into a Config.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.fillDevSecrets(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// IsProduction reports whether COACH_ENV is production.
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Validate enforces the production requirements.
func (c Config) Validate() error {
	if c.Auth.CSRFKey != "" && len(c.Auth.CSRFKey) != 32 {
		return ErrShortCSRFKey
	}
	if !c.IsProduction() {
		return nil
	}
	if c.Auth.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	if c.Auth.CSRFKey == "" {
		return ErrMissingCSRFKey
	}
	if c.Admin.Password == "" {
		return ErrMissingPassword
	}
	return nil
}

// SlogLevel maps LogLevel onto slog. Unknown values read as info.
func (c Config) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func (c *Config) fillDevSecrets() error {
	if c.IsProduction() {
		return nil
	}
	if c.Auth.JWTSecret == "" {
		s, err := randomHex(32)
		if err != nil {
			return err
		}
		c.Auth.JWTSecret = s
		slog.Warn("config_generated_secret", "var", "COACH_JWT_SECRET")
	}
	if c.Auth.CSRFKey == "" {
		s, err := randomHex(16)
		if err != nil {
			return err
		}
		c.Auth.CSRFKey = s
	}
	if c.Admin.Password == "" {
		c.Admin.Password = "change-me-please"
	}
	return nil
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
