package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppName          = "DealerHub"
	defaultAppEnv           = "development"
	defaultPort             = "8080"
	defaultLogLevel         = "info"
	defaultLogFormat        = "json"
	defaultShutdownDelay    = 10 * time.Second
	defaultIdempotencyTTL   = 24 * time.Hour
	defaultMessagingTimeout = 10 * time.Second
	defaultSendMaxPerWindow = 5
	defaultSendWindow       = 10 * time.Minute
	idemTTLSecondsEnvVar    = "IDEMPOTENCY_TTL_SECONDS"
	idemTTLDurEnvVar        = "IDEMPOTENCY_TTL"
	shutdownSecondsEnvVar   = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar  = "SHUTDOWN_TIMEOUT"
	messagingTimeoutEnvVar  = "MESSAGING_TIMEOUT"
	sendMaxPerWindowEnvVar  = "VERIFY_SEND_MAX_PER_WINDOW"
	autoMigrateEnvVar       = "DB_AUTO_MIGRATE"
	developmentEnvironment  = "development"
	localEnvironment        = "local"
	testEnvironment         = "test"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	LogFormat      string
	DatabaseURL    string
	RedisURL       string
	AutoMigrate    bool
	ShutdownPeriod time.Duration
	IdempotencyTTL time.Duration

	Messaging     Messaging
	Notifications Notifications
	SendLimit     RateLimit
}

// Messaging holds credentials for the CRM and SMS providers.
type Messaging struct {
	Provider        string
	Timeout         time.Duration
	GHLAPIKey       string
	GHLLocationID   string
	GHLBaseURL      string
	TwilioSID       string
	TwilioAuthToken string
	TwilioFromPhone string
}

// Notifications configures new-lead emails.
type Notifications struct {
	SendGridAPIKey string
	ToEmail        string
	FromEmail      string
	DealerName     string
}

// Enabled reports whether lead emails can be delivered.
func (n Notifications) Enabled() bool {
	return n.SendGridAPIKey != "" && n.ToEmail != "" && n.FromEmail != ""
}

// RateLimit bounds how often an action may run per key.
type RateLimit struct {
	Max    int
	Window time.Duration
}

// Load reads configuration values from the environment and populates a Config instance.
// A .env file in the working directory is applied first when present.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		AppName:        getEnv("APP_NAME", defaultAppName),
		AppEnv:         strings.ToLower(getEnv("APP_ENV", defaultAppEnv)),
		Port:           getEnv("PORT", defaultPort),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		LogFormat:      strings.ToLower(getEnv("LOG_FORMAT", defaultLogFormat)),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		ShutdownPeriod: defaultShutdownDelay,
		IdempotencyTTL: defaultIdempotencyTTL,
		Messaging: Messaging{
			Provider:        strings.ToLower(os.Getenv("SMS_PROVIDER")),
			Timeout:         defaultMessagingTimeout,
			GHLAPIKey:       os.Getenv("GHL_API_KEY"),
			GHLLocationID:   os.Getenv("GHL_LOCATION_ID"),
			GHLBaseURL:      os.Getenv("GHL_BASE_URL"),
			TwilioSID:       os.Getenv("TWILIO_ACCOUNT_SID"),
			TwilioAuthToken: os.Getenv("TWILIO_AUTH_TOKEN"),
			TwilioFromPhone: os.Getenv("TWILIO_FROM_PHONE"),
		},
		Notifications: Notifications{
			SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
			ToEmail:        os.Getenv("LEADS_NOTIFY_EMAIL"),
			FromEmail:      os.Getenv("LEADS_FROM_EMAIL"),
			DealerName:     getEnv("DEALER_NAME", defaultAppName),
		},
		SendLimit: RateLimit{Max: defaultSendMaxPerWindow, Window: defaultSendWindow},
	}

	var err error
	if cfg.ShutdownPeriod, err = secondsOrDuration(shutdownSecondsEnvVar, shutdownDurationEnvVar, cfg.ShutdownPeriod); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = secondsOrDuration(idemTTLSecondsEnvVar, idemTTLDurEnvVar, cfg.IdempotencyTTL); err != nil {
		return Config{}, err
	}

	if v := os.Getenv(messagingTimeoutEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", messagingTimeoutEnvVar, err)
		}
		cfg.Messaging.Timeout = d
	}

	if v := os.Getenv(sendMaxPerWindowEnvVar); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("invalid %s: %q", sendMaxPerWindowEnvVar, v)
		}
		cfg.SendLimit.Max = n
	}

	if v := os.Getenv(autoMigrateEnvVar); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", autoMigrateEnvVar, err)
		}
		cfg.AutoMigrate = b
	}

	switch cfg.LogFormat {
	case "json", "text":
	default:
		return Config{}, fmt.Errorf("invalid LOG_FORMAT %q: want json or text", cfg.LogFormat)
	}

	if !cfg.IsDevelopment() {
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL must be set")
		}
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("REDIS_URL must be set")
		}
	}

	return cfg, nil
}

// IsDevelopment reports whether the process runs outside a deployed environment.
// Development environments fall back to in-memory storage when no database is configured.
func (c Config) IsDevelopment() bool {
	switch c.AppEnv {
	case developmentEnvironment, localEnvironment, testEnvironment:
		return true
	}
	return false
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func secondsOrDuration(secondsKey, durationKey string, fallback time.Duration) (time.Duration, error) {
	if v := os.Getenv(secondsKey); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", secondsKey, err)
		}
		return time.Duration(seconds) * time.Second, nil
	}
	if v := os.Getenv(durationKey); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", durationKey, err)
		}
		return d, nil
	}
	return fallback, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
