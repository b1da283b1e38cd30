package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StorageMemory    = "memory"
	StoragePostgres  = "postgres"
	StorageSQLite    = "sqlite"
	StorageFirestore = "firestore"

	AuthDev    = "dev"
	AuthJWT    = "jwt"
	AuthOIDC   = "oidc"
	AuthRemote = "remote"
)

type StorageConfig struct {
	Driver           string `yaml:"driver"`
	DSN              string `yaml:"dsn"`
	FirestoreProject string `yaml:"firestore_project"`
}

type AuthConfig struct {
	Mode string `yaml:"mode"`

	JWTSecret string `yaml:"jwt_secret"`
	JWTIssuer string `yaml:"jwt_issuer"`

	OIDCIssuer   string `yaml:"oidc_issuer"`
	OIDCClientID string `yaml:"oidc_client_id"`

	RemoteURL    string `yaml:"remote_url"`
	RemoteAPIKey string `yaml:"remote_api_key"`
}

type NotifyConfig struct {
	WebhookURL string `yaml:"webhook_url"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	App    string `yaml:"app"`
}

type Config struct {
	Port string `yaml:"port"`

	Storage StorageConfig `yaml:"storage"`

	// Timezone define qué es "hoy" y cuándo disparan los recordatorios.
	Timezone string `yaml:"timezone"`

	WindowDays      int           `yaml:"window_days"`
	ReminderHorizon time.Duration `yaml:"reminder_horizon"`
	ResyncSchedule  string        `yaml:"resync_schedule"`

	Auth   AuthConfig   `yaml:"auth"`
	Notify NotifyConfig `yaml:"notify"`
	Log    LogConfig    `yaml:"log"`
}

func Default() Config {
	return Config{
		Port:            "8080",
		Storage:         StorageConfig{Driver: StorageMemory},
		Timezone:        "UTC",
		WindowDays:      7,
		ReminderHorizon: 7 * 24 * time.Hour,
		ResyncSchedule:  "@every 1h",
		Auth:            AuthConfig{Mode: AuthDev},
		Log:             LogConfig{Level: "info", Format: "text", App: "med-reminder"},
	}
}

// Load aplica, en orden: defaults, YAML de CONFIG_FILE, archivo .env
// (ENV_FILE, default ".env"; no pisa variables ya seteadas) y env vars.
func Load() (Config, error) {
	cfg := Default()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := loadYAML(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	envFile := envOrDefault("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Port, "PORT")
	setString(&cfg.Storage.Driver, "STORAGE_DRIVER")
	setString(&cfg.Storage.DSN, "DB_DSN")
	setString(&cfg.Storage.FirestoreProject, "FIRESTORE_PROJECT_ID")
	setString(&cfg.Timezone, "TIMEZONE")
	setString(&cfg.ResyncSchedule, "RESYNC_SCHEDULE")

	setString(&cfg.Auth.Mode, "AUTH_MODE")
	setString(&cfg.Auth.JWTSecret, "JWT_SECRET")
	setString(&cfg.Auth.JWTIssuer, "JWT_ISSUER")
	setString(&cfg.Auth.OIDCIssuer, "OIDC_ISSUER")
	setString(&cfg.Auth.OIDCClientID, "OIDC_CLIENT_ID")
	setString(&cfg.Auth.RemoteURL, "AUTH_REMOTE_URL")
	setString(&cfg.Auth.RemoteAPIKey, "AUTH_REMOTE_API_KEY")

	setString(&cfg.Notify.WebhookURL, "NOTIFY_WEBHOOK_URL")

	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Format, "LOG_FORMAT")
	setString(&cfg.Log.App, "APP_NAME")

	if v := strings.TrimSpace(os.Getenv("WINDOW_DAYS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("WINDOW_DAYS: %w", err)
		}
		cfg.WindowDays = n
	}
	if v := strings.TrimSpace(os.Getenv("REMINDER_HORIZON")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("REMINDER_HORIZON: %w", err)
		}
		cfg.ReminderHorizon = d
	}
	return nil
}

func (c Config) Validate() error {
	switch c.Storage.Driver {
	case StorageMemory:
	case StoragePostgres, StorageSQLite:
		if strings.TrimSpace(c.Storage.DSN) == "" {
			return fmt.Errorf("DB_DSN is required for storage driver %q", c.Storage.Driver)
		}
	case StorageFirestore:
		if strings.TrimSpace(c.Storage.FirestoreProject) == "" {
			return errors.New("FIRESTORE_PROJECT_ID is required for firestore storage")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	switch c.Auth.Mode {
	case AuthDev:
	case AuthJWT:
		if c.Auth.JWTSecret == "" {
			return errors.New("JWT_SECRET is required for jwt auth")
		}
	case AuthOIDC:
		if c.Auth.OIDCIssuer == "" || c.Auth.OIDCClientID == "" {
			return errors.New("OIDC_ISSUER and OIDC_CLIENT_ID are required for oidc auth")
		}
	case AuthRemote:
		if c.Auth.RemoteURL == "" {
			return errors.New("AUTH_REMOTE_URL is required for remote auth")
		}
	default:
		return fmt.Errorf("unknown auth mode %q", c.Auth.Mode)
	}

	if c.WindowDays <= 0 {
		return errors.New("WINDOW_DAYS must be positive")
	}
	if c.ReminderHorizon <= 0 {
		return errors.New("REMINDER_HORIZON must be positive")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE: %w", err)
	}
	return nil
}

// Location resuelve Timezone; si falla, UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

func envOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
