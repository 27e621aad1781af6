// Package config loads settings for the server and the terminal client from
// the environment, an optional .env file and an optional YAML file named by
// BASKET_CONFIG. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Server is the configuration of cmd/basket.
type Server struct {
	Port        string        `yaml:"port"`
	DBPath      string        `yaml:"db_path"`
	APIKey      string        `yaml:"api_key"`
	JWTSecret   string        `yaml:"jwt_secret"`
	SessionTTL  time.Duration `yaml:"session_ttl"`
	LogLevel    string        `yaml:"log_level"`
	SignInLimit int           `yaml:"sign_in_limit"`
	RedisURL    string        `yaml:"redis_url"`
	SentryDSN   string        `yaml:"sentry_dsn"`
	Environment string        `yaml:"environment"`

	Tracing  Tracing  `yaml:"tracing"`
	Postmark Postmark `yaml:"postmark"`
	Receipts Receipts `yaml:"receipts"`
}

type Tracing struct {
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	Insecure     bool   `yaml:"insecure"`
	Stdout       bool   `yaml:"stdout"`
}

type Postmark struct {
	ServerToken string `yaml:"server_token"`
	FromEmail   string `yaml:"from_email"`
	AppURL      string `yaml:"app_url"`
}

// Receipts points at S3-compatible storage. Leaving Bucket empty disables
// uploads.
type Receipts struct {
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	PublicURL string `yaml:"public_url"`
}

// Client is the configuration of cmd/basketctl.
type Client struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	SessionFile string `yaml:"session_file"`
	LogLevel    string `yaml:"log_level"`
}

// LoadServer reads the server configuration. APIKey and JWTSecret are
// required.
func LoadServer() (Server, error) {
	var file Server
	if err := load(&file); err != nil {
		return Server{}, err
	}

	cfg := Server{
		Port:        getEnv("BASKET_PORT", or(file.Port, "8080")),
		DBPath:      getEnv("BASKET_DB_PATH", or(file.DBPath, "basket.db")),
		APIKey:      getEnv("BASKET_API_KEY", file.APIKey),
		JWTSecret:   getEnv("BASKET_JWT_SECRET", file.JWTSecret),
		LogLevel:    getEnv("BASKET_LOG_LEVEL", or(file.LogLevel, "info")),
		RedisURL:    getEnv("BASKET_REDIS_URL", file.RedisURL),
		SentryDSN:   getEnv("SENTRY_DSN", file.SentryDSN),
		Environment: getEnv("BASKET_ENV", or(file.Environment, "development")),
		Tracing: Tracing{
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", file.Tracing.OTLPEndpoint),
			Insecure:     getBool("BASKET_OTLP_INSECURE", file.Tracing.Insecure),
			Stdout:       getBool("BASKET_TRACE_STDOUT", file.Tracing.Stdout),
		},
		Postmark: Postmark{
			ServerToken: getEnv("POSTMARK_SERVER_TOKEN", file.Postmark.ServerToken),
			FromEmail:   getEnv("POSTMARK_FROM_EMAIL", file.Postmark.FromEmail),
			AppURL:      getEnv("BASKET_APP_URL", file.Postmark.AppURL),
		},
		Receipts: Receipts{
			Endpoint:  getEnv("BASKET_S3_ENDPOINT", file.Receipts.Endpoint),
			Bucket:    getEnv("BASKET_S3_BUCKET", file.Receipts.Bucket),
			Region:    getEnv("BASKET_S3_REGION", or(file.Receipts.Region, "us-east-1")),
			AccessKey: getEnv("BASKET_S3_ACCESS_KEY", file.Receipts.AccessKey),
			SecretKey: getEnv("BASKET_S3_SECRET_KEY", file.Receipts.SecretKey),
			PublicURL: getEnv("BASKET_S3_PUBLIC_URL", file.Receipts.PublicURL),
		},
	}

	var err error
	if cfg.SessionTTL, err = getDuration("BASKET_SESSION_TTL", file.SessionTTL); err != nil {
		return Server{}, err
	}
	if cfg.SignInLimit, err = getInt("BASKET_SIGN_IN_LIMIT", or(file.SignInLimit, 10)); err != nil {
		return Server{}, err
	}

	var missing []error
	if cfg.APIKey == "" {
		missing = append(missing, errors.New("BASKET_API_KEY is required"))
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, errors.New("BASKET_JWT_SECRET is required"))
	}
	if err := errors.Join(missing...); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// LoadClient reads the client configuration. The service URL and API key
// are required.
func LoadClient() (Client, error) {
	var file Client
	if err := load(&file); err != nil {
		return Client{}, err
	}

	cfg := Client{
		URL:         getEnv("BASKET_URL", file.URL),
		APIKey:      getEnv("BASKET_API_KEY", file.APIKey),
		SessionFile: getEnv("BASKET_SESSION_FILE", file.SessionFile),
		LogLevel:    getEnv("BASKET_LOG_LEVEL", or(file.LogLevel, "warn")),
	}
	if cfg.SessionFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return Client{}, fmt.Errorf("locate config dir: %w", err)
		}
		cfg.SessionFile = filepath.Join(dir, "basket", "session.json")
	}

	var missing []error
	if cfg.URL == "" {
		missing = append(missing, errors.New("BASKET_URL is required"))
	}
	if cfg.APIKey == "" {
		missing = append(missing, errors.New("BASKET_API_KEY is required"))
	}
	if err := errors.Join(missing...); err != nil {
		return Client{}, err
	}
	return cfg, nil
}

// load applies .env to the environment and decodes the BASKET_CONFIG file,
// if any, into v.
func load(v any) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	path := os.Getenv("BASKET_CONFIG")
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func or[T comparable](v, fallback T) T {
	var zero T
	if v == zero {
		return fallback
	}
	return v
}
