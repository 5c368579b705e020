package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all process-wide configuration, read once at startup.
type Config struct {
	Service   ServiceConfig
	Mongo     MongoConfig
	JWT       JWTConfig
	Mail      MailConfig
	Assets    AssetsConfig
	Logging   LoggingConfig
	Tracing   TracingConfig
	Profiling ProfilingConfig
	Shutdown  ShutdownConfig
}

type ServiceConfig struct {
	Name    string
	Version string
	Env     string
	Port    string
}

type MongoConfig struct {
	URI      string
	Database string
}

type JWTConfig struct {
	Secret   string
	Lifetime string
}

type MailConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type AssetsConfig struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Folder    string
	Width     int
	Height    int
	Crop      string
}

type LoggingConfig struct {
	Level string
}

type TracingConfig struct {
	Enabled    bool
	Endpoint   string
	SampleRate float64
}

type ProfilingConfig struct {
	Enabled  bool
	Endpoint string
}

type ShutdownConfig struct {
	Timeout    string
	DrainDelay string
}

// Load reads configuration from the environment. A .env file is honored
// when present so local development matches the deployed contract.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Service: ServiceConfig{
			Name:    getEnv("SERVICE_NAME", "user-service"),
			Version: getEnv("SERVICE_VERSION", "dev"),
			Env:     getEnv("SERVICE_ENV", "development"),
			Port:    getEnv("PORT", "8080"),
		},
		Mongo: MongoConfig{
			URI:      os.Getenv("MONGODB_URI"),
			Database: getEnv("MONGODB_DATABASE", "userkit"),
		},
		JWT: JWTConfig{
			Secret:   os.Getenv("JWT_SECRET"),
			Lifetime: getEnv("JWT_LIFETIME", "24h"),
		},
		Mail: MailConfig{
			Enabled:  getEnvBool("EMAIL_ENABLED", true),
			Host:     os.Getenv("EMAIL_PROVIDER"),
			Port:     getEnvInt("EMAIL_PORT", 587),
			Username: os.Getenv("EMAIL_USER"),
			Password: os.Getenv("EMAIL_PASS"),
			From:     getEnv("EMAIL_FROM", os.Getenv("EMAIL_USER")),
		},
		Assets: AssetsConfig{
			Endpoint:  os.Getenv("ASSETS_ENDPOINT"),
			Region:    getEnv("ASSETS_REGION", "us-east-1"),
			Bucket:    getEnv("ASSETS_BUCKET", "assets"),
			AccessKey: os.Getenv("ASSETS_ACCESS_KEY"),
			SecretKey: os.Getenv("ASSETS_SECRET_KEY"),
			Folder:    getEnv("ASSETS_FOLDER", "profiles"),
			Width:     getEnvInt("ASSETS_IMAGE_WIDTH", 150),
			Height:    getEnvInt("ASSETS_IMAGE_HEIGHT", 150),
			Crop:      getEnv("ASSETS_IMAGE_CROP", "fill"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Tracing: TracingConfig{
			Enabled:    getEnvBool("TRACING_ENABLED", false),
			Endpoint:   getEnv("TRACING_ENDPOINT", "localhost:4318"),
			SampleRate: getEnvFloat("TRACING_SAMPLE_RATE", 1.0),
		},
		Profiling: ProfilingConfig{
			Enabled:  getEnvBool("PROFILING_ENABLED", false),
			Endpoint: getEnv("PROFILING_ENDPOINT", "http://localhost:4040"),
		},
		Shutdown: ShutdownConfig{
			Timeout:    getEnv("SHUTDOWN_TIMEOUT", "15s"),
			DrainDelay: getEnv("READINESS_DRAIN_DELAY", "0s"),
		},
	}
}

// Validate checks the settings whose absence makes the process unable to
// serve. Missing values here are a fatal startup condition.
func (c *Config) Validate() error {
	if c.Mongo.URI == "" {
		return errors.New("MONGODB_URI is required")
	}
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required")
	}
	return nil
}

// GetTokenTTL returns the session token lifetime.
func (c *Config) GetTokenTTL() time.Duration {
	return parseDuration(c.JWT.Lifetime, 24*time.Hour)
}

// GetShutdownTimeoutDuration returns how long graceful shutdown may take.
func (c *Config) GetShutdownTimeoutDuration() time.Duration {
	return parseDuration(c.Shutdown.Timeout, 15*time.Second)
}

// GetReadinessDrainDelayDuration returns the pause between failing the
// readiness probe and starting HTTP shutdown.
func (c *Config) GetReadinessDrainDelayDuration() time.Duration {
	return parseDuration(c.Shutdown.DrainDelay, 0)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}
