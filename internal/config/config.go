package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SourceDevice   = "device"
	SourceDatabase = "database"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Device   DeviceConfig
	Ledger   LedgerConfig
	Cron     CronConfig
	Log      LogConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	AllowedOrigins []string
}

// DeviceConfig points at the biometric clock
type DeviceConfig struct {
	BaseURL    string
	Login      string
	Password   string
	Timeout    time.Duration
	TimeOffset time.Duration
	UserLimit  int
	LogLimit   int
}

type LedgerConfig struct {
	TimeZone    string
	PunchSource string
}

type CronConfig struct {
	Enabled      bool
	SyncInterval time.Duration
	LookbackDays int
}

type LogConfig struct {
	Level      string
	File       string
	MaxSize    int
	MaxBackups int
	MaxAge     int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded, using process environment", "error", err)
	}

	config, err := FromEnv()
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// FromEnv reads the process environment without validating it.
func FromEnv() (*Config, error) {
	config := &Config{}

	// Database configuration
	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	maxConns, err := getEnvInt("DB_MAX_CONNS", 25)
	if err != nil {
		return nil, err
	}
	minConns, err := getEnvInt("DB_MIN_CONNS", 5)
	if err != nil {
		return nil, err
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance_ledger"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	// Application configuration
	appPort, err := getEnvInt("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}

	origins := getEnvSlice("ALLOWED_ORIGINS")
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		AllowedOrigins: origins,
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "12h"),
	}

	// Device configuration
	timeout, err := getEnvDuration("DEVICE_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	offsetMin, err := getEnvInt("DEVICE_TIME_OFFSET", 180)
	if err != nil {
		return nil, err
	}
	userLimit, err := getEnvInt("DEVICE_USER_LIMIT", 10000)
	if err != nil {
		return nil, err
	}
	logLimit, err := getEnvInt("DEVICE_LOG_LIMIT", 2000)
	if err != nil {
		return nil, err
	}

	config.Device = DeviceConfig{
		BaseURL:    getEnv("DEVICE_BASE_URL", ""),
		Login:      getEnv("DEVICE_LOGIN", "admin"),
		Password:   getEnv("DEVICE_PASSWORD", ""),
		Timeout:    timeout,
		TimeOffset: time.Duration(offsetMin) * time.Minute,
		UserLimit:  userLimit,
		LogLimit:   logLimit,
	}

	// Ledger configuration
	config.Ledger = LedgerConfig{
		TimeZone:    getEnv("LEDGER_TIME_ZONE", "America/Argentina/Buenos_Aires"),
		PunchSource: strings.ToLower(getEnv("LEDGER_PUNCH_SOURCE", SourceDevice)),
	}

	// Cron configuration
	interval, err := getEnvDuration("CRON_SYNC_INTERVAL", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	lookback, err := getEnvInt("CRON_SYNC_LOOKBACK_DAYS", 7)
	if err != nil {
		return nil, err
	}
	config.Cron = CronConfig{
		Enabled:      getEnv("CRON_ENABLED", "true") == "true",
		SyncInterval: interval,
		LookbackDays: lookback,
	}

	// Log configuration
	maxSize, err := getEnvInt("LOG_MAX_SIZE_MB", 50)
	if err != nil {
		return nil, err
	}
	maxBackups, err := getEnvInt("LOG_MAX_BACKUPS", 5)
	if err != nil {
		return nil, err
	}
	maxAge, err := getEnvInt("LOG_MAX_AGE_DAYS", 30)
	if err != nil {
		return nil, err
	}
	config.Log = LogConfig{
		Level:      getEnv("LOG_LEVEL", "info"),
		File:       getEnv("LOG_FILE", ""),
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		MaxAge:     maxAge,
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs []error

	if c.Database.Password == "" {
		errs = append(errs, fmt.Errorf("DB_PASSWORD is required"))
	}
	if c.JWT.Secret == "" {
		errs = append(errs, fmt.Errorf("JWT_SECRET_KEY is required"))
	}

	switch c.Ledger.PunchSource {
	case SourceDevice, SourceDatabase:
	default:
		errs = append(errs, fmt.Errorf("LEDGER_PUNCH_SOURCE must be %q or %q", SourceDevice, SourceDatabase))
	}
	if c.Ledger.PunchSource == SourceDevice && c.Device.BaseURL == "" {
		errs = append(errs, fmt.Errorf("DEVICE_BASE_URL is required"))
	}

	if _, err := time.LoadLocation(c.Ledger.TimeZone); err != nil {
		errs = append(errs, fmt.Errorf("LEDGER_TIME_ZONE %q is not a known time zone", c.Ledger.TimeZone))
	}

	return errors.Join(errs...)
}

// Location returns the ledger time zone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Ledger.TimeZone)
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
