package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/stafftrack/attendance-backend-go/internal/domain/attendance"
	"github.com/stafftrack/attendance-backend-go/internal/domain/tracking"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
	Tracking   TrackingConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
}

// AttendanceConfig holds the status classifier thresholds. Defaults
// preserve the legacy behavior: late cutoff at 10:00 evaluated at
// UTC+5:30, 8 hour half-day boundary, 100m punch location radius.
type AttendanceConfig struct {
	UTCOffsetMinutes     int
	LateCutoffHour       int
	LateCutoffMinute     int
	HalfDayHours         float64
	MismatchRadiusMeters float64
}

// TrackingConfig holds live location tracking settings.
type TrackingConfig struct {
	ActiveWindow      time.Duration
	GroupRadiusMeters float64
	PingRetentionDays int
}

func Load() (*Config, error) {
	// Missing .env is fine in production; env vars take over.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "stafftrack"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Attendance rules
	utcOffset, err := strconv.Atoi(getEnv("ATTENDANCE_UTC_OFFSET_MINUTES", "330"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_UTC_OFFSET_MINUTES: %w", err)
	}

	cutoffHour, cutoffMinute, err := parseCutoff(getEnv("ATTENDANCE_LATE_CUTOFF", "10:00"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_LATE_CUTOFF: %w", err)
	}

	halfDayHours, err := strconv.ParseFloat(getEnv("ATTENDANCE_HALF_DAY_HOURS", "8"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_HALF_DAY_HOURS: %w", err)
	}

	mismatchRadius, err := strconv.ParseFloat(getEnv("TRACKING_MISMATCH_RADIUS_METERS", "100"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid TRACKING_MISMATCH_RADIUS_METERS: %w", err)
	}

	config.Attendance = AttendanceConfig{
		UTCOffsetMinutes:     utcOffset,
		LateCutoffHour:       cutoffHour,
		LateCutoffMinute:     cutoffMinute,
		HalfDayHours:         halfDayHours,
		MismatchRadiusMeters: mismatchRadius,
	}

	// Tracking configuration
	activeWindow, err := time.ParseDuration(getEnv("TRACKING_ACTIVE_WINDOW", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRACKING_ACTIVE_WINDOW: %w", err)
	}

	groupRadius, err := strconv.ParseFloat(getEnv("TRACKING_GROUP_RADIUS_METERS", "100"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid TRACKING_GROUP_RADIUS_METERS: %w", err)
	}

	retentionDays, err := strconv.Atoi(getEnv("TRACKING_PING_RETENTION_DAYS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRACKING_PING_RETENTION_DAYS: %w", err)
	}

	config.Tracking = TrackingConfig{
		ActiveWindow:      activeWindow,
		GroupRadiusMeters: groupRadius,
		PingRetentionDays: retentionDays,
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Tracking.PingRetentionDays <= 0 {
		return fmt.Errorf("TRACKING_PING_RETENTION_DAYS must be positive")
	}
	return nil
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

// AttendanceRules converts the configured thresholds into classifier rules.
func (c *Config) AttendanceRules() attendance.Rules {
	return attendance.Rules{
		UTCOffsetMinutes:     c.Attendance.UTCOffsetMinutes,
		LateCutoffHour:       c.Attendance.LateCutoffHour,
		LateCutoffMinute:     c.Attendance.LateCutoffMinute,
		HalfDayHours:         c.Attendance.HalfDayHours,
		MismatchRadiusMeters: c.Attendance.MismatchRadiusMeters,
	}
}

// AggregateOptions converts the tracking settings into aggregator options.
func (c *Config) AggregateOptions() tracking.AggregateOptions {
	return tracking.AggregateOptions{
		ActiveWindow:      c.Tracking.ActiveWindow,
		GroupRadiusMeters: c.Tracking.GroupRadiusMeters,
	}
}

func parseCutoff(value string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
