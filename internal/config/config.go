package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	CORS       CORSConfig
	Attendance AttendanceConfig
	Leave      LeaveConfig
	Payroll    PayrollConfig
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
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// AttendanceConfig holds the thresholds used to classify attendance days
type AttendanceConfig struct {
	StartTime            string
	LateThresholdMinutes int
	HalfDayHours         decimal.Decimal
	FullDayHours         decimal.Decimal
	Timezone             string
}

type LeaveConfig struct {
	// ProvisionInterval is how often current-year balances are provisioned.
	// Zero disables the job.
	ProvisionInterval time.Duration
}

type PayrollConfig struct {
	RoundingScale    int32
	Currency         string
	BatchConcurrency int
}

// Load reads .env when present and builds the configuration from the
// environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file loaded, using environment", "error", err)
	}

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
		Name:     getEnv("DB_NAME", "hris_payroll"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	// Attendance policy
	lateMinutes, err := strconv.Atoi(getEnv("ATTENDANCE_LATE_THRESHOLD_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_LATE_THRESHOLD_MINUTES: %w", err)
	}
	halfDay, err := decimal.NewFromString(getEnv("ATTENDANCE_HALF_DAY_HOURS", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_HALF_DAY_HOURS: %w", err)
	}
	fullDay, err := decimal.NewFromString(getEnv("ATTENDANCE_FULL_DAY_HOURS", "8"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_FULL_DAY_HOURS: %w", err)
	}

	config.Attendance = AttendanceConfig{
		StartTime:            getEnv("ATTENDANCE_START_TIME", "09:00"),
		LateThresholdMinutes: lateMinutes,
		HalfDayHours:         halfDay,
		FullDayHours:         fullDay,
		Timezone:             getEnv("ATTENDANCE_TIMEZONE", "UTC"),
	}

	provisionInterval, err := time.ParseDuration(getEnv("LEAVE_PROVISION_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEAVE_PROVISION_INTERVAL: %w", err)
	}
	config.Leave = LeaveConfig{ProvisionInterval: provisionInterval}

	// Payroll configuration
	scale, err := strconv.ParseInt(getEnv("PAYROLL_ROUNDING_SCALE", "0"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_ROUNDING_SCALE: %w", err)
	}
	concurrency, err := strconv.Atoi(getEnv("PAYROLL_BATCH_CONCURRENCY", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_BATCH_CONCURRENCY: %w", err)
	}

	config.Payroll = PayrollConfig{
		RoundingScale:    int32(scale),
		Currency:         getEnv("PAYROLL_CURRENCY", "INR"),
		BatchConcurrency: concurrency,
	}

	// Validate required fields
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
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if c.Leave.ProvisionInterval < 0 {
		return fmt.Errorf("LEAVE_PROVISION_INTERVAL must not be negative")
	}
	if c.Payroll.RoundingScale < 0 || c.Payroll.RoundingScale > validator.AmountScale {
		return fmt.Errorf("PAYROLL_ROUNDING_SCALE must be between 0 and %d", validator.AmountScale)
	}
	if c.Payroll.BatchConcurrency < 1 {
		return fmt.Errorf("PAYROLL_BATCH_CONCURRENCY must be at least 1")
	}
	if c.Attendance.LateThresholdMinutes < 0 {
		return fmt.Errorf("ATTENDANCE_LATE_THRESHOLD_MINUTES must be non-negative")
	}
	if !c.Attendance.HalfDayHours.IsPositive() || c.Attendance.FullDayHours.LessThan(c.Attendance.HalfDayHours) {
		return fmt.Errorf("ATTENDANCE_HALF_DAY_HOURS must be positive and not exceed ATTENDANCE_FULL_DAY_HOURS")
	}
	if _, err := c.AttendancePolicy(); err != nil {
		return err
	}
	return nil
}

// AttendancePolicy builds the attendance classification policy.
func (c *Config) AttendancePolicy() (attendance.Policy, error) {
	start, err := parseClock(c.Attendance.StartTime)
	if err != nil {
		return attendance.Policy{}, fmt.Errorf("invalid ATTENDANCE_START_TIME: %w", err)
	}

	loc, err := time.LoadLocation(c.Attendance.Timezone)
	if err != nil {
		return attendance.Policy{}, fmt.Errorf("invalid ATTENDANCE_TIMEZONE: %w", err)
	}

	return attendance.Policy{
		StandardStart: start,
		LateThreshold: time.Duration(c.Attendance.LateThresholdMinutes) * time.Minute,
		HalfDayHours:  c.Attendance.HalfDayHours,
		FullDayHours:  c.Attendance.FullDayHours,
		Location:      loc,
	}, nil
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

// parseClock turns "HH:MM" into an offset from midnight.
func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, errors.New("expected HH:MM")
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key, fallback string) []string {
	value := getEnv(key, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
