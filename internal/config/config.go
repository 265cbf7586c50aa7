package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"

	RateLimitBackendMemory = "memory"
	RateLimitBackendRedis  = "redis"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
	RateLimit  RateLimitConfig
	Redis      RedisConfig
	AbsenceJob AbsenceJobConfig
	CORS       CORSConfig
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
	// UsersFile seeds the memory driver's user directory.
	UsersFile string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// AttendanceConfig holds the geofence, cutoff and time accounting policy
type AttendanceConfig struct {
	OfficeLat          float64
	OfficeLng          float64
	MaxDistanceKm      float64
	CheckInCutoff      clock.TimeOfDay
	BreakHours         float64
	StandardShiftHours float64
	Location           *time.Location
}

type RateLimitConfig struct {
	Backend     string
	Window      time.Duration
	MaxRequests int64
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type AbsenceJobConfig struct {
	Enabled  bool
	Interval time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	var err error

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := strconv.ParseInt(getEnv("DB_MAX_CONNS", "10"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.ParseInt(getEnv("DB_MIN_CONNS", "1"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Driver:   strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "presence"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),

		UsersFile: getEnv("MEMORY_USERS_FILE", ""),
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
	accessExpiration, err := time.ParseDuration(getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: accessExpiration,
	}

	// Attendance policy
	if config.Attendance, err = loadAttendance(); err != nil {
		return nil, err
	}

	// Rate limiting
	window, err := time.ParseDuration(getEnv("RATE_LIMIT_WINDOW", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_WINDOW: %w", err)
	}
	maxRequests, err := strconv.ParseInt(getEnv("RATE_LIMIT_MAX_REQUESTS", "60"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_MAX_REQUESTS: %w", err)
	}

	config.RateLimit = RateLimitConfig{
		Backend:     strings.ToLower(getEnv("RATE_LIMIT_BACKEND", RateLimitBackendMemory)),
		Window:      window,
		MaxRequests: maxRequests,
	}

	// Redis configuration
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	config.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
		Prefix:   getEnv("REDIS_PREFIX", "presence"),
	}

	// Absence job
	jobEnabled, err := strconv.ParseBool(getEnv("ABSENCE_JOB_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid ABSENCE_JOB_ENABLED: %w", err)
	}
	jobInterval, err := time.ParseDuration(getEnv("ABSENCE_JOB_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid ABSENCE_JOB_INTERVAL: %w", err)
	}

	config.AbsenceJob = AbsenceJobConfig{
		Enabled:  jobEnabled,
		Interval: jobInterval,
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func loadAttendance() (AttendanceConfig, error) {
	var cfg AttendanceConfig
	var err error

	floats := []struct {
		key      string
		fallback string
		dst      *float64
	}{
		{"OFFICE_LAT", "", &cfg.OfficeLat},
		{"OFFICE_LNG", "", &cfg.OfficeLng},
		{"MAX_DISTANCE_KM", "0.5", &cfg.MaxDistanceKm},
		{"BREAK_HOURS", "1.0", &cfg.BreakHours},
		{"STANDARD_SHIFT_HOURS", "8", &cfg.StandardShiftHours},
	}
	for _, f := range floats {
		raw := getEnv(f.key, f.fallback)
		if raw == "" {
			return cfg, fmt.Errorf("%s is required", f.key)
		}
		if *f.dst, err = strconv.ParseFloat(raw, 64); err != nil {
			return cfg, fmt.Errorf("invalid %s: %w", f.key, err)
		}
	}

	if cfg.CheckInCutoff, err = clock.ParseTimeOfDay(getEnv("CHECKIN_CUTOFF", "09:30")); err != nil {
		return cfg, fmt.Errorf("invalid CHECKIN_CUTOFF: %w", err)
	}

	if cfg.Location, err = time.LoadLocation(getEnv("ATTENDANCE_TIMEZONE", "UTC")); err != nil {
		return cfg, fmt.Errorf("invalid ATTENDANCE_TIMEZONE: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if !validator.IsInSlice(c.Database.Driver, []string{StoreDriverPostgres, StoreDriverMemory}) {
		return fmt.Errorf("STORE_DRIVER must be one of: %s, %s", StoreDriverPostgres, StoreDriverMemory)
	}
	if c.Database.Driver == StoreDriverPostgres && c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}

	if c.Attendance.OfficeLat < -90 || c.Attendance.OfficeLat > 90 {
		return fmt.Errorf("OFFICE_LAT must be between -90 and 90")
	}
	if c.Attendance.OfficeLng < -180 || c.Attendance.OfficeLng > 180 {
		return fmt.Errorf("OFFICE_LNG must be between -180 and 180")
	}
	if c.Attendance.MaxDistanceKm <= 0 {
		return fmt.Errorf("MAX_DISTANCE_KM must be positive")
	}
	if c.Attendance.BreakHours < 0 || c.Attendance.StandardShiftHours < 0 {
		return fmt.Errorf("BREAK_HOURS and STANDARD_SHIFT_HOURS must not be negative")
	}

	if !validator.IsInSlice(c.RateLimit.Backend, []string{RateLimitBackendMemory, RateLimitBackendRedis}) {
		return fmt.Errorf("RATE_LIMIT_BACKEND must be one of: %s, %s", RateLimitBackendMemory, RateLimitBackendRedis)
	}
	if c.RateLimit.Window <= 0 || c.RateLimit.MaxRequests <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW and RATE_LIMIT_MAX_REQUESTS must be positive")
	}

	if c.AbsenceJob.Enabled && c.AbsenceJob.Interval <= 0 {
		return fmt.Errorf("ABSENCE_JOB_INTERVAL must be positive")
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

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
