package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port           string
	Env            string
	LogLevel       string
	DatabaseURL    string
	ClinicName     string
	ClinicTimezone string

	// Booking rules
	BookingHorizonDays int
	RefreshInterval    time.Duration

	// Staff access (single shared account, see internal/auth)
	StaffUsername    string
	StaffPassword    string
	StaffJWTSecret   string
	StaffSessionTTL  time.Duration
	StaffRememberTTL time.Duration

	// HTTP
	CORSAllowedOrigins []string
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		ClinicName:     getEnv("CLINIC_NAME", "Nova Dental"),
		ClinicTimezone: getEnv("CLINIC_TIMEZONE", ""),

		BookingHorizonDays: getEnvAsInt("BOOKING_HORIZON_DAYS", 30),
		RefreshInterval:    getEnvAsDuration("AVAILABILITY_REFRESH_INTERVAL", 10*time.Second),

		StaffUsername:    getEnv("STAFF_USERNAME", ""),
		StaffPassword:    getEnv("STAFF_PASSWORD", ""),
		StaffJWTSecret:   getEnv("STAFF_JWT_SECRET", ""),
		StaffSessionTTL:  getEnvAsDuration("STAFF_SESSION_TTL", 12*time.Hour),
		StaffRememberTTL: getEnvAsDuration("STAFF_REMEMBER_TTL", 30*24*time.Hour),

		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "")),
		RateLimitPerSecond: getEnvAsFloat("RATE_LIMIT_PER_SECOND", 5),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),
	}
}

// Location resolves the clinic time zone. An empty or invalid CLINIC_TIMEZONE
// falls back to the server's local zone; the service is single-zone either way.
func (c *Config) Location() *time.Location {
	if c.ClinicTimezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.ClinicTimezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
