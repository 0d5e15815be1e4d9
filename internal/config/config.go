// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. Required values are enforced by must(); optional
// groups (database, gateway, email, broker) may be empty, in which case the
// corresponding component is disabled at startup.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	// Database. When DBHost is empty the service falls back to the
	// ephemeral in-memory store and logs a durability warning.
	DBUser string
	DBPass string
	DBHost string
	DBPort string
	DBName string

	// Operator auth. AdminPasswordHash is a bcrypt hash of the shared
	// dashboard secret; sessions are signed JWTs.
	JWTSecret         string
	AdminPasswordHash string
	SessionTTLMin     int

	// bKash merchant credentials. Empty means payment endpoints return 500.
	BkashBaseURL   string
	BkashAppKey    string
	BkashAppSecret string
	BkashUsername  string
	BkashPassword  string

	// Transactional email. Empty means sends are skipped.
	ResendAPIKey string
	AdminEmail   string
	EmailFrom    string

	PublicBaseURL string // external base URL used for gateway callbacks
	RabbitURL     string // AMQP broker; empty disables order events
	UploadDir     string // local image storage root
}

// Load reads configuration values from environment variables and returns a
// Config. Missing required variables cause the program to exit with a fatal
// log message.
func Load() Config {
	return Config{
		Env:  must("APP_ENV"),
		Port: must("APP_PORT"),

		DBUser: os.Getenv("DB_USER"),
		DBPass: os.Getenv("DB_PASS"),
		DBHost: os.Getenv("DB_HOST"),
		DBPort: getenvDefault("DB_PORT", "3306"),
		DBName: os.Getenv("DB_NAME"),

		JWTSecret:         must("JWT_SECRET"),
		AdminPasswordHash: must("ADMIN_PASSWORD_HASH"),
		SessionTTLMin:     mustInt("SESSION_TTL_MIN"),

		BkashBaseURL:   getenvDefault("BKASH_BASE_URL", "https://tokenized.sandbox.bka.sh/v1.2.0-beta"),
		BkashAppKey:    os.Getenv("BKASH_APP_KEY"),
		BkashAppSecret: os.Getenv("BKASH_APP_SECRET"),
		BkashUsername:  os.Getenv("BKASH_USERNAME"),
		BkashPassword:  os.Getenv("BKASH_PASSWORD"),

		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		AdminEmail:   os.Getenv("ADMIN_EMAIL"),
		EmailFrom:    os.Getenv("EMAIL_FROM"),

		PublicBaseURL: getenvDefault("PUBLIC_BASE_URL", "http://localhost:8080"),
		RabbitURL:     os.Getenv("RABBITMQ_URL"),
		UploadDir:     getenvDefault("UPLOAD_DIR", "uploads"),
	}
}

// DatabaseConfigured reports whether the MySQL settings are present.
func (c Config) DatabaseConfigured() bool {
	return c.DBHost != "" && c.DBUser != "" && c.DBName != ""
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
