package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabasePath  string
	CatalogPath   string
	Port          string
	JWTSecret     string
	TokenDuration time.Duration

	AllowedOrigins string
	Environment    string

	MailgunDomain      string
	MailgunAPIKey      string
	MailgunSenderEmail string
	MailgunSenderName  string
}

func Load() *Config {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		DatabasePath:  getEnv("DATABASE_PATH", "pokedex.db"),
		CatalogPath:   getEnv("CATALOG_PATH", "pokemon.csv"),
		Port:          getEnv("PORT", "8080"),
		JWTSecret:     getEnv("JWT_SECRET", "change-this-secret-in-production"),
		TokenDuration: getEnvDuration("TOKEN_DURATION_HOURS", 24) * time.Hour,

		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
		Environment:    getEnv("ENVIRONMENT", "production"),

		MailgunDomain:      getEnv("MAILGUN_DOMAIN", ""),
		MailgunAPIKey:      getEnv("MAILGUN_API_KEY", ""),
		MailgunSenderEmail: getEnv("MAILGUN_SENDER_EMAIL", "noreply@pokedex.local"),
		MailgunSenderName:  getEnv("MAILGUN_SENDER_NAME", "Pokedex"),
	}
	return cfg
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultHours int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if hours, err := strconv.Atoi(value); err == nil && hours > 0 {
			return time.Duration(hours)
		}
	}
	return time.Duration(defaultHours)
}
