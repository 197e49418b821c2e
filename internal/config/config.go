package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// OAuthConfig holds the OIDC provider endpoints and client credentials.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	RedirectURL  string
}

// S3Config holds S3-compatible storage settings for photo uploads.
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

// EmailConfig holds SES settings for the weekly summary.
type EmailConfig struct {
	Region    string
	FromEmail string
	FromName  string
}

// Config holds application configuration. All env vars carry the KINDORA_
// prefix; an empty DatabasePath runs the server demo-only on the in-memory
// engine.
type Config struct {
	Port         string
	DatabasePath string
	BaseURL      string
	LogLevel     string

	OAuth OAuthConfig
	S3    S3Config
	Email EmailConfig

	// DemoTokenSecret signs short-lived demo verification tokens.
	DemoTokenSecret string
	// CronSecretHash is the bcrypt hash matched against X-Cron-Secret.
	CronSecretHash string

	PhotoURLTTL time.Duration
}

// Load reads .env (when present) and the environment.
func Load() *Config {
	godotenv.Load()

	return &Config{
		Port:         getEnv("KINDORA_PORT", "8080"),
		DatabasePath: getEnv("KINDORA_DB_PATH", ""),
		BaseURL:      getEnv("KINDORA_BASE_URL", "http://localhost:8080"),
		LogLevel:     getEnv("KINDORA_LOG_LEVEL", "info"),
		OAuth: OAuthConfig{
			ClientID:     getEnv("KINDORA_OAUTH_CLIENT_ID", ""),
			ClientSecret: getEnv("KINDORA_OAUTH_CLIENT_SECRET", ""),
			AuthURL:      getEnv("KINDORA_OAUTH_AUTH_URL", ""),
			TokenURL:     getEnv("KINDORA_OAUTH_TOKEN_URL", ""),
			RedirectURL:  getEnv("KINDORA_OAUTH_REDIRECT_URL", ""),
		},
		S3: S3Config{
			Endpoint:  getEnv("KINDORA_S3_ENDPOINT", ""),
			Bucket:    getEnv("KINDORA_S3_BUCKET", ""),
			Region:    getEnv("KINDORA_S3_REGION", "us-east-1"),
			AccessKey: getEnv("KINDORA_S3_ACCESS_KEY", ""),
			SecretKey: getEnv("KINDORA_S3_SECRET_KEY", ""),
		},
		Email: EmailConfig{
			Region:    getEnv("KINDORA_SES_REGION", "us-east-1"),
			FromEmail: getEnv("KINDORA_SES_FROM_EMAIL", ""),
			FromName:  getEnv("KINDORA_SES_FROM_NAME", "Kindora"),
		},
		DemoTokenSecret: getEnv("KINDORA_DEMO_TOKEN_SECRET", "demo-dev-secret"),
		CronSecretHash:  getEnv("KINDORA_CRON_SECRET_HASH", ""),
		PhotoURLTTL:     15 * time.Minute,
	}
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
