package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DSN     string
	AppPort string

	// Identity provider settings. The API key authenticates server-to-server
	// profile lookups; the JWT secret, when set, enables signature-verified
	// bearer tokens on /auth/sync.
	IdentityAPIURL    string
	IdentityAPIKey    string
	IdentityJWTSecret string
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using system environment variables")
	}

	cfg := Config{
		DSN:               os.Getenv("MYSQL_DSN"),
		AppPort:           os.Getenv("APP_PORT"),
		IdentityAPIURL:    os.Getenv("IDENTITY_API_URL"),
		IdentityAPIKey:    os.Getenv("IDENTITY_API_KEY"),
		IdentityJWTSecret: os.Getenv("IDENTITY_JWT_SECRET"),
	}

	if cfg.DSN == "" {
		log.Fatal("MYSQL_DSN not set in environment")
	}
	if cfg.IdentityAPIURL == "" {
		log.Fatal("IDENTITY_API_URL not set in environment")
	}
	if cfg.IdentityAPIKey == "" {
		log.Fatal("IDENTITY_API_KEY not set in environment")
	}
	if cfg.AppPort == "" {
		cfg.AppPort = "8080"
	}

	return cfg
}
