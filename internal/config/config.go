package config

import (
	"log"
	"os"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string

	// Payment gateway (external checkout provider)
	PaymentAPIBase     string
	PaymentAPIKey      string
	Currency           string
	CheckoutSuccessURL string
	CheckoutCancelURL  string
}

func Load() *Config {
	cfg := &Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:        getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=assetverse port=5432 sslmode=disable"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		CORSOrigins:        getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		PaymentAPIBase:     getEnv("PAYMENT_API_BASE", "https://api.payments.example.com"),
		PaymentAPIKey:      getEnv("PAYMENT_API_KEY", ""),
		Currency:           getEnv("PAYMENT_CURRENCY", "usd"),
		CheckoutSuccessURL: getEnv("CHECKOUT_SUCCESS_URL", "http://localhost:5173/payment/success"),
		CheckoutCancelURL:  getEnv("CHECKOUT_CANCEL_URL", "http://localhost:5173/payment/cancel"),
	}

	// Startup safety checks
	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET is not set! It is required in production.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET must be at least 32 characters long!")
	}
	if cfg.PaymentAPIKey == "" {
		log.Println("[WARN] PAYMENT_API_KEY is not set, checkout endpoints will fail against the real gateway.")
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=assetverse port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN is using the default value, configure your own Postgres connection for production.")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS is using the default value, configure your own domain for production.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
