package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Env struct {
	AppAddr string
	GinMode string

	DBUser string
	DBPass string
	DBHost string
	DBName string

	// Mobile-money gateway (external collaborator).
	GatewayBaseURL string
	GatewayAPIKey  string

	// Polling policy for server-side payment verification.
	PollInterval    time.Duration
	PollMaxAttempts int
	PollDeadline    time.Duration

	CORSOrigins []string
	JWTSecret   string
}

func LoadEnv() Env {
	env := Env{
		AppAddr: getenv("APP_ADDR", ":8080"),
		GinMode: strings.TrimSpace(os.Getenv("GIN_MODE")),

		DBUser: getenv("DB_USER", "root"),
		DBPass: strings.TrimSpace(os.Getenv("DB_PASS")),
		DBHost: getenv("DB_HOST", "127.0.0.1:3306"),
		DBName: getenv("DB_NAME", "tailsandtrails"),

		GatewayBaseURL: getenv("MOMO_GATEWAY_URL", "https://api.momo.example.com"),
		GatewayAPIKey:  strings.TrimSpace(os.Getenv("MOMO_GATEWAY_KEY")),

		PollInterval:    getenvDuration("PAYMENT_POLL_INTERVAL", 3*time.Second),
		PollMaxAttempts: getenvInt("PAYMENT_POLL_MAX_ATTEMPTS", 40),
		PollDeadline:    getenvDuration("PAYMENT_POLL_DEADLINE", 5*time.Minute),

		JWTSecret: getenv("JWT_SECRET", "super-secret-key-change-me"),
	}

	if raw := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); raw != "" {
		for _, o := range strings.Split(raw, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				env.CORSOrigins = append(env.CORSOrigins, o)
			}
		}
	}

	return env
}

func getenv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func getenvInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
