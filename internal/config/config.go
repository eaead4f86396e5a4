// Package config loads process-wide configuration from the environment once
// at startup. The resulting value is immutable and passed explicitly into
// the components that need it.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultListenAddr = ":8080"
	defaultModel      = "robinhad/image-real-or-ai"
	defaultTimeoutSec = 12
	defaultThreshold  = 0.6
)

// Config carries every tunable the verification pipeline reads.
type Config struct {
	ListenAddr string

	// Hugging Face inference settings. An empty Token disables the
	// primary realism path without failing startup.
	InferenceToken   string
	InferenceModel   string
	InferenceTimeout time.Duration

	// Threshold is the authenticity score at or above which an image is
	// reported as real.
	Threshold float64

	// Optional bearer-token guard for the verify endpoint. Empty secret
	// leaves the endpoint open.
	JWTSecret   string
	JWTAudience string
}

// Load reads configuration from the environment, sourcing a .env.backend
// file first when one is present.
func Load() Config {
	_ = godotenv.Load(".env.backend")

	return Config{
		ListenAddr:       getEnv("LISTEN_ADDR", defaultListenAddr),
		InferenceToken:   os.Getenv("HF_TOKEN"),
		InferenceModel:   getEnv("HF_MODEL", defaultModel),
		InferenceTimeout: time.Duration(getEnvInt("HF_TIMEOUT", defaultTimeoutSec)) * time.Second,
		Threshold:        getEnvFloat("AUTHENTICITY_THRESHOLD", defaultThreshold),
		JWTSecret:        os.Getenv("AUTH_JWT_SECRET"),
		JWTAudience:      os.Getenv("AUTH_JWT_AUDIENCE"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
