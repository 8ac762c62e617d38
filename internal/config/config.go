// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port     string
	Env      string // "development", "staging", "production"
	LogLevel string

	// Database
	DatabaseURL string // PostgreSQL connection string (optional, uses in-memory if not set)

	// Dataset
	DatasetPath string // JSON transaction file served by the API (optional)

	// Analysis settings
	TopCounterparties    int
	StructuringThreshold float64
	VelocityThreshold    float64
	FlagRoundAmounts     bool
	MixingServices       []string // comma-separated override of the stock mixer list

	// Observability
	OTLPEndpoint string // OTLP gRPC endpoint for tracing (optional)
}

// Defaults
const (
	DefaultPort                 = "8080"
	DefaultEnv                  = "development"
	DefaultLogLevel             = "info"
	DefaultTopCounterparties    = 5
	DefaultStructuringThreshold = 9999
	DefaultVelocityThreshold    = 5
)

// Load reads configuration from environment variables
// It loads .env file if present (for local development)
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not present)
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 getEnv("PORT", DefaultPort),
		Env:                  getEnv("ENV", DefaultEnv),
		LogLevel:             getEnv("LOG_LEVEL", DefaultLogLevel),
		DatabaseURL:          os.Getenv("DATABASE_URL"), // Optional, uses in-memory if not set
		DatasetPath:          os.Getenv("DATASET_PATH"),
		TopCounterparties:    getEnvInt("TOP_COUNTERPARTIES", DefaultTopCounterparties),
		StructuringThreshold: getEnvFloat("STRUCTURING_THRESHOLD", DefaultStructuringThreshold),
		VelocityThreshold:    getEnvFloat("VELOCITY_THRESHOLD", DefaultVelocityThreshold),
		FlagRoundAmounts:     getEnvBool("FLAG_ROUND_AMOUNTS", true),
		MixingServices:       getEnvList("MIXING_SERVICES"),
		OTLPEndpoint:         os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration is coherent
func (c *Config) Validate() error {
	if c.TopCounterparties <= 0 {
		return fmt.Errorf("TOP_COUNTERPARTIES must be positive, got %d", c.TopCounterparties)
	}
	if c.StructuringThreshold <= 0 {
		return fmt.Errorf("STRUCTURING_THRESHOLD must be positive, got %v", c.StructuringThreshold)
	}
	if c.VelocityThreshold <= 0 {
		return fmt.Errorf("VELOCITY_THRESHOLD must be positive, got %v", c.VelocityThreshold)
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
