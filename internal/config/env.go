package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort          = "8080"
	defaultVectorStore   = "pgvector"
	defaultAskRateLimit  = "30-M"
	defaultFAQInterval   = time.Hour
	defaultRedisLockTTL  = 2 * time.Minute
	defaultMaxUploadSize = 20 << 20
)

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have .env file
	}

	cfg := &Config{
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		AnthropicKey:     os.Getenv("ANTHROPIC_API_KEY"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		Environment:      envOr("ENVIRONMENT", "development"),
		Port:             envOr("PORT", defaultPort),
		VectorStore:      strings.ToLower(envOr("VECTOR_STORE", defaultVectorStore)),
		QdrantURL:        os.Getenv("QDRANT_URL"),
		QdrantAPIKey:     os.Getenv("QDRANT_API_KEY"),
		QdrantCollection: envOr("QDRANT_COLLECTION", "handbooks"),
		AskRateLimit:     envOr("ASK_RATE_LIMIT", defaultAskRateLimit),
		CORSOrigins:      splitList(os.Getenv("CORS_ORIGINS")),
		FAQInterval:      defaultFAQInterval,
		RedisLockTTL:     defaultRedisLockTTL,
		MaxUploadSize:    defaultMaxUploadSize,
	}

	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	switch cfg.VectorStore {
	case "pgvector", "memory":
	case "qdrant":
		if cfg.QdrantURL == "" {
			return nil, fmt.Errorf("QDRANT_URL environment variable is required when VECTOR_STORE=qdrant")
		}
	default:
		return nil, fmt.Errorf("unsupported VECTOR_STORE %q", cfg.VectorStore)
	}

	if raw := os.Getenv("FAQ_INTERVAL"); raw != "" {
		interval, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid FAQ_INTERVAL: %w", err)
		}
		cfg.FAQInterval = interval
	}

	if raw := os.Getenv("REDIS_LOCK_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			return nil, fmt.Errorf("invalid REDIS_LOCK_TTL %q", raw)
		}
		cfg.RedisLockTTL = ttl
	}

	if raw := os.Getenv("MAX_UPLOAD_SIZE"); raw != "" {
		size, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || size <= 0 {
			return nil, fmt.Errorf("invalid MAX_UPLOAD_SIZE %q", raw)
		}
		cfg.MaxUploadSize = size
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func splitList(raw string) []string {
	var out []string

	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}
