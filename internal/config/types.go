package config

import "time"

type Config struct {
	OpenAIKey        string
	AnthropicKey     string
	DatabaseURL      string
	RedisURL         string
	JWTSecret        string
	Environment      string
	Port             string
	VectorStore      string
	QdrantURL        string
	QdrantAPIKey     string
	QdrantCollection string
	AskRateLimit     string
	CORSOrigins      []string
	FAQInterval      time.Duration
	RedisLockTTL     time.Duration
	MaxUploadSize    int64
}

// flags for the company subcommand
type CompanyFlags struct {
	Name string
}

// flags for the token subcommand
type TokenFlags struct {
	CompanyID int64
	TTL       time.Duration
}

// flags for the faq subcommand; DocumentID 0 means every document without FAQs
type FAQFlags struct {
	DocumentID int64
}

// flags for the delete-company subcommand
type DeleteCompanyFlags struct {
	CompanyID int64
	Confirm   bool
}
