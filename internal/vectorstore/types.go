package vectorstore

import (
	"context"
	"time"
)

// Gateway is the narrow interface the rest of the server uses to talk to the
// vector index. Every record lives in exactly one namespace. Implementations
// never retry on their own; callers wrap them with NewResilient when they want
// timeouts and retries.
type Gateway interface {
	// Upsert inserts or replaces records by id. Records with an empty id get
	// a fresh one.
	Upsert(ctx context.Context, namespace string, records []Record) error

	// Query returns up to topK matches ordered by descending score.
	Query(ctx context.Context, namespace string, vector []float32, topK int, includeMetadata bool) ([]Match, error)

	// DeleteAll removes every record of the namespace. Deleting an empty or
	// unknown namespace succeeds.
	DeleteAll(ctx context.Context, namespace string) error

	// FetchAll returns every record of the namespace with its vector and
	// metadata, or ErrTooManyRecords when the namespace holds more than limit.
	FetchAll(ctx context.Context, namespace string, limit int) ([]Record, error)
}

type Metadata struct {
	Text string `json:"text"`
}

type Record struct {
	ID       string
	Vector   []float32
	Metadata Metadata
}

type Match struct {
	ID       string
	Score    float32
	Metadata Metadata
}

type Backend string

const (
	BackendPgVector Backend = "pgvector"
	BackendQdrant   Backend = "qdrant"
	BackendMemory   Backend = "memory"
)

type Config struct {
	Backend Backend

	QdrantURL        string
	QdrantAPIKey     string
	QdrantCollection string
	Dimension        int
}

// caller-side policy applied by NewResilient
type ResilienceConfig struct {
	Timeout     time.Duration // per attempt
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}
