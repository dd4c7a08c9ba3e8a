package vectorstore

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// New builds the configured backend. The pool is only used by the pgvector
// backend and may be nil otherwise.
func New(config Config, pool *pgxpool.Pool) (Gateway, error) {
	switch config.Backend {
	case BackendPgVector, "":
		if pool == nil {
			return nil, fmt.Errorf("pgvector backend requires a database pool")
		}
		return NewPgVectorStore(pool), nil
	case BackendQdrant:
		return NewQdrantStore(config.QdrantURL, config.QdrantAPIKey, config.QdrantCollection, config.Dimension)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported vector store backend: %s", config.Backend)
	}
}
