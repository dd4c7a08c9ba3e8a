package companies

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// handles company database operations
type Repository struct {
	db *pgxpool.Pool
}

// represents a tenant owning handbook documents
type Company struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}
