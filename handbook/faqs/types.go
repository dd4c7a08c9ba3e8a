package faqs

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

// a generated question employees might ask about a document
type FAQ struct {
	ID         int64     `json:"id"`
	DocumentID int64     `json:"document_id"`
	Question   string    `json:"question"`
	CreatedAt  time.Time `json:"created_at"`
}
