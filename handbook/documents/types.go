package documents

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// handles document database operations
type Repository struct {
	db *pgxpool.Pool
}

// a handbook document owned by one company. Name is unique across all
// companies because it takes part in the vector-store namespace.
type Document struct {
	ID        int64     `json:"id"`
	CompanyID int64     `json:"company_id"`
	Name      string    `json:"name"`
	NameSlug  string    `json:"-"`
	FileName  string    `json:"file_name"`
	FileSize  int64     `json:"file_size"`
	CreatedAt time.Time `json:"created_at"`
}

// the stored upload
type File struct {
	Name    string
	Content []byte
}

type CreateParams struct {
	CompanyID int64
	Name      string
	NameSlug  string
	File      File
}

// a document together with the company fields needed to derive its
// namespace
type Source struct {
	DocumentID   int64
	DocumentName string
	CompanyName  string
}
