package lifecycle

import (
	"context"

	"codeberg.org/handbookqa/server/handbook/documents"
	"codeberg.org/handbookqa/server/internal/llm"
	"codeberg.org/handbookqa/server/internal/locks"
	"codeberg.org/handbookqa/server/internal/vectorstore"
)

// the relational side of a document
type DocumentStore interface {
	Create(ctx context.Context, p documents.CreateParams) (*documents.Document, error)
	GetByID(ctx context.Context, id int64) (*documents.Document, error)
	NameTaken(ctx context.Context, name, nameSlug string, excludeID int64) (bool, error)
	Rename(ctx context.Context, id int64, name, nameSlug string) (*documents.Document, error)
	ReplaceFile(ctx context.Context, id int64, file documents.File) (*documents.Document, error)
	Delete(ctx context.Context, id int64) error
}

// removes a company row; its documents and faqs cascade
type CompanyStore interface {
	Delete(ctx context.Context, id int64) error
}

type Extractor interface {
	ExtractText(ctx context.Context, content []byte) (string, error)
}

type Splitter interface {
	Split(text string) []string
}

type Manager struct {
	store      DocumentStore
	extractor  Extractor
	splitter   Splitter
	embedder   llm.Embedder
	vectors    vectorstore.Gateway
	locker     locks.Locker
	fetchLimit int
}

type Option func(*Manager)

// the fields of an update; nil means unchanged
type UpdateRequest struct {
	Name *string
	File *documents.File
}
