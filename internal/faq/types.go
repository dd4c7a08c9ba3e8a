package faq

import (
	"context"

	"codeberg.org/handbookqa/server/handbook/documents"
	"codeberg.org/handbookqa/server/internal/llm"
	"codeberg.org/handbookqa/server/internal/vectorstore"
)

// picks the documents a run works on
type DocumentSource interface {
	ListSources(ctx context.Context, documentID *int64) ([]documents.Source, error)
}

type FAQStore interface {
	CreateMany(ctx context.Context, documentID int64, questions []string) error
	Count(ctx context.Context) (int, error)
}

// generates FAQ questions from the text already stored in each document's
// vector namespace
type Service struct {
	docs       DocumentSource
	faqs       FAQStore
	vectors    vectorstore.Gateway
	generator  llm.TextGenerator
	fetchLimit int
	maxTokens  int
}

type Option func(*Service)

// outcome of one run
type Summary struct {
	Documents int
	Generated int
	Failed    int
	Skipped   int
	TotalFAQs int
}
