package retriever

import (
	"context"

	"codeberg.org/handbookqa/server/internal/llm"
	"codeberg.org/handbookqa/server/internal/vectorstore"
)

// turns the assembled context and the question into the final answer
type AnswerGenerator interface {
	Generate(ctx context.Context, contextText, question string) (string, error)
}

// lists a company's document names in creation order
type DocumentLister interface {
	ListNames(ctx context.Context, companyID int64) ([]string, error)
}

type Engine struct {
	embedder  llm.Embedder
	vectors   vectorstore.Gateway
	generator AnswerGenerator
	docs      DocumentLister
	topK      int
}

type Option func(*Engine)

// a match annotated with the namespace it came from
type Hit struct {
	Namespace string
	vectorstore.Match
}

type RetrieverConfig struct {
	TopK int
}
