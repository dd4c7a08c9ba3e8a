// Package retriever answers questions from the vector namespaces of a
// company's handbook documents.
package retriever

import (
	"context"

	"codeberg.org/handbookqa/server/handbook/companies"
	"codeberg.org/handbookqa/server/internal/llm"
	"codeberg.org/handbookqa/server/internal/metrics"
	"codeberg.org/handbookqa/server/internal/namespace"
	"codeberg.org/handbookqa/server/internal/vectorstore"
)

// reads RETRIEVAL_TOP_K from the environment
func WithEnvConfig() Option {
	return func(e *Engine) {
		e.topK = loadRetrieverConfig().TopK
	}
}

func WithTopK(topK int) Option {
	return func(e *Engine) {
		e.topK = effectiveTopK(topK)
	}
}

func NewEngine(
	embedder llm.Embedder,
	vectors vectorstore.Gateway,
	generator AnswerGenerator,
	docs DocumentLister,
	opts ...Option,
) *Engine {
	e := &Engine{
		embedder:  embedder,
		vectors:   vectors,
		generator: generator,
		docs:      docs,
		topK:      DefaultTopK,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Retrieve embeds the question once, queries every namespace in order and
// returns the merged working set ranked by score. Any failing namespace
// aborts the whole call.
func (e *Engine) Retrieve(ctx context.Context, question string, namespaces []string, topK int) ([]Hit, error) {
	topK = effectiveTopK(topK)

	if len(namespaces) == 0 {
		return []Hit{}, nil
	}

	embedding, err := e.embedder.GenerateEmbedding(ctx, question)
	if err != nil {
		return nil, &RetrievalError{Stage: StageEmbed, Err: err}
	}

	var hits []Hit

	for _, ns := range namespaces {
		matches, err := e.vectors.Query(ctx, ns, embedding, topK, true)
		if err != nil {
			return nil, &RetrievalError{Stage: StageQuery, Namespace: ns, Err: err}
		}

		for _, m := range matches {
			hits = append(hits, Hit{Namespace: ns, Match: m})
		}
	}

	return mergeAndRank(hits, topK), nil
}

// Answer builds the context from the top hits and returns the generator's
// output verbatim. With no namespaces the generator still runs on an empty
// context.
func (e *Engine) Answer(ctx context.Context, question string, namespaces []string, topK int) (string, error) {
	hits, err := e.Retrieve(ctx, question, namespaces, topK)
	if err != nil {
		return "", err
	}

	answer, err := e.generator.Generate(ctx, buildContext(hits), question)
	if err != nil {
		return "", &RetrievalError{Stage: StageGenerate, Err: err}
	}

	return answer, nil
}

// Ask answers against every document of the company
func (e *Engine) Ask(ctx context.Context, company *companies.Company, question string) (answer string, err error) {
	defer func() {
		metrics.QuestionsAnswered.WithLabelValues(metrics.Result(err)).Inc()
	}()

	names, err := e.docs.ListNames(ctx, company.ID)
	if err != nil {
		return "", &RetrievalError{Stage: StageList, Err: err}
	}

	namespaces := make([]string, len(names))
	for i, name := range names {
		namespaces[i] = namespace.For(company.Name, name)
	}

	return e.Answer(ctx, question, namespaces, e.topK)
}

func (e *Engine) TopK() int {
	return e.topK
}
