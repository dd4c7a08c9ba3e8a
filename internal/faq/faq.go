// Package faq suggests questions employees might ask about each handbook.
package faq

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"codeberg.org/handbookqa/server/handbook/documents"
	"codeberg.org/handbookqa/server/internal/llm"
	"codeberg.org/handbookqa/server/internal/logger"
	"codeberg.org/handbookqa/server/internal/metrics"
	"codeberg.org/handbookqa/server/internal/namespace"
	"codeberg.org/handbookqa/server/internal/vectorstore"
)

var errNoContent = errors.New("namespace holds no content")

const defaultMaxTokens = 512

func WithFetchLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.fetchLimit = limit
		}
	}
}

func NewService(
	docs DocumentSource,
	faqs FAQStore,
	vectors vectorstore.Gateway,
	generator llm.TextGenerator,
	opts ...Option,
) *Service {
	s := &Service{
		docs:       docs,
		faqs:       faqs,
		vectors:    vectors,
		generator:  generator,
		fetchLimit: vectorstore.DefaultFetchLimit,
		maxTokens:  defaultMaxTokens,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start runs the job every interval until ctx is done
func (s *Service) Start(ctx context.Context, interval time.Duration) {
	logger.Info("starting faq generation service", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("faq generation service stopped")
			return
		case <-ticker.C:
			if _, err := s.Run(ctx, nil); err != nil {
				logger.ErrorErr(err, "faq generation run failed")
			}
		}
	}
}

// Run generates questions for documentID, or for every document that has
// none yet when documentID is nil. A failing document is logged and counted
// without stopping the run.
func (s *Service) Run(ctx context.Context, documentID *int64) (Summary, error) {
	var summary Summary

	sources, err := s.docs.ListSources(ctx, documentID)
	if err != nil {
		return summary, fmt.Errorf("failed to list documents: %w", err)
	}

	summary.Documents = len(sources)

	for _, src := range sources {
		n, err := s.generate(ctx, src)

		switch {
		case errors.Is(err, errNoContent):
			summary.Skipped++
			logger.Warn("skipping document without vectors",
				"document_id", src.DocumentID,
				"namespace", namespace.For(src.CompanyName, src.DocumentName),
			)
		case err != nil:
			summary.Failed++
			logger.ErrorErr(err, "failed to generate faqs", "document_id", src.DocumentID)
		default:
			summary.Generated += n
		}

		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
	}

	total, err := s.faqs.Count(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to count faqs: %w", err)
	}

	summary.TotalFAQs = total

	logger.Info("faq generation finished",
		"generated", summary.Generated,
		"total_faqs", summary.TotalFAQs,
		"documents", summary.Documents,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
	)

	return summary, nil
}

func (s *Service) generate(ctx context.Context, src documents.Source) (int, error) {
	ns := namespace.For(src.CompanyName, src.DocumentName)

	records, err := s.vectors.FetchAll(ctx, ns, s.fetchLimit)
	if err != nil {
		return 0, err
	}

	if len(records) == 0 {
		return 0, errNoContent
	}

	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = r.Metadata.Text
	}

	resp, err := s.generator.GenerateText(ctx, llm.TextGenerationRequest{
		Messages: []llm.Message{
			{Role: "user", Content: buildPrompt(src.CompanyName, strings.Join(texts, "\n\n"))},
		},
		MaxTokens:   s.maxTokens,
		Temperature: 0,
	})
	if err != nil {
		return 0, fmt.Errorf("question generation with %s failed: %w", s.generator.Model(), err)
	}

	questions := parseQuestions(resp.Text)
	if len(questions) == 0 {
		return 0, fmt.Errorf("model returned no questions")
	}

	if err := s.faqs.CreateMany(ctx, src.DocumentID, questions); err != nil {
		return 0, fmt.Errorf("failed to store faqs: %w", err)
	}

	metrics.FAQsGenerated.Add(float64(len(questions)))

	return len(questions), nil
}
