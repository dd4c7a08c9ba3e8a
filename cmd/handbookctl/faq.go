package main

import (
	"context"
	"fmt"

	"codeberg.org/handbookqa/server/handbook/documents"
	"codeberg.org/handbookqa/server/handbook/faqs"
	"codeberg.org/handbookqa/server/internal/config"
	"codeberg.org/handbookqa/server/internal/faq"
	"codeberg.org/handbookqa/server/internal/llm"
	"codeberg.org/handbookqa/server/internal/logger"
	"codeberg.org/handbookqa/server/internal/vectorstore"
	"github.com/jackc/pgx/v5/pgxpool"
)

// the server's vector backend; the memory store would see nothing
func newGateway(cfg *config.Config, db *pgxpool.Pool) (vectorstore.Gateway, error) {
	backend := vectorstore.Backend(cfg.VectorStore)
	if backend == vectorstore.BackendMemory {
		return nil, fmt.Errorf("needs a persistent vector store, VECTOR_STORE=memory")
	}

	gateway, err := vectorstore.New(vectorstore.Config{
		Backend:          backend,
		QdrantURL:        cfg.QdrantURL,
		QdrantAPIKey:     cfg.QdrantAPIKey,
		QdrantCollection: cfg.QdrantCollection,
		Dimension:        1536,
	}, db)
	if err != nil {
		return nil, err
	}

	return vectorstore.NewResilient(gateway, vectorstore.DefaultResilienceConfig()), nil
}

// runs one faq generation pass outside the server schedule
func GenerateFAQs(ctx context.Context, cfg *config.Config, db *pgxpool.Pool, flags config.FAQFlags) error {
	clients, err := llm.NewClients(nil)
	if err != nil {
		return fmt.Errorf("failed to create LLM clients: %w", err)
	}

	gateway, err := newGateway(cfg, db)
	if err != nil {
		return err
	}

	service := faq.NewService(
		documents.NewRepository(db),
		faqs.NewRepository(db),
		gateway,
		clients.Generator,
	)

	var documentID *int64
	if flags.DocumentID > 0 {
		documentID = &flags.DocumentID
	}

	summary, err := service.Run(ctx, documentID)
	if err != nil {
		return err
	}

	logger.Info("faq generation complete",
		"documents", summary.Documents,
		"generated", summary.Generated,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
		"total_faqs", summary.TotalFAQs,
	)

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d documents failed", summary.Failed, summary.Documents)
	}

	return nil
}
