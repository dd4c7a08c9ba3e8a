package main

import (
	"fmt"

	"codeberg.org/handbookqa/server/handbook/documents"
	"codeberg.org/handbookqa/server/handbook/faqs"
	"codeberg.org/handbookqa/server/internal/answer"
	"codeberg.org/handbookqa/server/internal/chunker"
	"codeberg.org/handbookqa/server/internal/config"
	"codeberg.org/handbookqa/server/internal/extract"
	"codeberg.org/handbookqa/server/internal/faq"
	"codeberg.org/handbookqa/server/internal/lifecycle"
	"codeberg.org/handbookqa/server/internal/llm"
	"codeberg.org/handbookqa/server/internal/locks"
	"codeberg.org/handbookqa/server/internal/logger"
	"codeberg.org/handbookqa/server/internal/retriever"
	"codeberg.org/handbookqa/server/internal/vectorstore"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// matches the openai embedding model
const embeddingDimension = 1536

// creates and configures the domain services
func InitializeServices(
	cfg *config.Config,
	db *pgxpool.Pool,
	rdb *redis.Client,
	documentRepo *documents.Repository,
	faqRepo *faqs.Repository,
) (*Services, error) {
	clients, err := llm.NewClients(rdb)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM clients: %w", err)
	}

	vectors, err := newVectorStore(cfg, db)
	if err != nil {
		return nil, err
	}

	var locker locks.Locker = locks.NewKeyed()
	if rdb != nil {
		locker = locks.NewRedisLocker(rdb, cfg.RedisLockTTL)
	}

	manager := lifecycle.NewManager(
		documentRepo,
		extract.NewPDFExtractor(),
		chunker.New(chunker.DefaultOptions()),
		clients.Embedder,
		vectors,
		locker,
	)

	engine := retriever.NewEngine(
		clients.Embedder,
		vectors,
		answer.New(clients.Generator),
		documentRepo,
		retriever.WithEnvConfig(),
	)

	faqService := faq.NewService(documentRepo, faqRepo, vectors, clients.Generator)

	logger.Info("services initialized",
		"vector_store", cfg.VectorStore,
		"generator", clients.Generator.Model(),
		"top_k", engine.TopK(),
		"distributed_locks", rdb != nil,
	)

	return &Services{
		Lifecycle: manager,
		Retriever: engine,
		FAQ:       faqService,
	}, nil
}

// builds the configured backend wrapped with metrics and retries
func newVectorStore(cfg *config.Config, db *pgxpool.Pool) (vectorstore.Gateway, error) {
	backend := vectorstore.Backend(cfg.VectorStore)

	gateway, err := vectorstore.New(vectorstore.Config{
		Backend:          backend,
		QdrantURL:        cfg.QdrantURL,
		QdrantAPIKey:     cfg.QdrantAPIKey,
		QdrantCollection: cfg.QdrantCollection,
		Dimension:        embeddingDimension,
	}, db)
	if err != nil {
		return nil, fmt.Errorf("failed to create vector store: %w", err)
	}

	return vectorstore.NewResilient(
		vectorstore.NewInstrumented(gateway, backend),
		vectorstore.DefaultResilienceConfig(),
	), nil
}
