package main

import (
	"context"
	"fmt"

	"codeberg.org/handbookqa/server/handbook/companies"
	"codeberg.org/handbookqa/server/handbook/documents"
	"codeberg.org/handbookqa/server/internal/chunker"
	"codeberg.org/handbookqa/server/internal/config"
	"codeberg.org/handbookqa/server/internal/extract"
	"codeberg.org/handbookqa/server/internal/lifecycle"
	"codeberg.org/handbookqa/server/internal/llm"
	"codeberg.org/handbookqa/server/internal/locks"
	"codeberg.org/handbookqa/server/internal/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

const listPageSize = 100

// DeleteCompany removes a company with all of its documents and vectors. It
// takes the same locks as the server, shared through redis when configured.
func DeleteCompany(ctx context.Context, cfg *config.Config, db *pgxpool.Pool, flags config.DeleteCompanyFlags) error {
	if flags.CompanyID <= 0 {
		return fmt.Errorf("--company-id is required")
	}

	if !flags.Confirm {
		return fmt.Errorf("refusing to delete company %d without --yes", flags.CompanyID)
	}

	companyRepo := companies.NewRepository(db)
	documentRepo := documents.NewRepository(db)

	company, err := companyRepo.GetByID(ctx, flags.CompanyID)
	if err != nil {
		return err
	}

	var docs []documents.Document
	for offset := 0; ; offset += listPageSize {
		page, total, err := documentRepo.ListByCompany(ctx, company.ID, listPageSize, offset)
		if err != nil {
			return err
		}

		docs = append(docs, page...)
		if len(page) == 0 || len(docs) >= total {
			break
		}
	}

	gateway, err := newGateway(cfg, db)
	if err != nil {
		return err
	}

	clients, err := llm.NewClients(nil)
	if err != nil {
		return fmt.Errorf("failed to create LLM clients: %w", err)
	}

	var locker locks.Locker = locks.NewKeyed()
	if cfg.RedisURL != "" {
		rdb, err := locks.NewRedisClientFromURL(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close() //nolint:errcheck // best-effort cleanup

		locker = locks.NewRedisLocker(rdb, cfg.RedisLockTTL)
	}

	manager := lifecycle.NewManager(
		documentRepo,
		extract.NewPDFExtractor(),
		chunker.New(chunker.DefaultOptions()),
		clients.Embedder,
		gateway,
		locker,
	)

	warnings, err := manager.DeleteCompany(ctx, company, docs, companyRepo)
	for _, w := range warnings {
		logger.Warn("namespace left behind", "document_id", w.DocumentID, "namespace", w.Namespace, "error", w.Err)
	}

	if err != nil {
		return err
	}

	fmt.Printf("deleted company %s with %d documents\n", company.Slug, len(docs))
	return nil
}
