package faqs

import (
	"context"
	"errors"
	"fmt"

	"codeberg.org/handbookqa/server/internal/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateMany stores all questions of one document in a single transaction
func (r *Repository) CreateMany(ctx context.Context, documentID int64, questions []string) error {
	if len(questions) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			logger.Warn("failed to rollback transaction", "error", err)
		}
	}()

	batch := &pgx.Batch{}
	for _, q := range questions {
		batch.Queue(queryInsert, documentID, q)
	}

	br := tx.SendBatch(ctx, batch)

	for i := range len(questions) {
		if _, err := br.Exec(); err != nil {
			br.Close() //nolint:errcheck,gosec // G104: error path cleanup
			return fmt.Errorf("failed to insert faq %d: %w", i, err)
		}
	}

	// must close batch results before committing, otherwise connection is still "busy"
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *Repository) ListByDocument(ctx context.Context, documentID int64) ([]FAQ, error) {
	rows, err := r.db.Query(ctx, queryListByDocument, documentID)
	if err != nil {
		return nil, err
	}

	faqs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (FAQ, error) {
		var f FAQ
		err := row.Scan(&f.ID, &f.DocumentID, &f.Question, &f.CreatedAt)
		return f, err
	})
	if err != nil {
		return nil, err
	}

	if faqs == nil {
		faqs = []FAQ{}
	}

	return faqs, nil
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, queryCount).Scan(&n)
	return n, err
}
