package vectorstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"codeberg.org/handbookqa/server/internal/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// PgVectorStore keeps namespaces as rows of the handbook_vectors table.
type PgVectorStore struct {
	db *pgxpool.Pool
}

var _ Gateway = (*PgVectorStore)(nil)

func NewPgVectorStore(db *pgxpool.Pool) *PgVectorStore {
	return &PgVectorStore{db: db}
}

// writes all records in a single transaction
func (s *PgVectorStore) Upsert(ctx context.Context, namespace string, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	records = prepareRecords(records)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return wrap(OpUpsert, namespace, fmt.Errorf("failed to begin transaction: %w", err))
	}

	// no-op once committed
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			logger.Warn("failed to rollback transaction", "error", err)
		}
	}()

	batch := &pgx.Batch{}

	for _, r := range records {
		metadata, err := json.Marshal(r.Metadata)
		if err != nil {
			return wrap(OpUpsert, namespace, fmt.Errorf("failed to encode metadata: %w", err))
		}

		batch.Queue(upsertVectorQuery, namespace, r.ID, pgvector.NewVector(r.Vector), string(metadata))
	}

	br := tx.SendBatch(ctx, batch)

	for i := range len(records) {
		if _, err := br.Exec(); err != nil {
			br.Close() //nolint:errcheck,gosec // G104: error path cleanup
			return wrap(OpUpsert, namespace, fmt.Errorf("failed to upsert record %d: %w", i, err))
		}
	}

	if err := br.Close(); err != nil {
		return wrap(OpUpsert, namespace, fmt.Errorf("failed to close batch: %w", err))
	}

	if err := tx.Commit(ctx); err != nil {
		return wrap(OpUpsert, namespace, fmt.Errorf("failed to commit transaction: %w", err))
	}

	return nil
}

func (s *PgVectorStore) Query(ctx context.Context, namespace string, vector []float32, topK int, includeMetadata bool) ([]Match, error) {
	if topK <= 0 {
		return nil, wrap(OpQuery, namespace, ErrInvalidTopK)
	}

	rows, err := s.db.Query(ctx, queryVectorsQuery, namespace, pgvector.NewVector(vector), topK)
	if err != nil {
		return nil, wrap(OpQuery, namespace, err)
	}
	defer rows.Close()

	var matches []Match

	for rows.Next() {
		var (
			m        Match
			metadata string
			score    float64
		)

		if err := rows.Scan(&m.ID, &metadata, &score); err != nil {
			return nil, wrap(OpQuery, namespace, fmt.Errorf("failed to scan match: %w", err))
		}

		m.Score = float32(score)

		if includeMetadata {
			if err := json.Unmarshal([]byte(metadata), &m.Metadata); err != nil {
				return nil, wrap(OpQuery, namespace, fmt.Errorf("failed to decode metadata: %w", err))
			}
		}

		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return nil, wrap(OpQuery, namespace, err)
	}

	return matches, nil
}

func (s *PgVectorStore) DeleteAll(ctx context.Context, namespace string) error {
	if _, err := s.db.Exec(ctx, deleteNamespaceQuery, namespace); err != nil {
		return wrap(OpDeleteAll, namespace, err)
	}

	return nil
}

// scans the namespace directly; one extra row is read to detect overflow
func (s *PgVectorStore) FetchAll(ctx context.Context, namespace string, limit int) ([]Record, error) {
	limit = fetchLimit(limit)

	rows, err := s.db.Query(ctx, fetchNamespaceQuery, namespace, limit+1)
	if err != nil {
		return nil, wrap(OpFetchAll, namespace, err)
	}
	defer rows.Close()

	var records []Record

	for rows.Next() {
		var (
			r        Record
			vec      pgvector.Vector
			metadata string
		)

		if err := rows.Scan(&r.ID, &vec, &metadata); err != nil {
			return nil, wrap(OpFetchAll, namespace, fmt.Errorf("failed to scan record: %w", err))
		}

		if err := json.Unmarshal([]byte(metadata), &r.Metadata); err != nil {
			return nil, wrap(OpFetchAll, namespace, fmt.Errorf("failed to decode metadata: %w", err))
		}

		r.Vector = vec.Slice()
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, wrap(OpFetchAll, namespace, err)
	}

	if len(records) > limit {
		return nil, wrap(OpFetchAll, namespace, fmt.Errorf("%w: more than %d", ErrTooManyRecords, limit))
	}

	return records, nil
}
